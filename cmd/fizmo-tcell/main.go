// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/fizmo-tcell/main.go
// Summary: Command line entry point for the fizmo-tcell frontend.
// Usage: fizmo-tcell [flags] [title]. The UI loop stays on the main OS
//        thread; the console interpreter runs on the compute goroutine.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chrender/fizmo-tcell/config"
	"github.com/chrender/fizmo-tcell/internal/console"
	"github.com/chrender/fizmo-tcell/internal/coordinator"
	"github.com/chrender/fizmo-tcell/internal/events"
	"github.com/chrender/fizmo-tcell/internal/host"
	"github.com/chrender/fizmo-tcell/internal/recorder"
)

func init() {
	runtime.LockOSThread()
}

// Flags holds the command line. Zero values leave the config untouched
// unless the flag was set explicitly.
type Flags struct {
	ConfigPath  string
	ResizeMode  string
	MinWidth    int
	MinHeight   int
	Foreground  string
	Background  string
	LeftMargin  int
	RightMargin int
	Record      bool
	RecordFile  string
	InputFile   string
	Debug       bool
	PanicLog    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fizmo-tcell: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags Flags
	cmd := &cobra.Command{
		Use:   "fizmo-tcell [flags] [title]",
		Short: "Pixel console frontend for a terminal",
		Example: `  # Start with an immediate resize handshake
  fizmo-tcell --resize-mode immediate

  # Record input, then replay it on the next run
  fizmo-tcell --record
  fizmo-tcell --input-file ~/.config/fizmo-tcell/logs/record.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.ConfigPath)
			if err != nil {
				return err
			}
			if err := applyFlags(&cfg, flags, cmd.Flags().Changed); err != nil {
				return err
			}
			title := "fizmo-tcell"
			if len(args) == 1 {
				title = args[0]
			}
			return run(cmd.Context(), cfg, flags, title)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.ConfigPath, "config", "", "Configuration file (default: user config dir)")
	f.StringVar(&flags.ResizeMode, "resize-mode", "", "Resize handshake: deferred or immediate")
	f.IntVar(&flags.MinWidth, "min-width", 0, "Minimum drawable width in pixels")
	f.IntVar(&flags.MinHeight, "min-height", 0, "Minimum drawable height in pixels")
	f.StringVarP(&flags.Foreground, "foreground-color", "f", "", "Foreground colour name")
	f.StringVarP(&flags.Background, "background-color", "b", "", "Background colour name")
	f.IntVar(&flags.LeftMargin, "left-margin", 0, "Left margin in pixels")
	f.IntVar(&flags.RightMargin, "right-margin", 0, "Right margin in pixels")
	f.BoolVar(&flags.Record, "record", false, "Record input to the session database")
	f.StringVar(&flags.RecordFile, "record-file", "", "Session database to record into")
	f.StringVar(&flags.InputFile, "input-file", "", "Replay input from the newest session in this database")
	f.BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug logging")
	f.StringVar(&flags.PanicLog, "panic-log", "", "File to append panic stack traces")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Warnf("fizmo-tcell: using built-in configuration: %v", err)
		return config.Default(), nil
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag for which changed reports true.
func applyFlags(cfg *config.Config, f Flags, changed func(string) bool) error {
	if changed("resize-mode") {
		cfg.Resize.Mode = f.ResizeMode
	}
	if changed("min-width") {
		cfg.Window.MinWidth = f.MinWidth
	}
	if changed("min-height") {
		cfg.Window.MinHeight = f.MinHeight
	}
	if changed("foreground-color") {
		cfg.Colours.Foreground = f.Foreground
	}
	if changed("background-color") {
		cfg.Colours.Background = f.Background
	}
	if changed("left-margin") {
		cfg.Margins.Left = f.LeftMargin
	}
	if changed("right-margin") {
		cfg.Margins.Right = f.RightMargin
	}
	if changed("record") {
		cfg.Recording.Enabled = f.Record
	}
	if changed("record-file") {
		cfg.Recording.Enabled = true
		cfg.Recording.Path = f.RecordFile
	}
	if changed("input-file") {
		cfg.Recording.ReplayPath = f.InputFile
	}
	return cfg.Validate()
}

// coordinatorOptions converts a validated configuration.
func coordinatorOptions(cfg config.Config, title string) (coordinator.Options, error) {
	mode, err := coordinator.ParseResizeMode(cfg.Resize.Mode)
	if err != nil {
		return coordinator.Options{}, err
	}
	fg, err := config.ParseColour(cfg.Colours.Foreground)
	if err != nil {
		return coordinator.Options{}, errors.Wrap(err, "foreground")
	}
	bg, err := config.ParseColour(cfg.Colours.Background)
	if err != nil {
		return coordinator.Options{}, errors.Wrap(err, "background")
	}
	return coordinator.Options{
		ResizeMode:  mode,
		MinWidth:    cfg.Window.MinWidth,
		MinHeight:   cfg.Window.MinHeight,
		Foreground:  fg,
		Background:  bg,
		LeftMargin:  cfg.Margins.Left,
		RightMargin: cfg.Margins.Right,
		Title:       title,
	}, nil
}

func run(ctx context.Context, cfg config.Config, flags Flags, title string) error {
	logDir, err := config.LogDir()
	if err != nil {
		return errors.Wrap(err, "resolve log directory")
	}
	logFile, err := setupLogging(logDir, flags.Debug)
	if err != nil {
		return errors.Wrap(err, "set up logging")
	}
	defer logFile.Close()

	opts, err := coordinatorOptions(cfg, title)
	if err != nil {
		return err
	}
	panicPath := flags.PanicLog
	if panicPath == "" {
		panicPath = filepath.Join(logDir, "panic.log")
	}
	opts.Panics = coordinator.NewPanicLogger(panicPath)

	var replay []events.Event
	if cfg.Recording.ReplayPath != "" {
		if replay, err = recorder.ReadLast(cfg.Recording.ReplayPath); err != nil {
			return err
		}
		log.Infof("fizmo-tcell: replaying %d events from %s", len(replay), cfg.Recording.ReplayPath)
	}
	if cfg.Recording.Enabled {
		path := cfg.Recording.Path
		if path == "" {
			path = filepath.Join(logDir, "record.db")
		}
		rec, err := recorder.Open(path, title)
		if err != nil {
			return err
		}
		defer rec.Close()
		opts.Recorder = rec
	}

	headless := !term.IsTerminal(int(os.Stdout.Fd()))
	screen, err := newTerminal(headless, cfg.Window)
	if err != nil {
		return err
	}
	defer screen.Fini()

	c, err := coordinator.New(opts, screen)
	if err != nil {
		return err
	}
	c.Inject(replay...)
	if headless {
		// Nothing can type into a simulated screen.
		c.Inject(events.Event{Kind: events.Quit})
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := c.Run(ctx, console.New(title, console.DefaultBlink).Run); err != nil {
		log.Errorf("fizmo-tcell: %v", err)
		return err
	}
	log.Info("fizmo-tcell: exited cleanly")
	return nil
}

// newTerminal opens the real terminal, or a simulation screen of the
// configured window size when stdout is not a terminal.
func newTerminal(headless bool, win config.WindowConfig) (*host.Terminal, error) {
	if !headless {
		host.SetScreenFactory(nil)
		return host.NewTerminal()
	}
	log.Infof("fizmo-tcell: no terminal, using a %dx%d simulation screen", win.Width, win.Height)
	host.SetScreenFactory(func() (tcell.Screen, error) {
		return tcell.NewSimulationScreen("UTF-8"), nil
	})
	defer host.SetScreenFactory(nil)
	t, err := host.NewTerminal()
	if err != nil {
		return nil, err
	}
	if sim, ok := t.Screen().(tcell.SimulationScreen); ok {
		sim.SetSize(win.Width, (win.Height+1)/2)
	}
	return t, nil
}

func setupLogging(dir string, debug bool) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filepath.Join(dir, "fizmo-tcell.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return file, nil
}
