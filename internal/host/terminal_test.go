// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrender/fizmo-tcell/internal/events"
)

type recordingHandler struct {
	inputs  []events.Event
	resizes []image.Point
	exposes int
	quits   int
}

func (r *recordingHandler) HandleInput(ev events.Event) { r.inputs = append(r.inputs, ev) }

func (r *recordingHandler) HandleResize(w, h int) error {
	r.resizes = append(r.resizes, image.Pt(w, h))
	return nil
}

func (r *recordingHandler) HandleExpose() error {
	r.exposes++
	return nil
}

func (r *recordingHandler) HandleQuit() { r.quits++ }

func newSimTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	SetScreenFactory(func() (tcell.Screen, error) { return sim, nil })
	t.Cleanup(func() { SetScreenFactory(nil) })

	term, err := NewTerminal()
	require.NoError(t, err)
	t.Cleanup(term.Fini)
	sim.SetSize(cols, rows)
	return term, sim
}

func TestTerminalSizeIsTwoPixelsPerRow(t *testing.T) {
	term, _ := newSimTerminal(t, 40, 12)
	w, h := term.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 24, h)
	assert.Equal(t, 1.0, term.Scale())
}

func TestTerminalPresentPaintsHalfBlocks(t *testing.T) {
	term, sim := newSimTerminal(t, 4, 2)

	tex, err := term.CreateTexture(4, 4)
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	img.SetRGBA(0, 1, color.RGBA{B: 0xff, A: 0xff})
	img.SetRGBA(3, 3, color.RGBA{G: 0xff, A: 0xff})
	require.NoError(t, tex.Update(img))
	require.NoError(t, term.Present(tex))

	tests := []struct {
		name   string
		col    int
		row    int
		fg, bg tcell.Color
	}{
		{name: "top left", col: 0, row: 0, fg: tcell.NewRGBColor(0xff, 0, 0), bg: tcell.NewRGBColor(0, 0, 0xff)},
		{name: "bottom right", col: 3, row: 1, fg: tcell.NewRGBColor(0, 0, 0), bg: tcell.NewRGBColor(0, 0xff, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mainc, _, style, _ := sim.GetContent(tt.col, tt.row)
			assert.Equal(t, HalfBlock, mainc)
			fg, bg, _ := style.Decompose()
			assert.Equal(t, tt.fg, fg)
			assert.Equal(t, tt.bg, bg)
		})
	}
}

func TestTextureRejectsMismatchedUpload(t *testing.T) {
	term, _ := newSimTerminal(t, 4, 2)
	tex, err := term.CreateTexture(4, 4)
	require.NoError(t, err)
	require.Error(t, tex.Update(image.NewRGBA(image.Rect(0, 0, 2, 2))))

	_, err = term.CreateTexture(0, 4)
	require.Error(t, err)
}

func TestTerminalSetTitle(t *testing.T) {
	term, sim := newSimTerminal(t, 4, 2)
	term.SetTitle("Zork I", "zork")
	assert.Equal(t, "Zork I", sim.GetTitle())
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name    string
		ev      tcell.Event
		inputs  []events.Event
		resizes []image.Point
		exposes int
		quits   int
	}{
		{name: "rune", ev: tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), inputs: []events.Event{events.NewInput('a')}},
		{name: "enter", ev: tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), inputs: []events.Event{events.NewInput('\n')}},
		{name: "left", ev: tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), inputs: []events.Event{{Kind: events.CursorLeft}}},
		{name: "backspace2", ev: tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), inputs: []events.Event{{Kind: events.Backspace}}},
		{name: "ctrl-l", ev: tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), inputs: []events.Event{{Kind: events.CtrlL}}},
		{name: "unmapped function key", ev: tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)},
		{name: "ctrl-q quits", ev: tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), quits: 1},
		{name: "resize doubles rows", ev: tcell.NewEventResize(80, 25), resizes: []image.Point{{80, 50}}},
		{name: "focus gained exposes", ev: tcell.NewEventFocus(true), exposes: 1},
		{name: "focus lost ignored", ev: tcell.NewEventFocus(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			require.NoError(t, Dispatch(tt.ev, h))
			assert.Equal(t, tt.inputs, h.inputs)
			assert.Equal(t, tt.resizes, h.resizes)
			assert.Equal(t, tt.exposes, h.exposes)
			assert.Equal(t, tt.quits, h.quits)
		})
	}
}

func TestPumpEventsForwardsUntilCancelled(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 5)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan tcell.Event, 8)
	done := make(chan error, 1)
	go func() { done <- term.PumpEvents(ctx, out) }()

	sim.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)

	require.Eventually(t, func() bool {
		select {
		case ev := <-out:
			key, ok := ev.(*tcell.EventKey)
			return ok && key.Rune() == 'z'
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "key event was not forwarded")

	cancel()
	term.Interrupt()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("PumpEvents did not return after cancellation")
	}
}
