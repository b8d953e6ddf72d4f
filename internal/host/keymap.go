// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/host/keymap.go
// Summary: Raw tcell events to Handler calls and abstract input events.

package host

import (
	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/chrender/fizmo-tcell/internal/events"
)

var keyKinds = map[tcell.Key]events.Kind{
	tcell.KeyLeft:      events.CursorLeft,
	tcell.KeyRight:     events.CursorRight,
	tcell.KeyUp:        events.CursorUp,
	tcell.KeyDown:      events.CursorDown,
	tcell.KeyPgUp:      events.PageUp,
	tcell.KeyPgDn:      events.PageDown,
	tcell.KeyBackspace: events.Backspace,
	tcell.KeyDelete:    events.Delete,
	tcell.KeyCtrlA:     events.CtrlA,
	tcell.KeyCtrlE:     events.CtrlE,
	tcell.KeyCtrlL:     events.CtrlL,
	tcell.KeyCtrlR:     events.CtrlR,
	tcell.KeyEscape:    events.Esc,
	tcell.KeyCtrlQ:     events.Quit,
	tcell.KeyCtrlC:     events.Quit,
}

// TranslateKey maps a key press to an abstract event. ok is false for keys
// the interpreter has no use for.
func TranslateKey(ev *tcell.EventKey) (events.Event, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return events.NewInput(ev.Rune()), true
	case tcell.KeyEnter:
		return events.NewInput('\n'), true
	case tcell.KeyTab:
		return events.NewInput('\t'), true
	}
	if kind, ok := keyKinds[ev.Key()]; ok {
		return events.Event{Kind: kind}, true
	}
	return events.Event{}, false
}

// Dispatch translates a raw event and calls the matching Handler method. It
// returns an error only for fatal conditions raised by h.
func Dispatch(ev tcell.Event, h Handler) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		cols, rows := e.Size()
		return h.HandleResize(cols, rows*2)
	case *tcell.EventFocus:
		if e.Focused {
			return h.HandleExpose()
		}
	case *tcell.EventKey:
		translated, ok := TranslateKey(e)
		if !ok {
			return nil
		}
		if translated.Kind == events.Quit {
			h.HandleQuit()
			return nil
		}
		h.HandleInput(translated)
	case *tcell.EventError:
		log.Warnf("host: terminal error: %v", e)
	}
	return nil
}
