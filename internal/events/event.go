// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/events/event.go
// Summary: Abstract input events delivered to the interpreter.
// Usage: Produced on the UI goroutine, consumed by the compute goroutine.

package events

import "fmt"

// Kind identifies an abstract input event.
type Kind int

const (
	Nothing Kind = iota
	Input
	CursorLeft
	CursorRight
	CursorUp
	CursorDown
	PageUp
	PageDown
	Backspace
	Delete
	CtrlA
	CtrlE
	CtrlL
	CtrlR
	Esc
	Timeout
	Winch
	Quit
)

var kindNames = map[Kind]string{
	Nothing:     "NOTHING",
	Input:       "INPUT",
	CursorLeft:  "CURSOR_LEFT",
	CursorRight: "CURSOR_RIGHT",
	CursorUp:    "CURSOR_UP",
	CursorDown:  "CURSOR_DOWN",
	PageUp:      "PAGE_UP",
	PageDown:    "PAGE_DOWN",
	Backspace:   "BACKSPACE",
	Delete:      "DELETE",
	CtrlA:       "CTRL_A",
	CtrlE:       "CTRL_E",
	CtrlL:       "CTRL_L",
	CtrlR:       "CTRL_R",
	Esc:         "ESC",
	Timeout:     "TIMEOUT",
	Winch:       "WINCH",
	Quit:        "QUIT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Nothing, false
}

// Event is a single queued input event. Rune is set for Input, Width and
// Height for Winch.
type Event struct {
	Kind   Kind
	Rune   rune
	Width  int
	Height int

	// gen ties a Timeout to the Arm call that produced it.
	gen uint64
}

// NewInput returns an Input event carrying r.
func NewInput(r rune) Event {
	return Event{Kind: Input, Rune: r}
}

// NewWinch returns a resize notification for the given unscaled size.
func NewWinch(width, height int) Event {
	return Event{Kind: Winch, Width: width, Height: height}
}

// Generation reports the timer arm generation of a Timeout event.
func (e Event) Generation() uint64 {
	return e.gen
}

func (e Event) String() string {
	switch e.Kind {
	case Input:
		return fmt.Sprintf("INPUT(%q)", e.Rune)
	case Winch:
		return fmt.Sprintf("WINCH(%dx%d)", e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}
