// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/console/console.go
// Summary: Line-editing demo interpreter running on the compute goroutine.
// Usage: Pass (*Console).Run to coordinator.Run. It echoes typed lines in a
//        bitmap font, blinks a cursor through timeouts and re-lays out on
//        WINCH.

package console

import (
	"image"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/chrender/fizmo-tcell/internal/coordinator"
	"github.com/chrender/fizmo-tcell/internal/events"
)

// DefaultBlink is the cursor blink interval.
const DefaultBlink = 500 * time.Millisecond

const (
	prompt     = "> "
	maxHistory = 500
)

// Console is a minimal interpreter: a scrollback of committed lines and one
// editable input line.
type Console struct {
	title string
	blink time.Duration
	face  font.Face

	lineHeight int
	ascent     int
	advance    int

	screen coordinator.Screen
	width  int
	height int
	left   int
	right  int

	history  [][]rune
	input    []rune
	pos      int
	cursorOn bool
}

// New returns a console that sets title on start. blink <= 0 disables the
// cursor blink.
func New(title string, blink time.Duration) *Console {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	adv, _ := face.GlyphAdvance('M')
	return &Console{
		title:      title,
		blink:      blink,
		face:       face,
		lineHeight: metrics.Height.Ceil(),
		ascent:     metrics.Ascent.Ceil(),
		advance:    adv.Ceil(),
		cursorOn:   true,
	}
}

// Run is the interpreter main loop.
func (c *Console) Run(s coordinator.Screen) error {
	c.screen = s
	c.layout()
	if c.title != "" {
		if err := s.RequestTitleUpdate(c.title, c.title); err != nil {
			return nil
		}
	}
	s.ConsoleOutput("console: ready")
	c.redraw()
	if err := s.RequestFlush(); err != nil {
		return nil
	}

	for {
		ev := s.GetNextEvent(c.blink, false)
		switch ev.Kind {
		case events.Quit:
			return nil
		case events.Nothing:
			continue
		case events.Timeout:
			c.cursorOn = !c.cursorOn
			c.drawCursor()
		case events.Winch:
			c.layout()
			c.redraw()
		default:
			c.cursorOn = true
			c.edit(ev)
		}
		if err := s.RequestFlush(); err != nil {
			return nil
		}
	}
}

func (c *Console) layout() {
	c.width, c.height = c.screen.Size()
	c.left, c.right = c.screen.Margins()
}

func (c *Console) edit(ev events.Event) {
	switch ev.Kind {
	case events.Input:
		if ev.Rune == '\n' {
			c.commit()
			return
		}
		if ev.Rune == '\t' {
			ev.Rune = ' '
		}
		c.input = append(c.input[:c.pos], append([]rune{ev.Rune}, c.input[c.pos:]...)...)
		c.pos++
	case events.Backspace:
		if c.pos > 0 {
			c.input = append(c.input[:c.pos-1], c.input[c.pos:]...)
			c.pos--
		}
	case events.Delete:
		if c.pos < len(c.input) {
			c.input = append(c.input[:c.pos], c.input[c.pos+1:]...)
		}
	case events.CursorLeft:
		if c.pos > 0 {
			c.pos--
		}
	case events.CursorRight:
		if c.pos < len(c.input) {
			c.pos++
		}
	case events.CtrlA:
		c.pos = 0
	case events.CtrlE:
		c.pos = len(c.input)
	case events.Esc:
		c.input, c.pos = nil, 0
	case events.CtrlL:
		c.history = nil
		c.redraw()
		return
	default:
		return
	}
	c.redrawInput()
}

// commit moves the input line into the scrollback. When the screen is
// already full the old rows are scrolled up in place.
func (c *Console) commit() {
	rows := c.rows()
	before := len(c.lines())
	c.history = append(c.history, append([]rune(prompt), c.input...))
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	c.input, c.pos = nil, 0
	after := len(c.lines())

	shift := after - before
	if before < rows || shift <= 0 || shift >= rows {
		c.redraw()
		return
	}
	top := c.lineHeight * shift
	c.screen.CopyArea(0, 0, 0, top, c.width, (rows-shift)*c.lineHeight)
	lines := c.visible()
	for i := rows - shift - 1; i < len(lines); i++ {
		c.drawRow(i, lines[i])
	}
	c.drawCursor()
}

func (c *Console) rows() int {
	if r := c.height / c.lineHeight; r > 0 {
		return r
	}
	return 1
}

func (c *Console) cols() int {
	if n := (c.width - c.left - c.right) / c.advance; n > 0 {
		return n
	}
	return 1
}

func (c *Console) inputLine() []rune {
	return append([]rune(prompt), c.input...)
}

func (c *Console) lines() [][]rune {
	cols := c.cols()
	var out [][]rune
	for _, h := range c.history {
		out = append(out, wrap(h, cols)...)
	}
	return append(out, wrap(c.inputLine(), cols)...)
}

func (c *Console) visible() [][]rune {
	lines := c.lines()
	if rows := c.rows(); len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return lines
}

func (c *Console) redraw() {
	c.screen.Clear()
	for i, line := range c.visible() {
		c.drawRow(i, line)
	}
	c.drawCursor()
}

// redrawInput repaints the rows the input line may occupy.
func (c *Console) redrawInput() {
	lines := c.visible()
	n := len(wrap(c.inputLine(), c.cols())) + 1
	start := len(lines) - n
	if start < 0 {
		start = 0
	}
	for i := start; i < c.rows(); i++ {
		if i < len(lines) {
			c.drawRow(i, lines[i])
		} else {
			c.clearRow(i)
		}
	}
	c.drawCursor()
}

func (c *Console) clearRow(row int) {
	c.screen.FillArea(0, row*c.lineHeight, c.width, c.lineHeight, c.screen.Background())
}

func (c *Console) drawRow(row int, text []rune) {
	c.clearRow(row)
	if len(text) == 0 {
		return
	}
	w := c.cols() * c.advance
	canvas := image.NewRGBA(image.Rect(0, 0, w, c.lineHeight))
	bg := c.screen.Background()
	for i := 0; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2], canvas.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	d := font.Drawer{Dst: canvas, Src: image.NewUniform(c.screen.Foreground()), Face: c.face}
	col := 0
	for _, r := range text {
		d.Dot = fixed.P(col*c.advance, c.ascent)
		d.DrawString(string(r))
		col += cellWidth(r)
	}
	y := row * c.lineHeight
	c.screen.DrawImage(image.Rect(c.left, y, c.left+w, y+c.lineHeight), canvas, image.Point{})
}

// cursorCell locates the insertion point in visible-row coordinates.
func (c *Console) cursorCell() (row, col int) {
	cols := c.cols()
	prefix := wrap(append([]rune(prompt), c.input[:c.pos]...), cols)
	full := wrap(c.inputLine(), cols)
	last := prefix[len(prefix)-1]
	row, col = len(prefix)-1, width(last)
	if col >= cols {
		row, col = row+1, 0
	}
	visible := len(c.visible())
	return visible - len(full) + row, col
}

func (c *Console) drawCursor() {
	row, col := c.cursorCell()
	if row < 0 || row >= c.rows() {
		return
	}
	colour := c.screen.Background()
	if c.cursorOn {
		colour = c.screen.Foreground()
	}
	x := c.left + col*c.advance
	y := row*c.lineHeight + c.lineHeight - 2
	c.screen.FillArea(x, y, c.advance, 2, colour)
}

func cellWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

func width(line []rune) int {
	n := 0
	for _, r := range line {
		n += cellWidth(r)
	}
	return n
}

// wrap splits text into lines of at most cols cells. The result always has
// at least one line.
func wrap(text []rune, cols int) [][]rune {
	out := [][]rune{}
	line := []rune{}
	used := 0
	for _, r := range text {
		w := cellWidth(r)
		if used+w > cols && used > 0 {
			out = append(out, line)
			line, used = []rune{}, 0
		}
		line = append(line, r)
		used += w
	}
	return append(out, line)
}
