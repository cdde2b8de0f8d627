package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle struct {
	fg, bg string
	bold   bool
}

type cell struct {
	r     rune
	style cellStyle
}

// Canvas is a character grid with per-cell colours.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	styles map[cellStyle]lipgloss.Style
}

func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 1), max(height, 1)
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &Canvas{width: width, height: height, cells: cells, styles: make(map[cellStyle]lipgloss.Style)}
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < c.height && x >= 0 && x < c.width
}

func (c *Canvas) Set(x, y int, r rune, st cellStyle) {
	if c.isValidPos(x, y) {
		c.cells[y][x] = cell{r: r, style: st}
	}
}

// WriteText draws s starting at (x, y), stopping before column limit.
func (c *Canvas) WriteText(x, y int, s string, st cellStyle, limit int) int {
	for _, r := range s {
		if x >= limit {
			break
		}
		c.Set(x, y, r, st)
		x++
	}
	return x
}

// Lines renders the grid with ANSI styling, one string per row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.height)
	var b strings.Builder
	for y, row := range c.cells {
		b.Reset()
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			b.WriteString(c.renderRun(row[start:x]))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// PlainLines renders the grid without colour.
func (c *Canvas) PlainLines() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		runes := make([]rune, len(row))
		for x, cl := range row {
			runes[x] = cl.r
		}
		out[y] = strings.TrimRight(string(runes), " ")
	}
	return out
}

func (c *Canvas) renderRun(run []cell) string {
	runes := make([]rune, len(run))
	for i, cl := range run {
		runes[i] = cl.r
	}
	st := run[0].style
	if st == (cellStyle{}) {
		return string(runes)
	}
	style, ok := c.styles[st]
	if !ok {
		style = lipgloss.NewStyle().Bold(st.bold)
		if st.fg != "" {
			style = style.Foreground(lipgloss.Color(st.fg))
		}
		if st.bg != "" {
			style = style.Background(lipgloss.Color(st.bg))
		}
		c.styles[st] = style
	}
	return style.Render(string(runes))
}

type pinRegion int

const (
	regionNone pinRegion = iota
	regionBody
	regionHeader
	regionTitle
	regionClose
)

// pinLayout is a pin's footprint on the terminal grid. Bounds are inclusive.
// Rendering and hit testing share it so clicks land on what is drawn.
type pinLayout struct {
	pin       Pin
	x0, y0    int
	x1, y1    int
	headerEnd int
	titleEnd  int
	closeX    int
}

func layoutPin(p Pin, v Viewport) pinLayout {
	tl := toScreen(p.Position(), v)
	br := toScreen(p.Position().Add(point{p.Width, p.Height}), v)
	l := pinLayout{pin: p}
	l.x0, l.y0 = screenToCell(tl)
	l.x1 = max(int(math.Ceil(br.X/cellWidth))-1, l.x0+3)
	l.y1 = max(int(math.Ceil(br.Y/cellHeight))-1, l.y0+2)
	header := int(math.Ceil((tl.Y+pinHeaderHeight*v.Scale)/cellHeight)) - 1
	l.headerEnd = min(max(header, l.y0), l.y1-1)
	l.closeX = l.x1 - 1
	l.titleEnd = min(l.x0+1+len([]rune(p.DisplayTitle())), l.closeX-1)
	return l
}

func (l pinLayout) regionAt(x, y int) pinRegion {
	if x < l.x0 || x > l.x1 || y < l.y0 || y > l.y1 {
		return regionNone
	}
	if y > l.headerEnd {
		return regionBody
	}
	switch {
	case y == l.y0 && x == l.closeX:
		return regionClose
	case y == l.y0 && x > l.x0 && x < l.titleEnd:
		return regionTitle
	default:
		return regionHeader
	}
}

// hitTest finds the topmost pin under a cell. layouts are in paint order.
func hitTest(layouts []pinLayout, x, y int) (pinLayout, pinRegion) {
	for i := len(layouts) - 1; i >= 0; i-- {
		if r := layouts[i].regionAt(x, y); r != regionNone {
			return layouts[i], r
		}
	}
	return pinLayout{}, regionNone
}

func layoutPins(pins []Pin, v Viewport, draggingID string) []pinLayout {
	ordered := paintOrder(pins, draggingID)
	out := make([]pinLayout, len(ordered))
	for i, p := range ordered {
		out[i] = layoutPin(p, v)
	}
	return out
}

// scene is everything the renderer needs for one frame.
type scene struct {
	width, height int
	layouts       []pinLayout
	view          Viewport
	pointer       point
	trail         []trailSegment
	editID        string
	editText      string
	editCursor    int
	titleEditing  bool
	showCursor    bool
}

func renderScene(sc scene) *Canvas {
	c := NewCanvas(sc.width, sc.height)
	c.drawGrid(sc.view, sc.pointer)
	for _, l := range sc.layouts {
		c.drawPin(l, sc)
	}
	c.drawTrail(sc.trail)
	return c
}

var (
	gridStyle  = cellStyle{fg: "#555555"}
	trailStyle = cellStyle{fg: "#ffffff", bold: true}
	bodyStyle  = cellStyle{fg: "#ffffff"}
	hintStyle  = cellStyle{fg: "#777777"}
)

// drawGrid draws the dotted background. The dots drift slightly with the
// pointer and are skipped when zoomed out far enough to crowd the cells.
func (c *Canvas) drawGrid(v Viewport, pointer point) {
	step := gridSpacing * v.Scale
	if step < cellWidth {
		return
	}
	shift := pointer.Div(40)
	origin := toWorld(point{}, v)
	startX := math.Floor(origin.X/gridSpacing) * gridSpacing
	startY := math.Floor(origin.Y/gridSpacing) * gridSpacing
	maxX := float64(c.width) * cellWidth
	maxY := float64(c.height) * cellHeight
	for wy := startY; ; wy += gridSpacing {
		sy := wy*v.Scale + v.Offset.Y + shift.Y
		if sy > maxY {
			break
		}
		for wx := startX; ; wx += gridSpacing {
			sx := wx*v.Scale + v.Offset.X + shift.X
			if sx > maxX {
				break
			}
			x, y := screenToCell(point{sx, sy})
			c.Set(x, y, '·', gridStyle)
		}
	}
}

func (c *Canvas) drawPin(l pinLayout, sc scene) {
	p := l.pin
	border := cellStyle{fg: p.Color}
	header := cellStyle{fg: headerTextColor(p.Color), bg: p.Color, bold: true}

	for y := l.y0; y <= l.y1; y++ {
		for x := l.x0; x <= l.x1; x++ {
			switch {
			case y <= l.headerEnd:
				c.Set(x, y, ' ', header)
			case y == l.y1 && x == l.x0:
				c.Set(x, y, '╰', border)
			case y == l.y1 && x == l.x1:
				c.Set(x, y, '╯', border)
			case y == l.y1:
				c.Set(x, y, '─', border)
			case x == l.x0 || x == l.x1:
				c.Set(x, y, '│', border)
			default:
				c.Set(x, y, ' ', cellStyle{})
			}
		}
	}

	editing := sc.editID == p.ID
	title := p.DisplayTitle()
	if editing && sc.titleEditing {
		title = sc.editText
	}
	end := c.WriteText(l.x0+1, l.y0, title, header, l.closeX)
	if editing && sc.titleEditing && sc.showCursor {
		c.Set(min(l.x0+1+sc.editCursor, end), l.y0, '█', header)
	}
	c.Set(l.closeX, l.y0, '✕', header)

	innerW := l.x1 - l.x0 - 1
	top := l.headerEnd + 1
	rows := l.y1 - top
	if innerW <= 0 || rows <= 0 {
		return
	}
	switch p.Kind {
	case PinImage:
		c.drawImagePlaceholder(l, top, innerW, rows)
	default:
		cursor := -1
		if editing && !sc.titleEditing && sc.showCursor {
			cursor = sc.editCursor
		}
		lines, cl, cc := wrapText(p.Content, innerW, cursor)
		if p.Content == "" && cursor < 0 {
			c.WriteText(l.x0+1, top, "Type something...", hintStyle, l.x1)
		}
		for i := 0; i < len(lines) && i < rows; i++ {
			c.WriteText(l.x0+1, top+i, lines[i], bodyStyle, l.x1)
		}
		if cc >= innerW {
			cl, cc = cl+1, 0
		}
		if cursor >= 0 && cl < rows {
			c.Set(l.x0+1+cc, top+cl, '█', bodyStyle)
		}
	}
}

func (c *Canvas) drawImagePlaceholder(l pinLayout, top, innerW, rows int) {
	shade := cellStyle{fg: l.pin.Color}
	for y := top; y < top+rows; y++ {
		for x := l.x0 + 1; x < l.x1; x++ {
			c.Set(x, y, '░', shade)
		}
	}
	label := fmt.Sprintf(" image %.0f×%.0f ", l.pin.Width, l.pin.Height)
	n := len([]rune(label))
	x := l.x0 + 1 + max((innerW-n)/2, 0)
	c.WriteText(x, top+rows/2, label, bodyStyle, l.x1)
}

// drawTrail paints the chain tail first so the head ends up on top.
func (c *Canvas) drawTrail(segments []trailSegment) {
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s.Scale <= 0 {
			continue
		}
		x, y := screenToCell(s.Pos)
		c.Set(x, y, trailGlyph(s.Scale), trailStyle)
	}
}

func trailGlyph(scale float64) rune {
	switch {
	case scale > 0.66:
		return '●'
	case scale > 0.33:
		return '•'
	default:
		return '·'
	}
}

// wrapText hard-wraps text to width columns. When cursor is a rune offset
// into text, its wrapped line and column are returned as well.
func wrapText(text string, width, cursor int) (lines []string, cursorLine, cursorCol int) {
	var line []rune
	pos := 0
	mark := func() {
		if pos == cursor {
			cursorLine, cursorCol = len(lines), len(line)
		}
	}
	for _, r := range text {
		mark()
		if r == '\n' {
			lines = append(lines, string(line))
			line = nil
		} else {
			if len(line) >= width {
				lines = append(lines, string(line))
				line = nil
			}
			line = append(line, r)
		}
		pos++
	}
	mark()
	lines = append(lines, string(line))
	return lines, cursorLine, cursorCol
}

// headerTextColor picks dark text for bright accent colours.
func headerTextColor(hex string) string {
	if isBrightColor(hex) {
		return "#000000"
	}
	return "#ffffff"
}

func isBrightColor(hex string) bool {
	rgb, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return false
	}
	r := float64((rgb >> 16) & 0xff)
	g := float64((rgb >> 8) & 0xff)
	b := float64(rgb & 0xff)
	return 0.2126*r+0.7152*g+0.0722*b > 140
}
