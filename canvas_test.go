package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPin(id string, x, y float64) Pin {
	return Pin{
		ID: id, Kind: PinText, X: x, Y: y,
		Width: defaultPinWidth, Height: defaultPinHeight,
		Title: "TEXT", Color: "#00ccff",
	}
}

func TestLayoutPin(t *testing.T) {
	t.Parallel()

	l := layoutPin(textPin("a", 0, 0), defaultViewport())
	assert.Equal(t, 0, l.x0)
	assert.Equal(t, 0, l.y0)
	assert.Equal(t, 31, l.x1)
	assert.Equal(t, 11, l.y1)
	assert.Equal(t, 1, l.headerEnd)
	assert.Equal(t, 30, l.closeX)
	assert.Equal(t, 5, l.titleEnd)
}

func TestLayoutPin_FollowsViewport(t *testing.T) {
	t.Parallel()

	v := Viewport{Offset: point{80, 32}, Scale: 2}
	l := layoutPin(textPin("a", 0, 0), v)
	assert.Equal(t, 10, l.x0)
	assert.Equal(t, 2, l.y0)
	assert.Equal(t, 10+62, l.x1)
	assert.Equal(t, 2+22, l.y1)
}

func TestLayoutPin_TinyZoomKeepsMinimumFootprint(t *testing.T) {
	t.Parallel()

	l := layoutPin(textPin("a", 0, 0), Viewport{Scale: minScale})
	assert.GreaterOrEqual(t, l.x1-l.x0, 3)
	assert.GreaterOrEqual(t, l.y1-l.y0, 2)
	assert.Less(t, l.headerEnd, l.y1)
}

func TestPinLayout_RegionAt(t *testing.T) {
	t.Parallel()

	l := layoutPin(textPin("a", 0, 0), defaultViewport())
	tests := []struct {
		name string
		x, y int
		want pinRegion
	}{
		{name: "close button", x: 30, y: 0, want: regionClose},
		{name: "title text", x: 2, y: 0, want: regionTitle},
		{name: "header left edge", x: 0, y: 0, want: regionHeader},
		{name: "header after title", x: 10, y: 0, want: regionHeader},
		{name: "second header row", x: 10, y: 1, want: regionHeader},
		{name: "body", x: 10, y: 5, want: regionBody},
		{name: "bottom border", x: 31, y: 11, want: regionBody},
		{name: "outside right", x: 32, y: 5, want: regionNone},
		{name: "outside below", x: 5, y: 12, want: regionNone},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, l.regionAt(tt.x, tt.y))
		})
	}
}

func TestHitTest_TopmostWins(t *testing.T) {
	t.Parallel()

	pins := []Pin{textPin("under", 0, 0), textPin("over", 40, 40)}
	layouts := layoutPins(pins, defaultViewport(), "")

	l, region := hitTest(layouts, 10, 5)
	assert.Equal(t, "over", l.pin.ID)
	assert.Equal(t, regionBody, region)

	// Dragging brings a pin to the top.
	layouts = layoutPins(pins, defaultViewport(), "under")
	l, _ = hitTest(layouts, 10, 5)
	assert.Equal(t, "under", l.pin.ID)

	_, region = hitTest(layouts, 100, 100)
	assert.Equal(t, regionNone, region)
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	lines, _, _ := wrapText("hello world", 5, -1)
	assert.Equal(t, []string{"hello", " worl", "d"}, lines)

	lines, cl, cc := wrapText("abc\ndef", 10, 5)
	assert.Equal(t, []string{"abc", "def"}, lines)
	assert.Equal(t, 1, cl)
	assert.Equal(t, 1, cc)

	lines, cl, cc = wrapText("", 10, 0)
	assert.Equal(t, []string{""}, lines)
	assert.Equal(t, 0, cl)
	assert.Equal(t, 0, cc)

	_, cl, cc = wrapText("abcde", 5, 5)
	assert.Equal(t, 0, cl)
	assert.Equal(t, 5, cc)
}

func TestIsBrightColor(t *testing.T) {
	t.Parallel()

	assert.True(t, isBrightColor("#ffff00"))
	assert.True(t, isBrightColor("#00ff99"))
	assert.False(t, isBrightColor("#9d00ff"))
	assert.False(t, isBrightColor("#ff0055"))
	assert.False(t, isBrightColor("bogus"))
	assert.Equal(t, "#000000", headerTextColor("#ffff00"))
	assert.Equal(t, "#ffffff", headerTextColor("#9d00ff"))
}

func TestRenderScene_DrawsPin(t *testing.T) {
	t.Parallel()

	p := textPin("a", 16, 32)
	sc := scene{
		width:   60,
		height:  20,
		layouts: layoutPins([]Pin{p}, defaultViewport(), ""),
		view:    defaultViewport(),
	}
	lines := renderScene(sc).PlainLines()
	require.Len(t, lines, 20)
	assert.Contains(t, lines[2], " TEXT")
	assert.Contains(t, lines[2], "✕")
	assert.Contains(t, lines[4], "Type something...")
	assert.Contains(t, lines[13], "╰")
}

func TestRenderScene_EditCursorAndTitle(t *testing.T) {
	t.Parallel()

	p := textPin("a", 0, 0)
	p.Content = "draft"
	sc := scene{
		width:      40,
		height:     14,
		layouts:    layoutPins([]Pin{p}, defaultViewport(), ""),
		view:       defaultViewport(),
		editID:     "a",
		editCursor: 5,
		showCursor: true,
	}
	lines := renderScene(sc).PlainLines()
	assert.Contains(t, lines[2], "draft█")
	assert.NotContains(t, strings.Join(lines, "\n"), "Type something")

	sc.titleEditing = true
	sc.editText = "IDE"
	sc.editCursor = 3
	lines = renderScene(sc).PlainLines()
	assert.Contains(t, lines[0], "IDE█")
}

func TestRenderScene_GridHiddenWhenZoomedOut(t *testing.T) {
	t.Parallel()

	lines := renderScene(scene{width: 30, height: 10, view: Viewport{Scale: minScale}}).PlainLines()
	for _, line := range lines {
		assert.Empty(t, line)
	}

	lines = renderScene(scene{width: 30, height: 10, view: defaultViewport()}).PlainLines()
	assert.Contains(t, strings.Join(lines, ""), "·")
}

func TestRenderScene_ImagePlaceholder(t *testing.T) {
	t.Parallel()

	p := Pin{ID: "i", Kind: PinImage, Width: 500, Height: 250, Title: "IMAGE", Color: "#ff8800"}
	lines := renderScene(scene{
		width:   80,
		height:  20,
		layouts: layoutPins([]Pin{p}, defaultViewport(), ""),
		view:    defaultViewport(),
	}).PlainLines()
	assert.Contains(t, strings.Join(lines, "\n"), "image 500×250")
	assert.Contains(t, lines[3], "░")
}

func TestCanvas_LinesStyleRuns(t *testing.T) {
	t.Parallel()

	c := NewCanvas(4, 1)
	c.Set(1, 0, 'x', cellStyle{fg: "#ff0055"})
	c.Set(9, 9, 'y', cellStyle{})
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "x")
	assert.Equal(t, []string{" x"}, c.PlainLines())
}
