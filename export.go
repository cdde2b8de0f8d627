package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var errNothingToExport = errors.New("nothing to export")

const (
	exportPadding    = 40.0
	exportCornerSize = 12.0
	exportFontSize   = 14.0
	exportMaxPixels  = 8192.0
)

// exportVisualTXT writes the board exactly as it is framed on screen,
// without colour, cursor or trail.
func exportVisualTXT(filename string, pins []Pin, v Viewport, width, height int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	c := renderScene(scene{
		width:   max(width, 80),
		height:  max(height, 24),
		layouts: layoutPins(pins, v, ""),
		view:    v,
	})
	for _, line := range c.PlainLines() {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportPNG renders every pin at world scale, cropped to their bounds.
func exportPNG(filename string, pins []Pin) error {
	if len(pins) == 0 {
		return errNothingToExport
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pins {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X+p.Width), math.Max(maxY, p.Y+p.Height)
	}
	minX -= exportPadding
	minY -= exportPadding
	maxX += exportPadding
	maxY += exportPadding

	// Spread-out boards are scaled down rather than producing huge files.
	scale := math.Min(1, exportMaxPixels/math.Max(maxX-minX, maxY-minY))
	dc := gg.NewContext(int(math.Ceil((maxX-minX)*scale)), int(math.Ceil((maxY-minY)*scale)))
	dc.SetColor(color.RGBA{0x05, 0x05, 0x05, 0xff})
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	// gg positions glyphs through the transform but does not scale them.
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    exportFontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.Scale(scale, scale)
	dc.Translate(-minX, -minY)
	drawGridPNG(dc, minX, minY, maxX, maxY)
	for _, p := range pins {
		drawPinPNG(dc, p, scale)
	}
	return dc.SavePNG(filename)
}

func drawGridPNG(dc *gg.Context, minX, minY, maxX, maxY float64) {
	dc.SetColor(color.RGBA{0x55, 0x55, 0x55, 0x66})
	for y := math.Floor(minY/gridSpacing) * gridSpacing; y <= maxY; y += gridSpacing {
		for x := math.Floor(minX/gridSpacing) * gridSpacing; x <= maxX; x += gridSpacing {
			dc.DrawCircle(x, y, 2.5)
		}
	}
	dc.Fill()
}

func drawPinPNG(dc *gg.Context, p Pin, scale float64) {
	accent := parseHexColor(p.Color)

	dc.DrawRoundedRectangle(p.X, p.Y, p.Width, p.Height, exportCornerSize)
	dc.SetColor(color.RGBA{0, 0, 0, 0xe6})
	dc.FillPreserve()
	dc.SetColor(accent)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.Push()
	dc.DrawRoundedRectangle(p.X, p.Y, p.Width, p.Height, exportCornerSize)
	dc.Clip()
	dc.DrawRectangle(p.X, p.Y, p.Width, pinHeaderHeight)
	dc.SetColor(accent)
	dc.Fill()

	if isBrightColor(p.Color) {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(color.White)
	}
	dc.DrawStringAnchored(p.DisplayTitle(), p.X+12, p.Y+pinHeaderHeight/2, 0, 0.35)

	bodyY := p.Y + pinHeaderHeight
	bodyH := p.Height - pinHeaderHeight
	switch p.Kind {
	case PinImage:
		if img, err := loadPinImage(p.Content); err == nil && bodyH > 0 {
			dc.DrawImage(coverImage(img, p.Width, bodyH), int(p.X), int(bodyY))
		}
	default:
		dc.SetColor(color.White)
		lineH := exportFontSize * 1.6
		y := bodyY + 12 + exportFontSize
		for _, line := range dc.WordWrap(strings.ReplaceAll(p.Content, "\t", "    "), (p.Width-24)*scale) {
			if y > p.Y+p.Height-8 {
				break
			}
			dc.DrawString(line, p.X+12, y)
			y += lineH
		}
	}
	dc.Pop()
}

// coverImage scales src to fill w×h, cropping the overflow. The result is in
// world units; the context transform takes it to export pixels.
func coverImage(src image.Image, w, h float64) image.Image {
	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	k := math.Max(w/sw, h/sh)
	cropW, cropH := w/k, h/k
	crop := image.Rect(
		b.Min.X+int((sw-cropW)/2), b.Min.Y+int((sh-cropH)/2),
		b.Min.X+int((sw+cropW)/2), b.Min.Y+int((sh+cropH)/2),
	)
	dst := image.NewRGBA(image.Rect(0, 0, max(int(w), 1), max(int(h), 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

func parseHexColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{r, g, b, 0xff}
}
