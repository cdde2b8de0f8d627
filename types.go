package main

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

type model struct {
	width          int
	height         int
	board          *Board
	trail          *trailRunner
	config         *Config
	logger         *zap.Logger
	mode           Mode
	help           bool
	helpScroll     int
	pointer        point
	drag           dragState
	pan            panState
	edit           editState
	lastClick      clickState
	errorMessage   string
	successMessage string
	now            func() time.Time
	readClipboard  func() (string, error)
}

type point struct {
	X, Y float64
}

func (p point) Add(q point) point { return point{p.X + q.X, p.Y + q.Y} }

func (p point) Sub(q point) point { return point{p.X - q.X, p.Y - q.Y} }

func (p point) Mul(k float64) point { return point{p.X * k, p.Y * k} }

func (p point) Div(k float64) point { return point{p.X / k, p.Y / k} }

func (p point) Dist(q point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

type size struct {
	W, H float64
}

// Pin is a single note on the board. Pins are values; a collection is never
// modified in place once it has been handed out.
type Pin struct {
	ID      string  `json:"id"`
	Kind    PinKind `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Content string  `json:"content"`
	Title   string  `json:"title,omitempty"`
	Color   string  `json:"color"`
}

func (p Pin) Position() point { return point{p.X, p.Y} }

func (p Pin) Size() size { return size{p.Width, p.Height} }

// DisplayTitle falls back to the kind name for pins stored without a title.
func (p Pin) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return strings.ToUpper(string(p.Kind))
}

// Viewport is the camera: screen = world*Scale + Offset.
type Viewport struct {
	Offset point
	Scale  float64
}

func defaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// boardRecord is the persisted shape of the board.
type boardRecord struct {
	Pins []Pin     `json:"pins"`
	View viewState `json:"view"`
}

type viewState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

type dragState struct {
	id      string
	grab    point
	origin  point
	scale   float64
	gesture *Gesture
}

type panState struct {
	last point
}

type editState struct {
	id        string
	text      string
	cursorPos int
	gesture   *Gesture
}

type clickState struct {
	cellX, cellY int
	at           time.Time
}
