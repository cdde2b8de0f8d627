package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModePan
	ModeDrag
	ModeEditContent
	ModeEditTitle
	ModeConfirm
)

type ExportType int

const (
	ExportPNG ExportType = iota
	ExportVisualTXT
)

type PinKind string

const (
	PinText  PinKind = "text"
	PinImage PinKind = "image"
)

// Viewport limits.
const (
	minScale      = 0.1
	maxScale      = 5.0
	zoomIntensity = 0.1
)

// Pin geometry, in world units.
const (
	defaultPinWidth  = 250.0
	defaultPinHeight = 180.0
	maxImageWidth    = 500.0
	pinHeaderHeight  = 32.0
	gridSpacing      = 40.0
)

// Terminal cell metrics used to map the character grid onto screen pixels.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	historyLimit      = 50
	defaultStorageKey = "null-void-storage"
	doubleClickWindow = 400 * time.Millisecond
	storeWriteTimeout = 2 * time.Second
)

// Trail physics.
const (
	trailLength     = 100
	trailDecayRate  = 0.02
	trailHeadGain   = 0.6
	trailSpringGain = 0.45
	trailTaper      = 0.9
	trailMinScale   = 0.001
	trailMotionEps  = 1.0
)

// pinPalette holds the accent colours handed out at creation.
var pinPalette = []string{
	"#ff0055",
	"#00ff99",
	"#ffff00",
	"#00ccff",
	"#9d00ff",
	"#ff8800",
}
