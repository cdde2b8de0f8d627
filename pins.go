package main

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var errMalformedBoard = errors.New("malformed board")

// pinFactory supplies the non-deterministic parts of a new pin.
type pinFactory struct {
	rng   *rand.Rand
	newID func() string
}

func defaultPinFactory(seed int64) pinFactory {
	return pinFactory{
		rng:   rand.New(rand.NewSource(seed)),
		newID: uuid.NewString,
	}
}

// newPin describes a pin to create. A zero Size selects the default card size.
type newPin struct {
	Kind    PinKind
	Pos     point
	Content string
	Size    size
}

func createPin(pins []Pin, req newPin, f pinFactory) ([]Pin, string) {
	sz := req.Size
	if sz.W <= 0 || sz.H <= 0 {
		sz = size{defaultPinWidth, defaultPinHeight}
	}
	pin := Pin{
		ID:      f.newID(),
		Kind:    req.Kind,
		X:       req.Pos.X,
		Y:       req.Pos.Y,
		Width:   sz.W,
		Height:  sz.H,
		Content: req.Content,
		Title:   strings.ToUpper(string(req.Kind)),
		Color:   pinPalette[f.rng.Intn(len(pinPalette))],
	}
	next := make([]Pin, len(pins), len(pins)+1)
	copy(next, pins)
	return append(next, pin), pin.ID
}

func movePin(pins []Pin, id string, pos point) []Pin {
	return updatePin(pins, id, func(p *Pin) {
		p.X, p.Y = pos.X, pos.Y
	})
}

func setContent(pins []Pin, id, content string) []Pin {
	return updatePin(pins, id, func(p *Pin) {
		p.Content = content
	})
}

// setTitle stores the trimmed, upper-cased title. Blank or unchanged titles
// leave the collection untouched.
func setTitle(pins []Pin, id, title string) []Pin {
	title = strings.ToUpper(strings.TrimSpace(title))
	if p, ok := findPin(pins, id); !ok || title == "" || p.Title == title {
		return pins
	}
	return updatePin(pins, id, func(p *Pin) {
		p.Title = title
	})
}

func deletePin(pins []Pin, id string) []Pin {
	i := pinIndex(pins, id)
	if i < 0 {
		return pins
	}
	return slices.Delete(slices.Clone(pins), i, i+1)
}

// updatePin applies fn to a copy of the matching pin inside a copy of pins.
// An unknown id returns pins unchanged.
func updatePin(pins []Pin, id string, fn func(*Pin)) []Pin {
	i := pinIndex(pins, id)
	if i < 0 {
		return pins
	}
	next := slices.Clone(pins)
	fn(&next[i])
	return next
}

func pinIndex(pins []Pin, id string) int {
	return slices.IndexFunc(pins, func(p Pin) bool { return p.ID == id })
}

func findPin(pins []Pin, id string) (Pin, bool) {
	i := pinIndex(pins, id)
	if i < 0 {
		return Pin{}, false
	}
	return pins[i], true
}

// fitImage converts decoded pixel dimensions to a card size no wider than
// maxImageWidth, preserving the aspect ratio.
func fitImage(width, height int) size {
	if width <= 0 || height <= 0 {
		return size{defaultPinWidth, defaultPinHeight}
	}
	w := min(float64(width), maxImageWidth)
	return size{W: w, H: float64(height) / float64(width) * w}
}

// paintOrder returns pins in the order they are drawn: insertion order, with
// the pin being dragged moved to the end.
func paintOrder(pins []Pin, draggingID string) []Pin {
	i := pinIndex(pins, draggingID)
	if i < 0 || i == len(pins)-1 {
		return pins
	}
	out := make([]Pin, 0, len(pins))
	out = append(out, pins[:i]...)
	out = append(out, pins[i+1:]...)
	return append(out, pins[i])
}

func validatePins(pins []Pin) error {
	seen := make(map[string]struct{}, len(pins))
	for i, p := range pins {
		if p.ID == "" {
			return fmt.Errorf("%w: pin %d has no id", errMalformedBoard, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate pin id %q", errMalformedBoard, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Kind != PinText && p.Kind != PinImage {
			return fmt.Errorf("%w: pin %q has unknown kind %q", errMalformedBoard, p.ID, p.Kind)
		}
		if !(p.Width > 0) || !(p.Height > 0) {
			return fmt.Errorf("%w: pin %q has non-positive size", errMalformedBoard, p.ID)
		}
	}
	return nil
}
