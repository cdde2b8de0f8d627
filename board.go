package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Board owns the pin collection, the viewport and the undo history. Every
// mutation goes through a method so the persisted blob is rewritten in one
// place.
type Board struct {
	pins    []Pin
	view    Viewport
	history History
	gesture *Gesture
	factory pinFactory
	store   BlobStore
	key     string
	logger  *zap.Logger
}

type BoardOption func(*Board)

func WithPinFactory(f pinFactory) BoardOption {
	return func(b *Board) { b.factory = f }
}

func WithStorageKey(key string) BoardOption {
	return func(b *Board) { b.key = key }
}

func WithLogger(l *zap.Logger) BoardOption {
	return func(b *Board) { b.logger = l }
}

func NewBoard(store BlobStore, opts ...BoardOption) *Board {
	b := &Board{
		pins:    []Pin{},
		view:    defaultViewport(),
		history: newHistory(historyLimit),
		factory: defaultPinFactory(time.Now().UnixNano()),
		store:   store,
		key:     defaultStorageKey,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load reads the persisted board. A missing blob leaves the defaults in
// place; an unreadable or malformed one is logged and also falls back to
// defaults.
func (b *Board) Load(ctx context.Context) {
	raw, err := b.store.Get(ctx, b.key)
	if errors.Is(err, ErrBlobNotFound) {
		b.logger.Info("no saved board, starting empty", zap.String("key", b.key))
		return
	}
	if err != nil {
		b.logger.Warn("failed to read saved board", zap.String("key", b.key), zap.Error(err))
		return
	}
	pins, view, err := decodeBoard(raw)
	if err != nil {
		b.logger.Warn("discarding malformed saved board", zap.String("key", b.key), zap.Error(err))
		return
	}
	b.pins, b.view = pins, view
	b.logger.Info("board loaded", zap.String("key", b.key), zap.Int("pins", len(pins)))
}

// Pins returns the current collection. Callers must treat it as read-only.
func (b *Board) Pins() []Pin { return b.pins }

func (b *Board) View() Viewport { return b.view }

func (b *Board) Pin(id string) (Pin, bool) { return findPin(b.pins, id) }

// HistoryDepth reports the number of undo and redo steps available.
func (b *Board) HistoryDepth() (past, future int) { return b.history.depth() }

// CreatePin adds a pin as its own undoable action and returns its id.
func (b *Board) CreatePin(req newPin) string {
	b.endGesture()
	b.beginUndoableChange()
	pins, id := createPin(b.pins, req, b.factory)
	b.setPins(pins)
	b.logger.Debug("pin created", zap.String("pin_id", id), zap.String("kind", string(req.Kind)))
	return id
}

func (b *Board) DeletePin(id string) {
	if _, ok := b.Pin(id); !ok {
		return
	}
	b.endGesture()
	b.beginUndoableChange()
	b.setPins(deletePin(b.pins, id))
	b.logger.Debug("pin deleted", zap.String("pin_id", id))
}

func (b *Board) SetTitle(id, title string) {
	next := setTitle(b.pins, id, title)
	if sameCollection(next, b.pins) {
		return
	}
	b.endGesture()
	b.beginUndoableChange()
	b.setPins(next)
}

func (b *Board) Undo() {
	b.endGesture()
	pins, ok := b.history.undo(b.pins)
	if !ok {
		return
	}
	b.setPins(pins)
}

func (b *Board) Redo() {
	b.endGesture()
	pins, ok := b.history.redo(b.pins)
	if !ok {
		return
	}
	b.setPins(pins)
}

func (b *Board) Pan(delta point) {
	if delta == (point{}) {
		return
	}
	b.view = panBy(b.view, delta)
	b.commit()
}

func (b *Board) ZoomAt(p point, direction float64) {
	b.view = zoomAt(p, b.view, direction)
	b.commit()
}

// Single-step actions and undo/redo close any open gesture first, so a
// gesture never spans another history entry.

// BeginGesture opens an undo unit for a continuous interaction. The current
// pins are recorded once; while the gesture is open, further calls return the
// same gesture without recording again.
func (b *Board) BeginGesture() *Gesture {
	if b.gesture != nil {
		return b.gesture
	}
	b.beginUndoableChange()
	b.gesture = &Gesture{board: b}
	return b.gesture
}

func (b *Board) endGesture() {
	if b.gesture != nil {
		b.gesture.End()
	}
}

func (b *Board) beginUndoableChange() {
	b.history.record(b.pins)
}

func (b *Board) setPins(pins []Pin) {
	b.pins = pins
	b.commit()
}

// commit persists pins and viewport. Write failures are logged and otherwise
// ignored; the in-memory board stays authoritative.
func (b *Board) commit() {
	raw, err := encodeBoard(b.pins, b.view)
	if err != nil {
		b.logger.Error("failed to encode board", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := b.store.Put(ctx, b.key, raw); err != nil {
		b.logger.Warn("failed to persist board", zap.String("key", b.key), zap.Error(err))
	}
}

// Gesture streams updates that belong to a single undo step, such as the
// moves of one drag or the keystrokes of one editing session.
type Gesture struct {
	board *Board
	done  bool
}

func (g *Gesture) MovePin(id string, pos point) {
	if !g.Active() {
		return
	}
	g.apply(movePin(g.board.pins, id, pos))
}

func (g *Gesture) SetContent(id, content string) {
	if !g.Active() {
		return
	}
	g.apply(setContent(g.board.pins, id, content))
}

func (g *Gesture) apply(next []Pin) {
	if sameCollection(next, g.board.pins) {
		return
	}
	g.board.setPins(next)
}

// End closes the gesture. Later mutations through it are ignored.
func (g *Gesture) End() {
	if !g.Active() {
		return
	}
	g.done = true
	if g.board.gesture == g {
		g.board.gesture = nil
	}
}

func (g *Gesture) Active() bool { return g != nil && !g.done }

func sameCollection(a, b []Pin) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
