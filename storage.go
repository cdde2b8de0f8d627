package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// ErrBlobNotFound is returned by a BlobStore when the key has never been
// written.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the key-value backend the board reads once at startup and
// writes after every committed mutation.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

func openBlobStore(ctx context.Context, cfg StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "file":
		return newFileStore(cfg.Path)
	case "sqlite":
		return newSQLiteStore(ctx, cfg.Path)
	case "redis":
		return newRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return newMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

type memoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *memoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStore) Close() error { return nil }

// fileStore keeps one JSON file per key inside a directory.
type fileStore struct {
	dir string
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func newFileStore(dir string) (*fileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", key, err)
	}
	return b, nil
}

// Put writes through a temp file and rename so a crash never leaves a torn
// blob behind.
func (s *fileStore) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("file store: rename %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }

func encodeBoard(pins []Pin, v Viewport) ([]byte, error) {
	if pins == nil {
		pins = []Pin{}
	}
	return json.Marshal(boardRecord{
		Pins: pins,
		View: viewState{X: v.Offset.X, Y: v.Offset.Y, Scale: v.Scale},
	})
}

// decodeBoard parses a persisted record, rejecting anything that would break
// the board's invariants.
func decodeBoard(b []byte) ([]Pin, Viewport, error) {
	var rec boardRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, Viewport{}, fmt.Errorf("%w: %v", errMalformedBoard, err)
	}
	if err := validatePins(rec.Pins); err != nil {
		return nil, Viewport{}, err
	}
	v := defaultViewport()
	if rec.View.Scale != 0 {
		if rec.View.Scale < minScale || rec.View.Scale > maxScale {
			return nil, Viewport{}, fmt.Errorf("%w: scale %v out of range", errMalformedBoard, rec.View.Scale)
		}
		v = Viewport{Offset: point{rec.View.X, rec.View.Y}, Scale: rec.View.Scale}
	}
	if rec.Pins == nil {
		rec.Pins = []Pin{}
	}
	return rec.Pins, v, nil
}
