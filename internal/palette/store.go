package palette

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Source opens the palette source of truth for reading.
type Source func() (io.ReadCloser, error)

// FileSource reads the palette from a JSON file on disk.
func FileSource(path string) Source {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// BytesSource serves the palette from an in-memory JSON document.
func BytesSource(b []byte) Source {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}

// Store publishes the active palette to concurrent readers.
//
// A reader that called Get keeps its *Palette for the whole pipeline run;
// Reload builds the replacement completely before swapping it in, so a run
// never observes a half-built palette.
type Store struct {
	src     Source
	current atomic.Pointer[Palette]
	mu      sync.Mutex // serializes loads
}

// NewStore creates a store that loads lazily from src.
func NewStore(src Source) *Store {
	return &Store{src: src}
}

// Get returns the active palette, loading it on first use or after Invalidate.
func (s *Store) Get() (*Palette, error) {
	if p := s.current.Load(); p != nil {
		return p, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.current.Load(); p != nil {
		return p, nil
	}
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current.Store(p)
	return p, nil
}

// Invalidate drops the cached palette. The next Get reloads from the source.
func (s *Store) Invalidate() {
	s.current.Store(nil)
}

// Reload reads the source again and publishes the result. On failure the
// previously active palette stays in place.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}

// Set publishes an already built palette.
func (s *Store) Set(p *Palette) {
	s.current.Store(p)
}

func (s *Store) load() (*Palette, error) {
	if s.src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrPaletteLoad)
	}
	rc, err := s.src()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteLoad, err)
	}
	defer rc.Close()
	return Load(rc)
}
