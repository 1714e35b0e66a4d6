// Package asset loads tile images asynchronously and serves them to the
// render pipeline through tilemap.ImageSource.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/tilemap"
)

// State is the load state of an image handle.
type State uint8

const (
	// StateUnknown means the handle was never issued.
	StateUnknown State = iota
	// StateLoading means decoding is in progress.
	StateLoading
	// StateReady means the image can be served.
	StateReady
	// StateFailed means loading failed; Err reports why.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrUnknownHandle is returned for handles the server never issued.
var ErrUnknownHandle = errors.New("asset: unknown image handle")

type entry struct {
	path  string
	state State
	img   *image.RGBA
	err   error
	done  chan struct{}
}

// Server owns decoded images. It is safe for concurrent use.
type Server struct {
	fsys fs.FS

	mu      sync.RWMutex
	next    tilemap.ImageHandle
	entries map[tilemap.ImageHandle]*entry
	byPath  map[string]tilemap.ImageHandle
}

var _ tilemap.ImageSource = (*Server)(nil)

// NewServer creates a server reading paths from fsys. fsys may be nil if
// only Insert and LoadReader are used.
func NewServer(fsys fs.FS) *Server {
	return &Server{
		fsys:    fsys,
		entries: make(map[tilemap.ImageHandle]*entry),
		byPath:  make(map[string]tilemap.ImageHandle),
	}
}

func (s *Server) newEntryLocked(path string) (tilemap.ImageHandle, *entry) {
	s.next++
	e := &entry{path: path, state: StateLoading, done: make(chan struct{})}
	s.entries[s.next] = e
	return s.next, e
}

// Load starts decoding path in the background and returns its handle at
// once. Loading the same path twice returns the same handle.
func (s *Server) Load(path string) tilemap.ImageHandle {
	s.mu.Lock()
	if h, ok := s.byPath[path]; ok {
		s.mu.Unlock()
		return h
	}
	h, e := s.newEntryLocked(path)
	s.byPath[path] = h
	s.mu.Unlock()

	go func() {
		img, err := s.readFile(path)
		s.finish(h, e, img, err)
	}()
	return h
}

func (s *Server) readFile(path string) (*image.RGBA, error) {
	if s.fsys == nil {
		return nil, fmt.Errorf("asset: %s: no filesystem configured", path)
	}
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadReader decodes r synchronously.
func (s *Server) LoadReader(r io.Reader) (tilemap.ImageHandle, error) {
	img, _, err := Decode(r)
	if err != nil {
		return 0, err
	}
	return s.Insert(img)
}

// Insert stores an already decoded image.
func (s *Server) Insert(img image.Image) (tilemap.ImageHandle, error) {
	rgba, err := ToRGBA(img)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	h, e := s.newEntryLocked("")
	s.mu.Unlock()
	s.finish(h, e, rgba, nil)
	return h, nil
}

func (s *Server) finish(h tilemap.ImageHandle, e *entry, img *image.RGBA, err error) {
	s.mu.Lock()
	if err != nil {
		e.state, e.err = StateFailed, err
	} else {
		e.state, e.img = StateReady, img
	}
	s.mu.Unlock()
	close(e.done)

	if err != nil {
		tilemap.Logger().Warn("asset: load failed", "handle", h, "path", e.path, "err", err)
		return
	}
	tilemap.Logger().Debug("asset: image ready", "handle", h, "path", e.path,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
}

// State returns the load state of h and the load error for failed handles.
func (s *Server) State(h tilemap.ImageHandle) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	if !ok {
		return StateUnknown, ErrUnknownHandle
	}
	return e.state, e.err
}

// Image implements tilemap.ImageSource. It returns false until the image
// is ready.
func (s *Server) Image(h tilemap.ImageHandle) (*image.RGBA, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	if !ok || e.state != StateReady {
		return nil, false
	}
	return e.img, true
}

// Wait blocks until every handle has finished loading or ctx is done. It
// returns the first load failure.
func (s *Server) Wait(ctx context.Context, hs ...tilemap.ImageHandle) error {
	for _, h := range hs {
		s.mu.RLock()
		e, ok := s.entries[h]
		s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
		}
		select {
		case <-e.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if st, err := s.State(h); st == StateFailed {
			return err
		}
	}
	return nil
}

// LoadAll loads every path and waits for all of them. Handles are
// returned in path order; the error is the first failure encountered.
func (s *Server) LoadAll(ctx context.Context, paths ...string) ([]tilemap.ImageHandle, error) {
	hs := make([]tilemap.ImageHandle, len(paths))
	for i, p := range paths {
		hs[i] = s.Load(p)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, h := range hs {
		g.Go(func() error {
			return s.Wait(gctx, h)
		})
	}
	return hs, g.Wait()
}

// Remove forgets a handle. Textures already uploaded from it are
// unaffected.
func (s *Server) Remove(h tilemap.ImageHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok {
		return false
	}
	delete(s.entries, h)
	if e.path != "" && s.byPath[e.path] == h {
		delete(s.byPath, e.path)
	}
	return true
}
