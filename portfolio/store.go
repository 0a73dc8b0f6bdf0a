package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/yamlutil"
)

// Store persists the single portfolio document.
type Store interface {
	// Get returns the document, or ErrNotFound when none was saved yet.
	Get(ctx context.Context) (*Portfolio, error)
	// Put validates and saves p, replacing any previous document, and
	// returns the saved copy with timestamps set.
	Put(ctx context.Context, p *Portfolio) (*Portfolio, error)
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

// stamp sets CreatedAt on first save and UpdatedAt on every save.
func stamp(p *Portfolio, prev *Portfolio, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	switch {
	case prev != nil && !prev.CreatedAt.IsZero():
		p.CreatedAt = prev.CreatedAt
	case p.CreatedAt.IsZero():
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// clone deep-copies through YAML so callers never share slices with the store.
func clone(p *Portfolio) (*Portfolio, error) {
	data, err := yamlutil.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out Portfolio
	if err := yamlutil.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// MemoryStore
// ---------------------------------------------------------------------------

// MemoryStore keeps the document in memory. Useful for tests and demos.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *Portfolio
	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(ctx context.Context) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotFound
	}
	return clone(s.doc)
}

// Put validates and stores a copy of p.
func (s *MemoryStore) Put(ctx context.Context, p *Portfolio) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	saved, err := clone(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(saved, s.doc, s.now())
	s.doc = saved
	return clone(saved)
}

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

// FileStore keeps the document in a YAML file. Writes are atomic, so a
// crash never leaves a half-written document behind.
type FileStore struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

// NewFileStore creates a FileStore backed by path. The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, ErrEmptyStorePath
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Get reads and validates the document from disk.
func (s *FileStore) Get(ctx context.Context) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

// Put validates p and writes it to disk.
func (s *FileStore) Put(ctx context.Context, p *Portfolio) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	saved, err := clone(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	stamp(saved, prev, s.now())

	data, err := yamlutil.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("encoding portfolio: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing portfolio: %w", err)
	}
	return saved, nil
}

// read must be called with mu held.
func (s *FileStore) read() (*Portfolio, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 -- store path is operator-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading portfolio: %w", err)
	}

	var p Portfolio
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreParse, s.path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreParse, s.path, err)
	}
	return &p, nil
}
