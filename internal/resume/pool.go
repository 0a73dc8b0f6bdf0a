package resume

import (
	"context"
	"sync"

	"github.com/alnah/go-folio/portfolio"
)

// generator is what the pool hands out. *Generator satisfies it.
type generator interface {
	Generate(ctx context.Context, p *portfolio.Portfolio) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ generator = (*Generator)(nil)

// Pool manages Generators for concurrent resume requests. Each Generator
// owns its own browser. Generators are created lazily on first acquire to
// avoid launching browsers nobody uses.
type Pool struct {
	size    int
	factory func() (generator, error)
	gens    []generator
	sem     chan generator
	mu      sync.Mutex
	created int
	closed  bool
}

// NewPool creates a pool of up to n Generators built with opts.
// Options are validated once up front.
func NewPool(n int, opts ...Option) (*Pool, error) {
	if _, err := New(opts...); err != nil {
		return nil, err
	}
	return newPool(n, func() (generator, error) { return New(opts...) }), nil
}

func newPool(n int, factory func() (generator, error)) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		size:    n,
		factory: factory,
		gens:    make([]generator, 0, n),
		sem:     make(chan generator, n),
	}
}

// acquire gets an idle generator, creates one if under capacity, or waits
// for a release.
func (p *Pool) acquire(ctx context.Context) (generator, error) {
	select {
	case g, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return g, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		g, err := p.factory()
		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			return nil, err
		}
		if p.closed {
			_ = g.Close()
			return nil, ErrPoolClosed
		}
		p.gens = append(p.gens, g)
		return g, nil
	}
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case g, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return g, nil
	}
}

// release returns a generator to the pool.
func (p *Pool) release(g generator) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- g
	}
}

// Generate prints doc with a pooled Generator, waiting for one if all are busy.
func (p *Pool) Generate(ctx context.Context, doc *portfolio.Portfolio) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilPortfolio
	}
	g, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(g)
	return g.Generate(ctx, doc)
}

// Close releases all browsers. Generators still in use are closed too;
// their in-flight Generate calls fail.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	gens := p.gens
	p.mu.Unlock()

	var lastErr error
	for _, g := range gens {
		if err := g.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}
