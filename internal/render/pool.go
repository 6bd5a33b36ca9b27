package render

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent canvases; each holds a full page of RGBA pixels.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for layout and PNG compression.
	cpuDivisor = 2
)

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware when the CLI runs automaxprocs.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinPoolSize), MaxPoolSize)
}

// Pool manages Renderers for parallel page writes.
// Renderers are created lazily on first acquire so small runs allocate a
// single canvas.
type Pool struct {
	cfg       Config
	size      int
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewPool creates a pool with capacity for n Renderers built from cfg.
// The configuration is validated now so Acquire cannot fail on it later.
func NewPool(n int, cfg Config) (*Pool, error) {
	if n < 0 {
		return nil, ErrInvalidWorkerCount
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &Pool{
		cfg:       cfg,
		size:      n,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
	}, nil
}

// Acquire gets a Renderer from the pool, creating one if needed.
// Blocks if all Renderers are in use. Returns ErrPoolClosed after Close.
func (p *Pool) Acquire() (*Renderer, error) {
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
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

		r, err := NewRenderer(p.cfg)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	r, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return r, nil
}

// Release returns a Renderer to the pool. Renderers released after Close are dropped.
func (p *Pool) Release(r *Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// The channel holds at most size Renderers, so the send never blocks.
	p.sem <- r
}

// Close drops all canvases. Blocked Acquire calls return ErrPoolClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.sem)
	p.renderers = nil
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// Created returns how many Renderers have been built so far.
func (p *Pool) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
