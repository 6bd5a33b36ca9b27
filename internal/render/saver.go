package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-chat2png/internal/fileutil"
	"github.com/alnah/go-chat2png/internal/layout"
)

// Saver writes batches of pages to {dir}/{n}.png using a Pool.
// Implements layout.Dispatcher.
type Saver struct {
	pool    *Pool
	dir     string
	logger  *slog.Logger
	written atomic.Int64
}

// NewSaver creates dir if missing and returns a Saver writing into it.
// A nil logger discards output.
func NewSaver(pool *Pool, dir string, logger *slog.Logger) (*Saver, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: output directory: %w", ErrWritePage, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Saver{pool: pool, dir: dir, logger: logger}, nil
}

// Written returns the number of pages saved so far.
func (s *Saver) Written() int {
	return int(s.written.Load())
}

// Dir returns the output directory.
func (s *Saver) Dir() string {
	return s.dir
}

// batch is the Pending handle of one dispatched batch.
type batch struct {
	done chan struct{}
	err  error
}

// Wait blocks until every page of the batch is written or abandoned.
func (b *batch) Wait() error {
	<-b.done
	return b.err
}

// Dispatch starts writing pages in the background, at most Pool.Size at a
// time, and returns immediately. A failed page does not stop its siblings;
// Wait returns the first failure once all of them have finished. After ctx
// is cancelled no new page is started and Wait reports ctx.Err() unless a
// page failed first.
func (s *Saver) Dispatch(ctx context.Context, pages []*layout.Page) layout.Pending {
	b := &batch{done: make(chan struct{})}

	go func() {
		defer close(b.done)

		var g errgroup.Group
		g.SetLimit(s.pool.Size())
		for _, p := range pages {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				return s.SavePage(p)
			})
		}
		b.err = g.Wait()
		if b.err == nil {
			b.err = ctx.Err()
		}
	}()

	return b
}

// SavePage renders and writes a single page with a pooled Renderer.
func (s *Saver) SavePage(p *layout.Page) error {
	path, err := fileutil.PagePath(s.dir, p.Number)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritePage, err)
	}

	r, err := s.pool.Acquire()
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrRender, p.Number, err)
	}
	defer s.pool.Release(r)

	if err := r.SavePNG(path, p); err != nil {
		s.logger.Error("page failed", "page", p.Number, "path", path, "error", err)
		return err
	}

	s.written.Add(1)
	s.logger.Debug("page written", "page", p.Number, "path", path, "bubbles", p.BubbleCount())
	return nil
}

// Compile-time interface check.
var _ layout.Dispatcher = (*Saver)(nil)
