package layout

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Sentinel errors for pagination.
var (
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrNoDispatcher     = errors.New("paginator has no dispatcher")
)

// DefaultBatchSize is the number of pages handed to a Dispatcher at once.
const DefaultBatchSize = 100

// Pending is an in-flight batch. Wait blocks until every page of the batch
// is handled and returns the first error.
type Pending interface {
	Wait() error
}

// Dispatcher hands a batch of finished pages to an asynchronous consumer.
// The pages belong to the consumer after Dispatch returns.
type Dispatcher interface {
	Dispatch(ctx context.Context, pages []*Page) Pending
}

// Stats summarizes a pagination run.
type Stats struct {
	Pages    int
	Bubbles  int
	Labels   int
	Overflow int // pages holding a single oversized element
	Batches  int
}

// PaginatorConfig configures a Paginator.
type PaginatorConfig struct {
	BatchSize  int               // pages per dispatch, 0 = DefaultBatchSize
	Dispatcher Dispatcher        // required by Run
	Progress   func(bubbles int) // called after each page with the running bubble count
	Logger     *slog.Logger      // nil = discard
}

// Paginator drives an Engine until the bubble source is empty.
type Paginator struct {
	engine     *Engine
	batchSize  int
	dispatcher Dispatcher
	progress   func(int)
	logger     *slog.Logger
}

// NewPaginator creates a Paginator around engine.
func NewPaginator(engine *Engine, cfg PaginatorConfig) (*Paginator, error) {
	if cfg.BatchSize < 0 {
		return nil, ErrInvalidBatchSize
	}
	p := &Paginator{
		engine:     engine,
		batchSize:  cfg.BatchSize,
		dispatcher: cfg.Dispatcher,
		progress:   cfg.Progress,
		logger:     cfg.Logger,
	}
	if p.batchSize == 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.progress == nil {
		p.progress = func(int) {}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p, nil
}

// Paginate lays out every bubble and returns the pages without dispatching them.
func (p *Paginator) Paginate(ctx context.Context, src Source) ([]*Page, Stats, error) {
	var (
		pages []*Page
		stats Stats
		st    State
	)
	for {
		if err := ctx.Err(); err != nil {
			return pages, stats, err
		}
		page, ok := p.next(src, &st, &stats)
		if !ok {
			return pages, stats, nil
		}
		pages = append(pages, page)
	}
}

// Run lays out every bubble and dispatches pages in batches of BatchSize.
// Layout of the next batch overlaps with the previous batch's dispatch, but
// a batch is joined before the following one is dispatched, so at most one
// batch is in flight. Every dispatched batch is joined before Run returns.
// The first batch error is returned; later ones are logged. A canceled run
// returns the context error joined with every batch error seen so far.
func (p *Paginator) Run(ctx context.Context, src Source) (Stats, error) {
	if p.dispatcher == nil {
		return Stats{}, ErrNoDispatcher
	}

	var (
		stats   Stats
		st      State
		pending Pending
		errs    []error
	)
	batch := make([]*Page, 0, p.batchSize)

	join := func() {
		if pending == nil {
			return
		}
		if err := pending.Wait(); err != nil {
			errs = append(errs, err)
		}
		pending = nil
	}
	dispatch := func() {
		join()
		pending = p.dispatcher.Dispatch(ctx, batch)
		stats.Batches++
		p.logger.Debug("dispatched batch", "batch", stats.Batches, "pages", len(batch))
		batch = make([]*Page, 0, p.batchSize)
	}

	for {
		if err := ctx.Err(); err != nil {
			join()
			return stats, errors.Join(append([]error{err}, errs...)...)
		}
		page, ok := p.next(src, &st, &stats)
		if !ok {
			break
		}
		batch = append(batch, page)
		if len(batch) == p.batchSize {
			dispatch()
		}
	}
	if len(batch) > 0 {
		dispatch()
	}
	join()

	if len(errs) == 0 {
		return stats, nil
	}
	for _, err := range errs[1:] {
		p.logger.Error("batch failed", "error", err)
	}
	return stats, errs[0]
}

// next fills and numbers one page, updating stats and progress.
func (p *Paginator) next(src Source, st *State, stats *Stats) (*Page, bool) {
	if _, ok := src.Peek(); !ok {
		return nil, false
	}

	page := p.engine.Fill(src, st)
	stats.Pages++
	page.Number = stats.Pages

	bubbles := page.BubbleCount()
	stats.Bubbles += bubbles
	stats.Labels += len(page.Items) - bubbles
	if page.Overflow {
		stats.Overflow++
	}

	p.progress(stats.Bubbles)
	return page, true
}
