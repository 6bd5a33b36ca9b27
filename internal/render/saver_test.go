package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-chat2png/internal/bubble"
	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/layout"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// tallMessages returns n ten-line messages with alternating senders; no two
// fit on one test page, so each gets its own page.
func tallMessages(n int) []chat.Message {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	body := strings.Join(lines, "\n")

	msgs := make([]chat.Message, n)
	for i := range msgs {
		sender := chat.Primary
		if i%2 == 1 {
			sender = chat.Secondary
		}
		msgs[i] = chat.Message{Body: body, Timestamp: day1.Add(time.Duration(i) * time.Minute), Sender: sender}
	}
	return msgs
}

func smallConfig(t *testing.T) Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Metrics.Width, cfg.Metrics.Height = 320, 480
	return cfg
}

func newTestSaver(t *testing.T, cfg Config, workers int, dir string) *Saver {
	t.Helper()
	pool, err := NewPool(workers, cfg)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	t.Cleanup(pool.Close)
	s, err := NewSaver(pool, dir, nil)
	if err != nil {
		t.Fatalf("NewSaver() error = %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Saver
// ---------------------------------------------------------------------------

func TestSaver_150PagesInTwoBatches(t *testing.T) {
	t.Parallel()

	cfg := smallConfig(t)
	dir := filepath.Join(t.TempDir(), "pages")
	saver := newTestSaver(t, cfg, 4, dir)

	engine, err := layout.NewEngine(cfg.Metrics, nil)
	if err != nil {
		t.Fatal(err)
	}
	paginator, err := layout.NewPaginator(engine, layout.PaginatorConfig{BatchSize: 100, Dispatcher: saver})
	if err != nil {
		t.Fatal(err)
	}
	src := bubble.NewStream(tallMessages(150), bubble.NewSplitter(NewMeasurer(cfg), cfg.Style))

	stats, err := paginator.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Pages != 150 || stats.Batches != 2 {
		t.Fatalf("stats = %+v, want 150 pages in 2 batches", stats)
	}
	if saver.Written() != 150 {
		t.Errorf("Written() = %d, want 150", saver.Written())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 150 {
		t.Fatalf("output holds %d files, want 150", len(entries))
	}
	for _, n := range []int{1, 100, 101, 150} {
		assertPNG(t, filepath.Join(dir, fmt.Sprintf("%d.png", n)), cfg.Metrics)
	}
}

func assertPNG(t *testing.T, path string, m layout.Metrics) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
	if img.Bounds().Size() != image.Pt(m.Width, m.Height) {
		t.Errorf("%s size = %v", path, img.Bounds().Size())
	}
}

func TestSaver_FailedPageDoesNotStopSiblings(t *testing.T) {
	t.Parallel()

	cfg := smallConfig(t)
	dir := t.TempDir()
	// A directory where page 3 should go makes its rename fail.
	if err := os.Mkdir(filepath.Join(dir, "3.png"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "3.png", "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	saver := newTestSaver(t, cfg, 2, dir)

	pages := numbered(layoutPages(t, cfg, tallMessages(6)))
	err := saver.Dispatch(context.Background(), pages).Wait()
	if !errors.Is(err, ErrWritePage) {
		t.Fatalf("Wait() error = %v, want ErrWritePage", err)
	}
	if saver.Written() != 5 {
		t.Errorf("Written() = %d, want 5", saver.Written())
	}
	for _, n := range []int{1, 2, 4, 5, 6} {
		assertPNG(t, filepath.Join(dir, fmt.Sprintf("%d.png", n)), cfg.Metrics)
	}
}

func TestSaver_CanceledContext(t *testing.T) {
	t.Parallel()

	cfg := smallConfig(t)
	dir := t.TempDir()
	saver := newTestSaver(t, cfg, 2, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := saver.Dispatch(ctx, numbered(layoutPages(t, cfg, tallMessages(3)))).Wait()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
	if saver.Written() != 0 {
		t.Errorf("Written() = %d after cancellation", saver.Written())
	}
}

func TestSaver_SavePage(t *testing.T) {
	t.Parallel()

	cfg := smallConfig(t)
	dir := filepath.Join(t.TempDir(), "out")
	saver := newTestSaver(t, cfg, 1, dir)
	if saver.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", saver.Dir(), dir)
	}

	pages := numbered(layoutPages(t, cfg, tallMessages(2)))
	if err := saver.SavePage(pages[0]); err != nil {
		t.Fatalf("SavePage() error = %v", err)
	}
	assertPNG(t, filepath.Join(dir, "1.png"), cfg.Metrics)

	// A page that fails to render leaves neither the page nor a temp file.
	pages[1].Items[len(pages[1].Items)-1].Y += 3
	err := saver.SavePage(pages[1])
	if !errors.Is(err, ErrRender) || errors.Is(err, ErrWritePage) {
		t.Errorf("SavePage() error = %v, want ErrRender only", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "1.png" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir holds %v, want only 1.png", names)
	}
}

func TestNewSaver_OutputIsFile(t *testing.T) {
	t.Parallel()

	cfg := smallConfig(t)
	path := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	pool, err := NewPool(1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	if _, err := NewSaver(pool, path, nil); !errors.Is(err, ErrWritePage) {
		t.Errorf("NewSaver() error = %v, want ErrWritePage", err)
	}
}

// numbered assigns page numbers the way the paginator does.
func numbered(pages []*layout.Page) []*layout.Page {
	for i, p := range pages {
		p.Number = i + 1
	}
	return pages
}

// ---------------------------------------------------------------------------
// Pool
// ---------------------------------------------------------------------------

func TestPool_LazyCreation(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(3, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	if pool.Size() != 3 || pool.Created() != 0 {
		t.Fatalf("Size() = %d, Created() = %d", pool.Size(), pool.Created())
	}

	r1, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	pool.Release(r1)
	r2, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 || pool.Created() != 1 {
		t.Errorf("released renderer not reused, created %d", pool.Created())
	}
	pool.Release(r2)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(2, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire()
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			pool.Release(r)
		}()
	}
	wg.Wait()

	if maxSeen > 2 || pool.Created() > 2 {
		t.Errorf("max concurrent = %d, created = %d, want <= 2", maxSeen, pool.Created())
	}
}

func TestPool_Closed(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(1, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	r, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	pool.Close()
	pool.Release(r)
	pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestNewPool_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(-1, testConfig(t)); !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("NewPool(-1) error = %v, want ErrInvalidWorkerCount", err)
	}
	cfg := testConfig(t)
	cfg.Font = nil
	if _, err := NewPool(1, cfg); !errors.Is(err, ErrNoFont) {
		t.Errorf("NewPool(no font) error = %v, want ErrNoFont", err)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("ResolvePoolSize(5) = %d, want 5", got)
	}
	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
}
