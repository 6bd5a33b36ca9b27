// Package layout packs chat bubbles and date labels into fixed-size pages.
//
// The Engine fills one page at a time with a greedy forward pass and no
// backtracking. Sender and date state carries from one page to the next, so
// margins and date labels depend only on the bubble sequence, never on where
// page breaks fall. The Paginator drives the Engine until the bubble source
// is exhausted and hands finished pages to a Dispatcher in batches.
package layout

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-chat2png/internal/bubble"
	"github.com/alnah/go-chat2png/internal/chat"
)

// Sentinel errors for layout operations.
var (
	ErrInvalidMetrics   = errors.New("invalid layout metrics")
	ErrGeometryMismatch = errors.New("render geometry does not match layout plan")
)

// Default page metrics in pixels.
const (
	DefaultPageWidth   = 1080
	DefaultPageHeight  = 1920
	DefaultPadX        = 10
	DefaultPadY        = 30
	DefaultMinMargin   = 5
	DefaultMaxMargin   = 30
	DefaultLabelWidth  = 160
	DefaultLabelHeight = 40
	DefaultLabelMargin = 30
)

// Metrics describes page geometry and spacing rules.
type Metrics struct {
	Width, Height   int
	PadX, PadY      int
	MinMargin       int // above a bubble from the same sender as the previous one
	MaxMargin       int // above a bubble that starts a new sender run
	LabelWidth      int
	LabelHeight     int
	LabelMargin     int  // above and below a date label
	RepeatDateLabel bool // start every page with a label for its first date
}

// DefaultMetrics returns the default page metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		Width:       DefaultPageWidth,
		Height:      DefaultPageHeight,
		PadX:        DefaultPadX,
		PadY:        DefaultPadY,
		MinMargin:   DefaultMinMargin,
		MaxMargin:   DefaultMaxMargin,
		LabelWidth:  DefaultLabelWidth,
		LabelHeight: DefaultLabelHeight,
		LabelMargin: DefaultLabelMargin,
	}
}

// InnerWidth returns the page width minus horizontal padding.
func (m Metrics) InnerWidth() int {
	return m.Width - 2*m.PadX
}

// InnerHeight returns the vertical budget available to elements.
func (m Metrics) InnerHeight() int {
	return m.Height - 2*m.PadY
}

// Validate checks that the metrics describe a usable page.
func (m Metrics) Validate() error {
	switch {
	case m.Width <= 0 || m.Height <= 0:
		return fmt.Errorf("%w: page size %dx%d", ErrInvalidMetrics, m.Width, m.Height)
	case m.PadX < 0 || m.PadY < 0:
		return fmt.Errorf("%w: negative padding", ErrInvalidMetrics)
	case m.InnerWidth() <= 0 || m.InnerHeight() <= 0:
		return fmt.Errorf("%w: padding leaves no room on a %dx%d page", ErrInvalidMetrics, m.Width, m.Height)
	case m.MinMargin < 0 || m.MaxMargin < m.MinMargin:
		return fmt.Errorf("%w: margins must satisfy 0 <= min (%d) <= max (%d)", ErrInvalidMetrics, m.MinMargin, m.MaxMargin)
	case m.LabelWidth <= 0 || m.LabelHeight <= 0 || m.LabelMargin < 0:
		return fmt.Errorf("%w: date label %dx%d margin %d", ErrInvalidMetrics, m.LabelWidth, m.LabelHeight, m.LabelMargin)
	}
	return nil
}

// Element is anything placed on a page: a *bubble.Bubble or a *DateLabel.
type Element interface {
	Size() image.Point
}

// Compile-time interface checks.
var (
	_ Element = (*bubble.Bubble)(nil)
	_ Element = (*DateLabel)(nil)
)

// DateLabel marks the first bubble of a calendar date.
type DateLabel struct {
	Date time.Time
	size image.Point
}

// Size returns the label box size.
func (d *DateLabel) Size() image.Point {
	return d.size
}

// Item is an element with its planned position.
type Item struct {
	Element Element
	Y       int // top edge in page pixels
	Margin  int // gap above the element
}

// Page is an ordered set of placed elements. Every element belongs to exactly one page.
type Page struct {
	Number   int // one-based, assigned by the Paginator
	Items    []Item
	Used     int  // cumulative occupied height
	Budget   int  // inner height the page was packed against
	Overflow bool // holds a single element taller than Budget
}

// Bubbles returns the page's bubbles in order.
func (p *Page) Bubbles() []*bubble.Bubble {
	var out []*bubble.Bubble
	for _, it := range p.Items {
		if b, ok := it.Element.(*bubble.Bubble); ok {
			out = append(out, b)
		}
	}
	return out
}

// BubbleCount returns the number of bubbles on the page, excluding date labels.
func (p *Page) BubbleCount() int {
	return len(p.Bubbles())
}

// Source is a queue of bubbles generated on demand.
type Source interface {
	Peek() (*bubble.Bubble, bool)
	Next() (*bubble.Bubble, bool)
}

var _ Source = (*bubble.Stream)(nil)

// State is the running context carried between pages: the date of the last
// label and the sender of the last placed bubble.
type State struct {
	date      time.Time
	hasDate   bool
	sender    chat.Participant
	hasSender bool
}

// Engine packs bubbles into pages.
type Engine struct {
	metrics Metrics
	logger  *slog.Logger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(m Metrics, logger *slog.Logger) (*Engine, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{metrics: m, logger: logger}, nil
}

// Metrics returns the engine's page metrics.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Fill builds one page from src, consuming exactly the bubbles it places.
//
// A bubble costs its height plus a margin: MaxMargin when it starts a new
// sender run, MinMargin otherwise. When its date differs from the tracked
// date a DateLabel is placed first and costs LabelHeight plus LabelMargin
// above and below. Filling stops before the first bubble that would push
// Used past Budget. If that bubble is the first on the page it is placed
// anyway, alone, and the page is marked Overflow.
func (e *Engine) Fill(src Source, st *State) *Page {
	page := &Page{Budget: e.metrics.InnerHeight()}
	if e.metrics.RepeatDateLabel {
		st.hasDate = false
	}

	for {
		b, ok := src.Peek()
		if !ok {
			break
		}

		margin := e.marginFor(b.Sender(), st)
		need := margin + b.Size().Y
		newDate := !st.hasDate || !chat.SameDay(st.date, b.Timestamp())
		if newDate {
			need += e.labelCost()
		}

		if page.Used+need > page.Budget {
			if len(page.Items) > 0 {
				break
			}
			page.Overflow = true
			e.logger.Warn("element taller than page, placing it alone",
				"height", need, "budget", page.Budget)
		}

		src.Next()
		if newDate {
			e.place(page, e.newLabel(b.Timestamp()), e.metrics.LabelMargin)
			st.date, st.hasDate = b.Timestamp(), true
		}
		e.place(page, b, margin)
		st.sender, st.hasSender = b.Sender(), true

		if page.Overflow {
			break
		}
	}

	return page
}

// marginFor returns the gap above a bubble from sender.
func (e *Engine) marginFor(sender chat.Participant, st *State) int {
	if st.hasSender && st.sender == sender {
		return e.metrics.MinMargin
	}
	return e.metrics.MaxMargin
}

// labelCost is the occupied height of a date label.
func (e *Engine) labelCost() int {
	return 2*e.metrics.LabelMargin + e.metrics.LabelHeight
}

func (e *Engine) newLabel(date time.Time) *DateLabel {
	return &DateLabel{Date: date, size: image.Point{X: e.metrics.LabelWidth, Y: e.metrics.LabelHeight}}
}

// place appends el below the page's current content.
func (e *Engine) place(page *Page, el Element, margin int) {
	y := e.metrics.PadY + page.Used + margin
	page.Items = append(page.Items, Item{Element: el, Y: y, Margin: margin})
	page.Used += occupied(el, margin, e.metrics)
}

// occupied is the vertical space an element takes including its margins.
// Packing and Reflow both use it.
func occupied(el Element, margin int, m Metrics) int {
	h := margin + el.Size().Y
	if _, ok := el.(*DateLabel); ok {
		h += m.LabelMargin
	}
	return h
}

// Reflow recomputes element offsets from the page content alone, taking
// margins from each bubble's continuation flag instead of the packing state.
func Reflow(m Metrics, p *Page) []int {
	offsets := make([]int, len(p.Items))
	cursor := m.PadY
	for i, it := range p.Items {
		margin := m.LabelMargin
		if b, ok := it.Element.(*bubble.Bubble); ok {
			margin = m.MaxMargin
			if b.Continues {
				margin = m.MinMargin
			}
		}
		offsets[i] = cursor + margin
		cursor += occupied(it.Element, margin, m)
	}
	return offsets
}

// CheckReflow returns ErrGeometryMismatch when Reflow disagrees with the planned offsets.
func CheckReflow(m Metrics, p *Page) error {
	for i, y := range Reflow(m, p) {
		if y != p.Items[i].Y {
			return fmt.Errorf("%w: page %d item %d planned at y=%d, reflowed to y=%d",
				ErrGeometryMismatch, p.Number, i, p.Items[i].Y, y)
		}
	}
	return nil
}
