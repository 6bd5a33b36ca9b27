// Package render draws laid-out pages to PNG images.
//
// A Renderer owns one page-sized canvas and its own font faces, so each
// Renderer serves one goroutine at a time. Pool hands Renderers to the
// Saver, which writes batches of pages concurrently.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/alnah/go-chat2png/internal/assets"
	"github.com/alnah/go-chat2png/internal/bubble"
	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/dateutil"
	"github.com/alnah/go-chat2png/internal/fileutil"
	"github.com/alnah/go-chat2png/internal/layout"
	"github.com/alnah/go-chat2png/internal/measure"
)

// Config describes what a Renderer draws with.
type Config struct {
	Metrics    layout.Metrics
	Style      bubble.Style
	Theme      Theme
	Font       *truetype.Font
	Background image.Image // nil = Theme.Background fill
}

// Validate checks that renderers can be built from c.
func (c *Config) Validate() error {
	if c.Font == nil {
		return ErrNoFont
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if _, err := dateutil.Resolve(c.Theme.TimeFormat); err != nil {
		return fmt.Errorf("time format: %w", err)
	}
	if _, err := dateutil.Resolve(c.Theme.LabelFormat); err != nil {
		return fmt.Errorf("label format: %w", err)
	}
	return nil
}

// MaxTextWidth is the widest a line of bubble text may be: three quarters
// of the page's inner width.
func MaxTextWidth(m layout.Metrics) int {
	return int(math.Ceil(0.75 * float64(m.InnerWidth())))
}

// NewMeasurer returns a measurer with the text face and wrap width that
// renderers built from c draw with, so layout and drawing agree.
func NewMeasurer(c Config) *measure.TextMeasurer {
	return measure.NewTextMeasurer(assets.NewFace(c.Font, c.Theme.TextSize), measure.Options{
		LettersPerLine: c.Style.LettersPerLine,
		MaxWidth:       MaxTextWidth(c.Metrics),
	})
}

// BubbleRect returns the box of b with its top edge at y. Primary bubbles are
// right-aligned and Secondary bubbles left-aligned, both inset by the arrow
// width so group starts and continuations share the same edge.
func BubbleRect(m layout.Metrics, s bubble.Style, b *bubble.Bubble, y int) image.Rectangle {
	size := b.Size()
	x0 := m.PadX + s.ArrowWidth
	if b.Sender() == chat.Primary {
		x0 = m.Width - m.PadX - s.ArrowWidth - size.X
	}
	return image.Rect(x0, y, x0+size.X, y+size.Y)
}

// LabelRect returns the box of a date label centred horizontally with its top edge at y.
func LabelRect(m layout.Metrics, y int) image.Rectangle {
	x0 := (m.Width - m.LabelWidth) / 2
	return image.Rect(x0, y, x0+m.LabelWidth, y+m.LabelHeight)
}

// Renderer draws pages onto a reused canvas.
// Not safe for concurrent use.
type Renderer struct {
	cfg         Config
	canvas      *image.RGBA
	dc          *gg.Context
	textFace    font.Face
	timeFace    font.Face
	labelFace   font.Face
	textAscent  int
	timeLayout  string
	labelLayout string
}

// NewRenderer creates a Renderer with its own canvas and faces.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeLayout, _ := dateutil.Resolve(cfg.Theme.TimeFormat)
	labelLayout, _ := dateutil.Resolve(cfg.Theme.LabelFormat)

	canvas := image.NewRGBA(image.Rect(0, 0, cfg.Metrics.Width, cfg.Metrics.Height))
	textFace := assets.NewFace(cfg.Font, cfg.Theme.TextSize)
	return &Renderer{
		cfg:         cfg,
		canvas:      canvas,
		dc:          gg.NewContextForRGBA(canvas),
		textFace:    textFace,
		timeFace:    assets.NewFace(cfg.Font, cfg.Theme.TimeSize),
		labelFace:   assets.NewFace(cfg.Font, cfg.Theme.LabelSize),
		textAscent:  textFace.Metrics().Ascent.Ceil(),
		timeLayout:  timeLayout,
		labelLayout: labelLayout,
	}, nil
}

// Render draws p and returns the canvas. The image is overwritten by the
// next call, so encode it before rendering another page.
// Returns an error wrapping ErrRender and layout.ErrGeometryMismatch when
// the page's planned offsets disagree with a fresh reflow.
func (r *Renderer) Render(p *layout.Page) (image.Image, error) {
	if err := layout.CheckReflow(r.cfg.Metrics, p); err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrRender, p.Number, err)
	}

	r.drawBackground()
	for i, it := range p.Items {
		switch el := it.Element.(type) {
		case *layout.DateLabel:
			r.drawLabel(el, it.Y)
		case *bubble.Bubble:
			r.drawBubble(el, it.Y)
		default:
			return nil, fmt.Errorf("%w %d: item %d has unknown element %T", ErrRender, p.Number, i, el)
		}
	}
	return r.canvas, nil
}

// WritePNG renders p and encodes it as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, p *layout.Page) error {
	if _, err := r.Render(p); err != nil {
		return err
	}
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("%w %d: %v", ErrWritePage, p.Number, err)
	}
	return nil
}

// SavePNG renders p and writes it atomically to path.
func (r *Renderer) SavePNG(path string, p *layout.Page) error {
	err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		return r.WritePNG(w, p)
	})
	if err == nil || errors.Is(err, ErrRender) || errors.Is(err, ErrWritePage) {
		return err
	}
	return fmt.Errorf("%w %d: %v", ErrWritePage, p.Number, err)
}

func (r *Renderer) drawBackground() {
	dc := r.dc
	dc.SetColor(r.cfg.Theme.Background)
	dc.Clear()

	bg := r.cfg.Background
	if bg == nil {
		return
	}
	size := bg.Bounds().Size()
	dc.Push()
	dc.Scale(float64(r.cfg.Metrics.Width)/float64(size.X), float64(r.cfg.Metrics.Height)/float64(size.Y))
	dc.DrawImage(bg, -bg.Bounds().Min.X, -bg.Bounds().Min.Y)
	dc.Pop()
}

func (r *Renderer) drawLabel(d *layout.DateLabel, y int) {
	dc := r.dc
	box := LabelRect(r.cfg.Metrics, y)

	dc.SetColor(r.cfg.Theme.LabelFill)
	dc.DrawRoundedRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()), r.cfg.Theme.LabelRadius)
	dc.Fill()

	dc.SetFontFace(r.labelFace)
	dc.SetColor(r.cfg.Theme.LabelText)
	cx := float64(box.Min.X) + float64(box.Dx())/2
	cy := float64(box.Min.Y) + float64(box.Dy())/2
	dc.DrawStringAnchored(d.Date.Format(r.labelLayout), cx, cy, 0.5, 0.5)
}

func (r *Renderer) drawBubble(b *bubble.Bubble, y int) {
	dc := r.dc
	theme := r.cfg.Theme
	box := BubbleRect(r.cfg.Metrics, r.cfg.Style, b, y)
	x0, y0 := float64(box.Min.X), float64(box.Min.Y)
	x1, y1 := float64(box.Max.X), float64(box.Max.Y)

	fill := theme.SecondaryBubble
	if b.Sender() == chat.Primary {
		fill = theme.PrimaryBubble
	}
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x0, y0, x1-x0, y1-y0, theme.BubbleRadius)
	dc.Fill()

	if !b.Continues {
		r.drawArrow(b.Sender(), x0, x1, y0)
	}

	// Text block centred vertically, lines placed exactly as measured.
	dc.SetFontFace(r.textFace)
	dc.SetColor(theme.Text)
	top := box.Min.Y + (box.Dy()-b.Block.Height)/2
	step := b.Block.LineHeight + b.Block.Spacing
	for i, line := range b.Block.Lines {
		baseline := top + i*step + r.textAscent
		dc.DrawString(line, x0+float64(theme.TextInset), float64(baseline))
	}

	dc.SetFontFace(r.timeFace)
	dc.SetColor(theme.Time)
	dc.DrawStringAnchored(b.Timestamp().Format(r.timeLayout),
		x1-float64(theme.TimeOffset.X), y1-float64(theme.TimeOffset.Y), 1, 0)
}

// drawArrow draws the pointer of a group's first bubble outside the box's
// top corner on the sender's side. The current colour is reused.
func (r *Renderer) drawArrow(sender chat.Participant, x0, x1, y float64) {
	dc := r.dc
	aw := float64(r.cfg.Style.ArrowWidth)
	rad := r.cfg.Theme.BubbleRadius

	if sender == chat.Primary {
		dc.MoveTo(x1-rad, y)
		dc.LineTo(x1+aw, y)
		dc.LineTo(x1-rad, y+rad+aw)
	} else {
		dc.MoveTo(x0+rad, y)
		dc.LineTo(x0-aw, y)
		dc.LineTo(x0+rad, y+rad+aw)
	}
	dc.ClosePath()
	dc.Fill()
}
