// Package bubble turns messages into chat bubbles, splitting messages that
// are too tall for a single bubble into continuation fragments.
package bubble

import (
	"image"
	"strings"
	"time"

	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/measure"
)

// Default bubble geometry in pixels.
const (
	DefaultPadX       = 106 // horizontal box padding, leaves room for the timestamp
	DefaultPadY       = 32
	DefaultArrowWidth = 12
	DefaultMaxHeight  = 600
)

// Style holds the bubble geometry shared by splitting, layout, and rendering.
type Style struct {
	PadX           int
	PadY           int
	ArrowWidth     int
	MaxHeight      int // a bubble must stay below this height
	LettersPerLine int
}

// DefaultStyle returns the default bubble geometry.
func DefaultStyle() Style {
	return Style{
		PadX:           DefaultPadX,
		PadY:           DefaultPadY,
		ArrowWidth:     DefaultArrowWidth,
		MaxHeight:      DefaultMaxHeight,
		LettersPerLine: measure.DefaultLettersPerLine,
	}
}

// BoxSize returns the size of the bubble box around a text block.
// The pointer arrow is drawn outside the box and is not included.
func (s Style) BoxSize(b measure.Block) image.Point {
	return image.Point{X: b.Width + s.PadX, Y: b.Height + s.PadY}
}

// Bubble is one rendering unit: a whole message or a fragment of one.
type Bubble struct {
	Message   chat.Message
	Body      string // text drawn in this bubble
	Continues bool   // same sender as the previous bubble: no arrow, minimum margin
	Fragment  int    // zero-based fragment index
	Fragments int    // fragments the message was split into
	Block     measure.Block
	size      image.Point
}

// Size returns the box size of the bubble.
func (b *Bubble) Size() image.Point {
	return b.size
}

// Sender returns the participant who sent the message.
func (b *Bubble) Sender() chat.Participant {
	return b.Message.Sender
}

// Timestamp returns the delivery time of the message.
func (b *Bubble) Timestamp() time.Time {
	return b.Message.Timestamp
}

// Splitter breaks messages into bubbles that stay below the style's MaxHeight.
type Splitter struct {
	measurer measure.Measurer
	style    Style
}

// NewSplitter creates a Splitter using m for all height decisions.
func NewSplitter(m measure.Measurer, style Style) *Splitter {
	if style.LettersPerLine <= 0 {
		style.LettersPerLine = measure.DefaultLettersPerLine
	}
	return &Splitter{measurer: m, style: style}
}

// Style returns the splitter's bubble geometry.
func (s *Splitter) Style() Style {
	return s.style
}

// Split wraps the message body into character rows and accumulates rows into
// fragments. Each row is measured once and stacked onto the open fragment's
// block. A fragment is closed when adding the next row would bring its box
// height to MaxHeight or above; that row opens the next fragment. Every
// message goes through Split, and one whose box is exactly MaxHeight tall is
// split too, since no bubble may reach MaxHeight. Fragments after the first
// are marked as continuations. The caller decides whether the first one
// continues the previous bubble.
func (s *Splitter) Split(msg chat.Message) []*Bubble {
	rows := measure.WrapRows(msg.Body, s.style.LettersPerLine)

	var (
		out   []*Bubble
		cur   []string
		block measure.Block
	)
	flush := func() {
		out = append(out, s.newBubble(msg, strings.Join(cur, "\n"), block, len(out)))
	}

	for _, row := range rows {
		rb := s.measurer.Measure(row)
		if len(cur) == 0 {
			cur = []string{row}
			block = rb
			continue
		}

		candidate := block.Append(rb)
		if s.style.BoxSize(candidate).Y >= s.style.MaxHeight {
			flush()
			cur = []string{row}
			block = rb
			continue
		}
		cur = append(cur, row)
		block = candidate
	}
	flush()

	for _, b := range out {
		b.Fragments = len(out)
	}
	return out
}

func (s *Splitter) newBubble(msg chat.Message, body string, block measure.Block, index int) *Bubble {
	return &Bubble{
		Message:   msg,
		Body:      body,
		Continues: index > 0,
		Fragment:  index,
		Block:     block,
		size:      s.style.BoxSize(block),
	}
}

// Stream yields bubbles for a message sequence, splitting each message only
// when the consumer reaches it.
type Stream struct {
	msgs     []chat.Message
	next     int
	pending  []*Bubble
	splitter *Splitter
	prev     chat.Participant
	started  bool
	split    int
}

// NewStream creates a Stream over msgs.
func NewStream(msgs []chat.Message, s *Splitter) *Stream {
	return &Stream{msgs: msgs, splitter: s}
}

// Peek returns the next bubble without consuming it.
func (s *Stream) Peek() (*Bubble, bool) {
	if !s.fill() {
		return nil, false
	}
	return s.pending[0], true
}

// Next consumes and returns the next bubble.
func (s *Stream) Next() (*Bubble, bool) {
	if !s.fill() {
		return nil, false
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true
}

// SplitMessages returns how many messages so far needed more than one bubble.
func (s *Stream) SplitMessages() int {
	return s.split
}

// fill splits the next message when no bubble is pending.
// The first fragment continues the previous bubble when the sender is the same.
func (s *Stream) fill() bool {
	if len(s.pending) > 0 {
		return true
	}
	if s.next >= len(s.msgs) {
		return false
	}

	msg := s.msgs[s.next]
	s.next++

	s.pending = s.splitter.Split(msg)
	s.pending[0].Continues = s.started && s.prev == msg.Sender
	if len(s.pending) > 1 {
		s.split++
	}

	s.prev = msg.Sender
	s.started = true
	return true
}
