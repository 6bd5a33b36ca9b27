package chat2png

import (
	"fmt"
	"image"
	"time"

	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/dateutil"
	"github.com/alnah/go-chat2png/internal/render"
	"github.com/alnah/go-chat2png/internal/transcript"
)

// Policy decides what happens to a transcript record that fails to parse.
type Policy = transcript.Policy

// Error policies.
const (
	PolicySkip  = transcript.PolicySkip  // log the record and continue (default)
	PolicyAbort = transcript.PolicyAbort // stop at the first failing record
)

// Theme holds the colours, font sizes, and label formats used to draw pages.
type Theme = render.Theme

// DefaultTheme returns the default dark chat theme.
func DefaultTheme() Theme {
	return render.DefaultTheme()
}

// Default page size in pixels, used when no background image sets it.
const (
	DefaultPageWidth  = 1080
	DefaultPageHeight = 1920
)

// Identity is a participant's display name plus the other spellings of it
// that appear as sender names in the transcript.
type Identity struct {
	Name    string
	Aliases []string
}

// Participants names the two sides of the conversation. Primary messages
// are drawn on the right, Secondary messages on the left.
type Participants struct {
	Primary   Identity
	Secondary Identity
}

// Validate checks that both names are set and no name is claimed by both sides.
func (p *Participants) Validate() error {
	_, err := p.roster()
	return err
}

func (p *Participants) roster() (*chat.Roster, error) {
	return chat.NewRoster(
		chat.Identity{Name: p.Primary.Name, Aliases: p.Primary.Aliases},
		chat.Identity{Name: p.Secondary.Name, Aliases: p.Secondary.Aliases},
	)
}

// ParseSettings configures how transcript records are read.
type ParseSettings struct {
	Formats  []string       // header timestamp formats (DD/MM/YYYY, HH:mm tokens), nil = day-first and month-first
	Seed     time.Time      // reference time for the first record, zero = 2016-05-15 15:50 UTC
	Policy   Policy         // empty = PolicySkip
	Limit    int            // max messages, 0 = all
	Location *time.Location // nil = UTC
}

// Validate checks that parse settings are valid.
// Returns nil if p is nil (nil means defaults).
func (p *ParseSettings) Validate() error {
	if p == nil {
		return nil
	}
	if err := p.Policy.Validate(); err != nil {
		return err
	}
	if p.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidParse, p.Limit)
	}
	if _, err := dateutil.ResolveAll(p.Formats); err != nil {
		return err
	}
	return nil
}

func (p *ParseSettings) options() transcript.Options {
	if p == nil {
		return transcript.Options{}
	}
	return transcript.Options{
		Formats:  p.Formats,
		Seed:     p.Seed,
		Policy:   p.Policy,
		Limit:    p.Limit,
		Location: p.Location,
	}
}

// LayoutSettings configures page geometry. Zero values mean defaults, so a
// zero margin cannot be requested: MinMargin 0 keeps the default gap and
// the tightest configurable gap is 1.
type LayoutSettings struct {
	Width            int  // ignored when a background image sets the page size
	Height           int  // ignored when a background image sets the page size
	MaxElementHeight int  // longer messages are split below this height
	LettersPerLine   int  // character wrap width of bubble text
	MinMargin        int  // gap between bubbles of the same sender, 0 = default
	MaxMargin        int  // gap before a bubble from the other sender, 0 = default
	RepeatDateLabel  bool // start every page with a date label
	DateFormat       string
	TimeFormat       string
}

// Validate checks that layout settings are valid.
// Returns nil if l is nil (nil means defaults).
func (l *LayoutSettings) Validate() error {
	if l == nil {
		return nil
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"width", l.Width},
		{"height", l.Height},
		{"max element height", l.MaxElementHeight},
		{"letters per line", l.LettersPerLine},
		{"min margin", l.MinMargin},
		{"max margin", l.MaxMargin},
	} {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidLayout, f.name, f.value)
		}
	}
	if l.MinMargin > 0 && l.MaxMargin > 0 && l.MinMargin > l.MaxMargin {
		return fmt.Errorf("%w: min margin %d exceeds max margin %d", ErrInvalidLayout, l.MinMargin, l.MaxMargin)
	}
	for _, f := range []string{l.DateFormat, l.TimeFormat} {
		if f == "" {
			continue
		}
		if _, err := dateutil.Resolve(f); err != nil {
			return err
		}
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	Transcript   string          // Raw transcript text (required)
	Participants Participants    // Both names required
	OutputDir    string          // Destination of 1.png, 2.png, ... (required unless DryRun)
	Parse        *ParseSettings  // Parse settings (optional, nil = defaults)
	Layout       *LayoutSettings // Layout settings (optional, nil = defaults)
	DryRun       bool            // Plan pages without writing images
}

// Stats summarizes a conversion.
type Stats struct {
	Records       int // transcript record headers found
	Messages      int // messages parsed
	Skipped       int // records dropped by PolicySkip
	Notices       int // system records without a sender
	SplitMessages int // messages split into several bubbles
	Bubbles       int
	Labels        int // date labels
	Pages         int
	Overflow      int // pages holding a single oversized bubble
	Batches       int // save batches dispatched
}

// Result is the outcome of a conversion.
type Result struct {
	Files    []string    // written pages in page order, empty for a dry run
	PageSize image.Point // pixel size of every page
	Stats    Stats
}
