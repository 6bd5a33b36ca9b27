// Package transcript parses exported chat transcripts into messages.
//
// A record starts with a "<date>, <time> - " header at the beginning of a
// line and runs until the next header or the end of input, so message bodies
// may span several lines. Records of the form "<sender>: <body>" become
// messages; records without a sender separator are system notices and are
// skipped.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/dateutil"
)

// Sentinel errors for parsing.
var (
	ErrUnparseableTimestamp = errors.New("timestamp matches no known format")
	ErrEmptyTranscript      = errors.New("transcript is empty")
	ErrInvalidPolicy        = errors.New("invalid error policy")
)

// Policy decides what happens to a record that fails to parse.
type Policy string

const (
	// PolicySkip logs the failing record and continues.
	PolicySkip Policy = "skip"
	// PolicyAbort stops at the first failing record.
	PolicyAbort Policy = "abort"
)

// Validate checks the policy value. The empty policy means PolicySkip.
func (p Policy) Validate() error {
	switch p {
	case "", PolicySkip, PolicyAbort:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be skip or abort)", ErrInvalidPolicy, string(p))
	}
}

// DefaultSeed is the reference time the first record is resolved against.
var DefaultSeed = time.Date(2016, time.May, 15, 15, 50, 0, 0, time.UTC)

// headerPattern matches a record header at the start of a line.
var headerPattern = regexp.MustCompile(`(?m)^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}) - `)

// senderSeparator splits the sender name from the message body.
const senderSeparator = ": "

// ParseError describes a record that could not be turned into a message.
type ParseError struct {
	Record int    // zero-based record index
	Line   int    // one-based line of the record header
	Raw    string // raw header timestamp or sender
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d (line %d): %v", e.Record, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options configures a Parser.
type Options struct {
	Formats  []string       // token formats (dateutil), nil = DefaultTranscriptFormats
	Seed     time.Time      // zero = DefaultSeed
	Policy   Policy         // empty = PolicySkip
	Limit    int            // max messages, 0 = unlimited
	Location *time.Location // nil = UTC
	Logger   *slog.Logger   // nil = discard
}

// Parser turns transcript text into messages.
type Parser struct {
	roster  *chat.Roster
	layouts []string
	seed    time.Time
	policy  Policy
	limit   int
	loc     *time.Location
	logger  *slog.Logger
}

// Result holds the parsed messages and parsing statistics.
type Result struct {
	Messages []chat.Message
	Records  int // headers found
	Skipped  int // records dropped by PolicySkip
	Notices  int // system records without a sender
}

// NewParser creates a Parser for the given roster.
func NewParser(roster *chat.Roster, opts Options) (*Parser, error) {
	if roster == nil {
		return nil, fmt.Errorf("%w: nil roster", chat.ErrInvalidParticipants)
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d", opts.Limit)
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = dateutil.DefaultTranscriptFormats
	}
	layouts, err := dateutil.ResolveAll(formats)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		roster:  roster,
		layouts: layouts,
		seed:    opts.Seed,
		policy:  opts.Policy,
		limit:   opts.Limit,
		loc:     opts.Location,
		logger:  opts.Logger,
	}
	if p.seed.IsZero() {
		p.seed = DefaultSeed
	}
	if p.policy == "" {
		p.policy = PolicySkip
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p, nil
}

// Parse extracts messages from raw transcript text in source order.
// With PolicyAbort the first failing record is returned as a *ParseError.
func (p *Parser) Parse(text string) (*Result, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}

	bounds := headerPattern.FindAllStringSubmatchIndex(text, -1)
	res := &Result{Records: len(bounds)}
	prev := p.seed.In(p.loc)
	line, scanned := 1, 0

	for i, b := range bounds {
		if p.limit > 0 && len(res.Messages) >= p.limit {
			break
		}

		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		stamp := text[b[2]:b[3]]
		rest := text[b[1]:end]
		line += strings.Count(text[scanned:b[0]], "\n")
		scanned = b[0]

		sender, body, ok := strings.Cut(rest, senderSeparator)
		if !ok || strings.Contains(sender, "\n") {
			res.Notices++
			p.logger.Debug("skipping system notice", "record", i, "line", line)
			continue
		}

		msg, err := p.parseRecord(stamp, sender, body, prev)
		if err != nil {
			perr := &ParseError{Record: i, Line: line, Err: err}
			if errors.Is(err, ErrUnparseableTimestamp) {
				perr.Raw = stamp
			} else {
				perr.Raw = sender
			}
			if p.policy == PolicyAbort {
				return nil, perr
			}
			res.Skipped++
			p.logger.Warn("skipping record", "record", i, "line", line, "error", err)
			continue
		}

		if msg.Timestamp.Before(prev) && len(res.Messages) > 0 {
			p.logger.Warn("timestamp earlier than previous message", "record", i, "line", line,
				"sender", p.roster.Name(msg.Sender), "timestamp", msg.Timestamp, "previous", prev)
		}
		prev = msg.Timestamp
		res.Messages = append(res.Messages, msg)
	}

	return res, nil
}

// parseRecord builds a message from one record's parts.
func (p *Parser) parseRecord(stamp, sender, body string, prev time.Time) (chat.Message, error) {
	ts, err := p.resolveTimestamp(stamp, prev)
	if err != nil {
		return chat.Message{}, err
	}
	who, err := p.roster.Resolve(sender)
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		Body:      strings.TrimRight(body, " \t\n"),
		Timestamp: ts,
		Sender:    who,
	}, nil
}

// resolveTimestamp parses stamp with every candidate layout and picks the
// one closest to prev. Non-negative deltas win over negative ones; among
// negative ones the smallest absolute delta wins.
func (p *Parser) resolveTimestamp(stamp string, prev time.Time) (time.Time, error) {
	var (
		best      time.Time
		bestDelta time.Duration
		bestAhead bool
		found     bool
	)

	for _, layout := range p.layouts {
		ts, err := time.ParseInLocation(layout, stamp, p.loc)
		if err != nil {
			continue
		}

		delta := ts.Sub(prev)
		ahead := delta >= 0
		if !ahead {
			delta = -delta
		}

		switch {
		case !found:
		case ahead && !bestAhead:
		case ahead == bestAhead && delta < bestDelta:
		default:
			continue
		}
		best, bestDelta, bestAhead, found = ts, delta, ahead, true
	}

	if !found {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, stamp)
	}
	return best, nil
}
