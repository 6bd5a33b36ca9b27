// Package chat defines the parsed message model and the participant roster
// that maps transcript sender names to one of the two chat participants.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Sentinel errors for roster operations.
var (
	ErrUnknownSender       = errors.New("unknown sender")
	ErrInvalidParticipants = errors.New("invalid participants")
)

// MaxNameLength limits participant names and aliases.
const MaxNameLength = 100

// Participant identifies which side of the conversation sent a message.
// Primary messages are drawn right-aligned.
type Participant int

const (
	Primary Participant = iota
	Secondary
)

// String returns the participant role name.
func (p Participant) String() string {
	switch p {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("participant(%d)", int(p))
	}
}

// Message is one parsed transcript record. Immutable once parsed.
type Message struct {
	Body      string
	Timestamp time.Time
	Sender    Participant
}

// SameDay reports whether both timestamps fall on the same calendar date.
// Each timestamp is read in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Identity is a participant's display name plus the alternative spellings
// that appear as sender names in exported transcripts.
type Identity struct {
	Name    string
	Aliases []string
}

// Roster resolves sender names to participants.
// Matching is case-insensitive and tolerant of Unicode normalization differences.
type Roster struct {
	names map[string]Participant
	ids   [2]Identity
}

// NewRoster builds a roster from the primary and secondary identities.
// Returns ErrInvalidParticipants if a name is empty, too long, or claimed by both sides.
func NewRoster(primary, secondary Identity) (*Roster, error) {
	r := &Roster{
		names: make(map[string]Participant),
		ids:   [2]Identity{primary, secondary},
	}

	for p, id := range map[Participant]Identity{Primary: primary, Secondary: secondary} {
		if strings.TrimSpace(id.Name) == "" {
			return nil, fmt.Errorf("%w: %s name is empty", ErrInvalidParticipants, p)
		}
		for _, name := range append([]string{id.Name}, id.Aliases...) {
			if len(name) > MaxNameLength {
				return nil, fmt.Errorf("%w: %s name exceeds %d characters", ErrInvalidParticipants, p, MaxNameLength)
			}
			key := foldName(name)
			if key == "" {
				continue
			}
			if other, ok := r.names[key]; ok && other != p {
				return nil, fmt.Errorf("%w: %q matches both participants", ErrInvalidParticipants, name)
			}
			r.names[key] = p
		}
	}

	return r, nil
}

// Resolve maps a sender name to its participant.
// Returns ErrUnknownSender when the name matches neither identity.
func (r *Roster) Resolve(sender string) (Participant, error) {
	if p, ok := r.names[foldName(sender)]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSender, sender)
}

// Name returns the display name of a participant.
func (r *Roster) Name(p Participant) string {
	if p != Primary && p != Secondary {
		return ""
	}
	return r.ids[p].Name
}

// foldName normalizes a name for comparison.
// cases.Caser is stateful, so a fresh one is built per call.
func foldName(name string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(name)))
}
