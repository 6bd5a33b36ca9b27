// Package measure computes the pixel geometry of message text before it is drawn.
//
// Text is wrapped in two passes. The first pass is a character-count wrap
// (WrapRows) that never drops or duplicates characters; the bubble splitter
// works on its rows. The second pass breaks any row wider than the maximum
// text width at word boundaries using the font's real advances.
package measure

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Default measurement parameters.
const (
	DefaultLettersPerLine = 110
	DefaultLineSpacing    = 6
)

// Block is the measured geometry of a piece of text.
// Empty text measures as a block without lines.
type Block struct {
	Lines      []string // display lines after both wrap passes
	Width      int      // widest line in pixels
	Height     int      // lines * LineHeight + gaps * Spacing
	LineHeight int
	Spacing    int
}

// Empty reports whether the block has no lines.
func (b Block) Empty() bool {
	return len(b.Lines) == 0
}

// Append returns the geometry of b's text followed by a line break and the
// text of next. A block without lines stands for one empty line there, as
// it does when the joined text is measured in one piece.
func (b Block) Append(next Block) Block {
	lines := make([]string, 0, len(b.Lines)+len(next.Lines)+2)
	for _, part := range []Block{b, next} {
		if part.Empty() {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, part.Lines...)
	}

	lineHeight, spacing := b.LineHeight, b.Spacing
	if lineHeight == 0 {
		lineHeight, spacing = next.LineHeight, next.Spacing
	}
	return Block{
		Lines:      lines,
		Width:      max(b.Width, next.Width),
		Height:     BlockHeight(len(lines), lineHeight, spacing),
		LineHeight: lineHeight,
		Spacing:    spacing,
	}
}

// Measurer measures text for layout.
type Measurer interface {
	Measure(text string) Block
}

// Options configures a TextMeasurer.
type Options struct {
	LettersPerLine int // character wrap width, 0 = DefaultLettersPerLine
	MaxWidth       int // pixel width limit for a line, 0 = unlimited
	Spacing        int // pixels between lines, 0 = DefaultLineSpacing
}

// TextMeasurer measures text with a font face.
// Widths follow font.MeasureString: kerned glyph advances, truncated to
// whole pixels. Glyph advances are cached per rune, so the measurer is not
// safe for concurrent use.
type TextMeasurer struct {
	face           font.Face
	advances       map[rune]fixed.Int26_6
	lettersPerLine int
	maxWidth       float64
	spacing        int
	lineHeight     int
}

// NewTextMeasurer creates a measurer for the given face.
func NewTextMeasurer(face font.Face, opts Options) *TextMeasurer {
	m := &TextMeasurer{
		face:           face,
		advances:       make(map[rune]fixed.Int26_6),
		lettersPerLine: opts.LettersPerLine,
		maxWidth:       float64(opts.MaxWidth),
		spacing:        opts.Spacing,
		lineHeight:     face.Metrics().Height.Ceil(),
	}
	if m.lettersPerLine <= 0 {
		m.lettersPerLine = DefaultLettersPerLine
	}
	if m.spacing <= 0 {
		m.spacing = DefaultLineSpacing
	}
	return m
}

// LineHeight returns the height of one line in pixels.
func (m *TextMeasurer) LineHeight() int {
	return m.lineHeight
}

// Measure wraps text and returns its geometry. Empty text yields a block
// without lines that still carries the line height and spacing.
func (m *TextMeasurer) Measure(text string) Block {
	if text == "" {
		return Block{LineHeight: m.lineHeight, Spacing: m.spacing}
	}

	var lines []string
	for _, row := range WrapRows(text, m.lettersPerLine) {
		lines = append(lines, m.fitWidth(row)...)
	}

	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, m.width(line))
	}

	return Block{
		Lines:      lines,
		Width:      int(math.Ceil(widest)),
		Height:     BlockHeight(len(lines), m.lineHeight, m.spacing),
		LineHeight: m.lineHeight,
		Spacing:    m.spacing,
	}
}

// fitWidth breaks a row at word boundaries until every line fits maxWidth.
func (m *TextMeasurer) fitWidth(row string) []string {
	if m.maxWidth <= 0 {
		return []string{row}
	}
	return wrap(row, func(s string) bool {
		return m.width(s) <= m.maxWidth
	})
}

// width returns the pixel width of s without its trailing whitespace.
func (m *TextMeasurer) width(s string) float64 {
	var adv fixed.Int26_6
	prev := rune(-1)
	for _, c := range strings.TrimRightFunc(s, unicode.IsSpace) {
		if prev >= 0 {
			adv += m.face.Kern(prev, c)
		}
		a, ok := m.advance(c)
		if !ok {
			continue
		}
		adv += a
		prev = c
	}
	return float64(adv >> 6)
}

// advance returns the cached glyph advance of c.
// Runes missing from the font are cached as absent too.
func (m *TextMeasurer) advance(c rune) (fixed.Int26_6, bool) {
	if a, ok := m.advances[c]; ok {
		return a, a >= 0
	}
	a, ok := m.face.GlyphAdvance(c)
	if !ok {
		a = -1
	}
	m.advances[c] = a
	return a, ok
}

// BlockHeight returns the height of n lines separated by spacing.
func BlockHeight(n, lineHeight, spacing int) int {
	if n <= 0 {
		return 0
	}
	return n*lineHeight + (n-1)*spacing
}

// WrapRows splits text into rows of at most width characters, not counting
// trailing whitespace. Source newlines always start a new row and empty
// source lines yield empty rows. Whitespace stays at the end of the row it
// follows and words longer than width are broken, so joining the rows of a
// line reproduces the line exactly.
func WrapRows(text string, width int) []string {
	lines := strings.Split(text, "\n")
	if width <= 0 {
		return lines
	}

	fits := func(s string) bool {
		return utf8.RuneCountInString(strings.TrimRightFunc(s, unicode.IsSpace)) <= width
	}

	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, wrap(line, fits)...)
	}
	return rows
}

// wrap greedily packs the words of line into rows accepted by fits.
// A word that does not fit on its own is broken at the longest fitting
// prefix, with at least one rune per row.
func wrap(line string, fits func(string) bool) []string {
	var rows []string
	cur := ""

	for _, unit := range units(line) {
		word := strings.TrimRightFunc(unit, unicode.IsSpace)

		if cur != "" && !fits(cur+word) {
			rows = append(rows, cur)
			cur = ""
		}

		if cur == "" && !fits(word) {
			r := []rune(unit)
			wordLen := utf8.RuneCountInString(word)
			for wordLen > 0 && !fits(string(r[:wordLen])) {
				n := longestPrefix(r[:wordLen], fits)
				rows = append(rows, string(r[:n]))
				r = r[n:]
				wordLen -= n
			}
			cur = string(r)
			continue
		}

		cur += unit
	}

	return append(rows, cur)
}

// longestPrefix returns the length of the longest prefix of r accepted by fits.
// Always at least 1. Once fits rejects a prefix it must reject every longer
// one: the search doubles the prefix until it fails and then bisects.
func longestPrefix(r []rune, fits func(string) bool) int {
	lo, hi := 1, 2
	for hi <= len(r) && fits(string(r[:hi])) {
		lo, hi = hi, hi*2
	}
	hi = min(hi, len(r)+1)

	// fits(r[:lo]) holds or lo is 1; r[:hi] fails or is past the end.
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if fits(string(r[:mid])) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// units splits a line into words, each carrying the whitespace that follows it.
// Leading whitespace forms a unit of its own.
func units(line string) []string {
	var out []string
	start := 0
	inSpace := false

	for i, r := range line {
		space := unicode.IsSpace(r)
		if !space && inSpace && i > start {
			out = append(out, line[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(line) {
		out = append(out, line[start:])
	}
	return out
}
