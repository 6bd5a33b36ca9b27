package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// participantFlags holds the two conversation sides.
type participantFlags struct {
	me        string
	meAlias   []string
	them      string
	themAlias []string
}

// parseFlags holds transcript parsing flags.
type parseFlags struct {
	formats []string
	onError string
	seed    string
	limit   int
}

// layoutFlags holds page geometry flags.
type layoutFlags struct {
	width            int
	height           int
	maxElementHeight int
	lettersPerLine   int
	minMargin        int
	maxMargin        int
	repeatDateLabel  bool
	dateFormat       string
	timeFormat       string
}

// assetFlags holds font and background flags.
type assetFlags struct {
	assetPath  string
	font       string
	background string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common       commonFlags
	output       string
	workers      int
	batchSize    int
	dryRun       bool
	participants participantFlags
	parse        parseFlags
	layout       layoutFlags
	assets       assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addParticipantFlags adds participant flags to a FlagSet.
func addParticipantFlags(fs *flag.FlagSet, f *participantFlags) {
	fs.StringVar(&f.me, "me", "", "primary participant name (right side)")
	fs.StringSliceVar(&f.meAlias, "me-alias", nil, "other spellings of the primary name (repeatable)")
	fs.StringVar(&f.them, "them", "", "secondary participant name (left side)")
	fs.StringSliceVar(&f.themAlias, "them-alias", nil, "other spellings of the secondary name (repeatable)")
}

// addParseFlags adds transcript parsing flags to a FlagSet.
func addParseFlags(fs *flag.FlagSet, f *parseFlags) {
	fs.StringArrayVar(&f.formats, "format", nil, "header timestamp format, e.g. \"DD/MM/YYYY, HH:mm\" (repeatable)")
	fs.StringVar(&f.onError, "on-error", "", "bad record policy: skip, abort")
	fs.StringVar(&f.seed, "seed", "", "reference time of the first record (RFC 3339)")
	fs.IntVar(&f.limit, "limit", 0, "max messages to render (0 = all)")
}

// addLayoutFlags adds page geometry flags to a FlagSet.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.IntVar(&f.width, "width", 0, "page width in pixels (default 1080)")
	fs.IntVar(&f.height, "height", 0, "page height in pixels (default 1920)")
	fs.IntVar(&f.maxElementHeight, "max-element-height", 0, "split bubbles taller than this (default 600)")
	fs.IntVar(&f.lettersPerLine, "letters-per-line", 0, "character wrap width (default 110)")
	fs.IntVar(&f.minMargin, "min-margin", 0, "gap between bubbles of one sender (default 5)")
	fs.IntVar(&f.maxMargin, "max-margin", 0, "gap when the sender changes (default 30)")
	fs.BoolVar(&f.repeatDateLabel, "repeat-date-label", false, "start every page with a date label")
	fs.StringVar(&f.dateFormat, "date-format", "", "date label format (default DD-MM-YYYY)")
	fs.StringVar(&f.timeFormat, "time-format", "", "bubble time format (default HH:mm)")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (fonts/, images/)")
	fs.StringVar(&f.font, "font", "", "font name or .ttf path")
	fs.StringVar(&f.background, "background", "", "background image name or path (sets page size)")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default \"pages\")")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel page writers (0 = auto)")
	fs.IntVar(&f.batchSize, "batch-size", 0, "pages per write batch (default 100)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "plan pages without writing images")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addParticipantFlags(fs, &f.participants)
	addParseFlags(fs, &f.parse)
	addLayoutFlags(fs, &f.layout)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
