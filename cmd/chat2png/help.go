package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chat2png <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Render a chat transcript as PNG pages")
	fmt.Fprintln(w, "  config      Print the effective configuration as YAML")
	fmt.Fprintln(w, "  doctor      Check fonts, background, and output directory")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'chat2png help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chat2png convert <transcript> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a two-person chat transcript as numbered PNG pages (1.png, 2.png, ...).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  transcript    Exported chat text file (optional if config has input.path)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>          Output directory (default \"pages\")")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel page writers (0 = auto)")
	fmt.Fprintln(w, "      --batch-size <n>        Pages per write batch (default 100)")
	fmt.Fprintln(w, "  -n, --dry-run               Plan pages without writing images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Participants:")
	fmt.Fprintln(w, "      --me <name>             Primary participant, drawn on the right")
	fmt.Fprintln(w, "      --me-alias <name>       Other spelling of --me (repeatable)")
	fmt.Fprintln(w, "      --them <name>           Secondary participant, drawn on the left")
	fmt.Fprintln(w, "      --them-alias <name>     Other spelling of --them (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parsing:")
	fmt.Fprintln(w, "      --format <s>            Header timestamp format (repeatable)")
	fmt.Fprintln(w, "                              Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "                              Default: \"DD/MM/YYYY, HH:mm\" then \"MM/DD/YYYY, HH:mm\"")
	fmt.Fprintln(w, "      --on-error <s>          Bad record policy: skip (default), abort")
	fmt.Fprintln(w, "      --seed <time>           Reference time of the first record (RFC 3339)")
	fmt.Fprintln(w, "      --limit <n>             Max messages to render (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "      --width <px>            Page width (default 1080)")
	fmt.Fprintln(w, "      --height <px>           Page height (default 1920)")
	fmt.Fprintln(w, "      --max-element-height <px>  Split bubbles taller than this")
	fmt.Fprintln(w, "      --letters-per-line <n>  Character wrap width")
	fmt.Fprintln(w, "      --min-margin <px>       Gap between bubbles of one sender")
	fmt.Fprintln(w, "      --max-margin <px>       Gap when the sender changes")
	fmt.Fprintln(w, "      --repeat-date-label     Start every page with a date label")
	fmt.Fprintln(w, "      --date-format <s>       Date label format (default DD-MM-YYYY)")
	fmt.Fprintln(w, "      --time-format <s>       Bubble time format (default HH:mm)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory (fonts/, images/)")
	fmt.Fprintln(w, "      --font <name|path>      Font name or .ttf file")
	fmt.Fprintln(w, "      --background <name|path>  Background image; its size sets the page size")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CHAT2PNG_CONFIG, CHAT2PNG_INPUT, CHAT2PNG_OUTPUT_DIR, CHAT2PNG_ME, CHAT2PNG_THEM,")
	fmt.Fprintln(w, "  CHAT2PNG_ASSET_PATH, CHAT2PNG_FONT, CHAT2PNG_BACKGROUND, CHAT2PNG_ON_ERROR,")
	fmt.Fprintln(w, "  CHAT2PNG_SEED, CHAT2PNG_WORKERS, CHAT2PNG_BATCH_SIZE")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  chat2png convert chat.txt --me Alice --them Bob")
	fmt.Fprintln(w, "  chat2png convert chat.txt -c work -o out/ --background paper")
	fmt.Fprintln(w, "  chat2png convert chat.txt --me Alice --them Bob --on-error abort --dry-run")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chat2png config [convert flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration convert would use, after merging the config file,")
	fmt.Fprintln(w, "CHAT2PNG_* environment variables, and flags. Accepts every convert flag.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chat2png doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the configured font and background load and the output")
	fmt.Fprintln(w, "directory is writable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json            Output as JSON")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 = ready or warnings, 1 = errors found.")
}

// runHelp prints help for a command and returns an exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: chat2png version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: chat2png help <command>")
	default:
		fmt.Fprintf(env.Stderr, "unknown command %q\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
