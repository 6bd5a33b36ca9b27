// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Suggest the first absolute search path (the user config directory)
	for _, p := range searchedPaths {
		if filepath.IsAbs(p) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable, or pass --output")
}

// ForFontNotFound returns hints for font not found errors.
func ForFontNotFound(available []string) string {
	var hints []string
	if len(available) > 0 {
		hints = append(hints, "available: "+strings.Join(available, ", "))
	}
	hints = append(hints, "or pass a .ttf file path such as ./fonts/custom.ttf")
	return formatHints(hints)
}

// ForImageNotFound returns hints for background image not found errors.
func ForImageNotFound() string {
	return format("supported formats: PNG, JPG; place images under <assets>/images/ or pass a file path")
}

// ForParticipants returns hints for missing or conflicting participant names.
func ForParticipants() string {
	return format("set --me and --them, or participants.primary.name and participants.secondary.name in the config")
}

// ForUnknownSender returns hints for a transcript sender matching neither participant.
func ForUnknownSender(sender string) string {
	if sender == "" {
		return format("add the sender as an alias with --me-alias or --them-alias")
	}
	return format("add " + quote(sender) + " as an alias with --me-alias or --them-alias")
}

// ForTimestampFormat returns hints for transcript headers no format could parse.
func ForTimestampFormat(tried []string) string {
	var hints []string
	if len(tried) > 0 {
		hints = append(hints, "tried: "+strings.Join(tried, ", "))
	}
	hints = append(hints, "add a format with --format (tokens: DD, MM, YYYY, HH, mm)")
	hints = append(hints, "use --on-error skip to drop unparseable records")
	return formatHints(hints)
}

// ForEmptyTranscript returns hints for transcripts with no messages.
func ForEmptyTranscript() string {
	return format("expected lines like \"15/05/2016, 15:50 - Name: text\"")
}

func quote(s string) string {
	return "\"" + s + "\""
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
