package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values (shell names for completion)
	FilePattern string   // glob for file arguments, empty when the command takes none
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"on-error": {Values: []string{"skip", "abort"}},

	// File flags with glob patterns
	"config":     {FileGlob: "*.yaml,*.yml"},
	"font":       {FileGlob: "*.ttf"},
	"background": {FileGlob: "*.png,*.jpg,*.jpeg"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets - single source of truth.
func getCommands() []commandDef {
	convertDefs := extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))
	doctorDefs := extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{}))

	return []commandDef{
		{Name: "convert", Desc: "Render a chat transcript as PNG pages", Flags: convertDefs, FilePattern: "*.txt"},
		{Name: "config", Desc: "Print the effective configuration", Flags: convertDefs},
		{Name: "doctor", Desc: "Check fonts, background, and output directory", Flags: doctorDefs},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells()},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

func supportedShells() []string {
	return []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells(), ", "))
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chat2png completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(chat2png completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(chat2png completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    chat2png completion fish > ~/.config/fish/completions/chat2png.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    chat2png completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for chat2png\n")
	b.WriteString("_chat2png() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		if len(c.Flags) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range c.Flags {
				if f.Type == flagBool {
					continue
				}
				fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(f))
				fmt.Fprintf(&b, "            %s\n", bashValueCompletion(f))
				b.WriteString("            return ;;\n")
			}
			b.WriteString("        esac\n")
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=( %s )\n", bashGlob(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _chat2png chat2png\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func bashFlagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

func bashValueCompletion(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf("COMPREPLY=( $(compgen -W %q -- \"$cur\") )", strings.Join(f.Values, " "))
	case flagFile:
		return "COMPREPLY=( " + bashGlob(f.FileGlob) + " )"
	case flagDir:
		return "COMPREPLY=( $(compgen -d -- \"$cur\") )"
	default:
		return "COMPREPLY=()"
	}
}

// bashGlob completes directories plus files matching any comma-separated glob.
func bashGlob(globs string) string {
	parts := []string{"$(compgen -d -- \"$cur\")"}
	for _, g := range strings.Split(globs, ",") {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"$cur\")", g))
	}
	return strings.Join(parts, " ")
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef chat2png\n\n")
	b.WriteString("_chat2png() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "            %s \\\n", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "            '1:shell:(%s)'\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintf(&b, "            '1:command:(%s)'\n", strings.Join(commandNames(cmds), " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "            '1:file:_files -g \"%s\"'\n", zshGlob(c.FilePattern))
		default:
			b.WriteString("            '*: :'\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _chat2png chat2png\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ": "
	}
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s%s%s'", f.Long, desc, action)
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)"-style alternation.
func zshGlob(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for chat2png\n")
	b.WriteString("complete -c chat2png -f\n\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c chat2png -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c chat2png -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -d '" + fishEscape(f.Desc) + "'"
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c chat2png -n '%s' -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintf(&b, "complete -c chat2png -n '%s' -a '%s'\n", cond, strings.Join(commandNames(cmds), " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "complete -c chat2png -n '%s' -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for chat2png\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName chat2png -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $candidates = @()\n\n")
	b.WriteString("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	fmt.Fprintf(&b, "        $candidates = @(%s)\n", psList(commandNames(cmds)))
	b.WriteString("    } else {\n")
	b.WriteString("        switch ($words[1]) {\n")
	for _, c := range cmds {
		var values []string
		values = append(values, flagWords(c.Flags)...)
		values = append(values, c.Args...)
		if c.Name == "help" {
			values = append(values, commandNames(cmds)...)
		}
		if len(values) == 0 {
			continue
		}
		fmt.Fprintf(&b, "            '%s' { $candidates = @(%s) }\n", c.Name, psList(values))
	}
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
