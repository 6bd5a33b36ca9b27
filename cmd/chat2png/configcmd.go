package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// runConfigCmd prints the effective configuration as YAML.
// It accepts the convert flags so users can preview how they merge.
func runConfigCmd(args []string, env *Environment) int {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printConfigUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	cfg, err := loadConvertConfig(f, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitGeneral
	}
	_, _ = env.Stdout.Write(data)
	return ExitSuccess
}
