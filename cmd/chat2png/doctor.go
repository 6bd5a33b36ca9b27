package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"

	chat2png "github.com/alnah/go-chat2png"
	"github.com/alnah/go-chat2png/internal/config"
	"github.com/alnah/go-chat2png/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Assets   assetInfo  `json:"assets"`
	Output   outputInfo `json:"output"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo holds config file loading results.
type configInfo struct {
	Name   string `json:"name,omitempty"`
	Loaded bool   `json:"loaded"`
}

// assetInfo holds font and background loading results.
type assetInfo struct {
	BasePath      string   `json:"base_path,omitempty"`
	Font          string   `json:"font"`
	Background    string   `json:"background,omitempty"`
	Loaded        bool     `json:"loaded"`
	BuiltinFonts  []string `json:"builtin_fonts"`
	PageWidth     int      `json:"page_width,omitempty"`
	PageHeight    int      `json:"page_height,omitempty"`
	FromBackground bool     `json:"page_size_from_background"`
}

// outputInfo holds output directory checks.
type outputInfo struct {
	Dir      string `json:"dir"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// systemInfo holds platform details.
type systemInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GoMaxProcs int    `json:"gomaxprocs"`
	Version    string `json:"version"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json   bool
	config string
}

// newDoctorFlagSet registers the doctor flags on a new FlagSet.
func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "output as JSON")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	return fs
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	var f doctorFlags
	fs := newDoctorFlagSet(&f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(f.config)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		System: systemInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GoMaxProcs: runtime.GOMAXPROCS(0),
			Version:    Version,
		},
	}

	envCfg := loadEnvConfig()
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg := checkConfig(result, configName)
	applyEnvConfig(envCfg, cfg)

	checkAssets(result, cfg)
	checkOutput(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkConfig loads the named config. A missing or invalid config is an
// error; checks continue with defaults.
func checkConfig(result *doctorResult, name string) *config.Config {
	result.Config.Name = name
	if name == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}
	result.Config.Loaded = true
	return cfg
}

// checkAssets loads the configured font and background the way convert does.
func checkAssets(result *doctorResult, cfg *config.Config) {
	result.Assets.BasePath = cfg.Assets.BasePath
	result.Assets.Font = cfg.Assets.Font
	if result.Assets.Font == "" {
		result.Assets.Font = "builtin default"
	}
	result.Assets.Background = cfg.Assets.Background
	result.Assets.BuiltinFonts = chat2png.FontNames()

	var opts []chat2png.Option
	if cfg.Assets.BasePath != "" {
		opts = append(opts, chat2png.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Font != "" {
		opts = append(opts, chat2png.WithFont(cfg.Assets.Font))
	}
	if cfg.Assets.Background != "" {
		opts = append(opts, chat2png.WithBackground(cfg.Assets.Background))
	}
	if _, err := chat2png.NewConverter(opts...); err != nil {
		result.Errors = append(result.Errors, withHint(err, cfg).Error())
		return
	}
	result.Assets.Loaded = true

	if cfg.Assets.Background != "" {
		result.Assets.FromBackground = true
		if cfg.Layout.Width != 0 || cfg.Layout.Height != 0 {
			result.Warnings = append(result.Warnings,
				"layout.width/height are ignored: the background image sets the page size")
		}
	}
}

// checkOutput verifies the output directory can receive pages.
// A missing directory is fine: convert creates it.
func checkOutput(result *doctorResult, cfg *config.Config) {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = defaultOutputDir
	}
	result.Output.Dir = dir

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist yet; convert will create it", dir))
		return
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory %s: %v", dir, err))
		return
	case !info.IsDir():
		result.Errors = append(result.Errors, fmt.Sprintf("Output path %s is not a directory", dir))
		return
	}
	result.Output.Exists = true

	if err := fileutil.CheckWritable(dir); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory %s is not writable", dir))
		return
	}
	result.Output.Writable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "chat2png doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	switch {
	case r.Config.Name == "":
		fmt.Fprintln(w, "  [OK] No config file (defaults)")
	case r.Config.Loaded:
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Name)
	default:
		fmt.Fprintf(w, "  [ERROR] Could not load %s\n", r.Config.Name)
	}
	fmt.Fprintln(w)

	// Assets section
	fmt.Fprintln(w, "Assets")
	if r.Assets.Loaded {
		fmt.Fprintf(w, "  [OK] Font: %s\n", r.Assets.Font)
		if r.Assets.Background != "" {
			fmt.Fprintf(w, "  [OK] Background: %s (sets page size)\n", r.Assets.Background)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Font or background failed to load")
	}
	if r.Assets.BasePath != "" {
		fmt.Fprintf(w, "  [OK] Asset path: %s\n", r.Assets.BasePath)
	}
	fmt.Fprintln(w)

	// Output section
	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Writable:
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Output.Dir)
	case !r.Output.Exists:
		fmt.Fprintf(w, "  [WARN] %s: will be created\n", r.Output.Dir)
	default:
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Output.Dir)
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.System.OS, r.System.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.System.GoMaxProcs)
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
