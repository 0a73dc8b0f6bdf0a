package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrNoInput            = errors.New("no document specified")
	ErrWritePage          = errors.New("failed to write page image")
	ErrWriteResume        = errors.New("failed to write resume")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// defaultConfigName is looked up when neither --config nor FOLIO_CONFIG is set.
// A missing default config is not an error.
const defaultConfigName = "folio"

// command runs one subcommand.
type command func(ctx context.Context, args []string, env *Environment) error

func commands() map[string]command {
	return map[string]command{
		"serve":     runServe,
		"rasterize": runRasterize,
		"info":      runInfo,
		"view":      runView,
		"resume":    runResume,
		"completion": func(_ context.Context, args []string, env *Environment) error {
			return runCompletion(args, env)
		},
	}
}

// run dispatches args (without the program name) and returns the exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "folio %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	cmd, ok := commands()[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	err := cmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// loadConfig resolves the config file (flag, then FOLIO_CONFIG, then the
// default name), overlays FOLIO_* variables and warns about unknown ones.
// Flags are applied by the caller, which then validates.
func loadConfig(common commonFlags, stderr io.Writer) (*config.Config, error) {
	warnUnknownEnvVars(stderr)
	envCfg := loadEnvConfig()

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, err
		}
	default:
		var err error
		cfg, err = config.LoadConfig(defaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
		if err != nil {
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// newLogger builds the stderr logger for a command: --quiet shows errors
// only, --verbose adds debug lines, otherwise min applies.
func newLogger(common commonFlags, w io.Writer, min logging.Level) logging.Logger {
	switch {
	case common.quiet:
		min = logging.LevelError
	case common.verbose:
		min = logging.LevelDebug
	}
	return logging.New(w, min)
}

// applyRenderFlags copies explicitly set rasterization flags onto cfg.
func applyRenderFlags(f resumeSourceFlags, changed changedSet, cfg *config.Config) {
	if changed.has("scale") {
		cfg.Resume.Scale = f.scale
	}
	if changed.has("format") {
		cfg.Resume.Format = f.format
	}
	if changed.has("workers") {
		cfg.Resume.Workers = f.workers
	}
	if changed.has("timeout") {
		cfg.Resume.Timeout = f.timeout
	}
}

// applyGeneratorFlags copies explicitly set printed-resume flags onto cfg.
func applyGeneratorFlags(f generatorFlags, changed changedSet, cfg *config.Config) {
	if changed.has("style") {
		cfg.Resume.Style = f.style
	}
	if changed.has("asset-path") {
		cfg.Resume.AssetsDir = f.assetPath
	}
}

// validateWorkers rejects worker counts the rasterizer would clamp silently.
func validateWorkers(n int) error {
	if n < 0 || n > folio.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, folio.MaxWorkers)
	}
	return nil
}
