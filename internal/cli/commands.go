package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/AndreyAkinshin/asmcheck/internal/config"
	"github.com/AndreyAkinshin/asmcheck/internal/errors"
	"github.com/AndreyAkinshin/asmcheck/internal/fixture"
	"github.com/AndreyAkinshin/asmcheck/internal/output"
	"github.com/AndreyAkinshin/asmcheck/internal/runner"
)

var out = output.New()

// applyVerbosityToOutput configures the global output writer based on options.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}
}

// cmdRun discovers the test cases, runs them and prints the summary.
func cmdRun(opts *GlobalOptions) int {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if err := applyFlags(cfg, opts); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	dir := cfg.Directory
	if fixture.IsArchive(dir) {
		extracted, cleanup, err := extractArchive(dir)
		if err != nil {
			out.ErrorPrefix("%v", err)
			return errors.GetExitCode(err)
		}
		defer cleanup()
		dir = extracted
	}

	set, err := fixture.Resolve(dir, fixture.ResolveOptions{
		ProgramExt: cfg.Extension,
		LoadInput:  config.InputMode(cfg.InputMode) == config.InputModeInline,
	})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if set.Len() == 0 {
		out.WarningSimple("no test cases found in %s", cfg.Directory)
		return errors.ExitSuccess
	}

	runOpts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	runOpts.Verbose = opts.Verbose
	if opts.Verbose {
		out.Info("Running %d test cases from %s with %s", set.Len(), cfg.Directory, strings.Join(cfg.Runner, " "))
	}

	// Ctrl-C kills the running interpreters before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := runner.New(runOpts, out).RunAll(ctx, set)

	if ctx.Err() != nil {
		out.ErrorPrefix("interrupted")
		return errors.ExitFailure
	}
	if !opts.Quiet {
		printSummary(summary)
	}
	if !summary.OK() {
		return errors.ExitFailure
	}
	return errors.ExitSuccess
}

// loadConfig loads the config file at path, or the one found in the working
// directory when path is empty. Without a config file the defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.Find(".")
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		out.WarningSimple("%s: %s", path, w)
	}
	if err != nil {
		return nil, &errors.AsmcheckError{
			Kind:    errors.KindConfig,
			Message: "invalid configuration",
			Cause:   err,
		}
	}
	return cfg, nil
}

// applyFlags overrides configuration values with command-line flags and
// validates the result.
func applyFlags(cfg *config.Config, opts *GlobalOptions) error {
	if opts.Directory != "" {
		cfg.Directory = opts.Directory
	}
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.Extension != "" {
		cfg.Extension = opts.Extension
	}
	if opts.InputMode != "" {
		cfg.InputMode = opts.InputMode
	}
	if opts.Jobs != "" {
		jobs, err := strconv.Atoi(opts.Jobs)
		if err != nil {
			return errors.Configf("invalid --jobs value %q: must be an integer", opts.Jobs)
		}
		cfg.Jobs = jobs
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
	if len(opts.Runner) > 0 {
		cfg.Runner = opts.Runner
	}
	if opts.Incomplete != "" {
		cfg.Incomplete = opts.Incomplete
	}
	if len(opts.ExtraArgs) > 0 {
		cfg.ExtraArgs = append(append([]string(nil), cfg.ExtraArgs...), opts.ExtraArgs...)
	}

	if err := config.Validate(cfg); err != nil {
		return &errors.AsmcheckError{Kind: errors.KindValidation, Message: "invalid option", Cause: err}
	}
	return nil
}

// extractArchive unpacks a .txtar suite into a temporary directory.
func extractArchive(path string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "asmcheck-")
	if err != nil {
		return "", nil, errors.Wrap(err, "cannot create temporary directory")
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	if err := fixture.ExtractArchive(path, dir); err != nil {
		cleanup()
		return "", nil, err
	}
	return dir, cleanup, nil
}
