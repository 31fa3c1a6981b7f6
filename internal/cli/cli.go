// Package cli provides command-line interface functionality for asmcheck.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/asmcheck/internal/config"
	"github.com/AndreyAkinshin/asmcheck/internal/errors"
	"github.com/AndreyAkinshin/asmcheck/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
// Arguments after -- are passed through to the interpreter, so help flags there are ignored.
func wantsHelp(args []string) bool {
	return hasFlag(args, "-h", "--help")
}

func wantsVersion(args []string) bool {
	return hasFlag(args, "--version")
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	switch {
	case wantsHelp(args):
		printUsage(out)
		return errors.ExitSuccess
	case wantsVersion(args):
		out.Println("asmcheck %s", Version)
		return errors.ExitSuccess
	}

	opts, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		out.Errorln("Run 'asmcheck --help' for usage.")
		return errors.ExitConfigError
	}
	applyVerbosityToOutput(opts)

	return cmdRun(opts)
}

// GlobalOptions holds parsed command-line flags and arguments.
// Empty values mean "use the configured value".
type GlobalOptions struct {
	Mode       string
	Extension  string
	InputMode  string
	Jobs       string
	Timeout    string
	Runner     []string
	ConfigPath string
	Incomplete string
	Quiet      bool
	Verbose    bool
	NoColor    bool

	Directory string   // Test-case directory or .txtar archive
	ExtraArgs []string // Forwarded to the interpreter before the program path
}

// valueFlags lists flags that take a value, either as --flag=value or --flag value.
var valueFlags = map[string]bool{
	"--ext":        true,
	"--input":      true,
	"-j":           true,
	"--jobs":       true,
	"--timeout":    true,
	"--runner":     true,
	"--config":     true,
	"--incomplete": true,
}

// parseGlobalFlags manually parses flags from arguments.
//
// The first positional argument is the test-case directory. Anything after it
// that is not an asmcheck flag is forwarded to the interpreter, split on
// whitespace; everything after -- is forwarded verbatim.
func parseGlobalFlags(args []string) (*GlobalOptions, error) {
	opts := &GlobalOptions{}
	haveDir := false

	i := 0
	for i < len(args) {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch {
		case arg == "--strict":
			opts.Mode = string(config.ModeStrict)
		case arg == "--lenient":
			opts.Mode = string(config.ModeLenient)
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
		case arg == "--no-color":
			opts.NoColor = true
		case valueFlags[name]:
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("%s requires a value", name)
				}
				value = args[i+1]
				i++
			}
			if err := setValueFlag(opts, name, value); err != nil {
				return nil, err
			}
		case arg == "--":
			opts.ExtraArgs = append(opts.ExtraArgs, args[i+1:]...)
			i = len(args)
			continue
		case !haveDir && strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown flag %q", arg)
		case !haveDir:
			opts.Directory = arg
			haveDir = true
		default:
			opts.ExtraArgs = append(opts.ExtraArgs, strings.Fields(arg)...)
		}
		i++
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func setValueFlag(opts *GlobalOptions, name, value string) error {
	if value == "" {
		return fmt.Errorf("%s requires a value", name)
	}
	switch name {
	case "--ext":
		opts.Extension = value
	case "--input":
		opts.InputMode = value
	case "-j", "--jobs":
		opts.Jobs = value
	case "--timeout":
		opts.Timeout = value
	case "--runner":
		opts.Runner = strings.Fields(value)
	case "--config":
		opts.ConfigPath = value
	case "--incomplete":
		opts.Incomplete = value
	}
	return nil
}

// validateGlobalOptions checks flag combinations. Field values are checked
// together with the config file by config.Validate.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	if opts.Runner != nil && len(opts.Runner) == 0 {
		return fmt.Errorf("--runner requires a command")
	}
	return nil
}

const widthFlag = 24

func printUsage(w *output.Writer) {
	w.HelpTitle("asmcheck - golden-file test harness for an assembly interpreter")

	w.HelpSection("Usage:")
	w.HelpUsage("asmcheck [flags] [<dir>] [<interpreter-flags>]")
	w.HelpUsage("asmcheck [flags] <archive.txtar>")
	w.HelpUsage("asmcheck [flags] [<dir>] -- <interpreter-flags>...")

	w.HelpSection("Test Cases:")
	w.Println("  Each test case is a group of files sharing a base name in <dir>:")
	w.Println("  <name>.asm (program), <name>.in (optional input), <name>.out (expected output).")
	w.Println("  The program passes when the interpreter's stdout equals <name>.out exactly.")

	w.HelpSection("Flags:")
	w.HelpFlag("--strict", "Stop at the first failing test case (default)", widthFlag)
	w.HelpFlag("--lenient", "Run every test case, then report failures", widthFlag)
	w.HelpFlag("--ext=<ext>", "Program file extension (default .asm)", widthFlag)
	w.HelpFlag("--input=<mode>", "Pass input inline or as a file path (inline, file)", widthFlag)
	w.HelpFlag("-j, --jobs=<n>", "Interpreters to run at once (default: CPU count)", widthFlag)
	w.HelpFlag("--timeout=<dur>", "Per-test-case time limit, 0 disables (default 30s)", widthFlag)
	w.HelpFlag("--runner=<cmd>", "Interpreter command (default \"cargo -q run\")", widthFlag)
	w.HelpFlag("--config=<path>", "Config file (default asmcheck.json/.yaml/.yml)", widthFlag)
	w.HelpFlag("--incomplete=<policy>", "Treat incomplete test cases as skip or fail", widthFlag)
	w.HelpFlag("-q, --quiet", "Only print failures", widthFlag)
	w.HelpFlag("-v, --verbose", "Print a diff for each mismatch", widthFlag)
	w.HelpFlag("--no-color", "Disable colored output", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)
	w.HelpFlag("--version", "Show version", widthFlag)

	w.HelpSection("Examples:")
	w.HelpExample("asmcheck", "Run test_cases/ with cargo -q run")
	w.HelpExample("asmcheck tests/ --release", "Forward --release to cargo")
	w.HelpExample("asmcheck --lenient --ext=.arsm cases/", "Report every failure for .arsm programs")
	w.HelpExample("asmcheck --runner=./interp --input=file cases.txtar", "Run an archived suite with a prebuilt interpreter")
	w.Println("")
}
