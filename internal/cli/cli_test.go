package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"github.com/AndreyAkinshin/asmcheck/internal/errors"
	"github.com/AndreyAkinshin/asmcheck/internal/fixture"
	"github.com/AndreyAkinshin/asmcheck/internal/output"
	"github.com/AndreyAkinshin/asmcheck/internal/testing/mocks"
)

func TestMain(m *testing.M) {
	mocks.Main(m)
}

// captureOutput replaces the package writer for the duration of a test.
func captureOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	old := out
	out = output.NewWithWriters(stdout, stderr, false)
	t.Cleanup(func() { out = old })
	return stdout, stderr
}

// writeSuite materializes a txtar description of a test-case directory.
func writeSuite(t *testing.T, archive string) string {
	t.Helper()
	dir := t.TempDir()
	if err := fixture.WriteArchive(txtar.Parse([]byte(archive)), dir); err != nil {
		t.Fatalf("WriteArchive() error = %v", err)
	}
	return dir
}

// writeConfig writes an asmcheck.json that runs the fake interpreter.
func writeConfig(t *testing.T, extra map[string]any) string {
	t.Helper()
	doc := map[string]any{"runner": mocks.InterpreterCommand(t), "timeout": "10s"}
	for k, v := range extra {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "asmcheck.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const passingSuite = `
-- add.asm --
input
-- add.in --
7
-- add.out --
7
-- hello.asm --
println hello
-- hello.out --
hello
`

const failingSuite = `
-- a.asm --
println 1
-- a.out --
1
-- b.asm --
println 22
-- b.out --
2
-- c.asm --
println 3
-- c.out --
3
`

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    GlobalOptions
		wantErr bool
	}{
		{
			name: "no flags",
			args: nil,
			want: GlobalOptions{},
		},
		{
			name: "directory only",
			args: []string{"test_cases/"},
			want: GlobalOptions{Directory: "test_cases/"},
		},
		{
			name: "mode flags",
			args: []string{"--lenient", "cases"},
			want: GlobalOptions{Mode: "lenient", Directory: "cases"},
		},
		{
			name: "last mode wins",
			args: []string{"--lenient", "--strict"},
			want: GlobalOptions{Mode: "strict"},
		},
		{
			name: "value flags with equals",
			args: []string{"--ext=.arsm", "--input=file", "--jobs=4", "--timeout=5s", "--incomplete=fail", "--config=c.yaml"},
			want: GlobalOptions{Extension: ".arsm", InputMode: "file", Jobs: "4", Timeout: "5s", Incomplete: "fail", ConfigPath: "c.yaml"},
		},
		{
			name: "value flags with space",
			args: []string{"-j", "2", "--runner", "./target/debug/interp --trace"},
			want: GlobalOptions{Jobs: "2", Runner: []string{"./target/debug/interp", "--trace"}},
		},
		{
			name: "positional extra flags are split",
			args: []string{"cases", "--release --features x"},
			want: GlobalOptions{Directory: "cases", ExtraArgs: []string{"--release", "--features", "x"}},
		},
		{
			name: "asmcheck flags still recognized after directory",
			args: []string{"cases", "--release", "-q"},
			want: GlobalOptions{Directory: "cases", ExtraArgs: []string{"--release"}, Quiet: true},
		},
		{
			name: "-- passthrough is verbatim",
			args: []string{"cases", "--", "--name", "a b", "-q"},
			want: GlobalOptions{Directory: "cases", ExtraArgs: []string{"--name", "a b", "-q"}},
		},
		{
			name: "output flags",
			args: []string{"-v", "--no-color"},
			want: GlobalOptions{Verbose: true, NoColor: true},
		},
		{
			name:    "unknown flag before directory",
			args:    []string{"--bogus"},
			wantErr: true,
		},
		{
			name:    "missing value",
			args:    []string{"--jobs"},
			wantErr: true,
		},
		{
			name:    "empty value",
			args:    []string{"--ext="},
			wantErr: true,
		},
		{
			name:    "blank runner",
			args:    []string{"--runner=  "},
			wantErr: true,
		},
		{
			name:    "quiet and verbose",
			args:    []string{"-q", "-v"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGlobalFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseGlobalFlags(%q) expected error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGlobalFlags(%q) error = %v", tt.args, err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("parseGlobalFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWantsHelp(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-h"}, true},
		{[]string{"cases", "--help"}, true},
		{[]string{"cases", "--", "--help"}, false},
		{[]string{"cases"}, false},
	}

	for _, tt := range tests {
		if got := wantsHelp(tt.args); got != tt.want {
			t.Errorf("wantsHelp(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRun_Help(t *testing.T) {
	stdout, _ := captureOutput(t)

	if code := Run([]string{"--help"}); code != errors.ExitSuccess {
		t.Errorf("Run(--help) = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "asmcheck [flags] [<dir>]") {
		t.Errorf("help output missing usage: %q", stdout.String())
	}
}

func TestRun_Version(t *testing.T) {
	stdout, _ := captureOutput(t)

	if code := Run([]string{"--version"}); code != errors.ExitSuccess {
		t.Errorf("Run(--version) = %d", code)
	}
	if got := stdout.String(); got != "asmcheck "+Version+"\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRun_AllPass(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, passingSuite)

	code := Run([]string{"--config", writeConfig(t, nil), dir})

	if code != errors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d; output:\n%s", code, errors.ExitSuccess, stdout.String())
	}
	got := stdout.String()
	wantPrefix := "Case " + filepath.Join(dir, "add.asm") + ": Passed\n" +
		"Case " + filepath.Join(dir, "hello.asm") + ": Passed\n"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("output = %q, want prefix %q", got, wantPrefix)
	}
	if !strings.Contains(got, "All 2 test cases passed.") {
		t.Errorf("output missing final verdict: %q", got)
	}
}

func TestRun_FileInputMode(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, passingSuite)

	code := Run([]string{"--config", writeConfig(t, nil), "--input=file", dir})

	if code != errors.ExitSuccess {
		t.Errorf("Run() = %d, want %d; output:\n%s", code, errors.ExitSuccess, stdout.String())
	}
}

func TestRun_StrictStopsAtFirstFailure(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, failingSuite)

	code := Run([]string{"--config", writeConfig(t, nil), "-j", "1", dir})

	if code != errors.ExitFailure {
		t.Fatalf("Run() = %d, want %d", code, errors.ExitFailure)
	}
	got := stdout.String()
	if !strings.Contains(got, "b.asm: Failed\n  Expected: 2\n\n  Got:      22\n\n  Errors: \n") {
		t.Errorf("output missing failure report: %q", got)
	}
	if strings.Contains(got, "c.asm") {
		t.Errorf("strict run reported a test case after the failure: %q", got)
	}
	if !strings.Contains(got, "Not run: 1 (stopped at first failure)") {
		t.Errorf("summary missing not-run count: %q", got)
	}
}

func TestRun_LenientReportsEverything(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, failingSuite)

	code := Run([]string{"--config", writeConfig(t, nil), "--lenient", dir})

	if code != errors.ExitFailure {
		t.Fatalf("Run() = %d, want %d", code, errors.ExitFailure)
	}
	got := stdout.String()
	if !strings.Contains(got, "c.asm: Passed") {
		t.Errorf("lenient run did not report every test case: %q", got)
	}
	if !strings.Contains(got, "1 of 3 test cases failed.") {
		t.Errorf("output missing final verdict: %q", got)
	}
}

func TestRun_ModeFromConfigFile(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, failingSuite)

	Run([]string{"--config", writeConfig(t, map[string]any{"mode": "lenient"}), dir})

	if !strings.Contains(stdout.String(), "c.asm: Passed") {
		t.Errorf("mode from config file was not applied: %q", stdout.String())
	}
}

func TestRun_ExtraArgsForwarded(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, "-- f.asm --\nflags\nprintln\n-- f.out --\n--release --trace\n")

	code := Run([]string{"--config", writeConfig(t, nil), dir, "--release --trace"})

	if code != errors.ExitSuccess {
		t.Errorf("Run() = %d, want %d; output:\n%s", code, errors.ExitSuccess, stdout.String())
	}
}

func TestRun_Archive(t *testing.T) {
	stdout, _ := captureOutput(t)
	path := filepath.Join(t.TempDir(), "suite.txtar")
	if err := os.WriteFile(path, []byte(passingSuite), 0o644); err != nil {
		t.Fatal(err)
	}

	code := Run([]string{"--config", writeConfig(t, nil), path})

	if code != errors.ExitSuccess {
		t.Errorf("Run() = %d, want %d; output:\n%s", code, errors.ExitSuccess, stdout.String())
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	stdout, stderr := captureOutput(t)
	missing := filepath.Join(t.TempDir(), "test_cases")

	code := Run([]string{"--config", writeConfig(t, nil), missing})

	if code != errors.ExitDiscoveryError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitDiscoveryError)
	}
	if !strings.HasPrefix(stderr.String(), "asmcheck: cannot read test cases from "+missing) {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want no case lines", stdout.String())
	}
}

func TestRun_MissingArchive(t *testing.T) {
	_, stderr := captureOutput(t)

	code := Run([]string{"--config", writeConfig(t, nil), filepath.Join(t.TempDir(), "none.txtar")})

	if code != errors.ExitDiscoveryError {
		t.Errorf("Run() = %d, want %d; stderr = %q", code, errors.ExitDiscoveryError, stderr.String())
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	_, stderr := captureOutput(t)

	code := Run([]string{"--config", writeConfig(t, nil), t.TempDir()})

	if code != errors.ExitSuccess {
		t.Errorf("Run() = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stderr.String(), "no test cases found") {
		t.Errorf("stderr = %q, want warning", stderr.String())
	}
}

func TestRun_IncompletePolicy(t *testing.T) {
	const suite = `
-- a.asm --
println 1
-- a.out --
1
-- orphan.asm --
println x
`
	tests := []struct {
		policy string
		want   int
	}{
		{"skip", errors.ExitSuccess},
		{"fail", errors.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			stdout, _ := captureOutput(t)
			dir := writeSuite(t, suite)

			code := Run([]string{"--config", writeConfig(t, nil), "--incomplete=" + tt.policy, dir})

			if code != tt.want {
				t.Errorf("Run() = %d, want %d", code, tt.want)
			}
			if !strings.Contains(stdout.String(), "orphan.asm: Incomplete\n  missing expected output\n") {
				t.Errorf("output missing incomplete report: %q", stdout.String())
			}
		})
	}
}

func TestRun_QuietOnlyPrintsFailures(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, failingSuite)

	Run([]string{"--config", writeConfig(t, nil), "--lenient", "-q", dir})

	got := stdout.String()
	if strings.Contains(got, "Passed") || strings.Contains(got, "Summary") {
		t.Errorf("quiet output contains passes or summary: %q", got)
	}
	if !strings.Contains(got, "b.asm: Failed") {
		t.Errorf("quiet output missing failure: %q", got)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"bad jobs", []string{"--jobs=many", "x"}},
		{"jobs out of range", []string{"--jobs=1000", "x"}},
		{"bad mode input", []string{"--input=stdin", "x"}},
		{"reserved extension", []string{"--ext=.out", "x"}},
		{"bad timeout", []string{"--timeout=forever", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr := captureOutput(t)
			args := append([]string{"--config", writeConfig(t, nil)}, tt.args...)

			if code := Run(args); code != errors.ExitConfigError {
				t.Errorf("Run(%q) = %d, want %d", tt.args, code, errors.ExitConfigError)
			}
			if !strings.HasPrefix(stderr.String(), "asmcheck: ") {
				t.Errorf("stderr = %q, want asmcheck: prefix", stderr.String())
			}
		})
	}
}

func TestRun_InvalidConfigFile(t *testing.T) {
	_, stderr := captureOutput(t)
	path := writeConfig(t, map[string]any{"mode": "sloppy"})

	if code := Run([]string{"--config", path, t.TempDir()}); code != errors.ExitConfigError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitConfigError)
	}
	if !strings.Contains(stderr.String(), "invalid configuration") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_UnknownConfigFieldWarns(t *testing.T) {
	_, stderr := captureOutput(t)
	path := writeConfig(t, map[string]any{"colour": true})

	if code := Run([]string{"--config", path, t.TempDir()}); code != errors.ExitSuccess {
		t.Errorf("Run() = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stderr.String(), `unknown field "colour"`) {
		t.Errorf("stderr = %q, want unknown-field warning", stderr.String())
	}
}

func TestRun_VerboseAnnouncesRun(t *testing.T) {
	stdout, _ := captureOutput(t)
	dir := writeSuite(t, passingSuite)

	Run([]string{"--config", writeConfig(t, nil), "-v", dir})

	if !strings.HasPrefix(stdout.String(), "Running 2 test cases from "+dir) {
		t.Errorf("verbose output = %q", stdout.String())
	}
}
