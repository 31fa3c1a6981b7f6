// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Writer handles CLI output formatting.
//
// All writes go through a mutex so that reports produced by concurrently
// finishing fixtures never interleave. Multi-line reports are assembled first
// and written with a single call.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quiet = quiet
}

// SetColor forces colored output on or off.
func (w *Writer) SetColor(color bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.color = color
}

func (w *Writer) isQuiet() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quiet
}

func (w *Writer) useColor() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.color
}

func (w *Writer) write(dst io.Writer, s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = io.WriteString(dst, s)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	w.write(w.out, fmt.Sprintf(format+"\n", args...))
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	w.write(w.err, fmt.Sprintf(format+"\n", args...))
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.isQuiet() {
		return
	}
	w.Println(format, args...)
}

// Case statuses understood by the Case method.
const (
	StatusPassed     = "passed"
	StatusFailed     = "failed"
	StatusError      = "error"
	StatusIncomplete = "incomplete"
)

// CaseReport describes the outcome of one fixture.
type CaseReport struct {
	Program  string // Program path shown on the status line
	Status   string // One of the Status* constants
	Expected string
	Actual   string
	Stderr   string
	Detail   string // Execution error or missing files
	Diff     string // Optional line diff of expected vs actual
}

// Case prints the report for one fixture as a single write.
// Passed cases are omitted in quiet mode.
func (w *Writer) Case(r CaseReport) {
	if r.Status == StatusPassed && w.isQuiet() {
		return
	}

	color := w.useColor()
	// A Caser carries state, so each report gets its own.
	label := cases.Title(language.English).String(r.Status)
	if color {
		label = statusColor(r.Status) + label + reset
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Case %s: %s\n", r.Program, label)
	switch r.Status {
	case StatusFailed:
		fmt.Fprintf(&b, "  Expected: %s\n", r.Expected)
		fmt.Fprintf(&b, "  Got:      %s\n", r.Actual)
		fmt.Fprintf(&b, "  Errors: %s\n", r.Stderr)
		if r.Diff != "" {
			b.WriteString("  Diff (-expected +got):\n")
			for _, line := range strings.Split(strings.TrimRight(r.Diff, "\n"), "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
	case StatusError, StatusIncomplete:
		if r.Detail != "" {
			fmt.Fprintf(&b, "  %s\n", r.Detail)
		}
		if r.Stderr != "" {
			fmt.Fprintf(&b, "  Errors: %s\n", r.Stderr)
		}
	}
	w.write(w.out, b.String())
}

func statusColor(status string) string {
	switch status {
	case StatusPassed:
		return green
	case StatusIncomplete:
		return yellow
	default:
		return red
	}
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Semantic color roles for help output.
const (
	colorTitle       = bold + cyan
	colorSection     = bold + yellow
	colorPlaceholder = green
	colorFlag        = yellow
	colorDescription = dim
	colorExample     = cyan
)

// HelpTitle formats the main help title line.
func (w *Writer) HelpTitle(title string) {
	if w.useColor() {
		w.Println("%s%s%s", colorTitle, title, reset)
	} else {
		w.Println("%s", title)
	}
}

// HelpSection formats a section header (e.g., "Flags:").
func (w *Writer) HelpSection(title string) {
	w.Println("")
	if w.useColor() {
		w.Println("%s%s%s", colorSection, title, reset)
	} else {
		w.Println("%s", title)
	}
}

// HelpFlag formats a flag with its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	if w.useColor() {
		coloredName := colorPlaceholders(name)
		padding := width - len(name)
		if padding < 0 {
			padding = 0
		}
		w.Println("  %s%s%s%s  %s%s%s", colorFlag, coloredName, reset, strings.Repeat(" ", padding), colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}

// HelpExample formats an example command with description.
func (w *Writer) HelpExample(command, description string) {
	if w.useColor() {
		w.Println("  %s%s%s", colorExample, command, reset)
		if description != "" {
			w.Println("      %s%s%s", colorDescription, description, reset)
		}
	} else {
		w.Println("  %s", command)
		if description != "" {
			w.Println("      %s", description)
		}
	}
}

// HelpUsage formats usage lines.
func (w *Writer) HelpUsage(usage string) {
	if w.useColor() {
		w.Println("  %s", colorPlaceholders(usage))
	} else {
		w.Println("  %s", usage)
	}
}

// ErrorPrefix prints an error message with asmcheck prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.useColor() {
		w.Errorln("%sasmcheck:%s %s", red, reset, msg)
	} else {
		w.Errorln("asmcheck: %s", msg)
	}
}

// WarningSimple prints a warning message without the "warning:" prefix coloring the text.
func (w *Writer) WarningSimple(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.useColor() {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	if w.useColor() {
		w.Println("%s=== %s ===%s", bold+cyan, title, reset)
	} else {
		w.Println("=== %s ===", title)
	}
	w.Println("")
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.useColor() {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryPassed prints a passed items summary.
func (w *Writer) SummaryPassed(label, value string) {
	if w.useColor() {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, green, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	if w.useColor() {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, red, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummarySectionLabel prints a label for a summary section (e.g., "Failed fixtures:").
func (w *Writer) SummarySectionLabel(label string) {
	if w.useColor() {
		w.Println("  %s%s%s", dim, label, reset)
	} else {
		w.Println("  %s", label)
	}
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.useColor() {
		w.Println("%s%s%s", green, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.useColor() {
		w.Println("%s%s%s", red, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// colorPlaceholders highlights <placeholder> patterns in text.
func colorPlaceholders(text string) string {
	var result strings.Builder
	i := 0
	for i < len(text) {
		if text[i] == '<' {
			end := strings.Index(text[i:], ">")
			if end != -1 {
				placeholder := text[i : i+end+1]
				result.WriteString(reset)
				result.WriteString(colorPlaceholder)
				result.WriteString(placeholder)
				result.WriteString(reset)
				i += end + 1
				continue
			}
		}
		result.WriteByte(text[i])
		i++
	}
	return result.String()
}
