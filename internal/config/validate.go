package config

import (
	"fmt"
	"strings"
	"time"
)

// MaxJobs caps the worker pool. Subprocess launches are I/O bound, so more
// workers than this only add scheduling overhead.
const MaxJobs = 256

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	if len(cfg.Runner) == 0 || strings.TrimSpace(cfg.Runner[0]) == "" {
		return &ValidationError{Field: "runner", Message: "is required"}
	}
	if err := ValidateExtension(cfg.Extension); err != nil {
		return err
	}

	switch InputMode(cfg.InputMode) {
	case InputModeInline, InputModeFile:
	default:
		return &ValidationError{Field: "input_mode", Message: `must be "inline" or "file"`}
	}

	switch Mode(cfg.Mode) {
	case ModeStrict, ModeLenient:
	default:
		return &ValidationError{Field: "mode", Message: `must be "strict" or "lenient"`}
	}

	switch IncompletePolicy(cfg.Incomplete) {
	case IncompleteSkip, IncompleteFail:
	default:
		return &ValidationError{Field: "incomplete", Message: `must be "skip" or "fail"`}
	}

	if cfg.Jobs < 0 || cfg.Jobs > MaxJobs {
		return &ValidationError{Field: "jobs", Message: fmt.Sprintf("must be between 0 and %d", MaxJobs)}
	}

	if _, err := ParseTimeout(cfg.Timeout); err != nil {
		return err
	}

	return nil
}

// ValidateExtension checks a program extension: a leading dot followed by a
// single non-empty segment that does not collide with the input or output roles.
func ValidateExtension(ext string) error {
	if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext[1:], `./\`) {
		return &ValidationError{
			Field:   "extension",
			Message: fmt.Sprintf("%q must be a dot followed by a name, e.g. \".asm\"", ext),
		}
	}
	if ext == ".in" || ext == ".out" {
		return &ValidationError{
			Field:   "extension",
			Message: fmt.Sprintf("%q is reserved for fixture input and expected output", ext),
		}
	}
	return nil
}

// ParseTimeout parses a per-fixture timeout. Zero disables the timeout.
func ParseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ValidationError{Field: "timeout", Message: fmt.Sprintf("%q is not a duration (e.g. \"30s\")", s)}
	}
	if d < 0 {
		return 0, &ValidationError{Field: "timeout", Message: "must not be negative"}
	}
	return d, nil
}
