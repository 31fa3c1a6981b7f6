// Package config provides configuration loading and validation for asmcheck.
package config

// Config represents an asmcheck configuration file (asmcheck.json or asmcheck.yaml).
type Config struct {
	Directory       string   `json:"directory,omitempty"`
	Runner          []string `json:"runner,omitempty"`
	Extension       string   `json:"extension,omitempty"`
	InputMode       string   `json:"input_mode,omitempty"` // "inline" or "file"
	InlineInputFlag string   `json:"inline_input_flag,omitempty"`
	FileInputFlag   string   `json:"file_input_flag,omitempty"`
	ExtraArgs       []string `json:"extra_args,omitempty"`
	Mode            string   `json:"mode,omitempty"`       // "strict" or "lenient"
	Jobs            int      `json:"jobs,omitempty"`       // 0 means one per CPU
	Timeout         string   `json:"timeout,omitempty"`    // Go duration, "0" disables
	Incomplete      string   `json:"incomplete,omitempty"` // "skip" or "fail"
}

// Mode selects how the run reacts to a failing fixture.
type Mode string

const (
	// ModeStrict stops at the first failing fixture (in ID order) and exits non-zero.
	ModeStrict Mode = "strict"
	// ModeLenient reports every fixture and exits non-zero if any failed.
	ModeLenient Mode = "lenient"
)

// InputMode selects how fixture input reaches the interpreter.
type InputMode string

const (
	// InputModeInline passes the input content as a flag value.
	InputModeInline InputMode = "inline"
	// InputModeFile passes the input file path as a flag value.
	InputModeFile InputMode = "file"
)

// IncompletePolicy selects how fixtures missing required files are treated.
type IncompletePolicy string

const (
	// IncompleteSkip reports incomplete fixtures without failing the run.
	IncompleteSkip IncompletePolicy = "skip"
	// IncompleteFail counts incomplete fixtures as failures.
	IncompleteFail IncompletePolicy = "fail"
)
