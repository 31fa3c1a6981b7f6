package config

// Default configuration values.
const (
	DefaultDirectory       = "test_cases/"
	DefaultExtension       = ".asm"
	DefaultInputMode       = string(InputModeInline)
	DefaultInlineInputFlag = "-u"
	DefaultFileInputFlag   = "--stdin"
	DefaultMode            = string(ModeStrict)
	DefaultTimeout         = "30s"
	DefaultIncomplete      = string(IncompleteSkip)
)

// DefaultRunner is the interpreter invocation used when none is configured.
var DefaultRunner = []string{"cargo", "-q", "run"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}
	if len(cfg.Runner) == 0 {
		cfg.Runner = append([]string(nil), DefaultRunner...)
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.InputMode == "" {
		cfg.InputMode = DefaultInputMode
	}
	if cfg.InlineInputFlag == "" {
		cfg.InlineInputFlag = DefaultInlineInputFlag
	}
	if cfg.FileInputFlag == "" {
		cfg.FileInputFlag = DefaultFileInputFlag
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.Timeout == "" {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Incomplete == "" {
		cfg.Incomplete = DefaultIncomplete
	}
}
