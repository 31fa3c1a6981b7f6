package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/asmcheck/internal/schema"
)

// FileNames lists the config files looked up in the working directory, in order.
var FileNames = []string{"asmcheck.json", "asmcheck.yaml", "asmcheck.yml"}

// Find returns the first config file present in dir, or "" if there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads and parses a config file without applying defaults.
// YAML files (.yaml, .yml) are converted to JSON first.
func Load(path string) (*Config, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the schema, applies
// defaults, validates it, and returns warnings for ignored fields.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, warnings, err := LoadWithWarnings(data)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, warnings, nil
}

// readAsJSON returns the file content as JSON, converting YAML when needed.
func readAsJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		return data, nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		// An empty document decodes to io.EOF; treat it as an empty config.
		if len(bytes.TrimSpace(data)) == 0 {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		return []byte("{}"), nil
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML config: %w", err)
	}
	return out, nil
}
