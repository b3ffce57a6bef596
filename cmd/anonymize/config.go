package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/anonymizer/pkg/pipeline"
)

// fileConfig is the --config file. Keys match the stage flags without the
// "feature-" prefix and with dashes as underscores.
type fileConfig struct {
	Input     string `json:"input" yaml:"input" toml:"input"`
	Output    string `json:"output" yaml:"output" toml:"output"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	Summary   bool   `json:"summary" yaml:"summary" toml:"summary"`

	Remove      []string `json:"remove" yaml:"remove" toml:"remove"`
	MinMaxScale []string `json:"min_max_scale" yaml:"min_max_scale" toml:"min_max_scale"`
	Binarize    []string `json:"binarize" yaml:"binarize" toml:"binarize"`
	Categorize  []string `json:"categorize" yaml:"categorize" toml:"categorize"`
	Fill        []string `json:"fill" yaml:"fill" toml:"fill"`
	Clamp       []string `json:"clamp" yaml:"clamp" toml:"clamp"`
	Round       []string `json:"round" yaml:"round" toml:"round"`
	Anonymize   []string `json:"anonymize" yaml:"anonymize" toml:"anonymize"`
}

func (c *fileConfig) options() pipeline.Options {
	return pipeline.Options{
		Remove:      c.Remove,
		MinMaxScale: c.MinMaxScale,
		Binarize:    c.Binarize,
		Categorize:  c.Categorize,
		Fill:        c.Fill,
		Clamp:       c.Clamp,
		Round:       c.Round,
		Anonymize:   c.Anonymize,
	}
}

// stage returns a pointer to the list for a config key.
func (c *fileConfig) stage(key string) *[]string {
	switch key {
	case "remove":
		return &c.Remove
	case "min_max_scale":
		return &c.MinMaxScale
	case "binarize":
		return &c.Binarize
	case "categorize":
		return &c.Categorize
	case "fill":
		return &c.Fill
	case "clamp":
		return &c.Clamp
	case "round":
		return &c.Round
	case "anonymize":
		return &c.Anonymize
	}
	return nil
}

// loadConfig decodes path as JSON, YAML or TOML by its extension.
func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q (want .json, .yaml, .yml or .toml)", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// envConfig holds the settings read from the environment.
type envConfig struct {
	LogLevel  string `env:"ANONYMIZE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ANONYMIZE_LOG_FORMAT" envDefault:"text"`
}

// loadEnv reads a .env file in the working directory if there is one, then
// parses the environment.
func loadEnv() (envConfig, error) {
	// Ignore errors - the .env file might not exist and that's ok
	_ = godotenv.Load()
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseDelimiter accepts a single character, "tab" or "\t", or "auto" to sniff.
func parseDelimiter(s string) (delim rune, sniff bool, err error) {
	switch strings.ToLower(s) {
	case "":
		return ',', false, nil
	case "auto":
		return 0, true, nil
	case "tab", `\t`:
		return '\t', false, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, false, fmt.Errorf("invalid delimiter %q: must be a single character, tab or auto", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '#' || r == '"' || r == '\n' || r == '\r' {
		return 0, false, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, false, nil
}
