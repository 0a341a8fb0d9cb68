package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CTAG07/pagegen/pkg/templating"
	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
)

// GeneratorConfig holds the input, output and logging settings of a run.
type GeneratorConfig struct {
	LogLevel     string `json:"log_level"`
	TemplatePath string `json:"template_path"`
	DataPath     string `json:"data_path"`
	OutputDir    string `json:"output_dir"`
	LedgerPath   string `json:"ledger_path"` // empty disables the run ledger
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Generator *GeneratorConfig           `json:"generator_config"`
	Templates *templating.TemplateConfig `json:"template_config"`
}

// DefaultGeneratorConfig creates a generator configuration with default values.
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		LogLevel:     "info",
		TemplatePath: "templates/personal_page.html",
		DataPath:     "attendees.json",
		OutputDir:    "p",
		LedgerPath:   "data/pagegen.db",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	tmplConfig := templating.DefaultConfig()
	config := &Config{
		Generator: DefaultGeneratorConfig(),
		Templates: &tmplConfig,
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults are still usable without the file.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Generator == nil {
		config.Generator = DefaultGeneratorConfig()
	}
	if config.Templates == nil {
		config.Templates = &tmplConfig
	}

	return config, nil
}

// envOverrides maps environment variables onto generator settings.
var envOverrides = []struct {
	key   string
	field func(*GeneratorConfig) *string
}{
	{"PAGEGEN_LOG_LEVEL", func(c *GeneratorConfig) *string { return &c.LogLevel }},
	{"PAGEGEN_TEMPLATE_PATH", func(c *GeneratorConfig) *string { return &c.TemplatePath }},
	{"PAGEGEN_DATA_PATH", func(c *GeneratorConfig) *string { return &c.DataPath }},
	{"PAGEGEN_OUTPUT_DIR", func(c *GeneratorConfig) *string { return &c.OutputDir }},
	{"PAGEGEN_LEDGER_PATH", func(c *GeneratorConfig) *string { return &c.LedgerPath }},
}

// ApplyEnv overrides generator settings from the process environment and,
// for variables not set there, from the dotenv file at envPath. A missing
// dotenv file is not an error.
func (c *Config) ApplyEnv(envPath string) error {
	dotenv, err := godotenv.Read(envPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", filepath.Base(envPath), err)
		}
		dotenv = map[string]string{}
	}

	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.key)
		if !ok {
			v, ok = dotenv[o.key]
		}
		if ok {
			*o.field(c.Generator) = v
		}
	}
	return nil
}
