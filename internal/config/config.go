package config

import (
	"os"
	"path/filepath"

	"github.com/Zachacious/go-lexspec/internal/output"
	env "github.com/caarlos0/env/v11"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file looked up by Load.
const FileName = ".lexspec.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEXSPEC_"

// Config controls a generation run. Values come from defaults, then the
// project's .lexspec.yaml, then LEXSPEC_* environment variables. The CLI
// applies its flags on top.
type Config struct {
	Lexicons    string        `yaml:"lexicons"    env:"LEXICONS"`
	Output      string        `yaml:"output"      env:"OUTPUT"`
	Format      output.Format `yaml:"format"      env:"FORMAT"`
	Concurrency int           `yaml:"concurrency" env:"CONCURRENCY"`
	Verify      bool          `yaml:"verify"      env:"VERIFY"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Lexicons: "./lexicons",
		Output:   "./spec/api.json",
		Format:   output.FormatJSON,
	}
}

// Load builds the configuration for the project rooted at projectPath.
func Load(projectPath string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(projectPath, FileName)
	data, err := os.ReadFile(configPath)
	if err == nil {
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, errors.Errorf("parsing %s: %w", configPath, unmarshalErr)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Errorf("reading %s: %w", configPath, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the format name and rejects unusable values.
func (c *Config) Validate() error {
	f, err := output.ParseFormat(string(c.Format))
	if err != nil {
		return err
	}
	c.Format = f
	if c.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Lexicons == "" {
		return errors.New("lexicons directory must be set")
	}
	if c.Output == "" {
		return errors.New("output path must be set")
	}
	return nil
}
