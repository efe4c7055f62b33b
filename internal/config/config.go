// Package config holds the pipeline configuration, loadable from a YAML
// file and overridable by command-line flags.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config describes one pipeline run.
type Config struct {
	NamesFile    string `yaml:"names_file" validate:"required"`
	TransFile    string `yaml:"trans_file" validate:"required"`
	MetadataFile string `yaml:"metadata_file"`
	NodelistFile string `yaml:"nodelist_file"`

	// Nodelist column convention: raw name -> canonical value.
	NodelistNameColumn  string `yaml:"nodelist_name_column"`
	NodelistValueColumn string `yaml:"nodelist_value_column"`

	OutputDir     string   `yaml:"output_dir" validate:"required"`
	BatchSize     int      `yaml:"batch_size" validate:"gte=1"`
	SkipFiltering bool     `yaml:"skip_filtering"`
	DictColumns   []string `yaml:"dict_columns"`
}

// Default returns a config with the conventional values filled in.
func Default() *Config {
	return &Config{
		NodelistNameColumn:  "name",
		NodelistValueColumn: "value",
		OutputDir:           "output",
		BatchSize:           100,
	}
}

// Load reads a YAML config file over the defaults. The result is not
// validated; callers apply flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config after all overrides are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config: field %s fails %q validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
