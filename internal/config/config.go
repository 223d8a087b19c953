// Package config loads the optional labelconv.yaml project file. Flags and
// environment variables override it; it only supplies defaults for paths
// and conversion conventions.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when --config is not
// given.
const DefaultFile = "labelconv.yaml"

// Default values. These are the single source of truth; no other code
// should duplicate them.
const (
	DefaultOutDir    = "out"
	DefaultWorkers   = 1
	DefaultDelimiter = "\t"
	DefaultLabelExt  = ".txt"
)

type Config struct {
	// Labels is the label root directory.
	Labels string `yaml:"labels,omitempty"`
	// Out is the output directory for generated CSVs.
	Out string `yaml:"out,omitempty"`
	// Workers bounds concurrent conversions.
	Workers int `yaml:"workers,omitempty"`
	// Delimiter separates label line fields.
	Delimiter string `yaml:"delimiter,omitempty"`
	// LabelExt is the label file extension, dot included.
	LabelExt string `yaml:"label_ext,omitempty"`
}

// New returns a Config populated with defaults.
func New() Config {
	return Config{
		Out:       DefaultOutDir,
		Workers:   DefaultWorkers,
		Delimiter: DefaultDelimiter,
		LabelExt:  DefaultLabelExt,
	}
}

// Load reads path and merges it over the defaults. A missing file is not an
// error when explicit is false (the default lookup); it is when the user
// asked for the file by name.
func Load(path string, explicit bool) (Config, error) {
	cfg := New()

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.Labels != "" {
		cfg.Labels = file.Labels
	}
	if file.Out != "" {
		cfg.Out = file.Out
	}
	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.Delimiter != "" {
		cfg.Delimiter = file.Delimiter
	}
	if file.LabelExt != "" {
		cfg.LabelExt = file.LabelExt
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("config %s: workers must be >= 1", path)
	}
	return cfg, nil
}
