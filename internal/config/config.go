package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/renjie/prism-units/internal/logger"
	"github.com/renjie/prism-units/pkg/core/domain"
)

// Config is the prism-units configuration file.
// A zero value field falls back to its default; Rules nil means the built-in chain.
type Config struct {
	ConcurrencyLimit int                        `yaml:"concurrency_limit"`
	DefaultPrecision *int                       `yaml:"default_precision"`
	Rules            []domain.RewriteRuleConfig `yaml:"rules"`
	UnitsFile        string                     `yaml:"units_file"`
	KnownUnits       []string                   `yaml:"known_units"`
	QuarantineFile   string                     `yaml:"quarantine_file"`
	Log              logger.Config              `yaml:"log"`
}

const defaultConcurrencyLimit = 100

// DefaultKnownUnits is the unit list checked by "validate" when none is configured.
var DefaultKnownUnits = []string{
	"number", "counts", "unitless", "fraction", "code", "ratio",
	"year", "month", "mo", "day", "h", "hr", "hour", "d", "min",
	"degF", "degC",
	"km", "m", "cm", "mm",
	"g", "kg", "mg", "Mg", "lb", "ton", "t",
	"ha", "m2", "cm2", "mm2", "km2",
	"L", "l", "m3", "cm3", "mm3",
	"percent", "%", "ppm", "ppb", "vpm",
	"cmol", "mmol",
	"MJ",
	"deg",
	"S",
	"Pa",
	"plant", "unit", "eye", "leaf", "corm", "shoot", "ear",
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ConcurrencyLimit: defaultConcurrencyLimit,
		Rules:            domain.DefaultRewriteRules(),
		KnownUnits:       append([]string(nil), DefaultKnownUnits...),
	}
}

// Load reads a YAML config file. Relative units_file and quarantine_file
// paths are resolved against the config file's directory.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, domain.NewError("config.load", domain.KindInvalidConfig, path, err)
	}

	cfg, err := Parse(b)
	if err != nil {
		return Config{}, domain.NewError("config.load", domain.KindInvalidConfig, path, err)
	}

	dir := filepath.Dir(path)
	cfg.UnitsFile = resolve(dir, cfg.UnitsFile)
	cfg.QuarantineFile = resolve(dir, cfg.QuarantineFile)
	return cfg, nil
}

// Parse decodes and validates a YAML document, filling defaults.
func Parse(b []byte) (Config, error) {
	cfg := Config{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if cfg.ConcurrencyLimit == 0 {
		cfg.ConcurrencyLimit = defaultConcurrencyLimit
	}
	if cfg.Rules == nil {
		cfg.Rules = domain.DefaultRewriteRules()
	}
	if cfg.KnownUnits == nil {
		cfg.KnownUnits = append([]string(nil), DefaultKnownUnits...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and rule identity. Rule parameters are checked when the chain is built.
func (c Config) Validate() error {
	if c.ConcurrencyLimit < 0 {
		return fmt.Errorf("concurrency_limit must be positive, got %d", c.ConcurrencyLimit)
	}
	if c.DefaultPrecision != nil && *c.DefaultPrecision < 0 {
		return fmt.Errorf("default_precision must be non-negative, got %d", *c.DefaultPrecision)
	}

	seen := make(map[string]bool)
	for i, r := range c.Rules {
		if r.Type == "" {
			return fmt.Errorf("rules[%d].type is required", i)
		}
		if r.ID == "" {
			continue
		}
		if seen[r.ID] {
			return fmt.Errorf("rules[%d].id %q is duplicated", i, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
