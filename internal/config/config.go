package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvStyle    = "QDIAGX_STYLE"
	EnvLogLevel = "QDIAGX_LOG_LEVEL"
	EnvBits     = "QDIAGX_BITS"
)

// Config holds the qdiagx settings.
type Config struct {
	// NumBits is the register size of the English files. Zero means unset.
	NumBits int `yaml:"num_bits"`

	// Style is the DIAG decomposition style: one_line, exact or oracular.
	Style string `yaml:"style"`

	// GroundedBits are the ancilla bits the oracular style may use; they are
	// kept sorted ascending.
	GroundedBits []int `yaml:"grounded_bits,omitempty"`

	// Verify simulates every expansion against its DIAG line.
	Verify bool `yaml:"verify"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ValidStyles lists the accepted decomposition styles.
var ValidStyles = []string{"one_line", "exact", "oracular"}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the accepted log encodings.
var ValidFormats = []string{"console", "json"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Style: "exact",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Unknown keys are rejected. Environment overrides are applied
// either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if style := os.Getenv(EnvStyle); style != "" {
		c.Style = style
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if bits := os.Getenv(EnvBits); bits != "" {
		n, err := strconv.Atoi(bits)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBits, bits, err)
		}
		c.NumBits = n
	}
	return nil
}

// Normalize sorts the grounded bits.
func (c *Config) Normalize() {
	slices.Sort(c.GroundedBits)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.NumBits < 0 {
		return fmt.Errorf("num_bits must not be negative, got %d", c.NumBits)
	}
	if !slices.Contains(ValidStyles, c.Style) {
		return fmt.Errorf("invalid style: %s (valid: %v)", c.Style, ValidStyles)
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !slices.Contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	if !slices.IsSorted(c.GroundedBits) {
		return fmt.Errorf("grounded_bits must be sorted: %v", c.GroundedBits)
	}
	for i, g := range c.GroundedBits {
		if g < 0 || (c.NumBits > 0 && g >= c.NumBits) {
			return fmt.Errorf("grounded bit %d not in [0,%d)", g, c.NumBits)
		}
		if i > 0 && c.GroundedBits[i-1] == g {
			return fmt.Errorf("grounded bit %d listed twice", g)
		}
	}
	if c.Style == "oracular" && len(c.GroundedBits) == 0 {
		return fmt.Errorf("style oracular needs at least one grounded bit")
	}
	return nil
}
