// Package config loads mathsolver settings from a TOML file and
// MATHSOLVER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/abhisek/mathsolver/internal/llm"
	"github.com/abhisek/mathsolver/internal/ocr"
	"github.com/abhisek/mathsolver/internal/store"
)

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string `toml:"db_path"`

	// HistorySize is how many history entries are kept.
	HistorySize int `toml:"history_size"`

	// TimeoutSeconds bounds processing of one image.
	TimeoutSeconds int `toml:"timeout_seconds"`

	OCR OCRConfig  `toml:"ocr"`
	LLM llm.Config `toml:"llm"`
}

// OCRConfig holds image intake and recognition settings.
type OCRConfig struct {
	MinConfidence float64  `toml:"min_confidence"`
	MaxImageBytes int64    `toml:"max_image_bytes"`
	Formats       []string `toml:"formats"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HistorySize:    store.DefaultHistorySize,
		TimeoutSeconds: 60,
		OCR: OCRConfig{
			MinConfidence: ocr.DefaultMinConfidence,
			MaxImageBytes: ocr.DefaultMaxImageBytes,
			Formats:       append([]string(nil), ocr.DefaultFormats...),
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mathsolver/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathsolver", "config.toml"), nil
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error. An empty path uses
// DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	cfg.resolveLLM()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with any MATHSOLVER_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MATHSOLVER_DB"); v != "" {
		c.DBPath = v
	}
	if err := intFromEnv(&c.HistorySize, "MATHSOLVER_HISTORY_SIZE"); err != nil {
		return err
	}
	if err := intFromEnv(&c.TimeoutSeconds, "MATHSOLVER_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	if v := os.Getenv("MATHSOLVER_OCR_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MATHSOLVER_OCR_MIN_CONFIDENCE: %w", err)
		}
		c.OCR.MinConfidence = f
	}
	c.LLM.ApplyEnv()
	return nil
}

func intFromEnv(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// resolveLLM falls back to the first standard API key found in the
// environment when the configured provider has no key.
func (c *Config) resolveLLM() {
	if !c.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Retry = c.LLM.Retry
			c.LLM = found
		}
	}
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("ocr.min_confidence must be between 0 and 1, got %g", c.OCR.MinConfidence)
	}
	if c.OCR.MaxImageBytes < 1 {
		return fmt.Errorf("ocr.max_image_bytes must be positive, got %d", c.OCR.MaxImageBytes)
	}
	return nil
}

// Timeout is the processing timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Limits returns the image intake limits.
func (c Config) Limits() ocr.Limits {
	return ocr.Limits{MaxBytes: c.OCR.MaxImageBytes, Formats: c.OCR.Formats}
}

// Recognizer returns the OCR recognizer settings.
func (c Config) Recognizer() ocr.Config {
	rc := ocr.DefaultConfig()
	rc.MinConfidence = c.OCR.MinConfidence
	rc.Timeout = c.Timeout()
	return rc
}
