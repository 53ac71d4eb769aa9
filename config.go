package mural

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration. All durations are seconds.
type Config struct {
	// StoreURL is the base URL of the persistence service. Empty selects
	// the built-in in-memory store with demo seed data.
	StoreURL string `toml:"store_url"`
	// TokenPath is where the viewer identity token is persisted.
	TokenPath string `toml:"token_path"`

	EntityPollSeconds    float64 `toml:"entity_poll_seconds"`
	ResonancePollSeconds float64 `toml:"resonance_poll_seconds"`

	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	base := configDir()
	return Config{
		TokenPath:            filepath.Join(base, "viewer-token"),
		EntityPollSeconds:    12,
		ResonancePollSeconds: 7,
		WindowWidth:          960,
		WindowHeight:         720,
	}
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mural")
	}
	return ".mural"
}

// ReadConfig decodes a Config from the provided reader, filling defaults
// for any omitted fields.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. A missing file is not an
// error; defaults are returned.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// WriteConfig encodes the config as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	if c.EntityPollSeconds <= 0 {
		return fmt.Errorf("entity_poll_seconds must be positive, got %v", c.EntityPollSeconds)
	}
	if c.ResonancePollSeconds <= 0 {
		return fmt.Errorf("resonance_poll_seconds must be positive, got %v", c.ResonancePollSeconds)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}
