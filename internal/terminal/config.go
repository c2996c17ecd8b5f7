package terminal

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultEndpoint = "http://localhost:8080"
	DefaultWidth    = 80
)

// Config is the terminal client's settings file.
type Config struct {
	Endpoint     string `toml:"endpoint"`
	AuthToken    string `toml:"auth_token"`
	ChatPath     string `toml:"chat_path"`
	FeedbackPath string `toml:"feedback_path"`
	Width        int    `toml:"width"`
}

func DefaultConfig() Config {
	return Config{Endpoint: DefaultEndpoint, Width: DefaultWidth}
}

// LoadConfig decodes path over the defaults. An empty path yields the
// defaults; a missing file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("terminal: config file %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("terminal: failed to parse config: %w", err)
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	return cfg, nil
}
