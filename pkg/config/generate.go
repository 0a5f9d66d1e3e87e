package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Render serializes the effective configuration as TOML
func Render(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render configuration: %w", err)
	}
	return string(out), nil
}
