// Package config handles configuration management for create-processcube-app.
// It layers embedded TOML defaults, an optional user TOML file and
// environment variables through koanf and decodes the result into Config.
package config
