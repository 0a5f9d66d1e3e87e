package bundles

import (
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/templates"
)

// IAMKey is the identity provider section of the engine config
const IAMKey = "iam"

// EngineConfig is the workflow engine's config document. IAM is only
// written when the auth integration is enabled too.
type EngineConfig struct {
	HTTPServer *HTTPServerSettings `json:"httpServer,omitempty"`
	Database   *DatabaseSettings   `json:"database,omitempty"`
	Logging    *LoggingSettings    `json:"logging,omitempty"`
	IAM        *IAMSettings        `json:"iam,omitempty"`
}

// HTTPServerSettings configures the engine's HTTP listener
type HTTPServerSettings struct {
	Port int `json:"port"`
}

// LoggingSettings configures the engine's log output
type LoggingSettings struct {
	Level string `json:"level"`
}

// IAMSettings points the engine at the identity provider
type IAMSettings struct {
	BaseURL                  string `json:"baseUrl"`
	ClientID                 string `json:"clientId"`
	ClientSecret             string `json:"clientSecret,omitempty"`
	AllowAnonymousRootAccess bool   `json:"allowAnonymousRootAccess"`
}

// Engine is the workflow backend integration
type Engine struct {
	store *templates.Store
}

// NewEngine creates the workflow backend integration over store
func NewEngine(store *templates.Store) *Engine {
	return &Engine{store: store}
}

// Name implements Integration
func (e *Engine) Name() templates.BundleName {
	return templates.BundleEngine
}

// Contribute implements Integration
func (e *Engine) Contribute(ctx Context) (*Contribution, error) {
	b, err := e.store.Bundle(templates.BundleEngine)
	if err != nil {
		return nil, err
	}

	fragments, err := readAll(b, templates.EnvFragment, templates.ManifestFragment, templates.ConfigFragment)
	if err != nil {
		return nil, err
	}

	var cfg EngineConfig
	if err := decodeStrict(fragments[templates.ConfigFragment], &cfg, string(b.Name), templates.ConfigFragment); err != nil {
		return nil, err
	}
	if !ctx.Request.EnableAuthority {
		cfg.IAM = nil
	}
	configData, err := encode(&cfg)
	if err != nil {
		return nil, err
	}

	configDir := EngineConfigDir(ctx)

	return &Contribution{
		Bundle: templates.BundleEngine,
		Dirs:   []string{configDir},
		Files: []File{
			{Path: filepath.Join(configDir, templates.ConfigFragment), Data: configData},
		},
		Env:      fragments[templates.EnvFragment],
		Manifest: fragments[templates.ManifestFragment],
	}, nil
}

// EngineConfigDir returns the directory the engine config is written to
func EngineConfigDir(ctx Context) string {
	return ctx.ToolDir(string(templates.BundleEngine), "config")
}
