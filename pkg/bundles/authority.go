package bundles

import (
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/templates"
)

// EnginesKey is the engine registration section of the authority config
const EnginesKey = "engines"

// AuthorityConfig is the identity provider's config document. Engines is
// only written when the engine integration is enabled too.
type AuthorityConfig struct {
	IssuerURL string               `json:"issuerUrl"`
	Port      int                  `json:"port,omitempty"`
	Database  *DatabaseSettings    `json:"database,omitempty"`
	Clients   []ClientRegistration `json:"clients,omitempty"`
	Engines   []EngineRegistration `json:"engines,omitempty"`
}

// ClientRegistration is an OAuth client known to the identity provider
type ClientRegistration struct {
	ClientID               string   `json:"clientId"`
	ClientSecret           string   `json:"clientSecret,omitempty"`
	RedirectURIs           []string `json:"redirectUris,omitempty"`
	PostLogoutRedirectURIs []string `json:"postLogoutRedirectUris,omitempty"`
	GrantTypes             []string `json:"grantTypes,omitempty"`
	Scopes                 []string `json:"scopes,omitempty"`
}

// EngineRegistration lets the workflow engine authenticate
type EngineRegistration struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret,omitempty"`
	Audience     string   `json:"audience,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

// Authority is the auth integration
type Authority struct {
	store *templates.Store
}

// NewAuthority creates the auth integration over store
func NewAuthority(store *templates.Store) *Authority {
	return &Authority{store: store}
}

// Name implements Integration
func (a *Authority) Name() templates.BundleName {
	return templates.BundleAuthority
}

// Contribute implements Integration
func (a *Authority) Contribute(ctx Context) (*Contribution, error) {
	b, err := a.store.Bundle(templates.BundleAuthority)
	if err != nil {
		return nil, err
	}

	fragments, err := readAll(b, templates.EnvFragment, templates.ManifestFragment,
		templates.ConfigFragment, Middleware, RouteFile, UsersFile)
	if err != nil {
		return nil, err
	}

	var cfg AuthorityConfig
	if err := decodeStrict(fragments[templates.ConfigFragment], &cfg, string(b.Name), templates.ConfigFragment); err != nil {
		return nil, err
	}
	if !ctx.Request.EnableEngine {
		cfg.Engines = nil
	}
	configData, err := encode(&cfg)
	if err != nil {
		return nil, err
	}

	routeDir := ctx.RouteDir()
	configDir := AuthorityConfigDir(ctx)

	return &Contribution{
		Bundle: templates.BundleAuthority,
		Dirs:   []string{routeDir, configDir},
		Files: []File{
			{Path: ctx.Path(Middleware), Data: fragments[Middleware]},
			{Path: filepath.Join(routeDir, RouteFile), Data: fragments[RouteFile]},
			{Path: filepath.Join(configDir, templates.ConfigFragment), Data: configData},
			{Path: filepath.Join(configDir, UsersFile), Data: fragments[UsersFile]},
		},
		Env:      fragments[templates.EnvFragment],
		Manifest: fragments[templates.ManifestFragment],
	}, nil
}

// AuthorityConfigDir returns the directory the authority config is written to
func AuthorityConfigDir(ctx Context) string {
	return ctx.ToolDir(string(templates.BundleAuthority))
}

func readAll(b *templates.Bundle, names ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := b.File(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}
