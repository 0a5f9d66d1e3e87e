package config

// Config holds the tool settings that shape a generated project
type Config struct {
	Alias     AliasConfig   `koanf:"alias" toml:"alias"`
	Rewrite   RewriteConfig `koanf:"rewrite" toml:"rewrite"`
	Layout    LayoutConfig  `koanf:"layout" toml:"layout"`
	Copy      CopyConfig    `koanf:"copy" toml:"copy"`
	Framework PackageConfig `koanf:"framework" toml:"framework"`
	SDK       PackageConfig `koanf:"sdk" toml:"sdk"`
	Bundles   BundlesConfig `koanf:"bundles" toml:"bundles"`
}

// AliasConfig describes the import alias templates are authored with
type AliasConfig struct {
	Default string `koanf:"default" toml:"default"`
}

// RewriteConfig bounds the alias rewrite worker pool
type RewriteConfig struct {
	Concurrency int `koanf:"concurrency" toml:"concurrency"`
}

// LayoutConfig drives the source-root relocation
type LayoutConfig struct {
	SrcDir   string   `koanf:"srcdir" toml:"srcdir"`
	Relocate []string `koanf:"relocate" toml:"relocate"`
}

// CopyConfig lists template-relative patterns excluded per feature flag
type CopyConfig struct {
	Lint     []string `koanf:"lint" toml:"lint"`
	Tailwind []string `koanf:"tailwind" toml:"tailwind"`
}

// PackageConfig names a package and an optional version pin
type PackageConfig struct {
	Name    string `koanf:"name" toml:"name"`
	Version string `koanf:"version" toml:"version"`
}

// Spec renders the package as an installer argument
func (p PackageConfig) Spec() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// BundlesConfig describes where integration bundles write their configs
type BundlesConfig struct {
	ToolDir     string `koanf:"tooldir" toml:"tooldir"`
	HeaderLines int    `koanf:"headerlines" toml:"headerlines"`
}
