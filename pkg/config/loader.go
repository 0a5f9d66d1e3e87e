package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix selects the environment variables read into the config
	EnvPrefix = "PROCESSCUBE_"

	// EnvFrameworkTestVersion pins the framework version for test builds
	EnvFrameworkTestVersion = "NEXT_PRIVATE_TEST_VERSION"

	appDir         = "create-processcube-app"
	userConfigFile = "config.toml"
)

// LoadOptions controls where Load looks for configuration
type LoadOptions struct {
	// UserConfigPath overrides the XDG user config location. Empty means default.
	UserConfigPath string
}

// Default returns the embedded defaults with no user or environment overrides
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults do not decode: %v", err))
	}
	return cfg
}

// Load merges defaults, the user config file and the environment
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. User config file if it exists
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load user config from %s: %w", userPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat user config: %w", err)
	}

	// 3. PROCESSCUBE_* env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. The framework test pin keeps its historical name
	if v := os.Getenv(EnvFrameworkTestVersion); v != "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{
			"framework.version": v,
		}, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", EnvFrameworkTestVersion, err)
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserConfigPath returns the default location of the user config file
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appDir, userConfigFile)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Rewrite.Concurrency < 1 {
		return fmt.Errorf("rewrite.concurrency must be at least 1, got %d", cfg.Rewrite.Concurrency)
	}
	if cfg.Bundles.HeaderLines < 0 {
		return fmt.Errorf("bundles.headerlines must not be negative, got %d", cfg.Bundles.HeaderLines)
	}
	if !strings.Contains(cfg.Alias.Default, "*") {
		return fmt.Errorf("alias.default must contain a wildcard, got %q", cfg.Alias.Default)
	}
	if cfg.Layout.SrcDir == "" || cfg.Bundles.ToolDir == "" {
		return fmt.Errorf("layout.srcdir and bundles.tooldir must be set")
	}
	return nil
}
