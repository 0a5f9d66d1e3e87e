// Package verify checks a generated project against the guarantees of the
// install pipeline and reports every violation it finds.
package verify

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/bundles"
	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/layout"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/tidwall/jsonc"
)

// Rule names a checked guarantee
type Rule string

const (
	RuleAlias      Rule = "alias"
	RuleRelocation Rule = "relocation"
	RuleEntryPage  Rule = "entry-page"
	RuleEnvUnion   Rule = "env-union"
	RuleManifest   Rule = "manifest-union"
	RuleConfigKeys Rule = "config-keys"
)

// Violation is one broken guarantee
type Violation struct {
	Rule    Rule
	Path    string
	Message string
}

// String implements fmt.Stringer
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Rule, v.Message, v.Path)
}

// Checker inspects a project written for one request
type Checker struct {
	fs     types.FS
	store  *templates.Store
	config *config.Config
}

// New creates a checker reading the project from fsys and the expected
// fragments from store.
func New(fsys types.FS, store *templates.Store, cfg *config.Config) *Checker {
	return &Checker{fs: fsys, store: store, config: cfg}
}

// Check returns every violation found under req.TargetRoot. An error is
// returned only when a file needed for a check cannot be read or parsed.
func (c *Checker) Check(req types.InstallRequest) ([]Violation, error) {
	var out []Violation

	checks := []func(types.InstallRequest) ([]Violation, error){
		c.checkAlias,
		c.checkRelocation,
		c.checkEntryPage,
		c.checkEnv,
		c.checkManifest,
		c.checkConfigKeys,
	}
	for _, check := range checks {
		v, err := check(req)
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

type resolutionConfig struct {
	CompilerOptions struct {
		Paths map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

func (c *Checker) checkAlias(req types.InstallRequest) ([]Violation, error) {
	path := filepath.Join(req.TargetRoot, req.Mode.ResolutionConfig())
	data, err := c.read(path)
	if err != nil {
		return nil, err
	}

	var cfg resolutionConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedData, "%s is not valid JSON", filepath.Base(path))
	}

	paths := cfg.CompilerOptions.Paths
	if len(paths) != 1 {
		return []Violation{{RuleAlias, path, fmt.Sprintf("expected exactly one alias mapping, found %d", len(paths))}}, nil
	}

	want := "./*"
	if req.UseSourceDir {
		want = "./" + c.config.Layout.SrcDir + "/*"
	}
	targets, ok := paths[req.Alias()]
	if !ok {
		return []Violation{{RuleAlias, path, fmt.Sprintf("alias %q is not mapped", req.Alias())}}, nil
	}
	if len(targets) != 1 || targets[0] != want {
		return []Violation{{RuleAlias, path, fmt.Sprintf("alias %q maps to %v, want [%s]", req.Alias(), targets, want)}}, nil
	}
	return nil, nil
}

func (c *Checker) checkRelocation(req types.InstallRequest) ([]Violation, error) {
	if !req.UseSourceDir {
		return nil, nil
	}
	var out []Violation
	for _, name := range c.config.Layout.Relocate {
		path := filepath.Join(req.TargetRoot, name)
		if _, err := c.fs.Stat(path); err == nil {
			out = append(out, Violation{RuleRelocation, path, name + " was not moved under " + c.config.Layout.SrcDir})
		}
	}
	return out, nil
}

func (c *Checker) checkEntryPage(req types.InstallRequest) ([]Violation, error) {
	if !req.UseSourceDir {
		return nil, nil
	}
	entry := layout.EntryPage(req.Template, req.Mode)
	path := filepath.Join(req.TargetRoot, c.config.Layout.SrcDir, filepath.FromSlash(entry))
	data, err := c.read(path)
	if err != nil {
		return nil, err
	}

	ref := strings.TrimSuffix(entry, filepath.Ext(entry))
	nested := c.config.Layout.SrcDir + "/" + ref
	if strings.Contains(string(data), ref) && !strings.Contains(string(data), nested) {
		return []Violation{{RuleEntryPage, path, "entry page still references " + ref}}, nil
	}
	return nil, nil
}

func (c *Checker) checkEnv(req types.InstallRequest) ([]Violation, error) {
	names := enabled(req)
	if len(names) == 0 {
		return nil, nil
	}

	path := filepath.Join(req.TargetRoot, bundles.EnvFile)
	data, err := c.read(path)
	if err != nil {
		return nil, err
	}
	have, err := bundles.EnvKeys(data)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for _, name := range names {
		frag, err := c.fragment(name, templates.EnvFragment)
		if err != nil {
			return nil, err
		}
		want, err := bundles.EnvKeys(frag)
		if err != nil {
			return nil, err
		}
		for _, missing := range subtract(want, have) {
			out = append(out, Violation{RuleEnvUnion, path, fmt.Sprintf("%s key %s is missing", name, missing)})
		}
	}
	return out, nil
}

func (c *Checker) checkManifest(req types.InstallRequest) ([]Violation, error) {
	names := enabled(req)
	if len(names) == 0 {
		return nil, nil
	}

	path := filepath.Join(req.TargetRoot, bundles.ManifestFile)
	data, err := c.read(path)
	if err != nil {
		return nil, err
	}
	have, err := bundles.ManifestServices(data)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for _, name := range names {
		frag, err := c.fragment(name, templates.ManifestFragment)
		if err != nil {
			return nil, err
		}
		want, err := bundles.ManifestServices(frag)
		if err != nil {
			return nil, err
		}
		for _, missing := range subtract(want, have) {
			out = append(out, Violation{RuleManifest, path, fmt.Sprintf("%s service %s is missing", name, missing)})
		}
	}
	return out, nil
}

func (c *Checker) checkConfigKeys(req types.InstallRequest) ([]Violation, error) {
	ctx := bundles.Context{Root: req.TargetRoot, Request: req, Config: c.config}

	var out []Violation
	check := func(dir, key string, allowed bool) error {
		path := filepath.Join(dir, templates.ConfigFragment)
		data, err := c.read(path)
		if err != nil {
			return err
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrMalformedData, "%s is not valid JSON", path)
		}
		if _, ok := doc[key]; ok && !allowed {
			out = append(out, Violation{RuleConfigKeys, path, fmt.Sprintf("%q must be omitted", key)})
		}
		return nil
	}

	if req.EnableAuthority {
		if err := check(bundles.AuthorityConfigDir(ctx), bundles.EnginesKey, req.EnableEngine); err != nil {
			return nil, err
		}
	}
	if req.EnableEngine {
		if err := check(bundles.EngineConfigDir(ctx), bundles.IAMKey, req.EnableAuthority); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Checker) read(path string) ([]byte, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path).WithDetail("file", path)
	}
	return data, nil
}

func (c *Checker) fragment(name templates.BundleName, file string) ([]byte, error) {
	b, err := c.store.Bundle(name)
	if err != nil {
		return nil, err
	}
	return b.File(file)
}

func enabled(req types.InstallRequest) []templates.BundleName {
	var out []templates.BundleName
	if req.EnableAuthority {
		out = append(out, templates.BundleAuthority)
	}
	if req.EnableEngine {
		out = append(out, templates.BundleEngine)
	}
	return out
}

// subtract returns the entries of want that are not in have
func subtract(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := set[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
