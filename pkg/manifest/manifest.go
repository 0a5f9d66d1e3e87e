// Package manifest builds the dependency list and package manifest of a
// generated project.
package manifest

import (
	"encoding/json"
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// FileName is the package manifest written at the project root
const FileName = "package.json"

// InitialVersion is the version every generated project starts at
const InitialVersion = "0.1.0"

var (
	uiDeps       = []string{"react", "react-dom"}
	typeDeps     = []string{"typescript", "@types/react", "@types/node", "@types/react-dom"}
	tailwindDeps = []string{"tailwindcss", "postcss", "autoprefixer"}
	authDeps     = []string{"next-auth"}
	lintDeps     = []string{"eslint", "eslint-config-next"}
)

// Dependencies builds the ordered dependency set for a request: the base
// entries, then mode, then feature extras.
func Dependencies(req types.InstallRequest, cfg *config.Config) types.DependencySet {
	var deps types.DependencySet

	deps.Add(uiDeps...)
	deps.Add(cfg.Framework.Spec(), cfg.SDK.Spec())

	if req.Mode == types.ModeTS {
		deps.Add(typeDeps...)
	}
	if req.UseTailwind {
		deps.Add(tailwindDeps...)
	}
	if req.EnableAuthority {
		deps.Add(authDeps...)
	}
	if req.UseEslint {
		deps.Add(lintDeps...)
	}
	return deps
}

// Scripts is the fixed run-script table, in the order it is written
type Scripts struct {
	Dev   string `json:"dev"`
	Build string `json:"build"`
	Start string `json:"start"`
	Lint  string `json:"lint"`
}

// PackageJSON is the package manifest document
type PackageJSON struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Private bool    `json:"private"`
	Scripts Scripts `json:"scripts"`
}

// New returns the manifest for appName driven by the framework CLI
func New(appName string, cfg *config.Config) *PackageJSON {
	cli := cfg.Framework.Name
	return &PackageJSON{
		Name:    appName,
		Version: InitialVersion,
		Private: true,
		Scripts: Scripts{
			Dev:   cli + " dev",
			Build: cli + " build",
			Start: cli + " start",
			Lint:  cli + " lint",
		},
	}
}

// Marshal encodes the manifest with two-space indentation and a final newline
func (p *PackageJSON) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode package manifest")
	}
	return append(data, '\n'), nil
}

// Write writes the manifest to root
func Write(fsys types.FS, root string, p *PackageJSON) (string, error) {
	data, err := p.Marshal()
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, FileName)
	if err := filesystem.WriteFileAtomic(fsys, path, data, filesystem.FilePerm); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", FileName).WithDetail("file", path)
	}
	return path, nil
}
