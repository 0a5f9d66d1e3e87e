// Package copier materializes a template tree under a project root.
//
// Exclusions are doublestar patterns matched against template-relative
// paths. Renames apply to the base name while copying, so the renamed file
// is the only one ever written.
package copier

import (
	"path"
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultRenames maps template base names to the names written on disk
var DefaultRenames = map[string]string{
	"gitignore":          ".gitignore",
	"eslintrc.json":      ".eslintrc.json",
	"README-template.md": "README.md",
}

// Options controls which template files are written and under what name
type Options struct {
	UseEslint   bool
	UseTailwind bool

	// LintPatterns are dropped when UseEslint is false
	LintPatterns []string
	// TailwindPatterns are dropped when UseTailwind is false
	TailwindPatterns []string

	// Renames overrides DefaultRenames when non-nil
	Renames map[string]string
}

// Result reports what Copy wrote
type Result struct {
	Written  []string
	Excluded []string
}

// Exclusions returns the patterns that apply for the given options
func (o Options) Exclusions() []string {
	var out []string
	if !o.UseEslint {
		out = append(out, o.LintPatterns...)
	}
	if !o.UseTailwind {
		out = append(out, o.TailwindPatterns...)
	}
	return out
}

// Copy writes every non-excluded file of tree under root, creating root
// and intermediate directories as needed.
func Copy(fsys types.FS, tree *templates.Tree, root string, opts Options) (*Result, error) {
	logger := logging.GetLogger("copier")

	exclusions := opts.Exclusions()
	for _, p := range exclusions {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid exclusion pattern %q", p)
		}
	}

	renames := opts.Renames
	if renames == nil {
		renames = DefaultRenames
	}

	if err := fsys.MkdirAll(root, filesystem.DirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", root)
	}

	result := &Result{}
	for _, f := range tree.Files {
		if excluded(f.Path, exclusions) {
			logger.Debug().Str("file", f.Path).Msg("Excluded by feature flags")
			result.Excluded = append(result.Excluded, f.Path)
			continue
		}

		rel := Rename(f.Path, renames)
		dest := filepath.Join(root, filepath.FromSlash(rel))

		if err := fsys.MkdirAll(filepath.Dir(dest), filesystem.DirPerm); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", rel).
				WithDetail("file", rel)
		}
		if err := fsys.WriteFile(dest, f.Data, filesystem.FilePerm); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", rel).
				WithDetail("file", rel)
		}
		result.Written = append(result.Written, rel)
	}

	logger.Info().
		Str("root", root).
		Int("written", len(result.Written)).
		Int("excluded", len(result.Excluded)).
		Msg("Template copied")

	return result, nil
}

// Rename translates the base name of a slash path through renames
func Rename(p string, renames map[string]string) string {
	dir, base := path.Split(p)
	if to, ok := renames[base]; ok {
		return dir + to
	}
	return p
}

func excluded(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
