package pipeline

import (
	"net/url"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
)

const maxNameLength = 214

var aliasPattern = regexp.MustCompile(`^[^*"]+/\*\s*$`)

// harmlessEntries may exist in a target directory that is otherwise empty
var harmlessEntries = map[string]bool{
	".DS_Store":      true,
	".git":           true,
	".gitattributes": true,
	".gitignore":     true,
	".gitlab-ci.yml": true,
	".hg":            true,
	".hgcheck":       true,
	".hgignore":      true,
	".idea":          true,
	".npmignore":     true,
	".travis.yml":    true,
	"LICENSE":        true,
	"Thumbs.db":      true,
	"docs":           true,
	"mkdocs.yml":     true,
}

var harmlessPrefixes = []string{"npm-debug.log", "yarn-debug.log", "yarn-error.log", ".yarn-integrity"}

// ValidateAppName checks name against the package registry naming rules
func ValidateAppName(name string) error {
	var problems []string

	switch {
	case name == "":
		problems = append(problems, "name cannot be empty")
	case strings.TrimSpace(name) != name:
		problems = append(problems, "name cannot contain leading or trailing spaces")
	}
	if len(name) > maxNameLength {
		problems = append(problems, "name can no longer contain more than 214 characters")
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		problems = append(problems, "name cannot start with a period or an underscore")
	}
	if strings.ToLower(name) != name {
		problems = append(problems, "name can no longer contain capital letters")
	}
	if !urlSafe(name) {
		problems = append(problems, "name can only contain URL-friendly characters")
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrInvalidInput, "could not create a project called %q: %s", name, strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}

// urlSafe accepts plain names and @scope/name
func urlSafe(name string) bool {
	if strings.HasPrefix(name, "@") {
		scope, pkg, ok := strings.Cut(name[1:], "/")
		return ok && scope != "" && pkg != "" && url.PathEscape(scope) == scope && url.PathEscape(pkg) == pkg
	}
	return url.PathEscape(name) == name
}

// ValidateAlias checks that alias has a fixed prefix and one trailing wildcard
func ValidateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return errors.Newf(errors.ErrInvalidInput, "import alias %q must follow the pattern <prefix>/*", alias).
			WithDetail("alias", alias)
	}
	return nil
}

// Conflicts lists the entries of root that would be overwritten. A missing
// root has no conflicts.
func Conflicts(fsys types.FS, root string) ([]string, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", root)
	}

	var out []string
	for _, e := range entries {
		if harmless(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func harmless(name string) bool {
	if harmlessEntries[name] {
		return true
	}
	for _, p := range harmlessPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Validate checks every field of req before anything is written
func Validate(fsys types.FS, store *templates.Store, req types.InstallRequest) error {
	if err := ValidateAppName(req.AppName); err != nil {
		return err
	}
	if !filepath.IsAbs(req.TargetRoot) {
		return errors.Newf(errors.ErrInvalidInput, "target %q must be an absolute path", req.TargetRoot)
	}
	if !req.Mode.Valid() {
		return errors.Newf(errors.ErrInvalidInput, "unknown language mode %q", req.Mode)
	}
	if _, err := types.ParsePackageManager(string(req.PackageManager)); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid package manager")
	}
	if err := ValidateAlias(req.Alias()); err != nil {
		return err
	}
	if !store.Has(req.Template, req.Mode) {
		return errors.Newf(errors.ErrInvalidInput, "template %q has no %s variant", req.Template, req.Mode).
			WithDetail("available", store.Families(req.Mode))
	}

	conflicts, err := Conflicts(fsys, req.TargetRoot)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return errors.Newf(errors.ErrTargetNotEmpty, "the directory %s contains files that could conflict", filepath.Base(req.TargetRoot)).
			WithDetail("conflicts", conflicts)
	}
	return nil
}
