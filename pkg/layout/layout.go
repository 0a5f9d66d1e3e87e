// Package layout moves framework directories under the source root and
// patches the files that reference their old location.
package layout

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// TailwindConfig is the CSS framework config whose content globs are patched
const TailwindConfig = "tailwind.config.js"

var contentGlob = regexp.MustCompile(`\./(\w+)/\*\*/\*\.\{js,ts,jsx,tsx,mdx\}`)

// Options describes one relocation
type Options struct {
	Family      types.TemplateFamily
	Mode        types.LanguageMode
	UseTailwind bool

	// SrcDir is the source root name, relative to the project root
	SrcDir string
	// Relocate lists the top-level directories moved under SrcDir
	Relocate []string
}

// Result reports which directories were moved and which were absent
type Result struct {
	Moved   []string
	Skipped []string
}

// EntryPage returns the slash path of the home page, relative to the root,
// without a source root.
func EntryPage(family types.TemplateFamily, mode types.LanguageMode) string {
	if family.IsAppRouter() {
		return "app/page." + mode.PageExt()
	}
	return "pages/index." + mode.PageExt()
}

// Relocate moves the configured directories of root under the source root.
// Absent directories are skipped.
func Relocate(fsys types.FS, root string, opts Options) (*Result, error) {
	logger := logging.GetLogger("layout")

	srcRoot := filepath.Join(root, opts.SrcDir)
	if err := fsys.MkdirAll(srcRoot, filesystem.DirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", opts.SrcDir)
	}

	result := &Result{}
	for _, name := range opts.Relocate {
		from := filepath.Join(root, name)
		to := filepath.Join(srcRoot, name)

		if _, err := fsys.Stat(from); err != nil {
			if errors.IsNotExist(err) {
				logger.Debug().Str("dir", name).Msg("Not in template, skipping")
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrRename, "cannot stat %s", name).WithDetail("from", name)
		}

		if err := fsys.Rename(from, to); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRename, "failed to move %s under %s", name, opts.SrcDir).
				WithDetail("from", name).
				WithDetail("to", filepath.Join(opts.SrcDir, name))
		}
		result.Moved = append(result.Moved, name)
	}

	if err := patchEntryPage(fsys, root, opts); err != nil {
		return nil, err
	}

	if opts.UseTailwind {
		if err := patchTailwind(fsys, root, opts.SrcDir); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Strs("moved", result.Moved).
		Strs("skipped", result.Skipped).
		Msg("Source root laid out")

	return result, nil
}

// patchEntryPage replaces the first self-reference of the home page with its
// nested location.
func patchEntryPage(fsys types.FS, root string, opts Options) error {
	entry := EntryPage(opts.Family, opts.Mode)
	nested := opts.SrcDir + "/" + entry
	path := filepath.Join(root, filepath.FromSlash(nested))

	data, err := readRequired(fsys, path, nested)
	if err != nil {
		return err
	}

	oldRef := strings.TrimSuffix(entry, filepath.Ext(entry))
	newRef := opts.SrcDir + "/" + oldRef
	patched := strings.Replace(string(data), oldRef, newRef, 1)
	if patched == string(data) {
		return nil
	}
	return write(fsys, path, nested, []byte(patched))
}

// patchTailwind prefixes every content glob of the CSS framework config
// with the source root.
func patchTailwind(fsys types.FS, root, srcDir string) error {
	path := filepath.Join(root, TailwindConfig)
	data, err := readRequired(fsys, path, TailwindConfig)
	if err != nil {
		return err
	}

	patched := contentGlob.ReplaceAll(data, []byte("./"+srcDir+"/$1/**/*.{js,ts,jsx,tsx,mdx}"))
	return write(fsys, path, TailwindConfig, patched)
}

func readRequired(fsys types.FS, path, rel string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "%s is missing", rel).WithDetail("file", rel)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", rel).WithDetail("file", rel)
	}
	return data, nil
}

func write(fsys types.FS, path, rel string, data []byte) error {
	if err := filesystem.WriteFileAtomic(fsys, path, data, filesystem.FilePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", rel).WithDetail("file", rel)
	}
	return nil
}
