// Package alias rewrites the import alias of a freshly copied project.
//
// The module-resolution config carries exactly one alias mapping. Its path
// value follows the source-root choice and its key follows the requested
// alias. When the alias is not the default, every other regular file has the
// default prefix replaced with the requested one by a bounded worker pool.
package alias

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Options describes one alias rewrite
type Options struct {
	Mode types.LanguageMode

	// Alias is the requested pattern, e.g. "~/*"
	Alias string
	// DefaultAlias is the pattern the templates are authored with
	DefaultAlias string

	UseSourceDir bool
	SrcDir       string

	// Concurrency bounds the number of files rewritten at once
	Concurrency int
}

// Result reports what the rewrite touched
type Result struct {
	ConfigPath string
	Scanned    int
	Rewritten  int
}

// Rewrite patches the resolution config under root and, for a custom alias,
// replaces the default prefix in every other regular file.
func Rewrite(ctx context.Context, fsys types.FS, root string, opts Options) (*Result, error) {
	logger := logging.GetLogger("alias")

	if opts.DefaultAlias == "" {
		opts.DefaultAlias = types.DefaultImportAlias
	}
	if opts.Alias == "" {
		opts.Alias = opts.DefaultAlias
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	configPath := filepath.Join(root, opts.Mode.ResolutionConfig())
	if err := patchConfig(fsys, configPath, opts); err != nil {
		return nil, err
	}

	result := &Result{ConfigPath: configPath}
	if opts.Alias == opts.DefaultAlias {
		logger.Debug().Str("alias", opts.Alias).Msg("Default alias, skipping file scan")
		return result, nil
	}

	files, err := listFiles(fsys, root, configPath)
	if err != nil {
		return nil, err
	}
	result.Scanned = len(files)

	from := []byte(types.AliasPrefix(opts.DefaultAlias))
	to := []byte(types.AliasPrefix(opts.Alias))

	var rewritten atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := rewriteFile(fsys, file, from, to)
			if err != nil {
				return err
			}
			if changed {
				rewritten.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Rewritten = int(rewritten.Load())

	logger.Info().
		Str("alias", opts.Alias).
		Int("scanned", result.Scanned).
		Int("rewritten", result.Rewritten).
		Msg("Import alias rewritten")

	return result, nil
}

// MappingPattern matches the default alias mapping in a resolution config
func MappingPattern(defaultAlias string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(defaultAlias) + `"\s*:\s*\[\s*"\./\*"\s*\]`)
}

// Mapping renders the alias mapping written into the resolution config
func Mapping(alias string, useSourceDir bool, srcDir string) string {
	target := "./*"
	if useSourceDir {
		target = "./" + srcDir + "/*"
	}
	return fmt.Sprintf(`"%s": ["%s"]`, alias, target)
}

func patchConfig(fsys types.FS, configPath string, opts Options) error {
	data, err := fsys.ReadFile(configPath)
	if err != nil {
		if errors.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrTemplateNotFound, "module resolution config %s is missing", filepath.Base(configPath)).
				WithDetail("file", configPath)
		}
		return errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", configPath)
	}

	re := MappingPattern(opts.DefaultAlias)
	loc := re.FindIndex(data)
	if loc == nil {
		return errors.Newf(errors.ErrTemplateInvalid, "%s has no %q mapping", filepath.Base(configPath), opts.DefaultAlias).
			WithDetail("file", configPath)
	}

	mapping := Mapping(opts.Alias, opts.UseSourceDir, opts.SrcDir)
	patched := make([]byte, 0, len(data)+len(mapping))
	patched = append(patched, data[:loc[0]]...)
	patched = append(patched, mapping...)
	patched = append(patched, data[loc[1]:]...)

	if bytes.Equal(patched, data) {
		return nil
	}
	if err := filesystem.WriteFileAtomic(fsys, configPath, patched, filesystem.FilePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", configPath)
	}
	return nil
}

// SkipDirs are version-control and dependency directories that may already
// exist in the target. They are never scanned.
var SkipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
}

func listFiles(fsys types.FS, root, skip string) ([]string, error) {
	var files []string
	err := fsys.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != root && SkipDirs[info.Name()] {
			return filepath.SkipDir
		}
		if !info.Mode().IsRegular() || path == skip {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to list %s", root)
	}
	return files, nil
}

// rewriteFile reads the whole file before writing it back, and only writes
// when the content changed.
func rewriteFile(fsys types.FS, path string, from, to []byte) (bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path).
			WithDetail("file", path)
	}
	if !bytes.Contains(data, from) {
		return false, nil
	}
	out := bytes.ReplaceAll(data, from, to)
	if err := filesystem.WriteFileAtomic(fsys, path, out, filesystem.FilePerm); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("file", path)
	}
	return true, nil
}
