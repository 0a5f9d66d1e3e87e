package templates

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// BundleName identifies an integration bundle
type BundleName string

const (
	BundleAuthority BundleName = "authority"
	BundleEngine    BundleName = "engine"
)

// Fragment file names shared by every bundle
const (
	EnvFragment      = ".env"
	ManifestFragment = "docker-compose.yml"
	ConfigFragment   = "config.json"
)

// File is one entry of a template tree. Path is slash-separated and
// relative to the tree root.
type File struct {
	Path string
	Data []byte
}

// Tree is the ordered file list of one (family, mode) template
type Tree struct {
	Family types.TemplateFamily
	Mode   types.LanguageMode
	Files  []File
}

// Store reads templates and bundles from an fs.FS laid out as
// <family>/<mode>/... and <bundle>/...
type Store struct {
	fsys fs.FS
}

// New creates a store over fsys
func New(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Has reports whether a base tree exists for the family and mode
func (s *Store) Has(family types.TemplateFamily, mode types.LanguageMode) bool {
	info, err := fs.Stat(s.fsys, path.Join(string(family), string(mode)))
	return err == nil && info.IsDir()
}

// Families lists the template families that ship a tree for mode
func (s *Store) Families(mode types.LanguageMode) []types.TemplateFamily {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil
	}
	var out []types.TemplateFamily
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		family := types.TemplateFamily(e.Name())
		if s.Has(family, mode) {
			out = append(out, family)
		}
	}
	return out
}

// Tree loads every file of the (family, mode) template in lexical order
func (s *Store) Tree(family types.TemplateFamily, mode types.LanguageMode) (*Tree, error) {
	root := path.Join(string(family), string(mode))
	if !s.Has(family, mode) {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template %s/%s not found", family, mode)
	}

	tree := &Tree{Family: family, Mode: mode}
	err := fs.WalkDir(s.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return err
		}
		tree.Files = append(tree.Files, File{Path: p[len(root)+1:], Data: data})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRead, "failed to read template %s/%s", family, mode)
	}

	sort.Slice(tree.Files, func(i, j int) bool { return tree.Files[i].Path < tree.Files[j].Path })
	return tree, nil
}

// Bundle returns a handle on a named integration bundle
func (s *Store) Bundle(name BundleName) (*Bundle, error) {
	info, err := fs.Stat(s.fsys, string(name))
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "bundle %s not found", name)
	}
	return &Bundle{Name: name, fsys: s.fsys}, nil
}

// Bundle exposes the fragment files of one integration bundle
type Bundle struct {
	Name BundleName
	fsys fs.FS
}

// File reads a fragment by name. A missing fragment is a template error:
// a selected bundle must be complete.
func (b *Bundle) File(name string) ([]byte, error) {
	data, err := fs.ReadFile(b.fsys, path.Join(string(b.Name), name))
	if err != nil {
		code := errors.ErrTemplateRead
		if errors.IsNotExist(err) {
			code = errors.ErrTemplateNotFound
		}
		return nil, errors.Wrapf(err, code, "bundle %s: cannot read %s", b.Name, name).
			WithDetail("bundle", string(b.Name)).
			WithDetail("file", name)
	}
	return data, nil
}

// String implements fmt.Stringer
func (b *Bundle) String() string {
	return fmt.Sprintf("bundle(%s)", b.Name)
}
