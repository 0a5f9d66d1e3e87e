package types

import (
	"io/fs"
	"path/filepath"
)

// FS is the filesystem interface the install pipeline writes through
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Walk(root string, fn filepath.WalkFunc) error

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}
