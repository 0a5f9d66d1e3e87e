package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/types"
)

const (
	// DirPerm is used for every directory the installer creates
	DirPerm fs.FileMode = 0755
	// FilePerm is used for every file the installer writes
	FilePerm fs.FileMode = 0644
)

const tmpSuffix = ".cpa-tmp"

// WriteFileAtomic writes data next to path and renames it into place, so a
// reader never observes a partially written file.
// The caller must ensure the parent directory exists.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	tmpPath := path + tmpSuffix
	if err := fsys.WriteFile(tmpPath, data, perm); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteFileAll creates the parent directories of path and writes it
// atomically with FilePerm
func WriteFileAll(fsys types.FS, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	return WriteFileAtomic(fsys, path, data, FilePerm)
}
