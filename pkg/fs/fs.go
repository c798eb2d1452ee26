package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSystem resolves the inputs handed to the checksum tools.
type FileSystem interface {
	SearchFiles(sourceDir string, excludeDirs []string, extension string) ([]string, error)
	Exists(filePath string) (bool, error)
	IsDir(filePath string) (bool, error)
}

type LocalFileSystem struct{}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// Search regular files below sourceDir, skipping excluded directories.
// An empty extension matches every file; otherwise it is compared against
// filepath.Ext, so it must include the leading dot. Results are sorted.
func (lfs *LocalFileSystem) SearchFiles(sourceDir string, excludeDirs []string, extension string) ([]string, error) {
	files := make([]string, 0)

	if err := filepath.WalkDir(sourceDir, func(path string, ds fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ds.IsDir() {
			if path != sourceDir && isExcluded(excludeDirs, ds.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !ds.Type().IsRegular() {
			return nil
		}

		if extension == "" || filepath.Ext(path) == extension {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Checks if a file exists or not.
func (lfs *LocalFileSystem) Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Checks if a path is a directory.
func (lfs *LocalFileSystem) IsDir(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stat.IsDir(), nil
}

func isExcluded(excludeDirs []string, name string) bool {
	for _, excludeDir := range excludeDirs {
		if strings.TrimSpace(excludeDir) == name {
			return true
		}
	}
	return false
}
