package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader serves styles and templates from a directory next to the
// portfolio store, laid out like the embedded tree.
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader checks that dir is a readable directory. Any failure
// wraps ErrInvalidBasePath.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{root: root}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.read(styleKind, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.read(templateKind, name)
}

func (f *FilesystemLoader) read(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	path, err := f.contain(filepath.Join(f.root, filepath.FromSlash(k.relPath(name))))
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(path) // #nosec G304 -- contained in root
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(b), nil
}

// contain resolves symlinks in path and fails unless the result stays under
// root. A missing file keeps its unresolved path and fails on open instead.
func (f *FilesystemLoader) contain(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !strings.HasPrefix(path, f.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return path, nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
