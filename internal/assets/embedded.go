package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the styles and templates compiled into the binary.
type EmbeddedLoader struct {
	root fs.FS
}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{root: builtin}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read(styleKind, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read(templateKind, name)
}

func (e *EmbeddedLoader) read(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	b, err := fs.ReadFile(e.root, k.relPath(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(b), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
