package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Built-in asset names used when the config leaves them blank.
const (
	DefaultStyleName    = "classic"
	DefaultTemplateName = "resume"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("reading asset")
	ErrPathTraversal    = errors.New("asset path escapes directory")
)

// AssetLoader loads resume styles and page templates by bare name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind describes where one family of assets lives inside an asset root.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// relPath returns the slash-separated path of name relative to an asset root.
func (k kind) relPath(name string) string {
	return k.dir + "/" + name + k.ext
}

// ValidateAssetName rejects names that are empty or carry a path separator
// or a dot. Names never include their extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

var defaultLoader = NewEmbeddedLoader()

// LoadStyle reads a built-in style.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate reads a built-in page template.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// StyleNames lists the built-in styles, sorted. The CLI prints it when a
// configured style is unknown.
func StyleNames() []string {
	entries, err := fs.ReadDir(builtin, styleKind.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), styleKind.ext); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
