package assets

import "errors"

// AssetResolver looks in a custom directory first and falls back to the
// embedded assets for names the directory lacks.
type AssetResolver struct {
	custom   *FilesystemLoader // nil without a custom directory
	embedded *EmbeddedLoader
}

// NewAssetResolver builds a resolver. An empty dir means embedded only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(styleKind, name)
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(templateKind, name)
}

// resolve only falls back when the custom directory has no such asset.
// Invalid names and read failures surface as is.
func (r *AssetResolver) resolve(k kind, name string) (string, error) {
	if r.custom != nil {
		s, err := r.custom.read(k, name)
		if !errors.Is(err, k.notFound) {
			return s, err
		}
	}
	return r.embedded.read(k, name)
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
