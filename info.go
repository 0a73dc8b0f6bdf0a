package folio

import (
	"context"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/fileutil"
)

// DocumentInfo summarizes a document for a details panel.
type DocumentInfo struct {
	Name         string    `json:"fileName"`
	Size         int64     `json:"sizeBytes"`
	SizeLabel    string    `json:"fileSize"`
	LastModified time.Time `json:"lastModified"`
	Pages        int       `json:"pages"`
}

// Inspect fetches the document and reports its name, size, modification
// time and page count. Pages are counted, not rendered.
func (r *Rasterizer) Inspect(ctx context.Context, documentURL string) (*DocumentInfo, error) {
	fetched, err := r.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return nil, err
	}

	n, err := r.PageCount(fetched.Data)
	if err != nil {
		return nil, err
	}

	return &DocumentInfo{
		Name:         fetched.Name,
		Size:         fetched.Size,
		SizeLabel:    fileutil.FormatSize(fetched.Size),
		LastModified: fetched.LastModified,
		Pages:        n,
	}, nil
}

// documentStatter reads document metadata without a full download.
type documentStatter interface {
	Stat(ctx context.Context, documentURL string) (*DocumentMeta, error)
}

var _ documentStatter = (*Fetcher)(nil)

// Describe reports name, size and modification time from a ranged request
// (or a local stat) without downloading the document. Pages is zero.
// Fetchers that cannot stat fall back to a full fetch.
func (r *Rasterizer) Describe(ctx context.Context, documentURL string) (*DocumentInfo, error) {
	if strings.TrimSpace(documentURL) == "" {
		return nil, ErrEmptyURL
	}
	if st, ok := r.fetcher.(documentStatter); ok {
		meta, err := st.Stat(ctx, documentURL)
		if err != nil {
			return nil, err
		}
		return InfoFromMeta(meta, 0), nil
	}

	fetched, err := r.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return nil, err
	}
	return InfoFromMeta(&DocumentMeta{
		URL:          fetched.URL,
		Name:         fetched.Name,
		Size:         fetched.Size,
		LastModified: fetched.LastModified,
	}, 0), nil
}

// InfoFromMeta builds DocumentInfo from a metadata probe when the page
// count is already known (e.g. from a rasterized Document).
func InfoFromMeta(meta *DocumentMeta, pages int) *DocumentInfo {
	return &DocumentInfo{
		Name:         meta.Name,
		Size:         meta.Size,
		SizeLabel:    fileutil.FormatSize(meta.Size),
		LastModified: meta.LastModified,
		Pages:        pages,
	}
}
