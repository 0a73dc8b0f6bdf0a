package folio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/fileutil"
)

// FetchedDocument holds the raw bytes of a document and its transport metadata.
type FetchedDocument struct {
	URL          string
	Name         string // download file name derived from the URL
	Data         []byte // unmodified document bytes
	ContentType  string
	Size         int64
	LastModified time.Time
}

// DocumentMeta is what a cheap metadata probe can learn without downloading
// the whole document.
type DocumentMeta struct {
	URL          string
	Name         string
	Size         int64 // -1 when unknown
	LastModified time.Time
}

// documentFetcher abstracts document retrieval to allow tests without a network.
type documentFetcher interface {
	Fetch(ctx context.Context, documentURL string) (*FetchedDocument, error)
}

// Compile-time interface check.
var _ documentFetcher = (*Fetcher)(nil)

// probeRange asks for the first bytes only; the total size comes back in Content-Range.
const probeRange = "bytes=0-2047"

// Fetcher retrieves documents from http(s) URLs, file:// URLs and local paths.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient;
// maxSize <= 0 uses DefaultMaxDocumentSize.
func NewFetcher(client *http.Client, maxSize int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	return &Fetcher{client: client, maxSize: maxSize}
}

// Fetch downloads the whole document. Bytes are returned unmodified.
func (f *Fetcher) Fetch(ctx context.Context, documentURL string) (*FetchedDocument, error) {
	if strings.TrimSpace(documentURL) == "" {
		return nil, ErrEmptyURL
	}
	if path, ok := localPath(documentURL); ok {
		return f.fetchFile(ctx, documentURL, path)
	}
	return f.fetchHTTP(ctx, documentURL)
}

// Stat returns size and modification time without downloading the document.
func (f *Fetcher) Stat(ctx context.Context, documentURL string) (*DocumentMeta, error) {
	if strings.TrimSpace(documentURL) == "" {
		return nil, ErrEmptyURL
	}
	meta := &DocumentMeta{URL: documentURL, Name: fileutil.NameFromURL(documentURL), Size: -1}

	if path, ok := localPath(documentURL); ok {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &FetchError{URL: documentURL, Err: err}
		}
		meta.Size = info.Size()
		meta.LastModified = info.ModTime().UTC()
		return meta, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}
	req.Header.Set("Range", probeRange)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusOK:
		meta.Size = resp.ContentLength
	case http.StatusPartialContent:
		meta.Size = totalFromContentRange(resp.Header.Get("Content-Range"))
	default:
		return nil, &FetchError{URL: documentURL, StatusCode: resp.StatusCode}
	}
	meta.LastModified = parseLastModified(resp.Header.Get("Last-Modified"))
	return meta, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, documentURL string) (*FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: documentURL, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > f.maxSize {
		return nil, &FetchError{URL: documentURL, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, resp.ContentLength, f.maxSize)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, &FetchError{URL: documentURL, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(data)) > f.maxSize {
		return nil, &FetchError{URL: documentURL, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, f.maxSize)}
	}

	return &FetchedDocument{
		URL:          documentURL,
		Name:         fileutil.NameFromURL(documentURL),
		Data:         data,
		ContentType:  resp.Header.Get("Content-Type"),
		Size:         int64(len(data)),
		LastModified: parseLastModified(resp.Header.Get("Last-Modified")),
	}, nil
}

func (f *Fetcher) fetchFile(ctx context.Context, documentURL, path string) (*FetchedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}
	if info.Size() > f.maxSize {
		return nil, &FetchError{URL: documentURL,
			Err: fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, info.Size(), f.maxSize)}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- document path is operator-provided
	if err != nil {
		return nil, &FetchError{URL: documentURL, Err: err}
	}

	return &FetchedDocument{
		URL:          documentURL,
		Name:         fileutil.NameFromURL(path),
		Data:         data,
		ContentType:  "application/pdf",
		Size:         int64(len(data)),
		LastModified: info.ModTime().UTC(),
	}, nil
}

// localPath reports whether documentURL addresses the local filesystem.
func localPath(documentURL string) (string, bool) {
	if strings.HasPrefix(documentURL, "file://") {
		u, err := url.Parse(documentURL)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if fileutil.IsURL(documentURL) {
		return "", false
	}
	if u, err := url.Parse(documentURL); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return "", false
	}
	return documentURL, true
}

// totalFromContentRange extracts the complete length from "bytes 0-2047/84213".
func totalFromContentRange(v string) int64 {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v[i+1:]), 10, 64)
	if err != nil {
		return -1
	}
	return n
}

func parseLastModified(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
