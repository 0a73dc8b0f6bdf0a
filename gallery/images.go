package gallery

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultExt is the screenshot file extension.
const DefaultExt = "png"

// ImageURLs lists the screenshots of one project folder:
// {base}/{folder}/{folder}-{i}.{ext} for i in 1..count.
func ImageURLs(base, folder string, count int, ext string) []string {
	if count <= 0 || folder == "" {
		return []string{}
	}
	if ext == "" {
		ext = DefaultExt
	}
	base = strings.TrimRight(base, "/")
	seg := url.PathEscape(folder)

	urls := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		urls = append(urls, fmt.Sprintf("%s/%s/%s-%d.%s", base, seg, seg, i, strings.TrimPrefix(ext, ".")))
	}
	return urls
}
