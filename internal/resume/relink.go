package resume

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// relinkLocalAssets rewrites relative img[src] and a[href] values in an
// HTML fragment to file:// URLs under baseDir. The resume is printed from a
// temp file, so "shots/app.png" next to portfolio.yaml would otherwise not
// resolve. Paths escaping baseDir are left alone. Empty baseDir is a no-op.
func relinkLocalAssets(fragment, baseDir string) (string, error) {
	if baseDir == "" {
		return fragment, nil
	}
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		relinkNode(n, absDir)
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func relinkNode(n *html.Node, dir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			relinkAttr(n, "src", dir)
		case atom.A:
			relinkAttr(n, "href", dir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		relinkNode(c, dir)
	}
}

func relinkAttr(n *html.Node, key, dir string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isLocalRelative(attr.Val) {
			continue
		}
		abs := filepath.Join(dir, filepath.FromSlash(attr.Val))
		if !isUnder(abs, dir) {
			continue
		}
		n.Attr[i].Val = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
}

// isLocalRelative reports whether p is a relative file path rather than a
// URL, an anchor or an absolute path.
func isLocalRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	if u, err := url.Parse(p); err == nil && u.Scheme != "" {
		return false // http, https, mailto, data, file
	}
	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
