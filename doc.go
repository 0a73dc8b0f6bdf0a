// Package folio rasterizes paged documents (PDF résumés, mostly) into
// ordered page images for display in a paginated viewer.
//
// # Quick Start
//
//	r := folio.New()
//	doc, err := r.Rasterize(ctx, "https://example.com/resume.pdf", folio.DefaultScale)
//	if err != nil {
//	    // errors.Is(err, folio.ErrFetch), folio.ErrDecode, folio.ErrRender ...
//	    log.Fatal(err)
//	}
//	for _, page := range doc.Pages {
//	    fmt.Println(page.Index, page.Width, page.Height)
//	    _ = page.DataURI() // data:image/png;base64,...
//	}
//
// # Contract
//
// Pages are returned in document order, one per page, and each page is
// rendered at scale times its own native size in points: a Letter page and
// an A4 page in the same document produce bitmaps of different pixel sizes
// at the same pixels-per-point.
//
// Rasterization is all-or-nothing. Any fetch, decode, render or encode
// failure yields no pages and a typed error. Callers that only care about
// "pages or nothing" use RasterizeOrEmpty, which returns an empty slice on
// failure.
//
// The Rasterizer never caches and never times out on its own; wrap the
// context for a deadline and cache in the caller if needed.
//
// # Concurrency
//
// Pages render strictly one at a time by default. WithWorkers enables
// bounded parallelism; each worker decodes its own copy of the document and
// results are reassembled in page order:
//
//	r := folio.New(folio.WithWorkers(4), folio.WithFormat(folio.FormatJPEG))
//
// # Backend Requirements
//
// Decoding and rendering use MuPDF through github.com/gen2brain/go-fitz,
// which requires cgo. Document URLs may be http(s), file:// or plain paths.
//
// The viewer state machine that consumes the pages lives in package
// viewer; the carousel used for project screenshots lives in package
// gallery.
package folio
