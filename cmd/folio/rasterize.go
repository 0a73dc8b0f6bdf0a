package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/logging"
)

// runRasterize renders a document's pages into an output directory.
func runRasterize(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseRasterizeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.common, env.Stderr)
	if err != nil {
		return err
	}
	applyRenderFlags(f.render, f.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(cfg.Resume.Workers); err != nil {
		return err
	}

	documentURL, err := documentArg(rest, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(f.common, env.Stderr, logging.LevelWarn)
	r, err := newRasterizer(cfg, logger, f.quality)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, cfg.Resume.Timeout)
	defer cancel()

	start := time.Now()
	doc, err := r.Rasterize(ctx, documentURL, cfg.Resume.Scale)
	if err != nil {
		return err
	}

	written, err := writePages(doc, f.output, f.thumbnail)
	if err != nil {
		return err
	}

	if !f.common.quiet {
		for _, path := range written {
			fmt.Fprintln(env.Stdout, path)
		}
		fmt.Fprintf(env.Stderr, "%d pages in %v\n", doc.PageCount(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// documentArg returns the single positional document, falling back to
// resume.url from the configuration.
func documentArg(rest []string, cfg *config.Config) (string, error) {
	switch len(rest) {
	case 0:
		if cfg.Resume.URL == "" {
			return "", ErrNoInput
		}
		return cfg.Resume.URL, nil
	case 1:
		return rest[0], nil
	}
	return "", fmt.Errorf("%w: expected one document, got %d", ErrUsage, len(rest))
}

// withTimeout bounds ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// writePages writes page-001.png, page-002.png, ... into dir and, when
// thumbWidth is positive, matching thumb-NNN files. Returns the written paths
// in page order.
func writePages(doc *folio.Document, dir string, thumbWidth int) ([]string, error) {
	if thumbWidth < 0 {
		return nil, fmt.Errorf("%w: --thumbnail must not be negative, got %d", ErrUsage, thumbWidth)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWritePage, err)
	}

	var written []string
	write := func(prefix string, page folio.RasterPage) error {
		path := filepath.Join(dir, pageFileName(prefix, page))
		if err := fileutil.WriteFileAtomic(path, page.Image, 0o644); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWritePage, path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, page := range doc.Pages {
		if err := write("page", page); err != nil {
			return written, err
		}
		if thumbWidth == 0 {
			continue
		}
		thumb, err := folio.Thumbnail(page, thumbWidth)
		if err != nil {
			return written, err
		}
		if err := write("thumb", thumb); err != nil {
			return written, err
		}
	}
	return written, nil
}

// pageFileName numbers pages from 1, as readers count them.
func pageFileName(prefix string, page folio.RasterPage) string {
	return fmt.Sprintf("%s-%03d.%s", prefix, page.Index+1, page.Format.Ext())
}
