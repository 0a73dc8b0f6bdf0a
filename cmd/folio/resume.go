package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/portfolio"
)

// emitExt maps --emit values to file extensions.
var emitExt = map[string]string{
	"pdf":      "pdf",
	"html":     "html",
	"markdown": "md",
}

// runResume prints the stored portfolio as PDF, HTML or Markdown.
func runResume(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseResumeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: resume takes no arguments, got %q", ErrUsage, rest[0])
	}
	ext, ok := emitExt[f.emit]
	if !ok {
		return fmt.Errorf("%w: --emit must be pdf, html or markdown, got %q", ErrUsage, f.emit)
	}

	cfg, err := loadConfig(f.common, env.Stderr)
	if err != nil {
		return err
	}
	if f.changed.has("store") {
		cfg.Store.Path = f.store
	}
	if f.changed.has("timeout") {
		cfg.Resume.Timeout = f.timeout
	}
	applyGeneratorFlags(f.generator, f.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := portfolio.NewFileStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	p, err := store.Get(ctx)
	if err != nil {
		return err
	}

	logger := newLogger(f.common, env.Stderr, logging.LevelWarn)
	g, err := resume.New(generatorOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("closing browser", logging.Err(err))
		}
	}()

	data, err := emitResume(ctx, g, p, f.emit)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = resume.FileName(p.About.Name, ext)
	}
	if err := writeOutput(env.Stdout, output, data); err != nil {
		return err
	}
	if output != "-" && !f.common.quiet {
		fmt.Fprintln(env.Stderr, output)
	}
	return nil
}

// emitter is the part of *resume.Generator the resume command needs.
type emitter interface {
	Markdown(p *portfolio.Portfolio) (string, error)
	HTML(ctx context.Context, p *portfolio.Portfolio) (string, error)
	Generate(ctx context.Context, p *portfolio.Portfolio) ([]byte, error)
}

var _ emitter = (*resume.Generator)(nil)

func emitResume(ctx context.Context, g emitter, p *portfolio.Portfolio, kind string) ([]byte, error) {
	switch kind {
	case "markdown":
		md, err := g.Markdown(p)
		return []byte(md), err
	case "html":
		html, err := g.HTML(ctx, p)
		return []byte(html), err
	default:
		return g.Generate(ctx, p)
	}
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteResume, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteResume, path, err)
	}
	return nil
}
