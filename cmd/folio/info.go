package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/logging"
)

// runInfo prints the details panel for a document.
func runInfo(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseInfoFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.common, env.Stderr)
	if err != nil {
		return err
	}
	if f.changed.has("timeout") {
		cfg.Resume.Timeout = f.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	documentURL, err := documentArg(rest, cfg)
	if err != nil {
		return err
	}

	r, err := newRasterizer(cfg, newLogger(f.common, env.Stderr, logging.LevelWarn), 0)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, cfg.Resume.Timeout)
	defer cancel()

	inspect := r.Inspect
	if f.noPages {
		inspect = r.Describe
	}
	info, err := inspect(ctx, documentURL)
	if err != nil {
		return err
	}

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	printInfo(env.Stdout, info, cfg.Resume.DateFormat)
	return nil
}

// printInfo writes the human-readable details panel.
func printInfo(w io.Writer, info *folio.DocumentInfo, dateFormat string) {
	modified, err := dateutil.Format(info.LastModified, dateFormat)
	if err != nil {
		modified = info.LastModified.Format(time.DateOnly)
	}

	fmt.Fprintf(w, "File:      %s\n", info.Name)
	fmt.Fprintf(w, "Size:      %s\n", info.SizeLabel)
	fmt.Fprintf(w, "Modified:  %s\n", modified)
	if info.Pages > 0 {
		fmt.Fprintf(w, "Pages:     %d\n", info.Pages)
	}
}
