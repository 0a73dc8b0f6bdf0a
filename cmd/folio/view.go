package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/viewer"
)

// runView pages through a document. On a terminal it reads single keys;
// otherwise (or with --script) it reads one command per line.
func runView(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseViewFlags(args, env.Stderr)
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
	r, err := newRasterizer(cfg, logger, 0)
	if err != nil {
		return err
	}

	renderCtx, cancel := withTimeout(ctx, cfg.Resume.Timeout)
	doc, err := r.Rasterize(renderCtx, documentURL, cfg.Resume.Scale)
	cancel()
	if err != nil {
		// A broken document still opens, as the unavailable placeholder.
		logger.Warn("document unavailable", logging.Err(err))
		doc = &folio.Document{URL: documentURL}
	}

	stdin, interactive := env.Stdin.(*os.File)
	interactive = interactive && f.script == "" && env.IsTerminal()

	var input io.Reader = env.Stdin
	if f.script != "" && f.script != "-" {
		file, err := os.Open(f.script)
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	if interactive {
		return viewInteractive(ctx, stdin, env.Stdout, doc, logger)
	}
	return viewScript(input, env.Stdout, doc, logger)
}

// viewScript feeds commands from r to a viewer and prints a status line for
// every frame. Blank lines and # comments are skipped.
func viewScript(r io.Reader, w io.Writer, doc *folio.Document, logger logging.Logger) error {
	v, err := viewer.New(doc.PageCount(),
		viewer.WithLogger(logger),
		viewer.WithRenderer(viewer.RendererFunc(func(fr viewer.Frame) {
			fmt.Fprintln(w, statusLine(fr, doc))
		})))
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		events, err := viewer.ParseEvent(text)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrUsage, line, err)
		}
		v.Send(events...)
	}
	return sc.Err()
}

// viewInteractive puts the terminal in raw mode and maps keys to viewer
// input until q, ctrl-c or ctx ends.
func viewInteractive(ctx context.Context, in *os.File, w io.Writer, doc *folio.Document, logger logging.Logger) error {
	fd := int(in.Fd()) // #nosec G115 -- fd fits in int
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		_ = term.Restore(fd, old)
		fmt.Fprintln(w)
	}()

	v, err := viewer.New(doc.PageCount(),
		viewer.WithLogger(logger),
		viewer.WithRenderer(viewer.RendererFunc(func(fr viewer.Frame) {
			fmt.Fprintf(w, "\r\x1b[K%s", statusLine(fr, doc))
		})))
	if err != nil {
		return err
	}

	keys := make(chan []byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 16)
		for {
			n, err := in.Read(buf)
			if err != nil {
				return
			}
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case keys <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-keys:
			if !ok {
				return nil
			}
			events, quit := keyEvents(chunk)
			v.Send(events...)
			if quit {
				return nil
			}
		}
	}
}

// keyEvents maps raw terminal bytes to viewer input. Arrow keys and Escape
// are fullscreen keys; n and p are the inline buttons.
func keyEvents(b []byte) (events []viewer.Event, quit bool) {
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 'q', 3: // ctrl-c
			return events, true
		case 0x1b:
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'C':
					events = append(events, viewer.Key{Name: viewer.KeyArrowRight})
				case 'D':
					events = append(events, viewer.Key{Name: viewer.KeyArrowLeft})
				}
				i += 2
				continue
			}
			events = append(events, viewer.Key{Name: viewer.KeyEscape})
		case 'l':
			events = append(events, viewer.Key{Name: viewer.KeyArrowRight})
		case 'h':
			events = append(events, viewer.Key{Name: viewer.KeyArrowLeft})
		case 'n':
			events = append(events, viewer.Next{})
		case 'p':
			events = append(events, viewer.Prev{})
		case 'f', '\r', '\n':
			events = append(events, viewer.EnterFullscreen{})
		case 'z':
			events = append(events, viewer.StepZoom{})
		case '0':
			events = append(events, viewer.ResetZoom{})
		}
	}
	return events, false
}

// statusLine describes a frame in one line of text.
func statusLine(fr viewer.Frame, doc *folio.Document) string {
	if fr.Unavailable {
		return "resume unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "page %d/%d", fr.Page+1, fr.PageCount)
	if page, err := doc.Page(fr.Page); err == nil {
		fmt.Fprintf(&b, " %dx%d", page.Width, page.Height)
	}
	if !fr.Fullscreen {
		b.WriteString(" inline")
	} else {
		b.WriteString(" fullscreen")
		fmt.Fprintf(&b, " zoom %.2fx", fr.Transform.Scale)
		if fr.Transform.TranslateX != 0 || fr.Transform.TranslateY != 0 {
			fmt.Fprintf(&b, " pan %g,%g", fr.Transform.TranslateX, fr.Transform.TranslateY)
		}
		if fr.SwipeLocked {
			b.WriteString(" locked")
		}
	}
	if fr.Controls.Prev {
		b.WriteString(" [<]")
	}
	if fr.Controls.Next {
		b.WriteString(" [>]")
	}
	return b.String()
}
