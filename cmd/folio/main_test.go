package main

// Notes:
// - run: we test dispatch for commands that need no network, browser or
//   MuPDF (version, help, unknown command, usage errors, completion).
// - serve/rasterize/info/view with real documents are exercised in the
//   root package and internal/server tests; here we cover the helpers.
// These are acceptable gaps: the helpers are where the CLI adds behavior.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/portfolio"
)

// testEnv returns an Environment backed by buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:        func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Stdin:      strings.NewReader(""),
		Stdout:     stdout,
		Stderr:     stderr,
		IsTerminal: func() bool { return false },
	}, stdout, stderr
}

// ---------------------------------------------------------------------------
// TestRun_Dispatch - Command routing and exit codes
// ---------------------------------------------------------------------------

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no args prints usage",
			args:       nil,
			wantCode:   ExitUsage,
			wantStderr: "Usage: folio <command>",
		},
		{
			name:       "version",
			args:       []string{"version"},
			wantCode:   ExitSuccess,
			wantStdout: "folio " + Version,
		},
		{
			name:       "--version",
			args:       []string{"--version"},
			wantCode:   ExitSuccess,
			wantStdout: "folio ",
		},
		{
			name:       "help",
			args:       []string{"help"},
			wantCode:   ExitSuccess,
			wantStdout: "Commands:",
		},
		{
			name:       "help rasterize",
			args:       []string{"help", "rasterize"},
			wantCode:   ExitSuccess,
			wantStdout: "Usage: folio rasterize",
		},
		{
			name:       "help view lists keys",
			args:       []string{"help", "view"},
			wantCode:   ExitSuccess,
			wantStdout: "Step zoom",
		},
		{
			name:       "unknown command",
			args:       []string{"convert"},
			wantCode:   ExitUsage,
			wantStderr: "unknown command",
		},
		{
			name:       "completion zsh",
			args:       []string{"completion", "zsh"},
			wantCode:   ExitSuccess,
			wantStdout: "#compdef folio",
		},
		{
			name:       "completion unsupported shell",
			args:       []string{"completion", "csh"},
			wantCode:   ExitUsage,
			wantStderr: "unsupported shell",
		},
		{
			name:       "rasterize --help",
			args:       []string{"rasterize", "--help"},
			wantCode:   ExitSuccess,
			wantStderr: "Usage: folio rasterize",
		},
		{
			name:       "unknown flag",
			args:       []string{"info", "--bogus"},
			wantCode:   ExitUsage,
			wantStderr: "invalid usage",
		},
		{
			name:       "resume bad emit",
			args:       []string{"resume", "--emit", "docx"},
			wantCode:   ExitUsage,
			wantStderr: "--emit",
		},
		{
			name:       "serve extra args",
			args:       []string{"serve", "extra"},
			wantCode:   ExitUsage,
			wantStderr: "serve takes no arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			got := run(context.Background(), tt.args, env)
			if got != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d (stderr: %s)", tt.args, got, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDocumentArg - Positional argument with config fallback
// ---------------------------------------------------------------------------

func TestDocumentArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rest      []string
		configURL string
		want      string
		wantErr   error
	}{
		{"argument wins", []string{"cv.pdf"}, "https://x/resume.pdf", "cv.pdf", nil},
		{"config fallback", nil, "https://x/resume.pdf", "https://x/resume.pdf", nil},
		{"nothing given", nil, "", "", ErrNoInput},
		{"too many", []string{"a.pdf", "b.pdf"}, "", "", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Resume.URL = tt.configURL

			got, err := documentArg(tt.rest, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("documentArg() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("documentArg() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("documentArg() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, folio.MaxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v, want nil", n, err)
		}
	}
	for _, n := range []int{-1, folio.MaxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Browser pool sizing
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := resolvePoolSize(3); got != 3 {
		t.Errorf("resolvePoolSize(3) = %d, want 3", got)
	}
	if got := resolvePoolSize(100); got != maxPoolSize {
		t.Errorf("resolvePoolSize(100) = %d, want %d", got, maxPoolSize)
	}

	want := min(max(runtime.GOMAXPROCS(0)/2, 1), maxPoolSize)
	if got := resolvePoolSize(0); got != want {
		t.Errorf("resolvePoolSize(0) = %d, want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestApplyServeFlags - Only changed flags override config
// ---------------------------------------------------------------------------

func TestApplyServeFlags(t *testing.T) {
	t.Parallel()

	f, _, err := parseServeFlags([]string{"--addr", ":8080", "--scale", "3", "--no-generate"}, io.Discard)
	if err != nil {
		t.Fatalf("parseServeFlags() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.CORSOrigin = "https://me.dev"
	applyServeFlags(f, cfg)

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Resume.Scale != 3 {
		t.Errorf("Scale = %v, want 3", cfg.Resume.Scale)
	}
	if cfg.Resume.Generate {
		t.Error("Generate = true, want false after --no-generate")
	}
	if cfg.Server.CORSOrigin != "https://me.dev" {
		t.Errorf("CORSOrigin = %q, unchanged flag must not override", cfg.Server.CORSOrigin)
	}
	if cfg.Resume.Format != "png" {
		t.Errorf("Format = %q, unchanged flag must not override", cfg.Resume.Format)
	}
}

// ---------------------------------------------------------------------------
// TestNewRasterizer - Option mapping
// ---------------------------------------------------------------------------

func TestNewRasterizer(t *testing.T) {
	t.Parallel()

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Resume.Format = "gif"
		if _, err := newRasterizer(cfg, nil, 0); !errors.Is(err, folio.ErrInvalidFormat) {
			t.Errorf("newRasterizer() error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("invalid quality", func(t *testing.T) {
		t.Parallel()

		if _, err := newRasterizer(config.DefaultConfig(), nil, 101); !errors.Is(err, ErrUsage) {
			t.Errorf("newRasterizer() error = %v, want ErrUsage", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		r, err := newRasterizer(config.DefaultConfig(), nil, 80)
		if err != nil {
			t.Fatalf("newRasterizer() error = %v", err)
		}
		if r == nil {
			t.Fatal("newRasterizer() returned nil")
		}
	})
}

// ---------------------------------------------------------------------------
// TestWritePages - Page and thumbnail files
// ---------------------------------------------------------------------------

func TestWritePages(t *testing.T) {
	t.Parallel()

	doc := &folio.Document{
		URL:   "resume.pdf",
		Scale: 1,
		Pages: []folio.RasterPage{testPage(t, 0, 40, 60), testPage(t, 1, 60, 40)},
	}

	t.Run("pages only", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		written, err := writePages(doc, dir, 0)
		if err != nil {
			t.Fatalf("writePages() error = %v", err)
		}
		want := []string{filepath.Join(dir, "page-001.png"), filepath.Join(dir, "page-002.png")}
		if strings.Join(written, ",") != strings.Join(want, ",") {
			t.Errorf("writePages() = %v, want %v", written, want)
		}
		data, err := os.ReadFile(want[1])
		if err != nil {
			t.Fatalf("reading page: %v", err)
		}
		if !bytes.Equal(data, doc.Pages[1].Image) {
			t.Error("page file differs from the encoded page")
		}
	})

	t.Run("with thumbnails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		written, err := writePages(doc, dir, 20)
		if err != nil {
			t.Fatalf("writePages() error = %v", err)
		}
		if len(written) != 4 {
			t.Fatalf("writePages() wrote %d files, want 4", len(written))
		}
		if filepath.Base(written[1]) != "thumb-001.png" {
			t.Errorf("second file = %s, want thumb-001.png", filepath.Base(written[1]))
		}
	})

	t.Run("negative thumbnail", func(t *testing.T) {
		t.Parallel()

		if _, err := writePages(doc, t.TempDir(), -1); !errors.Is(err, ErrUsage) {
			t.Errorf("writePages() error = %v, want ErrUsage", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestEmitResume - Output kind selection
// ---------------------------------------------------------------------------

type fakeEmitter struct{}

func (fakeEmitter) Markdown(*portfolio.Portfolio) (string, error) { return "# Ada", nil }
func (fakeEmitter) HTML(context.Context, *portfolio.Portfolio) (string, error) {
	return "<h1>Ada</h1>", nil
}
func (fakeEmitter) Generate(context.Context, *portfolio.Portfolio) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

func TestEmitResume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{"markdown", "# Ada"},
		{"html", "<h1>Ada</h1>"},
		{"pdf", "%PDF-1.7"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			t.Parallel()

			got, err := emitResume(context.Background(), fakeEmitter{}, &portfolio.Portfolio{}, tt.kind)
			if err != nil {
				t.Fatalf("emitResume(%s) error = %v", tt.kind, err)
			}
			if string(got) != tt.want {
				t.Errorf("emitResume(%s) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteOutput - File and stdout targets
// ---------------------------------------------------------------------------

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeOutput(&buf, "-", []byte("hello")); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		if buf.String() != "hello" {
			t.Errorf("stdout = %q, want hello", buf.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ada-resume.md")
		if err := writeOutput(io.Discard, path, []byte("# Ada")); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if string(data) != "# Ada" {
			t.Errorf("file = %q, want # Ada", data)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "out.pdf")
		if err := writeOutput(io.Discard, path, []byte("x")); !errors.Is(err, ErrWriteResume) {
			t.Errorf("writeOutput() error = %v, want ErrWriteResume", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunInfo_NoPages - Metadata without decoding
// ---------------------------------------------------------------------------

func TestRunInfo_NoPages(t *testing.T) {
	t.Parallel()

	// Not a PDF: a decode would fail, so success means nothing was decoded.
	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, make([]byte, 4096), 0o600); err != nil {
		t.Fatal(err)
	}

	env, stdout, stderr := testEnv()
	if code := run(context.Background(), []string{"info", path, "--no-pages", "--json"}, env); code != ExitSuccess {
		t.Fatalf("exit = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
	}

	var info folio.DocumentInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if info.Name != "cv.pdf" || info.Size != 4096 || info.Pages != 0 {
		t.Errorf("info = %+v, want cv.pdf, 4096 bytes, no page count", info)
	}
}

func TestPrintInfo_OmitsUnknownPages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printInfo(&buf, &folio.DocumentInfo{Name: "cv.pdf", SizeLabel: "4.0 KB"}, "")
	if strings.Contains(buf.String(), "Pages:") {
		t.Errorf("output = %q, want no Pages line", buf.String())
	}

	buf.Reset()
	printInfo(&buf, &folio.DocumentInfo{Name: "cv.pdf", SizeLabel: "4.0 KB", Pages: 2}, "")
	if !strings.Contains(buf.String(), "Pages:     2") {
		t.Errorf("output = %q, want Pages line", buf.String())
	}
}
