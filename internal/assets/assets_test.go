package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeAsset creates {dir}/{sub}/{name} with content.
func writeAsset(t *testing.T, dir, sub, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, sub, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"classic", false},
		{"my-style", false},
		{"my_style2", false},
		{"", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{"style.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error = %v, want ErrInvalidAssetName", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader
// ---------------------------------------------------------------------------

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	t.Run("every listed style loads", func(t *testing.T) {
		t.Parallel()

		names := StyleNames()
		if diff := cmp.Diff([]string{"classic", "modern"}, names); diff != "" {
			t.Errorf("StyleNames() mismatch (-want +got):\n%s", diff)
		}
		for _, name := range names {
			css, err := LoadStyle(name)
			if err != nil || !strings.Contains(css, "body") {
				t.Errorf("LoadStyle(%q) = %d bytes, %v", name, len(css), err)
			}
		}
	})

	t.Run("default template has placeholders", func(t *testing.T) {
		t.Parallel()

		tmpl, err := LoadTemplate(DefaultTemplateName)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"{{.Title}}", "{{.Style}}", "{{.Body}}", "{{.Lang}}"} {
			if !strings.Contains(tmpl, want) {
				t.Errorf("template missing %s", want)
			}
		}
	})

	t.Run("missing assets", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadStyle("nonexistent-xyz"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle error = %v, want ErrStyleNotFound", err)
		}
		if _, err := LoadTemplate("nonexistent-xyz"); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("LoadTemplate error = %v, want ErrTemplateNotFound", err)
		}
		if _, err := LoadStyle("../classic"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle error = %v, want ErrInvalidAssetName", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid directory", dir, false},
		{"empty path", "", true},
		{"nonexistent", "/nonexistent/path/abc123xyz", true},
		{"file instead of directory", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("error = %v, want ErrInvalidBasePath", err)
			}
		})
	}
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "brand.css", "body{color:red}")
	writeAsset(t, dir, "templates", "resume.html", "<html>{{.Body}}</html>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	if css, err := loader.LoadStyle("brand"); err != nil || css != "body{color:red}" {
		t.Errorf("LoadStyle = %q, %v", css, err)
	}
	if tmpl, err := loader.LoadTemplate("resume"); err != nil || tmpl != "<html>{{.Body}}</html>" {
		t.Errorf("LoadTemplate = %q, %v", tmpl, err)
	}
	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("error = %v, want ErrTemplateNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	outside := t.TempDir()
	writeAsset(t, outside, "", "secret.css", "secret")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "styles", "evil.css")); err != nil {
		t.Fatal(err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestAssetResolver
// ---------------------------------------------------------------------------

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatal(err)
		}
		if r.HasCustomLoader() {
			t.Error("expected no custom loader")
		}
		if _, err := r.LoadStyle(DefaultStyleName); err != nil {
			t.Errorf("LoadStyle: %v", err)
		}
	})

	t.Run("custom overrides and falls back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "styles", "classic.css", "custom classic")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		if !r.HasCustomLoader() {
			t.Error("expected custom loader")
		}

		css, err := r.LoadStyle("classic")
		if err != nil || css != "custom classic" {
			t.Errorf("LoadStyle(classic) = %q, %v", css, err)
		}
		css, err = r.LoadStyle("modern")
		if err != nil || css == "" {
			t.Errorf("LoadStyle(modern) fallback = %q, %v", css, err)
		}
		if _, err := r.LoadTemplate(DefaultTemplateName); err != nil {
			t.Errorf("LoadTemplate fallback: %v", err)
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.LoadStyle("../x"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewAssetResolver("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}
