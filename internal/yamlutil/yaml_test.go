package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-folio/internal/yamlutil"
)

type testDoc struct {
	Name   string   `yaml:"name"`
	Scale  float64  `yaml:"scale"`
	Labels []string `yaml:"labels"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		anyErr  bool
	}{
		{
			name: "valid YAML",
			data: []byte("name: resume\nscale: 2.4\nlabels: [a, b]"),
			dest: &testDoc{},
		},
		{
			name: "unknown fields ignored",
			data: []byte("name: resume\nextra: true"),
			dest: &testDoc{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testDoc{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:   "malformed YAML",
			data:   []byte("name: [unclosed"),
			dest:   &testDoc{},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatal("expected error, got nil")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown fields are rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var doc testDoc
	if err := yamlutil.UnmarshalStrict([]byte("name: resume\nscael: 2"), &doc); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}

	if err := yamlutil.UnmarshalStrict([]byte("name: resume\nscale: 2"), &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "resume" || doc.Scale != 2 {
		t.Errorf("decoded %+v", doc)
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.Unmarshal(data, &testDoc{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Round trip through the indented layout
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	in := testDoc{Name: "resume", Scale: 2.4, Labels: []string{"go", "pdf"}}
	out, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "  - go") {
		t.Errorf("expected indented sequence, got:\n%s", out)
	}

	var back testDoc
	if err := yamlutil.UnmarshalStrict(out, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Name != in.Name || back.Scale != in.Scale || len(back.Labels) != 2 {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
