package portfolio_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-folio/portfolio"
)

func validPortfolio() *portfolio.Portfolio {
	return &portfolio.Portfolio{
		About: portfolio.About{
			Name:                "Ada Lovelace",
			Role:                "Backend Engineer",
			Description:         "Builds **reliable** services.",
			Location:            "London",
			ExperienceStartDate: "2021-03",
			Highlights:          []string{"Distributed systems", "Go"},
		},
		Skills: portfolio.Skills{
			Backend: []portfolio.Skill{{Name: "Go", Level: portfolio.Expert, Version: "1.25"}},
			DevOps:  []portfolio.Skill{{Name: "Docker", Level: portfolio.Advanced}},
		},
		Projects: []portfolio.Project{{
			Title:      "Taskboard",
			TechStack:  []string{"Go", "React"},
			S3Folder:   "taskboard",
			ImageCount: 3,
		}},
		Experience:  []portfolio.Experience{{Company: "Analytical Engines", Position: "Engineer", StartDate: "2021-03"}},
		Education:   []portfolio.Education{{Institution: "University of London", Degree: "BSc", StartYear: "2016", EndYear: "2020"}},
		SocialLinks: portfolio.SocialLinks{Github: "https://github.com/ada", ResumeLink: "https://cdn.example.com/Ada%20CV.pdf"},
		Contact:     portfolio.Contact{Email: "ada@example.com"},
	}
}

// ---------------------------------------------------------------------------
// TestParseLevel
// ---------------------------------------------------------------------------

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    portfolio.Level
		wantErr bool
	}{
		{"Expert", portfolio.Expert, false},
		{"expert", portfolio.Expert, false},
		{"INTERMEDIATE", portfolio.Intermediate, false},
		{" beginner ", portfolio.Beginner, false},
		{"aDvAnCeD", portfolio.Advanced, false},
		{"guru", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := portfolio.ParseLevel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, portfolio.ErrInvalidLevel) {
					t.Errorf("error = %v, want ErrInvalidLevel", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestLevel_Rank(t *testing.T) {
	t.Parallel()

	for i, l := range portfolio.Levels {
		if l.Rank() != i+1 {
			t.Errorf("%s.Rank() = %d, want %d", l, l.Rank(), i+1)
		}
	}
	if portfolio.Level("guru").Rank() != 0 {
		t.Error("invalid level should rank 0")
	}
}

func TestLevel_UnmarshalJSONCanonicalizes(t *testing.T) {
	t.Parallel()

	var s portfolio.Skill
	if err := json.Unmarshal([]byte(`{"name":"Go","level":"expert"}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.Level != portfolio.Expert {
		t.Errorf("Level = %q, want Expert", s.Level)
	}

	if err := json.Unmarshal([]byte(`{"name":"Go","level":"guru"}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.Level != "guru" {
		t.Errorf("unknown level should be kept for validation, got %q", s.Level)
	}
}

// ---------------------------------------------------------------------------
// TestValidate
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *portfolio.Portfolio)
		wantErr error
		field   string
	}{
		{"valid", func(p *portfolio.Portfolio) {}, nil, ""},
		{"missing name", func(p *portfolio.Portfolio) { p.About.Name = "  " }, portfolio.ErrMissingField, "about.name"},
		{"missing role", func(p *portfolio.Portfolio) { p.About.Role = "" }, portfolio.ErrMissingField, "about.role"},
		{"missing description", func(p *portfolio.Portfolio) { p.About.Description = "" }, portfolio.ErrMissingField, "about.description"},
		{"long name", func(p *portfolio.Portfolio) { p.About.Name = strings.Repeat("a", portfolio.MaxNameLength+1) }, portfolio.ErrFieldTooLong, "about.name"},
		{"long URL", func(p *portfolio.Portfolio) { p.SocialLinks.ResumeLink = strings.Repeat("u", portfolio.MaxURLLength+1) }, portfolio.ErrFieldTooLong, "socialLinks.resumeLink"},
		{"skill without name", func(p *portfolio.Portfolio) { p.Skills.Backend[0].Name = "" }, portfolio.ErrMissingField, "skills.backend[0].name"},
		{"bad skill level", func(p *portfolio.Portfolio) { p.Skills.DevOps[0].Level = "guru" }, portfolio.ErrInvalidLevel, "skills.devops[0].level"},
		{"project without title", func(p *portfolio.Portfolio) { p.Projects[0].Title = "" }, portfolio.ErrMissingField, "projects[0].title"},
		{"negative image count", func(p *portfolio.Portfolio) { p.Projects[0].ImageCount = -1 }, portfolio.ErrInvalidValue, "projects[0].imageCount"},
		{"images without folder", func(p *portfolio.Portfolio) { p.Projects[0].S3Folder = "" }, portfolio.ErrMissingField, "projects[0].s3Folder"},
		{"too many highlights", func(p *portfolio.Portfolio) { p.About.Highlights = make([]string, portfolio.MaxListLength+1) }, portfolio.ErrInvalidValue, "about.highlights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPortfolio()
			tt.mutate(p)
			err := p.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name field %q", err, tt.field)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	var p *portfolio.Portfolio
	if err := p.Validate(); !errors.Is(err, portfolio.ErrNilPortfolio) {
		t.Errorf("error = %v, want ErrNilPortfolio", err)
	}
}

// ---------------------------------------------------------------------------
// TestPortfolio helpers
// ---------------------------------------------------------------------------

func TestPortfolio_ResumeURL(t *testing.T) {
	t.Parallel()

	p := validPortfolio()
	if got := p.ResumeURL(); got != "https://cdn.example.com/Ada%20CV.pdf" {
		t.Errorf("ResumeURL = %q", got)
	}

	p.SocialLinks.ResumeLink = ""
	p.About.ResumeLink = "https://example.com/about.pdf"
	if got := p.ResumeURL(); got != "https://example.com/about.pdf" {
		t.Errorf("fallback ResumeURL = %q", got)
	}

	p.About.ResumeLink = ""
	if got := p.ResumeURL(); got != "" {
		t.Errorf("ResumeURL = %q, want empty", got)
	}
}

func TestAbout_ExperienceLabel(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		start string
		want  string
	}{
		{"2024-02", "7 months"},
		{"2021-09", "3+ years"},
		{"2021-03-15", "3.6+ years"},
		{"", ""},
		{"someday", ""},
	}
	for _, tt := range tests {
		a := portfolio.About{ExperienceStartDate: tt.start}
		if got := a.ExperienceLabel(now); got != tt.want {
			t.Errorf("ExperienceLabel(%q) = %q, want %q", tt.start, got, tt.want)
		}
	}
}

func TestSkills_Categories(t *testing.T) {
	t.Parallel()

	cats := validPortfolio().Skills.Categories()
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Backend", "DevOps"}, names); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestStore - Shared contract
// ---------------------------------------------------------------------------

func storeImplementations(t *testing.T) map[string]portfolio.Store {
	t.Helper()
	fs, err := portfolio.NewFileStore(filepath.Join(t.TempDir(), "portfolio.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]portfolio.Store{
		"memory": portfolio.NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			if _, err := store.Get(ctx); !errors.Is(err, portfolio.ErrNotFound) {
				t.Fatalf("empty store: error = %v, want ErrNotFound", err)
			}

			in := validPortfolio()
			saved, err := store.Put(ctx, in)
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
			if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
				t.Error("Put should stamp timestamps")
			}
			if !in.CreatedAt.IsZero() {
				t.Error("Put must not mutate the caller's document")
			}

			got, err := store.Get(ctx)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if diff := cmp.Diff(saved, got); diff != "" {
				t.Errorf("round trip mismatch (-saved +got):\n%s", diff)
			}

			// Mutating the returned copy does not change the store.
			got.About.Name = "Changed"
			again, _ := store.Get(ctx)
			if again.About.Name != "Ada Lovelace" {
				t.Error("store shares memory with returned documents")
			}

			// Replacing keeps CreatedAt.
			in.About.Role = "Staff Engineer"
			replaced, err := store.Put(ctx, in)
			if err != nil {
				t.Fatalf("second Put: %v", err)
			}
			if !replaced.CreatedAt.Equal(saved.CreatedAt) {
				t.Errorf("CreatedAt changed from %v to %v", saved.CreatedAt, replaced.CreatedAt)
			}
			if replaced.About.Role != "Staff Engineer" {
				t.Errorf("Role = %q", replaced.About.Role)
			}
		})
	}
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	t.Parallel()

	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := validPortfolio()
			p.About.Name = ""
			if _, err := store.Put(context.Background(), p); !errors.Is(err, portfolio.ErrMissingField) {
				t.Errorf("error = %v, want ErrMissingField", err)
			}
			if _, err := store.Get(context.Background()); !errors.Is(err, portfolio.ErrNotFound) {
				t.Error("invalid document should not be saved")
			}
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range storeImplementations(t) {
		if _, err := store.Get(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("%s Get: error = %v, want context.Canceled", name, err)
		}
		if _, err := store.Put(ctx, validPortfolio()); !errors.Is(err, context.Canceled) {
			t.Errorf("%s Put: error = %v, want context.Canceled", name, err)
		}
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := portfolio.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = store.Put(ctx, validPortfolio())
			} else {
				_, _ = store.Get(ctx)
			}
		}()
	}
	wg.Wait()

	if _, err := store.Get(ctx); err != nil {
		t.Errorf("Get after concurrent writes: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileStore
// ---------------------------------------------------------------------------

func TestFileStore_ReadsHandWrittenYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	doc := `about:
  name: Grace Hopper
  role: Compiler Engineer
  description: Invented the first compiler.
skills:
  backend:
    - name: COBOL
      level: expert
socialLinks:
  resumeLink: https://example.com/grace.pdf
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := portfolio.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.About.Name != "Grace Hopper" || p.Skills.Backend[0].Level != portfolio.Expert {
		t.Errorf("got %+v", p)
	}
	if p.ResumeURL() != "https://example.com/grace.pdf" {
		t.Errorf("ResumeURL = %q", p.ResumeURL())
	}
}

func TestFileStore_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	doc := "about:\n  name: A\n  role: B\n  description: C\n  nmae: typo\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	store, _ := portfolio.NewFileStore(path)
	if _, err := store.Get(context.Background()); !errors.Is(err, portfolio.ErrStoreParse) {
		t.Errorf("error = %v, want ErrStoreParse", err)
	}
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := portfolio.NewFileStore(""); !errors.Is(err, portfolio.ErrEmptyStorePath) {
		t.Errorf("error = %v, want ErrEmptyStorePath", err)
	}
}
