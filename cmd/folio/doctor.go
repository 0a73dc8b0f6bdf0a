package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/hints"
	"github.com/alnah/go-folio/portfolio"
)

// Report levels, also the JSON status of a whole report.
const (
	levelOK    = "ok"
	levelWarn  = "warn"
	levelError = "error"
)

type finding struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type section struct {
	Title    string    `json:"title"`
	Findings []finding `json:"findings"`
}

func (s *section) ok(format string, args ...any)   { s.add(levelOK, format, args...) }
func (s *section) warn(format string, args ...any) { s.add(levelWarn, format, args...) }
func (s *section) fail(format string, args ...any) { s.add(levelError, format, args...) }

func (s *section) add(level, format string, args ...any) {
	s.Findings = append(s.Findings, finding{Level: level, Text: fmt.Sprintf(format, args...)})
}

type doctorReport struct {
	Status   string     `json:"status"`
	Platform string     `json:"platform"`
	Sections []*section `json:"sections"`
}

// worst returns the most severe level across all findings.
func (r *doctorReport) worst() string {
	level := levelOK
	for _, s := range r.Sections {
		for _, f := range s.Findings {
			switch {
			case f.Level == levelError:
				return levelError
			case f.Level == levelWarn:
				level = levelWarn
			}
		}
	}
	return level
}

// doctorProbe carries what one check learns for the checks after it.
type doctorProbe struct {
	host          hints.Host
	chromeFound   bool
	configNameEnv string
}

type doctorCheck struct {
	title string
	run   func(*doctorProbe, *section)
}

var doctorChecks = []doctorCheck{
	{"Chrome/Chromium", checkChrome},
	{"Config", checkConfig},
	{"Environment", checkHost},
	{"System", checkTempDir},
}

// runDoctorCmd prints the report and exits non-zero only on errors.
// Warnings still leave the server able to start.
func runDoctorCmd(args []string, env *Environment) int {
	asJSON := false
	for _, arg := range args {
		if arg == "--json" {
			asJSON = true
		}
	}

	report := runDoctor(&doctorProbe{host: hints.DetectHost(), configNameEnv: os.Getenv("FOLIO_CONFIG")})
	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == levelError {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(p *doctorProbe) *doctorReport {
	report := &doctorReport{Platform: runtime.GOOS + "/" + runtime.GOARCH}
	for _, c := range doctorChecks {
		s := &section{Title: c.title}
		c.run(p, s)
		report.Sections = append(report.Sections, s)
	}
	report.Status = report.worst()
	return report
}

// checkChrome looks for the browser printed resumes need. Raster pages do
// not, so a missing browser is only a warning.
func checkChrome(p *doctorProbe, s *section) {
	path := p.host.BrowserBin
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			s.warn("not found: printed resumes are unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		s.fail("not found at %s", path)
		return
	}
	p.chromeFound = true
	s.ok("found at %s", path)

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from launcher or operator
	if err != nil {
		s.warn("could not get version: %v", err)
	} else {
		s.ok("version: %s", strings.TrimSpace(string(out)))
	}

	if p.host.NoSandbox {
		s.ok("sandbox: disabled (ROD_NO_SANDBOX=1)")
	} else {
		s.ok("sandbox: enabled")
	}
}

// checkConfig loads the configuration the way serve would.
func checkConfig(p *doctorProbe, s *section) {
	name, explicit := p.configNameEnv, p.configNameEnv != ""
	if !explicit {
		name = defaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		cfg = config.DefaultConfig()
		s.ok("source: defaults")
	case err != nil:
		s.fail("%v", err)
		return
	default:
		s.ok("source: %s", configSource(name))
	}

	applyEnvConfig(loadEnvConfig(), cfg)
	if err := cfg.Validate(); err != nil {
		s.fail("%v", err)
		return
	}

	if cfg.Store.Path == "" {
		s.ok("store: memory")
	} else {
		checkStore(s, cfg.Store.Path)
	}
	if cfg.Resume.URL == "" {
		s.ok("resume: from the store's socialLinks.resumeLink")
	} else {
		s.ok("resume: %s", cfg.Resume.URL)
	}
	if cfg.Mail.Enabled() {
		s.ok("mail: SMTP via %s", cfg.Mail.Host)
	} else {
		s.warn("mail not configured: contact messages are only logged. Set mail.host")
	}
}

// configSource resolves a config name to the file that was loaded.
func configSource(name string) string {
	if fileutil.IsFilePath(name) {
		return name
	}
	for _, path := range config.SearchPaths(name) {
		if fileutil.FileExists(path) {
			return path
		}
	}
	return name
}

func checkStore(s *section, path string) {
	store, err := portfolio.NewFileStore(path)
	if err != nil {
		s.fail("store: %v", err)
		return
	}
	_, err = store.Get(context.Background())
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		s.warn("store %s does not exist yet: POST /api/portfolio creates it", path)
	case err != nil:
		s.fail("store: %v", err)
	default:
		s.ok("store: %s", path)
	}
}

func checkHost(p *doctorProbe, s *section) {
	s.ok("platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	if p.host.Container != "" {
		s.ok("container: detected (%s)", p.host.Container)
	}
	if p.host.CI {
		s.ok("CI: detected")
	}
	if p.chromeFound && p.host.NeedsNoSandbox() {
		s.warn("container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkTempDir verifies printed resumes can stage their HTML.
func checkTempDir(_ *doctorProbe, s *section) {
	dir := os.TempDir()
	probe := filepath.Join(dir, "folio-doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		s.fail("temp directory not writable: %s", dir)
		return
	}
	_ = os.Remove(probe)
	s.ok("temp directory: writable")
}

var levelTags = map[string]string{levelOK: "[OK]", levelWarn: "[WARN]", levelError: "[ERROR]"}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintf(w, "folio doctor\n\n")
	for _, s := range r.Sections {
		fmt.Fprintln(w, s.Title)
		for _, f := range s.Findings {
			fmt.Fprintf(w, "  %s %s\n", levelTags[f.Level], f.Text)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case levelOK:
		fmt.Fprintln(w, "Status: Ready to serve")
	case levelWarn:
		fmt.Fprintln(w, "Status: Ready with warnings")
	default:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
