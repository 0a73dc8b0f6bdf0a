// Package hints appends one actionable line to CLI error messages. Every
// hint renders as "\n  hint: <text>".
package hints

import (
	"net/http"
	"os"
	"strings"

	"github.com/alnah/go-folio/internal/fileutil"
)

// Host describes where the binary runs, as far as launching Chrome cares.
type Host struct {
	CI         bool
	Container  string // signal that gave the container away, empty if none
	NoSandbox  bool   // ROD_NO_SANDBOX=1
	BrowserBin string // ROD_BROWSER_BIN
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// dockerenv is swapped in tests.
var dockerenv = "/.dockerenv"

// DetectHost reads the environment and the filesystem once.
func DetectHost() Host {
	h := Host{
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			h.CI = true
			break
		}
	}
	switch {
	case os.Getenv("FOLIO_CONTAINER") == "1":
		h.Container = "FOLIO_CONTAINER=1"
	case fileutil.FileExists(dockerenv):
		h.Container = dockerenv
	case os.Getenv("container") != "": // podman, systemd-nspawn
		h.Container = "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		h.Container = "KUBERNETES_SERVICE_HOST"
	}
	return h
}

// NeedsNoSandbox reports whether Chrome will likely refuse to start because
// it runs sandboxed inside a container or CI job.
func (h Host) NeedsNoSandbox() bool {
	return (h.CI || h.Container != "") && !h.NoSandbox
}

// ForBrowserConnect covers a printed resume whose browser never came up.
func ForBrowserConnect(h Host) string {
	var parts []string
	if h.NeedsNoSandbox() {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if h.BrowserBin == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return format(strings.Join(parts, "; "))
}

func ForTimeout() string {
	return format("for slow document hosts or large resumes, use --timeout")
}

// ForConfigNotFound points at --config, and at the per-user location when
// it is among the searched paths.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(strings.ReplaceAll(p, `\`, "/"), ".config/go-folio") {
			return format(hint + " or create " + p)
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForDecode covers bytes MuPDF could not open.
func ForDecode() string {
	return format("the URL must point at the PDF itself, not a viewer page; run 'folio info <url>' to check it")
}

// ForFetch covers a failed document download. statusCode is zero when no
// response arrived.
func ForFetch(statusCode int) string {
	switch statusCode {
	case http.StatusNotFound:
		return format("the resume link is stale; update socialLinks.resumeLink")
	case http.StatusForbidden:
		return format("the bucket or object is not public; check its read policy")
	case 0:
		return format("check the network and the URL host; set HTTPS_PROXY if behind a proxy")
	}
	return ""
}

func ForMail() string {
	return format("check mail.host, mail.port and credentials; FOLIO_MAIL_PASSWORD overrides the file")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
