package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/config"
)

// envConfig holds configuration from environment variables.
// Lets a container deployment run without a YAML file.
type envConfig struct {
	// Server
	ConfigPath string // FOLIO_CONFIG: config file name or path
	Addr       string // FOLIO_ADDR: listen address
	CORSOrigin string // FOLIO_CORS_ORIGIN: allowed origin
	StorePath  string // FOLIO_STORE: portfolio YAML file

	// Resume
	ResumeURL string        // FOLIO_RESUME_URL: resume link override
	Scale     float64       // FOLIO_SCALE: rasterization scale
	Format    string        // FOLIO_FORMAT: png or jpeg
	Workers   int           // FOLIO_WORKERS: page workers
	Timeout   time.Duration // FOLIO_TIMEOUT: fetch/render timeout
	CacheTTL  time.Duration // FOLIO_CACHE_TTL: rendered resume cache
	HasTTL    bool          // FOLIO_CACHE_TTL was set; 0 disables the cache
	Style     string        // FOLIO_STYLE: printed resume style

	// Gallery
	GalleryBaseURL string // FOLIO_GALLERY_BASE_URL: screenshot host

	// Mail
	MailHost     string   // FOLIO_MAIL_HOST
	MailPort     int      // FOLIO_MAIL_PORT
	MailUsername string   // FOLIO_MAIL_USERNAME
	MailPassword string   // FOLIO_MAIL_PASSWORD
	MailFrom     string   // FOLIO_MAIL_FROM
	MailTo       []string // FOLIO_MAIL_TO: comma-separated
}

// knownEnvVars lists valid FOLIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FOLIO_CONFIG":           true,
	"FOLIO_ADDR":             true,
	"FOLIO_CORS_ORIGIN":      true,
	"FOLIO_STORE":            true,
	"FOLIO_RESUME_URL":       true,
	"FOLIO_SCALE":            true,
	"FOLIO_FORMAT":           true,
	"FOLIO_WORKERS":          true,
	"FOLIO_TIMEOUT":          true,
	"FOLIO_CACHE_TTL":        true,
	"FOLIO_STYLE":            true,
	"FOLIO_GALLERY_BASE_URL": true,
	"FOLIO_MAIL_HOST":        true,
	"FOLIO_MAIL_PORT":        true,
	"FOLIO_MAIL_USERNAME":    true,
	"FOLIO_MAIL_PASSWORD":    true,
	"FOLIO_MAIL_FROM":        true,
	"FOLIO_MAIL_TO":          true,
	"FOLIO_CONTAINER":        true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored, like unset variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("FOLIO_CONFIG"),
		Addr:           os.Getenv("FOLIO_ADDR"),
		CORSOrigin:     os.Getenv("FOLIO_CORS_ORIGIN"),
		StorePath:      os.Getenv("FOLIO_STORE"),
		ResumeURL:      os.Getenv("FOLIO_RESUME_URL"),
		Format:         os.Getenv("FOLIO_FORMAT"),
		Style:          os.Getenv("FOLIO_STYLE"),
		GalleryBaseURL: os.Getenv("FOLIO_GALLERY_BASE_URL"),
		MailHost:       os.Getenv("FOLIO_MAIL_HOST"),
		MailUsername:   os.Getenv("FOLIO_MAIL_USERNAME"),
		MailPassword:   os.Getenv("FOLIO_MAIL_PASSWORD"),
		MailFrom:       os.Getenv("FOLIO_MAIL_FROM"),
	}

	if v := os.Getenv("FOLIO_SCALE"); v != "" {
		if s, err := strconv.ParseFloat(v, 64); err == nil && s > 0 {
			cfg.Scale = s
		}
	}
	if v := os.Getenv("FOLIO_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if v := os.Getenv("FOLIO_MAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.MailPort = p
		}
	}
	if v := os.Getenv("FOLIO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	// Zero is meaningful here: it disables the cache.
	if v := os.Getenv("FOLIO_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.CacheTTL, cfg.HasTTL = d, true
		}
	}
	if v := os.Getenv("FOLIO_MAIL_TO"); v != "" {
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.MailTo = append(cfg.MailTo, addr)
			}
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized FOLIO_* variables.
// Helps catch typos like FOLIO_MAIL_HOTS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "FOLIO_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment variables on cfg.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Server.CORSOrigin, env.CORSOrigin)
	setString(&cfg.Store.Path, env.StorePath)

	setString(&cfg.Resume.URL, env.ResumeURL)
	setString(&cfg.Resume.Format, env.Format)
	setString(&cfg.Resume.Style, env.Style)
	if env.Scale > 0 {
		cfg.Resume.Scale = env.Scale
	}
	if env.Workers > 0 {
		cfg.Resume.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Resume.Timeout = env.Timeout
	}
	if env.HasTTL {
		cfg.Resume.CacheTTL = env.CacheTTL
	}

	setString(&cfg.Gallery.BaseURL, env.GalleryBaseURL)

	setString(&cfg.Mail.Host, env.MailHost)
	setString(&cfg.Mail.Username, env.MailUsername)
	setString(&cfg.Mail.Password, env.MailPassword)
	setString(&cfg.Mail.From, env.MailFrom)
	if env.MailPort > 0 {
		cfg.Mail.Port = env.MailPort
	}
	if len(env.MailTo) > 0 {
		cfg.Mail.To = env.MailTo
	}
}
