package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength     = 255  // host:port
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxNameLength     = 100  // style name, ext
	MaxEmailLength    = 254  // RFC 5321
	MaxHostLength     = 253  // DNS name
	MaxPasswordLength = 256
	MaxRecipients     = 20
)

// Numeric limits.
const (
	MaxScale    = 10.0
	MaxCacheTTL = 24 * time.Hour
)

// AppName is the directory name under the user config dir.
const AppName = "go-folio"

// Config holds all configuration for the portfolio server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Resume  ResumeConfig  `yaml:"resume"`
	Gallery GalleryConfig `yaml:"gallery"`
	Mail    MailConfig    `yaml:"mail"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigin      string        `yaml:"corsOrigin"` // "*" or a single origin
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// StoreConfig defines where the portfolio document lives.
type StoreConfig struct {
	Path string `yaml:"path"` // YAML file; empty = in-memory store
}

// ResumeConfig defines resume rasterization and generation options.
type ResumeConfig struct {
	URL        string        `yaml:"url"` // overrides the portfolio's resume link
	Scale      float64       `yaml:"scale"`
	Format     string        `yaml:"format"`  // "png" or "jpeg"
	Workers    int           `yaml:"workers"` // 0 = auto
	CacheTTL   time.Duration `yaml:"cacheTTL"`
	Timeout    time.Duration `yaml:"timeout"`
	Generate   bool          `yaml:"generate"` // print a resume when no link is set
	Style      string        `yaml:"style"`
	AssetsDir  string        `yaml:"assetsDir"`
	DateFormat string        `yaml:"dateFormat"`
	PoolSize   int           `yaml:"poolSize"` // browsers for generation; 0 = auto
}

// GalleryConfig defines project image gallery options.
type GalleryConfig struct {
	BaseURL  string        `yaml:"baseURL"`
	Interval time.Duration `yaml:"interval"`
	Ext      string        `yaml:"ext"`
}

// MailConfig defines contact relay delivery. An empty Host logs messages
// instead of sending them.
type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			CORSOrigin:      "*",
			ShutdownTimeout: 10 * time.Second,
		},
		Resume: ResumeConfig{
			Scale:      folio.DefaultScale,
			Format:     string(folio.FormatPNG),
			CacheTTL:   10 * time.Minute,
			Timeout:    30 * time.Second,
			Generate:   true,
			Style:      "classic",
			DateFormat: dateutil.DefaultDocumentDateFormat,
		},
		Gallery: GalleryConfig{
			Interval: 5 * time.Second,
			Ext:      "png",
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// Validate checks field lengths and value ranges.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"server.corsOrigin", c.Server.CORSOrigin, MaxURLLength},
		{"store.path", c.Store.Path, MaxPathLength},
		{"resume.url", c.Resume.URL, MaxURLLength},
		{"resume.style", c.Resume.Style, MaxNameLength},
		{"resume.assetsDir", c.Resume.AssetsDir, MaxPathLength},
		{"resume.dateFormat", c.Resume.DateFormat, dateutil.MaxDateFormatLength},
		{"gallery.baseURL", c.Gallery.BaseURL, MaxURLLength},
		{"gallery.ext", c.Gallery.Ext, MaxNameLength},
		{"mail.host", c.Mail.Host, MaxHostLength},
		{"mail.username", c.Mail.Username, MaxEmailLength},
		{"mail.password", c.Mail.Password, MaxPasswordLength},
		{"mail.from", c.Mail.From, MaxEmailLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr: required", ErrInvalidValue)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdownTimeout: must not be negative", ErrInvalidValue)
	}

	if err := c.Resume.validate(); err != nil {
		return err
	}

	if c.Gallery.Interval < 0 {
		return fmt.Errorf("%w: gallery.interval: must not be negative", ErrInvalidValue)
	}

	return c.Mail.validate()
}

func (r *ResumeConfig) validate() error {
	if r.Scale != 0 && (r.Scale < 0 || r.Scale > MaxScale) {
		return fmt.Errorf("%w: resume.scale: must be between 0 and %g, got %g", ErrInvalidValue, MaxScale, r.Scale)
	}
	if _, err := folio.ParseImageFormat(r.Format); err != nil {
		return fmt.Errorf("%w: resume.format: %v", ErrInvalidValue, err)
	}
	if r.Workers < 0 || r.Workers > folio.MaxWorkers {
		return fmt.Errorf("%w: resume.workers: must be between 0 and %d, got %d", ErrInvalidValue, folio.MaxWorkers, r.Workers)
	}
	if r.PoolSize < 0 || r.PoolSize > folio.MaxWorkers {
		return fmt.Errorf("%w: resume.poolSize: must be between 0 and %d, got %d", ErrInvalidValue, folio.MaxWorkers, r.PoolSize)
	}
	if r.CacheTTL < 0 || r.CacheTTL > MaxCacheTTL {
		return fmt.Errorf("%w: resume.cacheTTL: must be between 0 and %s, got %s", ErrInvalidValue, MaxCacheTTL, r.CacheTTL)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("%w: resume.timeout: must not be negative", ErrInvalidValue)
	}
	if r.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(r.DateFormat); err != nil {
			return fmt.Errorf("%w: resume.dateFormat: %v", ErrInvalidValue, err)
		}
	}
	return nil
}

func (m *MailConfig) validate() error {
	if !m.Enabled() {
		return nil
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("%w: mail.port: must be between 1 and 65535, got %d", ErrInvalidValue, m.Port)
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: mail.from: %q is not an email address", ErrInvalidValue, m.From)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: mail.to: at least one recipient required", ErrInvalidValue)
	}
	if len(m.To) > MaxRecipients {
		return fmt.Errorf("%w: mail.to: at most %d recipients, got %d", ErrInvalidValue, MaxRecipients, len(m.To))
	}
	for i, to := range m.To {
		if err := validateFieldLength(fmt.Sprintf("mail.to[%d]", i), to, MaxEmailLength); err != nil {
			return err
		}
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("%w: mail.to[%d]: %q is not an email address", ErrInvalidValue, i, to)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
