package main

import (
	"context"
	"fmt"
	"path/filepath"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/contact"
	"github.com/alnah/go-folio/internal/logging"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/internal/server"
	"github.com/alnah/go-folio/portfolio"
)

// devMailbox receives contact messages when no mail settings are given.
// They are only logged.
const devMailbox = "folio@localhost"

// runServe loads the configuration and serves until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, rest[0])
	}

	cfg, err := loadConfig(f.common, env.Stderr)
	if err != nil {
		return err
	}
	applyServeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(cfg.Resume.Workers); err != nil {
		return err
	}

	logger := newLogger(f.common, env.Stderr, logging.LevelInfo)
	srv, cleanup, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return srv.Run(ctx, cfg.Server.Addr)
}

// applyServeFlags copies explicitly set serve flags onto cfg.
func applyServeFlags(f *serveFlags, cfg *config.Config) {
	if f.changed.has("addr") {
		cfg.Server.Addr = f.addr
	}
	if f.changed.has("store") {
		cfg.Store.Path = f.store
	}
	if f.changed.has("resume-url") {
		cfg.Resume.URL = f.resumeURL
	}
	if f.changed.has("cors-origin") {
		cfg.Server.CORSOrigin = f.corsOrigin
	}
	if f.changed.has("cache-ttl") {
		cfg.Resume.CacheTTL = f.cacheTTL
	}
	if f.noGenerate {
		cfg.Resume.Generate = false
	}
	applyRenderFlags(f.render, f.changed, cfg)
	applyGeneratorFlags(f.generator, f.changed, cfg)
}

// buildServer wires the store, rasterizer, relay and resume generator.
// cleanup releases the generator's browsers.
func buildServer(cfg *config.Config, logger logging.Logger) (*server.Server, func(), error) {
	store, err := newStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	rasterizer, err := newRasterizer(cfg, logger, 0)
	if err != nil {
		return nil, nil, err
	}

	relay, err := newRelay(cfg.Mail, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithRasterizer(rasterizer),
		server.WithFetcher(folio.NewFetcher(nil, 0)),
		server.WithRelay(relay),
		server.WithResumeURL(cfg.Resume.URL),
		server.WithCORSOrigin(cfg.Server.CORSOrigin),
		server.WithCacheTTL(cfg.Resume.CacheTTL),
		server.WithGallery(cfg.Gallery.BaseURL, cfg.Gallery.Ext, cfg.Gallery.Interval),
	}
	if cfg.Resume.Scale > 0 {
		opts = append(opts, server.WithScale(cfg.Resume.Scale))
	}
	if cfg.Resume.Timeout > 0 {
		opts = append(opts, server.WithWorkTimeout(cfg.Resume.Timeout))
	}
	if cfg.Server.ShutdownTimeout > 0 {
		opts = append(opts, server.WithShutdownTimeout(cfg.Server.ShutdownTimeout))
	}

	cleanup := func() {}
	if cfg.Resume.Generate {
		size := resolvePoolSize(cfg.Resume.PoolSize)
		pool, err := resume.NewPool(size, generatorOptions(cfg, logger)...)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, server.WithGenerator(pool))
		cleanup = func() {
			if err := pool.Close(); err != nil {
				logger.Warn("closing resume browsers", logging.Err(err))
			}
		}
		logger.Debug("resume generation enabled", logging.Int("browsers", size))
	}

	return server.New(store, opts...), cleanup, nil
}

// newStore opens the YAML file store, or an in-memory one when path is empty.
func newStore(path string) (portfolio.Store, error) {
	if path == "" {
		return portfolio.NewMemoryStore(), nil
	}
	return portfolio.NewFileStore(path)
}

// newRasterizer builds a rasterizer from the resume settings. quality 0
// keeps the default JPEG quality.
func newRasterizer(cfg *config.Config, logger logging.Logger, quality int) (*folio.Rasterizer, error) {
	opts := []folio.Option{
		folio.WithLogger(logger),
		folio.WithWorkers(cfg.Resume.Workers),
	}
	if cfg.Resume.Format != "" {
		format, err := folio.ParseImageFormat(cfg.Resume.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, folio.WithFormat(format))
	}
	if quality != 0 {
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("%w: --quality must be 1-100, got %d", ErrUsage, quality)
		}
		opts = append(opts, folio.WithJPEGQuality(quality))
	}
	if cfg.Resume.Timeout > 0 {
		opts = append(opts, folio.WithTimeout(cfg.Resume.Timeout))
	}
	return folio.New(opts...), nil
}

// newRelay sends contact messages over SMTP when mail is configured and
// logs them otherwise.
func newRelay(mc config.MailConfig, logger logging.Logger) (*contact.Relay, error) {
	opts := []contact.RelayOption{contact.WithLogger(logger)}

	if mc.Enabled() {
		mailer, err := contact.NewSMTPMailer(contact.SMTPConfig{
			Host:     mc.Host,
			Port:     mc.Port,
			Username: mc.Username,
			Password: mc.Password,
		})
		if err != nil {
			return nil, err
		}
		return contact.NewRelay(mailer, mc.From, mc.To, opts...)
	}

	from, to := mc.From, mc.To
	if from == "" {
		from = devMailbox
	}
	if len(to) == 0 {
		to = []string{devMailbox}
	}
	logger.Warn("mail not configured, contact messages are only logged")
	return contact.NewRelay(contact.NewLogMailer(logger), from, to, opts...)
}

// generatorOptions maps the resume settings to printed-resume options.
func generatorOptions(cfg *config.Config, logger logging.Logger) []resume.Option {
	opts := []resume.Option{resume.WithLogger(logger)}
	if cfg.Resume.Style != "" {
		opts = append(opts, resume.WithStyle(cfg.Resume.Style))
	}
	if cfg.Resume.AssetsDir != "" {
		opts = append(opts, resume.WithAssetsDir(cfg.Resume.AssetsDir))
	}
	if cfg.Store.Path != "" {
		opts = append(opts, resume.WithBaseDir(filepath.Dir(cfg.Store.Path)))
	}
	if cfg.Resume.DateFormat != "" {
		opts = append(opts, resume.WithDateFormat(cfg.Resume.DateFormat))
	}
	if cfg.Resume.Timeout > 0 {
		opts = append(opts, resume.WithTimeout(cfg.Resume.Timeout))
	}
	return opts
}
