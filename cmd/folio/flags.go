package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// changedSet records which flags were given on the command line, so only
// those override the environment and the config file.
type changedSet map[string]bool

func (c changedSet) has(name string) bool { return c[name] }

// resumeSourceFlags selects and renders the resume document.
type resumeSourceFlags struct {
	scale   float64
	format  string
	workers int
	timeout time.Duration
}

// generatorFlags configure the printed resume.
type generatorFlags struct {
	style     string
	assetPath string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common     commonFlags
	addr       string
	store      string
	resumeURL  string
	corsOrigin string
	cacheTTL   time.Duration
	noGenerate bool
	render     resumeSourceFlags
	generator  generatorFlags
	changed    changedSet
}

// rasterizeFlags holds flags for the rasterize command.
type rasterizeFlags struct {
	common    commonFlags
	output    string
	quality   int
	thumbnail int
	render    resumeSourceFlags
	changed   changedSet
}

// infoFlags holds flags for the info command.
type infoFlags struct {
	common  commonFlags
	json    bool
	noPages bool
	timeout time.Duration
	changed changedSet
}

// viewFlags holds flags for the view command.
type viewFlags struct {
	common  commonFlags
	script  string
	render  resumeSourceFlags
	changed changedSet
}

// resumeFlags holds flags for the resume command.
type resumeFlags struct {
	common    commonFlags
	output    string
	store     string
	emit      string // pdf, html, markdown
	timeout   time.Duration
	generator generatorFlags
	changed   changedSet
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addRenderFlags adds rasterization flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *resumeSourceFlags) {
	fs.Float64VarP(&f.scale, "scale", "s", 0, "resolution multiplier (default 2.4)")
	fs.StringVarP(&f.format, "format", "f", "", "page image format: png, jpeg")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel page workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "fetch and render timeout (e.g., 30s, 2m)")
}

// addGeneratorFlags adds printed-resume flags to a FlagSet.
func addGeneratorFlags(fs *flag.FlagSet, f *generatorFlags) {
	fs.StringVar(&f.style, "style", "", "resume CSS style name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse and records the changed flags.
func parse(fs *flag.FlagSet, args []string) (changedSet, []string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrUsage, fs.Name(), err)
	}
	changed := changedSet{}
	fs.Visit(func(f *flag.Flag) { changed[f.Name] = true })
	return changed, fs.Args(), nil
}

func buildServeFlagSet(f *serveFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("serve", printServeUsage, stderr)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :5000)")
	fs.StringVar(&f.store, "store", "", "portfolio YAML file (empty = in-memory)")
	fs.StringVar(&f.resumeURL, "resume-url", "", "resume URL, overrides the portfolio link")
	fs.StringVar(&f.corsOrigin, "cors-origin", "", "Access-Control-Allow-Origin value")
	fs.DurationVar(&f.cacheTTL, "cache-ttl", 0, "how long rendered resumes are reused")
	fs.BoolVar(&f.noGenerate, "no-generate", false, "do not print a resume when no link is set")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addGeneratorFlags(fs, &f.generator)
	return fs
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	changed, rest, err := parse(buildServeFlagSet(f, stderr), args)
	f.changed = changed
	return f, rest, err
}

func buildRasterizeFlagSet(f *rasterizeFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("rasterize", printRasterizeUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: current)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100 (default 90)")
	fs.IntVar(&f.thumbnail, "thumbnail", 0, "also write thumbnails this many pixels wide")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func parseRasterizeFlags(args []string, stderr io.Writer) (*rasterizeFlags, []string, error) {
	f := &rasterizeFlags{}
	changed, rest, err := parse(buildRasterizeFlagSet(f, stderr), args)
	f.changed = changed
	return f, rest, err
}

func buildInfoFlagSet(f *infoFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("info", printInfoUsage, stderr)
	fs.BoolVar(&f.json, "json", false, "print JSON")
	fs.BoolVar(&f.noPages, "no-pages", false, "read metadata only; skip the download and page count")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "fetch timeout (e.g., 30s)")
	addCommonFlags(fs, &f.common)
	return fs
}

func parseInfoFlags(args []string, stderr io.Writer) (*infoFlags, []string, error) {
	f := &infoFlags{}
	changed, rest, err := parse(buildInfoFlagSet(f, stderr), args)
	f.changed = changed
	return f, rest, err
}

func buildViewFlagSet(f *viewFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("view", printViewUsage, stderr)
	fs.StringVar(&f.script, "script", "", "read viewer commands from a file (- = stdin)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func parseViewFlags(args []string, stderr io.Writer) (*viewFlags, []string, error) {
	f := &viewFlags{}
	changed, rest, err := parse(buildViewFlagSet(f, stderr), args)
	f.changed = changed
	return f, rest, err
}

func buildResumeFlagSet(f *resumeFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("resume", printResumeUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: <name>-resume.<ext>, - = stdout)")
	fs.StringVar(&f.store, "store", "", "portfolio YAML file")
	fs.StringVar(&f.emit, "emit", "pdf", "output kind: pdf, html, markdown")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF generation timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)
	addGeneratorFlags(fs, &f.generator)
	return fs
}

func parseResumeFlags(args []string, stderr io.Writer) (*resumeFlags, []string, error) {
	f := &resumeFlags{}
	changed, rest, err := parse(buildResumeFlagSet(f, stderr), args)
	f.changed = changed
	return f, rest, err
}
