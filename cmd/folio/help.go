package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve       Run the portfolio HTTP API")
	fmt.Fprintln(w, "  rasterize   Render PDF pages to images")
	fmt.Fprintln(w, "  info        Show a PDF's name, size, date and page count")
	fmt.Fprintln(w, "  view        Page through a PDF in the terminal")
	fmt.Fprintln(w, "  resume      Print the portfolio as a resume")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'folio help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -s, --scale <f>           Resolution multiplier (default 2.4)")
	fmt.Fprintln(w, "  -f, --format <s>          Page image format: png, jpeg")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel page workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Fetch and render timeout (e.g., 30s, 2m)")
}

func printGeneratorUsage(w io.Writer) {
	fmt.Fprintln(w, "Printed Resume:")
	fmt.Fprintln(w, "      --style <s>           CSS style name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the portfolio, contact and resume endpoints.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :5000)")
	fmt.Fprintln(w, "      --store <path>        Portfolio YAML file (empty = in-memory)")
	fmt.Fprintln(w, "      --cors-origin <s>     Allowed origin (\"\" = no CORS headers)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resume:")
	fmt.Fprintln(w, "      --resume-url <url>    Resume PDF, overrides the portfolio link")
	fmt.Fprintln(w, "      --cache-ttl <d>       How long rendered pages are reused (0 = never)")
	fmt.Fprintln(w, "      --no-generate         Do not print a resume when no link is set")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printGeneratorUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRasterizeUsage prints usage for the rasterize command.
func printRasterizeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio rasterize <url|file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every page of a PDF to page-001.png, page-002.png, ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  url|file    PDF link, file:// URL or local path (optional if config has resume.url)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current)")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality 1-100 (default 90)")
	fmt.Fprintln(w, "      --thumbnail <px>      Also write thumb-NNN images this wide")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printInfoUsage prints usage for the info command.
func printInfoUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio info <url|file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the details panel for a PDF: name, size, date, pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w, "      --no-pages            Read metadata only; skip the download and page count")
	fmt.Fprintln(w, "  -t, --timeout <d>         Fetch timeout (e.g., 30s)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printViewUsage prints usage for the view command.
func printViewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio view <url|file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page through a PDF. Interactive on a terminal, scripted otherwise.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keys (fullscreen):")
	fmt.Fprintln(w, "  left/right, h/l           Previous/next page")
	fmt.Fprintln(w, "  f, enter                  Enter fullscreen")
	fmt.Fprintln(w, "  esc                       Exit fullscreen")
	fmt.Fprintln(w, "  z                         Step zoom")
	fmt.Fprintln(w, "  0                         Reset zoom")
	fmt.Fprintln(w, "  q, ctrl-c                 Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Script commands (one per line, # comments):")
	fmt.Fprintln(w, "  next, prev, goto N, open, close, zoom, reset,")
	fmt.Fprintln(w, "  swipe-left, swipe-right, drag X0 Y0 X1 Y1, key NAME")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --script <path>       Read commands from a file (- = stdin)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printResumeUsage prints usage for the resume command.
func printResumeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio resume [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the stored portfolio as a resume.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: <name>-resume.<ext>, - = stdout)")
	fmt.Fprintln(w, "      --store <path>        Portfolio YAML file (default: store.path)")
	fmt.Fprintln(w, "      --emit <s>            Output kind: pdf, html, markdown")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printGeneratorUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "rasterize":
		printRasterizeUsage(env.Stdout)
	case "info":
		printInfoUsage(env.Stdout)
	case "view":
		printViewUsage(env.Stdout)
	case "resume":
		printResumeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: folio doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, MuPDF, config and the temp directory.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: folio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: folio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
