package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.pdf")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
// "output" is a directory for rasterize but a file for resume, so it is
// resolved per command in commandFlagMeta.
var flagCompletionMeta = map[string]completionMeta{
	"format": {Values: []string{"png", "jpeg"}},
	"emit":   {Values: []string{"pdf", "html", "markdown"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"store":  {FileGlob: "*.yaml,*.yml"},
	"script": {FileGlob: "*.txt"},

	"asset-path": {IsDir: true},
}

// commandFlagMeta overrides flagCompletionMeta for one command.
var commandFlagMeta = map[string]map[string]completionMeta{
	"rasterize": {"output": {IsDir: true}},
	"resume":    {"output": {FileGlob: "*.pdf,*.html,*.md"}},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(command string, fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		meta, ok := commandFlagMeta[command][f.Name]
		if !ok {
			meta, ok = flagCompletionMeta[f.Name]
		}
		if ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:  "serve",
			Desc:  "Run the portfolio HTTP API",
			Flags: extractFlagsFromFlagSet("serve", buildServeFlagSet(&serveFlags{}, io.Discard)),
		},
		{
			Name:        "rasterize",
			Desc:        "Render PDF pages to images",
			Flags:       extractFlagsFromFlagSet("rasterize", buildRasterizeFlagSet(&rasterizeFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.pdf",
		},
		{
			Name:        "info",
			Desc:        "Show a PDF's name, size, date and page count",
			Flags:       extractFlagsFromFlagSet("info", buildInfoFlagSet(&infoFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.pdf",
		},
		{
			Name:        "view",
			Desc:        "Page through a PDF in the terminal",
			Flags:       extractFlagsFromFlagSet("view", buildViewFlagSet(&viewFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*.pdf",
		},
		{
			Name:  "resume",
			Desc:  "Print the portfolio as a resume",
			Flags: extractFlagsFromFlagSet("resume", buildResumeFlagSet(&resumeFlags{}, io.Discard)),
		},
		{
			Name:  "doctor",
			Desc:  "Check system configuration",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print JSON"}},
		},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// commandNames lists command names in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// quoteSingle escapes s for use inside single quotes in POSIX shells.
func quoteSingle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for folio\n\n")
	b.WriteString("_folio_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if c.Name == "help" {
			fmt.Fprintf(&b, "        help)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(commandNames(cmds), " "))
			continue
		}
		if c.Name == "completion" {
			b.WriteString("        completion)\n            COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"${cur}\") )\n            return 0\n            ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}

		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            case \"${prev}\" in\n")
		for _, f := range c.Flags {
			names := "--" + f.Long
			if f.Short != "" {
				names += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "                %s)\n                    COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n                    return 0\n                    ;;\n",
					names, strings.Join(f.Values, " "))
			case flagFile:
				exts := globExtensions(f.FileGlob)
				fmt.Fprintf(&b, "                %s)\n                    COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n                    return 0\n                    ;;\n",
					names, strings.Join(exts, "|"))
			case flagDir:
				fmt.Fprintf(&b, "                %s)\n                    COMPREPLY=( $(compgen -d -- \"${cur}\") )\n                    return 0\n                    ;;\n", names)
			case flagString, flagInt, flagFloat:
				fmt.Fprintf(&b, "                %s)\n                    return 0\n                    ;;\n", names)
			}
		}
		b.WriteString("            esac\n")

		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		b.WriteString("            if [[ \"${cur}\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(opts, " "))
		b.WriteString("                return 0\n")
		b.WriteString("            fi\n")
		if c.TakesFiles {
			exts := globExtensions(c.FilePattern)
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n", strings.Join(exts, "|"))
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _folio_completions folio\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec for f.
func zshFlagSpec(f flagDef) []string {
	desc := strings.ReplaceAll(quoteSingle(f.Desc), "[", `\[`)
	desc = strings.ReplaceAll(desc, "]", `\]`)

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, strings.Join(strings.Split(f.FileGlob, ","), " "))
	case flagDir:
		action = fmt.Sprintf(":%s:_directories", f.Long)
	default:
		action = fmt.Sprintf(":%s:", f.Long)
	}

	if f.Short == "" {
		return []string{fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)}
	}
	return []string{
		fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action),
	}
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef folio\n\n")
	b.WriteString("_folio() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, quoteSingle(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		switch c.Name {
		case "help":
			b.WriteString("        help)\n            _describe 'command' commands\n            ;;\n")
			continue
		case "completion":
			b.WriteString("        completion)\n            _values 'shell' bash zsh fish powershell\n            ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}

		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			for _, spec := range zshFlagSpec(f) {
				fmt.Fprintf(&b, "                %s \\\n", spec)
			}
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "                '*:document:_files -g \"%s\"'\n", strings.Join(strings.Split(c.FilePattern, ","), " "))
		} else {
			b.WriteString("                '*::'\n")
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_folio \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for folio\n\n")
	b.WriteString("function __fish_folio_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_folio_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c folio -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c folio -n __fish_folio_needs_command -a %s -d '%s'\n", c.Name, quoteSingle(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_folio_using_command %s'", c.Name)
		switch c.Name {
		case "help":
			fmt.Fprintf(&b, "complete -c folio -n %s -a '%s'\n", cond, strings.Join(commandNames(cmds), " "))
			continue
		case "completion":
			fmt.Fprintf(&b, "complete -c folio -n %s -a 'bash zsh fish powershell'\n", cond)
			continue
		}

		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c folio -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt, flagFloat:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", quoteSingle(f.Desc))
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c folio -n %s -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for folio\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName folio -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, strings.ReplaceAll(c.Desc, "'", "''"))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $flags = @{\n")

	names := make([]string, 0, len(cmds))
	byName := make(map[string]commandDef, len(cmds))
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		names = append(names, c.Name)
		byName[c.Name] = c
	}
	sort.Strings(names)
	for _, name := range names {
		var opts []string
		for _, f := range byName[name].Flags {
			opts = append(opts, "'--"+f.Long+"'")
			if f.Short != "" {
				opts = append(opts, "'-"+f.Short+"'")
			}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", name, strings.Join(opts, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    if ($elements.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | Sort-Object Key | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1].ToString()\n")
	b.WriteString("    if ($cmd -eq 'completion') {\n")
	b.WriteString("        'bash', 'zsh', 'fish', 'powershell' | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n")
	b.WriteString("    if ($flags.ContainsKey($cmd) -and $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(folio completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(folio completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    folio completion fish > ~/.config/fish/completions/folio.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    folio completion powershell | Out-String | Invoke-Expression")
}
