package main

// Notes:
// - GenerateCompletion: we test that shell scripts are generated with expected
//   content markers. We do not test that the scripts actually work in the
//   target shell (that would require integration tests with actual shells).
// - getCommands: we test the registry mirrors the real FlagSets.
// These are acceptable gaps: we test observable behavior, not runtime shell behavior.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash generates valid script",
			shell: ShellBash,
			wantContains: []string{
				"_folio_completions",
				"complete -F",
				"compgen",
				"rasterize",
				"--scale",
				"png jpeg",
			},
		},
		{
			name:  "zsh generates valid script",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef folio",
				"_folio",
				"_arguments",
				"_describe",
				"serve",
				"--addr",
			},
		},
		{
			name:  "fish generates valid script",
			shell: ShellFish,
			wantContains: []string{
				"complete -c folio",
				"__fish_folio_needs_command",
				"__fish_folio_using_command",
				"view",
				"-l script",
			},
		},
		{
			name:  "powershell generates valid script",
			shell: ShellPowerShell,
			wantContains: []string{
				"Register-ArgumentCompleter",
				"-CommandName folio",
				"CompletionResult",
				"resume",
				"--emit",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) error = %v", tt.shell, err)
			}

			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_UnsupportedShell - Error path
// ---------------------------------------------------------------------------

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Fatalf("GenerateCompletion(tcsh) error = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an unsupported shell", buf.Len())
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry mirrors the FlagSets
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := map[string]commandDef{}
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	for _, name := range []string{"serve", "rasterize", "info", "view", "resume", "doctor", "completion", "version", "help"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("getCommands() missing %q", name)
		}
	}

	findFlag := func(cmd, long string) (flagDef, bool) {
		for _, f := range byName[cmd].Flags {
			if f.Long == long {
				return f, true
			}
		}
		return flagDef{}, false
	}

	tests := []struct {
		cmd, flag string
		wantType  flagType
		wantShort string
	}{
		{"rasterize", "format", flagEnum, "f"},
		{"rasterize", "output", flagDir, "o"},
		{"rasterize", "scale", flagFloat, "s"},
		{"rasterize", "workers", flagInt, "w"},
		{"resume", "output", flagFile, "o"},
		{"resume", "emit", flagEnum, ""},
		{"serve", "no-generate", flagBool, ""},
		{"serve", "config", flagFile, "c"},
		{"view", "script", flagFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			t.Parallel()

			f, ok := findFlag(tt.cmd, tt.flag)
			if !ok {
				t.Fatalf("%s has no --%s flag", tt.cmd, tt.flag)
			}
			if f.Type != tt.wantType {
				t.Errorf("--%s type = %v, want %v", tt.flag, f.Type, tt.wantType)
			}
			if f.Short != tt.wantShort {
				t.Errorf("--%s short = %q, want %q", tt.flag, f.Short, tt.wantShort)
			}
		})
	}

	if !byName["rasterize"].TakesFiles || byName["serve"].TakesFiles {
		t.Error("only document commands should take file arguments")
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command handler
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no args prints usage", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		if err := runCompletion(nil, env); err != nil {
			t.Fatalf("runCompletion() error = %v", err)
		}
		if !strings.Contains(stdout.String(), "Usage: folio completion <shell>") {
			t.Errorf("stdout = %q, want completion usage", stdout.String())
		}
	})

	t.Run("bash writes script", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		if err := runCompletion([]string{"bash"}, env); err != nil {
			t.Fatalf("runCompletion(bash) error = %v", err)
		}
		if !strings.Contains(stdout.String(), "complete -F _folio_completions folio") {
			t.Errorf("stdout missing bash registration")
		}
	})
}
