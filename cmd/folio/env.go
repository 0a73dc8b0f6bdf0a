package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and terminal detection.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// IsTerminal reports whether Stdin is an interactive terminal.
	IsTerminal func() bool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 -- fd fits in int
		},
	}
}
