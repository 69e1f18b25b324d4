package cli

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// Common CLI errors
var (
	ErrNoTerminal   = errors.New("no terminal for interactive input - pass --name and --age instead")
	ErrUserNotFound = errors.New("user not found")
)

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
