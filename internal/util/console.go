package util

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ansiGreenBold   = "\x1b[32;1m"
	ansiMagentaBold = "\x1b[35;1m"
	ansiReset       = "\x1b[0m"
)

// Console prints the user facing progress lines. These are separate from the
// zap logger so the output stays readable when piped into other tools.
type Console struct {
	w     io.Writer
	color bool
}

func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// Console on stdout, colored only when stdout is a terminal.
func NewStdoutConsole() *Console {
	return NewConsole(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

func (c *Console) paint(code, s string) string {
	if !c.color {
		return s
	}
	return code + s + ansiReset
}

func (c *Console) Success(imagePath, fontPath string) {
	fmt.Fprintf(c.w, "Image created and saved as %s! %s\n", c.paint(ansiGreenBold, imagePath), fontPath)
}

func (c *Console) Skip(fontPath string) {
	fmt.Fprintf(c.w, "Skip font file: %s\n", c.paint(ansiMagentaBold, fontPath))
}

func (c *Console) Usage() {
	fmt.Fprintln(c.w, "Please enter a font file path")
}
