package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI escape sequences
const (
	ClearScreen = "\033[2J"
	CursorHome  = "\033[H"

	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	FgRed     = "\033[31m"
	FgGreen   = "\033[32m"
	FgYellow  = "\033[33m"
	FgBlue    = "\033[34m"
	FgMagenta = "\033[35m"
	FgCyan    = "\033[36m"

	Bell = "\a"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Terminal wraps an output stream and knows whether it is an interactive
// terminal. Styling is suppressed when it is not.
type Terminal struct {
	out   io.Writer
	fd    int
	isTTY bool
	color bool
}

// NewTerminal creates a Terminal for out. Color is enabled only when out is
// a terminal and NO_COLOR is unset.
func NewTerminal(out io.Writer) *Terminal {
	t := &Terminal{out: out, fd: -1}
	if f, ok := out.(*os.File); ok {
		t.fd = int(f.Fd())
		t.isTTY = term.IsTerminal(t.fd)
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	t.color = t.isTTY && !noColor
	return t
}

// IsTerminal reports whether the output is an interactive terminal.
func (t *Terminal) IsTerminal() bool {
	return t.isTTY
}

// SetColor enables or disables ANSI styling.
func (t *Terminal) SetColor(enabled bool) {
	t.color = enabled
}

// Width returns the terminal width, or DefaultWidth if it can't be determined.
func (t *Terminal) Width() int {
	if !t.isTTY {
		return DefaultWidth
	}
	width, _, err := term.GetSize(t.fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// Style wraps s in the given ANSI codes when color is enabled.
func (t *Terminal) Style(s string, codes ...string) string {
	if !t.color || len(codes) == 0 || s == "" {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Clear clears the screen and moves the cursor home. No-op off a terminal.
func (t *Terminal) Clear() {
	if t.isTTY {
		fmt.Fprint(t.out, ClearScreen+CursorHome)
	}
}

// RingBell sounds the terminal bell.
func (t *Terminal) RingBell() {
	fmt.Fprint(t.out, Bell)
}

// WriteLine writes s followed by a newline.
func (t *Terminal) WriteLine(s string) {
	fmt.Fprintln(t.out, s)
}

// WriteLines writes each line followed by a newline.
func (t *Terminal) WriteLines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(t.out, line)
	}
}

// Writef writes a formatted string.
func (t *Terminal) Writef(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}
