package render

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rounded box drawing characters
const (
	BoxTopLeft     = "╭"
	BoxTopRight    = "╮"
	BoxBottomLeft  = "╰"
	BoxBottomRight = "╯"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// VisibleWidth returns the rune count of s ignoring ANSI escape sequences.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(ansiPattern.ReplaceAllString(s, ""))
}

// Panel draws a rounded box of the given total width around content, with
// title set into the top border. Lines wider than the box are truncated;
// lines containing ANSI styling are only padded, never cut.
func Panel(width int, title string, content []string) []string {
	if width < 8 {
		width = 8
	}
	inner := width - 4

	lines := make([]string, 0, len(content)+2)
	lines = append(lines, topBorder(width, title))
	for _, line := range content {
		lines = append(lines, BoxVertical+" "+fit(line, inner)+" "+BoxVertical)
	}
	lines = append(lines, BoxBottomLeft+strings.Repeat(BoxHorizontal, width-2)+BoxBottomRight)
	return lines
}

func topBorder(width int, title string) string {
	if title == "" {
		return BoxTopLeft + strings.Repeat(BoxHorizontal, width-2) + BoxTopRight
	}
	label := " " + Truncate(title, width-6) + " "
	rest := width - 3 - VisibleWidth(label)
	if rest < 0 {
		rest = 0
	}
	return BoxTopLeft + BoxHorizontal + label + strings.Repeat(BoxHorizontal, rest) + BoxTopRight
}

func fit(s string, width int) string {
	visible := VisibleWidth(s)
	if visible == len([]rune(s)) {
		return PadOrTruncate(s, width)
	}
	if visible < width {
		return s + strings.Repeat(" ", width-visible)
	}
	return s
}

// PadOrTruncate pads or truncates a string to exactly width runes.
func PadOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runeLen := utf8.RuneCountInString(s)
	if runeLen == width {
		return s
	}
	if runeLen < width {
		return s + strings.Repeat(" ", width-runeLen)
	}
	return Truncate(s, width)
}

// Truncate truncates a string to max width, adding ellipsis if needed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width >= 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}

// Wrap breaks an unstyled line into pieces at most width runes wide.
// Continuation pieces repeat the line's leading indentation when it leaves
// room for content.
func Wrap(s string, width int) []string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return []string{s}
	}

	indent := []rune(s[:len(s)-len(strings.TrimLeft(s, " "))])
	if len(indent) > width/2 {
		indent = nil
	}

	lines := []string{string(runes[:width])}
	rest := runes[width:]
	step := width - len(indent)
	for len(rest) > 0 {
		n := min(step, len(rest))
		lines = append(lines, string(indent)+string(rest[:n]))
		rest = rest[n:]
	}
	return lines
}

// PadRight pads s with spaces to the given visible width.
func PadRight(s string, width int) string {
	if pad := width - VisibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
