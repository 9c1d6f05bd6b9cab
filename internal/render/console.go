// Package render draws builds to the terminal: tables for lists, a live
// panel for a monitored build, and the raw details view.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thruflo/cmwatch/internal/build"
	"github.com/thruflo/cmwatch/internal/logging"
)

// Console renders builds to a Terminal.
type Console struct {
	term     *Terminal
	notifier *Notifier
	logger   *logging.Logger
}

// NewConsole creates a Console writing to t. Desktop notifications are off
// until EnableDesktopNotifications is called.
func NewConsole(t *Terminal) *Console {
	return &Console{
		term:     t,
		notifier: NewNotifier(t, false),
		logger:   logging.Default(),
	}
}

// EnableDesktopNotifications turns on OS notifications for new builds and
// finished monitors.
func (c *Console) EnableDesktopNotifications() {
	c.notifier.desktop = true
}

// Terminal returns the underlying terminal.
func (c *Console) Terminal() *Terminal {
	return c.term
}

// tableColumns are the headers of the build table.
var tableColumns = []string{"Status", "Workflow", "Branch", "Started", "Duration", "Build ID"}

// BuildTable renders builds as an aligned table titled "Recent Builds".
func (c *Console) BuildTable(builds []build.Snapshot) []string {
	rows := make([][]string, len(builds))
	for i, b := range builds {
		rows[i] = []string{
			StatusMarker(b.Status) + " " + ValueOr(b.DisplayStatus()),
			ValueOr(b.Workflow),
			ValueOr(b.Branch),
			FormatStarted(b.StartedAt, TableTimeLayout),
			FormatDuration(b.Duration),
			ValueOr(b.ID),
		}
	}

	widths := make([]int, len(tableColumns))
	for i, col := range tableColumns {
		widths[i] = VisibleWidth(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := VisibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := []string{c.term.Style("Recent Builds", Bold), ""}

	header := make([]string, len(tableColumns))
	rule := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		header[i] = c.term.Style(PadRight(col, widths[i]), Bold)
		rule[i] = strings.Repeat("-", widths[i])
	}
	lines = append(lines, strings.TrimRight(strings.Join(header, "  "), " "))
	lines = append(lines, strings.Join(rule, "  "))

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = PadRight(cell, widths[j])
		}
		cells[0] = c.term.Style(cells[0], StatusColor(builds[i].Status))
		cells[5] = c.term.Style(cells[5], Dim)
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	return lines
}

// PrintBuilds writes the build table, or a notice when there are none.
func (c *Console) PrintBuilds(builds []build.Snapshot) {
	if len(builds) == 0 {
		c.term.WriteLine("No builds found.")
		return
	}
	c.term.WriteLines(c.BuildTable(builds))
}

// Details writes the raw build document, indented, inside a panel. Lines
// wider than the panel are wrapped so no value is lost.
func (c *Console) Details(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format build details: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	width := c.term.Width()
	if w := longestLine(lines) + 4; w < width {
		width = w
	}
	if width < 20 {
		width = 20
	}

	content := make([]string, 0, len(lines))
	for _, line := range lines {
		content = append(content, Wrap(line, width-4)...)
	}
	c.term.WriteLines(Panel(width, "Build Details", content))
	return nil
}

// Error writes a styled error line.
func (c *Console) Error(msg string) {
	c.term.WriteLine(c.term.Style(msg, FgRed))
}

func longestLine(lines []string) int {
	longest := 0
	for _, line := range lines {
		if w := VisibleWidth(line); w > longest {
			longest = w
		}
	}
	return longest
}
