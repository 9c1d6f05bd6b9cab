package render

import (
	"fmt"
	"time"

	"github.com/thruflo/cmwatch/internal/build"
)

// Placeholders for missing optional fields.
const (
	NotAvailable = "N/A"
	NotStarted   = "Not started"
)

// Timestamp layouts.
const (
	TableTimeLayout = "2006-01-02 15:04"
	PanelTimeLayout = "2006-01-02 15:04:05"
)

// FormatDuration renders whole minutes and seconds, e.g. 125s as "2m 5s".
// Hours are folded into minutes. A missing or zero duration is N/A.
func FormatDuration(d *time.Duration) string {
	if d == nil || *d <= 0 {
		return NotAvailable
	}
	secs := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// FormatStarted renders a start time in local time, or "Not started".
func FormatStarted(t *time.Time, layout string) string {
	if t == nil {
		return NotStarted
	}
	return t.Local().Format(layout)
}

// ValueOr returns s, or NotAvailable when s is empty.
func ValueOr(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// StatusMarker returns a one-character marker for the status. Unknown
// statuses get a generic marker.
func StatusMarker(s build.Status) string {
	switch s {
	case build.StatusSucceeded:
		return "✓"
	case build.StatusRunning:
		return "▶"
	case build.StatusPending:
		return "…"
	case build.StatusFailed:
		return "✗"
	case build.StatusCanceled:
		return "⊘"
	default:
		return "?"
	}
}

// StatusColor returns the ANSI color for the status, or "" for none.
func StatusColor(s build.Status) string {
	switch s {
	case build.StatusSucceeded:
		return FgGreen
	case build.StatusRunning:
		return FgYellow
	case build.StatusPending:
		return FgBlue
	case build.StatusFailed:
		return FgRed
	case build.StatusCanceled:
		return FgMagenta
	default:
		return ""
	}
}

// FormatArtifact renders "name (size bytes)".
func FormatArtifact(a build.Artifact) string {
	return fmt.Sprintf("%s (%d bytes)", ValueOr(a.Name), a.Size)
}
