package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/thruflo/cmwatch/internal/build"
)

// MonitorView renders a single build being monitored. On a terminal the
// panel is redrawn in place; otherwise each poll appends one summary line.
type MonitorView struct {
	c   *Console
	now func() time.Time
}

// Monitor returns the view used by the monitor command.
func (c *Console) Monitor() *MonitorView {
	return &MonitorView{c: c, now: time.Now}
}

// MonitorPanel returns the panel lines for s.
func (v *MonitorView) MonitorPanel(s *build.Snapshot) []string {
	t := v.c.term
	label := func(name string) string {
		return t.Style(name+":", Bold)
	}
	status := t.Style(ValueOr(s.DisplayStatus()), StatusColor(s.Status))

	content := []string{
		fmt.Sprintf("%s %s", label("Build ID"), ValueOr(s.ID)),
		fmt.Sprintf("%s %s %s", label("Status"), StatusMarker(s.Status), status),
		fmt.Sprintf("%s %s", label("Workflow"), ValueOr(s.Workflow)),
		fmt.Sprintf("%s %s", label("Branch"), ValueOr(s.Branch)),
		fmt.Sprintf("%s %s", label("Started"), FormatStarted(s.StartedAt, PanelTimeLayout)),
	}
	if s.FinishedAt != nil {
		content = append(content, fmt.Sprintf("%s %s", label("Finished"), s.FinishedAt.Local().Format(PanelTimeLayout)))
	}
	content = append(content, fmt.Sprintf("%s %s", label("Duration"), FormatDuration(s.Duration)))
	if s.Message != "" {
		content = append(content, "", fmt.Sprintf("%s %s", label("Message"), s.Message))
	}

	width := t.Width()
	if width > 72 {
		width = 72
	}
	return Panel(width, "Build Monitor - "+ValueOr(s.Workflow), content)
}

// Snapshot redraws the panel, or appends a status line off a terminal.
func (v *MonitorView) Snapshot(s *build.Snapshot) {
	t := v.c.term
	if !t.IsTerminal() {
		t.Writef("[%s] %s %s %s (%s)\n",
			v.now().Format("15:04:05"),
			ValueOr(s.ID),
			StatusMarker(s.Status),
			ValueOr(s.DisplayStatus()),
			FormatDuration(s.Duration))
		return
	}
	t.Clear()
	t.WriteLines(v.MonitorPanel(s))
}

// Final reports the outcome of a terminal build, including artifacts.
func (v *MonitorView) Final(s *build.Snapshot) {
	t := v.c.term
	t.WriteLine("")

	var title string
	switch s.Status {
	case build.StatusSucceeded:
		title = "Build completed successfully!"
		t.WriteLine(t.Style(StatusMarker(s.Status)+" "+title, FgGreen))
		if len(s.Artifacts) > 0 {
			t.WriteLine("")
			t.WriteLine(t.Style("Artifacts:", Bold))
			for _, a := range s.Artifacts {
				t.WriteLine("  - " + FormatArtifact(a))
			}
		}
	case build.StatusFailed:
		title = "Build failed!"
		t.WriteLine(t.Style(StatusMarker(s.Status)+" "+title, FgRed))
	case build.StatusCanceled:
		title = "Build canceled!"
		t.WriteLine(t.Style(StatusMarker(s.Status)+" "+title, FgMagenta))
	default:
		return
	}

	if err := v.c.notifier.Notify("cmwatch: "+title, fmt.Sprintf("Build %s (%s)", s.ID, ValueOr(s.Workflow))); err != nil {
		v.c.logger.Warn("Failed to send notification", "error", err)
	}
}

// Failure reports that a fetch failed and monitoring ended.
func (v *MonitorView) Failure(err error) {
	v.c.Error(failureLine("build details", err))
}

// Stopped reports an operator interrupt.
func (v *MonitorView) Stopped() {
	t := v.c.term
	t.WriteLine("")
	t.WriteLine(t.Style("Stopped monitoring build", FgYellow))
}

// failureLine renders "Error fetching <what>: <status>" for API errors and
// the full error otherwise.
func failureLine(what string, err error) string {
	var apiErr *build.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Error fetching %s: %d", what, apiErr.StatusCode)
	}
	return fmt.Sprintf("Error fetching %s: %v", what, err)
}
