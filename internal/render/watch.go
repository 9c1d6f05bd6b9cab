package render

import (
	"fmt"
	"time"

	"github.com/thruflo/cmwatch/internal/build"
)

// WatchView renders the watch command: a table refreshed every cycle and a
// notice whenever a new build shows up.
type WatchView struct {
	c *Console
}

// Watch returns the view used by the watch command.
func (c *Console) Watch() *WatchView {
	return &WatchView{c: c}
}

// Watching announces the refresh interval.
func (v *WatchView) Watching(interval time.Duration) {
	t := v.c.term
	t.WriteLine(t.Style(fmt.Sprintf("Watching for builds (refresh every %s)...", interval), FgGreen))
	t.WriteLine("Press Ctrl+C to stop")
	t.WriteLine("")
}

// Builds clears the screen and redraws the table with an update timestamp.
func (v *WatchView) Builds(builds []build.Snapshot, updated time.Time) {
	t := v.c.term
	t.Clear()
	t.WriteLine(t.Style("Last updated: "+updated.Format(PanelTimeLayout), Dim))
	t.WriteLine("")
	v.c.PrintBuilds(builds)
}

// NewBuild announces a new build and rings the bell.
func (v *WatchView) NewBuild(s *build.Snapshot) {
	t := v.c.term
	t.WriteLine("")
	t.WriteLine(t.Style("New build detected: "+s.ID, FgYellow, Bold))

	message := fmt.Sprintf("%s on %s", ValueOr(s.Workflow), ValueOr(s.Branch))
	if err := v.c.notifier.Notify("cmwatch: New build", message); err != nil {
		v.c.logger.Warn("Failed to send notification", "error", err)
	}
}

// Failure reports that listing builds failed and watching ended.
func (v *WatchView) Failure(err error) {
	v.c.Error(failureLine("builds", err))
}

// Stopped reports an operator interrupt.
func (v *WatchView) Stopped() {
	t := v.c.term
	t.WriteLine("")
	t.WriteLine(t.Style("Stopped watching builds", FgYellow))
}
