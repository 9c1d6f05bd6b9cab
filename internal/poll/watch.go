package poll

import (
	"context"
	"time"

	"github.com/thruflo/cmwatch/internal/build"
	"github.com/thruflo/cmwatch/internal/logging"
)

// BuildLister lists the most recent builds, newest first.
type BuildLister interface {
	ListBuilds(ctx context.Context, limit int) ([]build.Snapshot, error)
}

// WatchRenderer displays the watch view.
type WatchRenderer interface {
	// Watching announces the refresh interval before the first cycle.
	Watching(interval time.Duration)
	// Builds redraws the build table.
	Builds(builds []build.Snapshot, updated time.Time)
	// NewBuild announces a build that appeared at the head of the list.
	NewBuild(s *build.Snapshot)
	// Failure reports a failed fetch.
	Failure(err error)
	// Stopped reports that the operator interrupted watching.
	Stopped()
}

// Watcher lists recent builds at a fixed interval and announces new ones.
type Watcher struct {
	Lister   BuildLister
	Renderer WatchRenderer
	Interval time.Duration
	Limit    int
	Sleep    SleepFunc
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *logging.Logger

	lastID string
	seen   bool
}

// Run watches until the context is canceled. A failed list is reported and
// that cycle is skipped; the last seen build is kept and the next cycle runs
// after the usual interval. Cancellation is reported through the renderer
// and returned as ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	w.Renderer.Watching(w.Interval)

	loop := Loop{Interval: w.Interval, Sleep: w.Sleep}
	err := loop.Run(ctx, func(ctx context.Context) (bool, error) {
		err := w.Cycle(ctx)
		if err == nil || ctx.Err() != nil {
			return false, err
		}
		w.logger().Warn("Listing builds failed, skipping cycle", "error", err)
		w.Renderer.Failure(err)
		return false, nil
	})

	if Stopped(err) {
		w.Renderer.Stopped()
	} else if err != nil {
		w.Renderer.Failure(err)
	}
	return err
}

// Cycle performs one watch iteration: list, render, and announce the newest
// build if it differs from the newest build of the previous cycle. The
// first cycle never announces.
func (w *Watcher) Cycle(ctx context.Context) error {
	builds, err := w.Lister.ListBuilds(ctx, w.Limit)
	if err != nil {
		return err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	w.Renderer.Builds(builds, now())

	if len(builds) == 0 {
		return nil
	}

	newest := &builds[0]
	if w.seen && newest.ID != w.lastID {
		w.logger().Debug("New build detected", "build_id", newest.ID, "previous", w.lastID)
		w.Renderer.NewBuild(newest)
	}
	w.lastID = newest.ID
	w.seen = true
	return nil
}

// LastSeen returns the newest build ID seen by the previous cycle.
func (w *Watcher) LastSeen() string {
	return w.lastID
}

func (w *Watcher) logger() *logging.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return logging.Default()
}
