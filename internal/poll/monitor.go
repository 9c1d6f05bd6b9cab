package poll

import (
	"context"
	"time"

	"github.com/thruflo/cmwatch/internal/build"
	"github.com/thruflo/cmwatch/internal/logging"
)

// BuildSource fetches the current snapshot of one build.
type BuildSource interface {
	GetBuild(ctx context.Context, id string) (*build.Snapshot, error)
}

// MonitorRenderer displays the progress of a monitored build.
type MonitorRenderer interface {
	// Snapshot redraws the live view with the latest snapshot.
	Snapshot(s *build.Snapshot)
	// Final reports the outcome once a terminal status is reached.
	Final(s *build.Snapshot)
	// Failure reports a failed fetch.
	Failure(err error)
	// Stopped reports that the operator interrupted monitoring.
	Stopped()
}

// Monitor follows one build until it reaches a terminal status.
type Monitor struct {
	Source   BuildSource
	Renderer MonitorRenderer
	Interval time.Duration
	Sleep    SleepFunc
	Logger   *logging.Logger
}

// Run polls the build with the given ID. It returns the terminal snapshot on
// success. A failed fetch is reported and returned with a nil snapshot. On
// cancellation the last snapshot seen is returned together with ctx.Err().
func (m *Monitor) Run(ctx context.Context, id string) (*build.Snapshot, error) {
	logger := m.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("build_id", id)

	loop := Loop{Interval: m.Interval, Sleep: m.Sleep}

	var last *build.Snapshot
	polls := 0
	err := loop.Run(ctx, func(ctx context.Context) (bool, error) {
		polls++
		snap, err := m.Source.GetBuild(ctx, id)
		if err != nil {
			return false, err
		}
		last = snap
		m.Renderer.Snapshot(snap)
		logger.Debug("Polled build", "poll", polls, "status", snap.DisplayStatus())
		return snap.Terminal(), nil
	})

	switch {
	case err == nil:
		m.Renderer.Final(last)
		return last, nil
	case Stopped(err):
		m.Renderer.Stopped()
		return last, err
	default:
		logger.Debug("Monitoring failed", "poll", polls, "error", err)
		m.Renderer.Failure(err)
		return nil, err
	}
}
