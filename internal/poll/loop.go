package poll

import (
	"context"
	"errors"
	"time"
)

// SleepFunc waits for d, returning early with ctx.Err() if ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc, backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Step performs one iteration. It returns done=true when polling should end.
type Step func(ctx context.Context) (done bool, err error)

// Loop runs a Step at a fixed interval.
type Loop struct {
	Interval time.Duration
	// Sleep defaults to poll.Sleep.
	Sleep SleepFunc
}

// Run calls step until it reports done or fails, sleeping Interval between
// calls. Cancellation is checked before every step and during the sleep; when
// ctx ends, Run returns ctx.Err() even if the step's own error was caused by
// the cancellation.
func (l *Loop) Run(ctx context.Context, step Step) error {
	sleep := l.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := step(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if done {
			return nil
		}

		if err := sleep(ctx, l.Interval); err != nil {
			return err
		}
	}
}

// Stopped reports whether err means the loop was interrupted rather than
// failed. Request timeouts are failures, so only cancellation counts.
func Stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
