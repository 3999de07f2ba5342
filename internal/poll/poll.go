// Package poll waits on remote long-running operations with a bounded,
// fixed-interval retry policy instead of an open-ended sleep loop.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Status int

const (
	Completed Status = iota
	TimedOut
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed_out"
	default:
		return "failed"
	}
}

// Result is the typed outcome of a wait: the operation completed, the
// attempt budget ran out, or the operation itself failed.
type Result struct {
	Status Status
	Err    error
}

// CheckFunc reports whether the remote operation has finished. A returned
// error is treated as permanent and stops the wait.
type CheckFunc func(ctx context.Context) (done bool, err error)

type Poller struct {
	Interval    time.Duration
	MaxAttempts uint64
}

var errNotDone = errors.New("operation not complete")

// Wait polls check at a fixed interval until it reports done, fails, the
// attempt budget is exhausted, or the context ends.
func (p Poller) Wait(ctx context.Context, check CheckFunc) Result {
	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 60
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts-1),
		ctx,
	)

	err := backoff.Retry(func() error {
		done, checkErr := check(ctx)
		if checkErr != nil {
			return backoff.Permanent(checkErr)
		}
		if !done {
			return errNotDone
		}
		return nil
	}, policy)

	switch {
	case err == nil:
		return Result{Status: Completed}
	case errors.Is(err, errNotDone):
		return Result{Status: TimedOut, Err: fmt.Errorf("gave up after %d attempts", attempts)}
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return Result{Status: Failed, Err: err}
	default:
		return Result{Status: Failed, Err: err}
	}
}
