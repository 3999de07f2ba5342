package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPoller(attempts uint64) Poller {
	return Poller{Interval: time.Millisecond, MaxAttempts: attempts}
}

func TestWaitCompletes(t *testing.T) {
	calls := 0
	res := fastPoller(10).Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	if res.Status != Completed {
		t.Fatalf("status = %v, want completed (err: %v)", res.Status, res.Err)
	}
	if calls != 3 {
		t.Errorf("check called %d times, want 3", calls)
	}
}

func TestWaitTimesOut(t *testing.T) {
	calls := 0
	res := fastPoller(4).Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	if res.Status != TimedOut {
		t.Fatalf("status = %v, want timed_out", res.Status)
	}
	if res.Err == nil {
		t.Error("timed-out result should carry an error")
	}
	if calls != 4 {
		t.Errorf("check called %d times, want 4", calls)
	}
}

func TestWaitPermanentFailure(t *testing.T) {
	boom := errors.New("operation exploded")
	calls := 0
	res := fastPoller(10).Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	})
	if res.Status != Failed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("err = %v, want %v", res.Err, boom)
	}
	if calls != 1 {
		t.Errorf("check called %d times, want 1 (no retry on hard failure)", calls)
	}
}

func TestWaitContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := fastPoller(100).Wait(ctx, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	if res.Status != Failed {
		t.Fatalf("status = %v, want failed on cancellation", res.Status)
	}
}

func TestStatusString(t *testing.T) {
	if Completed.String() != "completed" || TimedOut.String() != "timed_out" || Failed.String() != "failed" {
		t.Error("status strings wrong")
	}
}
