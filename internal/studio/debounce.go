package studio

import (
	"fmt"
	"sync"
	"time"
)

// RenderJob identifies the coalesced state a debounced render should
// draw. Revision is the session revision at the time of the last edit;
// consumers drop the job if the session has moved past it.
type RenderJob struct {
	SessionID string
	Side      SideKey
	Revision  uint64
}

type DebouncerOptions struct {
	Quiet   time.Duration
	OnFlush func(RenderJob)
}

// Debouncer coalesces bursts of edits to one side of a session into a
// single render job, fired after a quiet period.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	onFlush func(RenderJob)
	pending map[string]*pendingJob
}

type pendingJob struct {
	job   RenderJob
	timer *time.Timer
}

func NewDebouncer(opts DebouncerOptions) *Debouncer {
	quiet := opts.Quiet
	if quiet <= 0 {
		quiet = 200 * time.Millisecond
	}

	return &Debouncer{
		quiet:   quiet,
		onFlush: opts.OnFlush,
		pending: make(map[string]*pendingJob),
	}
}

// Touch records an edit. The pending job for that session side is
// replaced with the newer revision and its quiet timer restarts.
func (d *Debouncer) Touch(sessionID string, side SideKey, revision uint64) {
	if sessionID == "" {
		return
	}

	key := makeKey(sessionID, side)

	d.mu.Lock()
	defer d.mu.Unlock()

	pj, ok := d.pending[key]
	if !ok {
		pj = &pendingJob{job: RenderJob{SessionID: sessionID, Side: side}}
		d.pending[key] = pj
	}
	if revision > pj.job.Revision {
		pj.job.Revision = revision
	}

	if pj.timer != nil {
		pj.timer.Stop()
	}
	pj.timer = time.AfterFunc(d.quiet, func() {
		d.flush(key)
	})
}

func (d *Debouncer) flush(key string) {
	d.mu.Lock()
	pj, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	job := pj.job
	onFlush := d.onFlush
	d.mu.Unlock()

	if onFlush != nil {
		onFlush(job)
	}
}

func makeKey(sessionID string, side SideKey) string {
	return fmt.Sprintf("%s:%s", sessionID, side)
}
