package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Job tracks one submitted request. All methods are safe for
// concurrent use.
type Job struct {
	ID   string
	Kind Kind

	progress   atomic.Int32
	onProgress func(id string, pct int)

	mu      sync.Mutex
	status  Status
	result  *Result
	err     error
	started time.Time

	done   chan struct{}
	cancel context.CancelFunc
}

func newJob(id string, kind Kind, cancel context.CancelFunc, onProgress func(string, int)) *Job {
	return &Job{
		ID:         id,
		Kind:       kind,
		onProgress: onProgress,
		status:     StatusQueued,
		done:       make(chan struct{}),
		cancel:     cancel,
	}
}

// Status returns the current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Progress returns the completion percentage, 0 to 100. It only ever
// increases, and reaches 100 exactly when the job completes.
func (j *Job) Progress() int {
	return int(j.progress.Load())
}

// Err returns the terminal error, or nil while the job is still
// running or when it completed.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Result returns the job output once complete, nil otherwise.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Terminal reports whether the job has finished, failed or been
// canceled.
func (j *Job) Terminal() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the job reaches a terminal state or ctx expires.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.done:
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.result, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// setProgress raises the progress value. Decreases are ignored so the
// reported percentage is monotonic.
func (j *Job) setProgress(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if int32(pct) <= j.progress.Load() {
		return
	}
	j.progress.Store(int32(pct))
	if j.onProgress != nil {
		j.onProgress(j.ID, pct)
	}
}

func (j *Job) start() {
	j.mu.Lock()
	j.status = StatusRunning
	j.started = time.Now()
	j.mu.Unlock()
}

// finish moves the job to its terminal state exactly once. Later
// calls are ignored.
func (j *Job) finish(res *Result, err error) {
	j.mu.Lock()
	select {
	case <-j.done:
		j.mu.Unlock()
		return
	default:
	}
	switch {
	case err == nil:
		j.status = StatusComplete
		j.result = res
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		j.status = StatusCanceled
		j.err = err
	default:
		j.status = StatusFailed
		j.err = err
	}
	j.mu.Unlock()
	if err == nil {
		j.setProgress(100)
	}
	close(j.done)
}

func (j *Job) runtime() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started.IsZero() {
		return 0
	}
	return time.Since(j.started)
}
