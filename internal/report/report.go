// Package report collects errors raised by background work so callers
// can inspect recent failures without scraping logs. A Reporter is an
// injected collaborator, not process-wide state; each coordinator owns
// its own instance.
package report

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity is the ring size used when New receives a
// non-positive capacity.
const DefaultCapacity = 64

// Context tags an error with where it happened.
type Context struct {
	Component string
	JobID     string
	Detail    string
}

// Entry is one recorded error.
type Entry struct {
	Err  error
	Ctx  Context
	Time time.Time
}

// Reporter keeps the most recent errors in a fixed-capacity ring.
// It is safe for concurrent use. Construct with New; the zero value
// has no storage.
type Reporter struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	size    int
	logger  *zap.Logger
}

// New returns a Reporter holding at most capacity entries. A nil
// logger disables logging.
func New(capacity int, logger *zap.Logger) *Reporter {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		entries: make([]Entry, capacity),
		logger:  logger,
	}
}

// Report records err with its context and logs it. Nil errors are
// ignored. Once the ring is full the oldest entry is dropped.
func (r *Reporter) Report(err error, ctx Context) {
	if err == nil {
		return
	}
	r.logger.Error("reported error",
		zap.String("component", ctx.Component),
		zap.String("job_id", ctx.JobID),
		zap.String("detail", ctx.Detail),
		zap.Error(err),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = Entry{Err: err, Ctx: ctx, Time: time.Now()}
	r.next = (r.next + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
}

// Recent returns up to n recorded errors, newest first. n below 1 or
// above the stored count returns everything held.
func (r *Reporter) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 || n > r.size {
		n = r.size
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := (r.next - 1 - i + len(r.entries)) % len(r.entries)
		out = append(out, r.entries[idx])
	}
	return out
}

// CountByComponent tallies the held errors per component.
func (r *Reporter) CountByComponent() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for i := 0; i < r.size; i++ {
		idx := (r.next - 1 - i + len(r.entries)) % len(r.entries)
		counts[r.entries[idx].Ctx.Component]++
	}
	return counts
}

// Len returns the number of errors currently held.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Clear drops every held error.
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = 0
	r.size = 0
}
