package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printlab/dotforge/internal/report"
	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/obj"
	"github.com/printlab/dotforge/pkg/pattern"
	"github.com/printlab/dotforge/pkg/quality"
	"github.com/printlab/dotforge/pkg/raster"
)

// Progress bands per stage. Mesh generation dominates the work, so it
// gets the widest slice.
const (
	progressPattern = 10
	progressMesh    = 70
	progressAssess  = 85
	progressExport  = 95
)

// Options configures a Coordinator. The zero value is usable: one
// worker, a fresh reporter and a no-op logger.
type Options struct {
	// MaxConcurrent bounds the number of jobs executing at once.
	// Values below 1 mean 1.
	MaxConcurrent int
	// Reporter collects job failures. A fresh one is created when nil.
	Reporter *report.Reporter
	// Logger receives lifecycle events. Defaults to a no-op logger.
	Logger *zap.Logger
	// OnProgress, when set, observes every progress change of every
	// job. It is called from worker goroutines and must be safe for
	// concurrent use.
	OnProgress func(id string, pct int)
}

// Coordinator owns a registry of jobs and a bounded pool of workers.
type Coordinator struct {
	reporter   *report.Reporter
	logger     *zap.Logger
	onProgress func(id string, pct int)
	sem        chan struct{}

	mu     sync.Mutex
	jobs   map[string]*Job
	closed bool

	wg sync.WaitGroup
}

// NewCoordinator builds a coordinator from opts.
func NewCoordinator(opts Options) *Coordinator {
	workers := opts.MaxConcurrent
	if workers < 1 {
		workers = 1
	}
	rep := opts.Reporter
	if rep == nil {
		rep = report.New(report.DefaultCapacity, opts.Logger)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		reporter:   rep,
		logger:     log,
		onProgress: opts.OnProgress,
		sem:        make(chan struct{}, workers),
		jobs:       make(map[string]*Job),
	}
}

// Reporter returns the failure reporter the coordinator writes to.
func (c *Coordinator) Reporter() *report.Reporter {
	return c.reporter
}

// Submit validates req, registers a job for it and starts it in the
// background. When req.ID is empty a random id is assigned; when it
// names a job that has not finished yet, Submit fails with
// ErrJobExists. The returned job is already queued.
func (c *Coordinator) Submit(ctx context.Context, req Request) (*Job, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := newJob(req.ID, req.Kind, cancel, c.onProgress)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	if prev, ok := c.jobs[req.ID]; ok && !prev.Terminal() {
		c.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("%w: %s", ErrJobExists, req.ID)
	}
	c.jobs[req.ID] = job
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(jobCtx, job, req)
	return job, nil
}

// Get returns the job registered under id.
func (c *Coordinator) Get(id string) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[id]
	return job, ok
}

// Cancel asks the job with the given id to stop. It reports whether a
// still-running job was found. The job moves to StatusCanceled once
// its worker observes the cancellation.
func (c *Coordinator) Cancel(id string) bool {
	c.mu.Lock()
	job, ok := c.jobs[id]
	c.mu.Unlock()
	if !ok || job.Terminal() {
		return false
	}
	job.cancel()
	return true
}

// Shutdown rejects new submissions and waits for every outstanding
// job to reach a terminal state.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coordinator) run(ctx context.Context, job *Job, req Request) {
	defer c.wg.Done()
	defer job.cancel()

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		job.finish(nil, ctx.Err())
		return
	}
	defer func() { <-c.sem }()

	job.start()
	c.logger.Info("job started",
		zap.String("job_id", job.ID),
		zap.String("kind", string(job.Kind)))

	res, err := c.execute(ctx, job, req)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		c.reporter.Report(err, report.Context{
			Component: string(job.Kind),
			JobID:     job.ID,
		})
	}
	job.finish(res, err)

	c.logger.Info("job finished",
		zap.String("job_id", job.ID),
		zap.String("status", string(job.Status())),
		zap.Duration("runtime", job.runtime()))
}

func (c *Coordinator) execute(ctx context.Context, job *Job, req Request) (*Result, error) {
	res := &Result{}

	switch req.Kind {
	case KindConvert:
		p, err := makePattern(req)
		if err != nil {
			return nil, err
		}
		res.Pattern = p
		return res, nil

	case KindGenerate:
		res.Pattern = req.Pattern
		return res, c.buildModel(ctx, job, req, res)

	case KindPipeline:
		p, err := makePattern(req)
		if err != nil {
			return nil, err
		}
		job.setProgress(progressPattern)
		res.Pattern = p
		req.Pattern = p
		return res, c.buildModel(ctx, job, req, res)

	case KindAssess:
		rep, err := quality.Assess(req.Mesh, req.Quality)
		if err != nil {
			return nil, err
		}
		res.Mesh = req.Mesh
		res.Stats = req.Mesh.Stats()
		res.Report = rep
		return res, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
}

// buildModel runs mesh generation and the optional assessment and
// export stages, advancing job progress through the stage bands.
func (c *Coordinator) buildModel(ctx context.Context, job *Job, req Request, res *Result) error {
	m, err := mesh.GenerateContext(ctx, req.Pattern, req.Model, func(pct int) {
		job.setProgress(progressPattern + pct*(progressMesh-progressPattern)/100)
	})
	if err != nil {
		return err
	}
	res.Mesh = m
	res.Stats = m.Stats()
	job.setProgress(progressMesh)

	if req.AssessQuality {
		rep, err := quality.Assess(m, req.Quality)
		if err != nil {
			// A model that cannot be scored is still a model.
			c.reporter.Report(err, report.Context{
				Component: "quality",
				JobID:     job.ID,
			})
			c.logger.Warn("quality assessment failed",
				zap.String("job_id", job.ID),
				zap.Error(err))
		} else {
			res.Report = rep
		}
		job.setProgress(progressAssess)
	}

	if req.ExportOBJ && !m.IsEmpty() {
		data, err := obj.Marshal(m)
		if err != nil {
			return err
		}
		res.OBJ = data
		job.setProgress(progressExport)
	}
	return nil
}

func makePattern(req Request) (*pattern.Pattern, error) {
	switch {
	case req.Pattern != nil:
		return req.Pattern, nil
	case req.Image != nil:
		return raster.Convert(req.Image, req.Conversion)
	default:
		return pattern.ParseCSV(req.CSV)
	}
}
