package jobs

import (
	"context"

	"go.uber.org/zap"
)

// BatchItem is the outcome of one request in a batch. Exactly one of
// Result and Err is set once the batch returns.
type BatchItem struct {
	Index  int
	ID     string
	Result *Result
	Err    error
}

// RunBatch submits reqs in chunks of batchSize and waits for each
// chunk before starting the next. Failures stay with their item; the
// rest of the batch runs regardless. Results keep the input order.
// batchSize values below 1 mean 1.
func (c *Coordinator) RunBatch(ctx context.Context, reqs []Request, batchSize int) []BatchItem {
	if batchSize < 1 {
		batchSize = 1
	}
	items := make([]BatchItem, len(reqs))
	for i := range items {
		items[i].Index = i
	}

	for start := 0; start < len(reqs); start += batchSize {
		end := start + batchSize
		if end > len(reqs) {
			end = len(reqs)
		}

		chunk := make([]*Job, end-start)
		for i := start; i < end; i++ {
			job, err := c.Submit(ctx, reqs[i])
			if err != nil {
				items[i].Err = err
				c.logger.Warn("batch item rejected",
					zap.Int("index", i),
					zap.Error(err))
				continue
			}
			items[i].ID = job.ID
			chunk[i-start] = job
		}

		for k, job := range chunk {
			if job == nil {
				continue
			}
			res, err := job.Wait(ctx)
			items[start+k].Result = res
			items[start+k].Err = err
		}
	}
	return items
}
