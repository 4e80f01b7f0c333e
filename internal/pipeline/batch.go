package pipeline

import (
	"context"
	"sync"
)

// BatchItem is the outcome of one request in a batch.
type BatchItem struct {
	Index  int     `json:"index"`
	Name   string  `json:"name,omitempty"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// AnalyzeBatch analyzes reqs on at most workers goroutines and returns one
// item per request in input order. workers <= 0 uses the configured batch
// size. A failed request does not stop the others; once ctx is done the
// remaining requests fail with its error.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []*Request, workers int) []BatchItem {
	items := make([]BatchItem, len(reqs))
	if len(reqs) == 0 {
		return items
	}
	if workers <= 0 {
		workers = a.cfg.BatchWorkers
	}
	workers = max(1, min(workers, len(reqs)))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := BatchItem{Index: i}
				if reqs[i] != nil {
					item.Name = reqs[i].Name
				}
				item.Result, item.Err = a.Analyze(ctx, reqs[i])
				items[i] = item
			}
		}()
	}

	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	a.logger.Debug("batch finished", "requests", len(reqs), "workers", workers)
	return items
}
