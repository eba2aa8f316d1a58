package factors

import (
	"context"
	"sync"
	"time"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// Result is the outcome of one asset's factor computation.
type Result struct {
	Asset   marketdata.Asset
	Factors domain.FactorSet
	Err     error
}

// Pool fans factor computation out across worker goroutines. Assets are
// independent: no shared mutable state crosses worker boundaries, and one
// slow asset is cut off by its own timeout instead of stalling the run.
type Pool struct {
	service      *Service
	numWorkers   int
	assetTimeout time.Duration
}

// NewPool creates a new factor computation pool
func NewPool(service *Service, numWorkers int, assetTimeout time.Duration) *Pool {
	if numWorkers <= 0 {
		numWorkers = 8
	}
	if assetTimeout <= 0 {
		assetTimeout = 10 * time.Second
	}
	return &Pool{
		service:      service,
		numWorkers:   numWorkers,
		assetTimeout: assetTimeout,
	}
}

// ComputeBatch computes factor sets for all assets in parallel. Results keep
// the input order. A per-asset error (fetch failure, timeout) is recorded on
// that asset's Result and never aborts the batch.
func (p *Pool) ComputeBatch(ctx context.Context, assets []marketdata.Asset, group domain.Group) []Result {
	numAssets := len(assets)
	if numAssets == 0 {
		return []Result{}
	}

	jobs := make(chan jobItem, numAssets)
	results := make(chan indexedResult, numAssets)

	numWorkers := p.numWorkers
	if numAssets < numWorkers {
		numWorkers = numAssets
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, jobs, results, group)
		}()
	}

	for idx, asset := range assets {
		jobs <- jobItem{index: idx, asset: asset}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, numAssets)
	for r := range results {
		out[r.index] = r.result
	}
	return out
}

type jobItem struct {
	index int
	asset marketdata.Asset
}

type indexedResult struct {
	index  int
	result Result
}

func (p *Pool) worker(ctx context.Context, jobs <-chan jobItem, results chan<- indexedResult, group domain.Group) {
	for job := range jobs {
		assetCtx, cancel := context.WithTimeout(ctx, p.assetTimeout)
		factors, err := p.service.Compute(assetCtx, job.asset, group)
		cancel()

		results <- indexedResult{
			index: job.index,
			result: Result{
				Asset:   job.asset,
				Factors: factors,
				Err:     err,
			},
		}
	}
}
