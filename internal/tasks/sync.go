package tasks

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/tvx/internal/shared"
)

const (
	defaultSyncWorkers = 2
	maxSyncWorkers     = 4
)

// SyncOpts contains configuration for a page range sync.
type SyncOpts struct {
	From    int // First page, inclusive
	To      int // Last page, inclusive
	Workers int // Concurrent fetchers (default: 2, max: 4)
}

// PageResult is the outcome of fetching one index page.
type PageResult struct {
	Page  int
	Count int
	End   bool // The catalogue reported the page does not exist
	Error error
}

// SyncResult summarises a page range sync.
type SyncResult struct {
	Requested int
	Pages     int          // Pages fetched successfully
	Shows     int          // Shows written to the cache
	EndPage   int          // First missing page, or -1 if the range ended first
	Failed    []PageResult // Pages that failed for reasons other than end of index
	Results   []PageResult // Every page that was dispatched, ordered by page
}

// Sync fetches pages From through To with a worker pool and writes every batch
// to the caches. The first page the catalogue reports as missing ends the
// index: later pages are no longer dispatched.
func (e *CatalogueEngine) Sync(ctx context.Context, prog chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if e.catalogue == nil {
		return nil, fmt.Errorf("%w: catalogue service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.From < 0 || opts.To < opts.From {
		return nil, fmt.Errorf("%w: invalid page range %d-%d", shared.ErrInvalidArgument, opts.From, opts.To)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultSyncWorkers
	}
	if opts.Workers > maxSyncWorkers {
		opts.Workers = maxSyncWorkers
	}

	total := opts.To - opts.From + 1
	result := &SyncResult{Requested: total, EndPage: -1}

	var end atomic.Int64
	end.Store(math.MaxInt64)

	jobs := make(chan int)
	results := make(chan PageResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.syncWorker(ctx, &wg, jobs, results, &end)
	}

	e.sendProgress(prog, syncStartedUpdate(opts.From, opts.To))

	go func() {
		defer close(jobs)
		for page := opts.From; page <= opts.To; page++ {
			if int64(page) > end.Load() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- page:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.End:
		case res.Error != nil:
			result.Failed = append(result.Failed, res)
		default:
			result.Pages++
			result.Shows += res.Count
		}

		e.sendProgress(prog, syncPageUpdate(completed, total, res))
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Page < result.Results[j].Page })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].Page < result.Failed[j].Page })

	if last := end.Load(); last != math.MaxInt64 {
		result.EndPage = int(last)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("sync interrupted: %w", err)
	}
	return result, nil
}

// syncWorker fetches pages from jobs until the channel closes.
func (e *CatalogueEngine) syncWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan int,
	results chan<- PageResult,
	end *atomic.Int64,
) {
	defer wg.Done()

	for page := range jobs {
		if ctx.Err() != nil || int64(page) > end.Load() {
			continue
		}

		shows, err := e.catalogue.ListShows(ctx, page)
		switch {
		case isEndOfIndex(err):
			lowerEnd(end, int64(page))
			results <- PageResult{Page: page, End: true}
		case err != nil:
			results <- PageResult{Page: page, Error: err}
		default:
			e.store(ctx, shows)
			results <- PageResult{Page: page, Count: len(shows)}
		}
	}
}

// lowerEnd records page as the end of the index unless a lower page already is.
func lowerEnd(end *atomic.Int64, page int64) {
	for {
		cur := end.Load()
		if page >= cur || end.CompareAndSwap(cur, page) {
			return
		}
	}
}
