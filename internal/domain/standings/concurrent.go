package standings

import (
	"context"
	"sync"

	"github.com/okian/standings/internal/domain/model"
)

// partial is the result of one match played on an empty table.
type partial struct {
	table  *model.Table
	awards []Award
	err    error
	done   bool
}

// AggregateConcurrent plays matches on a pool of workers, each on its own
// empty table, and merges the partial tables in match order. The result
// equals Aggregate. When the configuration is not decomposable, or there
// is nothing to parallelize, it runs sequentially.
func (a *Aggregator) AggregateConcurrent(ctx context.Context, matches []model.Match, rules []model.Rule, workers int) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.Decomposable() || workers < 2 || len(matches) < 2 {
		return a.Aggregate(matches, rules)
	}
	if workers > len(matches) {
		workers = len(matches)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]partial, len(matches))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.playAlone(&matches[i], rules)
				if results[i].err != nil {
					cancel()
				}
			}
		}()
	}

feed:
	for i := range matches {
		select {
		case jobs <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	// Every index below a failing one was fed, so the first error in match
	// order is the one a sequential run reports.
	for i := range results {
		if results[i].err != nil {
			return nil, results[i].err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := model.NewTable()
	for i := range results {
		if !results[i].done {
			continue
		}
		table.Merge(results[i].table)
		a.emit(results[i].awards)
	}
	return table, nil
}

func (a *Aggregator) playAlone(m *model.Match, rules []model.Rule) partial {
	table := model.NewTable()
	run, err := a.playMatch(table, m, rules)
	if err != nil {
		return partial{err: err}
	}
	run.commit(table)
	return partial{table: table, awards: run.awards, done: true}
}
