package optimizer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// Job is one independent weight search, e.g. one per bar timeframe.
type Job struct {
	Name      string
	Objective Objective
	Bounds    types.Bounds
	Options   Options
}

// JobResult is the outcome of a Job. Err holds the job's own failure.
type JobResult struct {
	Name   string
	Result types.WeightSearchResult
	Err    error
}

// RunParallel runs jobs concurrently, at most limit at a time (unbounded when limit <= 0).
// Jobs never share a proposer. The returned slice keeps the order of jobs; the error is
// the context error when ctx ended before every job finished.
func RunParallel(ctx context.Context, jobs []Job, limit int) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))

	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			options := job.Options
			if options.Name == "" {
				options.Name = job.Name
			}

			result, err := Optimize(ctx, job.Objective, job.Bounds, options)
			results[i] = JobResult{Name: job.Name, Result: result, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results, ctx.Err()
}

// ProfileJobName names the search job of a weight profile.
func ProfileJobName(profile string) string {
	return "weights-" + profile
}
