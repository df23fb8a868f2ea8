package breakeven

import (
	"context"
	"errors"
	"sync"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SolveAll runs several searches concurrently. Searches without a crossing in their range
// are reported in Failed rather than aborting the others; cancellation aborts everything.
func (s *Solver) SolveAll(ctx context.Context, base *domain.SimulationConfig, requests []Request) (*MultiResult, error) {
	if len(requests) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   "no break-even requests given",
		}
	}

	slots := make([]*Result, len(requests))
	failed := map[string]string{}
	var mu sync.Mutex

	limit := s.Options.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range requests {
		g.Go(func() error {
			result, err := s.Solve(gctx, base, req)
			if err != nil {
				var be *BreakEvenError
				if errors.As(err, &be) {
					mu.Lock()
					failed[req.Name] = err.Error()
					mu.Unlock()
					return nil
				}
				return err
			}
			slots[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	multi := &MultiResult{}
	for _, r := range slots {
		if r != nil {
			multi.Results = append(multi.Results, *r)
		}
	}
	if len(failed) > 0 {
		multi.Failed = failed
	}

	if len(multi.Results) == 0 {
		return multi, &BreakEvenError{
			Operation: "solve_all",
			Message:   "no break-even found for any request",
		}
	}
	return multi, nil
}
