package evaluation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
)

// A Job builds one private model to evaluate.
type Job struct {
	Name  string
	Build func() (*model.Model, error)
}

// build calls Build and turns a panic into an error.
func (j Job) build() (m *model.Model, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if ae, ok := sim.AsRuntimeAssertion(r); ok {
			err = ae
			return
		}

		err = fmt.Errorf("panic: %v", r)
	}()

	return j.Build()
}

// RunBatch evaluates jobs with at most limit of them running at the same
// time. A limit of zero or less runs all jobs at once. Results are in job
// order.
//
// A job that fails to build aborts the batch, since the error is in the
// setup rather than in the candidate. A build that panics counts as a failed
// build. Failing runs do not abort the batch. A stop request made before
// the batch starts is dropped.
func (e *Evaluator) RunBatch(
	ctx context.Context,
	jobs []Job,
	opts Options,
	limit int,
) ([]Result, error) {
	e.ClearStop()

	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			m, err := job.build()
			if err != nil {
				return fmt.Errorf("building job %d (%s): %w", i, job.Name, err)
			}

			results[i] = e.Run(gctx, m, opts)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}
