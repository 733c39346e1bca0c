package sim

import (
	"context"
	"fmt"

	"github.com/MaybeImHere/ElectricParticles1/internal/physics"
	"golang.org/x/sync/errgroup"
)

// RunSpec is one independent run of a Batch.
type RunSpec struct {
	Seed     int64
	Ensemble *physics.Ensemble
}

// Batch runs independent simulations concurrently, one ensemble per run.
// Every run gets its own Simulator built by factory, so steppers and metrics
// are never shared across goroutines.
type Batch struct {
	factory func() *Simulator
	limit   int
}

// NewBatch returns a batch that builds one Simulator per run with factory and
// runs at most limit of them at once (limit <= 0 means unbounded).
func NewBatch(factory func() *Simulator, limit int) *Batch {
	return &Batch{factory: factory, limit: limit}
}

// Run executes every run and returns results in the same order. The first
// error cancels the remaining runs.
func (b *Batch) Run(ctx context.Context, runs []RunSpec, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(runs))

	g, ctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}

	for i, rs := range runs {
		i, rs := i, rs
		g.Go(func() error {
			res, err := b.factory().Run(ctx, rs.Ensemble, cfg)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, rs.Seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
