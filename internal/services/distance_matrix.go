package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/platform/obs"
	"install-scheduling-service/internal/ports"
)

// TravelMatrix holds pairwise travel estimates between a set of stops.
// Position 0 is the depot, position i+1 is candidate i. Nil cells mean the
// pair is unreachable (a stop without coordinates); consumers must not
// treat them as zero cost.
type TravelMatrix struct {
	cells [][]*domain.TravelEstimate
}

// At returns the estimate between two positions, or nil when unreachable.
func (m TravelMatrix) At(i, j int) *domain.TravelEstimate {
	if i < 0 || j < 0 || i >= len(m.cells) || j >= len(m.cells) {
		return nil
	}
	return m.cells[i][j]
}

// Size returns the number of positions, including the depot.
func (m TravelMatrix) Size() int { return len(m.cells) }

// MatrixBuilder computes the full pairwise travel matrix for one slot's
// candidate set.
type MatrixBuilder struct {
	Estimator   ports.DistanceEstimator
	Concurrency int
	Log         zerolog.Logger
}

const defaultMatrixConcurrency = 5

// Build computes travel estimates for every pair of points. Only the upper
// triangle is estimated; the lower triangle mirrors it (travel is assumed
// symmetric). External lookups run as a bounded batch of independent tasks
// joined before assembly, so one slow call never serializes the rest.
// A nil point (missing building coordinates) leaves its row and column
// unset.
func (b *MatrixBuilder) Build(ctx context.Context, points []*domain.Coordinates) (_ TravelMatrix, err error) {
	defer obs.Time(b.Log, "matrix.Build")(&err)

	n := len(points)
	cells := make([][]*domain.TravelEstimate, n)
	for i := range cells {
		cells[i] = make([]*domain.TravelEstimate, n)
	}

	limit := b.Concurrency
	if limit <= 0 {
		limit = defaultMatrixConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		if points[i] == nil {
			continue
		}
		cells[i][i] = &domain.TravelEstimate{}

		for j := i + 1; j < n; j++ {
			if points[j] == nil {
				continue
			}
			i, j := i, j
			from, to := *points[i], *points[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				est := b.Estimator.Estimate(gctx, from, to)
				cells[i][j] = &est
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return TravelMatrix{}, err
	}

	// Mirror the upper triangle.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cells[j][i] = cells[i][j]
		}
	}

	return TravelMatrix{cells: cells}, nil
}
