package optimizer

import (
	"math/rand"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Proposer is a sequential black-box search strategy. Optimize alternates Propose and
// Observe, so an implementation may base every proposal on all previous observations.
type Proposer interface {
	// Propose returns the next weight vector to evaluate.
	Propose() (types.WeightVector, error)
	// Observe records the score obtained by weights.
	Observe(weights types.WeightVector, score float64) error
}

// RandomSearch proposes uniformly random weight vectors within bounds.
type RandomSearch struct {
	space space
	rng   *rand.Rand
}

// NewRandomSearch creates a random search over bounds.
func NewRandomSearch(bounds types.Bounds, seed int64) (*RandomSearch, error) {
	s, err := newSpace(bounds)
	if err != nil {
		return nil, err
	}

	return &RandomSearch{space: s, rng: rand.New(rand.NewSource(seed))}, nil
}

// Propose implements Proposer.
func (r *RandomSearch) Propose() (types.WeightVector, error) {
	return r.space.toWeights(uniformPoint(r.rng, r.space.dims())), nil
}

// Observe implements Proposer. Random search keeps no history.
func (r *RandomSearch) Observe(weights types.WeightVector, score float64) error {
	if _, err := r.space.toUnit(weights); err != nil {
		return err
	}

	if !isFinite(score) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "score must be finite, got %f", score)
	}

	return nil
}

func uniformPoint(rng *rand.Rand, dims int) []float64 {
	point := make([]float64, dims)
	for i := range point {
		point[i] = rng.Float64()
	}

	return point
}

// latinHypercube returns n points of the unit cube such that every dimension has
// exactly one point in each of its n equal strata.
func latinHypercube(rng *rand.Rand, n int, dims int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
	}

	for d := range dims {
		for i, stratum := range rng.Perm(n) {
			points[i][d] = (float64(stratum) + rng.Float64()) / float64(n)
		}
	}

	return points
}
