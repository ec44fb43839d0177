package optimizer

import (
	"math"
	"math/rand"

	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// BayesianOptions configures a BayesianOptimizer.
type BayesianOptions struct {
	// InitPoints is the size of the Latin-hypercube initial design
	InitPoints int
	// Acquisition selects ucb or ei
	Acquisition Acquisition
	// Kappa is the exploration weight of ucb; zero is pure exploitation
	Kappa optional.Option[float64]
	// Xi is the improvement margin of ei
	Xi float64
	// Seed makes proposals reproducible
	Seed int64
	// Candidates is the number of random points the acquisition is evaluated on
	Candidates int
	// LocalCandidates is the number of perturbations of the best point evaluated
	LocalCandidates int
	// LengthScale of the Matern kernel
	LengthScale float64
}

// DefaultBayesianOptions returns the settings used when a field is left zero or unset.
func DefaultBayesianOptions() BayesianOptions {
	return BayesianOptions{
		InitPoints:      5,
		Acquisition:     AcquisitionUCB,
		Kappa:           optional.Some(2.576),
		Xi:              0,
		Seed:            1,
		Candidates:      1000,
		LocalCandidates: 200,
		LengthScale:     0.5,
	}
}

func (o BayesianOptions) withDefaults() BayesianOptions {
	defaults := DefaultBayesianOptions()

	if o.Acquisition == "" {
		o.Acquisition = defaults.Acquisition
	}

	if o.Kappa.IsNone() {
		o.Kappa = defaults.Kappa
	}

	if o.Candidates <= 0 {
		o.Candidates = defaults.Candidates
	}

	if o.LocalCandidates < 0 {
		o.LocalCandidates = 0
	} else if o.LocalCandidates == 0 {
		o.LocalCandidates = defaults.LocalCandidates
	}

	if o.LengthScale <= 0 {
		o.LengthScale = defaults.LengthScale
	}

	return o
}

// BayesianOptimizer proposes the points of a Latin-hypercube design first and then the
// maximizer of the acquisition function of a Gaussian process fitted to every observation.
type BayesianOptimizer struct {
	space   space
	options BayesianOptions
	rng     *rand.Rand
	design  [][]float64
	next    int
	points  [][]float64
	scores  []float64
}

// NewBayesianOptimizer creates an optimizer over bounds.
func NewBayesianOptimizer(bounds types.Bounds, options BayesianOptions) (*BayesianOptimizer, error) {
	s, err := newSpace(bounds)
	if err != nil {
		return nil, err
	}

	options = options.withDefaults()
	if options.Acquisition != AcquisitionUCB && options.Acquisition != AcquisitionEI {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown acquisition %q", options.Acquisition)
	}

	if options.InitPoints < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "init points must not be negative, got %d", options.InitPoints)
	}

	rng := rand.New(rand.NewSource(options.Seed))

	return &BayesianOptimizer{
		space:   s,
		options: options,
		rng:     rng,
		design:  latinHypercube(rng, options.InitPoints, s.dims()),
	}, nil
}

// Propose implements Proposer.
func (b *BayesianOptimizer) Propose() (types.WeightVector, error) {
	if b.next < len(b.design) {
		point := b.design[b.next]
		b.next++

		return b.space.toWeights(point), nil
	}

	if len(b.points) == 0 {
		return b.space.toWeights(uniformPoint(b.rng, b.space.dims())), nil
	}

	gp := NewGaussianProcess(b.options.LengthScale, 1e-6)
	if err := gp.Fit(b.points, b.scores); err != nil {
		return nil, err
	}

	return b.space.toWeights(b.maximizeAcquisition(gp)), nil
}

func (b *BayesianOptimizer) maximizeAcquisition(gp *GaussianProcess) []float64 {
	bestIdx := 0
	for i, s := range b.scores {
		if s > b.scores[bestIdx] {
			bestIdx = i
		}
	}

	bestScore := b.scores[bestIdx]
	incumbent := b.points[bestIdx]

	var (
		bestPoint []float64
		bestValue = math.Inf(-1)
	)

	consider := func(point []float64) {
		mean, std := gp.Predict(point)

		var value float64
		if b.options.Acquisition == AcquisitionEI {
			value = expectedImprovement(mean, std, bestScore, b.options.Xi)
		} else {
			value = upperConfidenceBound(mean, std, b.options.Kappa.Unwrap())
		}

		if value > bestValue {
			bestValue, bestPoint = value, point
		}
	}

	for range b.options.Candidates {
		consider(uniformPoint(b.rng, b.space.dims()))
	}

	for range b.options.LocalCandidates {
		point := make([]float64, len(incumbent))
		for i, v := range incumbent {
			point[i] = min(max(v+0.1*b.rng.NormFloat64(), 0), 1)
		}

		consider(point)
	}

	if bestPoint == nil {
		return uniformPoint(b.rng, b.space.dims())
	}

	return bestPoint
}

// Observe implements Proposer.
func (b *BayesianOptimizer) Observe(weights types.WeightVector, score float64) error {
	if !isFinite(score) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "score must be finite, got %f", score)
	}

	point, err := b.space.toUnit(weights)
	if err != nil {
		return err
	}

	b.points = append(b.points, point)
	b.scores = append(b.scores, score)

	return nil
}
