package optimizer

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mkhv12/stk-advisor/pkg/errors"
)

const maxJitterAttempts = 6

// GaussianProcess is a zero-mean GP regression with a Matern 5/2 kernel over points of
// the unit cube. Targets are standardized before fitting.
type GaussianProcess struct {
	lengthScale float64
	noise       float64

	x      [][]float64
	alpha  *mat.VecDense
	chol   mat.Cholesky
	yMean  float64
	yScale float64
}

// NewGaussianProcess creates an unfitted GP. lengthScale is measured in unit-cube
// distance divided by sqrt(dims); noise is added to the kernel diagonal.
func NewGaussianProcess(lengthScale float64, noise float64) *GaussianProcess {
	return &GaussianProcess{lengthScale: lengthScale, noise: noise}
}

func (g *GaussianProcess) kernel(a []float64, b []float64) float64 {
	var sq float64
	for i := range a {
		d := a[i] - b[i]
		sq += d * d
	}

	r := math.Sqrt(sq/float64(max(len(a), 1))) / g.lengthScale
	s5r := math.Sqrt(5) * r

	return (1 + s5r + 5*r*r/3) * math.Exp(-s5r)
}

// Fit conditions the GP on observations. Jitter is increased until the kernel matrix
// factorizes.
func (g *GaussianProcess) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return errors.Newf(errors.ErrCodeOptimizerProposalFailed, "cannot fit %d points to %d targets", n, len(y))
	}

	g.yMean, g.yScale = standardize(y)

	target := mat.NewVecDense(n, nil)
	for i, v := range y {
		target.SetVec(i, (v-g.yMean)/g.yScale)
	}

	jitter := g.noise

	for range maxJitterAttempts {
		k := mat.NewSymDense(n, nil)
		for i := range n {
			for j := i; j < n; j++ {
				v := g.kernel(x[i], x[j])
				if i == j {
					v += jitter
				}

				k.SetSym(i, j, v)
			}
		}

		if g.chol.Factorize(k) {
			alpha := mat.NewVecDense(n, nil)
			if err := g.chol.SolveVecTo(alpha, target); err != nil {
				return errors.Wrap(errors.ErrCodeOptimizerProposalFailed, "failed to solve kernel system", err)
			}

			g.x = x
			g.alpha = alpha

			return nil
		}

		jitter = math.Max(jitter*10, 1e-10)
	}

	return errors.New(errors.ErrCodeOptimizerProposalFailed, "kernel matrix is not positive definite")
}

// Predict returns the posterior mean and standard deviation at point.
func (g *GaussianProcess) Predict(point []float64) (float64, float64) {
	n := len(g.x)

	kStar := mat.NewVecDense(n, nil)
	for i, xi := range g.x {
		kStar.SetVec(i, g.kernel(point, xi))
	}

	mean := mat.Dot(kStar, g.alpha)

	v := mat.NewVecDense(n, nil)

	variance := 1.0
	if err := g.chol.SolveVecTo(v, kStar); err == nil {
		variance = math.Max(1-mat.Dot(kStar, v), 0)
	}

	return mean*g.yScale + g.yMean, math.Sqrt(variance) * g.yScale
}

func standardize(y []float64) (float64, float64) {
	var mean float64
	for _, v := range y {
		mean += v
	}

	mean /= float64(len(y))

	var variance float64
	for _, v := range y {
		variance += (v - mean) * (v - mean)
	}

	scale := math.Sqrt(variance / float64(len(y)))
	if scale == 0 {
		scale = 1
	}

	return mean, scale
}
