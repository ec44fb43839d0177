// Package optimizer searches indicator weights that maximize a backtest score.
package optimizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/decision"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/internal/version"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Objective scores a weight vector; higher is better.
type Objective func(ctx context.Context, weights types.WeightVector) (float64, error)

// Options configures one Optimize call.
type Options struct {
	// Name labels the search result
	Name string
	// InitPoints is the number of exploratory evaluations
	InitPoints int
	// Iterations is the number of surrogate-guided evaluations after the exploratory ones
	Iterations int
	// Indicators, when set, must be exactly the indicators named by the bounds
	Indicators []types.IndicatorType
	// WorstScore replaces the score of an evaluation whose objective failed
	WorstScore float64
	// Bayesian configures the default proposer; InitPoints is taken from Options
	Bayesian BayesianOptions
	// Proposer replaces the default BayesianOptimizer when set
	Proposer Proposer
	// Logger defaults to a no-op logger
	Logger *logger.Logger
	// OnEvaluation is called after every evaluation
	OnEvaluation func(evaluation types.Evaluation)
}

// Optimize runs InitPoints + Iterations sequential evaluations of objective within bounds
// and returns the best weights found. An objective error is scored as WorstScore and the
// search continues, except for a weight/indicator mismatch, which ends the search since
// no later proposal can succeed either. The context is checked before every evaluation; on cancellation the
// best result so far is returned together with the context error.
func Optimize(ctx context.Context, objective Objective, bounds types.Bounds, options Options) (types.WeightSearchResult, error) {
	log := options.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	total := options.InitPoints + options.Iterations
	if options.InitPoints < 0 || options.Iterations < 0 || total == 0 {
		return types.WeightSearchResult{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"init points (%d) and iterations (%d) must be non-negative with a positive sum", options.InitPoints, options.Iterations)
	}

	proposer := options.Proposer
	if proposer == nil {
		bayesian := options.Bayesian
		bayesian.InitPoints = options.InitPoints

		var err error

		proposer, err = NewBayesianOptimizer(bounds, bayesian)
		if err != nil {
			return types.WeightSearchResult{}, err
		}
	} else if _, err := newSpace(bounds); err != nil {
		return types.WeightSearchResult{}, err
	}

	if len(options.Indicators) > 0 {
		if err := decision.ValidateBounds(options.Indicators, bounds); err != nil {
			return types.WeightSearchResult{}, err
		}
	}

	result := types.WeightSearchResult{
		ID:            uuid.New().String(),
		Name:          options.Name,
		EngineVersion: version.GetVersion(),
		Timestamp:     time.Now(),
		History:       make([]types.Evaluation, 0, total),
	}

	for i := range total {
		if err := ctx.Err(); err != nil {
			log.Warn("Weight search cancelled", zap.String("name", options.Name), zap.Int("evaluations", i))

			return result, errors.Wrap(errors.ErrCodeOptimizerCancelled, "weight search cancelled", err)
		}

		weights, err := proposer.Propose()
		if err != nil {
			return result, errors.Wrap(errors.ErrCodeOptimizerProposalFailed, "failed to propose weights", err)
		}

		evaluation := types.Evaluation{
			Iteration: i,
			Phase:     types.EvaluationPhaseSearch,
			Weights:   weights,
		}

		if i < options.InitPoints {
			evaluation.Phase = types.EvaluationPhaseInit
		}

		score, err := objective(ctx, weights.Clone())
		if errors.IsConfigurationMismatch(err) {
			log.Error("Weights do not match the indicator set", zap.String("name", options.Name), zap.Error(err))

			return result, errors.Wrap(errors.ErrCodeConfigurationMismatch, "weight search stopped", err)
		}

		if err != nil || !isFinite(score) {
			log.Warn("Objective evaluation failed, using worst score",
				zap.Int("iteration", i),
				zap.Float64("worst_score", options.WorstScore),
				zap.Error(err),
			)

			score = options.WorstScore
			evaluation.Failed = true
		}

		if err := proposer.Observe(weights, score); err != nil {
			return result, errors.Wrap(errors.ErrCodeOptimizerProposalFailed, "failed to record observation", err)
		}

		evaluation.Score = score

		if i == 0 || score > result.BestScore {
			result.BestScore = score
			result.BestWeights = weights.Clone()
		}

		evaluation.BestScore = result.BestScore
		result.History = append(result.History, evaluation)

		log.Info("Evaluated weights",
			zap.String("name", options.Name),
			zap.Int("iteration", i),
			zap.String("phase", string(evaluation.Phase)),
			zap.Float64("score", score),
			zap.Float64("best_score", result.BestScore),
		)

		if options.OnEvaluation != nil {
			options.OnEvaluation(evaluation)
		}
	}

	return result, nil
}
