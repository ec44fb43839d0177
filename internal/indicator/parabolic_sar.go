package indicator

import (
	"math"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// ParabolicSAR is Wilder's stop and reverse. SAR below the close is a Buy, above is a Sell.
type ParabolicSAR struct {
	step    float64
	maxStep float64

	count    int
	uptrend  bool
	sar      float64
	extreme  float64
	factor   float64
	prev     types.Bar
	prevPrev types.Bar
}

// NewParabolicSAR creates a Parabolic SAR with step 0.02 and maximum 0.2.
func NewParabolicSAR() Indicator {
	p := &ParabolicSAR{step: 0.02, maxStep: 0.2}
	p.Reset()

	return p
}

// Name returns the name of the indicator.
func (p *ParabolicSAR) Name() types.IndicatorType {
	return types.IndicatorTypeParabolicSAR
}

// Config expects step (float64) and maximum step (float64).
func (p *ParabolicSAR) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: step (float64), max step (float64)")
	}

	step, err := floatParam(params[0], "step")
	if err != nil {
		return err
	}

	maxStep, err := floatParam(params[1], "max step")
	if err != nil {
		return err
	}

	if step <= 0 || maxStep < step {
		return errors.Newf(errors.ErrCodeInvalidParameter, "steps must satisfy 0 < step <= max step, got %f and %f", step, maxStep)
	}

	p.step = step
	p.maxStep = maxStep
	p.Reset()

	return nil
}

// Update feeds the next bar.
func (p *ParabolicSAR) Update(bar types.Bar, _ IndicatorContext) types.IndicatorStatus {
	defer func() {
		p.prevPrev = p.prev
		p.prev = bar
		p.count++
	}()

	switch p.count {
	case 0:
		return insufficient(p.Name())
	case 1:
		p.uptrend = bar.Close >= p.prev.Close
		p.factor = p.step

		if p.uptrend {
			p.sar = math.Min(p.prev.Low, bar.Low)
			p.extreme = math.Max(p.prev.High, bar.High)
		} else {
			p.sar = math.Max(p.prev.High, bar.High)
			p.extreme = math.Min(p.prev.Low, bar.Low)
		}

		return p.classify(bar)
	}

	sar := p.sar + p.factor*(p.extreme-p.sar)

	if p.uptrend {
		sar = math.Min(sar, math.Min(p.prev.Low, p.prevPrev.Low))

		if bar.Low < sar {
			p.uptrend = false
			sar = p.extreme
			p.extreme = bar.Low
			p.factor = p.step
		} else if bar.High > p.extreme {
			p.extreme = bar.High
			p.factor = math.Min(p.factor+p.step, p.maxStep)
		}
	} else {
		sar = math.Max(sar, math.Max(p.prev.High, p.prevPrev.High))

		if bar.High > sar {
			p.uptrend = true
			sar = p.extreme
			p.extreme = bar.High
			p.factor = p.step
		} else if bar.Low < p.extreme {
			p.extreme = bar.Low
			p.factor = math.Min(p.factor+p.step, p.maxStep)
		}
	}

	p.sar = sar

	return p.classify(bar)
}

func (p *ParabolicSAR) classify(bar types.Bar) types.IndicatorStatus {
	if p.sar < bar.Close {
		return status(p.Name(), types.DirectionBuy, "SAR below price", p.sar)
	}

	return status(p.Name(), types.DirectionSell, "SAR above price", p.sar)
}

// Reset drops all state.
func (p *ParabolicSAR) Reset() {
	p.count = 0
	p.uptrend = false
	p.sar = 0
	p.extreme = 0
	p.factor = p.step
	p.prev = types.Bar{}
	p.prevPrev = types.Bar{}
}
