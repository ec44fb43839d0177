package indicator

import (
	"github.com/samber/lo"

	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// StatusProvider turns a stream of bars into one status per indicator. Next must be
// fed bars in ascending time order; it only ever sees bars it has been given.
type StatusProvider interface {
	// Names returns the indicator names in sorted order
	Names() []types.IndicatorType
	// Next consumes the next bar and returns the statuses as of that bar
	Next(bar types.Bar) map[types.IndicatorType]types.IndicatorStatus
	// Reset drops all indicator state
	Reset()
}

// ProviderFactory creates a fresh provider for every simulation run so runs never
// share indicator state.
type ProviderFactory func() (StatusProvider, error)

// Set is a StatusProvider backed by an IndicatorRegistry of streaming indicators.
type Set struct {
	names []types.IndicatorType
	order []Indicator
}

// NewSet creates a Set from the indicators in registry. Composite indicators are
// evaluated after the indicators they depend on.
func NewSet(registry IndicatorRegistry) (*Set, error) {
	names := registry.ListIndicators()
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "indicator registry is empty")
	}

	pending := make([]Indicator, 0, len(names))

	for _, name := range names {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		pending = append(pending, ind)
	}

	order := make([]Indicator, 0, len(pending))
	placed := make(map[types.IndicatorType]bool, len(pending))

	for len(pending) > 0 {
		progress := false
		remaining := pending[:0]

		for _, ind := range pending {
			if dependenciesPlaced(ind, placed) {
				order = append(order, ind)
				placed[ind.Name()] = true
				progress = true

				continue
			}

			remaining = append(remaining, ind)
		}

		if !progress {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration,
				"indicator %s depends on an indicator that is not registered or forms a cycle", remaining[0].Name())
		}

		pending = remaining
	}

	return &Set{names: names, order: order}, nil
}

func dependenciesPlaced(ind Indicator, placed map[types.IndicatorType]bool) bool {
	composite, ok := ind.(CompositeIndicator)
	if !ok {
		return true
	}

	for _, dep := range composite.Dependencies() {
		if !placed[dep] {
			return false
		}
	}

	return true
}

// NewDefaultSet creates a Set with every default indicator.
func NewDefaultSet() (*Set, error) {
	return NewSet(NewDefaultRegistry())
}

// Params holds the Config arguments of indicators whose defaults are overridden.
type Params map[types.IndicatorType][]any

// NewConfiguredRegistry creates the default registry and configures the indicators
// named in params. Naming an indicator that is not registered is an error.
func NewConfiguredRegistry(params Params) (IndicatorRegistry, error) {
	registry := NewDefaultRegistry()

	for _, name := range types.SortIndicatorTypes(lo.Keys(params)) {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		if err := ind.Config(params[name]...); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid parameters for indicator %s", name)
		}
	}

	return registry, nil
}

// NewProviderFactory returns a factory building a new default Set per call, with
// params applied to its indicators.
func NewProviderFactory(params Params) ProviderFactory {
	return func() (StatusProvider, error) {
		registry, err := NewConfiguredRegistry(params)
		if err != nil {
			return nil, err
		}

		return NewSet(registry)
	}
}

// DefaultProviderFactory returns a factory building a new default Set per call.
func DefaultProviderFactory() ProviderFactory {
	return NewProviderFactory(nil)
}

// Names returns the indicator names in sorted order.
func (s *Set) Names() []types.IndicatorType {
	names := make([]types.IndicatorType, len(s.names))
	copy(names, s.names)

	return names
}

// Next feeds bar to every indicator.
func (s *Set) Next(bar types.Bar) map[types.IndicatorType]types.IndicatorStatus {
	statuses := make(map[types.IndicatorType]types.IndicatorStatus, len(s.order))
	ctx := IndicatorContext{Statuses: statuses}

	for _, ind := range s.order {
		st := ind.Update(bar, ctx)
		st.Name = ind.Name()
		statuses[st.Name] = st
	}

	return statuses
}

// Reset resets every indicator.
func (s *Set) Reset() {
	for _, ind := range s.order {
		ind.Reset()
	}
}
