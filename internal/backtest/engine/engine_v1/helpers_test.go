package engine

import (
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/mocks"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func newTestLogger() *logger.Logger {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.OutputPaths = []string{}
	loggerConfig.ErrorOutputPaths = []string{}

	zapLogger, err := loggerConfig.Build()
	if err != nil {
		return logger.NewNopLogger()
	}

	return &logger.Logger{Logger: zapLogger}
}

// dailyBars builds one bar per day with the given closes.
func dailyBars(symbol string, closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Symbol: symbol,
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

// scriptedProvider returns a single-indicator provider emitting the given rsi directions in order.
func scriptedProvider(ctrl *gomock.Controller, directions ...types.Direction) *mocks.MockStatusProvider {
	provider := mocks.NewMockStatusProvider(ctrl)
	provider.EXPECT().Names().Return([]types.IndicatorType{types.IndicatorTypeRSI}).AnyTimes()

	calls := make([]any, 0, len(directions))
	for _, d := range directions {
		calls = append(calls, provider.EXPECT().Next(gomock.Any()).Return(map[types.IndicatorType]types.IndicatorStatus{
			types.IndicatorTypeRSI: {Name: types.IndicatorTypeRSI, Direction: d, Label: string(d)},
		}))
	}

	gomock.InOrder(calls...)

	return provider
}

func factoryOf(provider indicator.StatusProvider) indicator.ProviderFactory {
	return func() (indicator.StatusProvider, error) {
		return provider, nil
	}
}

func rsiOnly() types.WeightVector {
	return types.WeightVector{types.IndicatorTypeRSI: 1}
}
