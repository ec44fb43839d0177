package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// DataGenerator produces reproducible bar series for tests and the generate command.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the time of the first bar
	StartTime time.Time
	// Interval is the duration between two bars
	Interval time.Duration
	// Count is the number of bars
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility is the standard deviation of the per-bar return (0.01 = 1%)
	Volatility float64
	// Trend is the total drift spread over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the relative spread of the volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns roughly two years of daily bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          500,
		InitialPrice:   100.0,
		Volatility:     0.02,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	price := config.InitialPrice
	at := config.StartTime

	drift := 0.0
	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := range config.Count {
		open := price

		closePrice := open * math.Exp(drift-config.Volatility*config.Volatility/2+config.Volatility*g.rng.NormFloat64())

		highExtension := g.rng.Float64() * config.Volatility * open * 0.5
		lowExtension := g.rng.Float64() * config.Volatility * open * 0.5

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Symbol: config.Symbol,
			Time:   at,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 0),
		}

		price = closePrice
		at = at.Add(config.Interval)
	}

	return bars
}

// GenerateMultiSymbol generates one series per symbol, varying the initial price and
// volatility per symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.Bar {
	var all []types.Bar

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all = append(all, g.Generate(config)...)
	}

	return all
}

// GenerateDaily generates count daily bars for symbol with the default settings and a fixed seed.
func GenerateDaily(symbol string, count int) []types.Bar {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count

	return gen.Generate(config)
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
