package indicator

import (
	"math"
	"time"

	"github.com/mkhv12/stk-advisor/internal/types"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func ohlcv(i int, open, high, low, closePrice, volume float64) types.Bar {
	return types.Bar{
		Symbol: "TEST",
		Time:   testStart.AddDate(0, 0, i),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}
}

// barsFromCloses builds bars with a one point range around each close
func barsFromCloses(closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = ohlcv(i, c, c+1, c-1, c, 1000)
	}

	return bars
}

func linearCloses(start, step float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}

	return closes
}

// waveBars oscillates around 100 with a slow drift so every indicator gets to fire
func waveBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		c := 100 + 10*math.Sin(float64(i)/7) + float64(i)*0.05
		o := c - math.Cos(float64(i)/3)
		bars[i] = ohlcv(i, o, math.Max(o, c)+1.5, math.Min(o, c)-1.5, c, 1000+300*math.Sin(float64(i)/2))
	}

	return bars
}

func feed(ind Indicator, bars []types.Bar) []types.IndicatorStatus {
	out := make([]types.IndicatorStatus, 0, len(bars))
	for _, bar := range bars {
		out = append(out, ind.Update(bar, IndicatorContext{}))
	}

	return out
}
