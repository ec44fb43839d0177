package types

import "time"

// Bar is a single OHLCV bar for a symbol. Bars are immutable once read from a data source.
type Bar struct {
	Symbol string    `csv:"symbol" yaml:"symbol"`
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// TypicalPrice returns (high + low + close) / 3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}
