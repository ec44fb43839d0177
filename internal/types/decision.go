package types

// Action is the trading decision produced by the weighted aggregation.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Decision keeps the three accumulated scores next to the action they produced.
type Decision struct {
	Action    Action  `yaml:"action"`
	BuyScore  float64 `yaml:"buy_score"`
	SellScore float64 `yaml:"sell_score"`
	HoldScore float64 `yaml:"hold_score"`
}

// PriceDrop compares the latest close with the highest close of the analyzed bars.
// It is reported next to the decision and takes no part in the vote.
type PriceDrop struct {
	High        float64 `yaml:"high"`
	DropPct     float64 `yaml:"drop_pct"`
	Significant bool    `yaml:"significant"`
}

// Analysis is the latest decision for a symbol together with the statuses behind it.
// Err is set when the symbol could not be analyzed; the other fields are then empty.
type Analysis struct {
	Symbol       string                            `yaml:"symbol"`
	CurrentPrice float64                           `yaml:"current_price"`
	Decision     Decision                          `yaml:"decision"`
	Statuses     map[IndicatorType]IndicatorStatus `yaml:"statuses"`
	PriceDrop    PriceDrop                         `yaml:"price_drop"`
	Err          error                             `yaml:"-"`
}
