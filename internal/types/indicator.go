package types

import "slices"

type IndicatorType string

const (
	IndicatorTypeRSI              IndicatorType = "rsi"
	IndicatorTypeMACD             IndicatorType = "macd"
	IndicatorTypeMACDHistogram    IndicatorType = "macd_histogram"
	IndicatorTypeADX              IndicatorType = "adx"
	IndicatorTypeVWAP             IndicatorType = "vwap"
	IndicatorTypeGoldenCross      IndicatorType = "golden_cross"
	IndicatorTypeVolumeTrend      IndicatorType = "volume_trend"
	IndicatorTypeBollingerBands   IndicatorType = "bollinger_bands"
	IndicatorTypeStochastic       IndicatorType = "stochastic"
	IndicatorTypeParabolicSAR     IndicatorType = "parabolic_sar"
	IndicatorTypeCandlestick      IndicatorType = "candlestick"
	IndicatorTypeRSIDivergence    IndicatorType = "rsi_divergence"
	IndicatorTypeFibonacci        IndicatorType = "fibonacci"
	IndicatorTypeHeadAndShoulders IndicatorType = "head_and_shoulders"
	IndicatorTypeDoubleTopBottom  IndicatorType = "double_top_bottom"
)

// AllIndicatorTypes lists every indicator the default status provider computes.
var AllIndicatorTypes = []IndicatorType{
	IndicatorTypeRSI,
	IndicatorTypeMACD,
	IndicatorTypeMACDHistogram,
	IndicatorTypeADX,
	IndicatorTypeVWAP,
	IndicatorTypeGoldenCross,
	IndicatorTypeVolumeTrend,
	IndicatorTypeBollingerBands,
	IndicatorTypeStochastic,
	IndicatorTypeParabolicSAR,
	IndicatorTypeCandlestick,
	IndicatorTypeRSIDivergence,
	IndicatorTypeFibonacci,
	IndicatorTypeHeadAndShoulders,
	IndicatorTypeDoubleTopBottom,
}

// SortIndicatorTypes sorts names in place and returns them for chaining.
func SortIndicatorTypes(names []IndicatorType) []IndicatorType {
	slices.Sort(names)

	return names
}
