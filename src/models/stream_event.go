package models

// -----------------------------------------------------------------------------
// Normalized stream events
// -----------------------------------------------------------------------------

// Chart series names. The chart widget keys incremental updates by these.
const (
	SeriesPrice = "price"
	SeriesVWAP  = "vwap"
	SeriesSMA   = "sma"
	SeriesEMA20 = "ema20"
)

// -----------------------------------------------------------------------------

// MCanonicalPoint is the unit every chart series consumes. Time is whole unix
// seconds because that is the chart time axis unit. Never mutated once built.
type MCanonicalPoint struct {
	TimeSeconds int64   `json:"time"`
	Value       float64 `json:"value"`
}

// -----------------------------------------------------------------------------

// MEventKind tags the closed set of normalized event variants.
type MEventKind int

const (
	KindUnrecognized MEventKind = iota
	KindTrade
	KindBar
	KindMetrics
	KindDisplayOnly
)

// -----------------------------------------------------------------------------

// MTradePoint is a single price observation resolved from a raw frame.
type MTradePoint struct {
	TimeSeconds int64
	Price       float64
}

// MBarPoint carries the closing price of an aggregated bar. Time arrives
// already in whole seconds and gets no further conversion.
type MBarPoint struct {
	TimeSeconds int64
	Close       float64
}

// MMetricsPoint carries the throttled indicator push for the active symbol.
// Nil fields mean "no value this round" and must leave the overlay untouched.
type MMetricsPoint struct {
	Symbol string   `mapstructure:"symbol" json:"symbol"`
	VWAP   *float64 `mapstructure:"vwap" json:"vwap"`
	SMA    *float64 `mapstructure:"sma" json:"sma"`
	EMA20  *float64 `mapstructure:"ema20" json:"ema20"`
}

// -----------------------------------------------------------------------------

// MNormalized is the outcome of classifying one raw frame. Exactly one of the
// payload fields is meaningful, selected by Kind.
type MNormalized struct {
	Kind    MEventKind
	Trade   MTradePoint
	Bar     MBarPoint
	Metrics MMetricsPoint
	Display string
}
