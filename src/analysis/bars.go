package analysis

import "stream-viewer/src/models"

// -----------------------------------------------------------------------------
// BarAggregator folds ticks into fixed-interval OHLCV bars. A bar is emitted
// when the first tick of the next interval arrives.
// -----------------------------------------------------------------------------

type BarAggregator struct {
	barMs        int64
	currentStart int64
	started      bool

	open   float64
	high   float64
	low    float64
	close  float64
	volume float64
}

// -----------------------------------------------------------------------------

func NewBarAggregator(barSeconds int) *BarAggregator {
	return &BarAggregator{barMs: int64(barSeconds) * 1000}
}

// -----------------------------------------------------------------------------

// AddTick feeds one tick; the second return is true when a bar just closed.
// The emitted point carries the bar's start in whole seconds and its close.
func (a *BarAggregator) AddTick(tsMs int64, price, size float64) (models.MBarPoint, bool) {
	barStart := tsMs - (tsMs % a.barMs)

	if !a.started {
		a.started = true
		a.currentStart = barStart
		a.initBar(price, size)
		return models.MBarPoint{}, false
	}

	if barStart == a.currentStart {
		a.updateBar(price, size)
		return models.MBarPoint{}, false
	}

	// Bar rolled over: emit the previous bar, start a new one on this tick.
	finished := models.MBarPoint{
		TimeSeconds: a.currentStart / 1000,
		Close:       a.close,
	}
	a.currentStart = barStart
	a.initBar(price, size)
	return finished, true
}

// -----------------------------------------------------------------------------

func (a *BarAggregator) initBar(price, size float64) {
	a.open = price
	a.high = price
	a.low = price
	a.close = price
	a.volume = size
}

// -----------------------------------------------------------------------------

func (a *BarAggregator) updateBar(price, size float64) {
	if price > a.high {
		a.high = price
	}
	if price < a.low {
		a.low = price
	}
	a.close = price
	a.volume += size
}
