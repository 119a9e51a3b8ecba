package analysis

import (
	"sync"

	"stream-viewer/src/logger"
	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Engine computes local indicator overlays from the raw tick stream: windowed
// VWAP/SMA/std plus an EMA, and fixed-interval bars. Metric emission is
// throttled per symbol the same way the gateway throttles its own metrics
// pushes, so locally computed overlays behave like remote ones.
// -----------------------------------------------------------------------------

type Engine struct {
	cfg        models.MMetricsConfig
	windows    map[string]*TickWindow
	bars       map[string]*BarAggregator
	lastEMA    map[string]float64
	hasEMA     map[string]bool
	lastEmitMs map[string]int64
	Logger     *logger.Logger
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

func NewEngine(cfg *models.MConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg:        cfg.Metrics,
		windows:    make(map[string]*TickWindow),
		bars:       make(map[string]*BarAggregator),
		lastEMA:    make(map[string]float64),
		hasEMA:     make(map[string]bool),
		lastEmitMs: make(map[string]int64),
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

// AddTick feeds one trade. It returns a metrics point when the per-symbol
// throttle interval elapsed (nil otherwise) and a finished one-second bar
// when one just closed (nil otherwise). nowMs is client receipt time.
func (e *Engine) AddTick(symbol string, tsMs int64, price, size float64, nowMs int64) (*models.MMetricsPoint, *models.MBarPoint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	window, ok := e.windows[symbol]
	if !ok {
		window = NewTickWindow(e.cfg.WindowSeconds)
		e.windows[symbol] = window
	}
	window.Add(tsMs, price, size)

	agg, ok := e.bars[symbol]
	if !ok {
		agg = NewBarAggregator(1)
		e.bars[symbol] = agg
	}

	var barOut *models.MBarPoint
	if bar, finished := agg.AddTick(tsMs, price, size); finished {
		barOut = &bar
	}

	var metricsOut *models.MMetricsPoint
	if nowMs-e.lastEmitMs[symbol] >= int64(e.cfg.IntervalMs) {
		e.lastEmitMs[symbol] = nowMs
		metricsOut = &models.MMetricsPoint{
			Symbol: symbol,
			VWAP:   window.VWAP(),
			SMA:    window.SMA(),
			EMA20:  e.emaLocked(symbol, window),
		}
	}

	return metricsOut, barOut
}

// -----------------------------------------------------------------------------

// emaLocked updates the exponential moving average over the window prices,
// seeding from the window mean on first computation. Callers hold e.mu.
func (e *Engine) emaLocked(symbol string, window *TickWindow) *float64 {
	prices := window.Prices()
	if len(prices) == 0 {
		return nil
	}

	alpha := 2.0 / float64(e.cfg.EmaSpan+1)
	last := e.lastEMA[symbol]
	if !e.hasEMA[symbol] {
		last, _ = CalculateMeanStd(prices)
	}
	for _, p := range prices {
		last = alpha*p + (1-alpha)*last
	}
	e.lastEMA[symbol] = last
	e.hasEMA[symbol] = true
	return &last
}

// -----------------------------------------------------------------------------

// Reset drops all per-symbol state, used when the subscription changes.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.windows = make(map[string]*TickWindow)
	e.bars = make(map[string]*BarAggregator)
	e.lastEMA = make(map[string]float64)
	e.hasEMA = make(map[string]bool)
	e.lastEmitMs = make(map[string]int64)
}
