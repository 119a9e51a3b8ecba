package analysis

// -----------------------------------------------------------------------------
// TickWindow is a time-windowed tick buffer with rolling price*volume sums,
// so VWAP stays O(1) per tick while SMA/std walk the retained prices.
// -----------------------------------------------------------------------------

type tick struct {
	tsMs  int64
	price float64
	size  float64
}

type TickWindow struct {
	windowMs int64
	ticks    []tick
	pvSum    float64
	volSum   float64
}

// -----------------------------------------------------------------------------

func NewTickWindow(windowSeconds int) *TickWindow {
	return &TickWindow{windowMs: int64(windowSeconds) * 1000}
}

// -----------------------------------------------------------------------------

// Add records one tick and prunes everything older than the window.
func (w *TickWindow) Add(tsMs int64, price, size float64) {
	w.ticks = append(w.ticks, tick{tsMs: tsMs, price: price, size: size})
	w.pvSum += price * size
	w.volSum += size
	w.prune(tsMs)
}

// -----------------------------------------------------------------------------

func (w *TickWindow) prune(nowMs int64) {
	cutoff := nowMs - w.windowMs
	dropped := 0
	for _, t := range w.ticks {
		if t.tsMs >= cutoff {
			break
		}
		w.pvSum -= t.price * t.size
		w.volSum -= t.size
		dropped++
	}
	if dropped > 0 {
		w.ticks = w.ticks[dropped:]
	}
}

// -----------------------------------------------------------------------------

// Prices returns the retained prices, oldest first.
func (w *TickWindow) Prices() []float64 {
	out := make([]float64, len(w.ticks))
	for i, t := range w.ticks {
		out[i] = t.price
	}
	return out
}

// -----------------------------------------------------------------------------

// VWAP returns nil when no volume is in the window.
func (w *TickWindow) VWAP() *float64 {
	if w.volSum <= 0 {
		return nil
	}
	v := w.pvSum / w.volSum
	return &v
}

// -----------------------------------------------------------------------------

// SMA returns nil when the window is empty.
func (w *TickWindow) SMA() *float64 {
	if len(w.ticks) == 0 {
		return nil
	}
	mean, _ := CalculateMeanStd(w.Prices())
	return &mean
}

// -----------------------------------------------------------------------------

// Std returns the population standard deviation, nil below two ticks.
func (w *TickWindow) Std() *float64 {
	if len(w.ticks) < 2 {
		return nil
	}
	_, std := CalculateMeanStd(w.Prices())
	return &std
}

// -----------------------------------------------------------------------------

// Size returns the retained tick count.
func (w *TickWindow) Size() int {
	return len(w.ticks)
}
