package series

import (
	"sync"

	"stream-viewer/src/interfaces"
	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Set owns one bounded buffer per logical chart series (price plus the
// vwap/sma/ema20 overlays). Every push also emits a single-point incremental
// update to the chart sink; points sharing a time key overwrite at the sink,
// never here.
// -----------------------------------------------------------------------------

type Set struct {
	buffers map[string]*Buffer
	sink    interfaces.IChartSink
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

// NewSet creates the four series buffers with a shared capacity.
func NewSet(maxPoints int, sink interfaces.IChartSink) *Set {
	names := []string{
		models.SeriesPrice,
		models.SeriesVWAP,
		models.SeriesSMA,
		models.SeriesEMA20,
	}

	buffers := make(map[string]*Buffer, len(names))
	for _, name := range names {
		buffers[name] = NewBuffer(maxPoints)
	}

	return &Set{
		buffers: buffers,
		sink:    sink,
	}
}

// -----------------------------------------------------------------------------

// Push records a point on the named series and forwards it to the chart.
// Unknown series names are ignored.
func (s *Set) Push(seriesName string, point models.MCanonicalPoint) {
	s.mu.Lock()
	buf, ok := s.buffers[seriesName]
	if ok {
		buf.Push(point)
	}
	s.mu.Unlock()

	if ok && s.sink != nil {
		s.sink.UpdateSeries(seriesName, point)
	}
}

// -----------------------------------------------------------------------------

// ApplyMetrics routes one metrics push into the overlays. Only non-nil
// indicator values touch their series; the time key is the client receipt
// time because the gateway throttles metrics and sends no point-in-time.
func (s *Set) ApplyMetrics(mp models.MMetricsPoint, receiptSeconds int64) {
	if mp.VWAP != nil {
		s.Push(models.SeriesVWAP, models.MCanonicalPoint{TimeSeconds: receiptSeconds, Value: *mp.VWAP})
	}
	if mp.SMA != nil {
		s.Push(models.SeriesSMA, models.MCanonicalPoint{TimeSeconds: receiptSeconds, Value: *mp.SMA})
	}
	if mp.EMA20 != nil {
		s.Push(models.SeriesEMA20, models.MCanonicalPoint{TimeSeconds: receiptSeconds, Value: *mp.EMA20})
	}
}

// -----------------------------------------------------------------------------

// Snapshot returns up to limit recent points per series, oldest first.
// limit <= 0 means everything retained.
func (s *Set) Snapshot(limit int) map[string][]models.MCanonicalPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]models.MCanonicalPoint, len(s.buffers))
	for name, buf := range s.buffers {
		if limit > 0 {
			out[name] = buf.GetLatest(limit)
		} else {
			out[name] = buf.GetAll()
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// Len returns the point count of one series.
func (s *Set) Len(seriesName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if buf, ok := s.buffers[seriesName]; ok {
		return buf.Size()
	}
	return 0
}
