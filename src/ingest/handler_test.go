package ingest

import (
	"testing"
	"time"

	"stream-viewer/src/analysis"
	"stream-viewer/src/logger"
	"stream-viewer/src/models"
	"stream-viewer/src/series"
)

// -----------------------------------------------------------------------------

type capturePublisher struct {
	logLines []string
	metrics  []models.MMetricsPoint
}

func (c *capturePublisher) PublishLog(line string) { c.logLines = append(c.logLines, line) }

func (c *capturePublisher) PublishLogCleared() {}

func (c *capturePublisher) PublishStatus(status models.MSessionStatus) {}

func (c *capturePublisher) PublishNotification(n models.MNotification) {}

func (c *capturePublisher) PublishMetrics(mp models.MMetricsPoint) {
	c.metrics = append(c.metrics, mp)
}

// -----------------------------------------------------------------------------

func newTestHandler(localMetrics bool) (*Handler, *series.Set, *series.LogBuffer, *capturePublisher) {
	cfg := &models.MConfig{
		LogLevel: "CRITICAL",
		Gateway:  models.MGatewayConfig{BaseURL: "http://127.0.0.1:8000", WSPath: "/ws"},
		Chart:    models.MChartConfig{MaxPoints: 1000, LogLines: 100},
		Metrics:  models.MMetricsConfig{Local: localMetrics, WindowSeconds: 60, IntervalMs: 1000, EmaSpan: 20},
	}

	log := logger.NewLogger("CRITICAL", "test")
	set := series.NewSet(cfg.Chart.MaxPoints, nil)
	activityLog := series.NewLogBuffer(cfg.Chart.LogLines)
	publisher := &capturePublisher{}

	var engine *analysis.Engine
	if localMetrics {
		engine = analysis.NewEngine(cfg, log)
	}

	h := NewHandler(cfg, set, activityLog, publisher, engine, log)
	h.now = func() time.Time { return time.UnixMilli(1700000100000) }
	return h, set, activityLog, publisher
}

// -----------------------------------------------------------------------------

func TestHandleFrameTrade(t *testing.T) {
	h, set, activityLog, _ := newTestHandler(false)

	h.HandleFrame([]byte(`{"T":"t","s":"AAPL","p":101.5,"t":"1700000000"}`))

	if got := set.Len(models.SeriesPrice); got != 1 {
		t.Fatalf("price points = %d; want 1", got)
	}
	snap := set.Snapshot(0)[models.SeriesPrice]
	if snap[0].TimeSeconds != 1700000000 || snap[0].Value != 101.5 {
		t.Fatalf("point = %+v; want {1700000000 101.5}", snap[0])
	}
	if got := activityLog.Size(); got != 1 {
		t.Fatalf("log lines = %d; want 1", got)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameTradeWithoutTickMarkerSkipsLog(t *testing.T) {
	h, set, activityLog, _ := newTestHandler(false)

	h.HandleFrame([]byte(`{"price":42.0,"ts":1700000000}`))

	if got := set.Len(models.SeriesPrice); got != 1 {
		t.Fatalf("price points = %d; want 1", got)
	}
	if got := activityLog.Size(); got != 0 {
		t.Fatalf("log lines = %d; want 0", got)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameUnwrapsArrays(t *testing.T) {
	h, set, _, _ := newTestHandler(false)

	h.HandleFrame([]byte(`[{"p":1.0,"ts":1700000001},{"p":2.0,"ts":1700000002}]`))

	if got := set.Len(models.SeriesPrice); got != 2 {
		t.Fatalf("price points = %d; want 2", got)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameBar(t *testing.T) {
	h, set, _, _ := newTestHandler(false)

	h.HandleFrame([]byte(`{"type":"bar","time":1700000000,"close":99.5}`))

	snap := set.Snapshot(0)[models.SeriesPrice]
	if len(snap) != 1 || snap[0].TimeSeconds != 1700000000 || snap[0].Value != 99.5 {
		t.Fatalf("points = %+v; want one {1700000000 99.5}", snap)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameMetricsKeyedByReceiptTime(t *testing.T) {
	h, set, _, publisher := newTestHandler(false)

	h.HandleFrame([]byte(`{"type":"metrics","symbol":"AAPL","vwap":101.2,"sma":null,"ema20":100.9}`))

	vwap := set.Snapshot(0)[models.SeriesVWAP]
	if len(vwap) != 1 {
		t.Fatalf("vwap points = %d; want 1", len(vwap))
	}
	// Keyed by the injected clock, not by any frame field.
	if got, want := vwap[0].TimeSeconds, int64(1700000100); got != want {
		t.Fatalf("vwap time = %d; want %d", got, want)
	}
	if got := set.Len(models.SeriesSMA); got != 0 {
		t.Fatalf("sma points = %d; want 0", got)
	}

	if len(publisher.metrics) != 1 || publisher.metrics[0].Symbol != "AAPL" {
		t.Fatalf("published metrics = %+v; want one for AAPL", publisher.metrics)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameControlMarker(t *testing.T) {
	h, set, activityLog, publisher := newTestHandler(false)

	h.HandleFrame([]byte(`{"_ws_error":true,"error":"connection reset"}`))

	if got := activityLog.Size(); got != 1 {
		t.Fatalf("log lines = %d; want 1", got)
	}
	if got, want := publisher.logLines[0], "WebSocket error: connection reset"; got != want {
		t.Fatalf("line = %q; want %q", got, want)
	}
	if got := set.Len(models.SeriesPrice); got != 0 {
		t.Fatalf("price points = %d; want 0", got)
	}

	// The channel stays usable after an upstream close marker.
	h.HandleFrame([]byte(`{"_ws_closed":true,"msg":"bye"}`))
	h.HandleFrame([]byte(`{"p":1.0,"ts":1700000001}`))
	if got := set.Len(models.SeriesPrice); got != 1 {
		t.Fatalf("price points after close marker = %d; want 1", got)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameMalformedDropped(t *testing.T) {
	h, set, activityLog, _ := newTestHandler(false)

	h.HandleFrame([]byte(`{"p":1.0,`))
	h.HandleFrame([]byte(``))

	if got := set.Len(models.SeriesPrice); got != 0 {
		t.Fatalf("price points = %d; want 0", got)
	}
	if got := activityLog.Size(); got != 0 {
		t.Fatalf("log lines = %d; want 0", got)
	}
}

// -----------------------------------------------------------------------------

func TestHandleFrameLocalMetricsEngine(t *testing.T) {
	h, set, _, publisher := newTestHandler(true)

	// First tick seeds the window and emits the first throttled push.
	h.HandleFrame([]byte(`{"T":"t","s":"AAPL","p":100.0,"t":1700000000000,"size":2}`))

	if len(publisher.metrics) != 1 {
		t.Fatalf("metric pushes = %d; want 1", len(publisher.metrics))
	}
	mp := publisher.metrics[0]
	if mp.Symbol != "AAPL" {
		t.Fatalf("symbol = %q; want AAPL", mp.Symbol)
	}
	if mp.VWAP == nil || *mp.VWAP != 100.0 {
		t.Fatalf("vwap = %v; want 100.0", mp.VWAP)
	}
	if got := set.Len(models.SeriesVWAP); got != 1 {
		t.Fatalf("vwap points = %d; want 1", got)
	}

	// Same receipt instant: the throttle suppresses the second push.
	h.HandleFrame([]byte(`{"T":"t","s":"AAPL","p":102.0,"t":1700000000400,"size":2}`))
	if len(publisher.metrics) != 1 {
		t.Fatalf("metric pushes = %d; want still 1", len(publisher.metrics))
	}

	// A tick in the next second interval closes the first bar.
	h.HandleFrame([]byte(`{"T":"t","s":"AAPL","p":103.0,"t":1700000001100,"size":1}`))
	prices := set.Snapshot(0)[models.SeriesPrice]
	found := false
	for _, p := range prices {
		if p.TimeSeconds == 1700000000 && p.Value == 102.0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("finished bar close not pushed; price series = %+v", prices)
	}
}

// -----------------------------------------------------------------------------

func TestStreamURL(t *testing.T) {
	h, _, _, _ := newTestHandler(false)
	if got, want := h.StreamURL(), "ws://127.0.0.1:8000/ws"; got != want {
		t.Fatalf("url = %q; want %q", got, want)
	}
}
