package normalizer

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------

func TestResolveTimestampMs(t *testing.T) {
	cases := []struct {
		name   string
		frame  string
		wantMs float64
		wantOK bool
	}{
		{
			name:   "t as ten digit string means whole seconds",
			frame:  `{"t":"1700000000"}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "t as thirteen digit number passes through",
			frame:  `{"t":1700000000000}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "t as ISO date string parses as calendar",
			frame:  `{"t":"2023-11-14T22:13:20Z"}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "timestamp accepts calendar strings only",
			frame:  `{"timestamp":"2023-11-14 22:13:20"}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "numeric timestamp is not usable",
			frame:  `{"timestamp":1700000000}`,
			wantOK: false,
		},
		{
			name:   "ts as ten digit number means whole seconds",
			frame:  `{"ts":1700000000}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "ts as thirteen digit string passes through",
			frame:  `{"ts":"1700000000123"}`,
			wantMs: 1700000000123,
			wantOK: true,
		},
		{
			name:   "_epoch_ms is already milliseconds",
			frame:  `{"_epoch_ms":1700000000500}`,
			wantMs: 1700000000500,
			wantOK: true,
		},
		{
			name:   "t wins over later candidates",
			frame:  `{"t":"1700000000","ts":1600000000,"_epoch_ms":1}`,
			wantMs: 1700000000000,
			wantOK: true,
		},
		{
			name:   "no time field",
			frame:  `{"p":101.5}`,
			wantOK: false,
		},
		{
			name:   "non numeric non calendar t",
			frame:  `{"t":"soon"}`,
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ms, ok := ResolveTimestampMs(gjson.Parse(tc.frame))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tc.wantOK)
			}
			if ok && ms != tc.wantMs {
				t.Fatalf("ms = %v; want %v", ms, tc.wantMs)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestClassifyTrade(t *testing.T) {
	n := Classify(gjson.Parse(`{"T":"t","s":"AAPL","p":101.5,"t":"1700000000"}`))
	if n.Kind != models.KindTrade {
		t.Fatalf("kind = %v; want trade", n.Kind)
	}
	if got, want := n.Trade.TimeSeconds, int64(1700000000); got != want {
		t.Fatalf("time = %d; want %d", got, want)
	}
	if got, want := n.Trade.Price, 101.5; got != want {
		t.Fatalf("price = %v; want %v", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyRoundsMillisecondsToWholeSeconds(t *testing.T) {
	n := Classify(gjson.Parse(`{"p":1.0,"t":1699999999600}`))
	if n.Kind != models.KindTrade {
		t.Fatalf("kind = %v; want trade", n.Kind)
	}
	if got, want := n.Trade.TimeSeconds, int64(1700000000); got != want {
		t.Fatalf("time = %d; want %d", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyPriceFallbackOrder(t *testing.T) {
	cases := []struct {
		name      string
		frame     string
		wantKind  models.MEventKind
		wantPrice float64
	}{
		{
			name:      "p wins over price",
			frame:     `{"p":1.5,"price":9.9,"ts":1700000000}`,
			wantKind:  models.KindTrade,
			wantPrice: 1.5,
		},
		{
			name:      "price used when p absent",
			frame:     `{"price":2.5,"ts":1700000000}`,
			wantKind:  models.KindTrade,
			wantPrice: 2.5,
		},
		{
			name:      "last used when p and price absent",
			frame:     `{"last":3.5,"ts":1700000000}`,
			wantKind:  models.KindTrade,
			wantPrice: 3.5,
		},
		{
			name:      "px as numeric string",
			frame:     `{"px":"4.5","ts":1700000000}`,
			wantKind:  models.KindTrade,
			wantPrice: 4.5,
		},
		{
			name:     "first present field wins even when null",
			frame:    `{"p":null,"price":9.9,"ts":1700000000}`,
			wantKind: models.KindUnrecognized,
		},
		{
			name:     "non numeric price is not chart eligible",
			frame:    `{"p":"n/a","ts":1700000000}`,
			wantKind: models.KindUnrecognized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := Classify(gjson.Parse(tc.frame))
			if n.Kind != tc.wantKind {
				t.Fatalf("kind = %v; want %v", n.Kind, tc.wantKind)
			}
			if n.Kind == models.KindTrade && n.Trade.Price != tc.wantPrice {
				t.Fatalf("price = %v; want %v", n.Trade.Price, tc.wantPrice)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestClassifyBar(t *testing.T) {
	n := Classify(gjson.Parse(`{"type":"bar","time":1700000000,"close":99.5,"open":98.0}`))
	if n.Kind != models.KindBar {
		t.Fatalf("kind = %v; want bar", n.Kind)
	}
	if got, want := n.Bar.TimeSeconds, int64(1700000000); got != want {
		t.Fatalf("time = %d; want %d", got, want)
	}
	if got, want := n.Bar.Close, 99.5; got != want {
		t.Fatalf("close = %v; want %v", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyBarMissingFields(t *testing.T) {
	// A bar without its close cannot chart and has no fallback shape.
	n := Classify(gjson.Parse(`{"type":"bar","time":1700000000}`))
	if n.Kind != models.KindUnrecognized {
		t.Fatalf("kind = %v; want unrecognized", n.Kind)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyMetricsWithNullIndicator(t *testing.T) {
	n := Classify(gjson.Parse(`{"type":"metrics","symbol":"AAPL","vwap":101.2,"sma":null,"ema20":100.9}`))
	if n.Kind != models.KindMetrics {
		t.Fatalf("kind = %v; want metrics", n.Kind)
	}
	if got, want := n.Metrics.Symbol, "AAPL"; got != want {
		t.Fatalf("symbol = %q; want %q", got, want)
	}
	if n.Metrics.VWAP == nil || *n.Metrics.VWAP != 101.2 {
		t.Fatalf("vwap = %v; want 101.2", n.Metrics.VWAP)
	}
	if n.Metrics.SMA != nil {
		t.Fatalf("sma = %v; want nil", *n.Metrics.SMA)
	}
	if n.Metrics.EMA20 == nil || *n.Metrics.EMA20 != 100.9 {
		t.Fatalf("ema20 = %v; want 100.9", n.Metrics.EMA20)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyMetricsWithoutSymbol(t *testing.T) {
	n := Classify(gjson.Parse(`{"type":"metrics","vwap":101.2}`))
	if n.Kind != models.KindUnrecognized {
		t.Fatalf("kind = %v; want unrecognized", n.Kind)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyControlMarkers(t *testing.T) {
	n := Classify(gjson.Parse(`{"_ws_error":true,"error":"connection reset"}`))
	if n.Kind != models.KindDisplayOnly {
		t.Fatalf("kind = %v; want display only", n.Kind)
	}
	if got, want := n.Display, "WebSocket error: connection reset"; got != want {
		t.Fatalf("display = %q; want %q", got, want)
	}

	n = Classify(gjson.Parse(`{"_ws_closed":true,"msg":"bye"}`))
	if n.Kind != models.KindDisplayOnly {
		t.Fatalf("kind = %v; want display only", n.Kind)
	}
	if got, want := n.Display, "WebSocket closed: bye"; got != want {
		t.Fatalf("display = %q; want %q", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyTickWithoutPointIsDisplayOnly(t *testing.T) {
	n := Classify(gjson.Parse(`{"T":"t","s":"AAPL","x":1}`))
	if n.Kind != models.KindDisplayOnly {
		t.Fatalf("kind = %v; want display only", n.Kind)
	}
}

// -----------------------------------------------------------------------------

func TestClassifyNonObject(t *testing.T) {
	for _, frame := range []string{`"hello"`, `42`, `null`} {
		n := Classify(gjson.Parse(frame))
		if n.Kind != models.KindUnrecognized {
			t.Fatalf("Classify(%s) kind = %v; want unrecognized", frame, n.Kind)
		}
	}
}

// -----------------------------------------------------------------------------

func TestTradeLine(t *testing.T) {
	line := TradeLine(gjson.Parse(`{"T":"t","s":"AAPL","p":101.5,"t":"1700000000"}`))
	wantTime := time.UnixMilli(1700000000000).Local().Format("2006-01-02 15:04:05")
	if got, want := line, wantTime+" | AAPL | 101.5"; got != want {
		t.Fatalf("line = %q; want %q", got, want)
	}
}

// -----------------------------------------------------------------------------

func TestTradeLineSymbolFallback(t *testing.T) {
	line := TradeLine(gjson.Parse(`{"T":"t","symbol":"TSLA","p":"200"}`))
	if got, want := line, " | TSLA | 200"; got != want {
		t.Fatalf("line = %q; want %q", got, want)
	}
}
