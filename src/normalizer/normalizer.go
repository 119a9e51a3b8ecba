package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Stream Point Normalizer
//
// Turns one decoded frame into a tagged variant. Frames arrive in several
// shapes (tick, bar, metrics, upstream control markers) with several timestamp
// encodings; everything chart-facing comes out as whole unix seconds.
// -----------------------------------------------------------------------------

// Calendar layouts tried for date-string timestamps, most specific first.
var calendarLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// -----------------------------------------------------------------------------

// Classify normalizes one parsed frame. The variant order is fixed: control
// markers, metrics, bar, trade, display-only tick, unrecognized.
func Classify(evt gjson.Result) models.MNormalized {
	if !evt.IsObject() {
		return models.MNormalized{Kind: models.KindUnrecognized}
	}

	if line, ok := controlLine(evt); ok {
		return models.MNormalized{Kind: models.KindDisplayOnly, Display: line}
	}

	switch evt.Get("type").String() {
	case "metrics":
		if evt.Get("symbol").Exists() {
			if mp, ok := decodeMetrics(evt); ok {
				return models.MNormalized{Kind: models.KindMetrics, Metrics: mp}
			}
		}
	case "bar":
		if bp, ok := decodeBar(evt); ok {
			return models.MNormalized{Kind: models.KindBar, Bar: bp}
		}
	}

	price, priceOK := resolvePrice(evt)
	tsMs, tsOK := ResolveTimestampMs(evt)
	if priceOK && tsOK {
		return models.MNormalized{
			Kind: models.KindTrade,
			Trade: models.MTradePoint{
				TimeSeconds: msToSeconds(tsMs),
				Price:       price,
			},
		}
	}

	// Tick shape without a chart-eligible point still feeds the text log.
	if evt.Get("T").String() == "t" {
		return models.MNormalized{Kind: models.KindDisplayOnly, Display: TradeLine(evt)}
	}

	return models.MNormalized{Kind: models.KindUnrecognized}
}

// -----------------------------------------------------------------------------

// controlLine recognizes the upstream streamer's error/close marker objects.
func controlLine(evt gjson.Result) (string, bool) {
	if evt.Get("_ws_error").Bool() {
		return "WebSocket error: " + evt.Get("error").String(), true
	}
	if evt.Get("_ws_closed").Bool() {
		return "WebSocket closed: " + evt.Get("msg").String(), true
	}
	return "", false
}

// -----------------------------------------------------------------------------

// decodeMetrics maps the loose metrics frame into its typed form. Absent or
// null indicator fields stay nil so the matching overlay is left untouched.
func decodeMetrics(evt gjson.Result) (models.MMetricsPoint, bool) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(evt.Raw), &raw); err != nil {
		return models.MMetricsPoint{}, false
	}

	var mp models.MMetricsPoint
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &mp,
	})
	if err != nil {
		return models.MMetricsPoint{}, false
	}
	if err := decoder.Decode(raw); err != nil {
		return models.MMetricsPoint{}, false
	}
	if mp.Symbol == "" {
		return models.MMetricsPoint{}, false
	}
	return mp, true
}

// -----------------------------------------------------------------------------

// decodeBar requires both close and time; time arrives already in whole
// seconds and gets no conversion.
func decodeBar(evt gjson.Result) (models.MBarPoint, bool) {
	closeField := evt.Get("close")
	timeField := evt.Get("time")
	if !closeField.Exists() || !timeField.Exists() {
		return models.MBarPoint{}, false
	}

	closeVal, ok := numericValue(closeField)
	if !ok {
		return models.MBarPoint{}, false
	}
	timeVal, ok := numericValue(timeField)
	if !ok {
		return models.MBarPoint{}, false
	}

	return models.MBarPoint{
		TimeSeconds: int64(timeVal),
		Close:       closeVal,
	}, true
}

// -----------------------------------------------------------------------------

// resolvePrice applies the price fallback order. The first PRESENT field
// wins; if its value is not numeric the frame is simply not chart-eligible.
func resolvePrice(evt gjson.Result) (float64, bool) {
	for _, key := range []string{"p", "price", "last", "px"} {
		field := evt.Get(key)
		if !field.Exists() {
			continue
		}
		return numericValue(field)
	}
	return 0, false
}

// -----------------------------------------------------------------------------

// ResolveTimestampMs applies the timestamp resolution rules in order, first
// match wins:
//
//  1. "t": calendar parse, else numeric (10-digit string means whole seconds).
//  2. "timestamp": calendar parse only.
//  3. "ts": numeric with the 10-digit rule.
//  4. "_epoch_ms": numeric, already milliseconds.
//  5. otherwise the frame carries no usable time.
func ResolveTimestampMs(evt gjson.Result) (float64, bool) {
	if t := evt.Get("t"); t.Exists() {
		if ms, ok := parseCalendar(t); ok {
			return ms, true
		}
		if num, ok := numericValue(t); ok {
			if digitLength(t) == 10 {
				return num * 1000, true
			}
			return num, true
		}
	}

	if ts := evt.Get("timestamp"); ts.Exists() {
		if ms, ok := parseCalendar(ts); ok {
			return ms, true
		}
	}

	if ts := evt.Get("ts"); ts.Exists() {
		if num, ok := numericValue(ts); ok {
			if digitLength(ts) == 10 {
				return num * 1000, true
			}
			return num, true
		}
	}

	if em := evt.Get("_epoch_ms"); em.Exists() {
		if num, ok := numericValue(em); ok {
			return num, true
		}
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// TradeLine renders a tick frame as the log line "<time> | <symbol> | <price>".
func TradeLine(evt gjson.Result) string {
	timeText := ""
	if t := evt.Get("t"); t.Exists() {
		if ms, ok := parseCalendar(t); ok {
			timeText = time.UnixMilli(int64(ms)).Local().Format("2006-01-02 15:04:05")
		} else if num, ok := numericValue(t); ok {
			if digitLength(t) == 10 {
				num *= 1000
			}
			timeText = time.UnixMilli(int64(num)).Local().Format("2006-01-02 15:04:05")
		} else {
			timeText = t.String()
		}
	}

	symbol := ""
	for _, key := range []string{"s", "symbol", "S"} {
		if field := evt.Get(key); field.Exists() {
			symbol = field.String()
			break
		}
	}

	return timeText + " | " + symbol + " | " + evt.Get("p").String()
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// parseCalendar attempts date-string parsing, returning milliseconds.
func parseCalendar(field gjson.Result) (float64, bool) {
	if field.Type != gjson.String {
		return 0, false
	}
	s := strings.TrimSpace(field.Str)
	if s == "" {
		return 0, false
	}
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixMilli()), true
		}
	}
	return 0, false
}

// -----------------------------------------------------------------------------

// numericValue extracts a float from a JSON number or a numeric string.
func numericValue(field gjson.Result) (float64, bool) {
	switch field.Type {
	case gjson.Number:
		return field.Num, true
	case gjson.String:
		num, err := strconv.ParseFloat(strings.TrimSpace(field.Str), 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

// -----------------------------------------------------------------------------

// digitLength is the length of the value's string form, matching how the
// original client distinguished second from millisecond epochs.
func digitLength(field gjson.Result) int {
	if field.Type == gjson.String {
		return len(strings.TrimSpace(field.Str))
	}
	return len(field.String())
}

// -----------------------------------------------------------------------------

// msToSeconds rounds a millisecond epoch to the chart's whole-second axis.
func msToSeconds(ms float64) int64 {
	return int64(math.Round(ms / 1000))
}
