package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"stream-viewer/src/analysis"
	"stream-viewer/src/helpers"
	"stream-viewer/src/interfaces"
	"stream-viewer/src/logger"
	"stream-viewer/src/models"
	"stream-viewer/src/normalizer"
	"stream-viewer/src/series"
)

// -----------------------------------------------------------------------------
// Handler owns the single long-lived ingestion channel to the gateway. It
// dials once at startup and never reconnects: if the channel drops, the
// charts simply stop updating until the process restarts. Frame routing is
// independent of session state, so frames that arrive after a teardown are
// processed like any other.
// -----------------------------------------------------------------------------

type Handler struct {
	Config *models.MConfig
	Logger *logger.Logger
	Errors *helpers.ErrorHandler

	Series    *series.Set
	Log       *series.LogBuffer
	Publisher interfaces.IViewPublisher
	Engine    *analysis.Engine // nil unless local metrics are on

	conn       *websocket.Conn
	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
	mu         sync.Mutex

	// Injectable clock for receipt-time keying.
	now func() time.Time
}

// -----------------------------------------------------------------------------

func NewHandler(
	cfg *models.MConfig,
	set *series.Set,
	activityLog *series.LogBuffer,
	publisher interfaces.IViewPublisher,
	engine *analysis.Engine,
	log *logger.Logger,
) *Handler {
	return &Handler{
		Config:    cfg,
		Logger:    log,
		Errors:    helpers.NewErrorHandler(cfg.LogLevel),
		Series:    set,
		Log:       activityLog,
		Publisher: publisher,
		Engine:    engine,
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

// StreamURL derives the websocket endpoint from the gateway base URL.
func (h *Handler) StreamURL() string {
	url := h.Config.Gateway.BaseURL
	if strings.HasPrefix(url, "https://") {
		url = "wss://" + strings.TrimPrefix(url, "https://")
	} else if strings.HasPrefix(url, "http://") {
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + h.Config.Gateway.WSPath
}

// -----------------------------------------------------------------------------

// Start dials the gateway and launches the read loop. Dialing happens once;
// a failed dial is fatal to the ingestion channel.
func (h *Handler) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.isRunning.Load() {
		return fmt.Errorf("ingestion handler is already running")
	}

	ctx, cancel := context.WithCancel(parentCtx)

	url := h.StreamURL()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		cancel()
		return helpers.NewNetworkError("dial stream "+url, err)
	}

	h.conn = conn
	h.cancelFunc = cancel
	h.isRunning.Store(true)
	h.Logger.Info("ingestion channel open: %s", url)

	wg.Add(1)
	go h.readLoop(ctx, wg)
	return nil
}

// -----------------------------------------------------------------------------

func (h *Handler) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.isRunning.Load() {
		return nil
	}
	h.cancelFunc()
	return nil
}

// -----------------------------------------------------------------------------

// readLoop drains frames until the connection dies or the context ends.
func (h *Handler) readLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer h.isRunning.Store(false)
	defer h.conn.Close()

	// Unblock ReadMessage on shutdown.
	go func() {
		<-ctx.Done()
		h.conn.Close()
	}()

	for {
		_, raw, err := h.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				h.Logger.Warning("ingestion channel closed: %v", err)
			}
			return
		}
		h.HandleFrame(raw)
	}
}

// -----------------------------------------------------------------------------

// HandleFrame routes one raw frame. Gateways batch events, so a top-level
// array is unwrapped and each element handled on its own. Malformed frames
// are logged and dropped; they never abort the loop.
func (h *Handler) HandleFrame(raw []byte) {
	if !gjson.ValidBytes(raw) {
		h.Errors.Handle(helpers.NewStreamError(fmt.Sprintf("malformed frame dropped: %.120s", string(raw)), nil), "stream")
		return
	}

	parsed := gjson.ParseBytes(raw)
	if parsed.IsArray() {
		parsed.ForEach(func(_, item gjson.Result) bool {
			h.handleEvent(item)
			return true
		})
		return
	}
	h.handleEvent(parsed)
}

// -----------------------------------------------------------------------------

func (h *Handler) handleEvent(evt gjson.Result) {
	normalized := normalizer.Classify(evt)

	switch normalized.Kind {
	case models.KindTrade:
		h.Series.Push(models.SeriesPrice, models.MCanonicalPoint{
			TimeSeconds: normalized.Trade.TimeSeconds,
			Value:       normalized.Trade.Price,
		})
		if evt.Get("T").String() == "t" {
			h.appendLog(normalizer.TradeLine(evt))
		}
		h.feedEngine(evt, normalized.Trade)

	case models.KindBar:
		h.Series.Push(models.SeriesPrice, models.MCanonicalPoint{
			TimeSeconds: normalized.Bar.TimeSeconds,
			Value:       normalized.Bar.Close,
		})

	case models.KindMetrics:
		h.applyMetrics(normalized.Metrics)

	case models.KindDisplayOnly:
		h.appendLog(normalized.Display)

	default:
		h.Logger.Debug("unrecognized frame: %.120s", evt.Raw)
	}
}

// -----------------------------------------------------------------------------

// feedEngine forwards a trade into the local indicator engine when enabled.
// Locally finished bars and throttled metric pushes come back out through
// the same series/overlay path the gateway's own frames use.
func (h *Handler) feedEngine(evt gjson.Result, trade models.MTradePoint) {
	if h.Engine == nil {
		return
	}

	symbol := ""
	for _, key := range []string{"s", "symbol", "S"} {
		if field := evt.Get(key); field.Exists() {
			symbol = field.String()
			break
		}
	}
	if symbol == "" {
		return
	}

	size := 1.0
	if field := evt.Get("size"); field.Type == gjson.Number {
		size = field.Num
	}

	nowMs := h.now().UnixMilli()
	metrics, bar := h.Engine.AddTick(symbol, trade.TimeSeconds*1000, trade.Price, size, nowMs)
	if bar != nil {
		h.Series.Push(models.SeriesPrice, models.MCanonicalPoint{
			TimeSeconds: bar.TimeSeconds,
			Value:       bar.Close,
		})
	}
	if metrics != nil {
		h.applyMetrics(*metrics)
	}
}

// -----------------------------------------------------------------------------

// applyMetrics keys the overlays by client receipt time: metric pushes are
// throttled upstream and carry no point-in-time of their own.
func (h *Handler) applyMetrics(mp models.MMetricsPoint) {
	receipt := int64(math.Round(float64(h.now().UnixMilli()) / 1000))
	h.Series.ApplyMetrics(mp, receipt)
	if h.Publisher != nil {
		h.Publisher.PublishMetrics(mp)
	}
}

// -----------------------------------------------------------------------------

func (h *Handler) appendLog(line string) {
	h.Log.Append(line)
	if h.Publisher != nil {
		h.Publisher.PublishLog(line)
	}
}
