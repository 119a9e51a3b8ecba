package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stream-viewer/src/helpers"
	"stream-viewer/src/interfaces"
	"stream-viewer/src/logger"
	"stream-viewer/src/models"
	"stream-viewer/src/series"
	"stream-viewer/src/utils"
)

// -----------------------------------------------------------------------------
// Session is the connect/subscribe state machine. It gates which gateway
// calls are legal, adopts state only from confirmed responses, and is the
// sole writer of the UI-facing status text. A failed or malformed response
// leaves the state untouched; nothing is retried automatically.
// -----------------------------------------------------------------------------

type Session struct {
	Gateway   interfaces.IGateway
	Notifier  interfaces.INotifier
	Log       *series.LogBuffer
	Publisher interfaces.IViewPublisher
	Scheduler *utils.SymbolScheduler
	Logger    *logger.Logger

	state  models.MSessionState
	symbol string
	mu     sync.Mutex
}

// -----------------------------------------------------------------------------

func NewSession(
	gw interfaces.IGateway,
	notifier interfaces.INotifier,
	activityLog *series.LogBuffer,
	publisher interfaces.IViewPublisher,
	scheduler *utils.SymbolScheduler,
	log *logger.Logger,
) *Session {
	return &Session{
		Gateway:   gw,
		Notifier:  notifier,
		Log:       activityLog,
		Publisher: publisher,
		Scheduler: scheduler,
		Logger:    log,
		state:     models.StateDisconnected,
	}
}

// -----------------------------------------------------------------------------

// Connect starts (or confirms) the upstream streamer. Both started=true and
// started=false count as success as long as the streamer reports running.
func (s *Session) Connect(ctx context.Context) error {
	resp, err := s.Gateway.Connect(ctx)
	if err != nil {
		s.Logger.Error("connect failed: %v", err)
		s.Notifier.Error("Failed to start streamer. Check gateway logs.")
		return err
	}

	if !resp.Running {
		s.Notifier.Error(fmt.Sprintf("Unexpected connect response: running=%v started=%v", resp.Running, resp.Started))
		return helpers.NewStreamError("streamer not running after connect", nil)
	}

	s.mu.Lock()
	if resp.Started {
		// Fresh streamer: any previous subscription is gone server-side.
		s.state = models.StateConnected
		s.symbol = ""
		s.Scheduler.Clear()
	} else if s.state == models.StateDisconnected {
		s.state = models.StateConnected
	}
	status := s.statusLocked()
	s.mu.Unlock()

	s.publishStatus(status)
	if resp.Started {
		s.Notifier.Success("Streamer started successfully.")
	} else {
		s.Notifier.Success("Streamer is already connected.")
	}
	s.Logger.Info("streamer connected (started=%v)", resp.Started)
	return nil
}

// -----------------------------------------------------------------------------

// Disconnect stops the streamer; success requires ok && stopped.
func (s *Session) Disconnect(ctx context.Context) error {
	resp, err := s.Gateway.Disconnect(ctx)
	if err != nil {
		s.Logger.Error("disconnect failed: %v", err)
		s.Notifier.Error("Failed to disconnect streamer. Check gateway logs.")
		return err
	}

	if !resp.OK || !resp.Stopped {
		s.Notifier.Error(fmt.Sprintf("Unexpected disconnect response: ok=%v stopped=%v", resp.OK, resp.Stopped))
		return helpers.NewStreamError("streamer not stopped after disconnect", nil)
	}

	s.mu.Lock()
	s.state = models.StateDisconnected
	s.symbol = ""
	s.Scheduler.Clear()
	status := s.statusLocked()
	s.mu.Unlock()

	s.publishStatus(status)
	s.Notifier.Success("Streamer disconnected successfully.")
	s.Logger.Info("streamer disconnected")
	return nil
}

// -----------------------------------------------------------------------------

// Subscribe asks the gateway to track one symbol. Calling from Disconnected
// is rejected locally: no network call, no state change.
func (s *Session) Subscribe(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		s.Notifier.Error("Please enter a symbol.")
		return helpers.NewValidationError("empty symbol")
	}

	s.mu.Lock()
	disconnected := s.state == models.StateDisconnected
	s.mu.Unlock()
	if disconnected {
		s.Notifier.Error("Please connect the streamer first.")
		return helpers.NewValidationError("subscribe while disconnected")
	}

	resp, err := s.Gateway.Subscribe(ctx, symbol)
	if err != nil {
		s.Logger.Error("subscribe %s failed: %v", symbol, err)
		s.Notifier.Error("Subscribe failed. Check gateway logs.")
		return err
	}

	if !resp.OK {
		s.Notifier.Error("Subscribe failed: " + resp.Error)
		return helpers.NewStreamError("subscribe rejected: "+resp.Error, nil)
	}

	// The gateway may normalize the symbol; its value wins.
	adopted := resp.Symbol
	if adopted == "" {
		adopted = symbol
	}

	s.mu.Lock()
	s.state = models.StateSubscribed
	s.symbol = adopted
	s.Scheduler.SetSymbol(adopted)
	status := s.statusLocked()
	s.mu.Unlock()

	s.publishStatus(status)
	s.Notifier.Success("Subscribed: " + adopted)
	s.Logger.Info("subscribed to %s", adopted)
	return nil
}

// -----------------------------------------------------------------------------

// Unsubscribe tears the subscription down. On confirmation the current
// symbol is cleared, the activity log emptied, and the symbol input
// unlocked. Point updates already scheduled to render are not cancelled.
func (s *Session) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	symbol := s.symbol
	s.mu.Unlock()

	if symbol == "" {
		s.Notifier.Error("No active subscription to stop.")
		return helpers.NewValidationError("unsubscribe without subscription")
	}

	resp, err := s.Gateway.Unsubscribe(ctx, symbol)
	if err != nil {
		s.Logger.Error("unsubscribe %s failed: %v", symbol, err)
		s.Notifier.Error("Unsubscribe failed. Check gateway logs.")
		return err
	}

	if !resp.OK {
		s.Notifier.Error("Unsubscribe failed: " + resp.Error)
		return helpers.NewStreamError("unsubscribe rejected: "+resp.Error, nil)
	}

	s.mu.Lock()
	s.state = models.StateConnected
	s.symbol = ""
	s.Scheduler.Clear()
	status := s.statusLocked()
	s.mu.Unlock()

	s.Log.Clear()
	if s.Publisher != nil {
		s.Publisher.PublishLogCleared()
	}
	s.publishStatus(status)
	s.Notifier.Success("Unsubscribed successfully.")
	s.Logger.Info("unsubscribed from %s", symbol)
	return nil
}

// -----------------------------------------------------------------------------

// Status returns the current UI-facing snapshot.
func (s *Session) Status() models.MSessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// -----------------------------------------------------------------------------

// statusLocked builds the snapshot. Callers hold s.mu.
func (s *Session) statusLocked() models.MSessionStatus {
	status := models.MSessionStatus{
		State:      s.state,
		Symbol:     s.symbol,
		StreamText: "Stream: Disconnected",
		SymbolText: "Symbol: N/A",
	}

	if s.state != models.StateDisconnected {
		status.StreamText = "Stream: Connected"
	}
	if s.state == models.StateSubscribed {
		status.SymbolText = "Symbol: " + s.symbol
		status.InputLocked = true
		if open, ok := s.Scheduler.MarketOpen(); ok {
			status.MarketOpen = &open
		}
	}
	return status
}

// -----------------------------------------------------------------------------

func (s *Session) publishStatus(status models.MSessionStatus) {
	if s.Publisher != nil {
		s.Publisher.PublishStatus(status)
	}
}
