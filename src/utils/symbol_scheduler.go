package utils

import (
	"sync"
	"time"

	"stream-viewer/src/logger"
)

// -----------------------------------------------------------------------------
// SymbolScheduler tracks the trading calendar of the single active
// subscription so the status line can say whether its market is open.
// -----------------------------------------------------------------------------

type SymbolScheduler struct {
	symbol   string
	calendar *TradingCalendar
	Logger   *logger.Logger
	mu       sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSymbolScheduler(l *logger.Logger) *SymbolScheduler {
	return &SymbolScheduler{Logger: l}
}

// -----------------------------------------------------------------------------

// SetSymbol maps the active symbol to its exchange calendar.
func (ss *SymbolScheduler) SetSymbol(symbol string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.symbol = symbol
	ss.calendar = GetCalendar(symbol)
	ss.Logger.Info("SymbolScheduler: mapped %s to its exchange calendar", symbol)
}

// -----------------------------------------------------------------------------

// Clear drops the calendar when the subscription is torn down.
func (ss *SymbolScheduler) Clear() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.symbol = ""
	ss.calendar = nil
}

// -----------------------------------------------------------------------------

// MarketOpen reports whether the active symbol's market is open right now.
// The second return is false when no subscription is active.
func (ss *SymbolScheduler) MarketOpen() (bool, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if ss.calendar == nil {
		return false, false
	}
	return ss.calendar.IsOpenOnMinute(time.Now().UTC()), true
}
