package models

// -----------------------------------------------------------------------------
// Session state
// -----------------------------------------------------------------------------

// MSessionState is the connect/subscribe lifecycle of the client session.
type MSessionState string

const (
	StateDisconnected MSessionState = "disconnected"
	StateConnected    MSessionState = "connected"
	StateSubscribed   MSessionState = "subscribed"
)

// -----------------------------------------------------------------------------

// MSessionStatus is the UI-facing snapshot of the session. The session state
// machine is its sole writer; everyone else gets copies.
type MSessionStatus struct {
	State       MSessionState `json:"state"`
	Symbol      string        `json:"symbol"`
	StreamText  string        `json:"stream_text"`
	SymbolText  string        `json:"symbol_text"`
	InputLocked bool          `json:"input_locked"`
	MarketOpen  *bool         `json:"market_open,omitempty"`
}
