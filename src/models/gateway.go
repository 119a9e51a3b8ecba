package models

// -----------------------------------------------------------------------------
// Stream gateway REST payloads (all POST, JSON bodies)
// -----------------------------------------------------------------------------

type MConnectResponse struct {
	Running bool `json:"running"`
	Started bool `json:"started"`
}

type MDisconnectResponse struct {
	OK      bool `json:"ok"`
	Stopped bool `json:"stopped"`
}

type MSubscribeRequest struct {
	Symbol string `json:"symbol"`
}

// MSubscribeResponse doubles as the unsubscribe response: the gateway answers
// both with {ok, symbol} or {ok:false, error}.
type MSubscribeResponse struct {
	OK     bool   `json:"ok"`
	Symbol string `json:"symbol,omitempty"`
	Error  string `json:"error,omitempty"`
}
