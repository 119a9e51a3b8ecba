package interfaces

import (
	"context"

	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// IGateway is the REST boundary to the backend stream gateway. All calls are
// POST with JSON bodies; any non-2xx status is a call failure regardless of
// body content, and no call is ever retried automatically.
// -----------------------------------------------------------------------------

type IGateway interface {

	// Connect asks the gateway to start (or report) the upstream streamer.
	Connect(ctx context.Context) (*models.MConnectResponse, error)

	// -----------------------------------------------------------------------------

	// Disconnect stops the upstream streamer.
	Disconnect(ctx context.Context) (*models.MDisconnectResponse, error)

	// -----------------------------------------------------------------------------

	// Subscribe asks the gateway to track one ticker symbol.
	Subscribe(ctx context.Context, symbol string) (*models.MSubscribeResponse, error)

	// -----------------------------------------------------------------------------

	// Unsubscribe stops tracking the symbol.
	Unsubscribe(ctx context.Context, symbol string) (*models.MSubscribeResponse, error)
}

// -----------------------------------------------------------------------------
// ISessionControl is what the local action endpoints drive.
// -----------------------------------------------------------------------------

type ISessionControl interface {

	// Connect / Disconnect / Subscribe / Unsubscribe run one user action
	// through the state machine. A nil error means the action was accepted
	// and confirmed by the gateway.
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Subscribe(ctx context.Context, symbol string) error
	Unsubscribe(ctx context.Context) error

	// -----------------------------------------------------------------------------

	// Status returns the current UI-facing session snapshot.
	Status() models.MSessionStatus
}
