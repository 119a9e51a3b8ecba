package interfaces

import "stream-viewer/src/models"

// -----------------------------------------------------------------------------
// INotifier shows ephemeral outcome banners for user actions.
// -----------------------------------------------------------------------------

type INotifier interface {

	// -----------------------------------------------------------------------------

	// Success shows a success banner, replacing whatever is visible.
	Success(message string)

	// -----------------------------------------------------------------------------

	// Error shows an error banner, replacing whatever is visible.
	Error(message string)

	// -----------------------------------------------------------------------------

	// Current returns the banner state for snapshots.
	Current() models.MNotification
}
