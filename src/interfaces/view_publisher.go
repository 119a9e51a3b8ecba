package interfaces

import "stream-viewer/src/models"

// -----------------------------------------------------------------------------
// IViewPublisher pushes non-chart view changes to the connected widgets.
// -----------------------------------------------------------------------------

type IViewPublisher interface {

	// -----------------------------------------------------------------------------

	// PublishLog appends one rendered line to the raw-message feed.
	PublishLog(line string)

	// -----------------------------------------------------------------------------

	// PublishLogCleared tells widgets the activity log was emptied.
	PublishLogCleared()

	// -----------------------------------------------------------------------------

	// PublishStatus replaces the displayed session status.
	PublishStatus(status models.MSessionStatus)

	// -----------------------------------------------------------------------------

	// PublishNotification replaces the displayed notification banner.
	PublishNotification(n models.MNotification)

	// -----------------------------------------------------------------------------

	// PublishMetrics refreshes the indicator panel, including its symbol label.
	PublishMetrics(mp models.MMetricsPoint)
}
