package models

// -----------------------------------------------------------------------------
// Viewer broadcast payloads (local hub -> browser widgets)
// -----------------------------------------------------------------------------

const (
	ViewTypeSnapshot     = "SNAPSHOT"
	ViewTypePoint        = "POINT"
	ViewTypeLog          = "LOG"
	ViewTypeStatus       = "STATUS"
	ViewTypeNotification = "NOTIFICATION"
	ViewTypeLogCleared   = "LOG_CLEARED"
	ViewTypeMetrics      = "METRICS"
)

// -----------------------------------------------------------------------------

// MNotificationKind distinguishes success from error banners.
type MNotificationKind string

const (
	NotifySuccess MNotificationKind = "success"
	NotifyError   MNotificationKind = "error"
)

// MNotification is the ephemeral banner state.
type MNotification struct {
	Message string            `json:"message"`
	Kind    MNotificationKind `json:"kind"`
	Visible bool              `json:"visible"`
}

// -----------------------------------------------------------------------------

// MViewUpdate is one incremental update pushed to every connected widget.
// Exactly one payload field is set, selected by Type, except SNAPSHOT which
// carries the full state for late joiners.
type MViewUpdate struct {
	Type         string                       `json:"type"`
	Series       string                       `json:"series,omitempty"`
	Point        *MCanonicalPoint             `json:"point,omitempty"`
	Line         string                       `json:"line,omitempty"`
	Status       *MSessionStatus              `json:"status,omitempty"`
	Notification *MNotification               `json:"notification,omitempty"`
	SeriesData   map[string][]MCanonicalPoint `json:"series_data,omitempty"`
	LogLines     []string                     `json:"log_lines,omitempty"`
	Metrics      *MMetricsPoint               `json:"metrics,omitempty"`
}
