package notify

import (
	"sync"
	"time"

	"stream-viewer/src/interfaces"
	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Sink is the ephemeral, auto-expiring banner. A new notification replaces
// the displayed one immediately and restarts the hide countdown, so the last
// notification always gets its full duration. A stale hide callback that
// already fired is recognized by generation and ignored.
// -----------------------------------------------------------------------------

type Sink struct {
	current   models.MNotification
	timer     *time.Timer
	seq       uint64
	hideAfter time.Duration
	publisher interfaces.IViewPublisher
	mu        sync.Mutex
}

// -----------------------------------------------------------------------------

func NewSink(cfg *models.MConfig, publisher interfaces.IViewPublisher) *Sink {
	return &Sink{
		hideAfter: time.Duration(cfg.Notify.HideAfterMs) * time.Millisecond,
		publisher: publisher,
	}
}

// -----------------------------------------------------------------------------

// Success shows a success banner.
func (s *Sink) Success(message string) {
	s.notify(message, models.NotifySuccess)
}

// -----------------------------------------------------------------------------

// Error shows an error banner.
func (s *Sink) Error(message string) {
	s.notify(message, models.NotifyError)
}

// -----------------------------------------------------------------------------

func (s *Sink) notify(message string, kind models.MNotificationKind) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	gen := s.seq
	s.current = models.MNotification{Message: message, Kind: kind, Visible: true}
	s.timer = time.AfterFunc(s.hideAfter, func() { s.hide(gen) })
	shown := s.current
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishNotification(shown)
	}
}

// -----------------------------------------------------------------------------

// hide expires the banner, unless a newer notification superseded this timer.
func (s *Sink) hide(gen uint64) {
	s.mu.Lock()
	if gen != s.seq {
		s.mu.Unlock()
		return
	}
	s.current.Visible = false
	hidden := s.current
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishNotification(hidden)
	}
}

// -----------------------------------------------------------------------------

// Current returns the banner state for snapshots.
func (s *Sink) Current() models.MNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
