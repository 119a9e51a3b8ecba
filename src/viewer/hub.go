package viewer

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main hub loop.
func (s *ViewerServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			// Late joiner gets the full state first
			client.send <- s.buildSnapshot(0)

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}

		case update := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- update:
				default:
					// Client too slow, prune it so the hub never blocks
					delete(s.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

// buildSnapshot assembles the complete view state: every retained series
// point (or the most recent limit per series), the activity log, the session
// status and the current notification banner.
func (s *ViewerServer) buildSnapshot(limit int) *models.MViewUpdate {
	status := s.session.Status()
	notification := s.notifier.Current()

	return &models.MViewUpdate{
		Type:         models.ViewTypeSnapshot,
		SeriesData:   s.series.Snapshot(limit),
		LogLines:     s.log.Lines(),
		Status:       &status,
		Notification: &notification,
	}
}

// -----------------------------------------------------------------------------
// IChartSink Implementation
// -----------------------------------------------------------------------------

// UpdateSeries pushes one incremental point. The chart widget overwrites the
// existing point when the time key matches, so repeated pushes at one second
// are updates, not duplicates.
func (s *ViewerServer) UpdateSeries(seriesName string, point models.MCanonicalPoint) {
	s.broadcast <- &models.MViewUpdate{
		Type:   models.ViewTypePoint,
		Series: seriesName,
		Point:  &point,
	}
}

// -----------------------------------------------------------------------------
// IViewPublisher Implementation
// -----------------------------------------------------------------------------

func (s *ViewerServer) PublishLog(line string) {
	s.broadcast <- &models.MViewUpdate{Type: models.ViewTypeLog, Line: line}
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) PublishLogCleared() {
	s.broadcast <- &models.MViewUpdate{Type: models.ViewTypeLogCleared}
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) PublishStatus(status models.MSessionStatus) {
	s.broadcast <- &models.MViewUpdate{Type: models.ViewTypeStatus, Status: &status}
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) PublishNotification(n models.MNotification) {
	s.broadcast <- &models.MViewUpdate{Type: models.ViewTypeNotification, Notification: &n}
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) PublishMetrics(mp models.MMetricsPoint) {
	s.broadcast <- &models.MViewUpdate{Type: models.ViewTypeMetrics, Metrics: &mp}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered so the hub loop never waits on one client
		send: make(chan *models.MViewUpdate, 256),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}
