package viewer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stream-viewer/src/helpers"
	"stream-viewer/src/interfaces"
	"stream-viewer/src/logger"
	"stream-viewer/src/models"
	"stream-viewer/src/series"
)

// -----------------------------------------------------------------------------
// ViewerServer
//
// Serves the browser widgets: REST actions for the four session operations,
// a state endpoint for late joiners, and a websocket hub pushing incremental
// view updates. It is both the chart sink and the view publisher, which is
// where the rest of the engine hands rendering off.
// -----------------------------------------------------------------------------

type ViewerServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MViewUpdate // Buffered queue
	register   chan *Client
	unregister chan *Client

	// Engine wiring, attached before Start
	session  interfaces.ISessionControl
	series   *series.Set
	log      *series.LogBuffer
	notifier interfaces.INotifier
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewViewerServer(cfg *models.MConfig, log *logger.Logger) *ViewerServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &ViewerServer{
		Config:  cfg,
		Logger:  log,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so pushes from the ingestion path rarely block
		broadcast:  make(chan *models.MViewUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------

// Attach wires the session control and view state. Must run before Start.
func (s *ViewerServer) Attach(
	session interfaces.ISessionControl,
	set *series.Set,
	activityLog *series.LogBuffer,
	notifier interfaces.INotifier,
) {
	s.session = session
	s.series = set
	s.log = activityLog
	s.notifier = notifier
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *ViewerServer) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/state", s.getState)

	s.engine.POST("/actions/connect", s.postConnect)
	s.engine.POST("/actions/disconnect", s.postDisconnect)
	s.engine.POST("/actions/subscribe", s.postSubscribe)
	s.engine.POST("/actions/unsubscribe", s.postUnsubscribe)

	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *ViewerServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting viewer on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) Stop() error {
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *ViewerServer) getHealth(c *gin.Context) {
	status := s.session.Status()
	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": len(s.clients),
		"state":       status.State,
	})
}

// -----------------------------------------------------------------------------

// getState returns the full snapshot. ?limit=N trims each series to its most
// recent N points for cheap polling clients.
func (s *ViewerServer) getState(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	c.JSON(200, s.buildSnapshot(limit))
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) postConnect(c *gin.Context) {
	s.actionResult(c, s.session.Connect(c.Request.Context()))
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) postDisconnect(c *gin.Context) {
	s.actionResult(c, s.session.Disconnect(c.Request.Context()))
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) postSubscribe(c *gin.Context) {
	var req models.MSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	s.actionResult(c, s.session.Subscribe(c.Request.Context(), req.Symbol))
}

// -----------------------------------------------------------------------------

func (s *ViewerServer) postUnsubscribe(c *gin.Context) {
	s.actionResult(c, s.session.Unsubscribe(c.Request.Context()))
}

// -----------------------------------------------------------------------------

// actionResult maps session outcomes onto HTTP: local rejections are 400,
// gateway-side failures 502. The session already published the notification
// either way; this body is for non-widget callers.
func (s *ViewerServer) actionResult(c *gin.Context, err error) {
	if err == nil {
		c.JSON(200, gin.H{"ok": true, "status": s.session.Status()})
		return
	}

	var validation *helpers.ValidationError
	if errors.As(err, &validation) {
		c.JSON(400, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(502, gin.H{"ok": false, "error": err.Error()})
}
