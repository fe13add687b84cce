// Package api exposes the win-probability engine over HTTP: simulation and
// scoreboard reads, manual game corrections, on-demand refreshes, and a
// websocket feed that pushes a fresh snapshot whenever league state changes.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/config"
	"github.com/yourusername/wildcard-sim/internal/league"
	"github.com/yourusername/wildcard-sim/internal/logger"
	"github.com/yourusername/wildcard-sim/internal/service"
)

// Bounds applied to the n_sims query parameter.
const (
	MinTrials = 1000
	MaxTrials = 100000
)

// Server wires the HTTP handlers to the league, the simulation service, and
// the live refresher.
type Server struct {
	cfg       config.ServerConfig
	league    *league.League
	sims      *service.SimulationService
	refresher *service.Refresher
	hub       *Hub
	logger    *logrus.Logger
	audit     *logger.AuditLogger
	server    *http.Server
}

// NewServer creates a Server. A nil hub gets a fresh one; callers that want
// to share the hub with the scheduler pass it in.
func NewServer(cfg config.ServerConfig, lg *league.League, sims *service.SimulationService, refresher *service.Refresher, hub *Hub, baseLogger *logrus.Logger) *Server {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	if hub == nil {
		hub = NewHub(baseLogger)
	}
	return &Server{
		cfg:       cfg,
		league:    lg,
		sims:      sims,
		refresher: refresher,
		hub:       hub,
		logger:    baseLogger,
		audit:     logger.NewAuditLogger(baseLogger),
	}
}

// Hub returns the websocket hub so other components can broadcast through it.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))

	grp := r.Group("/api")
	{
		grp.GET("/simulate", s.handleSimulate)
		grp.GET("/scoreboard", s.handleScoreboard)
		grp.POST("/refresh", s.handleRefresh)
		grp.POST("/update_game", s.handleUpdateGame)
		grp.GET("/live", s.handleLive)
	}

	return r
}

// Start runs the HTTP server until it fails or Shutdown is called. The write
// timeout does not apply to websocket connections; the upgrade hijacks the
// underlying conn.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Address(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	s.logger.WithField("address", s.cfg.Address()).Info("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown disconnects websocket clients and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
