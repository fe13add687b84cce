package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/wildcard-sim/internal/models"
)

var validate = validator.New()

// parseTrials resolves the n_sims query parameter. Absent means the configured
// default; out-of-range values clamp to the allowed window rather than erroring.
func (s *Server) parseTrials(c *gin.Context) (int, error) {
	raw := c.Query("n_sims")
	if raw == "" {
		return s.sims.DefaultTrials(), nil
	}
	trials, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if trials < MinTrials {
		trials = MinTrials
	}
	if trials > MaxTrials {
		trials = MaxTrials
	}
	return trials, nil
}

// handleSimulate runs (or serves from cache) a Monte Carlo pass and returns
// the full snapshot document.
func (s *Server) handleSimulate(c *gin.Context) {
	trials, err := s.parseTrials(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n_sims must be an integer"})
		return
	}

	snapshot, err := s.sims.Snapshot(c.Request.Context(), trials)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// handleScoreboard returns the league's current game states without running
// a simulation.
func (s *Server) handleScoreboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.league.Games()})
}

// handleRefresh pulls the live provider once, re-simulates, and pushes the
// fresh snapshot to websocket clients.
func (s *Server) handleRefresh(c *gin.Context) {
	report, err := s.refresher.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := s.sims.Snapshot(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.hub.Broadcast(snapshot)

	c.JSON(http.StatusOK, gin.H{
		"refresh":  report,
		"snapshot": snapshot,
	})
}

// handleUpdateGame applies a manual score correction. Finished games and
// quarter regressions are rejected unless the payload sets reset.
func (s *Server) handleUpdateGame(c *gin.Context) {
	var update models.GameUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(update); err != nil {
		s.audit.LogManualUpdateRejected(update.GameID, err.Error(), c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.league.ApplyUpdate(update); err != nil {
		s.audit.LogManualUpdateRejected(update.GameID, err.Error(), c.ClientIP())
		switch {
		case errors.Is(err, models.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrGameFinal), errors.Is(err, models.ErrQuarterRegression):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	s.audit.LogManualGameUpdate(update.GameID, update.Quarter, update.TimeRemaining, update.AwayScore, update.HomeScore, update.Reset, c.ClientIP())

	game, _ := s.league.Game(update.GameID)
	c.JSON(http.StatusOK, gin.H{"game": game})

	// Push the re-simulated state to live clients. A simulation failure here
	// does not undo the accepted update.
	if snapshot, err := s.sims.Snapshot(c.Request.Context(), 0); err == nil {
		s.hub.Broadcast(snapshot)
	}
}

// handleLive upgrades the connection to a websocket and streams snapshots.
func (s *Server) handleLive(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request)
}
