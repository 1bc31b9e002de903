package web

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 366
)

// GateStatus is the body of GET /api/gate
type GateStatus struct {
	Today         int        `json:"today"`
	Minimum       int        `json:"minimum"`
	Remaining     int        `json:"remaining"`
	CanClose      bool       `json:"can_close"`
	Suppressed    bool       `json:"suppressed"`
	DisabledUntil *time.Time `json:"disabled_until,omitempty"`
}

func (s *Server) status(c *gin.Context) GateStatus {
	ctx := c.Request.Context()
	cfg := s.gate.Config()
	st := GateStatus{
		Today:      s.gate.Today(ctx),
		Minimum:    cfg.MinimumDaily,
		Remaining:  s.gate.Remaining(ctx),
		CanClose:   s.gate.CanClose(ctx),
		Suppressed: s.gate.Suppressed(),
	}
	if st.Suppressed {
		until := cfg.DisabledUntil
		st.DisabledUntil = &until
	}
	return st
}

func (s *Server) handleGate(c *gin.Context) {
	if err := s.gate.Reload(c.Request.Context()); err != nil {
		log.Printf("Using cached gate settings: %v", err)
	}
	c.JSON(http.StatusOK, s.status(c))
}

func (s *Server) handleSkipToday(c *gin.Context) {
	if err := s.skipToday(c.Request.Context()); err != nil {
		// the opt-out holds in memory even if it could not be saved
		log.Printf("Failed to persist gate opt-out: %v", err)
	}
	c.JSON(http.StatusOK, s.status(c))
}

func (s *Server) handleProgress(c *gin.Context) {
	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		days = n
	}

	history, err := s.ledger.History(c.Request.Context(), days)
	if err != nil {
		log.Printf("Failed to load progress history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":    history,
		"count":   len(history),
		"minimum": s.gate.Minimum(),
	})
}
