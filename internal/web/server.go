// Package web exposes the gate status over HTTP so the workspace can ask
// whether it may be opened.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/progress"
	"github.com/gin-gonic/gin"
)

// Server is the gate status API
type Server struct {
	gate   *gate.Policy
	ledger *progress.Ledger
	router *gin.Engine
	// skipToday turns the gate off; replaced when a live session must be closed too
	skipToday func(ctx context.Context) error

	mu   sync.Mutex
	http *http.Server
}

// NewServer creates a new web server
func NewServer(policy *gate.Policy, ledger *progress.Ledger) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		gate:   policy,
		ledger: ledger,
		router: router,
	}
	s.skipToday = s.disableGate

	api := router.Group("/api")
	{
		api.GET("/gate", s.handleGate)
		api.POST("/gate/skip-today", s.handleSkipToday)
		api.GET("/progress", s.handleProgress)
	}

	return s
}

// SetSkipToday replaces what POST /api/gate/skip-today does. Call it before
// serving.
func (s *Server) SetSkipToday(fn func(ctx context.Context) error) {
	s.skipToday = fn
}

func (s *Server) disableGate(ctx context.Context) error {
	_, err := s.gate.DisableForToday(ctx)
	return err
}

// Handler returns the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until Shutdown is called
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a running server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
