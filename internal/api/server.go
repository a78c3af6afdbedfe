// Package api exposes the analysis pipeline and health probes over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/chiefotto/clustercalculator/internal/metrics"
	"github.com/chiefotto/clustercalculator/internal/models"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// RefreshFunc runs one game log refresh
type RefreshFunc func(ctx context.Context) (models.UpsertResult, error)

// Config holds the configuration for the API server.
type Config struct {
	ServiceName  string
	Version      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MetricsPath  string
	NoMetrics    bool
	DefaultLine  float64
	Logger       *logrus.Logger
	DB           DatabasePinger
	Analysis     Analyzer
	Refresh      RefreshFunc
}

// Server is the REST API server.
type Server struct {
	serviceName string
	version     string
	server      *http.Server
	router      *mux.Router
	logger      *logrus.Entry
	db          DatabasePinger
	handler     *Handler
	mu          sync.RWMutex
	ready       bool
}

// NewServer creates a new API server and registers its routes.
func NewServer(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		logger:      cfg.Logger.WithField("component", "api"),
		db:          cfg.DB,
		handler:     NewHandler(cfg.Analysis, cfg.Refresh, cfg.DefaultLine),
	}

	router := mux.NewRouter()
	router.Use(s.recoveryMiddleware)
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	if !cfg.NoMetrics {
		router.Handle(cfg.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/slate", s.handler.GetSlate).Methods(http.MethodGet)
	api.HandleFunc("/matchups/{home}/{away}", s.handler.GetMatchup).Methods(http.MethodGet)
	api.HandleFunc("/matchups/{home}/{away}/players/{player}", s.handler.GetPlayerReport).Methods(http.MethodGet)
	api.HandleFunc("/teams/{team}/dvp", s.handler.GetTeamDVP).Methods(http.MethodGet)
	api.HandleFunc("/gamelogs/refresh", s.handler.RefreshGameLogs).Methods(http.MethodPost)

	s.router = router
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":    s.server.Addr,
			"service": s.serviceName,
		}).Info("API server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
