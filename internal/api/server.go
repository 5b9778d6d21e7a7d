// Package api serves the REST and websocket surface of the streamer: alert
// management, history, backtests, the diagnostic signal feed, live channels
// and Prometheus metrics.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-streamer/internal/alert"
	"github.com/rxtech-lab/argo-streamer/internal/backtest"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/metrics"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"go.uber.org/zap"
)

// SignalWindow is the look-back of the diagnostic signal endpoint.
const SignalWindow = 10 * time.Minute

// Diagnostic signal periods.
const (
	SignalShortPeriod = 10
	SignalLongPeriod  = 30
)

// Dependencies of a Server. Live and Metrics are optional.
type Dependencies struct {
	Alerts    *alert.Service
	Backtests *backtest.Service
	Ticks     persistence.TickStore
	Live      http.Handler
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// Server routes HTTP requests to the alert, history and backtest services.
type Server struct {
	deps   Dependencies
	router *mux.Router
	clock  func() time.Time

	httpServer *http.Server
	listener   net.Listener
}

func NewServer(deps Dependencies) *Server {
	s := &Server{
		deps:       deps,
		router:     mux.NewRouter(),
		clock:      time.Now,
		httpServer: nil,
		listener:   nil,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.Use(s.cors, s.logRequests)

	s.router.HandleFunc("/api/alerts", s.handleCreateAlert).Methods(http.MethodPost)
	s.router.HandleFunc("/api/alerts", s.handleListAlerts).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts", s.handlePreflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/backtest/sma-crossover", s.handleBacktest).Methods(http.MethodGet)
	s.router.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/test-signals", s.handleTestSignals).Methods(http.MethodGet)

	if s.deps.Live != nil {
		s.router.Handle("/ws", s.deps.Live)
	}

	if s.deps.Metrics != nil {
		s.router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on address and serves in the background. An empty address
// or ":0" picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deps.Logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.deps.Logger.Info("HTTP server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		next.ServeHTTP(w, r)
		s.deps.Logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(began)),
		)
	})
}
