package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/nndss-dashboard/internal/analytics"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
	"github.com/couchcryptid/nndss-dashboard/internal/observability"
)

// Dashboard is the computation surface the HTTP API serves.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Options() dashboard.Options
	Render(ctx context.Context, sel dashboard.Selection) (dashboard.ViewModel, error)
	NewSession() *dashboard.Session
	WeeklyRanking(year, week, n int) ([]domain.RankingEntry, error)
	AnnualRanking(year, n int) ([]domain.RankingEntry, error)
	WeeklyChange(sel dashboard.Selection, year, week int) (domain.ComparisonResult, error)
	YearlyChange(sel dashboard.Selection, year int) (domain.ComparisonResult, error)
	Map(disease string, metric domain.Metric) (analytics.MapView, error)
	Trend(disease string, metric domain.Metric) ([]domain.TrendPoint, error)
}

// Server exposes the dashboard API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    *observability.Metrics

	// done is closed on shutdown so open WebSocket sessions can say goodbye.
	done     chan struct{}
	doneOnce sync.Once
}

// NewServer creates an HTTP server with the API, /ws, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, dash Dashboard, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:     dash,
		validate: newValidator(),
		logger:   logger,
		metrics:  metrics,
		done:     make(chan struct{}),
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/rankings/weekly", s.handleWeeklyRanking)
	mux.HandleFunc("GET /api/rankings/annual", s.handleAnnualRanking)
	mux.HandleFunc("GET /api/comparisons/weekly", s.handleWeeklyChange)
	mux.HandleFunc("GET /api/comparisons/annual", s.handleYearlyChange)
	mux.HandleFunc("GET /api/maps", s.handleMap)
	mux.HandleFunc("GET /api/trends", s.handleTrend)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /ws", s.handleSession)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown closes open sessions and gracefully drains connections within the
// given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
