package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-insight/internal/domain"
	"github.com/couchcryptid/weather-insight/internal/observability"
)

// ReportService composes a weather report for an IP address; "" means the
// service's own public address.
type ReportService interface {
	Process(ctx context.Context, ip string) (domain.WeatherReport, error)
}

// Server exposes the weather API, the WebSocket endpoint, and health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	reports    ReportService
	metrics    *observability.Metrics
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api, /ws, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, reports ReportService, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// Reports wait on up to three upstream calls.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /api/weather", s.handleReport(func(r domain.WeatherReport) any { return r }))
	mux.HandleFunc("GET /api/header", s.handleReport(func(r domain.WeatherReport) any { return headerPayload(r) }))
	mux.HandleFunc("GET /api/update", s.handleReport(func(r domain.WeatherReport) any { return updatePayload(r) }))
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
// Hijacked WebSocket connections are not tracked by net/http; they end when
// their read loop sees the connection close.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleReport(shape func(domain.WeatherReport) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := strings.TrimSpace(r.URL.Query().Get("ip"))
		if !validTarget(ip) {
			sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: "ip must be an IP address or host name"})
			return
		}

		report, err := s.reports.Process(r.Context(), ip)
		if err != nil {
			sharedobs.WriteJSON(w, statusFor(err), errorBody{Error: err.Error()})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, shape(report))
	}
}

// statusFor maps report failures: bad forecast data is 422, a canceled or
// timed out request is 504, anything else is an upstream failure.
func statusFor(err error) int {
	switch {
	case domain.IsDataError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// validTarget accepts the empty string, IP literals, and host names.
func validTarget(ip string) bool {
	if len(ip) > 253 {
		return false
	}
	return !strings.ContainsAny(ip, "/?#@ \t\r\n")
}
