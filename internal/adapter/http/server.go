package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/risk-map-service/internal/dashboard"
	"github.com/couchcryptid/risk-map-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LayerBuilder builds a styled risk map layer.
type LayerBuilder interface {
	Build(ctx context.Context, g domain.Granularity, h domain.Hazard) (domain.MapLayer, error)
}

// DashboardData supplies the KPI boxes and trend chart.
type DashboardData interface {
	Trend(year int) ([]dashboard.TrendPoint, error)
	KPIs(year int) ([]dashboard.KPI, error)
}

// Server exposes the map API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	builder    LayerBuilder
	dashboard  DashboardData
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/v1/map, /api/v1/kpis,
// /api/v1/trend, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, builder LayerBuilder, dash DashboardData, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// County layers run to several megabytes and the first build may
			// include the shapefile download.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder:   builder,
		dashboard: dash,
		logger:    logger,
	}

	mux.HandleFunc("GET /api/v1/map", s.handleMap)
	mux.HandleFunc("GET /api/v1/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/v1/trend", s.handleTrend)
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
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// mapResponse is the layer metadata plus its GeoJSON features.
type mapResponse struct {
	Name        string                     `json:"name"`
	Legend      string                     `json:"legend"`
	Granularity domain.Granularity         `json:"granularity"`
	Hazard      domain.Hazard              `json:"hazard"`
	Buckets     []domain.Bucket            `json:"buckets"`
	FillOpacity float64                    `json:"fill_opacity"`
	LineOpacity float64                    `json:"line_opacity"`
	View        domain.View                `json:"view"`
	GeneratedAt time.Time                  `json:"generated_at"`
	GeoJSON     *geojson.FeatureCollection `json:"geojson"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	g, err := domain.ParseGranularity(queryOrDefault(q.Get("view"), string(domain.State)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h, err := domain.ParseHazard(queryOrDefault(q.Get("hazard"), string(domain.Earthquake)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	layer, err := s.builder.Build(r.Context(), g, h)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("build layer failed", "granularity", g, "hazard", h, "error", err)
		}
		writeError(w, status, err)
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, mapResponse{
		Name:        layer.Name,
		Legend:      layer.Legend,
		Granularity: layer.Granularity,
		Hazard:      layer.Hazard,
		Buckets:     layer.Buckets,
		FillOpacity: layer.FillOpacity,
		LineOpacity: layer.LineOpacity,
		View:        layer.View,
		GeneratedAt: layer.GeneratedAt,
		GeoJSON:     layer.FeatureCollection(),
	})
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	kpis, err := s.dashboard.KPIs(year)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"kpis": kpis})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	series, err := s.dashboard.Trend(year)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"series": series})
}

// parseYear reads the optional year filter. A missing year means the latest.
func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, dashboard.ErrInvalidYear)
		return 0, false
	}
	return year, true
}

func queryOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidGranularity),
		errors.Is(err, domain.ErrInvalidHazard),
		errors.Is(err, dashboard.ErrInvalidYear):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
