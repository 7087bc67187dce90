package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/adplatform"
	"github.com/radiusdt/roas-attribution/internal/attribution"
	"github.com/radiusdt/roas-attribution/internal/config"
	"github.com/radiusdt/roas-attribution/internal/database"
	"github.com/radiusdt/roas-attribution/internal/geo"
	"github.com/radiusdt/roas-attribution/internal/metrics"
	"github.com/radiusdt/roas-attribution/internal/middleware"
	"github.com/radiusdt/roas-attribution/internal/storage"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB         *database.PostgresDB
	ClickHouse *database.ClickHouseDB
	Redis      *database.RedisDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server exposes the attribution report over HTTP.
type Server struct {
	report  *attribution.Service
	logger  *zap.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewServer wires the pipeline from the available backends and returns
// an http.Handler with all routes registered. Missing backends degrade:
// no Postgres or ClickHouse falls back to empty in-memory stores, no
// Redis disables the ad cache.
func NewServer(deps *Dependencies) http.Handler {
	var orderStore storage.OrderStore
	if deps.DB != nil {
		orderStore = storage.NewPostgresOrderStore(deps.DB.Pool, deps.Logger)
	} else {
		orderStore = storage.NewInMemoryOrderStore()
	}

	var eventStore storage.AdEventStore
	if deps.ClickHouse != nil {
		eventStore = storage.NewClickHouseEventStore(deps.ClickHouse.Conn, deps.Logger)
	} else {
		eventStore = storage.NewInMemoryEventStore()
	}

	var adCache *adplatform.RedisAdCache
	if deps.Redis != nil {
		adCache = adplatform.NewRedisAdCache(deps.Redis.Client, deps.Config.Redis.AdTTL, deps.Logger)
	}
	platform := adplatform.NewHTTPPlatform(deps.Config.AdPlatform, adCache, deps.Logger)

	var geoResolver *geo.Resolver
	if deps.Config.Geo.Enabled {
		resolver, err := geo.NewResolver(deps.Config.Geo.DatabasePath, deps.Logger)
		if err != nil {
			deps.Logger.Warn("geo annotation disabled", zap.Error(err))
		} else {
			geoResolver = resolver
		}
	}

	reportService := attribution.NewService(
		attribution.NewIngestor(orderStore, deps.Config.Report.Timezone, deps.Logger),
		attribution.NewCorrelator(eventStore, deps.Logger),
		attribution.NewResolver(deps.Logger),
		attribution.NewEnricher(platform, deps.Metrics, deps.Logger),
		geoResolver,
		deps.Metrics,
		deps.Logger,
		deps.Config.Report.Timeout,
	)

	s := &Server{
		report:  reportService,
		logger:  deps.Logger,
		config:  deps.Config,
		metrics: deps.Metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/report", s.handleReport)
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.NewLoggingMiddleware(deps.Logger).Handler(handler)
	handler = middleware.NewRequestIDMiddleware().Handler(handler)
	handler = middleware.NewRecoveryMiddleware(deps.Logger).Handler(handler)

	return &instrumented{next: handler, metrics: deps.Metrics}
}

// instrumented records request counts and latency per path.
type instrumented struct {
	next    http.Handler
	metrics *metrics.Metrics
}

func (h *instrumented) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		h.next.ServeHTTP(w, r)
		return
	}
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.next.ServeHTTP(rec, r)
	h.metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	h.metrics.HTTPDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReport computes the attribution report for one user and date.
// The pipeline never surfaces a hard failure, so this endpoint answers
// 200 with an empty report even when upstream stores misbehave; only
// malformed requests get a 4xx.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	q := r.URL.Query()
	req := attribution.ReportRequest{
		UserID:        q.Get("user_id"),
		Date:          q.Get("date"),
		FBAdAccountID: q.Get("fb_ad_account_id"),
	}
	if req.UserID == "" || req.Date == "" || req.FBAdAccountID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "user_id, date and fb_ad_account_id are required",
		})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}

	report := s.report.GetReport(r.Context(), req)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing sensible left to do.
		return
	}
}
