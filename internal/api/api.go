package api

import (
	"encoding/json"
	"loopy/internal/analysis"
	"loopy/internal/metrics"
	"loopy/internal/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const serviceName = "loopy-api"

// Options carries the process-wide settings the handlers need.
type Options struct {
	APIKey      string
	CORSOrigins []string
	CacheTTL    time.Duration
	// Database and StoreConfigured are reported by the debug endpoint.
	Database        string
	StoreConfigured bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type API struct {
	log          *zap.SugaredLogger
	readingsRepo ports.ReadingRepository
	deviceRepo   ports.DeviceRepository
	cache        ports.AnalysisCache
	metrics      *metrics.Metrics
	analyzer     *analysis.Analyzer
	validate     *validator.Validate
	opts         Options
	now          func() time.Time
}

// NewAPI wires the handlers. cache and m may be nil.
func NewAPI(log *zap.SugaredLogger, readingsRepo ports.ReadingRepository, deviceRepo ports.DeviceRepository, cache ports.AnalysisCache, m *metrics.Metrics, opts Options) *API {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &API{
		log:          log,
		readingsRepo: readingsRepo,
		deviceRepo:   deviceRepo,
		cache:        cache,
		metrics:      m,
		analyzer:     analysis.NewWithClock(now),
		validate:     validator.New(),
		opts:         opts,
		now:          now,
	}
}

func (api *API) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(api.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.Use(api.LoggingMiddleware)

	// home endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Loopy CGM API"})
	})

	r.Get("/health", api.Health)
	r.Get("/ping", api.Ping)
	if api.metrics != nil {
		r.Method(http.MethodGet, "/metrics", api.metrics.Handler())
	}

	// CGM routes
	r.Route("/api/cgm", func(r chi.Router) {
		r.Use(api.BearerAuth)

		r.Get("/data", api.GetData)
		r.Get("/current", api.GetCurrent)
		r.Get("/status", api.GetStatus)
		r.Get("/analysis/{period}", api.GetAnalysis)
		r.Get("/debug", api.GetDebug)
	})

	return r
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{Error: message, Code: code})
}
