package api

import (
	"fmt"
	"loopy/internal/analysis"
	"loopy/internal/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultDataHours = 24

// analysisPeriods maps the {period} path parameter to a window length in hours.
var analysisPeriods = map[string]int{
	"24h":   24,
	"week":  168,
	"month": 720,
}

type DataParams struct {
	Hours int `validate:"min=1,max=168"`
}

// GetData returns the readings of the last N hours together with their analysis.
func (api *API) GetData(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetData")

	params := DataParams{Hours: defaultDataHours}
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "hours must be an integer")
			return
		}
		params.Hours = hours
	}

	if err := api.validate.Struct(params); err != nil {
		log.Debugf("validation error: %v", err)
		respondWithError(w, http.StatusBadRequest, "invalid_request", "hours must be between 1 and 168")
		return
	}

	now := api.now().UTC()
	window := domain.WindowEndingAt(now, time.Duration(params.Hours)*time.Hour)

	readings, err := api.readingsRepo.FetchWindow(r.Context(), window.Start, window.End)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}

	result := analysis.Analyze(readings)
	api.metrics.ObserveAnalysis(len(readings))

	respondWithJSON(w, http.StatusOK, DataResponse{
		Data:        newReadingViews(readings),
		Analysis:    newAnalysisView(result),
		TimeRange:   newTimeRange(window),
		LastUpdated: now,
	})
}

// GetCurrent returns the most recent reading and its age in minutes.
func (api *API) GetCurrent(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetCurrent")

	readings, err := api.readingsRepo.FetchRecent(r.Context(), 1)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}

	view, ok := api.analyzer.MostRecent(readings)
	if !ok {
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "No recent glucose data available"})
		return
	}

	if view.MinutesSinceReading == nil {
		log.Warnw("unparseable reading timestamp", "timestamp", view.Timestamp)
	}

	respondWithJSON(w, http.StatusOK, newCurrentResponse(view))
}

// GetStatus summarizes data availability over the last hour.
func (api *API) GetStatus(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetStatus")
	ctx := r.Context()

	now := api.now().UTC()
	window := domain.WindowEndingAt(now, time.Hour)

	readings, err := api.readingsRepo.FetchWindow(ctx, window.Start, window.End)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}
	result := analysis.Analyze(readings)
	api.metrics.ObserveAnalysis(len(readings))

	recent, err := api.readingsRepo.FetchRecent(ctx, 1)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}

	devices, err := api.deviceRepo.ActiveDevices(ctx, window.Start)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}
	if devices == nil {
		devices = []string{}
	}

	response := StatusResponse{
		Status:        "no_recent_data",
		ActiveDevices: devices,
		LastUpdated:   now,
	}
	if !result.Empty {
		response.Status = "connected"
		response.DataAvailable = true
		response.ReadingsLastHour = result.BasicStats.Count
	}
	if view, ok := api.analyzer.MostRecent(recent); ok {
		response.LatestReading = newCurrentResponse(view)
	}

	respondWithJSON(w, http.StatusOK, response)
}

// GetAnalysis analyzes a named period (24h, week, month). Results are cached
// per period and minute when a cache is configured.
func (api *API) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetAnalysis")
	ctx := r.Context()

	period := chi.URLParam(r, "period")
	hours, ok := analysisPeriods[period]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "period must be one of 24h, week, month")
		return
	}

	now := api.now().UTC()
	key := fmt.Sprintf("analysis:%s:%d", period, now.Truncate(time.Minute).Unix())

	if api.cache != nil {
		var cached AnalysisResponse
		hit, err := api.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warnf("cache lookup failed: %v", err)
		}
		api.metrics.RecordCacheLookup(hit)
		if hit {
			respondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	window := domain.WindowEndingAt(now, time.Duration(hours)*time.Hour)
	readings, err := api.readingsRepo.FetchWindow(ctx, window.Start, window.End)
	if err != nil {
		api.respondWithStoreError(w, log, err)
		return
	}

	result := analysis.Analyze(readings)
	api.metrics.ObserveAnalysis(len(readings))

	response := AnalysisResponse{
		Period:        period,
		Hours:         hours,
		TimeRange:     newTimeRange(window),
		ReadingsCount: len(readings),
		Analysis:      newAnalysisView(result),
	}

	if api.cache != nil {
		if err := api.cache.Set(ctx, key, response, api.opts.CacheTTL); err != nil {
			log.Warnf("cache write failed: %v", err)
		}
	}

	respondWithJSON(w, http.StatusOK, response)
}

// GetDebug reports store connectivity and a sample of the latest document.
// Store failures are reported in the body, never with internal detail.
func (api *API) GetDebug(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetDebug")
	ctx := r.Context()

	response := DebugResponse{
		Status:          "connected",
		Database:        api.opts.Database,
		StoreConfigured: api.opts.StoreConfigured,
		Timestamp:       api.now().UTC(),
	}

	err := api.readingsRepo.Ping(ctx)
	if err == nil {
		response.TotalDocuments, err = api.readingsRepo.Count(ctx)
	}
	var recent []domain.Reading
	if err == nil {
		recent, err = api.readingsRepo.FetchRecent(ctx, 1)
	}

	if err != nil {
		log.Errorf("debug store check failed: %v", err)
		response.Status = "error"
		response.Error = storeErrorMessage(err)
		respondWithJSON(w, http.StatusOK, response)
		return
	}

	if len(recent) > 0 {
		response.RecentDocumentSample = &DebugSample{
			SGV:        recent[0].GlucoseValue,
			Date:       recent[0].Date,
			DateString: recent[0].DateString,
		}
	}

	respondWithJSON(w, http.StatusOK, response)
}

// respondWithStoreError maps retrieval failures onto a small set of stable client-facing errors.
func (api *API) respondWithStoreError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	log.Errorf("failed to fetch readings: %v", err)

	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		api.metrics.RecordStoreError("upstream_unavailable")
		respondWithError(w, http.StatusServiceUnavailable, "upstream_unavailable", storeErrorMessage(err))
	case errors.Is(err, domain.ErrMalformedInput):
		api.metrics.RecordStoreError("malformed_data")
		respondWithError(w, http.StatusInternalServerError, "malformed_data", storeErrorMessage(err))
	default:
		api.metrics.RecordStoreError("internal")
		respondWithError(w, http.StatusInternalServerError, "internal_error", storeErrorMessage(err))
	}
}

func storeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "glucose data store is unavailable"
	case errors.Is(err, domain.ErrMalformedInput):
		return "stored glucose data could not be read"
	default:
		return "internal server error"
	}
}
