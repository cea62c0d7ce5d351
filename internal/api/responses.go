package api

import (
	"loopy/internal/analysis"
	"loopy/internal/domain"
	"time"
)

// ReadingView is a single reading as returned by /api/cgm/data.
type ReadingView struct {
	Timestamp      string   `json:"timestamp"`
	Date           int64    `json:"date"`
	GlucoseValue   int      `json:"glucose_value"`
	TrendDirection string   `json:"trend_direction,omitempty"`
	TrendRate      *float64 `json:"trend_rate,omitempty"`
	DeviceID       string   `json:"device_id,omitempty"`
	ReadingType    string   `json:"reading_type,omitempty"`
}

// AnalysisView is the presentation of a non-empty analysis; averages are rounded to one decimal.
type AnalysisView struct {
	BasicStats  domain.BasicStats  `json:"basic_stats"`
	TimeInRange domain.TimeInRange `json:"time_in_range"`
}

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours int       `json:"hours"`
}

type DataResponse struct {
	Data        []ReadingView `json:"data"`
	Analysis    *AnalysisView `json:"analysis"`
	TimeRange   TimeRange     `json:"time_range"`
	LastUpdated time.Time     `json:"last_updated"`
}

type CurrentResponse struct {
	GlucoseValue        int      `json:"glucose_value"`
	TrendDirection      string   `json:"trend_direction"`
	TrendRate           *float64 `json:"trend_rate"`
	Timestamp           string   `json:"timestamp"`
	MinutesSinceReading *float64 `json:"minutes_since_reading,omitempty"`
}

type StatusResponse struct {
	Status           string           `json:"status"`
	DataAvailable    bool             `json:"data_available"`
	ReadingsLastHour int              `json:"readings_last_hour"`
	LatestReading    *CurrentResponse `json:"latest_reading"`
	ActiveDevices    []string         `json:"active_devices"`
	LastUpdated      time.Time        `json:"last_updated"`
}

type AnalysisResponse struct {
	Period        string        `json:"period"`
	Hours         int           `json:"hours"`
	TimeRange     TimeRange     `json:"time_range"`
	ReadingsCount int           `json:"readings_count"`
	Analysis      *AnalysisView `json:"analysis"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type DebugSample struct {
	SGV        int    `json:"sgv"`
	Date       int64  `json:"date"`
	DateString string `json:"dateString"`
}

type DebugResponse struct {
	Status               string       `json:"status"`
	Error                string       `json:"error,omitempty"`
	Database             string       `json:"mongodb_database"`
	TotalDocuments       int64        `json:"total_documents"`
	RecentDocumentSample *DebugSample `json:"recent_document_sample"`
	StoreConfigured      bool         `json:"mongodb_uri_set"`
	Timestamp            time.Time    `json:"timestamp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newReadingViews(readings []domain.Reading) []ReadingView {
	views := make([]ReadingView, 0, len(readings))
	for _, r := range readings {
		views = append(views, ReadingView{
			Timestamp:      r.DateString,
			Date:           r.Date,
			GlucoseValue:   r.GlucoseValue,
			TrendDirection: r.TrendDirection,
			TrendRate:      r.TrendRate,
			DeviceID:       r.DeviceID,
			ReadingType:    r.ReadingType,
		})
	}
	return views
}

// newAnalysisView returns nil for an empty result so it renders as null.
func newAnalysisView(result domain.AnalysisResult) *AnalysisView {
	if result.Empty || result.BasicStats == nil || result.TimeInRange == nil {
		return nil
	}

	stats := *result.BasicStats
	stats.AvgGlucose = analysis.Round1(stats.AvgGlucose)
	stats.StdGlucose = analysis.Round1(stats.StdGlucose)

	return &AnalysisView{
		BasicStats:  stats,
		TimeInRange: *result.TimeInRange,
	}
}

func newCurrentResponse(view domain.CurrentReadingView) *CurrentResponse {
	return &CurrentResponse{
		GlucoseValue:        view.GlucoseValue,
		TrendDirection:      view.TrendDirection,
		TrendRate:           view.TrendRate,
		Timestamp:           view.Timestamp,
		MinutesSinceReading: view.MinutesSinceReading,
	}
}

func newTimeRange(w domain.Window) TimeRange {
	return TimeRange{
		Start: w.Start,
		End:   w.End,
		Hours: int(w.Duration() / time.Hour),
	}
}
