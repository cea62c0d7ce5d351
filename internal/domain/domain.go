package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading represents one CGM sensor sample as stored in the Nightscout entries collection.
type Reading struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Date           int64              `bson:"date"`       // epoch milliseconds, used for windowing and ordering
	DateString     string             `bson:"dateString"` // ISO-8601 text as written by the uploader
	GlucoseValue   int                `bson:"sgv"`        // mg/dL
	TrendDirection string             `bson:"direction,omitempty"`
	TrendRate      *float64           `bson:"delta,omitempty"`
	DeviceID       string             `bson:"device,omitempty"`
	ReadingType    string             `bson:"type,omitempty"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowEndingAt returns the window of the given length that ends at end.
func WindowEndingAt(end time.Time, length time.Duration) Window {
	if length < 0 {
		length = 0
	}
	return Window{Start: end.Add(-length), End: end}
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// BasicStats holds summary statistics of glucose values over a window.
type BasicStats struct {
	Count           int     `json:"count"`
	AvgGlucose      float64 `json:"avg_glucose"`
	MinGlucose      int     `json:"min_glucose"`
	MaxGlucose      int     `json:"max_glucose"`
	StdGlucose      float64 `json:"std_glucose"`
	OutOfRangeCount int     `json:"out_of_range_count"`
}

// TimeInRange holds the share of readings per clinical band, in percent rounded to one decimal.
type TimeInRange struct {
	Low         float64 `json:"low"`
	Normal      float64 `json:"normal"`
	High        float64 `json:"high"`
	LowCount    int     `json:"low_count"`
	NormalCount int     `json:"normal_count"`
	HighCount   int     `json:"high_count"`
}

// AnalysisResult is derived per request from a reading sequence and never persisted.
// When Empty is set, BasicStats and TimeInRange are nil.
type AnalysisResult struct {
	Empty       bool
	BasicStats  *BasicStats
	TimeInRange *TimeInRange
}

// CurrentReadingView is the latest reading together with how old it is.
// MinutesSinceReading is nil when the reading timestamp could not be parsed.
type CurrentReadingView struct {
	GlucoseValue        int
	TrendDirection      string
	TrendRate           *float64
	Timestamp           string
	MinutesSinceReading *float64
}
