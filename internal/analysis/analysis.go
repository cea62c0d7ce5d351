// Package analysis turns a window of glucose readings into summary statistics,
// a time-in-range breakdown and a staleness-aware view of the latest reading.
package analysis

import (
	"loopy/internal/domain"
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Clinical band thresholds in mg/dL. Low is strictly below LowThreshold,
// high is strictly above HighThreshold, everything else is normal.
const (
	LowThreshold  = 70
	HighThreshold = 180
)

// Sensor-reportable band. Values outside it are still analyzed but counted as suspect.
const (
	SensorMin = 40
	SensorMax = 400
)

// Analyzer selects and describes the most recent reading. Analyze itself does
// not depend on the clock and is exposed as a package function.
type Analyzer struct {
	now func() time.Time
}

// New returns an Analyzer reading the process clock.
func New() *Analyzer {
	return NewWithClock(time.Now)
}

// NewWithClock returns an Analyzer that samples now from the given function.
func NewWithClock(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

// Analyze computes basic statistics and time in range for readings. The input
// order does not matter. An empty input yields a result flagged Empty.
func Analyze(readings []domain.Reading) domain.AnalysisResult {
	if len(readings) == 0 {
		return domain.AnalysisResult{Empty: true}
	}

	values := make(stats.Float64Data, len(readings))
	tir := domain.TimeInRange{}
	suspect := 0

	for i, r := range readings {
		values[i] = float64(r.GlucoseValue)

		switch {
		case r.GlucoseValue < LowThreshold:
			tir.LowCount++
		case r.GlucoseValue > HighThreshold:
			tir.HighCount++
		default:
			tir.NormalCount++
		}

		if r.GlucoseValue < SensorMin || r.GlucoseValue > SensorMax {
			suspect++
		}
	}

	// stats only errors on empty input, which is handled above.
	avg, _ := values.Mean()
	minValue, _ := values.Min()
	maxValue, _ := values.Max()
	dev, _ := values.StandardDeviationPopulation()

	total := float64(len(readings))
	tir.Low = Round1(100 * float64(tir.LowCount) / total)
	tir.Normal = Round1(100 * float64(tir.NormalCount) / total)
	tir.High = Round1(100 * float64(tir.HighCount) / total)

	return domain.AnalysisResult{
		BasicStats: &domain.BasicStats{
			Count:           len(readings),
			AvgGlucose:      avg,
			MinGlucose:      int(minValue),
			MaxGlucose:      int(maxValue),
			StdGlucose:      dev,
			OutOfRangeCount: suspect,
		},
		TimeInRange: &tir,
	}
}

// MostRecent picks the reading with the greatest epoch timestamp and reports
// how many minutes ago it was taken. The boolean is false when readings is empty.
// A timestamp that cannot be parsed leaves MinutesSinceReading nil.
func (a *Analyzer) MostRecent(readings []domain.Reading) (domain.CurrentReadingView, bool) {
	if len(readings) == 0 {
		return domain.CurrentReadingView{}, false
	}

	latest := readings[0]
	for _, r := range readings[1:] {
		if r.Date > latest.Date {
			latest = r
		}
	}

	view := domain.CurrentReadingView{
		GlucoseValue:   latest.GlucoseValue,
		TrendDirection: latest.TrendDirection,
		TrendRate:      latest.TrendRate,
		Timestamp:      latest.DateString,
	}

	now := a.now()
	if ts, err := ParseTimestamp(latest.DateString); err == nil {
		minutes := Round1(now.Sub(ts).Minutes())
		view.MinutesSinceReading = &minutes
	}

	return view, true
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
