// Package seed generates synthetic sensor glucose entries for local
// development and profiling.
package seed

import (
	"context"
	"math/rand"
	"os"
	"time"

	"loopy/internal/domain"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

// Interval between two sensor readings.
const Interval = 5 * time.Minute

const insertBatchSize = 1000

// Segment is a run of readings drawn uniformly from [Min, Max].
type Segment struct {
	Count     int    `yaml:"count"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	Direction string `yaml:"direction"`
}

// Scenario repeats its segments until Days worth of readings exist.
type Scenario struct {
	Days     int       `yaml:"days"`
	Device   string    `yaml:"device"`
	Segments []Segment `yaml:"segments"`
}

func DefaultScenario() Scenario {
	return Scenario{
		Days:   7,
		Device: "xDrip-DexcomG6",
		Segments: []Segment{
			{Count: 36, Min: 90, Max: 140, Direction: "Flat"},
			{Count: 12, Min: 140, Max: 220, Direction: "FortyFiveUp"},
			{Count: 6, Min: 180, Max: 260, Direction: "SingleUp"},
			{Count: 12, Min: 110, Max: 190, Direction: "FortyFiveDown"},
			{Count: 6, Min: 55, Max: 80, Direction: "SingleDown"},
			{Count: 24, Min: 80, Max: 150, Direction: "Flat"},
		},
	}
}

func LoadScenario(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "failed to read scenario")
	}

	scenario := DefaultScenario()
	scenario.Segments = nil
	if err := yaml.Unmarshal(raw, &scenario); err != nil {
		return Scenario{}, errors.Wrap(err, "failed to parse scenario")
	}

	return scenario, scenario.Validate()
}

func (s Scenario) Validate() error {
	if s.Days <= 0 {
		return errors.New("days must be positive")
	}
	if len(s.Segments) == 0 {
		return errors.New("at least one segment is required")
	}
	for i, seg := range s.Segments {
		if seg.Count <= 0 {
			return errors.Errorf("segment %d: count must be positive", i)
		}
		if seg.Min > seg.Max {
			return errors.Errorf("segment %d: min %d exceeds max %d", i, seg.Min, seg.Max)
		}
	}
	return nil
}

// Generate returns Days of readings, oldest first, the last one taken at end.
func Generate(s Scenario, end time.Time, rng *rand.Rand) []domain.Reading {
	total := s.Days * int(24*time.Hour/Interval)
	readings := make([]domain.Reading, 0, total)
	start := end.UTC().Add(-time.Duration(total-1) * Interval)

	var prev int
	for i := 0; i < total; {
		for _, seg := range s.Segments {
			for j := 0; j < seg.Count && i < total; j, i = j+1, i+1 {
				taken := start.Add(time.Duration(i) * Interval)
				value := seg.Min + rng.Intn(seg.Max-seg.Min+1)

				reading := domain.Reading{
					Date:           taken.UnixMilli(),
					DateString:     taken.Format("2006-01-02T15:04:05.000Z"),
					GlucoseValue:   value,
					TrendDirection: seg.Direction,
					DeviceID:       s.Device,
					ReadingType:    "sgv",
				}
				if i > 0 {
					delta := float64(value - prev)
					reading.TrendRate = &delta
				}
				prev = value
				readings = append(readings, reading)
			}
		}
	}

	return readings
}

// Insert writes readings in batches and returns how many were stored.
func Insert(ctx context.Context, db *mongo.Database, collection string, readings []domain.Reading) (int, error) {
	col := db.Collection(collection)
	inserted := 0

	for lo := 0; lo < len(readings); lo += insertBatchSize {
		hi := lo + insertBatchSize
		if hi > len(readings) {
			hi = len(readings)
		}

		docs := make([]interface{}, 0, hi-lo)
		for _, r := range readings[lo:hi] {
			docs = append(docs, r)
		}

		res, err := col.InsertMany(ctx, docs)
		if err != nil {
			return inserted, errors.Wrapf(err, "failed to insert batch at %d", lo)
		}
		inserted += len(res.InsertedIDs)
	}

	return inserted, nil
}
