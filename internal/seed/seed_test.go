package seed

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	end := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	scenario := DefaultScenario()
	scenario.Days = 2

	readings := Generate(scenario, end, rand.New(rand.NewSource(1)))
	require.Len(t, readings, 2*288)

	assert.Equal(t, end.UnixMilli(), readings[len(readings)-1].Date)
	assert.Equal(t, "2024-03-14T12:00:00.000Z", readings[len(readings)-1].DateString)
	assert.Nil(t, readings[0].TrendRate)

	for i, r := range readings {
		assert.GreaterOrEqual(t, r.GlucoseValue, 55)
		assert.LessOrEqual(t, r.GlucoseValue, 260)
		assert.Equal(t, "xDrip-DexcomG6", r.DeviceID)
		if i > 0 {
			assert.Equal(t, Interval.Milliseconds(), r.Date-readings[i-1].Date)
			require.NotNil(t, r.TrendRate)
			assert.Equal(t, float64(r.GlucoseValue-readings[i-1].GlucoseValue), *r.TrendRate)
		}
	}
}

func TestGenerateFollowsSegments(t *testing.T) {
	scenario := Scenario{
		Days:   1,
		Device: "test",
		Segments: []Segment{
			{Count: 2, Min: 50, Max: 50, Direction: "SingleDown"},
			{Count: 1, Min: 200, Max: 200, Direction: "SingleUp"},
		},
	}

	readings := Generate(scenario, time.Now(), rand.New(rand.NewSource(1)))
	require.Len(t, readings, 288)

	for i, r := range readings {
		if i%3 == 2 {
			assert.Equal(t, 200, r.GlucoseValue)
			assert.Equal(t, "SingleUp", r.TrendDirection)
		} else {
			assert.Equal(t, 50, r.GlucoseValue)
			assert.Equal(t, "SingleDown", r.TrendDirection)
		}
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`
days: 3
segments:
  - count: 10
    min: 70
    max: 120
    direction: Flat
`), 0o600))

	scenario, err := LoadScenario(valid)
	require.NoError(t, err)
	assert.Equal(t, 3, scenario.Days)
	assert.Equal(t, "xDrip-DexcomG6", scenario.Device, "device falls back to the default")
	require.Len(t, scenario.Segments, 1)
	assert.Equal(t, Segment{Count: 10, Min: 70, Max: 120, Direction: "Flat"}, scenario.Segments[0])

	inverted := filepath.Join(dir, "inverted.yaml")
	require.NoError(t, os.WriteFile(inverted, []byte(`
segments:
  - count: 1
    min: 200
    max: 100
`), 0o600))

	_, err = LoadScenario(inverted)
	assert.ErrorContains(t, err, "exceeds max")

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultScenario().Validate())
	assert.Error(t, Scenario{Days: 0, Segments: DefaultScenario().Segments}.Validate())
	assert.Error(t, Scenario{Days: 1}.Validate())
	assert.Error(t, Scenario{Days: 1, Segments: []Segment{{Count: 0, Min: 1, Max: 2}}}.Validate())
}
