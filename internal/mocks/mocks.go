package mocks

import (
	"context"
	"encoding/json"
	"loopy/internal/domain"
	"time"

	"github.com/stretchr/testify/mock"
)

type ReadingRepository struct {
	mock.Mock
}

func (m *ReadingRepository) FetchWindow(ctx context.Context, start, end time.Time) ([]domain.Reading, error) {
	args := m.Called(ctx, start, end)
	readings, _ := args.Get(0).([]domain.Reading)
	return readings, args.Error(1)
}

func (m *ReadingRepository) FetchRecent(ctx context.Context, limit int) ([]domain.Reading, error) {
	args := m.Called(ctx, limit)
	readings, _ := args.Get(0).([]domain.Reading)
	return readings, args.Error(1)
}

func (m *ReadingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReadingRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) ActiveDevices(ctx context.Context, since time.Time) ([]string, error) {
	args := m.Called(ctx, since)
	devices, _ := args.Get(0).([]string)
	return devices, args.Error(1)
}

// AnalysisCache is an in-memory cache that also records calls.
type AnalysisCache struct {
	mock.Mock
	entries map[string][]byte
}

func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{entries: map[string][]byte{}}
}

func (m *AnalysisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.Called(ctx, key)
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *AnalysisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.Called(ctx, key, ttl)
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}
