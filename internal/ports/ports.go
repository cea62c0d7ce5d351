package ports

import (
	"context"
	"loopy/internal/domain"
	"time"
)

// ReadingRepository retrieves readings. Failures to reach the store wrap
// domain.ErrUpstreamUnavailable; an empty window is an empty slice, not an error.
type ReadingRepository interface {
	// FetchWindow returns readings with start <= time < end, oldest first.
	FetchWindow(ctx context.Context, start, end time.Time) ([]domain.Reading, error)
	// FetchRecent returns up to limit readings, newest first.
	FetchRecent(ctx context.Context, limit int) ([]domain.Reading, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type DeviceRepository interface {
	ActiveDevices(ctx context.Context, since time.Time) ([]string, error)
}

// AnalysisCache stores serialized responses. A miss is (false, nil).
type AnalysisCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
