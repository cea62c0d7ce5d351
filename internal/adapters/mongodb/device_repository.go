package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"loopy/internal/domain"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DeviceRepository answers questions about the uploaders writing entries.
type DeviceRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewDeviceRepository(db *MongoDB, collection string, timeout time.Duration) *DeviceRepository {
	return &DeviceRepository{
		collection: db.Database.Collection(collection),
		timeout:    timeout,
	}
}

// ActiveDevices returns the distinct device names that uploaded readings since the given time, sorted.
func (r *DeviceRepository) ActiveDevices(ctx context.Context, since time.Time) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		"sgv":    bson.M{"$exists": true},
		"device": bson.M{"$exists": true},
		"date":   bson.M{"$gte": since.UnixMilli()},
	}

	values, err := r.collection.Distinct(ctx, "device", filter)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to list devices: %v", err)
	}

	devices := make([]string, 0, len(values))
	for _, v := range values {
		switch d := v.(type) {
		case string:
			devices = append(devices, d)
		default:
			devices = append(devices, fmt.Sprint(d))
		}
	}

	sort.Strings(devices)
	return devices, nil
}
