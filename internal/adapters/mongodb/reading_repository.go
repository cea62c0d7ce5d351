package mongodb

import (
	"context"
	"loopy/internal/domain"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type ReadingRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewReadingRepository(db *MongoDB, collection string, timeout time.Duration) *ReadingRepository {
	return &ReadingRepository{
		collection: db.Database.Collection(collection),
		timeout:    timeout,
	}
}

func (r *ReadingRepository) FetchWindow(ctx context.Context, start, end time.Time) ([]domain.Reading, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		"sgv": bson.M{"$exists": true},
		"date": bson.M{
			"$gte": start.UnixMilli(),
			"$lt":  end.UnixMilli(),
		},
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	return r.find(ctx, filter, findOptions)
}

func (r *ReadingRepository) FetchRecent(ctx context.Context, limit int) ([]domain.Reading, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"sgv": bson.M{"$exists": true}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, findOptions)
}

func (r *ReadingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to count readings: %v", err)
	}

	return n, nil
}

func (r *ReadingRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.collection.Database().Client().Ping(ctx, readpref.PrimaryPreferred()); err != nil {
		return errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to ping MongoDB: %v", err)
	}

	return nil
}

func (r *ReadingRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Reading, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to find readings: %v", err)
	}
	defer cursor.Close(ctx)

	readings := []domain.Reading{}
	for cursor.Next(ctx) {
		if err := checkGlucoseValue(cursor.Current); err != nil {
			return nil, err
		}

		var reading domain.Reading
		if err := cursor.Decode(&reading); err != nil {
			return nil, classifyCursorError(err)
		}
		readings = append(readings, reading)
	}
	if err := cursor.Err(); err != nil {
		return nil, classifyCursorError(err)
	}

	return readings, nil
}

// checkGlucoseValue rejects documents whose sgv is not numeric. The driver
// would decode a null sgv as 0.
func checkGlucoseValue(doc bson.Raw) error {
	value, err := doc.LookupErr("sgv")
	if err != nil {
		return errors.Wrapf(domain.ErrMalformedInput, "reading has no sgv: %v", err)
	}

	switch value.Type {
	case bsontype.Int32, bsontype.Int64, bsontype.Double:
		return nil
	default:
		return errors.Wrapf(domain.ErrMalformedInput, "reading sgv has type %s", value.Type)
	}
}

// classifyCursorError separates transport failures from documents that do not decode into a Reading.
func classifyCursorError(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to read cursor: %v", err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return errors.Wrapf(domain.ErrUpstreamUnavailable, "failed to read cursor: %v", err)
	}

	return errors.Wrapf(domain.ErrMalformedInput, "failed to decode readings: %v", err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
