package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri string, dbName string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("loopy-api"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}

	db := client.Database(dbName)
	return &MongoDB{Client: client, Database: db}, nil
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return errors.Wrap(m.Client.Disconnect(ctx), "failed to disconnect from MongoDB")
}

// EnsureIndexes creates the index backing window and most-recent queries. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, collection string) error {
	dateIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: -1}},
		Options: options.Index().SetName("date_desc"),
	}
	_, err := db.Collection(collection).Indexes().CreateOne(ctx, dateIndex)
	if err != nil {
		return errors.Wrap(err, "failed to create index")
	}

	return nil
}

// ResetCollection drops collection and recreates it with a schema validator
// for sensor glucose entries. Only the seed and profile tools call it.
func ResetCollection(ctx context.Context, db *mongo.Database, collection string) error {
	err := db.Collection(collection).Drop(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to drop %s collection", collection)
	}

	entryValidation := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"date", "dateString", "sgv", "type"},
			"properties": bson.M{
				"date":       bson.M{"bsonType": []string{"long", "double"}},
				"dateString": bson.M{"bsonType": "string"},
				"sgv":        bson.M{"bsonType": []string{"int", "long"}},
				"direction":  bson.M{"bsonType": "string"},
				"delta":      bson.M{"bsonType": "double"},
				"device":     bson.M{"bsonType": "string"},
				"type":       bson.M{"bsonType": "string"},
			},
		},
	}

	opt := options.CreateCollection().SetValidator(entryValidation)
	if err := db.CreateCollection(ctx, collection, opt); err != nil {
		return errors.Wrap(err, "failed to create collection")
	}

	return EnsureIndexes(ctx, db, collection)
}
