package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

const dailyCutsCollection = "daily_cuts"

// Repository defines the interface for cash-cut storage.
type Repository interface {
	SaveDailyCut(ctx context.Context, record models.DailyCutRecord) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: dailyCutsCollection,
	}, nil
}

// SaveDailyCut stores the cash cut of a day. Closing the same day twice
// replaces the earlier record.
func (r *MongoDBRepository) SaveDailyCut(ctx context.Context, record models.DailyCutRecord) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	filter := bson.M{"date": record.Date, "store_name": record.StoreName}
	_, err := collection.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily cut %s: %w", record.Date, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
