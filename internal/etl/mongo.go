package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/BartekS5/revetl/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultRunsCollection holds one document per pipeline run.
const DefaultRunsCollection = "etl_runs"

// MongoReporter stores run reports in a MongoDB collection.
type MongoReporter struct {
	Client     *mongo.Client
	Database   string
	Collection string
}

func NewMongoReporter(client *mongo.Client, database string) *MongoReporter {
	return &MongoReporter{
		Client:     client,
		Database:   database,
		Collection: DefaultRunsCollection,
	}
}

func (m *MongoReporter) Report(ctx context.Context, report *models.RunReport) error {
	coll := m.Client.Database(m.Database).Collection(m.Collection)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert run report %s: %w", report.RunID, err)
	}
	return nil
}

// Recent returns the latest run reports, newest first.
func (m *MongoReporter) Recent(ctx context.Context, limit int64) ([]models.RunReport, error) {
	coll := m.Client.Database(m.Database).Collection(m.Collection)

	findOpts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []models.RunReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode run reports: %w", err)
	}
	return reports, nil
}
