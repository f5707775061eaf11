package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ConnectionTimeout = 10 * time.Second

type MongoHelper struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoHelper(t *testing.T, uri, database string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to mongo: %v", err)
	}
	if err := c.Ping(ctx, nil); err != nil {
		t.Fatalf("ping mongo: %v", err)
	}
	return &MongoHelper{client: c, db: c.Database(database)}
}

// ClearBookings removes every booking on date, leaving indexes in place.
func (m *MongoHelper) ClearBookings(t *testing.T, date string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()
	if _, err := m.db.Collection("Bookings").DeleteMany(ctx, bson.M{"date": date}); err != nil {
		t.Fatalf("clear bookings: %v", err)
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		t.Errorf("disconnect mongo: %v", err)
	}
}
