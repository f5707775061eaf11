package mongo

import (
	"context"
	"fmt"

	"cabins/internal/migrations/mongo/validators"
	"cabins/pkg/logger"
	"cabins/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingsCollection = "Bookings"

	ConfirmedSlotIndex = "uniq_confirmed_slot"
	UserDateIndex      = "user_date"
	CabinDateIndex     = "cabin_date_status"
)

// BookingsIndexes holds the store's only concurrency guard: a unique index over
// (cabin_id, date, time) restricted to confirmed bookings, so a cancelled
// booking frees its slot.
var BookingsIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "cabin_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
		},
		Options: options.Index().
			SetName(ConfirmedSlotIndex).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": model.StatusConfirmed}),
	},
	{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetName(UserDateIndex),
	},
	{
		Keys: bson.D{
			{Key: "cabin_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName(CabinDateIndex),
	},
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	if err := ensureCollection(ctx, db, BookingsCollection, validators.BookingValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", BookingsCollection, err)
	}
	if err := EnsureBookingIndexes(ctx, db); err != nil {
		return err
	}

	log.Info("All migrations applied successfully")
	return nil
}

// EnsureBookingIndexes is safe to run on every start.
func EnsureBookingIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(BookingsCollection).Indexes().CreateMany(ctx, BookingsIndexes); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", BookingsCollection, err)
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}
