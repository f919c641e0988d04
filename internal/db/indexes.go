package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup; Mongo treats existing identical indexes as a no-op.
//
// Note there is deliberately no unique index on (property, renter) inquiries
// or (property, reviewer) reviews: those pairs are guarded by an
// application-level existence check before insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	_, err = db.Collection("properties").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "location.city", Value: "text"},
			{Key: "location.state", Value: "text"},
		}},
		{Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "bedrooms", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create properties indexes: %w", err)
	}

	_, err = db.Collection("inquiries").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "property", Value: 1}, {Key: "renter", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create inquiries indexes: %w", err)
	}

	_, err = db.Collection("reviews").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "property", Value: 1}, {Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "reviewer", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reviews indexes: %w", err)
	}

	return nil
}
