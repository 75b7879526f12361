package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	if err := m.createMigrationsCollection(); err != nil {
		return err
	}

	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			if err := migration.Up(m.db); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			if err := m.updateVersion(migration.Version); err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, name := range collections {
		if name == "migrations" {
			return nil
		}
	}

	return m.db.CreateCollection(ctx, "migrations")
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").UpdateOne(
		ctx,
		bson.D{},
		bson.M{"$set": bson.M{"version": version, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "unique email on users, unique redemption code on coupons",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				})
				if err != nil {
					return err
				}

				_, err = db.Collection("coupons").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "code", Value: 1}},
					Options: options.Index().SetUnique(true),
				})
				return err
			},
		},
		{
			Version:     2,
			Description: "claim lookup and status indexes on coupons",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("coupons").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "promotion_id", Value: 1}, {Key: "status", Value: 1}}},
					{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "claimed_at", Value: -1}}},
					{Keys: bson.D{{Key: "expires_at", Value: 1}}},
				})
				return err
			},
		},
		{
			Version:     3,
			Description: "promotion discovery and business ownership indexes",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("promotions").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}}},
					{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "created_at", Value: -1}}},
					{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_featured", Value: 1}, {Key: "campaign_type", Value: 1}}},
				})
				if err != nil {
					return err
				}

				_, err = db.Collection("businesses").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys: bson.D{{Key: "owner_id", Value: 1}},
				})
				return err
			},
		},
		{
			Version:     4,
			Description: "analytics, favorites and loyalty indexes",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("analytics_events").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.D{{Key: "promotion_id", Value: 1}, {Key: "event_type", Value: 1}}},
					{Keys: bson.D{{Key: "created_at", Value: -1}}},
				})
				if err != nil {
					return err
				}

				_, err = db.Collection("favorites").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "promotion_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				})
				if err != nil {
					return err
				}

				_, err = db.Collection("loyalty_cards").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "program_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				})
				return err
			},
		},
	}
}
