// Package database holds the MongoDB connection and one store per collection.
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the RecipeDB database.
const (
	UsersCollection      = "users"
	SensorDataCollection = "sensorData"
	MixerStateCollection = "mixerState"
	PresetsCollection    = "presets"
	HistoryCollection    = "history"
)

// ErrDuplicate is returned when an insert would violate a uniqueness rule.
var ErrDuplicate = errors.New("document already exists")

// DB is the long-lived client plus the application database handle.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect opens the client and verifies the primary is reachable.
func Connect(ctx context.Context, opts *options.ClientOptions, name string) (*DB, error) {
	opts.SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(name),
	}, nil
}

// Collection returns a handle to the named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}

// Ping checks the primary is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-flight operations.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
