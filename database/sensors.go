package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SensorStore appends readings to the sensorData collection and keeps the
// latest accepted payload in memory.
//
// The insert and the in-memory update happen under one lock, so the cached
// payload always matches the most recently persisted reading.
type SensorStore struct {
	coll  *mongo.Collection
	clock clockwork.Clock

	mu     sync.Mutex
	latest models.SensorPayload
}

func NewSensorStore(coll *mongo.Collection, clock clockwork.Clock) *SensorStore {
	return &SensorStore{
		coll:   coll,
		clock:  clock,
		latest: models.DefaultSensorPayload,
	}
}

// LoadLatest seeds the cached payload from the newest persisted reading.
// With an empty collection the default payload is kept.
func (s *SensorStore) LoadLatest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var reading models.SensorReading
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&reading)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load latest reading: %w", err)
	}

	s.latest = reading.SensorPayload
	return nil
}

// Ingest persists p with the current time and makes it the latest payload.
// A failed insert leaves the cached payload untouched.
func (s *SensorStore) Ingest(ctx context.Context, p models.SensorPayload) (models.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reading := models.SensorReading{
		SensorPayload: p,
		Timestamp:     s.clock.Now().UTC(),
	}
	res, err := s.coll.InsertOne(ctx, reading)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("insert sensor reading: %w", err)
	}
	reading.ID, _ = res.InsertedID.(primitive.ObjectID)

	s.latest = p
	return reading, nil
}

// Latest returns the most recently accepted payload.
func (s *SensorStore) Latest() models.SensorPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
