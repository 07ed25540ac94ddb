package database

import (
	"context"
	"fmt"

	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryStore is the append-only log of preset runs.
type HistoryStore struct {
	coll  *mongo.Collection
	clock clockwork.Clock
}

func NewHistoryStore(coll *mongo.Collection, clock clockwork.Clock) *HistoryStore {
	return &HistoryStore{coll: coll, clock: clock}
}

// Record stamps RunAt and appends r.
func (s *HistoryStore) Record(ctx context.Context, r *models.HistoryRecord) (primitive.ObjectID, error) {
	r.RunAt = s.clock.Now().UTC()

	res, err := s.coll.InsertOne(ctx, r)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert history: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	r.ID = id
	return id, nil
}

// List returns all runs, most recent first.
func (s *HistoryStore) List(ctx context.Context) ([]models.HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "runAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	records := []models.HistoryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}
