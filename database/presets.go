package database

import (
	"context"
	"fmt"

	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PresetStore reads and writes the presets collection.
type PresetStore struct {
	coll  *mongo.Collection
	clock clockwork.Clock
}

func NewPresetStore(coll *mongo.Collection, clock clockwork.Clock) *PresetStore {
	return &PresetStore{coll: coll, clock: clock}
}

// Create stamps CreatedAt and inserts p.
func (s *PresetStore) Create(ctx context.Context, p *models.Preset) (primitive.ObjectID, error) {
	p.CreatedAt = s.clock.Now().UTC()

	res, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert preset: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	p.ID = id
	return id, nil
}

func (s *PresetStore) List(ctx context.Context) ([]models.Preset, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find presets: %w", err)
	}

	presets := []models.Preset{}
	if err := cursor.All(ctx, &presets); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return presets, nil
}

// Update merges fields into the preset with the given id. It reports
// whether a preset matched.
func (s *PresetStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("update preset %s: %w", id.Hex(), err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the preset with the given id and reports whether one existed.
func (s *PresetStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete preset %s: %w", id.Hex(), err)
	}
	return res.DeletedCount > 0, nil
}
