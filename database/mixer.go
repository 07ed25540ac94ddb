package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MixerStore keeps the mixer state in a single document whose _id is
// models.MachineID.
type MixerStore struct {
	coll  *mongo.Collection
	clock clockwork.Clock
}

func NewMixerStore(coll *mongo.Collection, clock clockwork.Clock) *MixerStore {
	return &MixerStore{coll: coll, clock: clock}
}

var machineFilter = bson.M{"_id": models.MachineID}

// Init creates the state document if it is missing. A document left by an
// older deployment without the fixed _id donates its state; otherwise the
// mixer starts "off".
func (s *MixerStore) Init(ctx context.Context) error {
	err := s.coll.FindOne(ctx, machineFilter).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find mixer state: %w", err)
	}

	state := models.MixerOff
	var legacy struct {
		State string `bson:"state"`
	}
	err = s.coll.FindOne(ctx, bson.M{"_id": bson.M{"$ne": models.MachineID}}).Decode(&legacy)
	switch {
	case err == nil && models.ValidMixerState(legacy.State):
		state = legacy.State
	case err != nil && !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("find legacy mixer state: %w", err)
	}

	update := bson.M{"$setOnInsert": bson.M{"state": state, "updatedAt": s.clock.Now().UTC()}}
	if _, err := s.coll.UpdateOne(ctx, machineFilter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("init mixer state: %w", err)
	}
	return nil
}

// Get returns the stored state, or "off" when none has been written.
func (s *MixerStore) Get(ctx context.Context) (models.MixerState, error) {
	var st models.MixerState
	err := s.coll.FindOne(ctx, machineFilter).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MixerState{ID: models.MachineID, State: models.MixerOff}, nil
	}
	if err != nil {
		return models.MixerState{}, fmt.Errorf("find mixer state: %w", err)
	}
	return st, nil
}

// Set upserts the state document. Writing the same state twice leaves one
// document holding that state.
func (s *MixerStore) Set(ctx context.Context, state string) (models.MixerState, error) {
	st := models.MixerState{
		ID:        models.MachineID,
		State:     state,
		UpdatedAt: s.clock.Now().UTC(),
	}
	update := bson.M{"$set": bson.M{"state": st.State, "updatedAt": st.UpdatedAt}}
	if _, err := s.coll.UpdateOne(ctx, machineFilter, update, options.Update().SetUpsert(true)); err != nil {
		return models.MixerState{}, fmt.Errorf("update mixer state: %w", err)
	}
	return st, nil
}
