package database

import (
	"context"
	"testing"
	"time"

	"github.com/Rakib5627/mixer-machine-server/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var testNow = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func emptyCursor(mt *mtest.T) bson.D {
	return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch)
}

func TestUserStore(t *testing.T) {
	mt := newMockT(t)

	mt.Run("create new email", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		mt.AddMockResponses(emptyCursor(mt), mtest.CreateSuccessResponse())

		u := &models.User{Email: "farmer@example.com"}
		id, err := store.Create(context.Background(), u)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, id, u.ID)
	})

	mt.Run("create existing email", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		existing := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "farmer@example.com"}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, existing))

		_, err := store.Create(context.Background(), &models.User{Email: "farmer@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("create loses race on unique index", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		mt.AddMockResponses(emptyCursor(mt), mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: RecipeDB.users index: email_unique",
		}))

		_, err := store.Create(context.Background(), &models.User{Email: "farmer@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("list keeps extra fields", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		first := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "a@example.com"}, {Key: "name", Value: "Amina"}}
		second := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "b@example.com"}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, first, second))

		users, err := store.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "a@example.com", users[0].Email)
		assert.Equal(mt, "Amina", users[0].Extra["name"])
		assert.Empty(mt, users[1].Extra)
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		store := NewUserStore(mt.Coll)
		mt.AddMockResponses(emptyCursor(mt))

		users, err := store.List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})
}

func TestSensorStore(t *testing.T) {
	mt := newMockT(t)
	reading := models.SensorPayload{
		Temperature:  26.5,
		Humidity:     48,
		Acceleration: models.Acceleration{X: 0.1, Z: 9.8},
		Current:      1.2,
	}

	mt.Run("defaults before any reading", func(mt *mtest.T) {
		store := NewSensorStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		assert.Equal(mt, models.DefaultSensorPayload, store.Latest())
	})

	mt.Run("ingest stamps and caches", func(mt *mtest.T) {
		store := NewSensorStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		stored, err := store.Ingest(context.Background(), reading)
		require.NoError(mt, err)
		assert.Equal(mt, testNow, stored.Timestamp)
		assert.False(mt, stored.ID.IsZero())
		assert.Equal(mt, reading, store.Latest())
	})

	mt.Run("failed insert keeps previous payload", func(mt *mtest.T) {
		store := NewSensorStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Message: "quota exceeded",
			Name:    "AtlasError",
		}))

		_, err := store.Ingest(context.Background(), reading)
		assert.Error(mt, err)
		assert.Equal(mt, models.DefaultSensorPayload, store.Latest())
	})

	mt.Run("load latest from store", func(mt *mtest.T) {
		store := NewSensorStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		doc := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "temperature", Value: 31.0},
			{Key: "humidity", Value: 40.0},
			{Key: "acceleration", Value: bson.D{{Key: "x", Value: 0.0}, {Key: "y", Value: 0.2}, {Key: "z", Value: 9.7}}},
			{Key: "current", Value: 2.5},
			{Key: "timestamp", Value: primitive.NewDateTimeFromTime(testNow)},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc))

		require.NoError(mt, store.LoadLatest(context.Background()))
		latest := store.Latest()
		assert.Equal(mt, 31.0, latest.Temperature)
		assert.Equal(mt, 9.7, latest.Acceleration.Z)
	})

	mt.Run("load latest from empty store", func(mt *mtest.T) {
		store := NewSensorStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(emptyCursor(mt))

		require.NoError(mt, store.LoadLatest(context.Background()))
		assert.Equal(mt, models.DefaultSensorPayload, store.Latest())
	})
}

func TestMixerStore(t *testing.T) {
	mt := newMockT(t)

	mt.Run("get without document is off", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(emptyCursor(mt))

		st, err := store.Get(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, models.MixerOff, st.State)
	})

	mt.Run("get stored state", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		doc := bson.D{{Key: "_id", Value: models.MachineID}, {Key: "state", Value: "on"}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc))

		st, err := store.Get(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, models.MixerOn, st.State)
		assert.Equal(mt, models.MachineID, st.ID)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: models.MachineID}}}},
		))

		st, err := store.Set(context.Background(), models.MixerOn)
		require.NoError(mt, err)
		assert.Equal(mt, models.MixerOn, st.State)
		assert.Equal(mt, testNow, st.UpdatedAt)
	})

	mt.Run("set storage failure", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized", Name: "Unauthorized"}))

		_, err := store.Set(context.Background(), models.MixerOff)
		assert.Error(mt, err)
	})

	mt.Run("init keeps existing document", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		doc := bson.D{{Key: "_id", Value: models.MachineID}, {Key: "state", Value: "off"}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc))

		assert.NoError(mt, store.Init(context.Background()))
	})

	mt.Run("init adopts legacy document", func(mt *mtest.T) {
		store := NewMixerStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		legacy := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "state", Value: "on"}}
		mt.AddMockResponses(
			emptyCursor(mt),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, legacy),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		assert.NoError(mt, store.Init(context.Background()))
	})
}

func TestPresetStore(t *testing.T) {
	mt := newMockT(t)

	mt.Run("create stamps createdAt", func(mt *mtest.T) {
		store := NewPresetStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Preset{CropName: "Rice", CropVariety: "BRRI-28", Fertilizers: "Urea", MixingTime: 15.0}
		id, err := store.Create(context.Background(), p)
		require.NoError(mt, err)
		assert.Equal(mt, id, p.ID)
		assert.Equal(mt, testNow, p.CreatedAt)
	})

	mt.Run("list", func(mt *mtest.T) {
		store := NewPresetStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		doc := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "cropName", Value: "Rice"},
			{Key: "cropVariety", Value: "BRRI-28"},
			{Key: "fertilizers", Value: "Urea"},
			{Key: "mixingTime", Value: 15.0},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(testNow)},
			{Key: "notes", Value: "wet season"},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc))

		presets, err := store.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, presets, 1)
		assert.Equal(mt, "Rice", presets[0].CropName)
		assert.Equal(mt, "wet season", presets[0].Extra["notes"])
		assert.True(mt, presets[0].CreatedAt.Equal(testNow))
	})

	mt.Run("update matched", func(mt *mtest.T) {
		store := NewPresetStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		ok, err := store.Update(context.Background(), primitive.NewObjectID(), bson.M{"mixingTime": 20.0})
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		store := NewPresetStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		ok, err := store.Update(context.Background(), primitive.NewObjectID(), bson.M{"mixingTime": 20.0})
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("delete", func(mt *mtest.T) {
		store := NewPresetStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		id := primitive.NewObjectID()
		ok, err := store.Delete(context.Background(), id)
		require.NoError(mt, err)
		assert.True(mt, ok)

		ok, err = store.Delete(context.Background(), id)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestHistoryStore(t *testing.T) {
	mt := newMockT(t)

	mt.Run("record stamps runAt", func(mt *mtest.T) {
		store := NewHistoryStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := &models.HistoryRecord{PresetID: "65f0c0ffee0000000000aaaa", CropName: "Rice", MixingTime: 12.0}
		id, err := store.Record(context.Background(), r)
		require.NoError(mt, err)
		assert.Equal(mt, id, r.ID)
		assert.Equal(mt, testNow, r.RunAt)
	})

	mt.Run("list", func(mt *mtest.T) {
		store := NewHistoryStore(mt.Coll, clockwork.NewFakeClockAt(testNow))
		newer := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "presetId", Value: "p1"}, {Key: "cropName", Value: "Rice"}, {Key: "runAt", Value: primitive.NewDateTimeFromTime(testNow)}}
		older := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "presetId", Value: "p2"}, {Key: "cropName", Value: "Jute"}, {Key: "runAt", Value: primitive.NewDateTimeFromTime(testNow.Add(-time.Hour))}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, newer, older))

		records, err := store.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "p1", records[0].PresetID)
		assert.True(mt, records[0].RunAt.After(records[1].RunAt))
	})
}
