package controllers

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Rakib5627/mixer-machine-server/database"
	"github.com/Rakib5627/mixer-machine-server/models"
)

type fakeUsers struct {
	mu    sync.Mutex
	users []models.User
	err   error
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, database.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, *u)
	return u.ID, nil
}

type fakeSensors struct {
	mu       sync.Mutex
	readings []models.SensorReading
	latest   models.SensorPayload
	err      error
	now      time.Time
}

func newFakeSensors() *fakeSensors {
	return &fakeSensors{latest: models.DefaultSensorPayload, now: testNow}
}

func (f *fakeSensors) Ingest(_ context.Context, p models.SensorPayload) (models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.SensorReading{}, f.err
	}
	r := models.SensorReading{ID: primitive.NewObjectID(), SensorPayload: p, Timestamp: f.now}
	f.readings = append(f.readings, r)
	f.latest = p
	return r, nil
}

func (f *fakeSensors) Latest() models.SensorPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// fakeMixer keeps one document per _id, like the real collection.
type fakeMixer struct {
	mu   sync.Mutex
	docs map[string]models.MixerState
	err  error
}

func newFakeMixer() *fakeMixer {
	return &fakeMixer{docs: map[string]models.MixerState{}}
}

func (f *fakeMixer) Get(context.Context) (models.MixerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.MixerState{}, f.err
	}
	st, ok := f.docs[models.MachineID]
	if !ok {
		return models.MixerState{ID: models.MachineID, State: models.MixerOff}, nil
	}
	return st, nil
}

func (f *fakeMixer) Set(_ context.Context, state string) (models.MixerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.MixerState{}, f.err
	}
	st := models.MixerState{ID: models.MachineID, State: state, UpdatedAt: testNow}
	f.docs[models.MachineID] = st
	return st, nil
}

type fakePresets struct {
	mu      sync.Mutex
	presets []models.Preset
	err     error
	updates []bson.M
}

func (f *fakePresets) Create(_ context.Context, p *models.Preset) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = testNow
	f.presets = append(f.presets, *p)
	return p.ID, nil
}

func (f *fakePresets) List(context.Context) ([]models.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Preset{}, f.presets...), nil
}

func (f *fakePresets) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	f.updates = append(f.updates, fields)
	for i := range f.presets {
		if f.presets[i].ID == id {
			if v, ok := fields["cropName"].(string); ok {
				f.presets[i].CropName = v
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePresets) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i := range f.presets {
		if f.presets[i].ID == id {
			f.presets = append(f.presets[:i], f.presets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	records []models.HistoryRecord
	now     time.Time
	err     error
}

func (f *fakeHistory) Record(_ context.Context, r *models.HistoryRecord) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	r.ID = primitive.NewObjectID()
	r.RunAt = f.now
	f.records = append(f.records, *r)
	return r.ID, nil
}

// List mirrors the store's runAt-descending order.
func (f *fakeHistory) List(context.Context) ([]models.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.HistoryRecord{}, f.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RunAt.After(out[j].RunAt) })
	return out, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

type recordingListener struct {
	mu       sync.Mutex
	readings []models.SensorReading
	states   []models.MixerState
}

func (l *recordingListener) SensorReading(r models.SensorReading) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readings = append(l.readings, r)
}

func (l *recordingListener) MixerState(st models.MixerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, st)
}
