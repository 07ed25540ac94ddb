// Package controllers holds the gin handlers for the mixer REST API and
// the websocket hub that streams live updates to dashboards.
package controllers

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Rakib5627/mixer-machine-server/models"
)

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u *models.User) (primitive.ObjectID, error)
}

type SensorStore interface {
	Ingest(ctx context.Context, p models.SensorPayload) (models.SensorReading, error)
	Latest() models.SensorPayload
}

type MixerStore interface {
	Get(ctx context.Context) (models.MixerState, error)
	Set(ctx context.Context, state string) (models.MixerState, error)
}

type PresetStore interface {
	Create(ctx context.Context, p *models.Preset) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.Preset, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type HistoryStore interface {
	Record(ctx context.Context, r *models.HistoryRecord) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.HistoryRecord, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Listener is told about every accepted reading and mixer state change,
// after the change is persisted. Implementations must not block.
type Listener interface {
	SensorReading(r models.SensorReading)
	MixerState(st models.MixerState)
}

// Stores groups the persistence dependencies of the handlers.
type Stores struct {
	Users   UserStore
	Sensors SensorStore
	Mixer   MixerStore
	Presets PresetStore
	History HistoryStore
	DB      Pinger
}

// Controller serves the HTTP endpoints.
type Controller struct {
	stores    Stores
	logger    *slog.Logger
	listeners []Listener
}

func New(stores Stores, logger *slog.Logger, listeners ...Listener) *Controller {
	return &Controller{
		stores:    stores,
		logger:    logger,
		listeners: listeners,
	}
}

func (ctl *Controller) notifySensor(r models.SensorReading) {
	for _, l := range ctl.listeners {
		l.SensorReading(r)
	}
}

func (ctl *Controller) notifyMixer(st models.MixerState) {
	for _, l := range ctl.listeners {
		l.MixerState(st)
	}
}
