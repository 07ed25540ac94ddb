package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Acceleration is the three-axis accelerometer sample, in m/s².
type Acceleration struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// SensorPayload is one reading as sent by the device and as served back
// from the latest-reading endpoint.
type SensorPayload struct {
	Temperature  float64      `json:"temperature" bson:"temperature"`
	Humidity     float64      `json:"humidity" bson:"humidity"`
	Acceleration Acceleration `json:"acceleration" bson:"acceleration"`
	Current      float64      `json:"current" bson:"current"`
}

// DefaultSensorPayload is served until the first reading arrives.
var DefaultSensorPayload = SensorPayload{
	Temperature: 25,
	Humidity:    50,
}

// SensorReading is the persisted form of a payload.
type SensorReading struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SensorPayload `bson:",inline"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
}

// SensorDataRequest is the ingestion body. Pointers distinguish a missing
// field from a legitimate zero.
type SensorDataRequest struct {
	Temperature  *float64      `json:"temperature"`
	Humidity     *float64      `json:"humidity"`
	Acceleration *Acceleration `json:"acceleration"`
	Current      *float64      `json:"current"`
}

// Validate reports the first required field that is absent.
func (r *SensorDataRequest) Validate() error {
	switch {
	case r.Temperature == nil:
		return errors.New(`missing field "temperature"`)
	case r.Humidity == nil:
		return errors.New(`missing field "humidity"`)
	case r.Acceleration == nil:
		return errors.New(`missing field "acceleration"`)
	case r.Current == nil:
		return errors.New(`missing field "current"`)
	}
	return nil
}

// Payload converts a validated request.
func (r *SensorDataRequest) Payload() SensorPayload {
	return SensorPayload{
		Temperature:  *r.Temperature,
		Humidity:     *r.Humidity,
		Acceleration: *r.Acceleration,
		Current:      *r.Current,
	}
}
