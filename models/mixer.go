package models

import (
	"time"
)

const (
	MixerOn  = "on"
	MixerOff = "off"

	// MachineID is the _id of the single mixer state document.
	MachineID = "machine01"
)

// MixerState stores the on/off flag of the mixer.
type MixerState struct {
	ID        string    `json:"-" bson:"_id"`
	State     string    `json:"state" bson:"state"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type MixerStateRequest struct {
	State string `json:"state"`
}

// ValidMixerState reports whether s is "on" or "off".
func ValidMixerState(s string) bool {
	return s == MixerOn || s == MixerOff
}
