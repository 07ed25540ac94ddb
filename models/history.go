package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRecord is one run of a preset on the machine.
type HistoryRecord struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PresetID    any                `json:"presetId" bson:"presetId"`
	CropName    any                `json:"cropName" bson:"cropName"`
	CropVariety any                `json:"cropVariety" bson:"cropVariety"`
	MixingTime  any                `json:"mixingTime" bson:"mixingTime"`
	RunAt       time.Time          `json:"runAt" bson:"runAt"`
}

// HistoryRequest is the body of a history POST. Fields are checked for
// presence, not type.
type HistoryRequest struct {
	PresetID    any `json:"presetId"`
	CropName    any `json:"cropName"`
	CropVariety any `json:"cropVariety"`
	MixingTime  any `json:"mixingTime"`
}

func (r *HistoryRequest) Validate() error {
	switch {
	case !present(r.PresetID):
		return errors.New(`missing field "presetId"`)
	case !present(r.CropName):
		return errors.New(`missing field "cropName"`)
	case !present(r.MixingTime):
		return errors.New(`missing field "mixingTime"`)
	}
	return nil
}

// Record converts a validated request; RunAt is stamped by the store.
func (r *HistoryRequest) Record() HistoryRecord {
	return HistoryRecord{
		PresetID:    r.PresetID,
		CropName:    r.CropName,
		CropVariety: r.CropVariety,
		MixingTime:  r.MixingTime,
	}
}
