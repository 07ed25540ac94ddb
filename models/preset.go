package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preset is a saved mixing recipe. Required fields are checked for presence
// only and kept in whatever shape the dashboard sends; extra fields are
// stored alongside.
type Preset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CropName    any                `bson:"cropName"`
	CropVariety any                `bson:"cropVariety"`
	Fertilizers any                `bson:"fertilizers"`
	MixingTime  any                `bson:"mixingTime"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Extra       bson.M             `bson:",inline"`
}

var presetFields = []string{"_id", "id", "cropName", "cropVariety", "fertilizers", "mixingTime", "createdAt"}

// Validate checks that all required fields are present.
func (p *Preset) Validate() error {
	required := []struct {
		name string
		ok   bool
	}{
		{"cropName", present(p.CropName)},
		{"cropVariety", present(p.CropVariety)},
		{"fertilizers", present(p.Fertilizers)},
		{"mixingTime", present(p.MixingTime)},
	}
	for _, f := range required {
		if !f.ok {
			return fmt.Errorf("missing field %q", f.name)
		}
	}
	return nil
}

func (p *Preset) UnmarshalJSON(data []byte) error {
	var known struct {
		CropName    any `json:"cropName"`
		CropVariety any `json:"cropVariety"`
		Fertilizers any `json:"fertilizers"`
		MixingTime  any `json:"mixingTime"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraFields(data, presetFields...)
	if err != nil {
		return err
	}
	p.CropName = known.CropName
	p.CropVariety = known.CropVariety
	p.Fertilizers = known.Fertilizers
	p.MixingTime = known.MixingTime
	p.Extra = extra
	return nil
}

func (p Preset) MarshalJSON() ([]byte, error) {
	out := withExtra(p.Extra, len(presetFields))
	out["_id"] = p.ID
	out["cropName"] = p.CropName
	out["cropVariety"] = p.CropVariety
	out["fertilizers"] = p.Fertilizers
	out["mixingTime"] = p.MixingTime
	out["createdAt"] = p.CreatedAt
	return json.Marshal(out)
}

// PresetUpdate is a partial preset document merged with $set.
type PresetUpdate map[string]any

// Fields returns the settable fields; the identifier is never settable.
func (u PresetUpdate) Fields() bson.M {
	fields := bson.M{}
	for k, v := range u {
		if k == "_id" || k == "id" {
			continue
		}
		fields[k] = v
	}
	return fields
}
