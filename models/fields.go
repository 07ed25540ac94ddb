package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// extraFields returns the top-level JSON fields of data that are not named
// in known. It returns nil when there are none.
func extraFields(data []byte, known ...string) (bson.M, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return bson.M(all), nil
}

func withExtra(extra bson.M, size int) map[string]any {
	out := make(map[string]any, len(extra)+size)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// present mirrors how the dashboard treats required preset and history
// fields: null, empty strings, zero and false all count as missing.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}
