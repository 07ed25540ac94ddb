package models

import (
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Besides the unique email, callers may
// attach any additional fields; they are stored and returned as-is.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Email string             `bson:"email"`
	Extra bson.M             `bson:",inline"`
}

// Validate checks the fields registration depends on.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New(`missing field "email"`)
	}
	return nil
}

func (u *User) UnmarshalJSON(data []byte) error {
	var known struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraFields(data, "_id", "id", "email")
	if err != nil {
		return err
	}
	u.Email = known.Email
	u.Extra = extra
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	out := withExtra(u.Extra, 2)
	out["_id"] = u.ID
	out["email"] = u.Email
	return json.Marshal(out)
}
