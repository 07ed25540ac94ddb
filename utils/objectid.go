package utils

import (
	"github.com/Rakib5627/mixer-machine-server/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID converts a path parameter into an ObjectID. Malformed
// identifiers are a client error, not a storage error.
func ParseObjectID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.ValidationError("Invalid "+what+" id").WithField("id", hex)
	}
	return id, nil
}
