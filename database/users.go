package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakib5627/mixer-machine-server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore reads and writes the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{coll: coll}
}

// List returns every user in natural order.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Create inserts u unless a user with the same email exists, in which case
// it returns ErrDuplicate. The unique email index closes the gap between
// the lookup and the insert.
func (s *UserStore) Create(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	err := s.coll.FindOne(ctx, bson.M{"email": u.Email}).Err()
	switch {
	case err == nil:
		return primitive.NilObjectID, ErrDuplicate
	case !errors.Is(err, mongo.ErrNoDocuments):
		return primitive.NilObjectID, fmt.Errorf("find user by email: %w", err)
	}

	res, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	u.ID = id
	return id, nil
}
