package mongo

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const formResponseCollectionName = "form_responses"

// mongoFormResponseStore implements repository.FormResponseStore
type mongoFormResponseStore struct {
	collection *mongo.Collection
}

// NewMongoFormResponseStore creates a FormResponse store backed by MongoDB.
// It relies on the unique index created by EnsureFormResponseIndexes.
func NewMongoFormResponseStore(db *mongo.Database) repository.FormResponseStore {
	return &mongoFormResponseStore{
		collection: db.Collection(formResponseCollectionName),
	}
}

// CreatePending inserts response unless one already exists for its weekly plan,
// in which case the stored one is returned with created=false.
func (s *mongoFormResponseStore) CreatePending(ctx context.Context, response *domain.FormResponse) (*domain.FormResponse, bool, error) {
	if response.WeeklyPlanID == nil {
		return nil, false, errors.New("pending response requires weeklyPlanId")
	}

	response.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	response.CreatedAt = now
	response.UpdatedAt = now

	_, err := s.collection.InsertOne(ctx, response)
	if err == nil {
		return response, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, err
	}

	var existing domain.FormResponse
	err = s.collection.FindOne(ctx, bson.M{"weeklyPlanId": *response.WeeklyPlanID}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, repository.ErrDuplicate
		}
		return nil, false, err
	}
	return &existing, false, nil
}

// EnsureFormResponseIndexes creates necessary indexes for the form_responses collection.
// Intake responses carry no weeklyPlanId, hence the sparse unique index.
func EnsureFormResponseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "weeklyPlanId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
