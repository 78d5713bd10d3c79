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

const sessionExerciseCollectionName = "session_exercises"

// mongoSessionExerciseRepository implements repository.SessionExerciseRepository
type mongoSessionExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionExerciseRepository creates a new SessionExercise repository backed by MongoDB.
func NewMongoSessionExerciseRepository(db *mongo.Database) repository.SessionExerciseRepository {
	return &mongoSessionExerciseRepository{
		collection: db.Collection(sessionExerciseCollectionName),
	}
}

// Create inserts a new session exercise.
func (r *mongoSessionExerciseRepository) Create(ctx context.Context, se *domain.SessionExercise) (primitive.ObjectID, error) {
	if se.SessionID == primitive.NilObjectID || se.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session exercise requires sessionId and exerciseId")
	}

	se.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	se.CreatedAt = now
	se.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, se)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session exercise ID")
	}
	return insertedID, nil
}

// CreateMany inserts a batch of session exercises, assigning fresh IDs.
func (r *mongoSessionExerciseRepository) CreateMany(ctx context.Context, items []domain.SessionExercise) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		docs[i] = items[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a session exercise by its ID.
func (r *mongoSessionExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	var se domain.SessionExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&se)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &se, nil
}

// ListBySession retrieves the exercises of a session sorted by order.
func (r *mongoSessionExerciseRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	var items []domain.SessionExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.SessionExercise{}
	}
	return items, nil
}

// MaxOrder returns the highest order in the session; ok is false for an empty session.
func (r *mongoSessionExerciseRepository) MaxOrder(ctx context.Context, sessionID primitive.ObjectID) (int, bool, error) {
	var last struct {
		Order int `bson:"order"`
	}
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})

	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}, findOptions).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return last.Order, true, nil
}

// Update replaces the editable fields of a session exercise.
func (r *mongoSessionExerciseRepository) Update(ctx context.Context, se *domain.SessionExercise) error {
	if se.ID == primitive.NilObjectID {
		return errors.New("session exercise ID is required for update")
	}

	se.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"exerciseId": se.ExerciseID,
			"order":      se.Order,
			"notes":      se.Notes,
			"config":     se.Config,
			"updatedAt":  se.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": se.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Reorder writes every listed order in one unordered bulk write. Entries whose
// ID is not part of sessionID match nothing and are left alone.
func (r *mongoSessionExerciseRepository) Reorder(ctx context.Context, sessionID primitive.ObjectID, orders []domain.ExerciseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(orders))
	for _, o := range orders {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": o.ID, "sessionId": sessionID}).
			SetUpdate(bson.M{"$set": bson.M{"order": o.Order, "updatedAt": now}}))
	}

	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// Delete removes a session exercise by its ID.
func (r *mongoSessionExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySession removes every exercise attached to a session.
func (r *mongoSessionExerciseRepository) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoSessionExerciseRepository) OrganizationsOf(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	return organizationsOf(ctx, r.collection, ids, nil)
}

// EnsureSessionExerciseIndexes creates necessary indexes for the session_exercises collection.
func EnsureSessionExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Listing a session's exercises in order
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "organizationId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
