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

const (
	GoalCollectionName        = "session_goals"
	MuscleGroupCollectionName = "muscle_groups"
	EquipmentCollectionName   = "equipment"
)

// CatalogCollectionName maps a catalog kind to its collection.
func CatalogCollectionName(kind domain.CatalogKind) string {
	switch kind {
	case domain.CatalogGoals:
		return GoalCollectionName
	case domain.CatalogMuscleGroups:
		return MuscleGroupCollectionName
	case domain.CatalogEquipment:
		return EquipmentCollectionName
	}
	return ""
}

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a repository for one catalog collection.
func NewMongoCatalogRepository(db *mongo.Database, collectionName string) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(collectionName),
	}
}

// Create inserts a new catalog item. Names are unique per organization.
func (r *mongoCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted catalog item ID")
	}
	return insertedID, nil
}

// GetByID retrieves a catalog item by its ID.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByOrganization retrieves an organization's items sorted by name.
func (r *mongoCatalogRepository) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"organizationId": orgID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	return items, nil
}

// Update renames a catalog item.
func (r *mongoCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("catalog item ID is required for update")
	}

	item.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      item.Name,
			"editedBy":  item.EditedBy,
			"updatedAt": item.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a catalog item by its ID.
func (r *mongoCatalogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepository) OrganizationsOf(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	return organizationsOf(ctx, r.collection, ids, nil)
}

// EnsureCatalogIndexes creates the unique per-organization name index of a catalog collection.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organizationId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
