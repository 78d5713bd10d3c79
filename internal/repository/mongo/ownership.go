package mongo

import (
	"alcyxob/training-planner/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Read-only directories owned by other parts of the system. They are only
// consulted to check which organization a referenced id belongs to.
const (
	ClientCollectionName       = "clients"
	EmployeeCollectionName     = "employees"
	ExerciseCollectionName     = "exercises"
	FormTemplateCollectionName = "form_templates"
)

// mongoOwnershipLookup implements repository.OwnershipLookup for any
// collection whose documents carry an organizationId.
type mongoOwnershipLookup struct {
	collection *mongo.Collection
	filter     bson.M // extra constraints, e.g. only active documents
}

// NewOwnershipLookup resolves ids of collectionName to their organization.
func NewOwnershipLookup(db *mongo.Database, collectionName string) repository.OwnershipLookup {
	return &mongoOwnershipLookup{collection: db.Collection(collectionName)}
}

// NewActiveOwnershipLookup only reports documents flagged isActive, so
// inactive entries resolve as missing.
func NewActiveOwnershipLookup(db *mongo.Database, collectionName string) repository.OwnershipLookup {
	return &mongoOwnershipLookup{
		collection: db.Collection(collectionName),
		filter:     bson.M{"isActive": true},
	}
}

func (l *mongoOwnershipLookup) OrganizationsOf(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	return organizationsOf(ctx, l.collection, ids, l.filter)
}

// organizationsOf projects only _id and organizationId of the requested documents.
func organizationsOf(ctx context.Context, collection *mongo.Collection, ids []primitive.ObjectID, extra bson.M) (map[primitive.ObjectID]primitive.ObjectID, error) {
	owners := make(map[primitive.ObjectID]primitive.ObjectID, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	for k, v := range extra {
		filter[k] = v
	}
	findOptions := options.Find().SetProjection(bson.M{"_id": 1, "organizationId": 1})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID             primitive.ObjectID `bson:"_id"`
			OrganizationID primitive.ObjectID `bson:"organizationId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		owners[doc.ID] = doc.OrganizationID
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}
