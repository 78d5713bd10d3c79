package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	// Use a separate context for the ping, as the initial connection might have succeeded
	// but the server might be unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection this service writes.
// The unique indexes carry invariants (one feedback response per plan, unique
// catalog names per organization), so any failure is returned to the caller.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := []struct {
		name string
		fn   func(context.Context, *mongo.Collection) error
	}{
		{sessionCollectionName, EnsureSessionIndexes},
		{sessionExerciseCollectionName, EnsureSessionExerciseIndexes},
		{weeklyPlanCollectionName, EnsureWeeklyPlanIndexes},
		{formResponseCollectionName, EnsureFormResponseIndexes},
		{GoalCollectionName, EnsureCatalogIndexes},
		{MuscleGroupCollectionName, EnsureCatalogIndexes},
		{EquipmentCollectionName, EnsureCatalogIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx, db.Collection(e.name)); err != nil {
			return fmt.Errorf("creating indexes of %s: %w", e.name, err)
		}
		logrus.WithField("collection", e.name).Debug("indexes ensured")
	}
	return nil
}
