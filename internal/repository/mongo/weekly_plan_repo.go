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

const weeklyPlanCollectionName = "weekly_plans"

// mongoWeeklyPlanRepository implements repository.WeeklyPlanRepository
type mongoWeeklyPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWeeklyPlanRepository creates a new WeeklyPlan repository backed by MongoDB.
func NewMongoWeeklyPlanRepository(db *mongo.Database) repository.WeeklyPlanRepository {
	return &mongoWeeklyPlanRepository{
		collection: db.Collection(weeklyPlanCollectionName),
	}
}

// Create inserts a new weekly plan.
func (r *mongoWeeklyPlanRepository) Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error) {
	if plan.OrganizationID == primitive.NilObjectID || plan.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("weekly plan requires organizationId and clientId")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	normalizeDays(plan.WeekDays)
	if plan.WeekDays == nil {
		plan.WeekDays = []domain.DayPlan{}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted weekly plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a weekly plan by its ID.
func (r *mongoWeeklyPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklyPlan, error) {
	var plan domain.WeeklyPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByOrganization retrieves all plans of an organization, newest week first.
func (r *mongoWeeklyPlanRepository) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	return r.find(ctx, bson.M{"organizationId": orgID})
}

// ListByClient retrieves the plans of one client, optionally only those flagged active.
func (r *mongoWeeklyPlanRepository) ListByClient(ctx context.Context, orgID, clientID primitive.ObjectID, activeOnly bool) ([]domain.WeeklyPlan, error) {
	filter := bson.M{"organizationId": orgID, "clientId": clientID}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.find(ctx, filter)
}

// ListEndedWithForm retrieves a client's plans that reference a form template
// and ended before endedBy.
func (r *mongoWeeklyPlanRepository) ListEndedWithForm(ctx context.Context, orgID, clientID primitive.ObjectID, endedBy time.Time) ([]domain.WeeklyPlan, error) {
	filter := bson.M{
		"organizationId": orgID,
		"clientId":       clientID,
		"formTemplateId": bson.M{"$exists": true, "$ne": nil},
		"endDate":        bson.M{"$lt": endedBy},
	}
	return r.find(ctx, filter)
}

func (r *mongoWeeklyPlanRepository) find(ctx context.Context, filter bson.M) ([]domain.WeeklyPlan, error) {
	var plans []domain.WeeklyPlan
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.WeeklyPlan{}
	}
	return plans, nil
}

// Update replaces the editable fields of a plan, including its week days.
func (r *mongoWeeklyPlanRepository) Update(ctx context.Context, plan *domain.WeeklyPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("weekly plan ID is required for update")
	}

	plan.UpdatedAt = time.Now().UTC()
	normalizeDays(plan.WeekDays)
	set := bson.M{
		"clientId":  plan.ClientID,
		"name":      plan.Name,
		"weekDays":  plan.WeekDays,
		"startDate": plan.StartDate,
		"endDate":   plan.EndDate,
		"isActive":  plan.IsActive,
		"notes":     plan.Notes,
		"editedBy":  plan.EditedBy,
		"updatedAt": plan.UpdatedAt,
	}
	unset := bson.M{}
	if plan.EmployeeID != nil {
		set["employeeId"] = *plan.EmployeeID
	} else {
		unset["employeeId"] = ""
	}
	if plan.FormTemplateID != nil {
		set["formTemplateId"] = *plan.FormTemplateID
	} else {
		unset["formTemplateId"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetDayCompleted flips one day's completed flag in a single atomic update and
// returns the plan as stored afterwards.
func (r *mongoWeeklyPlanRepository) SetDayCompleted(ctx context.Context, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error) {
	update := bson.M{
		"$set": bson.M{
			"weekDays.$.completed": completed,
			"updatedAt":            time.Now().UTC(),
		},
	}
	return r.updateDay(ctx, planID, dayOfWeek, update)
}

// SetExerciseCompleted adds or removes one session exercise in a day's
// completed set. Adding is idempotent through $addToSet.
func (r *mongoWeeklyPlanRepository) SetExerciseCompleted(ctx context.Context, planID primitive.ObjectID, dayOfWeek int, sessionExerciseID primitive.ObjectID, completed bool) (*domain.WeeklyPlan, error) {
	op := "$pull"
	if completed {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"weekDays.$.completedExercises": sessionExerciseID},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.updateDay(ctx, planID, dayOfWeek, update)
}

func (r *mongoWeeklyPlanRepository) updateDay(ctx context.Context, planID primitive.ObjectID, dayOfWeek int, update bson.M) (*domain.WeeklyPlan, error) {
	filter := bson.M{"_id": planID, "weekDays.dayOfWeek": dayOfWeek}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var plan domain.WeeklyPlan
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Delete removes a weekly plan by its ID.
func (r *mongoWeeklyPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// normalizeDays stores empty completion sets as arrays so $addToSet and $pull apply.
func normalizeDays(days []domain.DayPlan) {
	for i := range days {
		if days[i].CompletedExercises == nil {
			days[i].CompletedExercises = []primitive.ObjectID{}
		}
	}
}

// EnsureWeeklyPlanIndexes creates necessary indexes for the weekly_plans collection.
func EnsureWeeklyPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// A client's plans, newest first
			Keys:    bson.D{{Key: "organizationId", Value: 1}, {Key: "clientId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			// Backfill scan of ended plans
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
