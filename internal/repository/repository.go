package repository

import (
	"alcyxob/training-planner/internal/domain" // Import our defined domain models
	"context"                                  // Standard for request-scoped deadlines, cancellation signals, etc.
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// OwnershipLookup resolves entity ids to the organization that owns them.
// Ids that do not exist are simply absent from the result.
type OwnershipLookup interface {
	OrganizationsOf(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error)
}

// OwnershipLookupFunc adapts a function to OwnershipLookup.
type OwnershipLookupFunc func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error)

func (f OwnershipLookupFunc) OrganizationsOf(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	return f(ctx, ids)
}

// SessionRepository defines the interface for interacting with session templates.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Session, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	OwnershipLookup
}

// SessionExerciseRepository defines the interface for exercises attached to sessions.
type SessionExerciseRepository interface {
	Create(ctx context.Context, se *domain.SessionExercise) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, items []domain.SessionExercise) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) // sorted by order
	MaxOrder(ctx context.Context, sessionID primitive.ObjectID) (int, bool, error)
	Update(ctx context.Context, se *domain.SessionExercise) error
	// Reorder sets the order of each listed exercise that belongs to sessionID.
	Reorder(ctx context.Context, sessionID primitive.ObjectID, orders []domain.ExerciseOrder) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	OwnershipLookup
}

// WeeklyPlanRepository defines the interface for interacting with weekly plan data.
// Completion setters are atomic single-document updates returning the stored result.
type WeeklyPlanRepository interface {
	Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklyPlan, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	ListByClient(ctx context.Context, orgID, clientID primitive.ObjectID, activeOnly bool) ([]domain.WeeklyPlan, error)
	ListEndedWithForm(ctx context.Context, orgID, clientID primitive.ObjectID, endedBy time.Time) ([]domain.WeeklyPlan, error)
	Update(ctx context.Context, plan *domain.WeeklyPlan) error
	SetDayCompleted(ctx context.Context, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error)
	SetExerciseCompleted(ctx context.Context, planID primitive.ObjectID, dayOfWeek int, sessionExerciseID primitive.ObjectID, completed bool) (*domain.WeeklyPlan, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// FormResponseStore is the downstream feedback-form collaborator.
// CreatePending is idempotent per weekly plan: when a response already exists
// for the plan it is returned with created=false.
type FormResponseStore interface {
	CreatePending(ctx context.Context, response *domain.FormResponse) (stored *domain.FormResponse, created bool, err error)
}

// CatalogRepository stores one organization-scoped name catalog.
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogItem, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]domain.CatalogItem, error)
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	OwnershipLookup
}
