package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionExerciseInput carries a new exercise attachment. Config is the raw
// tagged configuration; a nil Order appends after the last exercise.
type SessionExerciseInput struct {
	SessionID  primitive.ObjectID
	ExerciseID primitive.ObjectID
	Order      *int
	Notes      string
	Config     json.RawMessage
}

// SessionExerciseUpdate carries the fields to change; nil fields are left as they are.
type SessionExerciseUpdate struct {
	ExerciseID *primitive.ObjectID
	Order      *int
	Notes      *string
	Config     json.RawMessage
}

// --- Service Interface ---
type SessionExerciseService interface {
	CreateSessionExercise(ctx context.Context, orgID primitive.ObjectID, input SessionExerciseInput) (*domain.SessionExercise, error)
	GetSessionExercise(ctx context.Context, orgID, id primitive.ObjectID) (*domain.SessionExercise, error)
	ListSessionExercises(ctx context.Context, orgID, sessionID primitive.ObjectID) ([]domain.SessionExercise, error)
	UpdateSessionExercise(ctx context.Context, orgID, id primitive.ObjectID, update SessionExerciseUpdate) (*domain.SessionExercise, error)
	DeleteSessionExercise(ctx context.Context, orgID, id primitive.ObjectID) error
	ReorderSessionExercises(ctx context.Context, orgID, sessionID primitive.ObjectID, orders []domain.ExerciseOrder) ([]domain.SessionExercise, error)
}

// --- Service Implementation ---

// sessionExerciseService implements the SessionExerciseService interface.
type sessionExerciseService struct {
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.SessionExerciseRepository
	refs         *ReferenceValidator
}

// NewSessionExerciseService creates a new instance of sessionExerciseService.
func NewSessionExerciseService(
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.SessionExerciseRepository,
	refs *ReferenceValidator,
) SessionExerciseService {
	return &sessionExerciseService{
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		refs:         refs,
	}
}

// CreateSessionExercise attaches an exercise to a session. References are
// checked first, then the config is validated and matched against the
// session type; nothing is written unless all three pass.
func (s *sessionExerciseService) CreateSessionExercise(ctx context.Context, orgID primitive.ObjectID, input SessionExerciseInput) (*domain.SessionExercise, error) {
	if input.SessionID == primitive.NilObjectID {
		return nil, domain.NewValidationError("sessionId", "is required")
	}
	if input.ExerciseID == primitive.NilObjectID {
		return nil, domain.NewValidationError("exerciseId", "is required")
	}

	err := s.refs.assertAll(ctx, orgID,
		reference{domain.RefSession, []primitive.ObjectID{input.SessionID}},
		reference{domain.RefExercise, []primitive.ObjectID{input.ExerciseID}},
	)
	if err != nil {
		return nil, err
	}

	config, err := domain.ParseExerciseConfig(input.Config)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefSession, "session %s not found", input.SessionID.Hex())
	}
	if err := domain.CheckCompatibility(session.Type, config.ConfigType()); err != nil {
		return nil, err
	}

	order, err := s.resolveOrder(ctx, input.SessionID, input.Order)
	if err != nil {
		return nil, err
	}

	se := &domain.SessionExercise{
		OrganizationID: orgID,
		SessionID:      input.SessionID,
		ExerciseID:     input.ExerciseID,
		Order:          order,
		Notes:          input.Notes,
		Config:         domain.TypedConfig{ExerciseConfig: config},
	}
	if _, err := s.exerciseRepo.Create(ctx, se); err != nil {
		return nil, fmt.Errorf("creating session exercise: %w", err)
	}
	return se, nil
}

func (s *sessionExerciseService) resolveOrder(ctx context.Context, sessionID primitive.ObjectID, requested *int) (int, error) {
	if requested != nil {
		if *requested < 0 {
			return 0, domain.NewValidationError("order", "must not be negative")
		}
		return *requested, nil
	}
	last, ok, err := s.exerciseRepo.MaxOrder(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("reading last exercise order: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return last + 1, nil
}

func (s *sessionExerciseService) GetSessionExercise(ctx context.Context, orgID, id primitive.ObjectID) (*domain.SessionExercise, error) {
	return s.getOwned(ctx, orgID, id)
}

// ListSessionExercises returns the exercises of a session sorted by order.
func (s *sessionExerciseService) ListSessionExercises(ctx context.Context, orgID, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefSession, sessionID); err != nil {
		return nil, err
	}
	return s.exerciseRepo.ListBySession(ctx, sessionID)
}

// UpdateSessionExercise applies update. The resulting config is always
// re-checked against the session's current type.
func (s *sessionExerciseService) UpdateSessionExercise(ctx context.Context, orgID, id primitive.ObjectID, update SessionExerciseUpdate) (*domain.SessionExercise, error) {
	se, err := s.getOwned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if update.ExerciseID != nil && *update.ExerciseID != se.ExerciseID {
		if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefExercise, *update.ExerciseID); err != nil {
			return nil, err
		}
		se.ExerciseID = *update.ExerciseID
	}

	if update.Config != nil {
		config, err := domain.ParseExerciseConfig(update.Config)
		if err != nil {
			return nil, err
		}
		se.Config = domain.TypedConfig{ExerciseConfig: config}
	}

	session, err := s.sessionRepo.GetByID(ctx, se.SessionID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefSession, "session %s not found", se.SessionID.Hex())
	}
	if se.Config.ExerciseConfig == nil {
		return nil, domain.NewValidationError("config", "is required")
	}
	if err := domain.CheckCompatibility(session.Type, se.Config.ConfigType()); err != nil {
		return nil, err
	}

	if update.Order != nil {
		if *update.Order < 0 {
			return nil, domain.NewValidationError("order", "must not be negative")
		}
		se.Order = *update.Order
	}
	if update.Notes != nil {
		se.Notes = *update.Notes
	}

	if err := s.exerciseRepo.Update(ctx, se); err != nil {
		return nil, notFoundOr(err, domain.RefSessionExercise, "session exercise %s not found", id.Hex())
	}
	return se, nil
}

func (s *sessionExerciseService) DeleteSessionExercise(ctx context.Context, orgID, id primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, domain.RefSessionExercise, "session exercise %s not found", id.Hex())
	}
	return nil
}

// ReorderSessionExercises sets the order of each listed exercise. Every id may
// appear once, so the outcome does not depend on the order of the batch.
func (s *sessionExerciseService) ReorderSessionExercises(ctx context.Context, orgID, sessionID primitive.ObjectID, orders []domain.ExerciseOrder) ([]domain.SessionExercise, error) {
	if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefSession, sessionID); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]struct{}, len(orders))
	for i, o := range orders {
		field := fmt.Sprintf("orders[%d]", i)
		if o.ID == primitive.NilObjectID {
			return nil, domain.NewValidationError(field+".id", "is required")
		}
		if o.Order < 0 {
			return nil, domain.NewValidationError(field+".order", "must not be negative")
		}
		if _, dup := seen[o.ID]; dup {
			return nil, domain.NewValidationError(field+".id", "exercise %s is listed more than once", o.ID.Hex())
		}
		seen[o.ID] = struct{}{}
		ids = append(ids, o.ID)
	}
	if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefSessionExercise, ids...); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Reorder(ctx, sessionID, orders); err != nil {
		return nil, fmt.Errorf("reordering session exercises: %w", err)
	}
	return s.exerciseRepo.ListBySession(ctx, sessionID)
}

func (s *sessionExerciseService) getOwned(ctx context.Context, orgID, id primitive.ObjectID) (*domain.SessionExercise, error) {
	se, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.RefSessionExercise, "session exercise %s not found", id.Hex())
	}
	if se.OrganizationID != orgID {
		return nil, domain.NewNotFoundError(domain.RefSessionExercise, "session exercise %s not found", id.Hex())
	}
	return se, nil
}
