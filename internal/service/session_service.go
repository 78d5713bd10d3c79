package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionInput carries the fields of a new session.
type SessionInput struct {
	Type        domain.SessionType
	Name        string
	Goals       []primitive.ObjectID
	MuscleFocus []primitive.ObjectID
	Notes       string
}

// SessionUpdate carries the fields to change; nil fields are left as they are.
type SessionUpdate struct {
	Type        *domain.SessionType
	Name        *string
	Goals       *[]primitive.ObjectID
	MuscleFocus *[]primitive.ObjectID
	Notes       *string
}

// SessionDetails is a session together with its exercises in display order.
type SessionDetails struct {
	Session   *domain.Session
	Exercises []domain.SessionExercise
}

// --- Service Interface ---
type SessionService interface {
	CreateSession(ctx context.Context, orgID primitive.ObjectID, author domain.Author, input SessionInput) (*domain.Session, error)
	GetSession(ctx context.Context, orgID, sessionID primitive.ObjectID) (*SessionDetails, error)
	ListSessions(ctx context.Context, orgID primitive.ObjectID) ([]domain.Session, error)
	UpdateSession(ctx context.Context, orgID, sessionID primitive.ObjectID, author domain.Author, update SessionUpdate) (*domain.Session, error)
	DeleteSession(ctx context.Context, orgID, sessionID primitive.ObjectID) error
	DuplicateSession(ctx context.Context, orgID, sessionID primitive.ObjectID, author domain.Author) (*SessionDetails, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.SessionExerciseRepository
	refs         *ReferenceValidator
	clock        Clock
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.SessionExerciseRepository,
	refs *ReferenceValidator,
	clock Clock,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		refs:         refs,
		clock:        clock,
	}
}

// CreateSession validates and stores a new session template.
func (s *sessionService) CreateSession(ctx context.Context, orgID primitive.ObjectID, author domain.Author, input SessionInput) (*domain.Session, error) {
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	name, err := requireName(input.Name)
	if err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, domain.NewValidationError("type", "session type must be 'strength', 'cardio' or 'mixed'")
	}

	err = s.refs.assertAll(ctx, orgID,
		reference{domain.RefGoal, input.Goals},
		reference{domain.RefMuscleGroup, input.MuscleFocus},
	)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		OrganizationID: orgID,
		Type:           input.Type,
		Name:           name,
		Goals:          orEmpty(input.Goals),
		MuscleFocus:    orEmpty(input.MuscleFocus),
		Notes:          input.Notes,
		CreatedBy:      author,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// GetSession returns a session of orgID with its exercises.
func (s *sessionService) GetSession(ctx context.Context, orgID, sessionID primitive.ObjectID) (*SessionDetails, error) {
	session, err := s.getOwned(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing session exercises: %w", err)
	}
	return &SessionDetails{Session: session, Exercises: exercises}, nil
}

func (s *sessionService) ListSessions(ctx context.Context, orgID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.ListByOrganization(ctx, orgID)
}

// UpdateSession applies update. A type change is rejected when an attached
// exercise would become incompatible with the new type.
func (s *sessionService) UpdateSession(ctx context.Context, orgID, sessionID primitive.ObjectID, author domain.Author, update SessionUpdate) (*domain.Session, error) {
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	session, err := s.getOwned(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name, err := requireName(*update.Name)
		if err != nil {
			return nil, err
		}
		session.Name = name
	}

	var refs []reference
	if update.Goals != nil {
		session.Goals = orEmpty(*update.Goals)
		refs = append(refs, reference{domain.RefGoal, session.Goals})
	}
	if update.MuscleFocus != nil {
		session.MuscleFocus = orEmpty(*update.MuscleFocus)
		refs = append(refs, reference{domain.RefMuscleGroup, session.MuscleFocus})
	}
	if err := s.refs.assertAll(ctx, orgID, refs...); err != nil {
		return nil, err
	}

	if update.Type != nil && *update.Type != session.Type {
		attached, err := s.exerciseRepo.ListBySession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("listing session exercises: %w", err)
		}
		types := make([]domain.ConfigType, 0, len(attached))
		for _, se := range attached {
			if se.Config.ExerciseConfig != nil {
				types = append(types, se.Config.ConfigType())
			}
		}
		if err := domain.CheckSessionRetype(*update.Type, types); err != nil {
			return nil, err
		}
		session.Type = *update.Type
	}

	if update.Notes != nil {
		session.Notes = *update.Notes
	}
	session.EditedBy = edited(session.EditedBy, author, s.clock.now())

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, notFoundOr(err, domain.RefSession, "session %s not found", sessionID.Hex())
	}
	return session, nil
}

// DeleteSession removes a session and every exercise attached to it.
func (s *sessionService) DeleteSession(ctx context.Context, orgID, sessionID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, orgID, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return notFoundOr(err, domain.RefSession, "session %s not found", sessionID.Hex())
	}
	removed, err := s.exerciseRepo.DeleteBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("deleting exercises of session %s: %w", sessionID.Hex(), err)
	}
	logrus.WithFields(logrus.Fields{
		"session_id": sessionID.Hex(),
		"exercises":  removed,
	}).Debug("session deleted")
	return nil
}

// DuplicateSession copies a session and its exercises under the name "<name> (Copia)".
func (s *sessionService) DuplicateSession(ctx context.Context, orgID, sessionID primitive.ObjectID, author domain.Author) (*SessionDetails, error) {
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	source, err := s.GetSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}

	copied := &domain.Session{
		OrganizationID: orgID,
		Type:           source.Session.Type,
		Name:           source.Session.Name + " (Copia)",
		Goals:          append([]primitive.ObjectID{}, source.Session.Goals...),
		MuscleFocus:    append([]primitive.ObjectID{}, source.Session.MuscleFocus...),
		Notes:          source.Session.Notes,
		CreatedBy:      author,
	}
	if _, err := s.sessionRepo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("creating session copy: %w", err)
	}

	exercises := make([]domain.SessionExercise, len(source.Exercises))
	for i, se := range source.Exercises {
		exercises[i] = domain.SessionExercise{
			OrganizationID: orgID,
			SessionID:      copied.ID,
			ExerciseID:     se.ExerciseID,
			Order:          se.Order,
			Notes:          se.Notes,
			Config:         se.Config,
		}
	}
	if err := s.exerciseRepo.CreateMany(ctx, exercises); err != nil {
		return nil, fmt.Errorf("copying session exercises: %w", err)
	}
	return &SessionDetails{Session: copied, Exercises: exercises}, nil
}

// getOwned loads a session and hides sessions of other organizations as missing.
func (s *sessionService) getOwned(ctx context.Context, orgID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefSession, "session %s not found", sessionID.Hex())
	}
	if session.OrganizationID != orgID {
		return nil, domain.NewNotFoundError(domain.RefSession, "session %s not found", sessionID.Hex())
	}
	return session, nil
}
