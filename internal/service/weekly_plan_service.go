package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/repository"
	"alcyxob/training-planner/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyPlanInput carries a new plan. Completion state in WeekDays is ignored;
// a new plan always starts with nothing completed.
type WeeklyPlanInput struct {
	ClientID       primitive.ObjectID
	EmployeeID     *primitive.ObjectID
	Name           string
	WeekDays       []domain.DayPlan
	StartDate      time.Time
	EndDate        time.Time
	IsActive       *bool // defaults to true
	FormTemplateID *primitive.ObjectID
	Notes          string
}

// WeeklyPlanUpdate carries the fields to change; nil fields are left as they are.
// WeekDays replaces the whole week, including its completion state. The Clear
// flags remove the optional employee or form template and win over a new id.
type WeeklyPlanUpdate struct {
	ClientID       *primitive.ObjectID
	EmployeeID     *primitive.ObjectID
	Name           *string
	WeekDays       *[]domain.DayPlan
	StartDate      *time.Time
	EndDate        *time.Time
	IsActive       *bool
	FormTemplateID *primitive.ObjectID
	Notes          *string

	ClearEmployee     bool
	ClearFormTemplate bool
}

// PlanDetails is a plan with the sessions it schedules resolved.
type PlanDetails struct {
	Plan     *domain.WeeklyPlan `json:"plan"`
	Sessions []domain.Session   `json:"sessions"`
}

// PlanExport locates an exported plan document in object storage.
type PlanExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PlannerOptions holds the calendar settings of weekly plans.
type PlannerOptions struct {
	Location        *time.Location // continuation week bounds; defaults to time.Local
	ExportURLExpiry time.Duration
	Clock           Clock
}

// --- Service Interface ---
type WeeklyPlanService interface {
	CreateWeeklyPlan(ctx context.Context, orgID primitive.ObjectID, author domain.Author, input WeeklyPlanInput) (*PlanDetails, error)
	GetWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) (*PlanDetails, error)
	ListWeeklyPlans(ctx context.Context, orgID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	ListClientWeeklyPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	ListActiveClientWeeklyPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	UpdateWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID, author domain.Author, update WeeklyPlanUpdate) (*PlanDetails, error)
	DeleteWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) error
	DuplicateWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID, newClientID *primitive.ObjectID) (*PlanDetails, error)
	ExportWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) (*PlanExport, error)
}

// --- Service Implementation ---

// weeklyPlanService implements the WeeklyPlanService interface.
type weeklyPlanService struct {
	planRepo    repository.WeeklyPlanRepository
	sessionRepo repository.SessionRepository
	refs        *ReferenceValidator
	files       storage.FileStorage // nil disables export
	metrics     *metrics.Manager
	opts        PlannerOptions
}

// NewWeeklyPlanService creates a new instance of weeklyPlanService.
func NewWeeklyPlanService(
	planRepo repository.WeeklyPlanRepository,
	sessionRepo repository.SessionRepository,
	refs *ReferenceValidator,
	files storage.FileStorage,
	metricsManager *metrics.Manager,
	opts PlannerOptions,
) WeeklyPlanService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ExportURLExpiry <= 0 {
		opts.ExportURLExpiry = storage.DefaultPresignedURLExpiry
	}
	return &weeklyPlanService{
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
		refs:        refs,
		files:       files,
		metrics:     metricsManager,
		opts:        opts,
	}
}

// CreateWeeklyPlan validates the schedule and every reference before storing the plan.
func (s *weeklyPlanService) CreateWeeklyPlan(ctx context.Context, orgID primitive.ObjectID, author domain.Author, input WeeklyPlanInput) (*PlanDetails, error) {
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	name, err := requireName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.ClientID == primitive.NilObjectID {
		return nil, domain.NewValidationError("clientId", "is required")
	}
	if err := domain.ValidateSchedule(input.WeekDays, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	plan := &domain.WeeklyPlan{
		OrganizationID: orgID,
		ClientID:       input.ClientID,
		EmployeeID:     input.EmployeeID,
		Name:           name,
		WeekDays:       domain.ResetCompletion(input.WeekDays),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		IsActive:       input.IsActive == nil || *input.IsActive,
		FormTemplateID: input.FormTemplateID,
		Notes:          input.Notes,
		CreatedBy:      author,
	}
	if err := s.assertPlanReferences(ctx, plan); err != nil {
		return nil, err
	}

	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("creating weekly plan: %w", err)
	}
	return s.details(ctx, plan)
}

func (s *weeklyPlanService) GetWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) (*PlanDetails, error) {
	plan, err := s.getOwned(ctx, orgID, planID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, plan)
}

func (s *weeklyPlanService) ListWeeklyPlans(ctx context.Context, orgID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	return s.planRepo.ListByOrganization(ctx, orgID)
}

func (s *weeklyPlanService) ListClientWeeklyPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefClient, clientID); err != nil {
		return nil, err
	}
	return s.planRepo.ListByClient(ctx, orgID, clientID, false)
}

// ListActiveClientWeeklyPlans returns the client's plans that are running now.
func (s *weeklyPlanService) ListActiveClientWeeklyPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefClient, clientID); err != nil {
		return nil, err
	}
	flagged, err := s.planRepo.ListByClient(ctx, orgID, clientID, true)
	if err != nil {
		return nil, err
	}
	now := s.opts.Clock.now().In(s.opts.Location)
	active := make([]domain.WeeklyPlan, 0, len(flagged))
	for _, p := range flagged {
		if p.IsEffectivelyActive(now) {
			active = append(active, p)
		}
	}
	return active, nil
}

// UpdateWeeklyPlan applies update and re-validates the resulting schedule.
// Only references carried by the update are checked, so a plan whose sessions
// were deleted since can still be renamed or deactivated.
func (s *weeklyPlanService) UpdateWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID, author domain.Author, update WeeklyPlanUpdate) (*PlanDetails, error) {
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	plan, err := s.getOwned(ctx, orgID, planID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name, err := requireName(*update.Name)
		if err != nil {
			return nil, err
		}
		plan.Name = name
	}
	if update.ClientID != nil {
		plan.ClientID = *update.ClientID
	}
	if update.EmployeeID != nil {
		plan.EmployeeID = update.EmployeeID
	}
	if update.ClearEmployee {
		plan.EmployeeID = nil
	}
	if update.FormTemplateID != nil {
		plan.FormTemplateID = update.FormTemplateID
	}
	if update.ClearFormTemplate {
		plan.FormTemplateID = nil
	}
	if update.WeekDays != nil {
		plan.WeekDays = *update.WeekDays
	}
	if update.StartDate != nil {
		plan.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		plan.EndDate = *update.EndDate
	}
	if update.IsActive != nil {
		plan.IsActive = *update.IsActive
	}
	if update.Notes != nil {
		plan.Notes = *update.Notes
	}

	if err := domain.ValidateSchedule(plan.WeekDays, plan.StartDate, plan.EndDate); err != nil {
		return nil, err
	}
	if err := s.assertUpdateReferences(ctx, orgID, update); err != nil {
		return nil, err
	}

	plan.EditedBy = edited(plan.EditedBy, author, s.opts.Clock.now())
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, notFoundOr(err, domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	return s.details(ctx, plan)
}

// DeleteWeeklyPlan removes the plan and any exports made of it.
func (s *weeklyPlanService) DeleteWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, orgID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return notFoundOr(err, domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	s.removeExports(ctx, orgID, planID)
	return nil
}

// removeExports deletes the exported documents of a deleted plan. Failures
// only leave orphaned objects behind, so they are logged and not returned.
func (s *weeklyPlanService) removeExports(ctx context.Context, orgID, planID primitive.ObjectID) {
	if s.files == nil {
		return
	}
	log := logrus.WithField("plan_id", planID.Hex())
	keys, err := s.files.ListObjects(ctx, exportPrefix(orgID, planID))
	if err != nil {
		log.WithError(err).Warn("could not list plan exports")
		return
	}
	for _, key := range keys {
		if err := s.files.DeleteObject(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("could not delete plan export")
		}
	}
}

func exportPrefix(orgID, planID primitive.ObjectID) string {
	return fmt.Sprintf("exports/%s/%s/", orgID.Hex(), planID.Hex())
}

// DuplicateWeeklyPlan creates the successor of a plan for the following
// calendar week, optionally for another client of the same organization.
func (s *weeklyPlanService) DuplicateWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID, newClientID *primitive.ObjectID) (*PlanDetails, error) {
	source, err := s.getOwned(ctx, orgID, planID)
	if err != nil {
		return nil, err
	}
	if newClientID != nil {
		if err := s.refs.AssertSameOrganization(ctx, orgID, domain.RefClient, *newClientID); err != nil {
			return nil, err
		}
	}

	successor := domain.NewContinuation(source, newClientID, s.opts.Location)
	if _, err := s.planRepo.Create(ctx, successor); err != nil {
		return nil, fmt.Errorf("creating continuation of %s: %w", planID.Hex(), err)
	}
	s.metrics.CounterContinuations.Inc()

	logrus.WithFields(logrus.Fields{
		"source_plan_id": planID.Hex(),
		"plan_id":        successor.ID.Hex(),
		"start_date":     successor.StartDate,
	}).Info("continuation plan created")

	return s.details(ctx, successor)
}

// ExportWeeklyPlan writes the plan details as JSON to object storage and
// returns a presigned download URL for it.
func (s *weeklyPlanService) ExportWeeklyPlan(ctx context.Context, orgID, planID primitive.ObjectID) (*PlanExport, error) {
	if s.files == nil {
		return nil, ErrExportUnavailable
	}
	details, err := s.GetWeeklyPlan(ctx, orgID, planID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding weekly plan %s: %w", planID.Hex(), err)
	}
	key := exportPrefix(orgID, planID) + uuid.NewString() + ".json"
	if err := s.files.PutObject(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("uploading weekly plan export: %w", err)
	}

	expiresAt := s.opts.Clock.now().Add(s.opts.ExportURLExpiry)
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.opts.ExportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning weekly plan export: %w", err)
	}
	s.metrics.CounterPlanExports.Inc()
	return &PlanExport{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}

// assertPlanReferences checks client, employee, scheduled sessions, form
// template and completed exercises against the plan's organization.
func (s *weeklyPlanService) assertPlanReferences(ctx context.Context, plan *domain.WeeklyPlan) error {
	var completed []primitive.ObjectID
	for _, d := range plan.WeekDays {
		completed = append(completed, d.CompletedExercises...)
	}
	return s.refs.assertAll(ctx, plan.OrganizationID,
		reference{domain.RefClient, []primitive.ObjectID{plan.ClientID}},
		reference{domain.RefEmployee, optionalID(plan.EmployeeID)},
		reference{domain.RefSession, plan.SessionIDs()},
		reference{domain.RefFormTemplate, optionalID(plan.FormTemplateID)},
		reference{domain.RefSessionExercise, completed},
	)
}

// assertUpdateReferences checks the references an update sets.
func (s *weeklyPlanService) assertUpdateReferences(ctx context.Context, orgID primitive.ObjectID, update WeeklyPlanUpdate) error {
	refs := []reference{
		{domain.RefClient, optionalID(update.ClientID)},
	}
	if !update.ClearEmployee {
		refs = append(refs, reference{domain.RefEmployee, optionalID(update.EmployeeID)})
	}
	if !update.ClearFormTemplate {
		refs = append(refs, reference{domain.RefFormTemplate, optionalID(update.FormTemplateID)})
	}
	if update.WeekDays != nil {
		days := &domain.WeeklyPlan{WeekDays: *update.WeekDays}
		var completed []primitive.ObjectID
		for _, d := range days.WeekDays {
			completed = append(completed, d.CompletedExercises...)
		}
		refs = append(refs,
			reference{domain.RefSession, days.SessionIDs()},
			reference{domain.RefSessionExercise, completed},
		)
	}
	return s.refs.assertAll(ctx, orgID, refs...)
}

func (s *weeklyPlanService) details(ctx context.Context, plan *domain.WeeklyPlan) (*PlanDetails, error) {
	sessions, err := s.sessionRepo.GetByIDs(ctx, plan.SessionIDs())
	if err != nil {
		return nil, fmt.Errorf("resolving plan sessions: %w", err)
	}
	return &PlanDetails{Plan: plan, Sessions: sessions}, nil
}

func (s *weeklyPlanService) getOwned(ctx context.Context, orgID, planID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	if plan.OrganizationID != orgID {
		return nil, domain.NewNotFoundError(domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	return plan, nil
}
