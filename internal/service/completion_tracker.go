package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/repository"
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

// CompletionTracker records day and exercise completion on weekly plans and
// raises the feedback form once every day of a plan is done.
type CompletionTracker interface {
	MarkDayCompleted(ctx context.Context, orgID, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error)
	MarkExerciseCompleted(ctx context.Context, orgID, planID primitive.ObjectID, dayOfWeek int, sessionExerciseID primitive.ObjectID, completed bool) (*domain.WeeklyPlan, error)
	EnsureFeedbackForEndedPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.FormResponse, error)
}

// --- Service Implementation ---

// completionTracker implements the CompletionTracker interface.
type completionTracker struct {
	planRepo repository.WeeklyPlanRepository
	forms    repository.FormResponseStore
	refs     *ReferenceValidator
	metrics  *metrics.Manager
	clock    Clock
}

// NewCompletionTracker creates a new instance of completionTracker.
func NewCompletionTracker(
	planRepo repository.WeeklyPlanRepository,
	forms repository.FormResponseStore,
	refs *ReferenceValidator,
	metricsManager *metrics.Manager,
	clock Clock,
) CompletionTracker {
	return &completionTracker{
		planRepo: planRepo,
		forms:    forms,
		refs:     refs,
		metrics:  metricsManager,
		clock:    clock,
	}
}

// MarkDayCompleted sets one day's completed flag. Setting the current value
// again succeeds without changes. Once the stored plan shows every day
// completed, the plan's feedback form is requested; that request never fails
// the mark.
func (t *completionTracker) MarkDayCompleted(ctx context.Context, orgID, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error) {
	if _, err := t.getScheduledDay(ctx, orgID, planID, dayOfWeek); err != nil {
		return nil, err
	}

	plan, err := t.planRepo.SetDayCompleted(ctx, planID, dayOfWeek, completed)
	if err != nil {
		return nil, notFoundOr(err, domain.RefWeeklyPlan, "day %d is not scheduled in weekly plan %s", dayOfWeek, planID.Hex())
	}
	t.metrics.CounterDayMarks.WithLabelValues(strconv.FormatBool(completed)).Inc()

	if plan.FormTemplateID != nil && plan.AllDaysCompleted() {
		t.requestFeedback(ctx, plan)
	}
	return plan, nil
}

// MarkExerciseCompleted adds or removes a session exercise from a day's
// completed set. Adding a present id or removing an absent one is a no-op.
func (t *completionTracker) MarkExerciseCompleted(ctx context.Context, orgID, planID primitive.ObjectID, dayOfWeek int, sessionExerciseID primitive.ObjectID, completed bool) (*domain.WeeklyPlan, error) {
	if sessionExerciseID == primitive.NilObjectID {
		return nil, domain.NewValidationError("sessionExerciseId", "is required")
	}
	if _, err := t.getScheduledDay(ctx, orgID, planID, dayOfWeek); err != nil {
		return nil, err
	}
	if completed {
		if err := t.refs.AssertSameOrganization(ctx, orgID, domain.RefSessionExercise, sessionExerciseID); err != nil {
			return nil, err
		}
	}

	plan, err := t.planRepo.SetExerciseCompleted(ctx, planID, dayOfWeek, sessionExerciseID, completed)
	if err != nil {
		return nil, notFoundOr(err, domain.RefWeeklyPlan, "day %d is not scheduled in weekly plan %s", dayOfWeek, planID.Hex())
	}
	t.metrics.CounterExerciseMarks.WithLabelValues(strconv.FormatBool(completed)).Inc()
	return plan, nil
}

// EnsureFeedbackForEndedPlans requests the feedback form of every plan of the
// client that carries a form template and has already ended. Plans that
// already have a response are skipped; failures are logged per plan.
// It returns the responses created by this call.
func (t *completionTracker) EnsureFeedbackForEndedPlans(ctx context.Context, orgID, clientID primitive.ObjectID) ([]domain.FormResponse, error) {
	if err := t.refs.AssertSameOrganization(ctx, orgID, domain.RefClient, clientID); err != nil {
		return nil, err
	}
	plans, err := t.planRepo.ListEndedWithForm(ctx, orgID, clientID, t.clock.now())
	if err != nil {
		return nil, err
	}

	created := []domain.FormResponse{}
	for i := range plans {
		if response, ok := t.requestFeedback(ctx, &plans[i]); ok {
			created = append(created, *response)
		}
	}
	return created, nil
}

// requestFeedback asks the form store for the plan's pending response. The
// store keeps one response per plan, so repeated requests are harmless.
// Errors are logged and counted, never returned.
func (t *completionTracker) requestFeedback(ctx context.Context, plan *domain.WeeklyPlan) (*domain.FormResponse, bool) {
	log := logrus.WithFields(logrus.Fields{
		"plan_id":          plan.ID.Hex(),
		"form_template_id": plan.FormTemplateID.Hex(),
		"client_id":        plan.ClientID.Hex(),
		"organization_id":  plan.OrganizationID.Hex(),
	})

	response, created, err := t.forms.CreatePending(ctx, domain.NewPendingResponse(plan))
	if err != nil {
		t.metrics.CounterFormTriggers.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.WithError(err).Error("failed to create pending form response")
		return nil, false
	}
	if !created {
		t.metrics.CounterFormTriggers.WithLabelValues(metrics.OutcomeExisting).Inc()
		log.Debug("form response already exists")
		return response, false
	}

	t.metrics.CounterFormTriggers.WithLabelValues(metrics.OutcomeCreated).Inc()
	log.WithField("form_response_id", response.ID.Hex()).Info("pending form response created")
	return response, true
}

func (t *completionTracker) getScheduledDay(ctx context.Context, orgID, planID primitive.ObjectID, dayOfWeek int) (*domain.WeeklyPlan, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, domain.NewValidationError("dayOfWeek", "must be between 0 and 6")
	}
	plan, err := t.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	if plan.OrganizationID != orgID {
		return nil, domain.NewNotFoundError(domain.RefWeeklyPlan, "weekly plan %s not found", planID.Hex())
	}
	if _, ok := plan.Day(dayOfWeek); !ok {
		return nil, domain.NewNotFoundError(domain.RefWeeklyPlan, "day %d is not scheduled in weekly plan %s", dayOfWeek, planID.Hex())
	}
	return plan, nil
}
