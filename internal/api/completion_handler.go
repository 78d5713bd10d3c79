package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionHandler holds the completion tracker dependency.
type CompletionHandler struct {
	tracker service.CompletionTracker
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(tracker service.CompletionTracker) *CompletionHandler {
	return &CompletionHandler{tracker: tracker}
}

// --- DTOs ---

// MarkDayRequest uses pointers so a missing field is told apart from false/Sunday.
type MarkDayRequest struct {
	DayOfWeek *int  `json:"dayOfWeek" binding:"required"`
	Completed *bool `json:"completed" binding:"required"`
}

type MarkExerciseRequest struct {
	DayOfWeek         *int               `json:"dayOfWeek" binding:"required"`
	SessionExerciseID primitive.ObjectID `json:"sessionExerciseId"`
	Completed         *bool              `json:"completed" binding:"required"`
}

// --- Handler Methods ---

// MarkDayCompleted handles PATCH /weekly-plans/:id/mark-day
func (h *CompletionHandler) MarkDayCompleted(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MarkDayRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.tracker.MarkDayCompleted(c.Request.Context(), getOrganizationID(c), planID, *req.DayOfWeek, *req.Completed)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// MarkExerciseCompleted handles PATCH /weekly-plans/:id/mark-exercise
func (h *CompletionHandler) MarkExerciseCompleted(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MarkExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.tracker.MarkExerciseCompleted(c.Request.Context(), getOrganizationID(c), planID, *req.DayOfWeek, req.SessionExerciseID, *req.Completed)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// BackfillFormResponses handles POST /clients/:clientId/form-responses/backfill
func (h *CompletionHandler) BackfillFormResponses(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	created, err := h.tracker.EnsureFeedbackForEndedPlans(c.Request.Context(), getOrganizationID(c), clientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if created == nil {
		created = []domain.FormResponse{}
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
