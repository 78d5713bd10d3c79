package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionExerciseHandler holds the session exercise service dependency.
type SessionExerciseHandler struct {
	exerciseService service.SessionExerciseService
}

// NewSessionExerciseHandler creates a new SessionExerciseHandler.
func NewSessionExerciseHandler(exerciseService service.SessionExerciseService) *SessionExerciseHandler {
	return &SessionExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// CreateSessionExerciseRequest carries the config untouched so the domain
// validator reports the offending field itself.
type CreateSessionExerciseRequest struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Order      *int               `json:"order"`
	Notes      string             `json:"notes"`
	Config     json.RawMessage    `json:"config"`
}

type UpdateSessionExerciseRequest struct {
	ExerciseID *primitive.ObjectID `json:"exerciseId"`
	Order      *int                `json:"order"`
	Notes      *string             `json:"notes"`
	Config     json.RawMessage     `json:"config"`
}

type ReorderSessionExercisesRequest struct {
	Orders []domain.ExerciseOrder `json:"orders" binding:"required"`
}

// --- Handler Methods ---

// CreateSessionExercise handles POST /sessions/:id/exercises
func (h *SessionExerciseHandler) CreateSessionExercise(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CreateSessionExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	se, err := h.exerciseService.CreateSessionExercise(c.Request.Context(), getOrganizationID(c), service.SessionExerciseInput{
		SessionID:  sessionID,
		ExerciseID: req.ExerciseID,
		Order:      req.Order,
		Notes:      req.Notes,
		Config:     req.Config,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, se)
}

// ListSessionExercises handles GET /sessions/:id/exercises
func (h *SessionExerciseHandler) ListSessionExercises(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.exerciseService.ListSessionExercises(c.Request.Context(), getOrganizationID(c), sessionID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ReorderSessionExercises handles PATCH /sessions/:id/exercises/reorder
func (h *SessionExerciseHandler) ReorderSessionExercises(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReorderSessionExercisesRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := h.exerciseService.ReorderSessionExercises(c.Request.Context(), getOrganizationID(c), sessionID, req.Orders)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetSessionExercise handles GET /session-exercises/:id
func (h *SessionExerciseHandler) GetSessionExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	se, err := h.exerciseService.GetSessionExercise(c.Request.Context(), getOrganizationID(c), id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, se)
}

// UpdateSessionExercise handles PATCH /session-exercises/:id
func (h *SessionExerciseHandler) UpdateSessionExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	se, err := h.exerciseService.UpdateSessionExercise(c.Request.Context(), getOrganizationID(c), id, service.SessionExerciseUpdate{
		ExerciseID: req.ExerciseID,
		Order:      req.Order,
		Notes:      req.Notes,
		Config:     req.Config,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, se)
}

// DeleteSessionExercise handles DELETE /session-exercises/:id
func (h *SessionExerciseHandler) DeleteSessionExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteSessionExercise(c.Request.Context(), getOrganizationID(c), id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
