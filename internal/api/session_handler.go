package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

type CreateSessionRequest struct {
	Type        domain.SessionType   `json:"type" binding:"required"`
	Name        string               `json:"name" binding:"required"`
	Goals       []primitive.ObjectID `json:"goals"`
	MuscleFocus []primitive.ObjectID `json:"muscleFocus"`
	Notes       string               `json:"notes"`
}

// UpdateSessionRequest only changes the fields present in the body.
type UpdateSessionRequest struct {
	Type        *domain.SessionType   `json:"type"`
	Name        *string               `json:"name"`
	Goals       *[]primitive.ObjectID `json:"goals"`
	MuscleFocus *[]primitive.ObjectID `json:"muscleFocus"`
	Notes       *string               `json:"notes"`
}

// SessionDetailsResponse is a session with its exercises in display order.
type SessionDetailsResponse struct {
	*domain.Session
	Exercises []domain.SessionExercise `json:"exercises"`
}

func MapSessionDetailsToResponse(details *service.SessionDetails) SessionDetailsResponse {
	if details == nil {
		return SessionDetailsResponse{}
	}
	exercises := details.Exercises
	if exercises == nil {
		exercises = []domain.SessionExercise{}
	}
	return SessionDetailsResponse{Session: details.Session, Exercises: exercises}
}

// --- Handler Methods ---

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), getOrganizationID(c), getAuthor(c), service.SessionInput{
		Type:        req.Type,
		Name:        req.Name,
		Goals:       req.Goals,
		MuscleFocus: req.MuscleFocus,
		Notes:       req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), getOrganizationID(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	details, err := h.sessionService.GetSession(c.Request.Context(), getOrganizationID(c), sessionID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionDetailsToResponse(details))
}

// UpdateSession handles PUT /sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), getOrganizationID(c), sessionID, getAuthor(c), service.SessionUpdate{
		Type:        req.Type,
		Name:        req.Name,
		Goals:       req.Goals,
		MuscleFocus: req.MuscleFocus,
		Notes:       req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sessionService.DeleteSession(c.Request.Context(), getOrganizationID(c), sessionID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateSession handles POST /sessions/:id/duplicate
func (h *SessionHandler) DuplicateSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	details, err := h.sessionService.DuplicateSession(c.Request.Context(), getOrganizationID(c), sessionID, getAuthor(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionDetailsToResponse(details))
}
