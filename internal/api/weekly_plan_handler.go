package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyPlanHandler holds the weekly plan service dependency.
type WeeklyPlanHandler struct {
	planService service.WeeklyPlanService
}

// NewWeeklyPlanHandler creates a new WeeklyPlanHandler.
func NewWeeklyPlanHandler(planService service.WeeklyPlanService) *WeeklyPlanHandler {
	return &WeeklyPlanHandler{planService: planService}
}

// --- DTOs ---

type CreateWeeklyPlanRequest struct {
	ClientID       primitive.ObjectID  `json:"clientId"`
	EmployeeID     *primitive.ObjectID `json:"employeeId"`
	Name           string              `json:"name" binding:"required"`
	WeekDays       []domain.DayPlan    `json:"weekDays"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	IsActive       *bool               `json:"isActive"`
	FormTemplateID *primitive.ObjectID `json:"formTemplateId"`
	Notes          string              `json:"notes"`
}

// UpdateWeeklyPlanRequest leaves absent fields unchanged; employeeId and
// formTemplateId set to null remove them from the plan.
type UpdateWeeklyPlanRequest struct {
	ClientID       *primitive.ObjectID `json:"clientId"`
	EmployeeID     nullableID          `json:"employeeId"`
	Name           *string             `json:"name"`
	WeekDays       *[]domain.DayPlan   `json:"weekDays"`
	StartDate      *time.Time          `json:"startDate"`
	EndDate        *time.Time          `json:"endDate"`
	IsActive       *bool               `json:"isActive"`
	FormTemplateID nullableID          `json:"formTemplateId"`
	Notes          *string             `json:"notes"`
}

// nullableID tells an absent field (Set false) apart from an explicit null
// (Set true, ID nil).
type nullableID struct {
	Set bool
	ID  *primitive.ObjectID
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.ID = nil
		return nil
	}
	var id primitive.ObjectID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.ID = &id
	return nil
}

func (n nullableID) cleared() bool {
	return n.Set && n.ID == nil
}

type DuplicateWeeklyPlanRequest struct {
	ClientID *primitive.ObjectID `json:"clientId"`
}

// PlanDetailsResponse is a plan with its scheduled sessions resolved.
type PlanDetailsResponse struct {
	*domain.WeeklyPlan
	Sessions []domain.Session `json:"sessions"`
}

func MapPlanDetailsToResponse(details *service.PlanDetails) PlanDetailsResponse {
	if details == nil {
		return PlanDetailsResponse{}
	}
	sessions := details.Sessions
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return PlanDetailsResponse{WeeklyPlan: details.Plan, Sessions: sessions}
}

// --- Handler Methods ---

// CreateWeeklyPlan handles POST /weekly-plans
func (h *WeeklyPlanHandler) CreateWeeklyPlan(c *gin.Context) {
	var req CreateWeeklyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	details, err := h.planService.CreateWeeklyPlan(c.Request.Context(), getOrganizationID(c), getAuthor(c), service.WeeklyPlanInput{
		ClientID:       req.ClientID,
		EmployeeID:     req.EmployeeID,
		Name:           req.Name,
		WeekDays:       req.WeekDays,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsActive:       req.IsActive,
		FormTemplateID: req.FormTemplateID,
		Notes:          req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanDetailsToResponse(details))
}

// ListWeeklyPlans handles GET /weekly-plans
func (h *WeeklyPlanHandler) ListWeeklyPlans(c *gin.Context) {
	plans, err := h.planService.ListWeeklyPlans(c.Request.Context(), getOrganizationID(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ListClientWeeklyPlans handles GET /clients/:clientId/weekly-plans
func (h *WeeklyPlanHandler) ListClientWeeklyPlans(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	plans, err := h.planService.ListClientWeeklyPlans(c.Request.Context(), getOrganizationID(c), clientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ListActiveClientWeeklyPlans handles GET /clients/:clientId/weekly-plans/active
func (h *WeeklyPlanHandler) ListActiveClientWeeklyPlans(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}
	plans, err := h.planService.ListActiveClientWeeklyPlans(c.Request.Context(), getOrganizationID(c), clientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetWeeklyPlan handles GET /weekly-plans/:id
func (h *WeeklyPlanHandler) GetWeeklyPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	details, err := h.planService.GetWeeklyPlan(c.Request.Context(), getOrganizationID(c), planID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanDetailsToResponse(details))
}

// UpdateWeeklyPlan handles PUT /weekly-plans/:id
func (h *WeeklyPlanHandler) UpdateWeeklyPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateWeeklyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	details, err := h.planService.UpdateWeeklyPlan(c.Request.Context(), getOrganizationID(c), planID, getAuthor(c), service.WeeklyPlanUpdate{
		ClientID:          req.ClientID,
		EmployeeID:        req.EmployeeID.ID,
		Name:              req.Name,
		WeekDays:          req.WeekDays,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		IsActive:          req.IsActive,
		FormTemplateID:    req.FormTemplateID.ID,
		Notes:             req.Notes,
		ClearEmployee:     req.EmployeeID.cleared(),
		ClearFormTemplate: req.FormTemplateID.cleared(),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanDetailsToResponse(details))
}

// DeleteWeeklyPlan handles DELETE /weekly-plans/:id
func (h *WeeklyPlanHandler) DeleteWeeklyPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeleteWeeklyPlan(c.Request.Context(), getOrganizationID(c), planID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateWeeklyPlan handles POST /weekly-plans/:id/duplicate. The body is optional.
func (h *WeeklyPlanHandler) DuplicateWeeklyPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DuplicateWeeklyPlanRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	details, err := h.planService.DuplicateWeeklyPlan(c.Request.Context(), getOrganizationID(c), planID, req.ClientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanDetailsToResponse(details))
}

// ExportWeeklyPlan handles POST /weekly-plans/:id/export
func (h *WeeklyPlanHandler) ExportWeeklyPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	export, err := h.planService.ExportWeeklyPlan(c.Request.Context(), getOrganizationID(c), planID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}
