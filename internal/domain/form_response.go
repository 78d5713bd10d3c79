package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormResponseStatus type for the feedback form lifecycle
type FormResponseStatus string

const (
	FormResponsePending   FormResponseStatus = "pending"
	FormResponseCompleted FormResponseStatus = "completed" // set by the forms workflow, never here
)

// FormResponse is the feedback submission a client owes for a finished plan.
// At most one exists per weekly plan.
type FormResponse struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FormTemplateID primitive.ObjectID  `bson:"formTemplateId" json:"formTemplateId"`
	WeeklyPlanID   *primitive.ObjectID `bson:"weeklyPlanId,omitempty" json:"weeklyPlanId,omitempty"` // nil for intake forms
	ClientID       primitive.ObjectID  `bson:"clientId" json:"clientId"`
	OrganizationID primitive.ObjectID  `bson:"organizationId" json:"organizationId"`
	Status         FormResponseStatus  `bson:"status" json:"status"`
	CreatedBy      Author              `bson:"createdBy" json:"createdBy"`
	SubmittedAt    *time.Time          `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewPendingResponse builds the system-created pending response for a plan.
func NewPendingResponse(plan *WeeklyPlan) *FormResponse {
	planID := plan.ID
	return &FormResponse{
		FormTemplateID: *plan.FormTemplateID,
		WeeklyPlanID:   &planID,
		ClientID:       plan.ClientID,
		OrganizationID: plan.OrganizationID,
		Status:         FormResponsePending,
		CreatedBy:      SystemAuthor(),
	}
}
