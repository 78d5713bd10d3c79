// internal/domain/weekly_plan.go
package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayPlan schedules one session on one day of the week and tracks its completion.
type DayPlan struct {
	DayOfWeek          int                  `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday ... 6 = Saturday
	SessionID          primitive.ObjectID   `bson:"sessionId" json:"sessionId"`
	Notes              string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed          bool                 `bson:"completed" json:"completed"`
	CompletedExercises []primitive.ObjectID `bson:"completedExercises" json:"completedExercises"` // set of SessionExercise IDs
}

// WeeklyPlan is a client's schedule for one calendar week plus its completion state.
type WeeklyPlan struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organizationId" json:"organizationId"`
	ClientID       primitive.ObjectID  `bson:"clientId" json:"clientId"`
	EmployeeID     *primitive.ObjectID `bson:"employeeId,omitempty" json:"employeeId,omitempty"`
	Name           string              `bson:"name" json:"name"`
	WeekDays       []DayPlan           `bson:"weekDays" json:"weekDays"`
	StartDate      time.Time           `bson:"startDate" json:"startDate"`
	EndDate        time.Time           `bson:"endDate" json:"endDate"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	FormTemplateID *primitive.ObjectID `bson:"formTemplateId,omitempty" json:"formTemplateId,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy      Author              `bson:"createdBy" json:"createdBy"`
	EditedBy       []Edit              `bson:"editedBy,omitempty" json:"editedBy,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the entry scheduled for dayOfWeek, if any.
func (p *WeeklyPlan) Day(dayOfWeek int) (*DayPlan, bool) {
	for i := range p.WeekDays {
		if p.WeekDays[i].DayOfWeek == dayOfWeek {
			return &p.WeekDays[i], true
		}
	}
	return nil, false
}

// AllDaysCompleted is false for a plan without days.
func (p *WeeklyPlan) AllDaysCompleted() bool {
	if len(p.WeekDays) == 0 {
		return false
	}
	for _, d := range p.WeekDays {
		if !d.Completed {
			return false
		}
	}
	return true
}

// SessionIDs returns the distinct sessions scheduled in the plan, in day order of appearance.
func (p *WeeklyPlan) SessionIDs() []primitive.ObjectID {
	return UniqueIDs(sessionIDsOf(p.WeekDays))
}

// IsEffectivelyActive reports whether the plan is running at now: flagged
// active, already started, and not ended before the start of now's day.
// Nothing deactivates plans automatically, so callers derive activity here.
func (p *WeeklyPlan) IsEffectivelyActive(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !p.StartDate.After(now) && !p.EndDate.Before(startOfToday)
}

// ValidateSchedule checks the structural invariants of a plan's week: at most
// seven entries, one per distinct day in [0,6], each with a session, and an
// end date not before the start date.
func ValidateSchedule(days []DayPlan, start, end time.Time) error {
	if start.IsZero() {
		return NewValidationError("startDate", "is required")
	}
	if end.IsZero() {
		return NewValidationError("endDate", "is required")
	}
	if end.Before(start) {
		return NewValidationError("endDate", "must not be before startDate")
	}
	if len(days) > 7 {
		return NewValidationError("weekDays", "a week has at most 7 days")
	}
	seen := make(map[int]struct{}, len(days))
	for i, d := range days {
		field := fmt.Sprintf("weekDays[%d]", i)
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return NewValidationError(field+".dayOfWeek", "must be between 0 and 6")
		}
		if _, dup := seen[d.DayOfWeek]; dup {
			return NewValidationError(field+".dayOfWeek", "day %d is scheduled more than once", d.DayOfWeek)
		}
		seen[d.DayOfWeek] = struct{}{}
		if d.SessionID == primitive.NilObjectID {
			return NewValidationError(field+".sessionId", "is required")
		}
	}
	return nil
}

// ResetCompletion returns a structural copy of days with every completion mark cleared.
func ResetCompletion(days []DayPlan) []DayPlan {
	out := make([]DayPlan, len(days))
	for i, d := range days {
		out[i] = DayPlan{
			DayOfWeek:          d.DayOfWeek,
			SessionID:          d.SessionID,
			Notes:              d.Notes,
			Completed:          false,
			CompletedExercises: []primitive.ObjectID{},
		}
	}
	return out
}

// UniqueIDs drops nil and repeated ids, keeping first-seen order.
func UniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id == primitive.NilObjectID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sessionIDsOf(days []DayPlan) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(days))
	for _, d := range days {
		ids = append(ids, d.SessionID)
	}
	return ids
}
