package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	weekLabelPattern  = regexp.MustCompile(`(?i)Semana\s+\d+`)
	copySuffixPattern = regexp.MustCompile(`(?i)\s*\(Copia\)\s*$`)
)

// NextWeekBounds returns the Monday 00:00:00.000 strictly after endDate and the
// following Sunday 23:59:59.999, both in loc.
func NextWeekBounds(endDate time.Time, loc *time.Location) (monday, sunday time.Time) {
	if loc == nil {
		loc = time.Local
	}
	end := endDate.In(loc)
	monday = time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc)
	for monday.Weekday() != time.Monday {
		monday = time.Date(monday.Year(), monday.Month(), monday.Day()+1, 0, 0, 0, 0, loc)
	}
	sunday = time.Date(monday.Year(), monday.Month(), monday.Day()+6, 23, 59, 59, int(999*time.Millisecond), loc)
	return monday, sunday
}

// WeekNumber approximates the week of the year from t's day-of-year offset and
// the weekday of January 1st. It is not ISO-8601 and can disagree with
// calendar week numbers around year boundaries.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	n := days + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}

// ContinuationName derives the successor plan's name. An existing
// "Semana <n>" label is renumbered in place; otherwise a trailing "(Copia)"
// marker is dropped and " - Semana <n>" is appended.
func ContinuationName(name string, week int) string {
	label := fmt.Sprintf("Semana %d", week)
	if loc := weekLabelPattern.FindStringIndex(name); loc != nil {
		return name[:loc[0]] + label + name[loc[1]:]
	}
	base := strings.TrimSpace(copySuffixPattern.ReplaceAllString(name, ""))
	return base + " - " + label
}

// NewContinuation builds the unsaved successor of source for the following
// calendar week. Completion state is always reset; clientID overrides the
// client when it is not nil.
func NewContinuation(source *WeeklyPlan, clientID *primitive.ObjectID, loc *time.Location) *WeeklyPlan {
	monday, sunday := NextWeekBounds(source.EndDate, loc)

	client := source.ClientID
	if clientID != nil && *clientID != primitive.NilObjectID {
		client = *clientID
	}

	return &WeeklyPlan{
		OrganizationID: source.OrganizationID,
		ClientID:       client,
		EmployeeID:     source.EmployeeID,
		Name:           ContinuationName(source.Name, WeekNumber(monday)),
		WeekDays:       ResetCompletion(source.WeekDays),
		StartDate:      monday,
		EndDate:        sunday,
		IsActive:       true,
		FormTemplateID: source.FormTemplateID,
		Notes:          source.Notes,
		CreatedBy:      source.CreatedBy,
	}
}
