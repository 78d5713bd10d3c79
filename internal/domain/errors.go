package domain

import (
	"fmt"
	"strings"
)

// ErrorKind classifies failures that abort an operation before anything is written.
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindReferentialIntegrity ErrorKind = "referential_integrity"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
)

// RefKind names the kind of entity a reference points at.
type RefKind string

const (
	RefSession         RefKind = "session"
	RefSessionExercise RefKind = "session exercise"
	RefExercise        RefKind = "exercise"
	RefClient          RefKind = "client"
	RefEmployee        RefKind = "employee"
	RefFormTemplate    RefKind = "form template"
	RefGoal            RefKind = "goal"
	RefMuscleGroup     RefKind = "muscle group"
	RefWeeklyPlan      RefKind = "weekly plan"
	RefCatalogItem     RefKind = "catalog item"
)

// Error is the structured failure returned by the domain and service layers.
// Use errors.Is against the Err* sentinels to match on Kind.
type Error struct {
	Kind    ErrorKind
	Ref     RefKind // set for referential integrity and not found errors
	Field   string  // set for validation errors
	Message string
	Err     error
}

var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrReferentialIntegrity = &Error{Kind: KindReferentialIntegrity}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrConflict             = &Error{Kind: KindConflict}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewValidationError reports the first violated field.
func NewValidationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewReferenceError reports a missing or cross-tenant reference.
func NewReferenceError(ref RefKind) *Error {
	return &Error{
		Kind:    KindReferentialIntegrity,
		Ref:     ref,
		Message: fmt.Sprintf("%s does not belong to this organization", ref),
	}
}

func NewNotFoundError(ref RefKind, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Ref: ref, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
