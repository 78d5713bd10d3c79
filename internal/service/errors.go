package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExportUnavailable = errors.New("plan export storage is not configured")
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// notFoundOr turns repository.ErrNotFound into a domain not-found error and
// passes every other error through unchanged.
func notFoundOr(err error, ref domain.RefKind, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(ref, format, args...)
	}
	return err
}

func validateAuthor(author domain.Author) error {
	if !author.Valid() {
		return domain.NewValidationError("author", "kind must be 'employee' or 'organization' with an id, or 'system' without one")
	}
	return nil
}

func requireName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", domain.NewValidationError("name", "is required")
	}
	return trimmed, nil
}

func edited(trail []domain.Edit, author domain.Author, at time.Time) []domain.Edit {
	return append(trail, domain.Edit{Author: author, At: at})
}

func orEmpty(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
