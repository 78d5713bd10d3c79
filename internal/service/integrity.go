package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferenceValidator guarantees that no cross-tenant reference is ever persisted.
// Each reference kind is resolved through its own OwnershipLookup.
type ReferenceValidator struct {
	lookups map[domain.RefKind]repository.OwnershipLookup
}

// NewReferenceValidator creates a validator over the given directories.
func NewReferenceValidator(lookups map[domain.RefKind]repository.OwnershipLookup) *ReferenceValidator {
	return &ReferenceValidator{lookups: lookups}
}

// AssertSameOrganization fails with a referential integrity error naming kind
// if any of ids is missing or owned by an organization other than orgID.
// Repeated and nil ids are ignored; an empty set always passes.
func (v *ReferenceValidator) AssertSameOrganization(ctx context.Context, orgID primitive.ObjectID, kind domain.RefKind, ids ...primitive.ObjectID) error {
	unique := domain.UniqueIDs(ids)
	if len(unique) == 0 {
		return nil
	}

	lookup, ok := v.lookups[kind]
	if !ok {
		return fmt.Errorf("no ownership lookup registered for %s", kind)
	}

	owners, err := lookup.OrganizationsOf(ctx, unique)
	if err != nil {
		return fmt.Errorf("resolving %s references: %w", kind, err)
	}
	for _, id := range unique {
		owner, found := owners[id]
		if !found || owner != orgID {
			return domain.NewReferenceError(kind)
		}
	}
	return nil
}

// reference is one kind/ids pair checked by assertAll.
type reference struct {
	kind domain.RefKind
	ids  []primitive.ObjectID
}

// assertAll checks refs in order and stops at the first failure.
func (v *ReferenceValidator) assertAll(ctx context.Context, orgID primitive.ObjectID, refs ...reference) error {
	for _, r := range refs {
		if err := v.AssertSameOrganization(ctx, orgID, r.kind, r.ids...); err != nil {
			return err
		}
	}
	return nil
}

func optionalID(id *primitive.ObjectID) []primitive.ObjectID {
	if id == nil {
		return nil
	}
	return []primitive.ObjectID{*id}
}
