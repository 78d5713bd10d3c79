package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorKind says who performed a change.
type AuthorKind string

const (
	AuthorEmployee     AuthorKind = "employee"
	AuthorOrganization AuthorKind = "organization"
	AuthorSystem       AuthorKind = "system"
)

// Author identifies the actor behind a create or edit. System authors carry no ID.
type Author struct {
	Kind AuthorKind          `bson:"kind" json:"kind"`
	ID   *primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
}

func SystemAuthor() Author {
	return Author{Kind: AuthorSystem}
}

func (a Author) Valid() bool {
	switch a.Kind {
	case AuthorSystem:
		return a.ID == nil
	case AuthorEmployee, AuthorOrganization:
		return a.ID != nil && *a.ID != primitive.NilObjectID
	}
	return false
}

// Edit is one entry of an entity's audit trail.
type Edit struct {
	Author Author    `bson:"author" json:"author"`
	At     time.Time `bson:"at" json:"at"`
}
