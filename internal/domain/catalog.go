package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogKind selects one of the organization-scoped name catalogs.
type CatalogKind string

const (
	CatalogGoals        CatalogKind = "goals"
	CatalogMuscleGroups CatalogKind = "muscle-groups"
	CatalogEquipment    CatalogKind = "equipment"
)

func (k CatalogKind) Valid() bool {
	return k == CatalogGoals || k == CatalogMuscleGroups || k == CatalogEquipment
}

// CatalogItem is a named entry (session goal, muscle group, equipment) unique per organization.
type CatalogItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	Name           string             `bson:"name" json:"name"`
	CreatedBy      Author             `bson:"createdBy" json:"createdBy"`
	EditedBy       []Edit             `bson:"editedBy,omitempty" json:"editedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
