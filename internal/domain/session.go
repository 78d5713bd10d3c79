// internal/domain/session.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType constrains which exercise configs a session accepts.
type SessionType string

const (
	SessionStrength SessionType = "strength"
	SessionCardio   SessionType = "cardio"
	SessionMixed    SessionType = "mixed"
)

func (t SessionType) Valid() bool {
	return t == SessionStrength || t == SessionCardio || t == SessionMixed
}

// Session is a reusable workout template.
type Session struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID   `bson:"organizationId" json:"organizationId"`
	Type           SessionType          `bson:"type" json:"type"`
	Name           string               `bson:"name" json:"name"`
	Goals          []primitive.ObjectID `bson:"goals" json:"goals"`             // ordered SessionGoal references
	MuscleFocus    []primitive.ObjectID `bson:"muscleFocus" json:"muscleFocus"` // ordered MuscleGroup references
	Notes          string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy      Author               `bson:"createdBy" json:"createdBy"`
	EditedBy       []Edit               `bson:"editedBy,omitempty" json:"editedBy,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// SessionExercise is one exercise attached to a session.
type SessionExercise struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	SessionID      primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID     primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order          int                `bson:"order" json:"order"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Config         TypedConfig        `bson:"config" json:"config"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseOrder is one entry of a reorder batch.
type ExerciseOrder struct {
	ID    primitive.ObjectID `json:"id"`
	Order int                `json:"order"`
}

// CheckCompatibility decides whether a config of type configType may be
// attached to a session of type sessionType.
func CheckCompatibility(sessionType SessionType, configType ConfigType) error {
	switch sessionType {
	case SessionMixed:
		return nil
	case SessionStrength:
		if configType != ConfigStrength {
			return NewConflictError("only strength exercises are allowed in 'strength' sessions")
		}
		return nil
	case SessionCardio:
		if !configType.IsCardio() {
			return NewConflictError("only cardio exercises are allowed in 'cardio' sessions")
		}
		return nil
	}
	return NewValidationError("type", "unknown session type %q", sessionType)
}

// CheckSessionRetype scans the configs already attached to a session and
// rejects a type change any of them would become incompatible with.
func CheckSessionRetype(newType SessionType, attached []ConfigType) error {
	if !newType.Valid() {
		return NewValidationError("type", "session type must be 'strength', 'cardio' or 'mixed'")
	}
	var hasStrength, hasCardio bool
	for _, t := range attached {
		if t == ConfigStrength {
			hasStrength = true
		} else if t.IsCardio() {
			hasCardio = true
		}
	}
	if newType == SessionStrength && hasCardio {
		return NewConflictError("cannot change session type to '%s': session contains cardio exercises", newType)
	}
	if newType == SessionCardio && hasStrength {
		return NewConflictError("cannot change session type to '%s': session contains strength exercises", newType)
	}
	return nil
}
