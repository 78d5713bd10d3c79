package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"alcyxob/training-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrValidation)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, field, derr.Field)
}

func TestParseExerciseConfig_Strength(t *testing.T) {
	cfg, err := domain.ParseExerciseConfig(json.RawMessage(`{
		"type": "strength",
		"sets": [
			{"repsMin": 8, "repsMax": 12, "load": 40, "restSeconds": 90, "rpe": 8},
			{"repsMin": 5, "repsMax": 5}
		]
	}`))
	require.NoError(t, err)

	strength, ok := cfg.(domain.StrengthConfig)
	require.True(t, ok)
	require.Len(t, strength.Sets, 2)
	assert.Equal(t, 8, strength.Sets[0].RepsMin)
	assert.Equal(t, 12, strength.Sets[0].RepsMax)
	require.NotNil(t, strength.Sets[0].Load)
	assert.Equal(t, 40.0, *strength.Sets[0].Load)
	assert.Nil(t, strength.Sets[1].RPE)
	assert.Equal(t, domain.ConfigStrength, cfg.ConfigType())
}

func TestParseExerciseConfig_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty", ``, "config"},
		{"null", `null`, "config"},
		{"missing type", `{"sets": []}`, "config.type"},
		{"unknown type", `{"type": "yoga"}`, "config.type"},
		{"strength without sets", `{"type": "strength"}`, "config.sets"},
		{"strength empty sets", `{"type": "strength", "sets": []}`, "config.sets"},
		{"repsMin zero", `{"type": "strength", "sets": [{"repsMin": 0, "repsMax": 5}]}`, "config.sets[0].repsMin"},
		{"repsMax below repsMin", `{"type": "strength", "sets": [{"repsMin": 5, "repsMax": 5}, {"repsMin": 10, "repsMax": 8}]}`, "config.sets[1].repsMax"},
		{"repsMax missing", `{"type": "strength", "sets": [{"repsMin": 5}]}`, "config.sets[0].repsMax"},
		{"negative load", `{"type": "strength", "sets": [{"repsMin": 5, "repsMax": 6, "load": -1}]}`, "config.sets[0].load"},
		{"rpe above 10", `{"type": "strength", "sets": [{"repsMin": 5, "repsMax": 6, "rpe": 10.5}]}`, "config.sets[0].rpe"},
		{"negative rest", `{"type": "strength", "sets": [{"repsMin": 5, "repsMax": 6, "restSeconds": -10}]}`, "config.sets[0].restSeconds"},
		{"duration missing", `{"type": "cardio_continuous"}`, "config.durationMinutes"},
		{"duration zero", `{"type": "cardio_continuous", "durationMinutes": 0}`, "config.durationMinutes"},
		{"zone 6", `{"type": "cardio_continuous", "durationMinutes": 30, "zone": 6}`, "config.zone"},
		{"effort 0", `{"type": "cardio_continuous", "durationMinutes": 30, "effort": 0}`, "config.effort"},
		{"workSeconds missing", `{"type": "cardio_interval", "restSeconds": 30, "rounds": 8}`, "config.workSeconds"},
		{"negative interval rest", `{"type": "cardio_interval", "workSeconds": 20, "restSeconds": -1, "rounds": 8}`, "config.restSeconds"},
		{"rounds zero", `{"type": "cardio_interval", "workSeconds": 20, "restSeconds": 10, "rounds": 0}`, "config.rounds"},
		{"rounds fractional", `{"type": "cardio_interval", "workSeconds": 20, "restSeconds": 10, "rounds": 1.5}`, "config.rounds"},
		{"workEffort 11", `{"type": "cardio_interval", "workSeconds": 20, "restSeconds": 10, "rounds": 4, "workEffort": 11}`, "config.workEffort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := domain.ParseExerciseConfig(json.RawMessage(tt.raw))
			assert.Nil(t, cfg)
			requireValidationField(t, err, tt.field)
		})
	}
}

func TestParseExerciseConfig_BoundsAreInclusive(t *testing.T) {
	_, err := domain.ParseExerciseConfig(json.RawMessage(`{"type": "strength", "sets": [{"repsMin": 1, "repsMax": 1, "load": 0, "restSeconds": 0, "rpe": 10}]}`))
	require.NoError(t, err)

	_, err = domain.ParseExerciseConfig(json.RawMessage(`{"type": "cardio_continuous", "durationMinutes": 0.5, "effort": 1, "zone": 5, "pace": "5:30/km"}`))
	require.NoError(t, err)

	cfg, err := domain.ParseExerciseConfig(json.RawMessage(`{"type": "cardio_interval", "workSeconds": 1, "restSeconds": 0, "rounds": 1}`))
	require.NoError(t, err)
	assert.Equal(t, domain.CardioIntervalConfig{WorkSeconds: 1, RestSeconds: 0, Rounds: 1}, cfg)
}

func TestValidateExerciseConfig(t *testing.T) {
	require.NoError(t, domain.ValidateExerciseConfig(domain.StrengthConfig{Sets: []domain.StrengthSet{{RepsMin: 3, RepsMax: 5}}}))
	requireValidationField(t, domain.ValidateExerciseConfig(domain.StrengthConfig{Sets: []domain.StrengthSet{{RepsMin: 6, RepsMax: 5}}}), "config.sets[0].repsMax")
	requireValidationField(t, domain.ValidateExerciseConfig(domain.CardioIntervalConfig{WorkSeconds: 30, Rounds: 0}), "config.rounds")
	requireValidationField(t, domain.ValidateExerciseConfig(nil), "config")
}

func TestTypedConfig_JSON(t *testing.T) {
	zone := 2
	typed := domain.TypedConfig{ExerciseConfig: domain.CardioContinuousConfig{DurationMinutes: 45, Zone: &zone}}

	data, err := json.Marshal(typed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "cardio_continuous", "durationMinutes": 45, "zone": 2}`, string(data))

	var decoded domain.TypedConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, typed, decoded)

	err = json.Unmarshal([]byte(`{"type": "cardio_continuous"}`), &decoded)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTypedConfig_BSONDiscriminator(t *testing.T) {
	se := domain.SessionExercise{
		Config: domain.TypedConfig{ExerciseConfig: domain.CardioIntervalConfig{WorkSeconds: 40, RestSeconds: 20, Rounds: 6}},
	}

	data, err := bson.Marshal(se)
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	config, ok := raw["config"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "cardio_interval", config["type"])
	assert.EqualValues(t, 6, config["rounds"])

	var decoded domain.SessionExercise
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, se.Config, decoded.Config)
}
