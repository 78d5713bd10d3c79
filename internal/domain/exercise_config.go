package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ConfigType is the discriminator of an exercise configuration.
type ConfigType string

const (
	ConfigStrength         ConfigType = "strength"
	ConfigCardioContinuous ConfigType = "cardio_continuous"
	ConfigCardioInterval   ConfigType = "cardio_interval"
)

// IsCardio reports whether the config type is one of the cardio variants.
func (t ConfigType) IsCardio() bool {
	return t == ConfigCardioContinuous || t == ConfigCardioInterval
}

// ExerciseConfig is the closed set of workout configurations a SessionExercise
// can carry. The only implementations are StrengthConfig, CardioContinuousConfig
// and CardioIntervalConfig.
type ExerciseConfig interface {
	ConfigType() ConfigType
	isExerciseConfig()
}

// StrengthSet is one prescribed set of a strength exercise.
type StrengthSet struct {
	Load        *float64 `bson:"load,omitempty" json:"load,omitempty"` // kg
	RepsMin     int      `bson:"repsMin" json:"repsMin"`
	RepsMax     int      `bson:"repsMax" json:"repsMax"`
	RestSeconds *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	RPE         *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
}

type StrengthConfig struct {
	Sets []StrengthSet `bson:"sets" json:"sets"`
}

type CardioContinuousConfig struct {
	DurationMinutes float64  `bson:"durationMinutes" json:"durationMinutes"`
	Effort          *float64 `bson:"effort,omitempty" json:"effort,omitempty"`
	Zone            *int     `bson:"zone,omitempty" json:"zone,omitempty"`
	Pace            string   `bson:"pace,omitempty" json:"pace,omitempty"`
}

type CardioIntervalConfig struct {
	WorkSeconds int      `bson:"workSeconds" json:"workSeconds"`
	RestSeconds int      `bson:"restSeconds" json:"restSeconds"`
	Rounds      int      `bson:"rounds" json:"rounds"`
	WorkEffort  *float64 `bson:"workEffort,omitempty" json:"workEffort,omitempty"`
	RestEffort  *float64 `bson:"restEffort,omitempty" json:"restEffort,omitempty"`
}

func (StrengthConfig) ConfigType() ConfigType         { return ConfigStrength }
func (CardioContinuousConfig) ConfigType() ConfigType { return ConfigCardioContinuous }
func (CardioIntervalConfig) ConfigType() ConfigType   { return ConfigCardioInterval }

func (StrengthConfig) isExerciseConfig()         {}
func (CardioContinuousConfig) isExerciseConfig() {}
func (CardioIntervalConfig) isExerciseConfig()   {}

// Raw shapes used while parsing; pointers tell "missing" apart from zero.
type rawStrengthSet struct {
	Load        *float64 `json:"load"`
	RepsMin     *int     `json:"repsMin"`
	RepsMax     *int     `json:"repsMax"`
	RestSeconds *int     `json:"restSeconds"`
	RPE         *float64 `json:"rpe"`
}

type rawStrength struct {
	Sets *[]rawStrengthSet `json:"sets"`
}

type rawCardioContinuous struct {
	DurationMinutes *float64 `json:"durationMinutes"`
	Effort          *float64 `json:"effort"`
	Zone            *int     `json:"zone"`
	Pace            string   `json:"pace"`
}

type rawCardioInterval struct {
	WorkSeconds *int     `json:"workSeconds"`
	RestSeconds *int     `json:"restSeconds"`
	Rounds      *int     `json:"rounds"`
	WorkEffort  *float64 `json:"workEffort"`
	RestEffort  *float64 `json:"restEffort"`
}

// ParseExerciseConfig validates an untyped configuration blob and returns the
// typed variant. The first violated field is reported as a validation error;
// nothing is accepted partially.
func ParseExerciseConfig(raw json.RawMessage) (ExerciseConfig, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewValidationError("config", "is required")
	}

	var probe struct {
		Type *ConfigType `json:"type"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, decodeError(err)
	}
	if probe.Type == nil || *probe.Type == "" {
		return nil, NewValidationError("config.type", "is required")
	}

	switch *probe.Type {
	case ConfigStrength:
		var r rawStrength
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, decodeError(err)
		}
		return validateStrength(r)
	case ConfigCardioContinuous:
		var r rawCardioContinuous
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, decodeError(err)
		}
		return validateCardioContinuous(r)
	case ConfigCardioInterval:
		var r rawCardioInterval
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, decodeError(err)
		}
		return validateCardioInterval(r)
	default:
		return nil, NewValidationError("config.type", "unknown config type %q", *probe.Type)
	}
}

// ValidateExerciseConfig re-checks an already typed config against the same
// bounds ParseExerciseConfig enforces.
func ValidateExerciseConfig(c ExerciseConfig) error {
	switch v := c.(type) {
	case StrengthConfig:
		sets := make([]rawStrengthSet, len(v.Sets))
		for i, s := range v.Sets {
			repsMin, repsMax := s.RepsMin, s.RepsMax
			sets[i] = rawStrengthSet{Load: s.Load, RepsMin: &repsMin, RepsMax: &repsMax, RestSeconds: s.RestSeconds, RPE: s.RPE}
		}
		_, err := validateStrength(rawStrength{Sets: &sets})
		return err
	case CardioContinuousConfig:
		d := v.DurationMinutes
		_, err := validateCardioContinuous(rawCardioContinuous{DurationMinutes: &d, Effort: v.Effort, Zone: v.Zone, Pace: v.Pace})
		return err
	case CardioIntervalConfig:
		w, r, n := v.WorkSeconds, v.RestSeconds, v.Rounds
		_, err := validateCardioInterval(rawCardioInterval{WorkSeconds: &w, RestSeconds: &r, Rounds: &n, WorkEffort: v.WorkEffort, RestEffort: v.RestEffort})
		return err
	case nil:
		return NewValidationError("config", "is required")
	default:
		return NewValidationError("config.type", "unknown config type %q", c.ConfigType())
	}
}

func validateStrength(r rawStrength) (ExerciseConfig, error) {
	if r.Sets == nil {
		return nil, NewValidationError("config.sets", "is required")
	}
	if len(*r.Sets) == 0 {
		return nil, NewValidationError("config.sets", "must contain at least one set")
	}

	out := StrengthConfig{Sets: make([]StrengthSet, 0, len(*r.Sets))}
	for i, s := range *r.Sets {
		field := fmt.Sprintf("config.sets[%d]", i)
		if s.RepsMin == nil {
			return nil, NewValidationError(field+".repsMin", "is required")
		}
		if *s.RepsMin < 1 {
			return nil, NewValidationError(field+".repsMin", "must be at least 1")
		}
		if s.RepsMax == nil {
			return nil, NewValidationError(field+".repsMax", "is required")
		}
		if *s.RepsMax < *s.RepsMin {
			return nil, NewValidationError(field+".repsMax", "must be greater than or equal to repsMin")
		}
		if s.Load != nil && *s.Load < 0 {
			return nil, NewValidationError(field+".load", "must not be negative")
		}
		if s.RestSeconds != nil && *s.RestSeconds < 0 {
			return nil, NewValidationError(field+".restSeconds", "must not be negative")
		}
		if s.RPE != nil && (*s.RPE < 1 || *s.RPE > 10) {
			return nil, NewValidationError(field+".rpe", "must be between 1 and 10")
		}
		out.Sets = append(out.Sets, StrengthSet{
			Load:        s.Load,
			RepsMin:     *s.RepsMin,
			RepsMax:     *s.RepsMax,
			RestSeconds: s.RestSeconds,
			RPE:         s.RPE,
		})
	}
	return out, nil
}

func validateCardioContinuous(r rawCardioContinuous) (ExerciseConfig, error) {
	if r.DurationMinutes == nil {
		return nil, NewValidationError("config.durationMinutes", "is required")
	}
	if *r.DurationMinutes <= 0 {
		return nil, NewValidationError("config.durationMinutes", "must be greater than 0")
	}
	if r.Effort != nil && (*r.Effort < 1 || *r.Effort > 10) {
		return nil, NewValidationError("config.effort", "must be between 1 and 10")
	}
	if r.Zone != nil && (*r.Zone < 1 || *r.Zone > 5) {
		return nil, NewValidationError("config.zone", "must be between 1 and 5")
	}
	return CardioContinuousConfig{
		DurationMinutes: *r.DurationMinutes,
		Effort:          r.Effort,
		Zone:            r.Zone,
		Pace:            r.Pace,
	}, nil
}

func validateCardioInterval(r rawCardioInterval) (ExerciseConfig, error) {
	if r.WorkSeconds == nil {
		return nil, NewValidationError("config.workSeconds", "is required")
	}
	if *r.WorkSeconds <= 0 {
		return nil, NewValidationError("config.workSeconds", "must be greater than 0")
	}
	if r.RestSeconds == nil {
		return nil, NewValidationError("config.restSeconds", "is required")
	}
	if *r.RestSeconds < 0 {
		return nil, NewValidationError("config.restSeconds", "must not be negative")
	}
	if r.Rounds == nil {
		return nil, NewValidationError("config.rounds", "is required")
	}
	if *r.Rounds < 1 {
		return nil, NewValidationError("config.rounds", "must be at least 1")
	}
	if r.WorkEffort != nil && (*r.WorkEffort < 1 || *r.WorkEffort > 10) {
		return nil, NewValidationError("config.workEffort", "must be between 1 and 10")
	}
	if r.RestEffort != nil && (*r.RestEffort < 1 || *r.RestEffort > 10) {
		return nil, NewValidationError("config.restEffort", "must be between 1 and 10")
	}
	return CardioIntervalConfig{
		WorkSeconds: *r.WorkSeconds,
		RestSeconds: *r.RestSeconds,
		Rounds:      *r.Rounds,
		WorkEffort:  r.WorkEffort,
		RestEffort:  r.RestEffort,
	}, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return NewValidationError("config."+typeErr.Field, "must be a valid %s", typeErr.Type.String())
	}
	return &Error{Kind: KindValidation, Field: "config", Message: "is not a valid object", Err: err}
}

// TypedConfig carries an ExerciseConfig through BSON and JSON, writing the
// "type" discriminator next to the variant fields.
type TypedConfig struct {
	ExerciseConfig
}

type strengthEnvelope struct {
	Type           ConfigType `bson:"type" json:"type"`
	StrengthConfig `bson:",inline"`
}

type cardioContinuousEnvelope struct {
	Type                   ConfigType `bson:"type" json:"type"`
	CardioContinuousConfig `bson:",inline"`
}

type cardioIntervalEnvelope struct {
	Type                 ConfigType `bson:"type" json:"type"`
	CardioIntervalConfig `bson:",inline"`
}

func (c TypedConfig) envelope() (any, error) {
	switch v := c.ExerciseConfig.(type) {
	case StrengthConfig:
		return strengthEnvelope{Type: ConfigStrength, StrengthConfig: v}, nil
	case CardioContinuousConfig:
		return cardioContinuousEnvelope{Type: ConfigCardioContinuous, CardioContinuousConfig: v}, nil
	case CardioIntervalConfig:
		return cardioIntervalEnvelope{Type: ConfigCardioInterval, CardioIntervalConfig: v}, nil
	default:
		return nil, fmt.Errorf("unsupported exercise config %T", c.ExerciseConfig)
	}
}

func (c TypedConfig) MarshalBSON() ([]byte, error) {
	env, err := c.envelope()
	if err != nil {
		return nil, err
	}
	return bson.Marshal(env)
}

func (c *TypedConfig) UnmarshalBSON(data []byte) error {
	var probe struct {
		Type ConfigType `bson:"type"`
	}
	if err := bson.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Type {
	case ConfigStrength:
		var env strengthEnvelope
		if err := bson.Unmarshal(data, &env); err != nil {
			return err
		}
		c.ExerciseConfig = env.StrengthConfig
	case ConfigCardioContinuous:
		var env cardioContinuousEnvelope
		if err := bson.Unmarshal(data, &env); err != nil {
			return err
		}
		c.ExerciseConfig = env.CardioContinuousConfig
	case ConfigCardioInterval:
		var env cardioIntervalEnvelope
		if err := bson.Unmarshal(data, &env); err != nil {
			return err
		}
		c.ExerciseConfig = env.CardioIntervalConfig
	default:
		return fmt.Errorf("stored exercise config has unknown type %q", probe.Type)
	}
	return nil
}

func (c TypedConfig) MarshalJSON() ([]byte, error) {
	if c.ExerciseConfig == nil {
		return []byte("null"), nil
	}
	env, err := c.envelope()
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func (c *TypedConfig) UnmarshalJSON(data []byte) error {
	cfg, err := ParseExerciseConfig(data)
	if err != nil {
		return err
	}
	c.ExerciseConfig = cfg
	return nil
}
