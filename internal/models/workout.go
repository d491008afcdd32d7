package models

import (
	"time"

	"github.com/google/uuid"
)

// WeightUnit is the user's display unit. Stored weights are always the
// raw numeric value the user entered; the unit never rescales them.
type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// User is the owner of all logged training data.
type User struct {
	ID          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	WeightUnit  WeightUnit `json:"weight_unit"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TrainingCategory is a named grouping for sessions (e.g. "Push").
type TrainingCategory struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Exercise is a named movement. Built-in exercises have a nil UserID and
// are shared across users; user-created ones carry the owner's ID.
type Exercise struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	Name      string     `json:"name"`
	IsBuiltIn bool       `json:"is_built_in"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WorkoutSession is one bounded training occurrence. EndedAt stays nil
// while the session is in progress.
type WorkoutSession struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	CategoryID uuid.UUID  `json:"category_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// WorkoutExercise links a session to an exercise at a position within the
// session, with optional situational metadata. Ordinal is assigned as
// MAX(ordinal)+1 at insert and never renumbered on delete: it is a stable
// display hint and gaps are allowed.
type WorkoutExercise struct {
	ID            uuid.UUID `json:"id"`
	SessionID     uuid.UUID `json:"session_id"`
	ExerciseID    uuid.UUID `json:"exercise_id"`
	Ordinal       int       `json:"ordinal"`
	MachineName   *string   `json:"machine_name,omitempty"`
	SeatHeight    *string   `json:"seat_height,omitempty"`
	BenchAngleDeg *int      `json:"bench_angle_deg,omitempty"`
	Grip          *string   `json:"grip,omitempty"`
}

// WorkoutSet is one performed set of reps at a weight. Its volume
// (reps × weight) is the atomic unit every higher aggregate is built from.
type WorkoutSet struct {
	ID                uuid.UUID `json:"id"`
	WorkoutExerciseID uuid.UUID `json:"workout_exercise_id"`
	Ordinal           int       `json:"ordinal"`
	Reps              int       `json:"reps"`
	Weight            float64   `json:"weight"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SessionSet is a set joined with its session and exercise identity, as
// returned by the bulk session-sets query. Aggregators group these rows
// in memory instead of issuing nested per-session queries.
type SessionSet struct {
	SessionID  uuid.UUID  `json:"session_id"`
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Set        WorkoutSet `json:"set"`
}
