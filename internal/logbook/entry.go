package logbook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klye32/fit-coach/internal/workouts"
	"github.com/klye32/fit-coach/pkg"
)

var ErrInvalidEntry = errors.New("invalid log entry")

// NewEntry is a session log as submitted by clients. Data is kept as
// raw JSON and stored verbatim after shape validation.
type NewEntry struct {
	WorkoutID int             `json:"workout_id"`
	Date      string          `json:"date"`
	Data      json.RawMessage `json:"log_data"`
	Comment   *string         `json:"comment"`
}

// Entry is a stored session log joined with its workout name and type.
type Entry struct {
	ID      int           `json:"id"`
	Date    string        `json:"date"`
	Data    any           `json:"log_data"`
	Comment *string       `json:"comment"`
	Name    string        `json:"name"`
	Type    workouts.Type `json:"type"`
}

// SetCompleted is one performed set of a strength session.
type SetCompleted struct {
	Reps   float64 `json:"reps"`
	Weight float64 `json:"weight"`
}

// StrengthData is the log payload shape for strength workouts.
type StrengthData struct {
	SetsCompleted []SetCompleted `json:"sets_completed"`
}

// CardioData is the log payload shape for cardio workouts.
type CardioData struct {
	Distance *float64 `json:"distance"`
	Duration *float64 `json:"duration"`
}

// ValidateData checks that raw is a JSON object matching the shape
// expected for the workout type. The raw bytes, not the decoded form,
// get stored, so client-side extras survive the round trip.
func ValidateData(workoutType workouts.Type, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: log_data is required", ErrInvalidEntry)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("%w: log_data must be a JSON object", ErrInvalidEntry)
	}

	switch workoutType {
	case workouts.TypeStrength:
		if setsRaw, ok := obj["sets_completed"]; ok {
			var sets []SetCompleted
			if err := json.Unmarshal(setsRaw, &sets); err != nil {
				return fmt.Errorf("%w: sets_completed must be a list of {reps, weight}: %s",
					ErrInvalidEntry, pkg.BytesToString(setsRaw))
			}
		}
	case workouts.TypeCardio:
		var data CardioData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("%w: cardio log_data must carry numeric distance and duration", ErrInvalidEntry)
		}
	}

	return nil
}
