package schedule

import "github.com/klye32/fit-coach/internal/workouts"

// NewEntry is a single date to workout assignment as sent by clients.
// Entries with an empty date or a zero workout id are skipped.
type NewEntry struct {
	Date      string `json:"date"`
	WorkoutID int    `json:"workout_id"`
}

// Entry is a scheduled workout joined with its workout details.
type Entry struct {
	ID        int           `json:"id"`
	Date      string        `json:"date"`
	WorkoutID int           `json:"workout_id"`
	Name      string        `json:"name"`
	Type      workouts.Type `json:"type"`
	Sets      *int          `json:"sets"`
	Reps      *int          `json:"reps"`
	Weight    *float64      `json:"weight"`
}
