package workouts

// Type is the workout kind, it decides which detail fields make sense.
type Type string

const (
	TypeStrength Type = "strength"
	TypeCardio   Type = "cardio"
)

func (t Type) Valid() bool {
	return t == TypeStrength || t == TypeCardio
}

// Workout is an exercise template. Detail fields are pointers so that
// unset values serialize as JSON null, a strength workout has no
// distance and a cardio workout has no sets.
type Workout struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Sets     *int     `json:"sets"`
	Reps     *int     `json:"reps"`
	Weight   *float64 `json:"weight"`
	Distance *float64 `json:"distance"`
	Duration *float64 `json:"duration"`
}
