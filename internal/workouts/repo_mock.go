package workouts

import (
	"context"
	"fmt"
	"sync"
)

// repoMock is an in-memory stand-in for the sqlite backed repo, used
// by handler tests. It mirrors the repo validations.
type repoMock struct {
	mu       sync.Mutex
	workouts map[int]Workout
	nextID   int
}

func newRepoMock() *repoMock {
	return &repoMock{
		workouts: make(map[int]Workout),
		nextID:   1,
	}
}

func (m *repoMock) Add(_ context.Context, workout Workout) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if workout.Name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidWorkout)
	}
	if !workout.Type.Valid() {
		return 0, fmt.Errorf("%w: type must be strength or cardio", ErrInvalidWorkout)
	}

	workout.ID = m.nextID
	m.nextID++
	m.workouts[workout.ID] = workout
	return workout.ID, nil
}

func (m *repoMock) Get(_ context.Context, id int) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return &w, nil
}

func (m *repoMock) List(_ context.Context) ([]Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Workout, 0, len(m.workouts))
	for id := 1; id < m.nextID; id++ {
		if w, ok := m.workouts[id]; ok {
			all = append(all, w)
		}
	}
	return all, nil
}

func (m *repoMock) Update(_ context.Context, id int, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(fields) == 0 {
		return ErrNoUpdateFields
	}

	w, ok := m.workouts[id]
	if !ok {
		// an update for an id that does not exist is a silent no-op
		return nil
	}

	for field, value := range fields {
		switch field {
		case "name":
			name, isStr := value.(string)
			if !isStr || name == "" {
				return fmt.Errorf("%w: name must be a non-empty string", ErrInvalidWorkout)
			}
			w.Name = name
		case "type":
			t, isStr := value.(string)
			if !isStr || !Type(t).Valid() {
				return fmt.Errorf("%w: type must be strength or cardio", ErrInvalidWorkout)
			}
			w.Type = Type(t)
		case "sets":
			w.Sets = toIntPtr(value)
		case "reps":
			w.Reps = toIntPtr(value)
		case "weight":
			w.Weight = toFloatPtr(value)
		case "distance":
			w.Distance = toFloatPtr(value)
		case "duration":
			w.Duration = toFloatPtr(value)
		}
	}

	m.workouts[id] = w
	return nil
}

func (m *repoMock) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.workouts, id)
	return nil
}

func toIntPtr(value any) *int {
	// decoded JSON numbers arrive as float64
	if f, ok := value.(float64); ok {
		i := int(f)
		return &i
	}
	if i, ok := value.(int); ok {
		return &i
	}
	return nil
}

func toFloatPtr(value any) *float64 {
	if f, ok := value.(float64); ok {
		return &f
	}
	return nil
}
