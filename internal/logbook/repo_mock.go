package logbook

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/klye32/fit-coach/internal/workouts"
)

// repoMock keeps session logs in memory for handler tests. Known
// workouts are registered up front via addWorkout.
type repoMock struct {
	mu           sync.Mutex
	workoutTypes map[int]workouts.Type
	workoutNames map[int]string
	entries      []Entry
	nextID       int
}

func newRepoMock() *repoMock {
	return &repoMock{
		workoutTypes: make(map[int]workouts.Type),
		workoutNames: make(map[int]string),
		nextID:       1,
	}
}

func (m *repoMock) addWorkout(id int, name string, workoutType workouts.Type) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workoutTypes[id] = workoutType
	m.workoutNames[id] = name
}

func (m *repoMock) Add(_ context.Context, entry NewEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.WorkoutID == 0 {
		return 0, fmt.Errorf("%w: workout_id is required", ErrInvalidEntry)
	}
	workoutType, ok := m.workoutTypes[entry.WorkoutID]
	if !ok {
		return 0, fmt.Errorf("%w: workout %d not found", ErrInvalidEntry, entry.WorkoutID)
	}
	if err := ValidateData(workoutType, entry.Data); err != nil {
		return 0, err
	}

	date := entry.Date
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	var data any
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		data = string(entry.Data)
	}

	e := Entry{
		ID:      m.nextID,
		Date:    date,
		Data:    data,
		Comment: entry.Comment,
		Name:    m.workoutNames[entry.WorkoutID],
		Type:    workoutType,
	}
	m.nextID++
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *repoMock) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Entry, len(m.entries))
	copy(all, m.entries)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date > all[j].Date
	})
	return all, nil
}
