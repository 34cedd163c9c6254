package logbook

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klye32/fit-coach/internal/storage"
	"github.com/klye32/fit-coach/internal/workouts"
)

func newTestRepo(t *testing.T) (*Repo, *workouts.Repo, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return NewRepo(db), workouts.NewRepo(db), db
}

func TestRepo_AddAndList(t *testing.T) {
	repo, workoutsRepo, _ := newTestRepo(t)
	ctx := context.Background()

	squatID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Squat", Type: workouts.TypeStrength})
	require.NoError(t, err)

	comment := "felt strong"
	id, err := repo.Add(ctx, NewEntry{
		WorkoutID: squatID,
		Date:      "2026-08-24",
		Data:      json.RawMessage(`{"sets_completed": [{"reps": 5, "weight": 100}, {"reps": 5, "weight": 102.5}]}`),
		Comment:   &comment,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "2026-08-24", e.Date)
	assert.Equal(t, "Squat", e.Name)
	assert.Equal(t, workouts.TypeStrength, e.Type)
	require.NotNil(t, e.Comment)
	assert.Equal(t, "felt strong", *e.Comment)

	// log_data round-trips as structured JSON
	data, ok := e.Data.(map[string]any)
	require.True(t, ok)
	sets, ok := data["sets_completed"].([]any)
	require.True(t, ok)
	require.Len(t, sets, 2)
}

func TestRepo_Add_dateDefaultsToToday(t *testing.T) {
	repo, workoutsRepo, _ := newTestRepo(t)
	ctx := context.Background()

	runID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Easy Run", Type: workouts.TypeCardio})
	require.NoError(t, err)

	_, err = repo.Add(ctx, NewEntry{
		WorkoutID: runID,
		Data:      json.RawMessage(`{"distance": 5, "duration": 30}`),
	})
	require.NoError(t, err)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Now().Format(time.DateOnly), entries[0].Date)
}

func TestRepo_Add_validation(t *testing.T) {
	repo, workoutsRepo, _ := newTestRepo(t)
	ctx := context.Background()

	squatID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Squat", Type: workouts.TypeStrength})
	require.NoError(t, err)

	// missing workout id
	_, err = repo.Add(ctx, NewEntry{Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	// unknown workout
	_, err = repo.Add(ctx, NewEntry{WorkoutID: 42, Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	// log_data not an object
	_, err = repo.Add(ctx, NewEntry{WorkoutID: squatID, Data: json.RawMessage(`[1, 2]`)})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	// malformed sets_completed
	_, err = repo.Add(ctx, NewEntry{WorkoutID: squatID, Data: json.RawMessage(`{"sets_completed": "all of them"}`)})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	// missing log_data
	_, err = repo.Add(ctx, NewEntry{WorkoutID: squatID})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestRepo_List_newestFirst(t *testing.T) {
	repo, workoutsRepo, _ := newTestRepo(t)
	ctx := context.Background()

	squatID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Squat", Type: workouts.TypeStrength})
	require.NoError(t, err)

	for _, date := range []string{"2026-08-20", "2026-08-26", "2026-08-23"} {
		_, err := repo.Add(ctx, NewEntry{
			WorkoutID: squatID,
			Date:      date,
			Data:      json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-08-26", entries[0].Date)
	assert.Equal(t, "2026-08-23", entries[1].Date)
	assert.Equal(t, "2026-08-20", entries[2].Date)
}

func TestRepo_List_malformedDataFallsBackToRaw(t *testing.T) {
	repo, workoutsRepo, db := newTestRepo(t)
	ctx := context.Background()

	squatID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Squat", Type: workouts.TypeStrength})
	require.NoError(t, err)

	// rows written before validation existed may hold broken payloads
	_, err = db.ExecContext(ctx,
		`INSERT INTO workout_logs (workout_id, date, log_data) VALUES (?, '2026-08-24', 'not json')`,
		squatID)
	require.NoError(t, err)

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "not json", entries[0].Data)
}

func TestRepo_Recent(t *testing.T) {
	repo, workoutsRepo, _ := newTestRepo(t)
	ctx := context.Background()

	squatID, err := workoutsRepo.Add(ctx, workouts.Workout{Name: "Squat", Type: workouts.TypeStrength})
	require.NoError(t, err)

	dates := []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04"}
	for _, date := range dates {
		_, err := repo.Add(ctx, NewEntry{
			WorkoutID: squatID,
			Date:      date,
			Data:      json.RawMessage(`{"sets_completed": [{"reps": 5, "weight": 100}]}`),
		})
		require.NoError(t, err)
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2026-08-04", recent[0].Date)
	assert.Equal(t, "2026-08-03", recent[1].Date)
	assert.Equal(t, "Squat", recent[0].Name)
	assert.Equal(t, workouts.TypeStrength, recent[0].Type)
	assert.JSONEq(t, `{"sets_completed": [{"reps": 5, "weight": 100}]}`, string(recent[0].Data))
}
