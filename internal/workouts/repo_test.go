package workouts

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klye32/fit-coach/internal/storage"
)

func newTestRepo(t *testing.T) (*Repo, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return NewRepo(db), db
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func TestRepo_AddAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Workout{
		Name:   "Bench Press",
		Type:   TypeStrength,
		Sets:   intPtr(3),
		Reps:   intPtr(8),
		Weight: floatPtr(60),
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", got.Name)
	assert.Equal(t, TypeStrength, got.Type)
	require.NotNil(t, got.Sets)
	assert.Equal(t, 3, *got.Sets)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 60.0, *got.Weight)
	// strength workouts carry no cardio fields
	assert.Nil(t, got.Distance)
	assert.Nil(t, got.Duration)
}

func TestRepo_Add_validation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, Workout{Type: TypeStrength})
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	_, err = repo.Add(ctx, Workout{Name: "Yoga", Type: "flexibility"})
	assert.ErrorIs(t, err, ErrInvalidWorkout)
}

func TestRepo_Get_notFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestRepo_List(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = repo.Add(ctx, Workout{Name: "Squat", Type: TypeStrength})
	require.NoError(t, err)
	_, err = repo.Add(ctx, Workout{Name: "Easy Run", Type: TypeCardio, Distance: floatPtr(5)})
	require.NoError(t, err)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Squat", all[0].Name)
	assert.Equal(t, "Easy Run", all[1].Name)
}

func TestRepo_Update_partial(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Workout{
		Name:   "Deadlift",
		Type:   TypeStrength,
		Sets:   intPtr(3),
		Reps:   intPtr(5),
		Weight: floatPtr(100),
	})
	require.NoError(t, err)

	// only weight changes, other fields stay
	require.NoError(t, repo.Update(ctx, id, map[string]any{"weight": 105.0}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", got.Name)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 105.0, *got.Weight)
	require.NotNil(t, got.Sets)
	assert.Equal(t, 3, *got.Sets)

	// a key set to null clears the column
	require.NoError(t, repo.Update(ctx, id, map[string]any{"reps": nil}))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Reps)
}

func TestRepo_Update_validation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Workout{Name: "Squat", Type: TypeStrength})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Update(ctx, id, map[string]any{}), ErrNoUpdateFields)
	assert.ErrorIs(t, repo.Update(ctx, id, map[string]any{"name": ""}), ErrInvalidWorkout)
	assert.ErrorIs(t, repo.Update(ctx, id, map[string]any{"type": "flexibility"}), ErrInvalidWorkout)
	// unknown keys alone leave nothing to update
	assert.ErrorIs(t, repo.Update(ctx, id, map[string]any{"id": 99}), ErrNoUpdateFields)
}

func TestRepo_Update_missingIDIsNoop(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Update(context.Background(), 42, map[string]any{"name": "Ghost"})
	assert.NoError(t, err)
}

func TestRepo_Delete_cascades(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Workout{Name: "Squat", Type: TypeStrength})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO schedule (date, workout_id) VALUES ('2026-08-28', ?)`, id)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO workout_logs (workout_id, date, log_data) VALUES (?, '2026-08-28', '{}')`, id)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	var scheduleCount, logsCount int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedule`).Scan(&scheduleCount))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_logs`).Scan(&logsCount))
	assert.Zero(t, scheduleCount)
	assert.Zero(t, logsCount)
}

func TestRepo_Delete_missingIDIsNoop(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.NoError(t, repo.Delete(context.Background(), 42))
}
