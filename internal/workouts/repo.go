package workouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/klye32/fit-coach/internal/storage"
	"github.com/klye32/fit-coach/internal/telemetry/tracing"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidWorkout  = errors.New("invalid workout")
	ErrNoUpdateFields  = errors.New("no updatable fields provided")
)

// UpdatableFields lists the workout columns a partial update may touch,
// in the order the SET clause is built.
var UpdatableFields = []string{"name", "type", "sets", "reps", "weight", "distance", "duration"}

type Repo struct {
	db *storage.DB
}

func NewRepo(db *storage.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.Name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidWorkout)
	}
	if !workout.Type.Valid() {
		return 0, fmt.Errorf("%w: type must be strength or cardio", ErrInvalidWorkout)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workouts (name, type, sets, reps, weight, distance, duration)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
		workout.Name, workout.Type,
		workout.Sets, workout.Reps, workout.Weight,
		workout.Distance, workout.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	span.SetAttributes(attribute.Int64("workout.id", id))

	return int(id), nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("workout.id", id))

	var w Workout
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, type, sets, reps, weight, distance, duration
			FROM workouts WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.Type, &w.Sets, &w.Reps, &w.Weight, &w.Distance, &w.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout: %w", err)
	}

	return &w, nil
}

func (r *Repo) List(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, sets, reps, weight, distance, duration FROM workouts`,
	)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	all := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Type, &w.Sets, &w.Reps, &w.Weight, &w.Distance, &w.Duration); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		all = append(all, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workouts rows: %w", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(all)))

	return all, nil
}

// Update applies a partial update. Only keys present in fields are
// touched, a key set to nil clears the column. An update for an id
// that does not exist is a silent no-op.
func (r *Repo) Update(ctx context.Context, id int, fields map[string]any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("workout.id", id))

	setClauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, field := range UpdatableFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		if field == "name" {
			if name, isStr := value.(string); !isStr || name == "" {
				return fmt.Errorf("%w: name must be a non-empty string", ErrInvalidWorkout)
			}
		}
		if field == "type" {
			t, isStr := value.(string)
			if !isStr || !Type(t).Valid() {
				return fmt.Errorf("%w: type must be strength or cardio", ErrInvalidWorkout)
			}
		}
		setClauses = append(setClauses, field+" = ?")
		args = append(args, value)
	}

	if len(setClauses) == 0 {
		return ErrNoUpdateFields
	}

	args = append(args, id)
	_, err = r.db.ExecContext(ctx,
		"UPDATE workouts SET "+strings.Join(setClauses, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	return nil
}

// Delete removes the workout together with its schedule entries and
// session logs, via foreign key cascade. Deleting an id that does not
// exist is a no-op.
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("workout.id", id))

	if _, err = r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	return nil
}
