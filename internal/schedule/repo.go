package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/klye32/fit-coach/internal/storage"
	"github.com/klye32/fit-coach/internal/telemetry/tracing"
)

type Repo struct {
	db *storage.DB
}

func NewRepo(db *storage.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) List(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.date, w.id, w.name, w.type, w.sets, w.reps, w.weight
			FROM schedule s
			JOIN workouts w ON s.workout_id = w.id
			ORDER BY s.date`,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.WorkoutID, &e.Name, &e.Type, &e.Sets, &e.Reps, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedule rows: %w", err)
	}

	span.SetAttributes(attribute.Int("schedule.count", len(entries)))

	return entries, nil
}

// Replace swaps the schedule for each date mentioned in entries.
// Existing entries for a mentioned date are dropped and the new ones
// take their place, dates not mentioned stay untouched. Entries with
// an empty date or a zero workout id are skipped silently. The whole
// replacement runs in one transaction.
func (r *Repo) Replace(ctx context.Context, entries []NewEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("schedule.new.count", len(entries)))

	dates := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.Date == "" {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		dates = append(dates, e.Date)
	}
	if len(dates) == 0 {
		return nil
	}

	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(dates)), ", ")
		args := make([]any, 0, len(dates))
		for _, d := range dates {
			args = append(args, d)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM schedule WHERE date IN ("+placeholders+")", args...,
		); err != nil {
			return fmt.Errorf("clear schedule dates: %w", err)
		}

		for _, e := range entries {
			if e.Date == "" || e.WorkoutID == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schedule (date, workout_id) VALUES (?, ?)`,
				e.Date, e.WorkoutID,
			); err != nil {
				return fmt.Errorf("insert schedule entry: %w", err)
			}
		}

		return nil
	})
}

// Clear removes every schedule entry.
func (r *Repo) Clear(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err = r.db.ExecContext(ctx, `DELETE FROM schedule`); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}

	return nil
}
