package logbook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/klye32/fit-coach/internal/storage"
	"github.com/klye32/fit-coach/internal/telemetry/tracing"
	"github.com/klye32/fit-coach/internal/workouts"
)

// HistoryEntry is the compact view the recommendation composer reads.
type HistoryEntry struct {
	Date string
	Name string
	Type workouts.Type
	Data json.RawMessage
}

type Repo struct {
	db *storage.DB
}

func NewRepo(db *storage.DB) *Repo {
	return &Repo{db: db}
}

// Add appends a session log. The referenced workout must exist, its
// type decides the expected log_data shape. Date defaults to today.
func (r *Repo) Add(ctx context.Context, entry NewEntry) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if entry.WorkoutID == 0 {
		return 0, fmt.Errorf("%w: workout_id is required", ErrInvalidEntry)
	}

	span.SetAttributes(attribute.Int("workout.id", entry.WorkoutID))

	var workoutType workouts.Type
	err = r.db.QueryRowContext(ctx,
		`SELECT type FROM workouts WHERE id = ?`, entry.WorkoutID,
	).Scan(&workoutType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: workout %d not found", ErrInvalidEntry, entry.WorkoutID)
		}
		return 0, fmt.Errorf("get workout type: %w", err)
	}

	if err = ValidateData(workoutType, entry.Data); err != nil {
		return 0, err
	}

	date := entry.Date
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workout_logs (workout_id, date, log_data, comment)
			VALUES (?, ?, ?, ?)`,
		entry.WorkoutID, date, string(entry.Data), entry.Comment,
	)
	if err != nil {
		return 0, fmt.Errorf("insert log entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return int(id), nil
}

// List returns every session log, newest date first, joined with the
// workout name and type.
func (r *Repo) List(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.date, l.log_data, l.comment, w.name, w.type
			FROM workout_logs l
			JOIN workouts w ON l.workout_id = w.id
			ORDER BY l.date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var rawData string
		if err := rows.Scan(&e.ID, &e.Date, &rawData, &e.Comment, &e.Name, &e.Type); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if err := json.Unmarshal([]byte(rawData), &e.Data); err != nil {
			// keep rows with malformed payloads readable instead of failing the list
			e.Data = rawData
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list log entries rows: %w", err)
	}

	span.SetAttributes(attribute.Int("logbook.count", len(entries)))

	return entries, nil
}

// Recent returns the latest session logs for the recommendation
// composer, newest date first.
func (r *Repo) Recent(ctx context.Context, limit int) (_ []HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logbook.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(ctx,
		`SELECT l.date, w.name, w.type, l.log_data
			FROM workout_logs l
			JOIN workouts w ON l.workout_id = w.id
			ORDER BY l.date DESC
			LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var e HistoryEntry
		var rawData string
		if err := rows.Scan(&e.Date, &e.Name, &e.Type, &rawData); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Data = json.RawMessage(rawData)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent log entries rows: %w", err)
	}

	return entries, nil
}
