package storage

import "context"

// Schema statements are idempotent, applied on every open.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS workouts (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		type     TEXT NOT NULL CHECK (type IN ('strength', 'cardio')),
		sets     INTEGER,
		reps     INTEGER,
		weight   REAL,
		distance REAL,
		duration REAL
	)`,
	`CREATE TABLE IF NOT EXISTS workout_logs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		date       TEXT NOT NULL,
		log_data   TEXT NOT NULL,
		comment    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		date       TEXT NOT NULL,
		workout_id INTEGER REFERENCES workouts(id) ON DELETE CASCADE
	)`,
}

func (db *DB) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
