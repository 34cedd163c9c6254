package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlite database handle. The file is created on first
// open and the schema is applied idempotently.
type DB struct {
	*sql.DB
	dbPath string
}

// Open opens (creating if needed) the sqlite database at dbPath.
// Pragmas ride on the DSN so that every pooled connection gets them,
// foreign key enforcement in particular.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	dsn := "file:" + dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", dbPath, err)
	}

	db := &DB{
		DB:     sqlDB,
		dbPath: dbPath,
	}

	if err := db.initSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	log.Debugf("sqlite db ready at %s", dbPath)

	return db, nil
}

func (db *DB) Path() string {
	return db.dbPath
}

// InTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("tx rollback: %s", rbErr)
			}
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}
