package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"herd-treatment-log/internal/domain/treatments"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx (database/sql).
// Backend alternativo al sqlite local, para despliegues compartidos donde
// el logbook no corre offline.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", treatments.ErrStorageUnavailable, err)
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", treatments.ErrStorageUnavailable, err)
	}

	return db, nil
}

// EnsureSchema crea las tablas e índices si no existen. Mismo layout lógico
// que el adapter sqlite: agregado por fila, entries/history como JSONB.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS treatments (
			id            BIGINT PRIMARY KEY,
			animal_class  TEXT NOT NULL,
			unit_number   TEXT NOT NULL,
			status        TEXT NOT NULL,
			entries       JSONB NOT NULL,
			history       JSONB NOT NULL,
			sync_state    BOOLEAN NOT NULL DEFAULT FALSE,
			last_modified TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_treatments_sync_state  ON treatments(sync_state);
		CREATE INDEX IF NOT EXISTS idx_treatments_unit_number ON treatments(unit_number);
		CREATE INDEX IF NOT EXISTS idx_treatments_status      ON treatments(status);

		CREATE TABLE IF NOT EXISTS sync_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("%w: create schema: %v", treatments.ErrStorageUnavailable, err)
	}
	return nil
}
