package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"herd-treatment-log/internal/domain/treatments"

	_ "modernc.org/sqlite" // driver sqlite puro Go
)

// Esquema local: colección "treatments" con clave primaria id, índice
// secundario por sync_state y los índices advisory para filtros de UI.
// Entries e history van como documentos JSON (agregado completo por fila).
const schema = `
CREATE TABLE IF NOT EXISTS treatments (
	id            INTEGER PRIMARY KEY,
	animal_class  TEXT NOT NULL,
	unit_number   TEXT NOT NULL,
	status        TEXT NOT NULL,
	entries       TEXT NOT NULL,
	history       TEXT NOT NULL,
	sync_state    INTEGER NOT NULL DEFAULT 0,
	last_modified TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_treatments_sync_state  ON treatments(sync_state);
CREATE INDEX IF NOT EXISTS idx_treatments_unit_number ON treatments(unit_number);
CREATE INDEX IF NOT EXISTS idx_treatments_status      ON treatments(status);

CREATE TABLE IF NOT EXISTS sync_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open abre (o crea) la base local y deja el esquema listo.
// El handle se abre una vez al arrancar el proceso y vive hasta el final;
// no se cierra en operación normal.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "data/treatments.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db dir: %v", treatments.ErrStorageUnavailable, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", treatments.ErrStorageUnavailable, err)
	}

	// Un solo escritor lógico: limitar el pool evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %v", treatments.ErrStorageUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", treatments.ErrStorageUnavailable, err)
	}

	return db, nil
}
