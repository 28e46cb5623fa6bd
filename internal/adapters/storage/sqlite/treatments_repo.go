package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"herd-treatment-log/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

var _ treatments.Store = (*TreatmentsRepo)(nil)

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

// Put es insert-or-replace por id. sqlite confirma el write antes de
// devolver (el éxito reportado implica durabilidad, no buffer en memoria).
func (r *TreatmentsRepo) Put(ctx context.Context, c treatments.Case) error {
	entries, err := json.Marshal(c.Entries)
	if err != nil {
		return fmt.Errorf("%w: encode entries: %v", treatments.ErrWriteFailed, err)
	}
	history, err := json.Marshal(c.History)
	if err != nil {
		return fmt.Errorf("%w: encode history: %v", treatments.ErrWriteFailed, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO treatments (id, animal_class, unit_number, status, entries, history, sync_state, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			animal_class  = excluded.animal_class,
			unit_number   = excluded.unit_number,
			status        = excluded.status,
			entries       = excluded.entries,
			history       = excluded.history,
			sync_state    = excluded.sync_state,
			last_modified = excluded.last_modified
	`,
		c.ID,
		string(c.AnimalClass),
		c.UnitNumber,
		string(c.Status),
		string(entries),
		string(history),
		boolToInt(c.Synced),
		c.LastModified.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", treatments.ErrWriteFailed, err)
	}
	return nil
}

func (r *TreatmentsRepo) Get(ctx context.Context, id int64) (treatments.Case, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, animal_class, unit_number, status, entries, history, sync_state, last_modified
		FROM treatments
		WHERE id = ?
	`, id)

	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return treatments.Case{}, treatments.ErrNotFound
	}
	return c, err
}

// Delete es idempotente: borrar un id inexistente no es error.
func (r *TreatmentsRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: %v", treatments.ErrWriteFailed, err)
	}
	return nil
}

func (r *TreatmentsRepo) GetAll(ctx context.Context) ([]treatments.Case, error) {
	return r.queryCases(ctx, `
		SELECT id, animal_class, unit_number, status, entries, history, sync_state, last_modified
		FROM treatments
	`)
}

func (r *TreatmentsRepo) GetUnsynced(ctx context.Context) ([]treatments.Case, error) {
	return r.queryCases(ctx, `
		SELECT id, animal_class, unit_number, status, entries, history, sync_state, last_modified
		FROM treatments
		WHERE sync_state = 0
	`)
}

func (r *TreatmentsRepo) queryCases(ctx context.Context, query string) ([]treatments.Case, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", treatments.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := make([]treatments.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (treatments.Case, error) {
	var (
		c            treatments.Case
		animalClass  string
		status       string
		entriesRaw   []byte
		historyRaw   []byte
		syncState    int
		lastModified string
	)
	if err := row.Scan(&c.ID, &animalClass, &c.UnitNumber, &status, &entriesRaw, &historyRaw, &syncState, &lastModified); err != nil {
		return treatments.Case{}, err
	}

	entries, legacy, err := decodeEntries(entriesRaw)
	if err != nil {
		return treatments.Case{}, fmt.Errorf("decode entries (case %d): %w", c.ID, err)
	}
	if err := json.Unmarshal(historyRaw, &c.History); err != nil {
		return treatments.Case{}, fmt.Errorf("decode history (case %d): %w", c.ID, err)
	}

	t, err := time.Parse(time.RFC3339Nano, lastModified)
	if err != nil {
		return treatments.Case{}, fmt.Errorf("decode last_modified (case %d): %w", c.ID, err)
	}

	c.AnimalClass = treatments.AnimalClass(animalClass)
	c.Status = treatments.Status(status)
	c.Entries = entries
	c.LegacyEntry = legacy
	c.Synced = syncState != 0
	c.LastModified = t
	return c, nil
}

// decodeEntries acepta la forma actual (array JSON) y la forma legacy
// (un único tratamiento como objeto top-level, anterior al modelo
// multi-entrada). La forma legacy se devuelve aparte para que el manager
// la promueva con su función de upgrade explícita.
func decodeEntries(raw []byte) ([]treatments.Entry, *treatments.Entry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil, nil
	}

	if raw[0] == '{' {
		var one treatments.Entry
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, nil, err
		}
		return nil, &one, nil
	}

	var list []treatments.Entry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, nil, err
	}
	return list, nil, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
