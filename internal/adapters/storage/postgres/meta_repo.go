package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"herd-treatment-log/internal/domain/treatments"
)

const (
	metaKeyDeviceID = "device_id"
	metaKeyLastSync = "last_sync"
)

// MetaRepo guarda el estado del coordinador de sync en la tabla sync_meta.
type MetaRepo struct {
	db *sql.DB
}

func NewMetaRepo(db *sql.DB) *MetaRepo {
	return &MetaRepo{db: db}
}

func (r *MetaRepo) DeviceID(ctx context.Context) (string, error) {
	return r.get(ctx, metaKeyDeviceID)
}

func (r *MetaRepo) SaveDeviceID(ctx context.Context, id string) error {
	return r.set(ctx, metaKeyDeviceID, id)
}

func (r *MetaRepo) LastSync(ctx context.Context) (time.Time, error) {
	v, err := r.get(ctx, metaKeyLastSync)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode last_sync: %w", err)
	}
	return t, nil
}

func (r *MetaRepo) SaveLastSync(ctx context.Context, t time.Time) error {
	return r.set(ctx, metaKeyLastSync, t.UTC().Format(time.RFC3339Nano))
}

func (r *MetaRepo) get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sync_meta WHERE key = $1`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", treatments.ErrStorageUnavailable, err)
	}
	return v, nil
}

func (r *MetaRepo) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", treatments.ErrWriteFailed, err)
	}
	return nil
}
