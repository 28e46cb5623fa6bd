package memory

import (
	"context"
	"sync"
	"time"
)

// MetaRepo guarda el estado del coordinador en memoria (tests / modo dev).
type MetaRepo struct {
	mu       sync.RWMutex
	deviceID string
	lastSync time.Time
}

func NewMetaRepo() *MetaRepo {
	return &MetaRepo{}
}

func (r *MetaRepo) DeviceID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deviceID, nil
}

func (r *MetaRepo) SaveDeviceID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deviceID = id
	return nil
}

func (r *MetaRepo) LastSync(ctx context.Context) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSync, nil
}

func (r *MetaRepo) SaveLastSync(ctx context.Context, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSync = t
	return nil
}
