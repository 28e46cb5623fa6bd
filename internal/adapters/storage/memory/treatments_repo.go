package memory

import (
	"context"
	"sync"

	"herd-treatment-log/internal/domain/treatments"
)

// treatmentsRepo es el store en memoria para tests y modo dev.
// Copia profunda en entrada y salida: un Put seguido de Get devuelve un
// caso deep-equal pero sin compartir slices con el caller.
type treatmentsRepo struct {
	mu   sync.RWMutex
	byID map[int64]treatments.Case
}

func NewTreatmentsRepo() treatments.Store {
	return &treatmentsRepo{
		byID: make(map[int64]treatments.Case),
	}
}

func (r *treatmentsRepo) Put(ctx context.Context, c treatments.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[c.ID] = copyCase(c)
	return nil
}

func (r *treatmentsRepo) Get(ctx context.Context, id int64) (treatments.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return treatments.Case{}, treatments.ErrNotFound
	}
	return copyCase(c), nil
}

func (r *treatmentsRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *treatmentsRepo) GetAll(ctx context.Context) ([]treatments.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.Case, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, copyCase(c))
	}
	return out, nil
}

func (r *treatmentsRepo) GetUnsynced(ctx context.Context) ([]treatments.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.Case, 0)
	for _, c := range r.byID {
		if !c.Synced {
			out = append(out, copyCase(c))
		}
	}
	return out, nil
}

func copyCase(c treatments.Case) treatments.Case {
	out := c
	if c.Entries != nil {
		out.Entries = make([]treatments.Entry, len(c.Entries))
		copy(out.Entries, c.Entries)
	}
	if c.History != nil {
		out.History = make([]treatments.HistoryEvent, len(c.History))
		copy(out.History, c.History)
	}
	if c.LegacyEntry != nil {
		legacy := *c.LegacyEntry
		out.LegacyEntry = &legacy
	}
	return out
}
