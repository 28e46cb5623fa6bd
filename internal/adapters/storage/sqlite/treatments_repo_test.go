package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"herd-treatment-log/internal/domain/treatments"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "treatments.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleCase(id int64) treatments.Case {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return treatments.Case{
		ID:          id,
		AnimalClass: treatments.AnimalClassYoungSow,
		UnitNumber:  "A12",
		Status:      treatments.StatusInTreatment,
		Entries: []treatments.Entry{{
			Date:              date,
			Diagnosis:         "Lahmheit",
			Medication:        "Procapen",
			Dosage:            "12ml",
			WaitingPeriodDays: 3,
		}},
		History: []treatments.HistoryEvent{{
			Timestamp: date,
			Action:    treatments.ActionCreated,
			ToStatus:  treatments.StatusInTreatment,
		}},
		LastModified: date,
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))
	want := sampleCase(1714550400000)

	if err := repo.Put(context.Background(), want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := repo.Get(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// timestamps vuelven en UTC tras el round-trip por RFC3339
	if !got.LastModified.Equal(want.LastModified) {
		t.Fatalf("last_modified mismatch: %v vs %v", got.LastModified, want.LastModified)
	}
	got.LastModified = want.LastModified
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestPut_ReplacesExisting(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))
	c := sampleCase(1)

	if err := repo.Put(context.Background(), c); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c.Status = treatments.StatusCompleted
	c.Synced = true
	if err := repo.Put(context.Background(), c); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}

	got, err := repo.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != treatments.StatusCompleted || !got.Synced {
		t.Fatalf("replace did not stick: %+v", got)
	}

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("replace must not duplicate rows, got %d", len(all))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))

	if _, err := repo.Get(context.Background(), 999); !errors.Is(err, treatments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))
	c := sampleCase(1)

	if err := repo.Put(context.Background(), c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete (again): %v", err)
	}
	if _, err := repo.Get(context.Background(), c.ID); !errors.Is(err, treatments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUnsynced_FiltersBySyncState(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))

	pending := sampleCase(1)
	confirmed := sampleCase(2)
	confirmed.Synced = true

	for _, c := range []treatments.Case{pending, confirmed} {
		if err := repo.Put(context.Background(), c); err != nil {
			t.Fatalf("Put %d: %v", c.ID, err)
		}
	}

	got, err := repo.GetUnsynced(context.Background())
	if err != nil {
		t.Fatalf("GetUnsynced: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Fatalf("expected only pending case, got %+v", got)
	}
}

func TestDecodeEntries_LegacySingleObject(t *testing.T) {
	repo := NewTreatmentsRepo(openTestDB(t))

	// fila escrita por una versión anterior: un tratamiento como objeto
	// top-level en vez de array
	_, err := repo.db.ExecContext(context.Background(), `
		INSERT INTO treatments (id, animal_class, unit_number, status, entries, history, sync_state, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		42, "older_sow", "B7", "FOLLOW_UP_NEEDED",
		`{"date":"2023-11-02T00:00:00Z","diagnosis":"Husten","medication":"Draxxin","dosage":"3ml","administration_method":""}`,
		`[]`,
		0,
		"2023-11-02T00:00:00Z",
	)
	if err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	got, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Entries) != 0 {
		t.Fatalf("legacy shape must not be silently lifted by the store, got %d entries", len(got.Entries))
	}
	if got.LegacyEntry == nil || got.LegacyEntry.Diagnosis != "Husten" {
		t.Fatalf("legacy entry not surfaced: %+v", got.LegacyEntry)
	}
}

func TestMetaRepo_DeviceIDAndLastSync(t *testing.T) {
	meta := NewMetaRepo(openTestDB(t))

	id, err := meta.DeviceID(context.Background())
	if err != nil {
		t.Fatalf("DeviceID: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty device id before first save, got %q", id)
	}

	if err := meta.SaveDeviceID(context.Background(), "device_abc"); err != nil {
		t.Fatalf("SaveDeviceID: %v", err)
	}
	id, err = meta.DeviceID(context.Background())
	if err != nil {
		t.Fatalf("DeviceID: %v", err)
	}
	if id != "device_abc" {
		t.Fatalf("expected device_abc, got %q", id)
	}

	ls, err := meta.LastSync(context.Background())
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if !ls.IsZero() {
		t.Fatalf("expected zero last sync before first save, got %v", ls)
	}

	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if err := meta.SaveLastSync(context.Background(), want); err != nil {
		t.Fatalf("SaveLastSync: %v", err)
	}
	ls, err = meta.LastSync(context.Background())
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if !ls.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ls)
	}
}
