package sync_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"herd-treatment-log/internal/adapters/storage/memory"
	syncdomain "herd-treatment-log/internal/domain/sync"
	"herd-treatment-log/internal/domain/treatments"
	"herd-treatment-log/internal/platform/logger"
	"herd-treatment-log/internal/ports/syncremote"
)

// fakeTransport captura el batch enviado y permite simular fallas y offline.
type fakeTransport struct {
	pushErr error
	offline bool

	pushed []syncremote.Batch
	probes int
}

func (f *fakeTransport) Push(ctx context.Context, b syncremote.Batch) error {
	f.pushed = append(f.pushed, b)
	return f.pushErr
}

func (f *fakeTransport) Online(ctx context.Context) bool {
	f.probes++
	return !f.offline
}

func newFixture(t *testing.T, tr syncremote.Transport) (*syncdomain.Coordinator, *treatments.Service, treatments.Store, *memory.MetaRepo) {
	t.Helper()

	store := memory.NewTreatmentsRepo()
	svc := treatments.NewService(store)
	meta := memory.NewMetaRepo()
	log := logger.New(logger.Options{Level: logger.Error})

	return syncdomain.NewCoordinator(store, svc, meta, tr, log), svc, store, meta
}

func seedCases(t *testing.T, svc *treatments.Service, n int) []treatments.Case {
	t.Helper()

	out := make([]treatments.Case, 0, n)
	for i := 0; i < n; i++ {
		c, err := svc.CreateCase(context.Background(), treatments.CreateInput{
			UnitNumber: "A12",
			Entry: treatments.EntryInput{
				Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				Diagnosis:  "Lahmheit",
				Medication: "Procapen",
				Dosage:     "12ml",
			},
		})
		if err != nil {
			t.Fatalf("seed case %d: %v", i, err)
		}
		out = append(out, c)
	}
	return out
}

func TestRun_SuccessConfirmsAllAndAdvancesLastSync(t *testing.T) {
	tr := &fakeTransport{}
	coord, svc, _, meta := newFixture(t, tr)
	seeded := seedCases(t, svc, 2)

	res, err := coord.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.SyncedCount != 2 {
		t.Fatalf("expected 2 synced, got %d", res.SyncedCount)
	}

	if len(tr.pushed) != 1 {
		t.Fatalf("expected a single batch push, got %d", len(tr.pushed))
	}
	batch := tr.pushed[0]
	if len(batch.Cases) != 2 {
		t.Fatalf("expected 2 cases in batch, got %d", len(batch.Cases))
	}
	if !strings.HasPrefix(batch.DeviceID, "device_") {
		t.Fatalf("expected generated device id, got %q", batch.DeviceID)
	}
	if !batch.LastSync.IsZero() {
		t.Fatalf("first cycle must carry zero last sync, got %v", batch.LastSync)
	}

	for _, seed := range seeded {
		got, err := svc.GetCase(context.Background(), seed.ID)
		if err != nil {
			t.Fatalf("GetCase %d: %v", seed.ID, err)
		}
		if !got.Synced {
			t.Fatalf("case %d not confirmed", seed.ID)
		}
		// la confirmación no toca contenido clínico
		if len(got.Entries) != len(seed.Entries) || len(got.History) != len(seed.History) {
			t.Fatalf("confirm mutated clinical content of case %d", seed.ID)
		}
	}

	ls, err := meta.LastSync(context.Background())
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if ls.IsZero() {
		t.Fatal("expected last sync advanced after success")
	}
}

func TestRun_EmptyBatchStillPushes(t *testing.T) {
	tr := &fakeTransport{}
	coord, _, _, _ := newFixture(t, tr)

	res, err := coord.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.SyncedCount != 0 {
		t.Fatalf("expected 0 synced, got %d", res.SyncedCount)
	}
	if len(tr.pushed) != 1 {
		t.Fatalf("heartbeat push expected even without pending cases, got %d", len(tr.pushed))
	}
}

func TestRun_TransportFailureLeavesEverythingPending(t *testing.T) {
	tr := &fakeTransport{pushErr: errors.New("boom")}
	coord, svc, _, meta := newFixture(t, tr)
	seeded := seedCases(t, svc, 2)

	_, err := coord.Run(context.Background())
	if !errors.Is(err, syncdomain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	for _, seed := range seeded {
		got, gerr := svc.GetCase(context.Background(), seed.ID)
		if gerr != nil {
			t.Fatalf("GetCase: %v", gerr)
		}
		if got.Synced {
			t.Fatalf("case %d must stay pending after failed push", seed.ID)
		}
	}

	ls, _ := meta.LastSync(context.Background())
	if !ls.IsZero() {
		t.Fatal("failed cycle must not advance last sync")
	}

	// reintento completo tras recuperarse el remoto
	tr.pushErr = nil
	res, err := coord.Run(context.Background())
	if err != nil {
		t.Fatalf("retry Run: %v", err)
	}
	if res.SyncedCount != 2 {
		t.Fatalf("retry must resend the full batch, got %d", res.SyncedCount)
	}
}

func TestRun_OfflineFailsFastWithoutCollecting(t *testing.T) {
	tr := &fakeTransport{offline: true}
	coord, svc, _, _ := newFixture(t, tr)
	seedCases(t, svc, 1)

	_, err := coord.Run(context.Background())
	if !errors.Is(err, syncdomain.ErrNoConnectivity) {
		t.Fatalf("expected ErrNoConnectivity, got %v", err)
	}
	if tr.probes != 1 {
		t.Fatalf("expected one connectivity probe, got %d", tr.probes)
	}
	if len(tr.pushed) != 0 {
		t.Fatal("offline cycle must not push anything")
	}
}

func TestRun_DeviceIDStableAcrossCycles(t *testing.T) {
	tr := &fakeTransport{}
	coord, _, _, _ := newFixture(t, tr)

	if _, err := coord.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := coord.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(tr.pushed) != 2 {
		t.Fatalf("expected 2 pushes, got %d", len(tr.pushed))
	}
	if tr.pushed[0].DeviceID != tr.pushed[1].DeviceID {
		t.Fatalf("device id must persist: %q vs %q", tr.pushed[0].DeviceID, tr.pushed[1].DeviceID)
	}
}

func TestRunAs_OverridesDeviceID(t *testing.T) {
	tr := &fakeTransport{}
	coord, _, _, _ := newFixture(t, tr)

	if _, err := coord.RunAs(context.Background(), "device_tablet-7"); err != nil {
		t.Fatalf("RunAs: %v", err)
	}
	if got := tr.pushed[0].DeviceID; got != "device_tablet-7" {
		t.Fatalf("expected override device id, got %q", got)
	}
}

func TestStatus_ReportsPendingAndIdentity(t *testing.T) {
	tr := &fakeTransport{}
	coord, svc, _, _ := newFixture(t, tr)
	seedCases(t, svc, 3)

	st, err := coord.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.PendingCount != 3 {
		t.Fatalf("expected 3 pending, got %d", st.PendingCount)
	}
	if !strings.HasPrefix(st.DeviceID, "device_") {
		t.Fatalf("expected device id assigned on first status, got %q", st.DeviceID)
	}
	if !st.LastSync.IsZero() {
		t.Fatal("last sync must be zero before the first cycle")
	}

	if _, err := coord.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st2, err := coord.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st2.PendingCount != 0 {
		t.Fatalf("expected 0 pending after sync, got %d", st2.PendingCount)
	}
	if st2.DeviceID != st.DeviceID {
		t.Fatal("device id must not change between calls")
	}
	if st2.LastSync.IsZero() {
		t.Fatal("last sync must advance after a successful cycle")
	}
}
