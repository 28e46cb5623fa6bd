package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"herd-treatment-log/internal/domain/treatments"
	"herd-treatment-log/internal/platform/logger"
	"herd-treatment-log/internal/platform/metrics"
	"herd-treatment-log/internal/ports/syncremote"

	"github.com/google/uuid"
)

var (
	ErrNoConnectivity = errors.New("no connectivity")
	ErrTransport      = errors.New("transport error")

	// Un solo ciclo a la vez: el modelo es un escritor lógico por proceso.
	ErrCycleInFlight = errors.New("sync cycle already running")
)

// MetaStore persiste el estado propio del coordinador: identidad del
// dispositivo y timestamp del último sync exitoso. Sobrevive reinicios.
type MetaStore interface {
	DeviceID(ctx context.Context) (string, error)
	SaveDeviceID(ctx context.Context, id string) error

	// LastSync devuelve cero si nunca hubo un sync exitoso.
	LastSync(ctx context.Context) (time.Time, error)
	SaveLastSync(ctx context.Context, t time.Time) error
}

// Coordinator reconcilia los casos locales sin sincronizar contra el remoto.
// No es dueño de ningún dato clínico: lo único que puede tocar de un caso
// es subir Synced vía el manager (MarkSynced).
//
// Máquina de estados por ciclo:
//
//	Idle -> Collecting -> Sending -> Confirming -> Idle   (éxito)
//	cualquier paso con error -> Failed -> Idle            (retry completo seguro)
type Coordinator struct {
	store treatments.Store
	svc   *treatments.Service
	meta  MetaStore
	tr    syncremote.Transport

	log logger.Logger
	now func() time.Time

	busy atomic.Bool
}

func NewCoordinator(store treatments.Store, svc *treatments.Service, meta MetaStore, tr syncremote.Transport, log logger.Logger) *Coordinator {
	return &Coordinator{
		store: store,
		svc:   svc,
		meta:  meta,
		tr:    tr,
		log:   log,
		now:   time.Now,
	}
}

// Result es el resumen de un ciclo exitoso.
type Result struct {
	SyncedCount int
	At          time.Time
}

// Status es el estado expuesto a la UI.
type Status struct {
	DeviceID     string
	LastSync     time.Time
	PendingCount int
}

// Run ejecuta un ciclo completo de sincronización.
// Falla rápido con ErrNoConnectivity si el entorno está offline (en ese
// caso ni siquiera se recolecta). Un ciclo fallido no deja estado parcial
// más allá de casos individualmente ya confirmados (at-least-once).
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	return c.run(ctx, "")
}

// RunAs corre un ciclo atribuyendo el batch a un device id explícito
// (header X-Device-ID) en lugar del persistido.
func (c *Coordinator) RunAs(ctx context.Context, deviceID string) (Result, error) {
	return c.run(ctx, deviceID)
}

func (c *Coordinator) run(ctx context.Context, deviceOverride string) (Result, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Result{}, ErrCycleInFlight
	}
	defer c.busy.Store(false)

	if p, ok := c.tr.(syncremote.ConnectivityProber); ok && !p.Online(ctx) {
		metrics.SyncCycles.WithLabelValues("offline").Inc()
		return Result{}, ErrNoConnectivity
	}

	// Collecting
	unsynced, err := c.store.GetUnsynced(ctx)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	deviceID := deviceOverride
	if deviceID == "" {
		deviceID, err = c.ensureDeviceID(ctx)
		if err != nil {
			metrics.SyncCycles.WithLabelValues("failed").Inc()
			return Result{}, err
		}
	}

	lastSync, err := c.meta.LastSync(ctx)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	now := c.now()

	// Sending: todo el batch en un solo request.
	batch := syncremote.Batch{
		DeviceID:  deviceID,
		LastSync:  lastSync,
		Cases:     unsynced,
		Timestamp: now,
	}
	if err := c.tr.Push(ctx, batch); err != nil {
		c.log.Warn("sync push failed", map[string]any{"error": err.Error(), "cases": len(unsynced)})
		metrics.SyncCycles.WithLabelValues("failed").Inc()
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	// Confirming: marcar caso por caso. Si una confirmación falla, el ciclo
	// aborta sin avanzar lastSync; los ya marcados quedan (el remoto ya los
	// tiene y el contrato es at-least-once).
	for _, tc := range unsynced {
		if err := c.svc.MarkSynced(ctx, tc.ID); err != nil {
			c.log.Error("sync confirm failed", map[string]any{"case_id": tc.ID, "error": err.Error()})
			metrics.SyncCycles.WithLabelValues("failed").Inc()
			return Result{}, err
		}
	}

	if err := c.meta.SaveLastSync(ctx, now); err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	c.log.Info("sync cycle completed", map[string]any{"synced": len(unsynced), "device": deviceID})
	metrics.SyncCycles.WithLabelValues("ok").Inc()
	metrics.CasesSynced.Add(float64(len(unsynced)))

	return Result{SyncedCount: len(unsynced), At: now}, nil
}

// Status devuelve el estado actual sin disparar un ciclo.
func (c *Coordinator) Status(ctx context.Context) (Status, error) {
	deviceID, err := c.ensureDeviceID(ctx)
	if err != nil {
		return Status{}, err
	}
	lastSync, err := c.meta.LastSync(ctx)
	if err != nil {
		return Status{}, err
	}
	unsynced, err := c.store.GetUnsynced(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		DeviceID:     deviceID,
		LastSync:     lastSync,
		PendingCount: len(unsynced),
	}, nil
}

// ensureDeviceID carga el device id persistido o genera uno nuevo la
// primera vez (identidad estable del dispositivo entre sesiones).
func (c *Coordinator) ensureDeviceID(ctx context.Context) (string, error) {
	id, err := c.meta.DeviceID(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id = "device_" + uuid.NewString()
	if err := c.meta.SaveDeviceID(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}
