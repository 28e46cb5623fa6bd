package syncremote

import (
	"context"
	"time"

	"herd-treatment-log/internal/domain/treatments"
)

// Batch es el payload saliente de un ciclo de sincronización: todos los
// casos sin sincronizar en un solo request. Las claves JSON son contrato
// con el remoto, no renombrar.
type Batch struct {
	DeviceID  string            `json:"deviceId"`
	LastSync  time.Time         `json:"lastSyncTimestamp"`
	Cases     []treatments.Case `json:"cases"`
	Timestamp time.Time         `json:"timestamp"`
}

// Transport entrega un batch al sistema remoto. La respuesta esperada es
// solo éxito/fracaso: el contrato actual no baja cambios del remoto.
// El remoto es responsable de la idempotencia (el coordinador reenvía
// at-least-once).
type Transport interface {
	Push(ctx context.Context, b Batch) error
}

// ConnectivityProber reporta si el entorno está online. Un transport puede
// implementarlo; si no, el coordinador asume conectividad.
type ConnectivityProber interface {
	Online(ctx context.Context) bool
}
