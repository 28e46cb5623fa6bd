package stub

import (
	"context"

	"herd-treatment-log/internal/platform/logger"
	"herd-treatment-log/internal/ports/syncremote"
)

// Transport es el transport actual: acepta siempre. Mantiene vivo el
// contrato del ciclo (batch único, confirmación éxito/fracaso) hasta que
// exista un backend real; ahí se cambia por httpapi sin tocar el
// coordinador.
type Transport struct {
	log logger.Logger
}

var _ syncremote.Transport = (*Transport)(nil)

func New(log logger.Logger) *Transport {
	return &Transport{log: log}
}

func (t *Transport) Push(ctx context.Context, b syncremote.Batch) error {
	if t.log != nil {
		t.log.Info("stub sync push", map[string]any{
			"device": b.DeviceID,
			"cases":  len(b.Cases),
		})
	}
	return nil
}
