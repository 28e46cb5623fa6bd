package treatments

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("case not found")

	// Fallos de la capa de persistencia. Los adapters los envuelven con %w
	// para que el service y los handlers puedan decidir con errors.Is.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWriteFailed        = errors.New("write failed")
)

// Store es el contrato de persistencia del agregado Case.
// Put/Delete deben estar confirmados en disco antes de devolver nil
// (no alcanza con bufferear en memoria).
type Store interface {
	Put(ctx context.Context, c Case) error
	Get(ctx context.Context, id int64) (Case, error)

	// Delete es idempotente: borrar un id inexistente no es error.
	Delete(ctx context.Context, id int64) error

	// GetAll no garantiza orden; ordenar es responsabilidad del caller.
	GetAll(ctx context.Context) ([]Case, error)

	// GetUnsynced devuelve los casos con Synced=false, respaldado por
	// índice (o filtro equivalente rápido).
	GetUnsynced(ctx context.Context) ([]Case, error)
}
