package sync

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"herd-treatment-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, coord *Coordinator) {
	r.Post("/sync", runSyncHandler(coord))
	r.Get("/sync/status", syncStatusHandler(coord))
}

type syncResultResponse struct {
	SyncedCount int       `json:"synced_count"`
	At          time.Time `json:"at"`
}

type syncStatusResponse struct {
	DeviceID     string     `json:"device_id"`
	LastSync     *time.Time `json:"last_sync,omitempty"`
	PendingCount int        `json:"pending_count"`
}

// runSyncHandler godoc
// @Summary Disparar un ciclo de sincronización
// @Description Recolecta los casos sin sincronizar, los manda al remoto en un batch y los marca como sincronizados al confirmar. Con X-Device-ID el batch se atribuye a ese dispositivo.
// @Tags sync
// @Produce json
// @Param X-Device-ID header string false "Device id explícito para el batch"
// @Success 200 {object} syncResultResponse
// @Failure 409 {string} string "sync already running"
// @Failure 502 {string} string "transport error"
// @Failure 503 {string} string "offline / storage unavailable"
// @Router /sync [post]
func runSyncHandler(coord *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			res Result
			err error
		)
		if id, ok := middleware.GetDeviceID(r.Context()); ok {
			res, err = coord.RunAs(r.Context(), id)
		} else {
			res, err = coord.Run(r.Context())
		}
		if err != nil {
			writeSyncError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, syncResultResponse{
			SyncedCount: res.SyncedCount,
			At:          res.At,
		})
	}
}

// syncStatusHandler godoc
// @Summary Estado de sincronización
// @Description Device id, último sync exitoso y cantidad de casos pendientes. No dispara ningún ciclo.
// @Tags sync
// @Produce json
// @Success 200 {object} syncStatusResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /sync/status [get]
func syncStatusHandler(coord *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := coord.Status(r.Context())
		if err != nil {
			writeSyncError(w, err)
			return
		}

		resp := syncStatusResponse{
			DeviceID:     st.DeviceID,
			PendingCount: st.PendingCount,
		}
		if !st.LastSync.IsZero() {
			resp.LastSync = &st.LastSync
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// Todos los errores del coordinador son recuperables con retry: nunca
// tiran abajo el proceso, solo se informan a la UI.
func writeSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoConnectivity):
		http.Error(w, "offline", http.StatusServiceUnavailable)
	case errors.Is(err, ErrCycleInFlight):
		http.Error(w, "sync already running", http.StatusConflict)
	case errors.Is(err, ErrTransport):
		http.Error(w, "transport error", http.StatusBadGateway)
	default:
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
