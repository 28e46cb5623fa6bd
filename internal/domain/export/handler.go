package export

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"herd-treatment-log/internal/domain/treatments"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, exp *Exporter) {
	r.Get("/export/csv", exportCSVHandler(exp))
	r.Get("/export/json", exportJSONHandler(exp))
}

// exportCSVHandler godoc
// @Summary Exportar casos como CSV
// @Description Una fila por tratamiento; casos con varios tratamientos producen varias filas. UTF-8 con BOM para Excel.
// @Tags export
// @Produce text/csv
// @Success 200 {string} string "archivo CSV"
// @Failure 503 {string} string "storage unavailable"
// @Router /export/csv [get]
func exportCSVHandler(exp *Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := exp.CSV(r.Context())
		if err != nil {
			writeExportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", exportFilename("csv"))
		_, _ = w.Write(data)
	}
}

// exportJSONHandler godoc
// @Summary Exportar casos como JSON
// @Description Array de casos completos, con entries siempre materializado (forma legacy normalizada antes de exportar).
// @Tags export
// @Produce json
// @Success 200 {string} string "archivo JSON"
// @Failure 503 {string} string "storage unavailable"
// @Router /export/json [get]
func exportJSONHandler(exp *Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := exp.JSON(r.Context())
		if err != nil {
			writeExportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", exportFilename("json"))
		_, _ = w.Write(data)
	}
}

// Mismo patrón de nombre que el logbook original: behandlungen_YYYY-MM-DD.
func exportFilename(ext string) string {
	return fmt.Sprintf("attachment; filename=behandlungen_%s.%s", time.Now().Format("2006-01-02"), ext)
}

func writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, treatments.ErrStorageUnavailable) {
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
