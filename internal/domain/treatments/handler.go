package treatments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cases", func(cr chi.Router) {
		cr.Post("/", createCaseHandler(svc))
		cr.Get("/", listCasesHandler(svc))

		cr.Get("/{caseID}", getCaseHandler(svc))
		cr.Delete("/{caseID}", deleteCaseHandler(svc))

		// Editar el último tratamiento (merge parcial)
		cr.Patch("/{caseID}/entries/latest", amendLatestHandler(svc))

		// Nachbehandlung: agrega tratamiento y reabre el caso
		cr.Post("/{caseID}/followups", appendFollowUpHandler(svc))

		cr.Post("/{caseID}/status", changeStatusHandler(svc))
	})

	r.Get("/stats", statsHandler(svc))
}

// entryRequest es un tratamiento completo en el cuerpo de create/follow-up.
type entryRequest struct {
	Date                 string `json:"date"` // YYYY-MM-DD
	Diagnosis            string `json:"diagnosis"`
	Medication           string `json:"medication"`
	Dosage               string `json:"dosage"`
	AdministrationMethod string `json:"administration_method"`
	Person               string `json:"person"`
	DurationDays         int    `json:"duration_days"`
	WaitingPeriodDays    int    `json:"waiting_period_days"`
	Notes                string `json:"notes"`
}

type createCaseRequest struct {
	AnimalClass string       `json:"animal_class"`
	UnitNumber  string       `json:"unit_number"`
	Status      Status       `json:"status" enums:"IN_TREATMENT,FOLLOW_UP_NEEDED,COMPLETED,RECOVERED"`
	Entry       entryRequest `json:"entry"`
}

// amendEntryRequest es un PATCH real: punteros para distinguir
// "no enviado" de "enviado vacío".
type amendEntryRequest struct {
	Date                 *string `json:"date"` // YYYY-MM-DD
	Diagnosis            *string `json:"diagnosis"`
	Medication           *string `json:"medication"`
	Dosage               *string `json:"dosage"`
	AdministrationMethod *string `json:"administration_method"`
	Person               *string `json:"person"`
	DurationDays         *int    `json:"duration_days"`
	WaitingPeriodDays    *int    `json:"waiting_period_days"`
	Notes                *string `json:"notes"`
}

type changeStatusRequest struct {
	Status Status `json:"status" enums:"IN_TREATMENT,FOLLOW_UP_NEEDED,COMPLETED,RECOVERED"`
}

type entryResponse struct {
	Date                 string `json:"date"`
	Diagnosis            string `json:"diagnosis"`
	Medication           string `json:"medication"`
	Dosage               string `json:"dosage"`
	AdministrationMethod string `json:"administration_method"`
	Person               string `json:"person,omitempty"`
	DurationDays         int    `json:"duration_days,omitempty"`
	WaitingPeriodDays    int    `json:"waiting_period_days,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

type historyEventResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	FromStatus Status    `json:"from_status,omitempty"`
	ToStatus   Status    `json:"to_status,omitempty"`
	Medication string    `json:"medication,omitempty"`
	Diagnosis  string    `json:"diagnosis,omitempty"`
}

type withdrawalResponse struct {
	Active        bool   `json:"active"`
	RemainingDays int    `json:"remaining_days"`
	EndDate       string `json:"end_date,omitempty"`
}

// caseResponse representa un caso de tratamiento devuelto por la API,
// con el estado de retiro derivado (no persistido).
type caseResponse struct {
	ID           int64                  `json:"id"`
	AnimalClass  AnimalClass            `json:"animal_class"`
	UnitNumber   string                 `json:"unit_number"`
	Status       Status                 `json:"status"`
	Entries      []entryResponse        `json:"entries"`
	History      []historyEventResponse `json:"history"`
	Synced       bool                   `json:"synced"`
	LastModified time.Time              `json:"last_modified"`
	Withdrawal   withdrawalResponse     `json:"withdrawal"`
}

// statsResponse son los contadores del encabezado de la UI.
type statsResponse struct {
	Total            int `json:"total"`
	InTreatment      int `json:"in_treatment"`
	FollowUpNeeded   int `json:"follow_up_needed"`
	WithdrawalActive int `json:"withdrawal_active"`
	Unsynced         int `json:"unsynced"`
}

// createCaseHandler godoc
// @Summary Crear caso de tratamiento
// @Description Crea un caso nuevo con su primer tratamiento. unit_number es obligatorio. Si no se manda status, arranca IN_TREATMENT.
// @Tags cases
// @Accept json
// @Produce json
// @Param payload body createCaseRequest true "Datos del caso; entry.date en formato YYYY-MM-DD"
// @Success 201 {object} caseResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 503 {string} string "storage unavailable"
// @Router /cases [post]
func createCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		entry, err := toEntryInput(req.Entry)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, err := svc.CreateCase(r.Context(), CreateInput{
			AnimalClass: AnimalClass(strings.TrimSpace(req.AnimalClass)),
			UnitNumber:  req.UnitNumber,
			Status:      req.Status,
			Entry:       entry,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toCaseResponse(c, time.Now()))
	}
}

// listCasesHandler godoc
// @Summary Listar casos
// @Description Lista los casos ordenados por última modificación descendente. Filtros opcionales: q (texto libre sobre corral/diagnóstico/medicamento), status, unsynced=true.
// @Tags cases
// @Produce json
// @Param q query string false "Búsqueda libre"
// @Param status query string false "Filtrar por status"
// @Param unsynced query bool false "Solo casos sin sincronizar"
// @Success 200 {array} caseResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /cases [get]
func listCasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListCases(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		statusFilter := Status(strings.TrimSpace(r.URL.Query().Get("status")))
		unsyncedOnly := r.URL.Query().Get("unsynced") == "true"

		now := time.Now()
		out := make([]caseResponse, 0, len(items))
		for _, c := range items {
			if statusFilter != "" && c.Status != statusFilter {
				continue
			}
			if unsyncedOnly && c.Synced {
				continue
			}
			if q != "" && !matchesQuery(c, q) {
				continue
			}
			out = append(out, toCaseResponse(c, now))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getCaseHandler godoc
// @Summary Obtener un caso
// @Tags cases
// @Produce json
// @Param caseID path int true "ID del caso"
// @Success 200 {object} caseResponse
// @Failure 404 {string} string "case not found"
// @Router /cases/{caseID} [get]
func getCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCaseID(r)
		if err != nil {
			http.Error(w, "invalid case id", http.StatusBadRequest)
			return
		}

		c, err := svc.GetCase(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaseResponse(c, time.Now()))
	}
}

// amendLatestHandler godoc
// @Summary Editar el último tratamiento
// @Description Merge parcial sobre el último tratamiento del caso: los campos no enviados conservan su valor. Nunca cambia la cantidad de tratamientos.
// @Tags cases
// @Accept json
// @Produce json
// @Param caseID path int true "ID del caso"
// @Param payload body amendEntryRequest true "Campos a modificar"
// @Success 200 {object} caseResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 404 {string} string "case not found"
// @Router /cases/{caseID}/entries/latest [patch]
func amendLatestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCaseID(r)
		if err != nil {
			http.Error(w, "invalid case id", http.StatusBadRequest)
			return
		}

		var req amendEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := AmendInput{
			Diagnosis:            req.Diagnosis,
			Medication:           req.Medication,
			Dosage:               req.Dosage,
			AdministrationMethod: req.AdministrationMethod,
			Person:               req.Person,
			DurationDays:         req.DurationDays,
			WaitingPeriodDays:    req.WaitingPeriodDays,
			Notes:                req.Notes,
		}
		if req.Date != nil {
			t, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.Date = &t
		}

		c, err := svc.AmendLatestEntry(r.Context(), id, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaseResponse(c, time.Now()))
	}
}

// appendFollowUpHandler godoc
// @Summary Agregar follow-up (Nachbehandlung)
// @Description Agrega un tratamiento nuevo al caso. Un follow-up siempre reabre el caso: status pasa a IN_TREATMENT.
// @Tags cases
// @Accept json
// @Produce json
// @Param caseID path int true "ID del caso"
// @Param payload body entryRequest true "Tratamiento; date en formato YYYY-MM-DD"
// @Success 200 {object} caseResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 404 {string} string "case not found"
// @Router /cases/{caseID}/followups [post]
func appendFollowUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCaseID(r)
		if err != nil {
			http.Error(w, "invalid case id", http.StatusBadRequest)
			return
		}

		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		entry, err := toEntryInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, err := svc.AppendFollowUp(r.Context(), id, entry)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaseResponse(c, time.Now()))
	}
}

// changeStatusHandler godoc
// @Summary Cambiar status del caso
// @Description Cambia el status y registra el evento en el historial. Setear el mismo status vale: igual queda un evento (escrituras idempotentes permitidas).
// @Tags cases
// @Accept json
// @Produce json
// @Param caseID path int true "ID del caso"
// @Param payload body changeStatusRequest true "Status nuevo"
// @Success 200 {object} caseResponse
// @Failure 400 {string} string "invalid json / status desconocido"
// @Failure 404 {string} string "case not found"
// @Router /cases/{caseID}/status [post]
func changeStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCaseID(r)
		if err != nil {
			http.Error(w, "invalid case id", http.StatusBadRequest)
			return
		}

		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.ChangeStatus(r.Context(), id, req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaseResponse(c, time.Now()))
	}
}

// deleteCaseHandler godoc
// @Summary Borrar un caso
// @Description Hard delete, idempotente: borrar un id inexistente también devuelve 204.
// @Tags cases
// @Param caseID path int true "ID del caso"
// @Success 204 {string} string "sin contenido"
// @Failure 503 {string} string "storage unavailable"
// @Router /cases/{caseID} [delete]
func deleteCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCaseID(r)
		if err != nil {
			http.Error(w, "invalid case id", http.StatusBadRequest)
			return
		}

		if err := svc.DeleteCase(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler godoc
// @Summary Contadores para el encabezado de la UI
// @Tags cases
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListCases(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		now := time.Now()
		var out statsResponse
		out.Total = len(items)
		for _, c := range items {
			switch c.Status {
			case StatusInTreatment:
				out.InTreatment++
			case StatusFollowUpNeeded:
				out.FollowUpNeeded++
			}
			if WithdrawalFor(c, now).Active {
				out.WithdrawalActive++
			}
			if !c.Synced {
				out.Unsynced++
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func parseCaseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "caseID")), 10, 64)
}

func toEntryInput(req entryRequest) (EntryInput, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return EntryInput{}, errors.New("date must be YYYY-MM-DD")
	}
	return EntryInput{
		Date:                 t,
		Diagnosis:            req.Diagnosis,
		Medication:           req.Medication,
		Dosage:               req.Dosage,
		AdministrationMethod: req.AdministrationMethod,
		Person:               req.Person,
		DurationDays:         req.DurationDays,
		WaitingPeriodDays:    req.WaitingPeriodDays,
		Notes:                req.Notes,
	}, nil
}

// matchesQuery es el filtro de búsqueda libre de la UI: corral, diagnóstico
// o medicamento de cualquier tratamiento del caso.
func matchesQuery(c Case, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(c.UnitNumber), q) {
		return true
	}
	for _, e := range c.Entries {
		hay := strings.ToLower(e.Diagnosis + " " + e.Medication)
		if strings.Contains(hay, q) {
			return true
		}
	}
	return false
}

func toCaseResponse(c Case, now time.Time) caseResponse {
	wd := WithdrawalFor(c, now)

	resp := caseResponse{
		ID:           c.ID,
		AnimalClass:  c.AnimalClass,
		UnitNumber:   c.UnitNumber,
		Status:       c.Status,
		Entries:      make([]entryResponse, 0, len(c.Entries)),
		History:      make([]historyEventResponse, 0, len(c.History)),
		Synced:       c.Synced,
		LastModified: c.LastModified,
		Withdrawal: withdrawalResponse{
			Active:        wd.Active,
			RemainingDays: wd.RemainingDays,
		},
	}
	if !wd.EndDate.IsZero() {
		resp.Withdrawal.EndDate = wd.EndDate.Format("2006-01-02")
	}

	for _, e := range c.Entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Date:                 e.Date.Format("2006-01-02"),
			Diagnosis:            e.Diagnosis,
			Medication:           e.Medication,
			Dosage:               e.Dosage,
			AdministrationMethod: e.AdministrationMethod,
			Person:               e.Person,
			DurationDays:         e.DurationDays,
			WaitingPeriodDays:    e.WaitingPeriodDays,
			Notes:                e.Notes,
		})
	}
	for _, h := range c.History {
		resp.History = append(resp.History, historyEventResponse{
			Timestamp:  h.Timestamp,
			Action:     h.Action,
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			Medication: h.Medication,
			Diagnosis:  h.Diagnosis,
		})
	}
	return resp
}

// writeDomainError mapea errores del dominio a códigos HTTP.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "case not found", http.StatusNotFound)
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrWriteFailed):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// si aparece en más lugares recién ahí conviene extraer un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
