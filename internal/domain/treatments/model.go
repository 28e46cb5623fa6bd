package treatments

import "time"

// Entry es un acto clínico individual dentro de un caso.
// Inmutable una vez agregado, salvo el último (semántica edit-latest).
type Entry struct {
	Date time.Time `json:"date"`

	Diagnosis            string `json:"diagnosis"`
	Medication           string `json:"medication"`
	Dosage               string `json:"dosage"` // texto libre, admite compuestos ("15ml + 5ml")
	AdministrationMethod string `json:"administration_method"`

	Person            string `json:"person,omitempty"`
	DurationDays      int    `json:"duration_days,omitempty"`
	WaitingPeriodDays int    `json:"waiting_period_days,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// HistoryEvent es un registro de auditoría. Solo append, nunca se edita.
type HistoryEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`

	FromStatus Status `json:"from_status,omitempty"`
	ToStatus   Status `json:"to_status,omitempty"`

	// Contexto opcional (eventos de follow-up).
	Medication string `json:"medication,omitempty"`
	Diagnosis  string `json:"diagnosis,omitempty"`
}

// Case es el agregado persistido: un animal/corral con uno o más tratamientos.
type Case struct {
	// ID se asigna una sola vez al crear: entero derivado de timestamp,
	// único y ordenable por orden de creación.
	ID int64 `json:"id"`

	AnimalClass AnimalClass `json:"animal_class"`
	UnitNumber  string      `json:"unit_number"`
	Status      Status      `json:"status"`

	Entries []Entry        `json:"entries"`
	History []HistoryEvent `json:"history"`

	// Synced marca si el contenido actual fue confirmado por el remoto.
	// Cualquier mutación local lo vuelve a false.
	Synced       bool      `json:"synced"`
	LastModified time.Time `json:"last_modified"`

	// LegacyEntry existe solo para datos históricos anteriores al modelo
	// multi-entrada (un único tratamiento top-level en vez de Entries).
	// upgrade() lo promueve a Entries y lo limpia; nunca debería salir
	// hacia la UI ni hacia el remoto.
	LegacyEntry *Entry `json:"legacy_entry,omitempty"`
}

// LatestEntry devuelve el último tratamiento del caso.
// Asume un caso ya normalizado (Entries no vacío).
func (c Case) LatestEntry() Entry {
	if len(c.Entries) == 0 {
		return Entry{}
	}
	return c.Entries[len(c.Entries)-1]
}

// upgrade normaliza un caso con forma legacy: si no hay Entries pero sí un
// tratamiento top-level, lo promueve a Entries=[ese tratamiento].
// Migración explícita en lectura, nunca implícita (los datos viejos pueden
// ser anteriores al modelo multi-entrada).
func upgrade(c Case) Case {
	if len(c.Entries) == 0 && c.LegacyEntry != nil {
		c.Entries = []Entry{*c.LegacyEntry}
	}
	c.LegacyEntry = nil
	return c
}
