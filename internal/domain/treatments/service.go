package treatments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Service es el único componente que construye o muta Entries/History.
// Toda mutación clínica deja su evento de auditoría, refresca LastModified
// y baja Synced a false (un cambio local invalida la confirmación previa).
type Service struct {
	store Store
	now   func() time.Time

	// Asignación de IDs: milisegundos de pared, con guardia monotónica
	// para no repetir si dos creaciones caen en el mismo milisegundo.
	idMu   sync.Mutex
	lastID int64
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) nextID(now time.Time) int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// EntryInput es un tratamiento completo para crear o agregar follow-up.
type EntryInput struct {
	Date                 time.Time
	Diagnosis            string
	Medication           string
	Dosage               string
	AdministrationMethod string
	Person               string
	DurationDays         int
	WaitingPeriodDays    int
	Notes                string
}

func (in EntryInput) toEntry() Entry {
	return Entry{
		Date:                 in.Date,
		Diagnosis:            strings.TrimSpace(in.Diagnosis),
		Medication:           strings.TrimSpace(in.Medication),
		Dosage:               strings.TrimSpace(in.Dosage),
		AdministrationMethod: strings.TrimSpace(in.AdministrationMethod),
		Person:               strings.TrimSpace(in.Person),
		DurationDays:         in.DurationDays,
		WaitingPeriodDays:    in.WaitingPeriodDays,
		Notes:                strings.TrimSpace(in.Notes),
	}
}

type CreateInput struct {
	AnimalClass AnimalClass
	UnitNumber  string
	Status      Status // opcional; default IN_TREATMENT
	Entry       EntryInput
}

func (s *Service) CreateCase(ctx context.Context, in CreateInput) (Case, error) {
	if strings.TrimSpace(in.UnitNumber) == "" {
		return Case{}, ErrInvalidInput
	}
	if in.Entry.Date.IsZero() {
		return Case{}, ErrInvalidInput
	}
	if in.Entry.DurationDays < 0 || in.Entry.WaitingPeriodDays < 0 {
		return Case{}, ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = StatusInTreatment
	}
	if !status.IsValid() {
		return Case{}, ErrInvalidInput
	}

	now := s.now()
	c := Case{
		ID:          s.nextID(now),
		AnimalClass: in.AnimalClass,
		UnitNumber:  strings.TrimSpace(in.UnitNumber),
		Status:      status,
		Entries:     []Entry{in.Entry.toEntry()},
		History: []HistoryEvent{{
			Timestamp: now,
			Action:    ActionCreated,
			ToStatus:  status,
		}},
		Synced:       false,
		LastModified: now,
	}

	if err := s.store.Put(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

// AmendInput es un PATCH sobre el último tratamiento: punteros nil = no tocar.
type AmendInput struct {
	Date                 *time.Time
	Diagnosis            *string
	Medication           *string
	Dosage               *string
	AdministrationMethod *string
	Person               *string
	DurationDays         *int
	WaitingPeriodDays    *int
	Notes                *string
}

// AmendLatestEntry reemplaza campos del último tratamiento (merge superficial,
// los campos no enviados conservan su valor). El largo de Entries no cambia.
func (s *Service) AmendLatestEntry(ctx context.Context, id int64, in AmendInput) (Case, error) {
	c, err := s.fetch(ctx, id)
	if err != nil {
		return Case{}, err
	}

	last := c.Entries[len(c.Entries)-1]
	if in.Date != nil {
		if in.Date.IsZero() {
			return Case{}, ErrInvalidInput
		}
		last.Date = *in.Date
	}
	if in.Diagnosis != nil {
		last.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Medication != nil {
		last.Medication = strings.TrimSpace(*in.Medication)
	}
	if in.Dosage != nil {
		last.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.AdministrationMethod != nil {
		last.AdministrationMethod = strings.TrimSpace(*in.AdministrationMethod)
	}
	if in.Person != nil {
		last.Person = strings.TrimSpace(*in.Person)
	}
	if in.DurationDays != nil {
		if *in.DurationDays < 0 {
			return Case{}, ErrInvalidInput
		}
		last.DurationDays = *in.DurationDays
	}
	if in.WaitingPeriodDays != nil {
		if *in.WaitingPeriodDays < 0 {
			return Case{}, ErrInvalidInput
		}
		last.WaitingPeriodDays = *in.WaitingPeriodDays
	}
	if in.Notes != nil {
		last.Notes = strings.TrimSpace(*in.Notes)
	}
	c.Entries[len(c.Entries)-1] = last

	c = s.touch(c, HistoryEvent{
		Action:   ActionUpdated,
		ToStatus: c.Status,
	})

	if err := s.store.Put(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

// AppendFollowUp agrega un tratamiento nuevo al caso. Un follow-up siempre
// reabre el caso (status vuelve a IN_TREATMENT, regla de negocio).
func (s *Service) AppendFollowUp(ctx context.Context, id int64, in EntryInput) (Case, error) {
	if in.Date.IsZero() {
		return Case{}, ErrInvalidInput
	}
	if in.DurationDays < 0 || in.WaitingPeriodDays < 0 {
		return Case{}, ErrInvalidInput
	}

	c, err := s.fetch(ctx, id)
	if err != nil {
		return Case{}, err
	}

	entry := in.toEntry()
	c.Entries = append(c.Entries, entry)

	from := c.Status
	c.Status = StatusInTreatment

	c = s.touch(c, HistoryEvent{
		Action:     ActionFollowUp,
		ToStatus:   StatusInTreatment,
		Medication: entry.Medication,
		Diagnosis:  entry.Diagnosis,
	})
	// La reapertura queda también como cambio de estado en el historial,
	// para que el timeline de la UI cuente la transición.
	c.History = append(c.History, HistoryEvent{
		Timestamp:  c.LastModified,
		Action:     ActionStatusChanged,
		FromStatus: from,
		ToStatus:   StatusInTreatment,
	})

	if err := s.store.Put(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

// ChangeStatus siempre registra un evento, incluso si el status no cambia
// (escrituras idempotentes permitidas, no se deduplican).
func (s *Service) ChangeStatus(ctx context.Context, id int64, newStatus Status) (Case, error) {
	if !newStatus.IsValid() {
		return Case{}, ErrInvalidInput
	}

	c, err := s.fetch(ctx, id)
	if err != nil {
		return Case{}, err
	}

	from := c.Status
	c.Status = newStatus

	c = s.touch(c, HistoryEvent{
		Action:     ActionStatusChanged,
		FromStatus: from,
		ToStatus:   newStatus,
	})

	if err := s.store.Put(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

// DeleteCase borra el caso de forma permanente (hard delete, sin tombstone).
// No registra historial: el agregado deja de existir.
func (s *Service) DeleteCase(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) GetCase(ctx context.Context, id int64) (Case, error) {
	return s.fetch(ctx, id)
}

// ListCases devuelve todos los casos ordenados por LastModified descendente.
// El orden de presentación es responsabilidad del manager, no del store.
func (s *Service) ListCases(ctx context.Context) ([]Case, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Case, 0, len(all))
	for _, c := range all {
		out = append(out, upgrade(c))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

// MarkSynced es la única mutación permitida al coordinador de sync:
// sube Synced a true sin tocar contenido clínico, historial ni LastModified.
func (s *Service) MarkSynced(ctx context.Context, id int64) error {
	c, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	c.Synced = true
	return s.store.Put(ctx, c)
}

// fetch trae un caso ya normalizado (forma legacy promovida a Entries).
func (s *Service) fetch(ctx context.Context, id int64) (Case, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return Case{}, err
	}
	c = upgrade(c)
	if len(c.Entries) == 0 {
		// No debería pasar con datos escritos por este service, pero un caso
		// persistido sin tratamientos viola el invariante base.
		return Case{}, ErrInvalidInput
	}
	return c, nil
}

// touch aplica el contrato de mutación: un evento, LastModified fresco,
// Synced abajo.
func (s *Service) touch(c Case, ev HistoryEvent) Case {
	ev.Timestamp = s.now()
	c.History = append(c.History, ev)
	c.LastModified = ev.Timestamp
	c.Synced = false
	return c
}
