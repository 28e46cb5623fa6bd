package treatments

// AnimalClass clasifica al animal tratado.
// Set abierto: la UI puede mandar categorías nuevas sin tocar el backend.
type AnimalClass string

const (
	AnimalClassOlderSow AnimalClass = "older_sow"
	AnimalClassYoungSow AnimalClass = "young_sow"
	AnimalClassPiglet   AnimalClass = "piglet"
)

// Status define el estado del caso de tratamiento.
// @Enum IN_TREATMENT, FOLLOW_UP_NEEDED, COMPLETED, RECOVERED
type Status string

const (
	StatusInTreatment    Status = "IN_TREATMENT"
	StatusFollowUpNeeded Status = "FOLLOW_UP_NEEDED"
	StatusCompleted      Status = "COMPLETED"
	StatusRecovered      Status = "RECOVERED"
)

// IsValid reporta si s es uno de los estados conocidos.
func (s Status) IsValid() bool {
	switch s {
	case StatusInTreatment, StatusFollowUpNeeded, StatusCompleted, StatusRecovered:
		return true
	default:
		return false
	}
}

// IsClosed reporta si el caso ya no está activo (no se esperan más tratamientos).
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusRecovered
}

// Action clasifica los eventos del historial de auditoría.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionFollowUp      Action = "follow-up added"
	ActionStatusChanged Action = "status changed"
)
