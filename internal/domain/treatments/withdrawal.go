package treatments

import "time"

// Withdrawal es el estado de retiro (Wartezeit) derivado del último
// tratamiento: mientras esté activo el animal no puede entrar a la cadena
// alimentaria. No se persiste, se calcula contra el reloj de pared.
type Withdrawal struct {
	Active        bool
	RemainingDays int
	EndDate       time.Time
}

// WithdrawalFor calcula el retiro del caso a partir del último tratamiento.
// Granularidad de día calendario: los días fraccionales redondean SIEMPRE
// hacia arriba para mantener el margen de seguridad conservador.
func WithdrawalFor(c Case, now time.Time) Withdrawal {
	c = upgrade(c)
	if len(c.Entries) == 0 {
		return Withdrawal{}
	}

	last := c.LatestEntry()
	if last.Date.IsZero() || last.WaitingPeriodDays <= 0 {
		return Withdrawal{}
	}

	end := last.Date.AddDate(0, 0, last.WaitingPeriodDays)
	remaining := ceilDays(end.Sub(now))

	return Withdrawal{
		Active:        remaining > 0,
		RemainingDays: remaining,
		EndDate:       end,
	}
}

// ceilDays convierte una duración a días enteros redondeando hacia arriba.
// Evita float: división entera con ajuste de resto.
func ceilDays(d time.Duration) int {
	const day = 24 * time.Hour
	n := d / day
	if d%day > 0 {
		n++
	}
	return int(n)
}
