package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"herd-treatment-log/internal/domain/treatments"
)

// Los encabezados CSV son contrato con las planillas existentes de los
// usuarios (vienen del logbook original en alemán). No traducir.
var csvHeaders = []string{
	"Sau-Nr",
	"Tiertyp",
	"Status",
	"Behandlung #",
	"Datum",
	"Diagnose",
	"Medikament",
	"Dosierung",
	"Verabreichung",
	"Behandler",
	"Dauer (Tage)",
	"Wartezeit (Tage)",
	"Notizen",
}

// utf8BOM hace que Excel reconozca el CSV como UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Exporter produce CSV y JSON a partir de ListCases, nada más.
// No toca el store directamente.
type Exporter struct {
	svc *treatments.Service
}

func NewExporter(svc *treatments.Service) *Exporter {
	return &Exporter{svc: svc}
}

// CSV genera una fila por tratamiento: un caso con varios tratamientos
// produce varias filas que comparten corral/clase/status, con número de
// secuencia 1-based. Campos con coma van entre comillas, comillas se
// escapan duplicando (encoding/csv).
func (e *Exporter) CSV(ctx context.Context) ([]byte, error) {
	cases, err := e.svc.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}

	for _, c := range cases {
		for i, entry := range c.Entries {
			row := []string{
				c.UnitNumber,
				string(c.AnimalClass),
				string(c.Status),
				strconv.Itoa(i + 1),
				entry.Date.Format("2006-01-02"),
				entry.Diagnosis,
				entry.Medication,
				entry.Dosage,
				entry.AdministrationMethod,
				entry.Person,
				intOrEmpty(entry.DurationDays),
				intOrEmpty(entry.WaitingPeriodDays),
				entry.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON exporta los casos completos. ListCases ya normaliza la forma legacy,
// así que entries siempre viene materializado.
func (e *Exporter) JSON(ctx context.Context) ([]byte, error) {
	cases, err := e.svc.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(cases, "", "  ")
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
