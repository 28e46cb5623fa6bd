package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores del coordinador de sincronización. Registrados en el registry
// default; /metrics los expone vía promhttp.
var (
	SyncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treatmentlog_sync_cycles_total",
		Help: "Ciclos de sincronización por resultado (ok, failed, offline).",
	}, []string{"result"})

	CasesSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treatmentlog_cases_synced_total",
		Help: "Casos confirmados por el remoto en ciclos exitosos.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
