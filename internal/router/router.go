package router

import (
	"context"
	"net/http"
	"os"

	mem "herd-treatment-log/internal/adapters/storage/memory"
	pg "herd-treatment-log/internal/adapters/storage/postgres"
	lite "herd-treatment-log/internal/adapters/storage/sqlite"
	"herd-treatment-log/internal/adapters/syncremote/httpapi"
	"herd-treatment-log/internal/adapters/syncremote/stub"
	"herd-treatment-log/internal/domain/export"
	syncdomain "herd-treatment-log/internal/domain/sync"
	"herd-treatment-log/internal/domain/treatments"
	"herd-treatment-log/internal/middleware"
	"herd-treatment-log/internal/platform/logger"
	"herd-treatment-log/internal/platform/metrics"
	"herd-treatment-log/internal/ports/syncremote"

	_ "herd-treatment-log/docs" // registro swagger generado por swag

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Log logger.Logger

	// Opcional: si vienen, se usan tal cual (tests). Si no, se resuelven
	// por env: DB_DSN => Postgres, DB_PATH => sqlite local (default).
	Store treatments.Store
	Meta  syncdomain.MetaStore

	// Opcional: si no viene, SYNC_URL => transport HTTP real; sin
	// SYNC_URL queda el stub que acepta siempre.
	Transport syncremote.Transport
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.DeviceContext)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	store, meta := opts.Store, opts.Meta
	if store == nil {
		store, meta = openStoreFromEnv(log)
	}
	if meta == nil {
		meta = mem.NewMetaRepo()
	}

	transport := opts.Transport
	if transport == nil {
		transport = transportFromEnv(log)
	}

	// Services por módulo
	treatmentsSvc := treatments.NewService(store)
	coordinator := syncdomain.NewCoordinator(store, treatmentsSvc, meta, transport, log)
	exporter := export.NewExporter(treatmentsSvc)

	// Rutas por módulo
	treatments.RegisterRoutes(r, treatmentsSvc)
	syncdomain.RegisterRoutes(r, coordinator)
	export.RegisterRoutes(r, exporter)

	return r
}

// openStoreFromEnv decide el backend de persistencia:
// DB_DSN (Postgres compartido) > DB_PATH (sqlite local, el modo normal
// offline) > memoria (dev sin estado).
func openStoreFromEnv(log logger.Logger) (treatments.Store, syncdomain.MetaStore) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err == nil {
			if err := pg.EnsureSchema(context.Background(), db); err == nil {
				return pg.NewTreatmentsRepo(db), pg.NewMetaRepo(db)
			}
		}
		log.Warn("postgres unavailable, falling back to local sqlite", map[string]any{"error": err})
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "data/treatments.db"
	}
	db, err := lite.Open(path)
	if err != nil {
		log.Error("sqlite unavailable, falling back to in-memory store", map[string]any{"error": err.Error(), "path": path})
		return mem.NewTreatmentsRepo(), mem.NewMetaRepo()
	}
	return lite.NewTreatmentsRepo(db), lite.NewMetaRepo(db)
}

func transportFromEnv(log logger.Logger) syncremote.Transport {
	if baseURL := os.Getenv("SYNC_URL"); baseURL != "" {
		client, err := httpapi.NewClient(httpapi.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("SYNC_API_KEY"),
		})
		if err == nil {
			return client
		}
		log.Warn("sync remote misconfigured, using stub transport", map[string]any{"error": err.Error()})
	}
	return stub.New(log)
}
