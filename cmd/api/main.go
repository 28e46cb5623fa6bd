package main

import (
	"net/http"
	"os"
	"time"

	"herd-treatment-log/internal/platform/logger"
	"herd-treatment-log/internal/router"
)

// @title Herd Treatment Log API
// @version 1.0
// @description Logbook offline-first de tratamientos veterinarios por corral, con sincronización hacia un remoto.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
