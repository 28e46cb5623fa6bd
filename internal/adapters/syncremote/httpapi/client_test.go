package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herd-treatment-log/internal/domain/treatments"
	"herd-treatment-log/internal/ports/syncremote"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestPush_SendsBatchWithAPIKey(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	batch := syncremote.Batch{
		DeviceID:  "device_abc",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Cases: []treatments.Case{{
			ID:         1,
			UnitNumber: "A12",
			Status:     treatments.StatusInTreatment,
		}},
	}
	if err := client.Push(context.Background(), batch); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if gotPath != "/v1/treatments/sync" {
		t.Fatalf("wrong path: %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header missing, got %q", gotKey)
	}
	if gotBody["deviceId"] != "device_abc" {
		t.Fatalf("batch payload wrong: %+v", gotBody)
	}
	if cases, ok := gotBody["cases"].([]any); !ok || len(cases) != 1 {
		t.Fatalf("cases payload wrong: %+v", gotBody["cases"])
	}
}

func TestPush_RejectedBatchIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "schema mismatch"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.Push(context.Background(), syncremote.Batch{DeviceID: "device_abc"})
	if err == nil || err.Error() != "schema mismatch" {
		t.Fatalf("expected remote message as error, got %v", err)
	}
}

func TestPush_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := client.Push(context.Background(), syncremote.Batch{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if !client.Online(context.Background()) {
		t.Fatal("expected online while server is up")
	}

	// aunque el health devuelva error HTTP, hubo respuesta => online
	errSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
	}))
	defer errSrv.Close()
	errClient, err := NewClient(Config{BaseURL: errSrv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if !errClient.Online(context.Background()) {
		t.Fatal("http error response still means reachable")
	}

	// server caído => fallo de red => offline
	srv.Close()
	if client.Online(context.Background()) {
		t.Fatal("expected offline once the server is gone")
	}
}
