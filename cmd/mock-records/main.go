// Command mock-records is a stand-in for the internal system of record used
// in local development. It honors the idempotency contract the webhook
// pipeline depends on: applying the same event_id twice is a no-op.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
)

type recordStore struct {
	mu      sync.Mutex
	applied map[string]string
}

type recordUpdate struct {
	EventID string          `json:"event_id"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func (s *recordStore) apply(w http.ResponseWriter, r *http.Request) {
	var update recordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.EventID == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	_, seen := s.applied[update.EventID]
	if !seen {
		s.applied[update.EventID] = update.Kind
	}
	s.mu.Unlock()

	status := "applied"
	if seen {
		status = "duplicate"
	}
	slog.Info("record update", "event_id", update.EventID, "kind", update.Kind, "status", status)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func main() {
	logging.Init("mock-records", "info", os.Getenv("APP_ENV"))

	store := &recordStore{applied: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /internal/records", store.apply)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	slog.Info("mock record service started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
