package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	service string
	version string
}

func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "active",
		"service":   h.service,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
