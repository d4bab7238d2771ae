package handlers

import (
	"net/http"
	"time"

	"TodoList/server/internal/db"
)

type HealthHandler struct {
	db db.Querier
}

func NewHealthHandler(q db.Querier) *HealthHandler {
	return &HealthHandler{db: q}
}

// Check reports whether the process and its database are up. The body keeps
// the success envelope even when the database is down; the 503 status is
// what load balancers key on.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	database := "connected"
	if !db.Healthy(r.Context(), h.db) {
		status = http.StatusServiceUnavailable
		database = "disconnected"
	}

	sendSuccess(w, status, map[string]any{
		"status":    "ok",
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"services":  map[string]string{"database": database},
	})
}
