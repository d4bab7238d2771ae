package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// Every response uses the same envelope: {"success": true, "data": ...} or
// {"success": false, "error": {"code": ..., "message": ...}}.

func sendSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": true, "data": data}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}
