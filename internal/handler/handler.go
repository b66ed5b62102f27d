// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/djprofessorkash/pet-emporium-project/internal/handler/dto"
)

// Handler serves the routes that need no application dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Root is the public homepage endpoint.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"msg":    "Application loaded successfully.",
		"notice": "To enter the API, please log in or create an account.",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Page not found.")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode errors can only come from the writer at this point; the
	// status line is already gone, so there is nothing left to do.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
