// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/openrun/users-api/internal/handler/dto"
)

// Service metadata reported by GET /.
const (
	ServiceName    = "Users API"
	ServiceVersion = "1.0.0"
	DeployedWith   = "OpenRun"
)

// Uniform error messages.
const (
	msgEndpointNotFound = "Endpoint not found"
	msgUserNotFound     = "User not found"
	msgInvalidInput     = "Name and email are required"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgInternalError    = "Internal server error"
)

// Handler serves the service-level endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// InfoResponse describes the service and its endpoints.
type InfoResponse struct {
	Message      string            `json:"message"`
	Version      string            `json:"version"`
	DeployedWith string            `json:"deployed_with"`
	Endpoints    map[string]string `json:"endpoints"`
}

// Info returns service metadata.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message:      ServiceName,
		Version:      ServiceVersion,
		DeployedWith: DeployedWith,
		Endpoints: map[string]string{
			"health": "/health",
			"users":  "/users",
		},
	})
}

// NotFound handles requests that match no route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgEndpointNotFound)
}

// MethodNotAllowed treats a known path with an unsupported method as an
// unmatched route, so callers see the same 404 either way.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgEndpointNotFound)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure can only be a broken connection.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
