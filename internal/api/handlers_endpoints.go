package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mockhub/mockhub/internal/registry"
)

type EndpointHandler struct {
	registry *registry.Registry
}

func NewEndpointHandler(reg *registry.Registry) *EndpointHandler {
	return &EndpointHandler{registry: reg}
}

// mockRequest is the body of both create and update. The field names come
// from the authoring UI's form.
type mockRequest struct {
	APIPath      string          `json:"apiPath"`
	MockResponse json.RawMessage `json:"mockResponse"`
}

func (h *EndpointHandler) List(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch endpoints")
		return
	}
	writeJSON(w, http.StatusOK, endpoints)
}

func (h *EndpointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.registry.Create(r.Context(), req.APIPath, req.MockResponse)
	if err != nil {
		if isValidationErr(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create mock endpoint")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "Mock endpoint created successfully",
	})
}

func (h *EndpointHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req mockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.registry.Update(r.Context(), id, req.APIPath, req.MockResponse)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Mock endpoint updated successfully"})
	case isValidationErr(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		writeError(w, http.StatusNotFound, "Endpoint not found")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update mock endpoint")
	}
}

func (h *EndpointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.registry.Delete(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Mock endpoint deleted successfully"})
	case errors.Is(err, registry.ErrNotFound):
		writeError(w, http.StatusNotFound, "Endpoint not found")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete mock endpoint")
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, registry.ErrPathRequired) || errors.Is(err, registry.ErrInvalidResponse)
}
