package api

import (
	"errors"
	"net/http"

	"github.com/mockhub/mockhub/internal/dispatcher"
)

// MockHandler answers every request the management routes do not claim. It
// replays the stored JSON for the request path, or 404s.
type MockHandler struct {
	dispatcher *dispatcher.Dispatcher
}

func NewMockHandler(d *dispatcher.Dispatcher) *MockHandler {
	return &MockHandler{dispatcher: d}
}

func (h *MockHandler) Serve(w http.ResponseWriter, r *http.Request) {
	raw, err := h.dispatcher.Resolve(r.Context(), r.URL.Path)
	if err != nil {
		if errors.Is(err, dispatcher.ErrNoMock) {
			writeError(w, http.StatusNotFound, "Mock endpoint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to serve mock endpoint")
		return
	}

	writeRawJSON(w, http.StatusOK, raw)
}
