package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mockhub/mockhub/internal/models"
	"github.com/mockhub/mockhub/internal/storage"
)

type UserHandler struct {
	store storage.Storage
}

func NewUserHandler(store storage.Storage) *UserHandler {
	return &UserHandler{store: store}
}

type upsertUserRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Provider    string `json:"provider"`
}

// Upsert registers the profile on first sign-in and refreshes it (including
// last_login) on every one after.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UID == "" || req.Email == "" || req.Provider == "" {
		writeError(w, http.StatusBadRequest, "Missing required user information")
		return
	}

	now := time.Now().UTC()
	created, err := h.store.UpsertUser(r.Context(), &models.User{
		UID:         req.UID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Provider:    req.Provider,
		LastLogin:   now,
		CreatedAt:   now,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register/update user")
		return
	}

	if created {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	user, err := h.store.GetUser(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
