// Package registry owns the persistent mapping from request paths to mock
// JSON responses. It validates input before any store call and is the sole
// writer of endpoint records.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mockhub/mockhub/internal/models"
	"github.com/mockhub/mockhub/internal/storage"
)

type Registry struct {
	store storage.Storage
	log   zerolog.Logger
}

func New(store storage.Storage, log zerolog.Logger) *Registry {
	return &Registry{store: store, log: log}
}

// List returns all endpoints, newest first.
func (r *Registry) List(ctx context.Context) ([]models.Endpoint, error) {
	endpoints, err := r.store.ListEndpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	if endpoints == nil {
		endpoints = []models.Endpoint{}
	}
	return endpoints, nil
}

// Create stores a new endpoint and returns its id. The path must be
// non-empty and the response must be serialized JSON; neither failure
// touches the store.
func (r *Registry) Create(ctx context.Context, path string, response json.RawMessage) (string, error) {
	response, err := validate(path, response)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	ep := &models.Endpoint{
		ID:        models.NewID("ep"),
		Path:      path,
		Response:  response,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.store.CreateEndpoint(ctx, ep); err != nil {
		return "", fmt.Errorf("create endpoint: %w", err)
	}

	r.log.Info().Str("id", ep.ID).Str("path", path).Msg("mock endpoint created")
	return ep.ID, nil
}

// Update rewrites path, response and updated_at. The id and created_at are
// never touched. Returns ErrNotFound when no row has the given id.
func (r *Registry) Update(ctx context.Context, id, path string, response json.RawMessage) error {
	response, err := validate(path, response)
	if err != nil {
		return err
	}

	found, err := r.store.UpdateEndpoint(ctx, &models.Endpoint{
		ID:        id,
		Path:      path,
		Response:  response,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("update endpoint: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	r.log.Info().Str("id", id).Str("path", path).Msg("mock endpoint updated")
	return nil
}

// Delete removes the endpoint permanently. Returns ErrNotFound when no row
// has the given id.
func (r *Registry) Delete(ctx context.Context, id string) error {
	found, err := r.store.DeleteEndpoint(ctx, id)
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	r.log.Info().Str("id", id).Msg("mock endpoint deleted")
	return nil
}

// validate gates every mutation. An absent response body is stored as JSON
// null, matching what a client gets back when it mocks "nothing".
func validate(path string, response json.RawMessage) (json.RawMessage, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	if len(response) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(response) {
		return nil, ErrInvalidResponse
	}
	return response, nil
}
