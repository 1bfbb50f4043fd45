package storage

import (
	"context"

	"github.com/mockhub/mockhub/internal/models"
)

// Storage is the persistence boundary. Get-style calls return (nil, nil)
// when no row matches; Update/Delete report whether a row was touched so
// callers can distinguish not-found from a failed statement.
type Storage interface {
	// Endpoints
	CreateEndpoint(ctx context.Context, ep *models.Endpoint) error
	GetEndpoint(ctx context.Context, id string) (*models.Endpoint, error)
	GetEndpointByPath(ctx context.Context, path string) (*models.Endpoint, error)
	ListEndpoints(ctx context.Context) ([]models.Endpoint, error)
	UpdateEndpoint(ctx context.Context, ep *models.Endpoint) (bool, error)
	DeleteEndpoint(ctx context.Context, id string) (bool, error)

	// Users
	UpsertUser(ctx context.Context, u *models.User) (bool, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)

	// Stats
	GetStats(ctx context.Context) (*Stats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

type Stats struct {
	TotalEndpoints int64 `json:"total_endpoints"`
	TotalUsers     int64 `json:"total_users"`
}
