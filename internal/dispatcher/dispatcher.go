// Package dispatcher resolves arbitrary inbound request paths against the
// stored mock endpoints. It is mounted as the router's fallback, so every
// path not claimed by a management route lands here.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mockhub/mockhub/internal/storage"
)

// ErrNoMock is the expected outcome for a path with no stored mock; the
// caller applies its own default (a 404 in the HTTP layer).
var ErrNoMock = errors.New("no mock for path")

// ErrCorruptData reports stored response text that no longer parses as
// JSON. Distinct from ErrNoMock so it surfaces as a server failure.
var ErrCorruptData = errors.New("stored mock response is corrupt")

type Dispatcher struct {
	store storage.Storage
	log   zerolog.Logger
}

func New(store storage.Storage, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// Resolve maps a request path to its stored JSON response. The query
// string, if any, is stripped before lookup; matching is exact string
// equality against the stored path. When several rows share a path the
// newest one wins.
func (d *Dispatcher) Resolve(ctx context.Context, requestPath string) (json.RawMessage, error) {
	path := requestPath
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	ep, err := d.store.GetEndpointByPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("lookup mock for %q: %w", path, err)
	}
	if ep == nil {
		return nil, ErrNoMock
	}

	if !json.Valid(ep.Response) {
		d.log.Error().Str("id", ep.ID).Str("path", path).Msg("stored mock response failed to parse")
		return nil, ErrCorruptData
	}

	return ep.Response, nil
}
