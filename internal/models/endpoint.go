package models

import (
	"encoding/json"
	"time"
)

// Endpoint is a stored mapping from a request path to the JSON body
// replayed for it. Response holds the serialized JSON exactly as the
// client submitted it, so replay is byte-for-byte.
type Endpoint struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Response  json.RawMessage `json:"response"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
