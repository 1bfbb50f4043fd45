package registry

import "errors"

// ErrPathRequired is returned when a create or update carries an empty path.
var ErrPathRequired = errors.New("API path is required")

// ErrInvalidResponse is returned when the mock response body is not valid JSON.
var ErrInvalidResponse = errors.New("mock response is not valid JSON")

// ErrNotFound is returned when no endpoint exists for the given id.
var ErrNotFound = errors.New("endpoint not found")
