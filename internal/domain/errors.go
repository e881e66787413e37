package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist for the calling owner. A row owned by somebody
// else is indistinguishable from a missing row on purpose.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, latitude out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a create or update would violate the
// per-owner case-insensitive uniqueness of a location name or phrase.
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicate = errors.New("duplicate")

// ErrUnavailable is returned by the geocode adapter for every failure mode:
// no result, non-2xx response, network error, or timeout. The resolution
// pipeline degrades it to a NoMatch result; it is never fatal.
var ErrUnavailable = errors.New("geocoder unavailable")
