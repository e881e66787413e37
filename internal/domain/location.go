// Package domain contains the core data types for the voice navigation backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, voice, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location represents a named point of interest saved by one owner.
// Every location belongs to exactly one owner; no query may cross that boundary.
type Location struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"location_name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationUpdate carries the optional fields of a partial location update.
// Nil pointers mean "leave unchanged"; the service merges the set fields onto
// the existing record before re-validating.
type LocationUpdate struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
	Tags      *[]string
	Notes     *string
}
