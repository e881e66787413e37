// Package service contains the business logic for the voice navigation API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations. Every method takes the calling owner's ID explicitly;
// nothing in this package holds ambient credential state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartnav/voicenav/internal/domain"
	"github.com/smartnav/voicenav/internal/geocode"
	"github.com/smartnav/voicenav/internal/repo"
)

// LocationService implements business logic for Location operations.
// It holds a geocoder because Search degrades to an external lookup when
// nothing saved matches the query.
type LocationService struct {
	repo     repo.LocationRepo
	geocoder geocode.Geocoder
}

// NewLocationService constructs a LocationService backed by the provided
// repo and geocoder.
func NewLocationService(r repo.LocationRepo, g geocode.Geocoder) *LocationService {
	return &LocationService{repo: r, geocoder: g}
}

// Create validates and persists a new location for the owner.
// Returns domain.ErrValidation for missing/out-of-range input and
// domain.ErrDuplicate when the owner already has a location with that name.
func (s *LocationService) Create(ctx context.Context, ownerID uuid.UUID, loc domain.Location) (domain.Location, error) {
	loc.OwnerID = ownerID
	loc.Name = strings.TrimSpace(loc.Name)
	if loc.Tags == nil {
		loc.Tags = []string{}
	}
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}

	result, err := s.repo.Create(ctx, loc)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single location by ID, scoped to the owner.
func (s *LocationService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Location, error) {
	result, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all of the owner's locations.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LocationService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Location, error) {
	locations, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.List: %w", err)
	}
	if locations == nil {
		return []domain.Location{}, nil
	}
	return locations, nil
}

// Search returns the owner's locations matching query by name or tag. When
// nothing saved matches a non-blank query, the geocoder supplies a single
// transient result: it carries a fresh ID but is not persisted. A geocoder
// failure degrades to an empty result, never an error.
func (s *LocationService) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]domain.Location, error) {
	query = strings.TrimSpace(query)

	locations, err := s.repo.Search(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.Search: %w", err)
	}
	if len(locations) > 0 {
		return locations, nil
	}
	if query == "" {
		return []domain.Location{}, nil
	}

	result, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return []domain.Location{}, nil
		}
		return nil, fmt.Errorf("service.LocationService.Search: geocode: %w", err)
	}

	return []domain.Location{{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      result.Label,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		Tags:      []string{},
	}}, nil
}

// Update merges the set fields of upd onto the existing record, re-validates,
// and persists. Name uniqueness is only at stake when the name actually
// changes; the unique index never conflicts with the row's own current name.
func (s *LocationService) Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.LocationUpdate) (domain.Location, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Update: %w", err)
	}

	if upd.Name != nil {
		existing.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Latitude != nil {
		existing.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		existing.Longitude = *upd.Longitude
	}
	if upd.Tags != nil {
		existing.Tags = *upd.Tags
		if existing.Tags == nil {
			existing.Tags = []string{}
		}
	}
	if upd.Notes != nil {
		existing.Notes = *upd.Notes
	}

	if err := validateLocation(existing); err != nil {
		return domain.Location{}, err
	}

	result, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a location by ID, scoped to the owner. Magic phrases
// targeting the location go with it (the store cascades atomically).
func (s *LocationService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.LocationService.Delete: %w", err)
	}
	return nil
}

// validateLocation enforces the rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Latitude must be within [-90, 90], longitude within [-180, 180].
func validateLocation(loc domain.Location) error {
	if loc.Name == "" {
		return fmt.Errorf("%w: location_name is required", domain.ErrValidation)
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
