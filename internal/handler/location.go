package handler

import (
	"net/http"

	"github.com/smartnav/voicenav/internal/domain"
)

// createLocationRequest is the body of POST /locations.
type createLocationRequest struct {
	Name      string   `json:"location_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Tags      []string `json:"tags"`
	Notes     string   `json:"notes"`
}

// updateLocationRequest is the body of PUT /locations/{id}.
// All fields are optional; absent fields leave the record unchanged.
type updateLocationRequest struct {
	Name      *string   `json:"location_name"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Tags      *[]string `json:"tags"`
	Notes     *string   `json:"notes"`
}

// CreateLocation handles POST /locations.
func (s *Server) CreateLocation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "latitude and longitude are required")
		return
	}

	created, err := s.locations.Create(r.Context(), owner, domain.Location{
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Tags:      req.Tags,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListLocations handles GET /locations.
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	locations, err := s.locations.List(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

// SearchLocations handles GET /locations/search?q=.
func (s *Server) SearchLocations(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	locations, err := s.locations.Search(r.Context(), owner, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

// GetLocation handles GET /locations/{id}.
func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	location, err := s.locations.GetByID(r.Context(), owner, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// UpdateLocation handles PUT /locations/{id}.
func (s *Server) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.locations.Update(r.Context(), owner, id, domain.LocationUpdate{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Tags:      req.Tags,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteLocation handles DELETE /locations/{id}.
func (s *Server) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.locations.Delete(r.Context(), owner, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct{}{})
}
