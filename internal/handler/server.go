// Package handler implements the HTTP handlers for the voice navigation API.
// All handlers are methods on Server and are split into resource-specific
// files (location.go, phrase.go, voice.go) that share the same struct so they
// can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smartnav/voicenav/internal/domain"
	"github.com/smartnav/voicenav/internal/voice"
)

// LocationServicer defines the business operations the location handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type LocationServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, loc domain.Location) (domain.Location, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Location, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Location, error)
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]domain.Location, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.LocationUpdate) (domain.Location, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// PhraseServicer defines the business operations the phrase handlers depend on.
type PhraseServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, phrase domain.MagicPhrase) (domain.MagicPhrase, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.MagicPhrase, error)
	Match(ctx context.Context, ownerID uuid.UUID, text string) (domain.MagicPhrase, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// VoiceResolver is the resolution pipeline as the voice handler consumes it.
type VoiceResolver interface {
	Resolve(ctx context.Context, ownerID uuid.UUID, spoken string) (voice.ResolvedAction, error)
}

// Server implements the owner-scoped API endpoints.
// Wire its Routes() behind the auth middleware in main.go.
type Server struct {
	locations LocationServicer
	phrases   PhraseServicer
	resolver  VoiceResolver
}

// NewServer constructs the Server with all its dependencies.
func NewServer(locations LocationServicer, phrases PhraseServicer, resolver VoiceResolver) *Server {
	return &Server{locations: locations, phrases: phrases, resolver: resolver}
}

// Routes returns the owner-scoped route tree. Every route here assumes the
// auth middleware already placed an owner ID in the request context.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/locations", func(r chi.Router) {
		r.Post("/", s.CreateLocation)
		r.Get("/", s.ListLocations)
		r.Get("/search", s.SearchLocations)
		r.Get("/{id}", s.GetLocation)
		r.Put("/{id}", s.UpdateLocation)
		r.Delete("/{id}", s.DeleteLocation)
	})

	r.Route("/phrases", func(r chi.Router) {
		r.Post("/", s.CreatePhrase)
		r.Get("/", s.ListPhrases)
		r.Post("/match", s.MatchPhrase)
		r.Delete("/{id}", s.DeletePhrase)
	})

	r.Post("/voice/resolve", s.ResolveVoice)

	return r
}
