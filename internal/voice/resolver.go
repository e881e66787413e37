package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/smartnav/voicenav/internal/domain"
	"github.com/smartnav/voicenav/internal/geocode"
)

// minGeocodeQueryLen guards the external lookup against near-empty queries:
// a stripped remainder shorter than this terminates with NoMatch instead of
// burning a geocoder call.
const minGeocodeQueryLen = 2

// PhraseFinder is the slice of the phrase store the resolver needs.
// repo.PhraseRepo satisfies it; tests substitute a function-field mock.
type PhraseFinder interface {
	FindMatch(ctx context.Context, ownerID uuid.UUID, text string) (domain.MagicPhrase, error)
}

// LocationFinder is the slice of the location store the resolver needs.
// repo.LocationRepo satisfies it.
type LocationFinder interface {
	FindByName(ctx context.Context, ownerID uuid.UUID, text string) (domain.Location, error)
	Search(ctx context.Context, ownerID uuid.UUID, text string) ([]domain.Location, error)
}

// Vocabulary holds the ordered command word lists the resolver recognises.
// Order matters: the first navigation prefix that matches is the one stripped,
// and zoom-in keywords are checked before zoom-out keywords.
type Vocabulary struct {
	NavigationPrefixes []string
	ZoomInKeywords     []string
	ZoomOutKeywords    []string
}

// DefaultVocabulary returns the command vocabulary the web client ships with.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		NavigationPrefixes: []string{"navigate to", "go to", "take me to", "directions to"},
		ZoomInKeywords:     []string{"zoom in"},
		ZoomOutKeywords:    []string{"zoom out"},
	}
}

// Resolver runs the ordered resolution pipeline. It is stateless and
// read-only against the store, so a single instance is safe for concurrent
// use across requests.
type Resolver struct {
	phrases   PhraseFinder
	locations LocationFinder
	geocoder  geocode.Geocoder
	vocab     Vocabulary
}

// NewResolver constructs a Resolver over the given store slices and geocoder.
func NewResolver(phrases PhraseFinder, locations LocationFinder, geocoder geocode.Geocoder, vocab Vocabulary) *Resolver {
	return &Resolver{phrases: phrases, locations: locations, geocoder: geocoder, vocab: vocab}
}

// Resolve converts raw spoken text into exactly one terminal action for the
// given owner. Stages run strictly in priority order and the first stage that
// produces a result short-circuits the rest:
//
//  1. magic phrases, checked for the command-stripped text first and the
//     as-spoken text second
//  2. exact saved-location name match
//  3. partial saved-location match (first element of the ordered search)
//  4. external geocode, only when a navigation prefix was spoken
//  5. zoom keywords, only when no navigation prefix was spoken
//
// Store misses (domain.ErrNotFound) and geocoder failures
// (domain.ErrUnavailable) are expected outcomes, absorbed into the next stage
// or into a NoMatch result. Any other error is fatal and aborts the
// resolution, as does cancellation of ctx.
func (r *Resolver) Resolve(ctx context.Context, ownerID uuid.UUID, spoken string) (ResolvedAction, error) {
	full := Normalize(spoken)
	stripped, hadPrefix := StripNavigationPrefix(full, r.vocab.NavigationPrefixes)

	// The stripped remainder is the more specific signal, so it is tried
	// before the full text wherever both are candidates.
	candidates := []string{full}
	if hadPrefix && stripped != "" {
		candidates = []string{stripped, full}
	}

	for _, text := range candidates {
		if err := ctx.Err(); err != nil {
			return ResolvedAction{}, err
		}
		match, err := r.phrases.FindMatch(ctx, ownerID, text)
		switch {
		case err == nil:
			return navigateTo(match.Latitude, match.Longitude, match.LocationName, SourceMagicPhrase), nil
		case errors.Is(err, domain.ErrNotFound):
			// No phrase for this candidate; try the next.
		default:
			return ResolvedAction{}, fmt.Errorf("voice.Resolver.Resolve: phrase stage: %w", err)
		}
	}

	lookup := full
	if hadPrefix {
		lookup = stripped
	}

	// An empty lookup (a bare "navigate to") would equality-match nothing but
	// substring-match everything, so the saved-location stages are skipped.
	if lookup != "" {
		if err := ctx.Err(); err != nil {
			return ResolvedAction{}, err
		}
		loc, err := r.locations.FindByName(ctx, ownerID, lookup)
		switch {
		case err == nil:
			return navigateTo(loc.Latitude, loc.Longitude, loc.Name, SourceSavedExact), nil
		case errors.Is(err, domain.ErrNotFound):
		default:
			return ResolvedAction{}, fmt.Errorf("voice.Resolver.Resolve: exact stage: %w", err)
		}

		results, err := r.locations.Search(ctx, ownerID, lookup)
		if err != nil {
			return ResolvedAction{}, fmt.Errorf("voice.Resolver.Resolve: partial stage: %w", err)
		}
		if len(results) > 0 {
			first := results[0]
			return navigateTo(first.Latitude, first.Longitude, first.Name, SourceSavedPartial), nil
		}
	}

	if hadPrefix {
		return r.geocodeStage(ctx, stripped)
	}

	// Zoom is only considered when the speaker used no navigation verb at all.
	for _, kw := range r.vocab.ZoomInKeywords {
		if strings.Contains(full, kw) {
			return ResolvedAction{Kind: KindZoomIn}, nil
		}
	}
	for _, kw := range r.vocab.ZoomOutKeywords {
		if strings.Contains(full, kw) {
			return ResolvedAction{Kind: KindZoomOut}, nil
		}
	}

	return noMatch, nil
}

// geocodeStage performs the single outbound lookup of the pipeline.
// Unavailability is not an error here: the speaker asked to navigate
// somewhere unknown, and the definitive answer is "not found".
func (r *Resolver) geocodeStage(ctx context.Context, query string) (ResolvedAction, error) {
	if utf8.RuneCountInString(query) < minGeocodeQueryLen {
		return noMatch, nil
	}

	result, err := r.geocoder.Geocode(ctx, query)
	switch {
	case err == nil:
		return navigateTo(result.Latitude, result.Longitude, result.Label, SourceGeocode), nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResolvedAction{}, err
	case errors.Is(err, domain.ErrUnavailable):
		return noMatch, nil
	default:
		return ResolvedAction{}, fmt.Errorf("voice.Resolver.Resolve: geocode stage: %w", err)
	}
}
