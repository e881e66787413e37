package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartnav/voicenav/internal/domain"
	"github.com/smartnav/voicenav/internal/repo"
	"github.com/smartnav/voicenav/internal/voice"
)

// PhraseService implements business logic for MagicPhrase operations.
// It holds the location repo as well because creating a phrase requires
// verifying the target location exists and belongs to the requester.
type PhraseService struct {
	phrases   repo.PhraseRepo
	locations repo.LocationRepo
}

// NewPhraseService constructs a PhraseService backed by the provided repos.
func NewPhraseService(phrases repo.PhraseRepo, locations repo.LocationRepo) *PhraseService {
	return &PhraseService{phrases: phrases, locations: locations}
}

// Create validates the phrase, verifies the target location belongs to the
// owner, then persists. Returns domain.ErrValidation for missing fields or an
// unknown action type, domain.ErrNotFound when the target does not resolve
// for this owner, and domain.ErrDuplicate for a repeated phrase.
func (s *PhraseService) Create(ctx context.Context, ownerID uuid.UUID, phrase domain.MagicPhrase) (domain.MagicPhrase, error) {
	phrase.OwnerID = ownerID
	phrase.Phrase = strings.TrimSpace(phrase.Phrase)
	if phrase.Phrase == "" {
		return domain.MagicPhrase{}, fmt.Errorf("%w: phrase is required", domain.ErrValidation)
	}
	if phrase.TargetLocationID == uuid.Nil {
		return domain.MagicPhrase{}, fmt.Errorf("%w: target_location_id is required", domain.ErrValidation)
	}
	if phrase.ActionType == "" {
		phrase.ActionType = domain.ActionNavigate
	}
	if !phrase.ActionType.Valid() {
		return domain.MagicPhrase{}, fmt.Errorf("%w: unknown action_type %q", domain.ErrValidation, phrase.ActionType)
	}

	// The FK alone cannot check ownership, so the target is resolved through
	// the owner-scoped repo first.
	if _, err := s.locations.GetByID(ctx, ownerID, phrase.TargetLocationID); err != nil {
		return domain.MagicPhrase{}, fmt.Errorf("service.PhraseService.Create: target location: %w", err)
	}

	result, err := s.phrases.Create(ctx, phrase)
	if err != nil {
		return domain.MagicPhrase{}, fmt.Errorf("service.PhraseService.Create: %w", err)
	}
	return result, nil
}

// List returns all of the owner's phrases joined with their target locations.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PhraseService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.MagicPhrase, error) {
	phrases, err := s.phrases.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.PhraseService.List: %w", err)
	}
	if phrases == nil {
		return []domain.MagicPhrase{}, nil
	}
	return phrases, nil
}

// Match resolves spoken text directly against the owner's phrases — the
// standalone form of the pipeline's magic-phrase stage, used by callers that
// only want phrase shortcuts. The text is normalized the same way the
// pipeline normalizes it. Returns domain.ErrNotFound when nothing matches.
func (s *PhraseService) Match(ctx context.Context, ownerID uuid.UUID, text string) (domain.MagicPhrase, error) {
	normalized := voice.Normalize(text)
	if normalized == "" {
		return domain.MagicPhrase{}, fmt.Errorf("service.PhraseService.Match: %w", domain.ErrNotFound)
	}

	result, err := s.phrases.FindMatch(ctx, ownerID, normalized)
	if err != nil {
		return domain.MagicPhrase{}, fmt.Errorf("service.PhraseService.Match: %w", err)
	}
	return result, nil
}

// Delete removes a phrase by ID, scoped to the owner.
func (s *PhraseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.phrases.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.PhraseService.Delete: %w", err)
	}
	return nil
}
