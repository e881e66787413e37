package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/smartnav/voicenav/internal/domain"
)

// createPhraseRequest is the body of POST /phrases.
type createPhraseRequest struct {
	Phrase           string    `json:"phrase"`
	ActionType       string    `json:"action_type"`
	TargetLocationID uuid.UUID `json:"target_location_id"`
}

// matchPhraseRequest is the body of POST /phrases/match.
type matchPhraseRequest struct {
	Phrase string `json:"phrase"`
}

// matchPhraseResponse is the status envelope POST /phrases/match returns.
// "not_found" is a successful 200 — no shortcut matched — not an error.
type matchPhraseResponse struct {
	Status string              `json:"status"`
	Data   *domain.MagicPhrase `json:"data"`
}

// CreatePhrase handles POST /phrases.
func (s *Server) CreatePhrase(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createPhraseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.phrases.Create(r.Context(), owner, domain.MagicPhrase{
		Phrase:           req.Phrase,
		ActionType:       domain.ActionType(req.ActionType),
		TargetLocationID: req.TargetLocationID,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListPhrases handles GET /phrases.
func (s *Server) ListPhrases(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	phrases, err := s.phrases.List(r.Context(), owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, phrases)
}

// MatchPhrase handles POST /phrases/match — the standalone magic-phrase
// lookup some clients use instead of the full resolution pipeline.
func (s *Server) MatchPhrase(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req matchPhraseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	match, err := s.phrases.Match(r.Context(), owner, req.Phrase)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusOK, matchPhraseResponse{Status: "not_found", Data: nil})
			return
		}
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, matchPhraseResponse{Status: "success", Data: &match})
}

// DeletePhrase handles DELETE /phrases/{id}.
func (s *Server) DeletePhrase(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.phrases.Delete(r.Context(), owner, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct{}{})
}
