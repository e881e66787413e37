package handler

import (
	"context"
	"errors"
	"net/http"
)

// resolveVoiceRequest is the body of POST /voice/resolve.
type resolveVoiceRequest struct {
	Text string `json:"text"`
}

// ResolveVoice handles POST /voice/resolve: it runs the full resolution
// pipeline over the spoken text and returns the single terminal action.
// A NoMatch result is a successful 200 — the pipeline ran to completion and
// found nothing, which is a definitive answer.
func (s *Server) ResolveVoice(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req resolveVoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	action, err := s.resolver.Resolve(r.Context(), owner, req.Text)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The client went away; there is nobody left to answer.
			return
		}
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, action)
}
