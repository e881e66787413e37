package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnav/voicenav/internal/handler"
	"github.com/smartnav/voicenav/internal/voice"
)

// mockResolver is a test double for handler.VoiceResolver.
type mockResolver struct {
	resolve func(ctx context.Context, ownerID uuid.UUID, spoken string) (voice.ResolvedAction, error)
}

func (m *mockResolver) Resolve(ctx context.Context, ownerID uuid.UUID, spoken string) (voice.ResolvedAction, error) {
	return m.resolve(ctx, ownerID, spoken)
}

// compile-time check: mockResolver must satisfy handler.VoiceResolver.
var _ handler.VoiceResolver = (*mockResolver)(nil)

func TestResolveVoice_200_Navigate(t *testing.T) {
	resolver := &mockResolver{
		resolve: func(_ context.Context, ownerID uuid.UUID, spoken string) (voice.ResolvedAction, error) {
			assert.Equal(t, testOwner, ownerID)
			assert.Equal(t, "navigate to home", spoken)
			return voice.ResolvedAction{
				Kind:      voice.KindNavigate,
				Latitude:  40.7,
				Longitude: -74.0,
				Label:     "Home",
				Source:    voice.SourceSavedExact,
			}, nil
		},
	}

	body := jsonBody(t, map[string]any{"text": "navigate to home"})
	req := authedRequest(http.MethodPost, "/voice/resolve", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, resolver).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp voice.ResolvedAction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, voice.KindNavigate, resp.Kind)
	assert.Equal(t, voice.SourceSavedExact, resp.Source)
	assert.Equal(t, "Home", resp.Label)
}

func TestResolveVoice_200_NoMatch(t *testing.T) {
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ uuid.UUID, _ string) (voice.ResolvedAction, error) {
			return voice.ResolvedAction{Kind: voice.KindNoMatch}, nil
		},
	}

	body := jsonBody(t, map[string]any{"text": "gibberish"})
	req := authedRequest(http.MethodPost, "/voice/resolve", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, resolver).ServeHTTP(rec, req)

	// NoMatch is a definitive answer, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "no_match", resp["kind"])
	// Navigate-only fields are omitted from non-navigate results.
	assert.NotContains(t, resp, "latitude")
	assert.NotContains(t, resp, "source")
}

func TestResolveVoice_500_PipelineError(t *testing.T) {
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ uuid.UUID, _ string) (voice.ResolvedAction, error) {
			return voice.ResolvedAction{}, errors.New("store unreachable")
		},
	}

	body := jsonBody(t, map[string]any{"text": "navigate to home"})
	req := authedRequest(http.MethodPost, "/voice/resolve", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, resolver).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// Internal detail must not leak to the caller.
	assert.Equal(t, "internal server error", resp.Error.Message)
}

func TestResolveVoice_400_BadJSON(t *testing.T) {
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ uuid.UUID, _ string) (voice.ResolvedAction, error) {
			t.Fatal("resolver called with an undecodable body")
			return voice.ResolvedAction{}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/voice/resolve", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, resolver).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
