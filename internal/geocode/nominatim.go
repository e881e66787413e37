// Package geocode resolves free-text place names to coordinates.
// The only implementation talks to the OpenStreetMap Nominatim search API;
// the pipeline depends on the Geocoder interface so tests can stub it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/smartnav/voicenav/internal/domain"
)

// Result is the single best candidate for a geocode query.
type Result struct {
	Latitude  float64
	Longitude float64
	Label     string
}

// Geocoder performs a single external lookup by free-text query.
//
// Geocode never distinguishes "no result" from a network or timeout failure:
// all of them surface as domain.ErrUnavailable, because callers treat them
// identically (the fallback has failed). Cancellation of ctx is the one
// exception and is returned as the context's own error.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

const (
	// DefaultBaseURL is the public Nominatim instance, the same one the web
	// client queries directly.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout bounds the whole lookup including retries.
	DefaultTimeout = 5 * time.Second

	// userAgent identifies this service to Nominatim, whose usage policy
	// rejects requests without one.
	userAgent = "voicenav-backend/1.0"
)

// Nominatim is the production Geocoder. Transient transport failures are
// retried with fibonacci backoff inside the configured timeout; a "no result"
// response is final and never retried.
type Nominatim struct {
	baseURL string
	client  *http.Client
}

// NewNominatim constructs a Nominatim client. Empty baseURL and non-positive
// timeout fall back to the defaults; tests point baseURL at an httptest server.
func NewNominatim(baseURL string, timeout time.Duration) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Nominatim{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// nominatimPlace is the subset of a Nominatim search result we consume.
// Coordinates arrive as strings in the JSON payload.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode looks up query and returns the best candidate.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Result, error) {
	var result Result

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := n.fetch(ctx, query)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(err, domain.ErrUnavailable) {
			return Result{}, fmt.Errorf("geocode.Nominatim.Geocode: %w", err)
		}
		// Retries exhausted on a transport error. Collapse the cause into the
		// sentinel with %v so callers only ever see ErrUnavailable.
		return Result{}, fmt.Errorf("geocode.Nominatim.Geocode: %w: %v", domain.ErrUnavailable, err)
	}
	return result, nil
}

// fetch performs one request against the search endpoint. Network errors and
// 5xx/429 responses are marked retryable; everything else is final.
func (n *Nominatim) fetch(ctx context.Context, query string) (Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", domain.ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return Result{}, retry.RetryableError(fmt.Errorf("geocoder returned %d", resp.StatusCode))
	default:
		return Result{}, fmt.Errorf("%w: geocoder returned %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", domain.ErrUnavailable, err)
	}
	if len(places) == 0 {
		return Result{}, fmt.Errorf("%w: no result for %q", domain.ErrUnavailable, query)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bad latitude %q", domain.ErrUnavailable, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bad longitude %q", domain.ErrUnavailable, places[0].Lon)
	}

	label := places[0].DisplayName
	if label == "" {
		label = query
	}

	return Result{Latitude: lat, Longitude: lon, Label: label}, nil
}
