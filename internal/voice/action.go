package voice

// Kind identifies which terminal action a resolution produced.
// The set is open in the same way domain.ActionType is: new kinds may be
// added, so switches over Kind should keep a default branch.
type Kind string

const (
	// KindNavigate flies the map to Latitude/Longitude.
	KindNavigate Kind = "navigate"
	// KindZoomIn and KindZoomOut adjust the current map view.
	KindZoomIn  Kind = "zoom_in"
	KindZoomOut Kind = "zoom_out"
	// KindNoMatch means no stage produced a result. Definitive: the caller
	// should tell the user nothing was found, not retry.
	KindNoMatch Kind = "no_match"
)

// Source records which pipeline stage produced a navigate action.
type Source string

const (
	SourceMagicPhrase  Source = "magic_phrase"
	SourceSavedExact   Source = "saved_exact"
	SourceSavedPartial Source = "saved_partial"
	SourceGeocode      Source = "geocode"
)

// ResolvedAction is the single terminal result of a resolution.
// Latitude, Longitude, Label, and Source are populated only for KindNavigate.
type ResolvedAction struct {
	Kind      Kind    `json:"kind"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Label     string  `json:"label,omitempty"`
	Source    Source  `json:"source,omitempty"`
}

// navigateTo builds a KindNavigate result.
func navigateTo(lat, lon float64, label string, source Source) ResolvedAction {
	return ResolvedAction{
		Kind:      KindNavigate,
		Latitude:  lat,
		Longitude: lon,
		Label:     label,
		Source:    source,
	}
}

// noMatch is the shared terminal "nothing found" result.
var noMatch = ResolvedAction{Kind: KindNoMatch}
