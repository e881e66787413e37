package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies what a magic phrase does when it matches.
// The set is open: new values can be added as new constants, and every
// switch over ActionType should carry a default branch for that reason.
type ActionType string

// ActionNavigate flies the map to the phrase's target location.
// It is the only action currently defined.
const ActionNavigate ActionType = "navigate"

// Valid reports whether a is one of the defined action types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionNavigate:
		return true
	}
	return false
}

// MagicPhrase is a user-defined voice shortcut bound to one of the owner's
// saved locations. Reads always join the target location so callers get the
// coordinates without a second lookup; the last three fields are populated
// from that join and are never written through this type.
type MagicPhrase struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          uuid.UUID  `json:"owner_id"`
	Phrase           string     `json:"phrase"`
	ActionType       ActionType `json:"action_type"`
	TargetLocationID uuid.UUID  `json:"target_location_id"`
	CreatedAt        time.Time  `json:"created_at"`

	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}
