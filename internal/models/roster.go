package models

// Participant is one person on a trip's roster.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	// TripID is the trip this participant belongs to.
	TripID string `json:"trip_id"`

	// Name is the participant's display name.
	Name string `json:"name"`

	// FamilyID links the participant to a family unit. Empty for
	// participants not attached to any family.
	FamilyID string `json:"family_id,omitempty"`

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64 `json:"created_at"`
}

// Family is a household unit on a trip's roster. In families tracking mode
// the family, not its members, is the settlement entity.
type Family struct {
	// ID is the unique identifier for the family (UUID format).
	ID string `json:"id"`

	// TripID is the trip this family belongs to.
	TripID string `json:"trip_id"`

	// Name is the family's display name (e.g., "The Millers").
	Name string `json:"name"`

	// Adults and Children together form the member count used by
	// size-weighted equal splits.
	Adults   int `json:"adults"`
	Children int `json:"children"`

	// CreatedAt is the Unix timestamp when the family was added.
	CreatedAt int64 `json:"created_at"`
}
