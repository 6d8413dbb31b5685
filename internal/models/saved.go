package models

// IconSlot identifies one of the fixed favorite-location slots.
// A saved collection holds at most one record per slot.
type IconSlot string

// The fixed set of icon slots.
const (
	IconHome   IconSlot = "home"
	IconWork   IconSlot = "work"
	IconFamily IconSlot = "family"
)

// Label returns the human-readable name for the slot, used for
// notification action buttons. Unknown slots fall back to "Location".
func (s IconSlot) Label() string {
	switch s {
	case IconHome:
		return "Home"
	case IconWork:
		return "Work"
	case IconFamily:
		return "Family"
	default:
		return "Location"
	}
}

// Known reports whether the slot is one of the fixed set.
func (s IconSlot) Known() bool {
	switch s {
	case IconHome, IconWork, IconFamily:
		return true
	}
	return false
}

// SavedLocation is a persisted favorite: an anonymized address pinned to an
// icon slot so the same original address always resolves to the same place.
type SavedLocation struct {
	OriginalAddress string   `json:"original_address"` // The real address the user entered.
	Address         string   `json:"address"`          // The anonymized address shown downstream.
	Description     string   `json:"description"`      // Optional user-supplied note.
	Icon            IconSlot `json:"icon"`             // Slot this record occupies.
}

// AnonymizationResult is the transient outcome of one anonymization request.
// It is returned to the caller for rendering and is not persisted unless the
// user explicitly saves it.
type AnonymizationResult struct {
	Label               string      // Address of the selected public place.
	Category            Category    // Category of the selected place, if known.
	Coordinates         Coordinates // Position of the selected place.
	OriginalCoordinates Coordinates // Position the input address resolved to.
	FromSaved           bool        // Whether a saved record forced this selection.
}
