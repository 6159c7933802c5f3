package sim

import "fmt"

// EventKind tags a broadcast. The set is closed.
type EventKind string

const (
	// FamilyReleased makes a family purchasable; the World creates its Product.
	FamilyReleased EventKind = "FAMILY_RELEASED"
	// FamilyWithdrawn marks a family unavailable for further acquisitions.
	FamilyWithdrawn EventKind = "FAMILY_WITHDRAWN"
	// FamilyEndOfSupport tells owners their hardware is outdated.
	FamilyEndOfSupport EventKind = "FAMILY_END_OF_SUPPORT"
	// VolumeIncreased reports that a family was acquired during the previous tick.
	VolumeIncreased EventKind = "VOLUME_INCREASED"
)

// validEventKinds is the set of recognized event kinds.
var validEventKinds = map[EventKind]bool{
	FamilyReleased:     true,
	FamilyWithdrawn:    true,
	FamilyEndOfSupport: true,
	VolumeIncreased:    true,
}

// IsValidEventKind returns true if kind is one of the four known event kinds.
func IsValidEventKind(kind EventKind) bool {
	return validEventKinds[kind]
}

// Event is a broadcast delivered to every enterprise during a tick.
// All current kinds name exactly one family.
type Event struct {
	Kind   EventKind
	Family string
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Family)
}
