package sim

// familyEntry is one node of the release-order chain.
type familyEntry struct {
	available bool
	next      string
}

// FamilyIndex tracks, for every family seen released, whether it is still
// available and which family was released right after it.
//
// One index is shared by all GROWING_MARKOV policies of a world. Every
// instance feeds it the same broadcasts, so updates must be idempotent.
// Not safe for concurrent use; the engine is single-threaded.
type FamilyIndex struct {
	families map[string]*familyEntry
	latest   string
}

// NewFamilyIndex creates an empty index.
func NewFamilyIndex() *FamilyIndex {
	return &FamilyIndex{families: make(map[string]*familyEntry)}
}

// Released records name as the newest family and links the previous newest to it.
// Families already known are left alone, so replaying a tick's releases in
// another instance changes nothing.
func (fi *FamilyIndex) Released(name string) {
	if _, ok := fi.families[name]; ok {
		return
	}
	if prev, ok := fi.families[fi.latest]; ok {
		prev.next = name
	}
	fi.latest = name
	fi.families[name] = &familyEntry{available: true}
}

// Withdrawn marks name unavailable. Unknown names are ignored.
func (fi *FamilyIndex) Withdrawn(name string) {
	if e, ok := fi.families[name]; ok {
		e.available = false
	}
}

// Latest returns the most recently released family.
func (fi *FamilyIndex) Latest() (string, bool) {
	return fi.latest, fi.latest != ""
}

// Available reports whether name is known and not withdrawn.
func (fi *FamilyIndex) Available(name string) bool {
	e, ok := fi.families[name]
	return ok && e.available
}

// Nearest follows the released-after chain from name (inclusive) and returns
// the first available family. False if the chain runs out.
func (fi *FamilyIndex) Nearest(name string) (string, bool) {
	for name != "" {
		e, ok := fi.families[name]
		if !ok {
			return "", false
		}
		if e.available {
			return name, true
		}
		name = e.next
	}
	return "", false
}

// Len returns the number of families ever released.
func (fi *FamilyIndex) Len() int { return len(fi.families) }
