package manifest

import (
	"github.com/cespare/xxhash/v2"
	"github.com/libyal/libfwevt-sub000/guid"
)

// guidCollisionTracker records every provider GUID seen during a single
// Parse call and reports which, if any, occur more than once.
//
// Provider GUIDs are explicitly not required to be unique (see
// Manifest.DuplicateGUIDs), so a collision here is informational only:
// it never causes Parse to fail, but a caller that treats GUIDs as a
// primary key may want to know before it silently overwrites one provider's
// data with another's.
//
// Collisions are detected on a 64-bit hash of the GUID bytes rather than a
// direct map keyed by guid.GUID, mirroring how large ID sets are
// deduplicated cheaply when an exact equality check is only needed on the
// rare hash match.
type guidCollisionTracker struct {
	seen       map[uint64][]guid.GUID
	collisions []guid.GUID
}

func newGUIDCollisionTracker() *guidCollisionTracker {
	return &guidCollisionTracker{seen: make(map[uint64][]guid.GUID)}
}

// observe records g, returning true if an equal GUID was already observed.
func (t *guidCollisionTracker) observe(g guid.GUID) bool {
	b := g.Bytes()
	h := xxhash.Sum64(b[:])

	for _, existing := range t.seen[h] {
		if existing.Equal(g) {
			t.collisions = append(t.collisions, g)
			return true
		}
	}

	t.seen[h] = append(t.seen[h], g)

	return false
}

// Collisions returns every provider GUID that was observed more than once,
// in the order its second (and later) occurrence was seen.
func (t *guidCollisionTracker) Collisions() []guid.GUID {
	return t.collisions
}
