// Package guid formats the 16-byte Windows GUIDs embedded in provider and
// template records.
//
// A Windows GUID is stored on disk in a mixed-endian layout: the first three
// fields (a uint32, a uint16 and a uint16) are little-endian, while the
// remaining eight bytes are taken verbatim as big-endian. github.com/google/uuid
// assumes a fully big-endian ("RFC 4122 wire format") byte order, so this
// package reorders the first three fields before handing the bytes to it and
// undoes that reorder when producing disk bytes back out.
package guid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/libyal/libfwevt-sub000/errs"
)

// Size is the length in bytes of a GUID as stored in a manifest or template.
const Size = 16

// GUID is a 16-byte Windows GUID.
type GUID struct {
	u uuid.UUID
}

// Parse reads a mixed-endian GUID from the first 16 bytes of b.
func Parse(b []byte) (GUID, error) {
	if len(b) < Size {
		return GUID{}, fmt.Errorf("%w: need %d bytes for a GUID, have %d", errs.ErrTruncatedInput, Size, len(b))
	}

	var wire [Size]byte
	// Data1 (uint32 LE -> BE)
	wire[0], wire[1], wire[2], wire[3] = b[3], b[2], b[1], b[0]
	// Data2 (uint16 LE -> BE)
	wire[4], wire[5] = b[5], b[4]
	// Data3 (uint16 LE -> BE)
	wire[6], wire[7] = b[7], b[6]
	// Data4 (8 bytes, already big-endian on disk)
	copy(wire[8:], b[8:16])

	return GUID{u: uuid.UUID(wire)}, nil
}

// Bytes returns the 16 mixed-endian bytes this GUID would occupy on disk.
func (g GUID) Bytes() [Size]byte {
	wire := [Size]byte(g.u)

	var b [Size]byte
	b[0], b[1], b[2], b[3] = wire[3], wire[2], wire[1], wire[0]
	b[4], b[5] = wire[5], wire[4]
	b[6], b[7] = wire[7], wire[6]
	copy(b[8:], wire[8:16])

	return b
}

// String renders the GUID in the conventional hyphenated form, e.g.
// "53eaa206-6cfc-e542-9176-18749ab2ca13".
func (g GUID) String() string {
	return g.u.String()
}

// IsZero reports whether the GUID is all zero bytes.
func (g GUID) IsZero() bool {
	return g.u == uuid.UUID{}
}

// Equal reports whether two GUIDs have the same value. The data model
// explicitly does not require provider GUIDs to be unique; collision
// detection against previously-seen values is a separate, informational
// concern (see the manifest package's collision tracker).
func (g GUID) Equal(other GUID) bool {
	return g.u == other.u
}
