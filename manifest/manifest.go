// Package manifest decodes the WEVT_TEMPLATE binary manifest format: the
// CRIM container, its provider entries, and each provider's eight typed
// sections (channels, events, keywords, levels, maps, opcodes, tasks,
// templates).
//
// Parse is a pure function from bytes to either a Manifest or an error.
// Every offset, count, and length inside the input is treated as
// untrusted: all reads go through a bytespan.Span, which rejects anything
// that would read past the end of the buffer or overflow while computing
// an offset.
package manifest

import (
	"fmt"

	"github.com/libyal/libfwevt-sub000/bytespan"
	"github.com/libyal/libfwevt-sub000/errs"
	"github.com/libyal/libfwevt-sub000/guid"
	"github.com/libyal/libfwevt-sub000/internal/options"
)

const (
	crimHeaderSize    = 16 // signature + total_size + major + minor + n_providers
	providerEntrySize = 20 // 16-byte GUID + 4-byte data_offset
)

// Manifest is the decoded CRIM container: an ordered sequence of providers,
// in file order.
type Manifest struct {
	Providers []Provider

	duplicateGUIDs []guid.GUID
}

// DuplicateGUIDs returns every provider GUID observed more than once during
// parsing, in the order its second (and later) occurrence was seen. The
// format does not require provider GUIDs to be unique, so duplicates are
// informational, never an error. Nil when tracking was disabled.
func (m *Manifest) DuplicateGUIDs() []guid.GUID {
	return m.duplicateGUIDs
}

// ProviderByGUID returns the first provider whose GUID equals g, or false
// if none matches. Provider GUIDs are not required to be unique; this
// returns the first match in file order.
func (m *Manifest) ProviderByGUID(g guid.GUID) (Provider, bool) {
	for _, p := range m.Providers {
		if p.GUID.Equal(g) {
			return p, true
		}
	}

	return Provider{}, false
}

// Parse decodes a WEVT_TEMPLATE manifest from data.
func Parse(data []byte, opts ...ParseOption) (Manifest, error) {
	cfg := defaultParseConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return Manifest{}, err
	}

	span, err := bytespan.New(data)
	if err != nil {
		return Manifest{}, err
	}

	c := bytespan.NewCursor(span)

	if err := c.RequireSignature("CRIM"); err != nil {
		return Manifest{}, err
	}
	if _, err := c.U32LE(); err != nil { // total size
		return Manifest{}, err
	}
	if _, err := c.U16LE(); err != nil { // major version
		return Manifest{}, err
	}
	if _, err := c.U16LE(); err != nil { // minor version
		return Manifest{}, err
	}
	nProviders, err := c.U32LE()
	if err != nil {
		return Manifest{}, err
	}

	descriptorTableSize := int(nProviders) * providerEntrySize
	if nProviders > uint32((1<<31)/providerEntrySize) || c.Remaining() < descriptorTableSize {
		return Manifest{}, fmt.Errorf("%w: provider descriptor table of %d entries exceeds remaining %d bytes",
			errs.ErrValueOutOfBounds, nProviders, c.Remaining())
	}

	type providerEntry struct {
		guid       guid.GUID
		dataOffset uint32
	}

	entries := make([]providerEntry, nProviders)
	for i := range entries {
		guidBytes, err := c.Slice(guid.Size)
		if err != nil {
			return Manifest{}, err
		}
		g, err := guid.Parse(guidBytes)
		if err != nil {
			return Manifest{}, err
		}
		dataOffset, err := c.U32LE()
		if err != nil {
			return Manifest{}, err
		}

		entries[i] = providerEntry{guid: g, dataOffset: dataOffset}
	}

	var tracker *guidCollisionTracker
	if cfg.trackGUIDCollisions {
		tracker = newGUIDCollisionTracker()
	}

	providers := make([]Provider, 0, nProviders)
	for _, entry := range entries {
		provider, err := parseProvider(span, int(entry.dataOffset))
		if err != nil {
			return Manifest{}, err
		}
		provider.GUID = entry.guid
		providers = append(providers, provider)

		if tracker != nil {
			tracker.observe(entry.guid)
		}
	}

	m := Manifest{Providers: providers}
	if tracker != nil {
		m.duplicateGUIDs = tracker.Collisions()
	}

	return m, nil
}
