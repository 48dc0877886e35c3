package model

import (
	"fmt"
	"net/url"
	"strings"
)

// BandID identifies a wearable band and, through it, the subject wearing it.
type BandID string

const (
	// BandAudreyMartin is the band of the first fixture subject.
	// It is also the profile every unrecognized input resolves to in mock mode.
	BandAudreyMartin BandID = "124578"

	// BandFabriceDurand is the band of the second fixture subject.
	BandFabriceDurand BandID = "936421"

	// DefaultBandID is the band used when mock-mode resolution does not
	// recognize its input.
	DefaultBandID = BandAudreyMartin
)

// KnownBandIDs returns the band identifiers of the fixture table in a stable order.
func KnownBandIDs() []BandID {
	return []BandID{BandAudreyMartin, BandFabriceDurand}
}

// String returns the identifier as a plain string.
func (b BandID) String() string {
	return string(b)
}

// IsKnown reports whether b names a band of the fixture table.
func (b BandID) IsKnown() bool {
	for _, known := range KnownBandIDs() {
		if b == known {
			return true
		}
	}
	return false
}

// ReportFilename returns the download filename of the PDF report for b.
func (b BandID) ReportFilename() string {
	return fmt.Sprintf("compte-rendu-%s.pdf", b)
}

// normalizeRaw percent-decodes and trims a caller-supplied identifier.
// The second return value is false when the input is not a valid escape sequence.
func normalizeRaw(raw string) (string, bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(decoded), true
}

// ResolveBandID applies the mock-mode resolution policy to a raw identifier.
//
// The input is percent-decoded and trimmed. It resolves to BandFabriceDurand
// only on an exact match; every other input, including malformed escapes,
// unknown values and the empty string, resolves to DefaultBandID.
// Unknown input is therefore indistinguishable from the default profile.
// Use ResolveBandIDStrict where that conflation is not wanted.
func ResolveBandID(raw string) BandID {
	id, ok := normalizeRaw(raw)
	if ok && BandID(id) == BandFabriceDurand {
		return BandFabriceDurand
	}
	return DefaultBandID
}

// ResolveBandIDStrict decodes and trims raw like ResolveBandID but returns
// ErrUnknownBandID instead of falling back to the default profile.
func ResolveBandIDStrict(raw string) (BandID, error) {
	id, ok := normalizeRaw(raw)
	if !ok {
		return "", fmt.Errorf("%w: malformed escape in %q", ErrUnknownBandID, raw)
	}
	if !BandID(id).IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBandID, id)
	}
	return BandID(id), nil
}
