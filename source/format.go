package source

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FormatTag is one of the backend's encoding tiers.
type FormatTag string

const (
	FormatNormal FormatTag = "nor"
	FormatHigh   FormatTag = "high"
	FormatSuper  FormatTag = "super"
	FormatOrigin FormatTag = "ori"
	FormatH2644K FormatTag = "h2644k"
	FormatH2654K FormatTag = "h2654k"
)

// AllFormatTags returns every known tier in backend order.
func AllFormatTags() []FormatTag {
	return []FormatTag{FormatNormal, FormatHigh, FormatSuper, FormatOrigin, FormatH2644K, FormatH2654K}
}

// ParseFormatTag rejects anything outside the known tiers.
func ParseFormatTag(s string) (FormatTag, error) {
	for _, tag := range AllFormatTags() {
		if string(tag) == s {
			return tag, nil
		}
	}
	return "", fmt.Errorf("unknown format tag %q", s)
}

// Priority orders tiers when resolution and frame rate tie. Higher wins.
// Unknown tags rank below every known tier.
func (t FormatTag) Priority() int {
	switch t {
	case FormatOrigin:
		return 6
	case FormatH2654K:
		return 5
	case FormatH2644K:
		return 4
	case FormatSuper:
		return 3
	case FormatHigh:
		return 2
	case FormatNormal:
		return 1
	default:
		return 0
	}
}

// VidField is the name of the metadata field holding the backend id of this tier.
func (t FormatTag) VidField() string {
	return string(t) + "Vid"
}

func (t FormatTag) String() string {
	return string(t)
}

// FormatMetadata is the per-tier description returned by the metadata backend.
type FormatMetadata struct {
	// ID is the backend id this metadata was fetched for.
	ID  string    `json:"vid"`
	Tag FormatTag `json:"tag"`

	// DistributionHost is the host:port of the key-exchange service (allot).
	DistributionHost string `json:"allot"`
	// ProtocolToken is forwarded verbatim to the key-exchange service (prot).
	ProtocolToken string `json:"prot"`

	ClipPaths     []string  `json:"clipsURL"`
	KeyTokens     []string  `json:"su"`
	ClipBytes     []int64   `json:"clipsBytes"`
	ClipDurations []float64 `json:"clipsDuration"`

	Width         int     `json:"width"`
	Height        int     `json:"height"`
	FrameRate     float64 `json:"fps"`
	TotalSegments int     `json:"totalBlocks"`

	// Raw is the untouched data subtree, kept for optional field lookups.
	Raw gjson.Result `json:"-"`
}

// Validate checks that every per-segment sequence covers all segments.
func (m *FormatMetadata) Validate() error {
	if m.TotalSegments < 1 {
		return fmt.Errorf("totalBlocks is %d", m.TotalSegments)
	}

	lengths := map[string]int{
		"clipsURL":      len(m.ClipPaths),
		"su":            len(m.KeyTokens),
		"clipsBytes":    len(m.ClipBytes),
		"clipsDuration": len(m.ClipDurations),
	}
	for _, name := range []string{"clipsURL", "su", "clipsBytes", "clipsDuration"} {
		if lengths[name] != m.TotalSegments {
			return fmt.Errorf("%s has %d items, totalBlocks is %d", name, lengths[name], m.TotalSegments)
		}
	}

	return nil
}

// SiblingID returns the backend id advertised for a tier, if any.
func (m *FormatMetadata) SiblingID(tag FormatTag) (string, bool) {
	v := m.Raw.Get(tag.VidField())
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}

	id := NormalizeID(v)
	if id == "" || id == "0" {
		return "", false
	}
	return id, true
}

// NormalizeID renders a JSON id, numeric or string, as a bare decimal string.
func NormalizeID(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		return v.Raw
	case gjson.String:
		return strings.TrimSpace(v.Str)
	default:
		return ""
	}
}
