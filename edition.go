package aerolink

import (
	"strings"

	"github.com/aerolink/aerolink/types"
)

// DetectEdition maps a named configuration value to a product edition.
//
// The lookup is case-insensitive on the value: "community" maps to
// EditionCommunity and "enterprise" to EditionEnterprise. A missing key or
// any other value maps to EditionInvalid, which is a normal return rather
// than a failure - edition detection never errors and never panics.
//
// The function is pure: no I/O, no ambient state, no side effects.
//
// Parameters:
//   - values: Named configuration fields (e.g. ClusterConfig.Values)
//   - key: The field name to consult (e.g. "EDITION")
//
// Returns:
//   - types.Edition: The detected edition, or EditionInvalid
func DetectEdition(values map[string]string, key string) types.Edition {
	value, ok := values[key]
	if !ok {
		return types.EditionInvalid
	}

	switch {
	case strings.EqualFold(value, "community"):
		return types.EditionCommunity
	case strings.EqualFold(value, "enterprise"):
		return types.EditionEnterprise
	default:
		return types.EditionInvalid
	}
}
