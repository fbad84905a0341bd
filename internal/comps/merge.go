package comps

import (
	"strings"

	"valuecraft/server/internal/models"
)

// EmptyInputError is returned when there are no comparable sales to work with.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return "no comparable sales available"
	}
	return "no comparable sales available: " + e.Reason
}

// Merge combines AI-estimated and verified comps into a new sequence:
// verified comps first, then AI comps whose address does not match a
// verified address. Address matching ignores case and surrounding space.
func Merge(ai, verified []models.ComparableSale) ([]models.ComparableSale, error) {
	if len(ai) == 0 && len(verified) == 0 {
		return nil, &EmptyInputError{Reason: "both AI and verified sets are empty"}
	}

	merged := make([]models.ComparableSale, 0, len(ai)+len(verified))
	seen := make(map[string]struct{}, len(verified))
	for _, c := range verified {
		c.Verified = true
		merged = append(merged, c)
		seen[addressKey(c.Address)] = struct{}{}
	}
	for _, c := range ai {
		if _, dup := seen[addressKey(c.Address)]; dup {
			continue
		}
		c.Verified = false
		merged = append(merged, c)
	}
	return merged, nil
}

// Verified returns the verified subset of comps.
func Verified(comps []models.ComparableSale) []models.ComparableSale {
	var out []models.ComparableSale
	for _, c := range comps {
		if c.Verified {
			out = append(out, c)
		}
	}
	return out
}

func addressKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
