package models

import (
	"fmt"
	"strings"
)

// MissingIDPolicy decides what happens to rows whose transaction id is empty.
type MissingIDPolicy string

const (
	MissingIDRetain MissingIDPolicy = "retain"
	MissingIDDrop   MissingIDPolicy = "drop"
)

// Row policy modes accepted by RowPolicyFromMode.
const (
	PolicyLenient = "lenient"
	PolicyStrict  = "strict"
)

// RowPolicy is the single rule set deciding which raw rows survive cleaning.
// Amount and country checks are unconditional; the fields below are the
// configurable part.
type RowPolicy struct {
	Mode string
	// MissingID applies to rows whose id is empty after trimming.
	MissingID MissingIDPolicy
	// RequireValidDate drops rows whose date does not parse. Output is
	// aggregated by country only, so this is off unless asked for.
	RequireValidDate bool
}

// DefaultRowPolicy returns the lenient policy.
func DefaultRowPolicy() RowPolicy {
	return RowPolicy{
		Mode:             PolicyLenient,
		MissingID:        MissingIDRetain,
		RequireValidDate: false,
	}
}

// RowPolicyFromMode resolves a named mode into a RowPolicy.
func RowPolicyFromMode(mode string) (RowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", PolicyLenient:
		return DefaultRowPolicy(), nil
	case PolicyStrict:
		return RowPolicy{
			Mode:             PolicyStrict,
			MissingID:        MissingIDDrop,
			RequireValidDate: true,
		}, nil
	default:
		return RowPolicy{}, fmt.Errorf("unknown row policy %q (want %q or %q)", mode, PolicyLenient, PolicyStrict)
	}
}

func (p RowPolicy) String() string {
	return fmt.Sprintf("%s(missing_id=%s, require_valid_date=%t)", p.Mode, p.MissingID, p.RequireValidDate)
}
