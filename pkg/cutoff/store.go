package cutoff

import (
	"context"
	"errors"
)

// ErrStoreUnavailable marks the structured store as unreachable. The engine
// converts it to an advisory message; it never reaches the dialogue layer as
// a fault. Distinct from a successful query with zero rows.
var ErrStoreUnavailable = errors.New("cutoff store unavailable")

// Filter is an equality filter set for the structured store. Zero values
// mean "no filter on this field". LegacyCategory queries the old "caste"
// field instead of "category".
type Filter struct {
	Branch         string
	Category       string
	LegacyCategory string
	Gender         string
	Quota          string
	Year           int
	Round          int
	Limit          int
}

// Store is the structured cutoff data store. Implementations return raw,
// unordered rows; reconciliation and sorting happen in the engine.
type Store interface {
	Query(ctx context.Context, f Filter) ([]Record, error)
	Branches(ctx context.Context) ([]string, error)
}
