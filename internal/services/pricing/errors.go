package pricing

import "errors"

// Configuration errors. These mean the tier table or price inputs are
// malformed and must be fixed by an operator, not retried.
var (
	ErrEmptyTierTable      = errors.New("tier table is empty")
	ErrTierGap             = errors.New("tier table has a gap between tiers")
	ErrTierOverlap         = errors.New("tier table has overlapping tiers")
	ErrNonMonotonicRate    = errors.New("tier rates must not increase with volume")
	ErrInvalidTierBound    = errors.New("tier bounds are invalid")
	ErrInvalidRate         = errors.New("tier rate must be between 0 and 1 exclusive")
	ErrInvalidBasePrice    = errors.New("base price must be positive and finite")
	ErrUnknownOverrideKind = errors.New("unknown override kind")
)

// Input errors. The request itself is bad.
var (
	ErrInvalidAmount    = errors.New("amount must be non-negative and finite")
	ErrInvalidOperation = errors.New("operation must be buy or sell")
)
