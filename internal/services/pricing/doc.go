/*
Package pricing implements the volume-tiered fee and spread calculation
used by the quote, order, and back-office fee screens.

The engine is pure: every function maps already-loaded inputs (tier
table, base price, optional override, spread) to a Quote with no I/O and
no shared state. Configuration loading and caching live in the feeconfig
service; price snapshots come from the pricefeed service.

Usage:

	table, err := pricing.NewTierTable(tiers)
	price, err := pricing.ApplyOverride(base, override)
	quote, err := pricing.Compute(amount, pricing.OpBuy, price, spreadPct)

Buy and sell are intentionally asymmetric: a buy embeds the spread in
the exchange rate (the buyer pays exactly the stated fiat amount), while
a sell charges the fee against the proceeds (the seller receives the
amount net of fee). Callers must not unify the two paths.

Error Handling:

All failures are sentinel errors, grouped in two families:
  - configuration: ErrEmptyTierTable, ErrTierGap, ErrTierOverlap,
    ErrNonMonotonicRate, ErrInvalidBasePrice, ErrUnknownOverrideKind
  - input: ErrInvalidAmount

The engine never returns NaN or Infinity; a computation that would is
reported as an error instead.
*/
package pricing
