package domain

import "time"

// DefaultTradeLimit caps list results when the caller does not supply a limit.
const DefaultTradeLimit = 100

// DateRange is an optional, inclusive time window. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the range (bounds inclusive).
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Inverted reports whether both bounds are set and From is after To.
func (r DateRange) Inverted() bool {
	return r.From != nil && r.To != nil && r.From.After(*r.To)
}

// TradeFilter selects trades for listing.
type TradeFilter struct {
	Range   DateRange
	Symbol  string       // case-insensitive substring, blank means any
	Outcome TradeOutcome `validate:"omitempty,oneof=win loss breakeven"`
	Limit   int          `validate:"gte=0"` // 0 means DefaultTradeLimit
}
