package domain

// TradeSide represents the direction of a trade (buy or sell).
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// Valid reports whether the side is one of the known values.
func (s TradeSide) Valid() bool {
	return s == Buy || s == Sell
}

// TradeOutcome filters trades by the sign of their realized profit.
type TradeOutcome string

const (
	OutcomeWin       TradeOutcome = "win"       // profit > 0
	OutcomeLoss      TradeOutcome = "loss"      // profit < 0
	OutcomeBreakeven TradeOutcome = "breakeven" // profit == 0 (missing profit counts as 0)
)

// AccountStatus represents the sync status of a trading account.
type AccountStatus string

const (
	AccountPending AccountStatus = "pending"
	AccountSyncing AccountStatus = "syncing"
	AccountSynced  AccountStatus = "synced"
	AccountFailed  AccountStatus = "failed"
)

// Trading session names used by the time analysis.
const (
	SessionAsia    = "asia"
	SessionLondon  = "london"
	SessionNewYork = "new_york"
)
