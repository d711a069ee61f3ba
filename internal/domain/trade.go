package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade represents a single trade record synced from a broker account.
// A trade without CloseTime is still open.
type Trade struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"accountId"`
	Symbol    string     `json:"symbol"`
	Side      TradeSide  `json:"side"`
	OpenTime  time.Time  `json:"openTime"`
	CloseTime *time.Time `json:"closeTime,omitempty"`

	Volume decimal.NullDecimal `json:"volume"`
	Profit decimal.NullDecimal `json:"profit"` // Realized P/L for closed trades, floating P/L for open ones

	// Execution details (nullable)
	OpenPrice  decimal.NullDecimal `json:"openPrice"`
	ClosePrice decimal.NullDecimal `json:"closePrice"`
	StopLoss   decimal.NullDecimal `json:"stopLoss"`
	TakeProfit decimal.NullDecimal `json:"takeProfit"`
	Commission decimal.NullDecimal `json:"commission"`
	Swap       decimal.NullDecimal `json:"swap"`
}

// IsOpen checks if the trade has not been closed yet.
func (t *Trade) IsOpen() bool {
	return t.CloseTime == nil
}

// EffectiveTime is the close time of a closed trade and the open time of an open one.
// It is the timestamp used for range filtering and ordering.
func (t *Trade) EffectiveTime() time.Time {
	if t.CloseTime != nil {
		return *t.CloseTime
	}
	return t.OpenTime
}

// ProfitOrZero returns the profit, treating a missing value as zero.
func (t *Trade) ProfitOrZero() decimal.Decimal {
	if t.Profit.Valid {
		return t.Profit.Decimal
	}
	return decimal.Zero
}

// HoldTime is CloseTime - OpenTime for closed trades and zero for open ones.
func (t *Trade) HoldTime() time.Duration {
	if t.CloseTime == nil {
		return 0
	}
	return t.CloseTime.Sub(t.OpenTime)
}

// Dec wraps a decimal into a valid NullDecimal.
func Dec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Trade times must fit in int64 nanoseconds since the Unix epoch.
var (
	MinTradeTime = time.Unix(0, math.MinInt64).UTC()
	MaxTradeTime = time.Unix(0, math.MaxInt64).UTC()
)

// ValidTradeTime reports whether t lies within [MinTradeTime, MaxTradeTime].
func ValidTradeTime(t time.Time) bool {
	return !t.Before(MinTradeTime) && !t.After(MaxTradeTime)
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// TradeDetail is a trade together with its journal annotation, if any.
type TradeDetail struct {
	Trade      *Trade           `json:"trade"`
	Annotation *TradeAnnotation `json:"annotation,omitempty"`
}
