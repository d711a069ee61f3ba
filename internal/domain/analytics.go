package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalyticsSummary holds the headline performance metrics of an account.
// Nil / invalid optional fields mean "no data", which is distinct from zero.
type AnalyticsSummary struct {
	PnLTotal    decimal.Decimal `json:"pnlTotal"`
	WinRate     float64         `json:"winRate"`
	MaxDrawdown decimal.Decimal `json:"maxDrawdown"`
	TradeCount  int             `json:"tradeCount"`

	Equity      decimal.Decimal `json:"equity"`
	DailyPnL    decimal.Decimal `json:"dailyPnl"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
	GrossLoss   decimal.Decimal `json:"grossLoss"`
	Expectancy  decimal.Decimal `json:"expectancy"`
	CurrentRisk decimal.Decimal `json:"currentRisk"` // Percent of equity at risk in open trades

	ProfitFactor     *float64            `json:"profitFactor,omitempty"`
	AvgWin           decimal.NullDecimal `json:"avgWin"`
	AvgLoss          decimal.NullDecimal `json:"avgLoss"`
	AvgRR            *float64            `json:"avgRR,omitempty"`
	LosingStreak     *int                `json:"losingStreak,omitempty"`
	MaxLosingStreak  *int                `json:"maxLosingStreak,omitempty"`
	OvertradeWarning *bool               `json:"overtradeWarning,omitempty"`
}

// BucketStat aggregates closed trades falling into one time bucket.
type BucketStat struct {
	PnL        decimal.Decimal `json:"pnl"`
	TradeCount int             `json:"tradeCount"`
	WinCount   int             `json:"winCount"`
	WinRate    float64         `json:"winRate"`
}

// HourlyPnL is the P/L of trades closed in a given hour of the day (0-23).
type HourlyPnL struct {
	Hour int `json:"hour"`
	BucketStat
}

// DayOfWeekPnL is the P/L of trades closed on an ISO weekday (Monday=1 ... Sunday=7).
type DayOfWeekPnL struct {
	DayOfWeek int `json:"dayOfWeek"`
	BucketStat
}

// SessionStats splits closed trades across the three FX sessions by close hour.
type SessionStats struct {
	Asia    BucketStat `json:"asia"`    // [00:00, 08:00)
	London  BucketStat `json:"london"`  // [08:00, 16:00)
	NewYork BucketStat `json:"newYork"` // [16:00, 24:00)
}

// TimeAnalysis groups closed-trade performance by time of day and week.
type TimeAnalysis struct {
	HourlyPnL    []HourlyPnL    `json:"hourlyPnl"`
	DayOfWeekPnL []DayOfWeekPnL `json:"dayOfWeekPnl"`
	SessionStats SessionStats   `json:"sessionStats"`
}

// PairPerformance is the performance of one instrument.
type PairPerformance struct {
	Symbol     string          `json:"symbol"`
	PnL        decimal.Decimal `json:"pnl"`
	TradeCount int             `json:"tradeCount"`
	WinRate    float64         `json:"winRate"`
	AvgWin     decimal.Decimal `json:"avgWin"`
	AvgLoss    decimal.Decimal `json:"avgLoss"` // Mean absolute loss
}

// PairAnalysis lists the best and worst instruments by P/L.
type PairAnalysis struct {
	TopPairs   []PairPerformance `json:"topPairs"`
	WorstPairs []PairPerformance `json:"worstPairs"` // Most negative first
}

// HoldTimeStats compares how long winners and losers are held.
type HoldTimeStats struct {
	AvgWinHoldTime     time.Duration `json:"avgWinHoldTime"`
	AvgLossHoldTime    time.Duration `json:"avgLossHoldTime"`
	MedianWinHoldTime  time.Duration `json:"medianWinHoldTime"`
	MedianLossHoldTime time.Duration `json:"medianLossHoldTime"`
	WinCount           int           `json:"winCount"`
	LossCount          int           `json:"lossCount"`
}

// BehaviorAnalysis flags behavioral patterns in the trade history.
type BehaviorAnalysis struct {
	HoldTimeStats          HoldTimeStats `json:"holdTimeStats"`
	RevengeTradingDetected bool          `json:"revengeTradingDetected"`
	OvertradingDetected    bool          `json:"overtradingDetected"`
	TradesLast24h          int           `json:"tradesLast24h"`

	// Execution quality is not available from trade history.
	SlippageImpact *float64 `json:"slippageImpact,omitempty"`
	SpreadImpact   *float64 `json:"spreadImpact,omitempty"`
}

// RiskPerTrade summarizes |profit| as a percent of the equity before each trade.
type RiskPerTrade struct {
	AvgRiskPercent float64 `json:"avgRiskPercent"`
	MinRiskPercent float64 `json:"minRiskPercent"`
	MaxRiskPercent float64 `json:"maxRiskPercent"`
}

// ExposureByPair is the share of traded volume attributable to one instrument.
type ExposureByPair struct {
	Symbol          string          `json:"symbol"`
	Volume          decimal.Decimal `json:"volume"`
	ExposurePercent float64         `json:"exposurePercent"`
}

// RiskAnalysis summarizes risk taken across the trade history.
type RiskAnalysis struct {
	RiskPerTrade          RiskPerTrade     `json:"riskPerTrade"`
	ExposureByPair        []ExposureByPair `json:"exposureByPair"`
	ConsecutiveLosses     int              `json:"consecutiveLosses"`
	DailyLossLimitHitRate float64          `json:"dailyLossLimitHitRate"`
	FloatingPnL           decimal.Decimal  `json:"floatingPnl"`
	OpenTrades            int              `json:"openTrades"`
}

// PnlBucket is the aggregation period of a PnlSeries.
type PnlBucket string

const (
	BucketDaily  PnlBucket = "daily"
	BucketWeekly PnlBucket = "weekly"
)

// PnlPoint is the summed P/L of one day or week (keyed by YYYY-MM-DD).
type PnlPoint struct {
	DayISO string          `json:"dayIso"`
	PnL    decimal.Decimal `json:"pnl"`
}

// PnlSeries is a P/L time series, ascending by day.
type PnlSeries struct {
	Bucket PnlBucket  `json:"bucket"`
	Points []PnlPoint `json:"points"`
}

// EquityPoint is the account equity at the end of a day.
type EquityPoint struct {
	DayISO string          `json:"dayIso"`
	Equity decimal.Decimal `json:"equity"`
}

// EquitySeries is the equity curve, ascending by day.
type EquitySeries struct {
	Points []EquityPoint `json:"points"`
}

// InsightType categorizes an insight.
type InsightType string

const (
	InsightTimeBased InsightType = "timeBased"
	InsightPairBased InsightType = "pairBased"
	InsightBehavior  InsightType = "behavior"
)

// InsightSeverity ranks an insight.
type InsightSeverity string

const (
	SeverityInfo     InsightSeverity = "info"
	SeverityWarning  InsightSeverity = "warning"
	SeverityCritical InsightSeverity = "critical"
)

// Insight is a short, human readable observation about the trade history.
type Insight struct {
	ID       uuid.UUID       `json:"id"`
	Type     InsightType     `json:"type"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity InsightSeverity `json:"severity"`
}

// AnalyticsReport bundles the five reports computed from a single trade snapshot.
type AnalyticsReport struct {
	Summary  *AnalyticsSummary `json:"summary"`
	Time     *TimeAnalysis     `json:"timeAnalysis"`
	Pairs    *PairAnalysis     `json:"pairAnalysis"`
	Behavior *BehaviorAnalysis `json:"behaviorAnalysis"`
	Risk     *RiskAnalysis     `json:"riskAnalysis"`
}
