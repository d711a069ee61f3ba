package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

var weekdays = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) section(title string) {
	fmt.Fprintf(c.out, "\n%s\n", title)
}

// keyValues renders a two column table.
func (c *CLI) keyValues(rows [][2]string) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	for _, r := range rows {
		if err := table.Append(r[0], r[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderAccounts(accounts []*domain.TradingAccount) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Broker", "Server", "Login", "Status", "Created")
	for _, a := range accounts {
		if err := table.Append(a.ID.String(), a.Broker, a.Server, a.Login, string(a.Status), a.CreatedAt.Format(timeLayout)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderTrades(trades []*domain.Trade) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Symbol", "Side", "Opened", "Closed", "Volume", "Profit")
	for _, t := range trades {
		closed := "open"
		if t.CloseTime != nil {
			closed = t.CloseTime.Format(timeLayout)
		}
		if err := table.Append(
			t.ID.String(),
			t.Symbol,
			string(t.Side),
			t.OpenTime.Format(timeLayout),
			closed,
			optDecimal(t.Volume),
			optMoney(t.Profit),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "  %d trades\n", len(trades))
	return nil
}

func (c *CLI) renderTradeDetail(d *domain.TradeDetail) error {
	t := d.Trade
	closed := "open"
	if t.CloseTime != nil {
		closed = t.CloseTime.Format(time.RFC3339)
	}
	rows := [][2]string{
		{"ID", t.ID.String()},
		{"Account", t.AccountID.String()},
		{"Symbol", t.Symbol},
		{"Side", string(t.Side)},
		{"Opened", t.OpenTime.Format(time.RFC3339)},
		{"Closed", closed},
		{"Volume", optDecimal(t.Volume)},
		{"Open price", optDecimal(t.OpenPrice)},
		{"Close price", optDecimal(t.ClosePrice)},
		{"Stop loss", optDecimal(t.StopLoss)},
		{"Take profit", optDecimal(t.TakeProfit)},
		{"Commission", optMoney(t.Commission)},
		{"Swap", optMoney(t.Swap)},
		{"Profit", optMoney(t.Profit)},
	}
	if d.Annotation != nil {
		rows = append(rows,
			[2]string{"Note", d.Annotation.NoteText},
			[2]string{"Tags", strings.Join(d.Annotation.Tags, ", ")},
		)
	}
	return c.keyValues(rows)
}

func (c *CLI) renderSummary(s *domain.AnalyticsSummary) error {
	return c.keyValues([][2]string{
		{"Trades", strconv.Itoa(s.TradeCount)},
		{"Total P/L", money(s.PnLTotal)},
		{"Win rate", rate(s.WinRate)},
		{"Equity", money(s.Equity)},
		{"Today's P/L", money(s.DailyPnL)},
		{"Gross profit", money(s.GrossProfit)},
		{"Gross loss", money(s.GrossLoss)},
		{"Profit factor", optFloat(s.ProfitFactor)},
		{"Avg win", optMoney(s.AvgWin)},
		{"Avg loss", optMoney(s.AvgLoss)},
		{"Avg R:R", optFloat(s.AvgRR)},
		{"Expectancy", money(s.Expectancy)},
		{"Max drawdown", money(s.MaxDrawdown)},
		{"Losing streak", optInt(s.LosingStreak)},
		{"Max losing streak", optInt(s.MaxLosingStreak)},
		{"Current risk", s.CurrentRisk.StringFixed(1) + "%"},
		{"Overtrade warning", optBool(s.OvertradeWarning)},
	})
}

func (c *CLI) renderTimeAnalysis(ta *domain.TimeAnalysis) error {
	c.section("By close hour")
	table := tablewriter.NewWriter(c.out)
	table.Header("Hour", "Trades", "Wins", "Win rate", "P/L")
	for _, h := range ta.HourlyPnL {
		if h.TradeCount == 0 {
			continue
		}
		if err := table.Append(bucketCells(fmt.Sprintf("%02d:00", h.Hour), h.BucketStat)...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	c.section("By weekday")
	table = tablewriter.NewWriter(c.out)
	table.Header("Day", "Trades", "Wins", "Win rate", "P/L")
	for _, d := range ta.DayOfWeekPnL {
		if err := table.Append(bucketCells(weekdays[d.DayOfWeek], d.BucketStat)...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	c.section("By session")
	table = tablewriter.NewWriter(c.out)
	table.Header("Session", "Trades", "Wins", "Win rate", "P/L")
	sessions := []struct {
		name string
		stat domain.BucketStat
	}{
		{"Asia", ta.SessionStats.Asia},
		{"London", ta.SessionStats.London},
		{"New York", ta.SessionStats.NewYork},
	}
	for _, s := range sessions {
		if err := table.Append(bucketCells(s.name, s.stat)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func bucketCells(label string, b domain.BucketStat) []interface{} {
	return []interface{}{
		label,
		strconv.Itoa(b.TradeCount),
		strconv.Itoa(b.WinCount),
		rate(b.WinRate),
		money(b.PnL),
	}
}

func (c *CLI) renderPairAnalysis(pa *domain.PairAnalysis) error {
	c.section("Top pairs")
	if err := c.pairTable(pa.TopPairs); err != nil {
		return err
	}
	c.section("Worst pairs")
	return c.pairTable(pa.WorstPairs)
}

func (c *CLI) pairTable(pairs []domain.PairPerformance) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Trades", "Win rate", "P/L", "Avg win", "Avg loss")
	for _, p := range pairs {
		if err := table.Append(p.Symbol, strconv.Itoa(p.TradeCount), rate(p.WinRate), money(p.PnL), money(p.AvgWin), money(p.AvgLoss)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderBehaviorAnalysis(ba *domain.BehaviorAnalysis) error {
	h := ba.HoldTimeStats
	return c.keyValues([][2]string{
		{"Winners", strconv.Itoa(h.WinCount)},
		{"Losers", strconv.Itoa(h.LossCount)},
		{"Avg win hold", duration(h.AvgWinHoldTime)},
		{"Avg loss hold", duration(h.AvgLossHoldTime)},
		{"Median win hold", duration(h.MedianWinHoldTime)},
		{"Median loss hold", duration(h.MedianLossHoldTime)},
		{"Trades last 24h", strconv.Itoa(ba.TradesLast24h)},
		{"Revenge trading", yesNo(ba.RevengeTradingDetected)},
		{"Overtrading", yesNo(ba.OvertradingDetected)},
		{"Slippage impact", optFloat(ba.SlippageImpact)},
		{"Spread impact", optFloat(ba.SpreadImpact)},
	})
}

func (c *CLI) renderRiskAnalysis(ra *domain.RiskAnalysis) error {
	if err := c.keyValues([][2]string{
		{"Avg risk / trade", percent(ra.RiskPerTrade.AvgRiskPercent)},
		{"Min risk / trade", percent(ra.RiskPerTrade.MinRiskPercent)},
		{"Max risk / trade", percent(ra.RiskPerTrade.MaxRiskPercent)},
		{"Consecutive losses", strconv.Itoa(ra.ConsecutiveLosses)},
		{"Daily loss limit hit rate", rate(ra.DailyLossLimitHitRate)},
		{"Open trades", strconv.Itoa(ra.OpenTrades)},
		{"Floating P/L", money(ra.FloatingPnL)},
	}); err != nil {
		return err
	}

	c.section("Exposure by pair")
	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Volume", "Exposure")
	for _, e := range ra.ExposureByPair {
		if err := table.Append(e.Symbol, e.Volume.String(), percent(e.ExposurePercent)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderReport(r *domain.AnalyticsReport) error {
	c.section("== Summary ==")
	if err := c.renderSummary(r.Summary); err != nil {
		return err
	}
	c.section("== Time ==")
	if err := c.renderTimeAnalysis(r.Time); err != nil {
		return err
	}
	c.section("== Pairs ==")
	if err := c.renderPairAnalysis(r.Pairs); err != nil {
		return err
	}
	c.section("== Behavior ==")
	if err := c.renderBehaviorAnalysis(r.Behavior); err != nil {
		return err
	}
	c.section("== Risk ==")
	return c.renderRiskAnalysis(r.Risk)
}

func (c *CLI) renderPnlSeries(s *domain.PnlSeries) error {
	table := tablewriter.NewWriter(c.out)
	label := "Day"
	if s.Bucket == domain.BucketWeekly {
		label = "Week of"
	}
	table.Header(label, "P/L")
	for _, p := range s.Points {
		if err := table.Append(p.DayISO, money(p.PnL)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderEquitySeries(s *domain.EquitySeries) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("Day", "Equity")
	for _, p := range s.Points {
		if err := table.Append(p.DayISO, money(p.Equity)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *CLI) renderInsights(insights []domain.Insight) error {
	if len(insights) == 0 {
		fmt.Fprintln(c.out, "No insights yet")
		return nil
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Severity", "Type", "Title", "Message")
	for _, in := range insights {
		if err := table.Append(string(in.Severity), string(in.Type), in.Title, in.Message); err != nil {
			return err
		}
	}
	return table.Render()
}

// --- formatting ---

func money(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}

func optMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return money(d.Decimal)
}

func optDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// rate formats a 0..1 fraction as a percentage.
func rate(v float64) string {
	return percent(v * 100)
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optBool(v *bool) string {
	if v == nil {
		return "-"
	}
	return yesNo(*v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func duration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
