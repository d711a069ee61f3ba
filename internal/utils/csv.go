package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// TradeCSVHeader is the column layout written by WriteTradesCSV.
var TradeCSVHeader = []string{
	"id", "account_id", "symbol", "side", "open_time", "close_time", "volume",
	"open_price", "close_price", "stop_loss", "take_profit", "commission", "swap", "profit",
}

var requiredColumns = []string{"symbol", "side", "open_time"}

var validate = validator.New()

// tradeRow is one CSV record before conversion.
type tradeRow struct {
	Symbol string `validate:"required,max=32"`
	Side   string `validate:"required,oneof=buy sell"`
}

// WriteTradesToCSV writes trades to filename, replacing it. Missing parent
// directories are created.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteTradesCSV(file, trades)
}

// WriteTradesCSV writes a header row followed by one row per trade.
// Times are RFC3339 UTC; absent values are empty cells.
func WriteTradesCSV(w io.Writer, trades []*domain.Trade) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(TradeCSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		closeTime := ""
		if t.CloseTime != nil {
			closeTime = t.CloseTime.UTC().Format(time.RFC3339)
		}
		record := []string{
			t.ID.String(),
			t.AccountID.String(),
			t.Symbol,
			string(t.Side),
			t.OpenTime.UTC().Format(time.RFC3339),
			closeTime,
			formatDecimal(t.Volume),
			formatDecimal(t.OpenPrice),
			formatDecimal(t.ClosePrice),
			formatDecimal(t.StopLoss),
			formatDecimal(t.TakeProfit),
			formatDecimal(t.Commission),
			formatDecimal(t.Swap),
			formatDecimal(t.Profit),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadTradesCSV parses trades for accountID. Columns are matched by header
// name; symbol, side and open_time are required. A missing or blank id gets a
// fresh UUID. Any invalid row fails the whole read with ports.ErrInvalidRecord.
func ReadTradesCSV(r io.Reader, accountID uuid.UUID) ([]*domain.Trade, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ports.ErrInvalidRecord)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, ports.ErrInvalidRecord)
		}
	}

	trades := make([]*domain.Trade, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ports.ErrInvalidRecord, err)
		}

		cell := func(name string) string {
			if i, ok := cols[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		t, err := parseTradeRow(cell, accountID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ports.ErrInvalidRecord, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func parseTradeRow(cell func(string) string, accountID uuid.UUID) (*domain.Trade, error) {
	row := tradeRow{
		Symbol: strings.ToUpper(cell("symbol")),
		Side:   strings.ToLower(cell("side")),
	}
	if err := validate.Struct(row); err != nil {
		return nil, describeValidation(err)
	}

	t := &domain.Trade{
		ID:        uuid.New(),
		AccountID: accountID,
		Symbol:    row.Symbol,
		Side:      domain.TradeSide(row.Side),
	}
	if raw := cell("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("id: %v", err)
		}
		t.ID = id
	}

	openTime, err := time.Parse(time.RFC3339, cell("open_time"))
	if err != nil {
		return nil, fmt.Errorf("open_time: %v", err)
	}
	if !domain.ValidTradeTime(openTime) {
		return nil, fmt.Errorf("open_time %s is outside the supported range", cell("open_time"))
	}
	t.OpenTime = openTime.UTC()

	if raw := cell("close_time"); raw != "" {
		closeTime, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("close_time: %v", err)
		}
		if !domain.ValidTradeTime(closeTime) {
			return nil, fmt.Errorf("close_time %s is outside the supported range", raw)
		}
		if closeTime.Before(openTime) {
			return nil, fmt.Errorf("close_time %s is before open_time %s", raw, cell("open_time"))
		}
		t.CloseTime = domain.TimePtr(closeTime.UTC())
	}

	decimals := []struct {
		column string
		dst    *decimal.NullDecimal
	}{
		{"volume", &t.Volume},
		{"open_price", &t.OpenPrice},
		{"close_price", &t.ClosePrice},
		{"stop_loss", &t.StopLoss},
		{"take_profit", &t.TakeProfit},
		{"commission", &t.Commission},
		{"swap", &t.Swap},
		{"profit", &t.Profit},
	}
	for _, d := range decimals {
		v, err := parseDecimal(cell(d.column))
		if err != nil {
			return nil, fmt.Errorf("%s: %v", d.column, err)
		}
		*d.dst = v
	}
	if t.Volume.Valid && t.Volume.Decimal.IsNegative() {
		return nil, fmt.Errorf("volume must not be negative")
	}
	return t, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func parseDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return domain.Dec(d), nil
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
