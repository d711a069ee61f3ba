package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/utils"
)

var (
	dir    = flag.String("dir", "data", "directory holding trade CSV files")
	prefix = flag.String("prefix", "", "only read files whose name starts with prefix")
)

func main() {
	flag.Parse()

	// Find all trade files
	files, err := findTradeFiles(*dir, *prefix)
	if err != nil {
		log.Fatalf("Error finding trade files: %v", err)
	}

	if len(files) == 0 {
		log.Printf("No trade CSV files found in %s.", *dir)
		return
	}

	engine := analytics.NewEngine(analytics.DefaultConfig())
	if err := analyzeFiles(os.Stdout, engine, files); err != nil {
		log.Fatalf("Error rendering analysis: %v", err)
	}
}

// fileResult is the analysis of one CSV file.
type fileResult struct {
	name    string
	summary *domain.AnalyticsSummary
	pairs   *domain.PairAnalysis
}

// analyzeFiles prints a comparison table of all files, then the best and
// worst pairs of each. Unreadable files are reported and skipped.
func analyzeFiles(w io.Writer, engine *analytics.Engine, files []string) error {
	results := make([]fileResult, 0, len(files))
	for _, file := range files {
		trades, err := readTradeFile(file)
		if err != nil {
			log.Printf("Error reading trades from %s: %v", file, err)
			continue
		}
		results = append(results, fileResult{
			name:    filepath.Base(file),
			summary: engine.Summary(trades, domain.DateRange{}),
			pairs:   engine.PairAnalysis(trades),
		})
	}

	table := tablewriter.NewWriter(w)
	table.Header("File", "Trades", "WinRate", "AvgWin", "AvgLoss", "TotalPnL", "MaxDD", "PF")
	for _, r := range results {
		s := r.summary
		pf := "-"
		if s.ProfitFactor != nil {
			pf = fmt.Sprintf("%.2f", *s.ProfitFactor)
		}
		if err := table.Append(
			r.name,
			fmt.Sprintf("%d", s.TradeCount),
			fmt.Sprintf("%.2f", s.WinRate*100),
			nullMoney(s.AvgWin),
			nullMoney(s.AvgLoss),
			s.PnLTotal.StringFixed(2),
			s.MaxDrawdown.StringFixed(2),
			pf,
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Print pair breakdown
	fmt.Fprintln(w, "\n## Pair Analysis")
	for _, r := range results {
		fmt.Fprintf(w, "\nFile: %s\n", r.name)
		if len(r.pairs.TopPairs) == 0 {
			fmt.Fprintln(w, "No closed trades")
			continue
		}
		fmt.Fprintf(w, "Best:  %s\n", pairList(r.pairs.TopPairs))
		fmt.Fprintf(w, "Worst: %s\n", pairList(r.pairs.WorstPairs))
	}
	return nil
}

func readTradeFile(path string) ([]*domain.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return utils.ReadTradesCSV(f, uuid.Nil)
}

// findTradeFiles finds all trade CSV files in dir, sorted by name.
func findTradeFiles(dir, prefix string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func pairList(pairs []domain.PairPerformance) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s %s (%d)", p.Symbol, p.PnL.StringFixed(2), p.TradeCount))
	}
	return strings.Join(parts, ", ")
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
