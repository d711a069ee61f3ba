package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/adapters/memory"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/utils"
)

var (
	seed   = flag.Int64("seed", 42, "random seed")
	days   = flag.Int("days", 30, "days of history ending now")
	outDir = flag.String("out", "data", "output directory")
	level  = flag.String("log-level", "INFO", "log level")
)

func main() {
	flag.Parse()

	// 1. Initialize Logger
	appLogger := logger.NewStdLogger(logger.ParseLevel(*level))
	ctx := context.Background()

	if *days <= 0 {
		log.Fatalf("FATAL: -days must be positive, got %d", *days)
	}

	// 2. Generate history for one synthetic account
	gen := memory.NewGenerator(*seed)
	end := time.Now().UTC()
	accountID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("generated-%d", *seed)))

	trades, notes := gen.History(accountID, end, *days)
	trades = append(trades, gen.OpenTrades(accountID, end)...)
	appLogger.Info(ctx, "Generated trades", ports.Fields{"count": len(trades), "annotated": len(notes), "seed": *seed})

	// 3. Write CSV
	start := end.AddDate(0, 0, -*days)
	filename := filepath.Join(*outDir, fmt.Sprintf("trades_seed%d_%s_to_%s.csv", *seed, start.Format("20060102"), end.Format("20060102")))
	if err := utils.WriteTradesToCSV(trades, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved to", ports.Fields{"filename": filename})
}
