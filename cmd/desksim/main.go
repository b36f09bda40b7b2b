// Command desksim plays batches of headless desks with the autopilot and
// prints the tallies.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/zeusync/deskcheck/internal/autopilot"
	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/injector"
	"github.com/zeusync/deskcheck/internal/ledger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "desksim:", err)
		os.Exit(1)
	}
}

func run() error {
	path := flag.String("config", "", "path to a YAML config file")
	sessions := flag.Int("sessions", 0, "number of desks; 0 keeps the configured value")
	rounds := flag.Int("rounds", 0, "decisions per desk; 0 keeps the configured value")
	mistakes := flag.Float64("mistake-rate", -1, "chance of a deliberate wrong call; negative keeps the configured value")
	db := flag.String("ledger", "", "record decisions to this SQLite file")
	asJSON := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	cfg, err := config.LoadFile(*path)
	if err != nil {
		return err
	}
	if *sessions > 0 {
		cfg.Autopilot.Sessions = *sessions
	}
	if *rounds > 0 {
		cfg.Autopilot.Rounds = *rounds
	}
	if *mistakes >= 0 {
		cfg.Autopilot.MistakeRate = *mistakes
	}
	if *db != "" {
		cfg.Ledger.Enabled = true
		cfg.Ledger.Path = *db
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var store *ledger.Store
	if cfg.Ledger.Enabled {
		if store, err = ledger.Open(cfg.Ledger.Path); err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := autopilot.RunBatch(ctx, cfg.Autopilot, injector.BatchBuilder(cfg, store, logger), logger)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return printTable(results)
}

func printTable(results []autopilot.Result) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSEED\tCORRECT\tMISTAKES\tFRAMES\tSIM TIME\tID")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.1fs\t%s\n",
			r.Index, r.Seed, r.Tally.Correct, r.Tally.Mistakes, r.Frames, r.SimTime, r.ID)
	}
	t := autopilot.Totals(results)
	fmt.Fprintf(w, "total\t\t%d\t%d\t\t\t\n", t.Correct, t.Mistakes)
	return w.Flush()
}
