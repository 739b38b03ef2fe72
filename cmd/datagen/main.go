package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nmoreau/bankwatch/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		customers    = flag.Int("customers", cfg.NumCustomers, "number of distinct customers")
		transactions = flag.Int("transactions", cfg.NumTransactions, "number of transactions to generate")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		baseDate     = flag.String("base-date", cfg.BaseDate.Format("2006-01-02"), "anchor date; transactions spread over the two preceding years")
		output       = flag.String("output", "data/transactions.csv", "path of the CSV file to write")
	)
	flag.Parse()

	anchor, err := time.Parse("2006-01-02", *baseDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid base date %q: %v\n", *baseDate, err)
		os.Exit(1)
	}

	gen := generator.New(generator.Config{
		NumCustomers:    *customers,
		NumTransactions: *transactions,
		Seed:            *seed,
		BaseDate:        anchor,
	})

	txs := gen.Generate()
	if err := generator.WriteCSV(txs, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d transactions for %d customers into %s\n", len(txs), *customers, *output)
}
