// Package generator produces synthetic transaction datasets in the CSV
// schema consumed by the store. Generation is deterministic for a fixed
// seed so datasets are reproducible across runs.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
)

// Config controls dataset generation.
type Config struct {
	NumCustomers    int
	NumTransactions int
	Seed            int64
	// BaseDate anchors the generated date range; transactions are spread
	// over the two years preceding it.
	BaseDate time.Time
}

// DefaultConfig returns generation defaults suitable for local development.
func DefaultConfig() Config {
	return Config{
		NumCustomers:    500,
		NumTransactions: 10000,
		Seed:            42,
		BaseDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var (
	transactionTypes = []string{"PURCHASE", "PAYMENT", "TRANSFER", "WITHDRAWAL", "DEPOSIT"}
	statuses         = []string{"COMPLETED", "COMPLETED", "COMPLETED", "COMPLETED", "PENDING"}
)

// Generator produces synthetic transactions.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumCustomers <= 0 {
		cfg.NumCustomers = def.NumCustomers
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = def.NumTransactions
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = def.BaseDate
	}
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the configured number of transactions with sequential
// identifiers starting at 1.
func (g *Generator) Generate() []domain.Transaction {
	txs := make([]domain.Transaction, 0, g.cfg.NumTransactions)
	for i := 0; i < g.cfg.NumTransactions; i++ {
		id := int64(i + 1)
		clientID := int64(g.rand.Intn(g.cfg.NumCustomers) + 1)

		daysAgo := g.rand.Intn(730)
		secondOfDay := g.rand.Intn(86400)
		ts := g.cfg.BaseDate.AddDate(0, 0, -daysAgo).Add(time.Duration(secondOfDay) * time.Second)

		// Skewed amounts: mostly small, occasionally very large.
		amount := g.rand.Float64() * 500
		if g.rand.Intn(20) == 0 {
			amount = 1000 + g.rand.Float64()*24000
		}

		tx := domain.Transaction{
			ID:          id,
			ClientID:    clientID,
			Amount:      decimal.NewFromFloat(amount).Round(2),
			Type:        transactionTypes[g.rand.Intn(len(transactionTypes))],
			Status:      statuses[g.rand.Intn(len(statuses))],
			Date:        ts.Format("2006-01-02"),
			Timestamp:   ts,
			Description: fmt.Sprintf("Transaction %d for client %d", id, clientID),
		}

		// Withdrawals and deposits have no counterparty.
		if tx.Type != "WITHDRAWAL" && tx.Type != "DEPOSIT" {
			recipient := int64(g.rand.Intn(g.cfg.NumCustomers) + 1)
			if recipient == clientID {
				recipient = recipient%int64(g.cfg.NumCustomers) + 1
			}
			tx.RecipientID = &recipient
		}

		txs = append(txs, tx)
	}
	return txs
}
