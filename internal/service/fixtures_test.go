package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

func ptr(v int64) *int64 { return &v }

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(day string, hour int) time.Time {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return ts.Add(time.Duration(hour) * time.Hour)
}

func mustStore(t *testing.T, records []domain.Transaction) *store.Store {
	t.Helper()
	s, err := store.New(records)
	require.NoError(t, err)
	return s
}

// fixtureStore returns a small dataset exercising every filter dimension.
// Date-descending order with id-descending tie-break is 6, 5, 4, 2, 3, 1.
func fixtureStore(t *testing.T) (*store.Store, *store.Ledger) {
	t.Helper()
	records := []domain.Transaction{
		{ID: 1, ClientID: 100, RecipientID: ptr(200), Amount: amt("25.00"), Type: "PURCHASE", Status: "COMPLETED", Date: "2024-03-01", Timestamp: at("2024-03-01", 8), Description: "Coffee shop"},
		{ID: 2, ClientID: 100, Amount: amt("999.99"), Type: "WITHDRAWAL", Status: "PENDING", Date: "2024-03-02", Timestamp: at("2024-03-02", 10)},
		{ID: 3, ClientID: 101, RecipientID: ptr(100), Amount: amt("150.00"), Type: "TRANSFER", Status: "COMPLETED", Date: "2024-03-01", Timestamp: at("2024-03-01", 9), Description: "Rent share"},
		{ID: 4, ClientID: 102, RecipientID: ptr(200), Amount: amt("600.00"), Type: "PAYMENT", Status: "COMPLETED", Date: "2024-03-03", Timestamp: at("2024-03-03", 10), Description: "Invoice 44"},
		{ID: 5, ClientID: 101, RecipientID: ptr(200), Amount: amt("10.00"), Type: "PURCHASE", Status: "COMPLETED", Date: "2024-03-03", Timestamp: at("2024-03-03", 11), Description: "Snacks"},
		{ID: 6, ClientID: 100, RecipientID: ptr(101), Amount: amt("75.50"), Type: "TRANSFER", Status: "FAILED", Date: "2024-03-04", Timestamp: at("2024-03-04", 9), Description: "Loan repayment"},
	}
	return mustStore(t, records), store.NewLedger()
}

func ids(txs []domain.Transaction) []int64 {
	out := make([]int64, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}
