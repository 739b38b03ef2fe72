package generator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/bankwatch/internal/store"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{NumCustomers: 20, NumTransactions: 200, Seed: 7}

	first := New(cfg).Generate()
	second := New(cfg).Generate()
	require.Len(t, first, 200)
	assert.Equal(t, first, second)

	different := New(Config{NumCustomers: 20, NumTransactions: 200, Seed: 8}).Generate()
	assert.NotEqual(t, first, different)
}

func TestGenerateShape(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := New(Config{NumCustomers: 10, NumTransactions: 500, Seed: 1, BaseDate: base}).Generate()

	floor := base.AddDate(0, 0, -730)
	for i, tx := range txs {
		assert.Equal(t, int64(i+1), tx.ID)
		assert.GreaterOrEqual(t, tx.ClientID, int64(1))
		assert.LessOrEqual(t, tx.ClientID, int64(10))
		assert.False(t, tx.Amount.IsNegative())
		assert.NotEmpty(t, tx.Type)
		assert.NotEmpty(t, tx.Status)
		assert.Equal(t, tx.Timestamp.Format("2006-01-02"), tx.Date)
		assert.False(t, tx.Timestamp.Before(floor), "timestamp %s before range", tx.Timestamp)

		if tx.Type == "WITHDRAWAL" || tx.Type == "DEPOSIT" {
			assert.Nil(t, tx.RecipientID)
		} else {
			require.NotNil(t, tx.RecipientID)
			assert.NotEqual(t, tx.ClientID, *tx.RecipientID)
		}
	}
}

func TestGenerateDefaults(t *testing.T) {
	txs := New(Config{NumCustomers: 5, NumTransactions: 50}).Generate()
	require.Len(t, txs, 50)

	// Zero seed falls back to the default, so runs stay reproducible.
	again := New(Config{NumCustomers: 5, NumTransactions: 50}).Generate()
	assert.Equal(t, txs, again)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	txs := New(Config{NumCustomers: 10, NumTransactions: 100, Seed: 3}).Generate()

	path := filepath.Join(t.TempDir(), "generated.csv")
	require.NoError(t, WriteCSV(txs, path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	require.Equal(t, len(txs), loaded.Len())

	for _, tx := range txs {
		got, ok := loaded.ByID(tx.ID)
		require.True(t, ok)
		assert.Equal(t, tx.ClientID, got.ClientID)
		assert.Equal(t, tx.Type, got.Type)
		assert.Equal(t, tx.Status, got.Status)
		assert.Equal(t, tx.Date, got.Date)
		assert.True(t, got.Amount.Equal(tx.Amount.Round(2)), "amount %s vs %s", got.Amount, tx.Amount)
		if tx.RecipientID == nil {
			assert.Nil(t, got.RecipientID)
		} else {
			require.NotNil(t, got.RecipientID)
			assert.Equal(t, *tx.RecipientID, *got.RecipientID)
		}
	}
}
