package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/graph"
)

func exportFixture(n int) []domain.Transaction {
	txs := make([]domain.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		tx := domain.Transaction{
			ID:       int64(i),
			ClientID: int64(100 + i%3),
			Amount:   amt("50.00"),
			Type:     "TRANSFER",
			Status:   "COMPLETED",
			Date:     "2024-03-01",
		}
		if i%2 == 0 {
			tx.RecipientID = ptr(int64(200 + i))
		}
		txs = append(txs, tx)
	}
	return txs
}

func TestExportBatches(t *testing.T) {
	client := graph.NewMemoryClient()
	exporter := NewGraphExporter(client, 2, 2)

	batchID, err := exporter.Export(context.Background(), exportFixture(5))
	require.NoError(t, err)
	require.NotEmpty(t, batchID)

	calls := client.WriteCalls()
	require.Len(t, calls, 3)

	total := 0
	for _, call := range calls {
		assert.Equal(t, batchID, call.Params["batchId"])
		rows, ok := call.Params["rows"].([]map[string]any)
		require.True(t, ok)
		total += len(rows)
		assert.LessOrEqual(t, len(rows), 2)
	}
	assert.Equal(t, 5, total)
}

func TestExportRowShape(t *testing.T) {
	client := graph.NewMemoryClient()
	exporter := NewGraphExporter(client, 1, 10)

	txs := exportFixture(2)
	_, err := exporter.Export(context.Background(), txs)
	require.NoError(t, err)

	calls := client.WriteCalls()
	require.Len(t, calls, 1)
	rows := calls[0].Params["rows"].([]map[string]any)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0]["transactionId"])
	assert.Nil(t, rows[0]["recipientId"])
	assert.Equal(t, 50.0, rows[0]["amount"])
	assert.Equal(t, "TRANSFER", rows[0]["type"])
	assert.Equal(t, *txs[1].RecipientID, rows[1]["recipientId"])
}

func TestExportEmpty(t *testing.T) {
	client := graph.NewMemoryClient()
	exporter := NewGraphExporter(client, 4, 500)

	batchID, err := exporter.Export(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, batchID)
	assert.Empty(t, client.WriteCalls())
}

func TestExportAccumulatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	client := graph.NewMemoryClient().WithError(boom)
	exporter := NewGraphExporter(client, 2, 1)

	_, err := exporter.Export(context.Background(), exportFixture(3))
	require.Error(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 3)
	assert.ErrorIs(t, taskErr.Errors[0], boom)
}

func TestExportCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := graph.NewMemoryClient()
	exporter := NewGraphExporter(client, 1, 1)

	_, err := exporter.Export(ctx, exportFixture(64))
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
