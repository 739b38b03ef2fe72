package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/graph"
)

// TaskError accumulates multiple errors produced during a bulk export.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// GraphExporter mirrors the loaded dataset into a graph database using a
// worker pool, one UNWIND batch per write. Every run is tagged with a batch
// id so repeated exports stay distinguishable in the graph.
type GraphExporter struct {
	client    graph.Client
	workers   int
	batchSize int
}

// NewGraphExporter creates a GraphExporter with the provided concurrency
// and batch size.
func NewGraphExporter(client graph.Client, workers, batchSize int) *GraphExporter {
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &GraphExporter{
		client:    client,
		workers:   workers,
		batchSize: batchSize,
	}
}

// Export pushes the transactions into the graph as customer nodes linked by
// SENT_TO edges and returns the batch tag applied to this run.
func (ge *GraphExporter) Export(ctx context.Context, txs []domain.Transaction) (string, error) {
	batchID := uuid.NewString()

	var batches [][]domain.Transaction
	for start := 0; start < len(txs); start += ge.batchSize {
		end := start + ge.batchSize
		if end > len(txs) {
			end = len(txs)
		}
		batches = append(batches, txs[start:end])
	}

	err := ge.run(ctx, len(batches), func(idx int) error {
		return ge.client.ExecuteWrite(ctx, exportBatchCypher, map[string]any{
			"batchId": batchID,
			"rows":    batchRows(batches[idx]),
		})
	})
	return batchID, err
}

func (ge *GraphExporter) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < ge.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

func batchRows(txs []domain.Transaction) []map[string]any {
	rows := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		row := map[string]any{
			"transactionId": tx.ID,
			"clientId":      tx.ClientID,
			"amount":        tx.Amount.InexactFloat64(),
			"type":          tx.Type,
			"status":        tx.Status,
			"date":          tx.Date,
		}
		if tx.RecipientID != nil {
			row["recipientId"] = *tx.RecipientID
		} else {
			row["recipientId"] = nil
		}
		rows = append(rows, row)
	}
	return rows
}

const exportBatchCypher = `
UNWIND $rows AS row
MERGE (sender:Customer {customerId: row.clientId})
MERGE (t:Transaction {transactionId: row.transactionId})
SET t.amount = row.amount,
    t.type = row.type,
    t.status = row.status,
    t.date = row.date,
    t.batchId = $batchId
MERGE (sender)-[:INITIATED]->(t)
FOREACH (_ IN CASE WHEN row.recipientId IS NULL THEN [] ELSE [1] END |
	MERGE (recipient:Customer {customerId: row.recipientId})
	MERGE (t)-[:CREDITED]->(recipient)
	MERGE (sender)-[st:SENT_TO {transactionId: row.transactionId}]->(recipient)
	SET st.amount = row.amount,
	    st.date = row.date
)
`
