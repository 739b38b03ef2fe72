package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nmoreau/bankwatch/internal/domain"
)

var csvHeader = []string{"id", "client_id", "recipient_id", "amount", "type", "date", "timestamp", "status", "description"}

// WriteCSV serializes the transactions into the CSV schema consumed by the
// store, creating parent directories as needed.
func WriteCSV(txs []domain.Transaction, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range txs {
		recipient := ""
		if tx.RecipientID != nil {
			recipient = strconv.FormatInt(*tx.RecipientID, 10)
		}
		row := []string{
			strconv.FormatInt(tx.ID, 10),
			strconv.FormatInt(tx.ClientID, 10),
			recipient,
			tx.Amount.StringFixed(2),
			tx.Type,
			tx.Date,
			tx.Timestamp.UTC().Format(time.RFC3339),
			tx.Status,
			tx.Description,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for transaction %d: %w", tx.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
