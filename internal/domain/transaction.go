package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single loaded transaction record. Records are immutable
// once the dataset is loaded; deletion is tracked separately as a tombstone.
type Transaction struct {
	ID          int64
	ClientID    int64
	RecipientID *int64
	Amount      decimal.Decimal
	Type        string
	Status      string
	Date        string // YYYY-MM-DD, validated at load time
	Timestamp   time.Time
	Description string
	Extra       map[string]string
}

// HasRecipient reports whether the transaction carries a destination customer.
func (t Transaction) HasRecipient() bool {
	return t.RecipientID != nil
}

// TransactionPage captures paginated transaction list results.
type TransactionPage struct {
	Items      []Transaction
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
