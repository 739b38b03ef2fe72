package domain

import "github.com/shopspring/decimal"

// Customer is derived on demand from the live transaction set; it is never
// stored or mutated as an entity of its own.
type Customer struct {
	ID               int64
	TransactionCount int
	TotalSent        decimal.Decimal
	TotalReceived    decimal.Decimal
	AverageSent      decimal.Decimal
}

// CustomerPage captures paginated customer list results.
type CustomerPage struct {
	Items      []Customer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Ranking metrics accepted by top-customer queries.
const (
	CustomerMetricCount    = "count"
	CustomerMetricSent     = "sent"
	CustomerMetricReceived = "received"
)
