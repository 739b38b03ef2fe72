package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Overview aggregates global statistics over the live dataset.
type Overview struct {
	TotalTransactions int
	TotalAmount       decimal.Decimal
	AverageAmount     decimal.Decimal
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	UniqueCustomers   int
	ByStatus          map[string]int
}

// AmountBucket is a half-open amount interval [Low, High). A bucket without
// an upper bound is open-ended.
type AmountBucket struct {
	Low  decimal.Decimal
	High decimal.NullDecimal
}

// Contains reports whether the amount falls inside the bucket.
func (b AmountBucket) Contains(amount decimal.Decimal) bool {
	if amount.Cmp(b.Low) < 0 {
		return false
	}
	return !b.High.Valid || amount.Cmp(b.High.Decimal) < 0
}

// Label renders the bucket as "low-high" or "low+" for the open bucket.
func (b AmountBucket) Label() string {
	if !b.High.Valid {
		return fmt.Sprintf("%s+", b.Low.String())
	}
	return fmt.Sprintf("%s-%s", b.Low.String(), b.High.Decimal.String())
}

// BucketCount is one row of the amount distribution.
type BucketCount struct {
	Range      string
	Count      int
	Percentage float64
}

// TypeStats aggregates per transaction type.
type TypeStats struct {
	Type          string
	Count         int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
	Percentage    float64
}

// DailyStats aggregates per calendar day.
type DailyStats struct {
	Date          string
	Count         int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
}
