package domain

import "github.com/shopspring/decimal"

// FraudCandidate is a transaction-like input evaluated by the fraud rules.
// It does not have to reference a loaded record.
type FraudCandidate struct {
	TransactionID int64
	ClientID      int64
	RecipientID   *int64
	Amount        decimal.Decimal
	Type          string
}

// FraudPrediction is the outcome of evaluating a candidate against the
// current rule set and cached threshold.
type FraudPrediction struct {
	Suspicious bool
	RiskScore  float64
	Confidence float64
	Reasons    []string
}

// FraudSummary aggregates suspicion over the live dataset. A transaction is
// suspicious when at least one rule matches and flagged when two or more do.
type FraudSummary struct {
	TotalSuspicious int
	TotalFlagged    int
	FraudRate       float64
	AmountAtRisk    decimal.Decimal
}

// FraudTypeStats breaks the suspicion counts down by transaction type.
type FraudTypeStats struct {
	Type            string
	SuspiciousCount int
	FlaggedCount    int
	TotalAmount     decimal.Decimal
}
