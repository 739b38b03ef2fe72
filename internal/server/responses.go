package server

import (
	"time"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/service"
)

type transactionResponse struct {
	ID          int64             `json:"id"`
	ClientID    int64             `json:"client_id"`
	RecipientID *int64            `json:"recipient_id,omitempty"`
	Amount      float64           `json:"amount"`
	Type        string            `json:"type"`
	Status      string            `json:"status,omitempty"`
	Date        string            `json:"date"`
	Timestamp   string            `json:"timestamp"`
	Description string            `json:"description,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type paginatedTransactionsResponse struct {
	Items      []transactionResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

type deleteResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type overviewResponse struct {
	TotalTransactions    int            `json:"total_transactions"`
	TotalAmount          float64        `json:"total_amount"`
	AverageAmount        float64        `json:"average_amount"`
	MinAmount            float64        `json:"min_amount"`
	MaxAmount            float64        `json:"max_amount"`
	UniqueCustomers      int            `json:"unique_customers"`
	TransactionsByStatus map[string]int `json:"transactions_by_status"`
}

type bucketResponse struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type typeStatsResponse struct {
	Type          string  `json:"type"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
	Percentage    float64 `json:"percentage"`
}

type dailyStatsResponse struct {
	Date          string  `json:"date"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}

type customerResponse struct {
	ID               int64   `json:"id"`
	TransactionCount int     `json:"total_transactions"`
	TotalSent        float64 `json:"total_sent"`
	TotalReceived    float64 `json:"total_received"`
	AverageSent      float64 `json:"average_sent"`
}

type paginatedCustomersResponse struct {
	Items      []customerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type fraudSummaryResponse struct {
	TotalSuspicious int     `json:"total_suspicious"`
	TotalFlagged    int     `json:"total_flagged"`
	FraudRate       float64 `json:"fraud_rate"`
	AmountAtRisk    float64 `json:"total_amount_at_risk"`
}

type fraudTypeResponse struct {
	Type            string  `json:"type"`
	SuspiciousCount int     `json:"suspicious_count"`
	FlaggedCount    int     `json:"flagged_count"`
	TotalAmount     float64 `json:"total_amount"`
}

type predictRequest struct {
	TransactionID *int64   `json:"transaction_id"`
	ClientID      *int64   `json:"client_id"`
	RecipientID   *int64   `json:"recipient_id"`
	Amount        *float64 `json:"amount"`
	Type          string   `json:"transaction_type"`
}

type predictionResponse struct {
	IsSuspicious bool     `json:"is_suspicious"`
	RiskScore    float64  `json:"risk_score"`
	Confidence   float64  `json:"confidence"`
	Reasons      []string `json:"reasons"`
}

type searchRequest struct {
	Query    string         `json:"query"`
	Filters  *searchFilters `json:"filters"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type searchFilters struct {
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	ClientID    int64    `json:"client_id"`
	RecipientID int64    `json:"recipient_id"`
	MinAmount   *float64 `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

type healthResponse struct {
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	DataLoaded        bool   `json:"data_loaded"`
	TransactionsCount int    `json:"transactions_count"`
	TombstoneCount    int    `json:"tombstone_count"`
}

type metadataResponse struct {
	Version           string `json:"version"`
	Environment       string `json:"environment"`
	TotalTransactions int    `json:"total_transactions"`
	TotalCustomers    int    `json:"total_customers"`
	DataSource        string `json:"data_source"`
	LoadedAt          string `json:"last_updated"`
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		ClientID:    tx.ClientID,
		RecipientID: tx.RecipientID,
		Amount:      tx.Amount.InexactFloat64(),
		Type:        tx.Type,
		Status:      tx.Status,
		Date:        tx.Date,
		Timestamp:   tx.Timestamp.Format(time.RFC3339),
		Description: tx.Description,
		Extra:       tx.Extra,
	}
}

func toTransactionList(txs []domain.Transaction) []transactionResponse {
	items := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toTransactionResponse(tx))
	}
	return items
}

func toPaginatedTransactions(page domain.TransactionPage) paginatedTransactionsResponse {
	return paginatedTransactionsResponse{
		Items:      toTransactionList(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:               c.ID,
		TransactionCount: c.TransactionCount,
		TotalSent:        c.TotalSent.InexactFloat64(),
		TotalReceived:    c.TotalReceived.InexactFloat64(),
		AverageSent:      c.AverageSent.InexactFloat64(),
	}
}

func toHealthResponse(h service.SystemHealth) healthResponse {
	return healthResponse{
		Status:            h.Status,
		Timestamp:         h.Timestamp.Format(time.RFC3339),
		DataLoaded:        h.DataLoaded,
		TransactionsCount: h.TransactionsCount,
		TombstoneCount:    h.TombstoneCount,
	}
}

func toMetadataResponse(m service.SystemMetadata) metadataResponse {
	loadedAt := ""
	if !m.LoadedAt.IsZero() {
		loadedAt = m.LoadedAt.Format(time.RFC3339)
	}
	return metadataResponse{
		Version:           m.Version,
		Environment:       m.Environment,
		TotalTransactions: m.TotalTransactions,
		TotalCustomers:    m.TotalCustomers,
		DataSource:        m.DataSource,
		LoadedAt:          loadedAt,
	}
}
