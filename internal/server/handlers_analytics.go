package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
)

func (h *APIHandlers) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	overview := h.stats.Overview()
	respondJSON(w, http.StatusOK, overviewResponse{
		TotalTransactions:    overview.TotalTransactions,
		TotalAmount:          overview.TotalAmount.InexactFloat64(),
		AverageAmount:        overview.AverageAmount.InexactFloat64(),
		MinAmount:            overview.MinAmount.InexactFloat64(),
		MaxAmount:            overview.MaxAmount.InexactFloat64(),
		UniqueCustomers:      overview.UniqueCustomers,
		TransactionsByStatus: overview.ByStatus,
	})
}

func (h *APIHandlers) handleAmountDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	distribution := h.stats.AmountDistribution()
	items := make([]bucketResponse, 0, len(distribution))
	for _, b := range distribution {
		items = append(items, bucketResponse{Range: b.Range, Count: b.Count, Percentage: b.Percentage})
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleStatsByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.stats.ByType()
	items := make([]typeStatsResponse, 0, len(stats))
	for _, s := range stats {
		items = append(items, typeStatsResponse{
			Type:          s.Type,
			Count:         s.Count,
			TotalAmount:   s.TotalAmount.InexactFloat64(),
			AverageAmount: s.AverageAmount.InexactFloat64(),
			Percentage:    s.Percentage,
		})
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.stats.Daily()
	items := make([]dailyStatsResponse, 0, len(stats))
	for _, s := range stats {
		items = append(items, dailyStatsResponse{
			Date:          s.Date,
			Count:         s.Count,
			TotalAmount:   s.TotalAmount.InexactFloat64(),
			AverageAmount: s.AverageAmount.InexactFloat64(),
		})
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleFraudSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	summary := h.fraud.Summary()
	respondJSON(w, http.StatusOK, fraudSummaryResponse{
		TotalSuspicious: summary.TotalSuspicious,
		TotalFlagged:    summary.TotalFlagged,
		FraudRate:       summary.FraudRate,
		AmountAtRisk:    summary.AmountAtRisk.InexactFloat64(),
	})
}

func (h *APIHandlers) handleFraudByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.fraud.ByType()
	items := make([]fraudTypeResponse, 0, len(stats))
	for _, s := range stats {
		items = append(items, fraudTypeResponse{
			Type:            s.Type,
			SuspiciousCount: s.SuspiciousCount,
			FlaggedCount:    s.FlaggedCount,
			TotalAmount:     s.TotalAmount.InexactFloat64(),
		})
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleFraudPredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == nil {
		writeError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "transaction_type is required")
		return
	}

	candidate := domain.FraudCandidate{
		ClientID:    *req.ClientID,
		RecipientID: req.RecipientID,
		Amount:      decimal.NewFromFloat(*req.Amount),
		Type:        req.Type,
	}
	if req.TransactionID != nil {
		candidate.TransactionID = *req.TransactionID
	}

	prediction := h.fraud.Predict(candidate)
	respondJSON(w, http.StatusOK, predictionResponse{
		IsSuspicious: prediction.Suspicious,
		RiskScore:    prediction.RiskScore,
		Confidence:   prediction.Confidence,
		Reasons:      prediction.Reasons,
	})
}

func (h *APIHandlers) handleCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	page, err := intQuery(r, "page", 1)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pageSize, err := intQuery(r, "page_size", 10)
	if err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.customers.List(page, pageSize)
	if err != nil {
		h.respondError(w, err)
		return
	}
	items := make([]customerResponse, 0, len(result.Items))
	for _, c := range result.Items {
		items = append(items, toCustomerResponse(c))
	}
	respondJSON(w, http.StatusOK, paginatedCustomersResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *APIHandlers) handleCustomerSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/customers/"), "/")

	if rest == "top" {
		h.topCustomers(w, r)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "customer ID must be an integer")
		return
	}
	customer, err := h.customers.Get(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *APIHandlers) topCustomers(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 10)
	if err != nil {
		h.respondError(w, err)
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = domain.CustomerMetricSent
	}
	customers, err := h.customers.Top(limit, metric)
	if err != nil {
		h.respondError(w, err)
		return
	}
	items := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, toHealthResponse(h.system.Health()))
}

func (h *APIHandlers) handleSystemMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, toMetadataResponse(h.system.Metadata()))
}
