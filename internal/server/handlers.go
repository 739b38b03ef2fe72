package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API. Handlers only parse
// parameters, call the services and encode responses; all query semantics
// live in the service layer.
type APIHandlers struct {
	logger       *slog.Logger
	transactions *service.TransactionService
	stats        *service.StatsService
	customers    *service.CustomerService
	fraud        *service.FraudService
	system       *service.SystemService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(
	logger *slog.Logger,
	transactions *service.TransactionService,
	stats *service.StatsService,
	customers *service.CustomerService,
	fraud *service.FraudService,
	system *service.SystemService,
) *APIHandlers {
	return &APIHandlers{
		logger:       logger,
		transactions: transactions,
		stats:        stats,
		customers:    customers,
		fraud:        fraud,
		system:       system,
	}
}

func (h *APIHandlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	meta := h.system.Metadata()
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Banking Transactions API",
		"version": meta.Version,
	})
}

func (h *APIHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	health := h.system.Health()
	status := http.StatusOK
	if !health.DataLoaded {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, map[string]string{"status": health.Status})
}

func (h *APIHandlers) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	h.listTransactions(w, r)
}

// handleTransactionSubtree dispatches /api/transactions/{...} routes:
// fixed segments first (types, recent, search, by-customer, to-customer),
// then the numeric identifier.
func (h *APIHandlers) handleTransactionSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/transactions/"), "/")

	switch {
	case rest == "types":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		respondJSON(w, http.StatusOK, h.transactions.Types())

	case rest == "recent":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.recentTransactions(w, r)

	case rest == "search":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.searchTransactions(w, r)

	case strings.HasPrefix(rest, "by-customer/"):
		h.transactionsForCustomer(w, r, strings.TrimPrefix(rest, "by-customer/"), h.transactions.ByCustomer)

	case strings.HasPrefix(rest, "to-customer/"):
		h.transactionsForCustomer(w, r, strings.TrimPrefix(rest, "to-customer/"), h.transactions.ToCustomer)

	default:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "transaction ID must be an integer")
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getTransaction(w, id)
		case http.MethodDelete:
			h.deleteTransaction(w, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodDelete)
		}
	}
}

func (h *APIHandlers) listTransactions(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	page, err := h.transactions.List(opts)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaginatedTransactions(page))
}

func (h *APIHandlers) searchTransactions(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := service.ListOptions{Page: req.Page, PageSize: req.PageSize}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.PageSize == 0 {
		opts.PageSize = 10
	}
	if f := req.Filters; f != nil {
		opts.Type = f.Type
		opts.Status = f.Status
		opts.ClientID = f.ClientID
		opts.RecipientID = f.RecipientID
		opts.StartDate = f.StartDate
		opts.EndDate = f.EndDate
		if f.MinAmount != nil {
			opts.MinAmount = decimal.NewNullDecimal(decimal.NewFromFloat(*f.MinAmount))
		}
		if f.MaxAmount != nil {
			opts.MaxAmount = decimal.NewNullDecimal(decimal.NewFromFloat(*f.MaxAmount))
		}
	}

	page, err := h.transactions.Search(req.Query, opts)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaginatedTransactions(page))
}

func (h *APIHandlers) getTransaction(w http.ResponseWriter, id int64) {
	tx, err := h.transactions.Get(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (h *APIHandlers) deleteTransaction(w http.ResponseWriter, id int64) {
	newly, err := h.transactions.Delete(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	message := "Transaction deleted successfully"
	if !newly {
		message = "Transaction already deleted"
	}
	respondJSON(w, http.StatusOK, deleteResponse{Message: message, ID: id})
}

func (h *APIHandlers) recentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 10)
	if err != nil {
		h.respondError(w, err)
		return
	}
	items, err := h.transactions.Recent(limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionList(items))
}

func (h *APIHandlers) transactionsForCustomer(w http.ResponseWriter, r *http.Request, rawID string, fetch func(int64) []domain.Transaction) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := strconv.ParseInt(strings.Trim(rawID, "/"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "customer ID must be an integer")
		return
	}
	respondJSON(w, http.StatusOK, toTransactionList(fetch(id)))
}

// respondError maps the service error taxonomy onto HTTP status codes.
func (h *APIHandlers) respondError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func listOptionsFromQuery(r *http.Request) (service.ListOptions, error) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		return service.ListOptions{}, err
	}
	pageSize, err := intQuery(r, "page_size", 10)
	if err != nil {
		return service.ListOptions{}, err
	}
	clientID, err := int64Query(r, "client_id")
	if err != nil {
		return service.ListOptions{}, err
	}
	recipientID, err := int64Query(r, "recipient_id")
	if err != nil {
		return service.ListOptions{}, err
	}
	minAmount, err := decimalQuery(r, "min_amount")
	if err != nil {
		return service.ListOptions{}, err
	}
	maxAmount, err := decimalQuery(r, "max_amount")
	if err != nil {
		return service.ListOptions{}, err
	}

	query := r.URL.Query()
	return service.ListOptions{
		Page:        page,
		PageSize:    pageSize,
		Type:        query.Get("type"),
		Status:      query.Get("status"),
		ClientID:    clientID,
		RecipientID: recipientID,
		MinAmount:   minAmount,
		MaxAmount:   maxAmount,
		StartDate:   query.Get("start_date"),
		EndDate:     query.Get("end_date"),
	}, nil
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return value, nil
}

func int64Query(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return value, nil
}

func decimalQuery(r *http.Request, name string) (decimal.NullDecimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, &service.ValidationError{Field: name, Message: "must be a number"}
	}
	return decimal.NewNullDecimal(value), nil
}
