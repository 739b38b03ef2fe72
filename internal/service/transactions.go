// Package service implements the operations exposed to the transport layer:
// transaction queries, aggregations, customer roll-ups, fraud heuristics and
// system status. Parameters and results are plain values; errors follow the
// LoadError/NotFoundError/ValidationError taxonomy.
package service

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

// Pagination bounds shared by every paginated operation.
const (
	MaxPageSize = 100
	MaxLimit    = 100
)

// ListOptions defines filters and pagination for transaction listing. All
// filters are optional and combined with AND semantics; zero values disable
// a filter.
type ListOptions struct {
	Page        int
	PageSize    int
	Type        string
	Status      string
	ClientID    int64
	RecipientID int64
	MinAmount   decimal.NullDecimal
	MaxAmount   decimal.NullDecimal
	StartDate   string
	EndDate     string
}

// TransactionService serves filtered, paginated and direct-lookup access to
// the live dataset, and owns the delete operation.
type TransactionService struct {
	store  *store.Store
	ledger *store.Ledger
}

// NewTransactionService wires the service to the shared store and ledger.
func NewTransactionService(st *store.Store, ledger *store.Ledger) *TransactionService {
	return &TransactionService{store: st, ledger: ledger}
}

// List returns one page of live transactions matching the filters, ordered
// by date descending with identifier-descending tie-break. The ordering is a
// total order, so repeated calls over an unchanged ledger paginate stably.
func (s *TransactionService) List(opts ListOptions) (domain.TransactionPage, error) {
	return s.page(opts, "")
}

// Search applies the same filters as List plus a case-insensitive substring
// match on description and type.
func (s *TransactionService) Search(query string, opts ListOptions) (domain.TransactionPage, error) {
	return s.page(opts, strings.ToLower(strings.TrimSpace(query)))
}

func (s *TransactionService) page(opts ListOptions, query string) (domain.TransactionPage, error) {
	if err := validatePagination(opts.Page, opts.PageSize); err != nil {
		return domain.TransactionPage{}, err
	}
	match, err := buildMatcher(opts, query)
	if err != nil {
		return domain.TransactionPage{}, err
	}

	records := s.store.All()
	start := (opts.Page - 1) * opts.PageSize
	items := make([]domain.Transaction, 0, opts.PageSize)
	total := 0
	for _, idx := range s.store.OrderedByDateDesc() {
		tx := records[idx]
		if s.ledger.IsDeleted(tx.ID) || !match(tx) {
			continue
		}
		if total >= start && len(items) < opts.PageSize {
			items = append(items, tx)
		}
		total++
	}

	return domain.TransactionPage{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: (total + opts.PageSize - 1) / opts.PageSize,
	}, nil
}

// Get returns the live transaction for the identifier. Unknown and
// tombstoned identifiers both surface as NotFoundError.
func (s *TransactionService) Get(id int64) (domain.Transaction, error) {
	tx, ok := s.store.ByID(id)
	if !ok || s.ledger.IsDeleted(id) {
		return domain.Transaction{}, notFound("transaction", id)
	}
	return tx, nil
}

// Types returns the sorted distinct types present in the live dataset.
func (s *TransactionService) Types() []string {
	seen := make(map[string]struct{})
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		seen[tx.Type] = struct{}{}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Recent returns the limit most recent live transactions by timestamp
// descending, with identifier-descending tie-break.
func (s *TransactionService) Recent(limit int) ([]domain.Transaction, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, invalid("limit", "must be between 1 and 100")
	}
	records := s.store.All()
	items := make([]domain.Transaction, 0, limit)
	for _, idx := range s.store.OrderedByTimeDesc() {
		tx := records[idx]
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		items = append(items, tx)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

// Delete tombstones the transaction. It reports whether the identifier was
// newly tombstoned; deleting an already-deleted transaction succeeds and
// reports false. Unknown identifiers fail with NotFoundError.
func (s *TransactionService) Delete(id int64) (bool, error) {
	if !s.store.Contains(id) {
		return false, notFound("transaction", id)
	}
	return s.ledger.MarkDeleted(id), nil
}

// ByCustomer returns all live transactions sent by the customer, date
// descending.
func (s *TransactionService) ByCustomer(customerID int64) []domain.Transaction {
	return s.collect(func(tx domain.Transaction) bool {
		return tx.ClientID == customerID
	})
}

// ToCustomer returns all live transactions received by the customer, date
// descending.
func (s *TransactionService) ToCustomer(customerID int64) []domain.Transaction {
	return s.collect(func(tx domain.Transaction) bool {
		return tx.RecipientID != nil && *tx.RecipientID == customerID
	})
}

func (s *TransactionService) collect(match func(domain.Transaction) bool) []domain.Transaction {
	records := s.store.All()
	var items []domain.Transaction
	for _, idx := range s.store.OrderedByDateDesc() {
		tx := records[idx]
		if s.ledger.IsDeleted(tx.ID) || !match(tx) {
			continue
		}
		items = append(items, tx)
	}
	return items
}

func validatePagination(page, pageSize int) error {
	if page < 1 {
		return invalid("page", "must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return invalid("page_size", "must be between 1 and 100")
	}
	return nil
}

func buildMatcher(opts ListOptions, query string) (func(domain.Transaction) bool, error) {
	if opts.MinAmount.Valid && opts.MinAmount.Decimal.IsNegative() {
		return nil, invalid("min_amount", "must not be negative")
	}
	if opts.MaxAmount.Valid && opts.MaxAmount.Decimal.IsNegative() {
		return nil, invalid("max_amount", "must not be negative")
	}
	if err := validateDate("start_date", opts.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate("end_date", opts.EndDate); err != nil {
		return nil, err
	}

	return func(tx domain.Transaction) bool {
		if opts.Type != "" && tx.Type != opts.Type {
			return false
		}
		if opts.Status != "" && tx.Status != opts.Status {
			return false
		}
		if opts.ClientID != 0 && tx.ClientID != opts.ClientID {
			return false
		}
		if opts.RecipientID != 0 && (tx.RecipientID == nil || *tx.RecipientID != opts.RecipientID) {
			return false
		}
		if opts.MinAmount.Valid && tx.Amount.Cmp(opts.MinAmount.Decimal) < 0 {
			return false
		}
		if opts.MaxAmount.Valid && tx.Amount.Cmp(opts.MaxAmount.Decimal) > 0 {
			return false
		}
		if opts.StartDate != "" && tx.Date < opts.StartDate {
			return false
		}
		if opts.EndDate != "" && tx.Date > opts.EndDate {
			return false
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.Description), query) &&
			!strings.Contains(strings.ToLower(tx.Type), query) {
			return false
		}
		return true
	}, nil
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return invalid(field, "must be formatted as YYYY-MM-DD")
	}
	return nil
}
