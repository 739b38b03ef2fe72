package service

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

// CustomerService derives per-customer metrics from the live transaction
// set. Customers are never stored; the derived roll-up is cached per ledger
// generation and rebuilt after any deletion.
type CustomerService struct {
	store  *store.Store
	ledger *store.Ledger

	mu        sync.Mutex
	cached    []domain.Customer // sorted by id ascending
	cachedGen uint64
}

// NewCustomerService wires the service to the shared store and ledger.
func NewCustomerService(st *store.Store, ledger *store.Ledger) *CustomerService {
	return &CustomerService{store: st, ledger: ledger}
}

// List returns one page of derived customers, ordered by identifier
// ascending.
func (s *CustomerService) List(page, pageSize int) (domain.CustomerPage, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return domain.CustomerPage{}, err
	}

	customers := s.rollup()
	total := len(customers)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.CustomerPage{
		Items:      customers[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Get returns the derived record for a customer identifier. Identifiers that
// never appear as sender or recipient in the live set fail with
// NotFoundError.
func (s *CustomerService) Get(id int64) (domain.Customer, error) {
	customers := s.rollup()
	i := sort.Search(len(customers), func(i int) bool {
		return customers[i].ID >= id
	})
	if i < len(customers) && customers[i].ID == id {
		return customers[i], nil
	}
	return domain.Customer{}, notFound("customer", id)
}

// Top returns the limit best customers by the chosen metric, descending,
// with identifier-ascending tie-break for a fully deterministic order.
func (s *CustomerService) Top(limit int, metric string) ([]domain.Customer, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, invalid("limit", "must be between 1 and 100")
	}
	var value func(domain.Customer) decimal.Decimal
	switch metric {
	case domain.CustomerMetricCount:
		value = func(c domain.Customer) decimal.Decimal {
			return decimal.NewFromInt(int64(c.TransactionCount))
		}
	case domain.CustomerMetricSent:
		value = func(c domain.Customer) decimal.Decimal { return c.TotalSent }
	case domain.CustomerMetricReceived:
		value = func(c domain.Customer) decimal.Decimal { return c.TotalReceived }
	default:
		return nil, invalid("metric", "must be one of count, sent, received")
	}

	customers := s.rollup()
	ranked := make([]domain.Customer, len(customers))
	copy(ranked, customers)
	sort.Slice(ranked, func(a, b int) bool {
		cmp := value(ranked[a]).Cmp(value(ranked[b]))
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[a].ID < ranked[b].ID
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit], nil
}

func (s *CustomerService) rollup() []domain.Customer {
	gen := s.ledger.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.cachedGen == gen {
		return s.cached
	}

	byID := make(map[int64]*domain.Customer)
	lookup := func(id int64) *domain.Customer {
		c, ok := byID[id]
		if !ok {
			c = &domain.Customer{
				ID:            id,
				TotalSent:     decimal.Zero,
				TotalReceived: decimal.Zero,
				AverageSent:   decimal.Zero,
			}
			byID[id] = c
		}
		return c
	}

	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		sender := lookup(tx.ClientID)
		sender.TransactionCount++
		sender.TotalSent = sender.TotalSent.Add(tx.Amount)
		if tx.RecipientID != nil {
			recipient := lookup(*tx.RecipientID)
			recipient.TotalReceived = recipient.TotalReceived.Add(tx.Amount)
		}
	}

	customers := make([]domain.Customer, 0, len(byID))
	for _, c := range byID {
		if c.TransactionCount > 0 {
			c.AverageSent = c.TotalSent.Div(decimal.NewFromInt(int64(c.TransactionCount)))
		}
		customers = append(customers, *c)
	}
	sort.Slice(customers, func(a, b int) bool {
		return customers[a].ID < customers[b].ID
	})

	s.cached = customers
	s.cachedGen = gen
	return customers
}
