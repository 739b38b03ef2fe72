package service

import (
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

// StatsService computes aggregate statistics over the live dataset. The
// overview snapshot is cached per ledger generation, so a deletion that
// completed before a call is always reflected in its response.
type StatsService struct {
	store   *store.Store
	ledger  *store.Ledger
	buckets []domain.AmountBucket

	mu        sync.Mutex
	cached    *domain.Overview
	cachedGen uint64
}

// NewStatsService wires the service to the shared store, ledger and the
// configured distribution buckets.
func NewStatsService(st *store.Store, ledger *store.Ledger, buckets []domain.AmountBucket) *StatsService {
	return &StatsService{store: st, ledger: ledger, buckets: buckets}
}

// Overview returns count, sum, mean, min and max of amount plus the distinct
// customer count over live rows. An empty live set yields zero values.
func (s *StatsService) Overview() domain.Overview {
	gen := s.ledger.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.cachedGen == gen {
		return *s.cached
	}

	overview := domain.Overview{
		TotalAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
		MinAmount:     decimal.Zero,
		MaxAmount:     decimal.Zero,
		ByStatus:      make(map[string]int),
	}
	customers := make(map[int64]struct{})
	first := true
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		overview.TotalTransactions++
		overview.TotalAmount = overview.TotalAmount.Add(tx.Amount)
		if first || tx.Amount.Cmp(overview.MinAmount) < 0 {
			overview.MinAmount = tx.Amount
		}
		if first || tx.Amount.Cmp(overview.MaxAmount) > 0 {
			overview.MaxAmount = tx.Amount
		}
		first = false
		customers[tx.ClientID] = struct{}{}
		if tx.Status != "" {
			overview.ByStatus[tx.Status]++
		}
	}
	overview.UniqueCustomers = len(customers)
	if overview.TotalTransactions > 0 {
		overview.AverageAmount = overview.TotalAmount.Div(decimal.NewFromInt(int64(overview.TotalTransactions)))
	}

	s.cached = &overview
	s.cachedGen = gen
	return overview
}

// AmountDistribution counts live rows per configured bucket. Buckets are
// half-open intervals with the final bucket open-ended, so every amount
// falls into exactly one bucket.
func (s *StatsService) AmountDistribution() []domain.BucketCount {
	counts := make([]int, len(s.buckets))
	total := 0
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		total++
		for i, bucket := range s.buckets {
			if bucket.Contains(tx.Amount) {
				counts[i]++
				break
			}
		}
	}

	result := make([]domain.BucketCount, len(s.buckets))
	for i, bucket := range s.buckets {
		result[i] = domain.BucketCount{
			Range:      bucket.Label(),
			Count:      counts[i],
			Percentage: percentageOf(counts[i], total),
		}
	}
	return result
}

// ByType returns per-type count, sum and mean over live rows, ordered by
// count descending with type-ascending tie-break.
func (s *StatsService) ByType() []domain.TypeStats {
	type group struct {
		count int
		total decimal.Decimal
	}
	groups := make(map[string]*group)
	total := 0
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		total++
		g, ok := groups[tx.Type]
		if !ok {
			g = &group{total: decimal.Zero}
			groups[tx.Type] = g
		}
		g.count++
		g.total = g.total.Add(tx.Amount)
	}

	result := make([]domain.TypeStats, 0, len(groups))
	for txType, g := range groups {
		result = append(result, domain.TypeStats{
			Type:          txType,
			Count:         g.count,
			TotalAmount:   g.total,
			AverageAmount: g.total.Div(decimal.NewFromInt(int64(g.count))),
			Percentage:    percentageOf(g.count, total),
		})
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].Count != result[b].Count {
			return result[a].Count > result[b].Count
		}
		return result[a].Type < result[b].Type
	})
	return result
}

// Daily returns per-calendar-day count, sum and mean over live rows, sorted
// chronologically ascending.
func (s *StatsService) Daily() []domain.DailyStats {
	type group struct {
		count int
		total decimal.Decimal
	}
	groups := make(map[string]*group)
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		g, ok := groups[tx.Date]
		if !ok {
			g = &group{total: decimal.Zero}
			groups[tx.Date] = g
		}
		g.count++
		g.total = g.total.Add(tx.Amount)
	}

	result := make([]domain.DailyStats, 0, len(groups))
	for date, g := range groups {
		result = append(result, domain.DailyStats{
			Date:          date,
			Count:         g.count,
			TotalAmount:   g.total,
			AverageAmount: g.total.Div(decimal.NewFromInt(int64(g.count))),
		})
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].Date < result[b].Date
	})
	return result
}

func percentageOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
