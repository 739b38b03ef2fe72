package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

// FraudRules configures the deterministic suspicion heuristics.
type FraudRules struct {
	// AmountPercentile is the quantile of live amounts used as the
	// suspicion threshold, e.g. 0.95.
	AmountPercentile float64
	// HighPercentile marks the extreme-amount cut used for risk scoring.
	HighPercentile float64
	// SuspiciousTypes lists types that are suspicious at large amounts.
	SuspiciousTypes []string
	// LargeAmount is the floor above which a suspicious type matches.
	LargeAmount decimal.Decimal
	// MaxClientFrequency is the live transaction count per sender above
	// which the frequency rule matches.
	MaxClientFrequency int
	// MaxPairFrequency is the repeated sender-to-recipient count above
	// which the repetition rule matches.
	MaxPairFrequency int
}

// DefaultFraudRules mirrors the shipped rules file.
func DefaultFraudRules() FraudRules {
	return FraudRules{
		AmountPercentile:   0.95,
		HighPercentile:     0.99,
		SuspiciousTypes:    []string{"TRANSFER"},
		LargeAmount:        decimal.NewFromInt(10000),
		MaxClientFrequency: 50,
		MaxPairFrequency:   20,
	}
}

type pairKey struct {
	client    int64
	recipient int64
}

// fraudState is the per-generation cache backing every rule evaluation: the
// percentile thresholds plus sender and sender-recipient frequency maps.
type fraudState struct {
	gen          uint64
	threshold    decimal.Decimal
	highCut      decimal.Decimal
	clientCounts map[int64]int
	pairCounts   map[pairKey]int
	liveCount    int
}

// FraudService applies the deterministic rule set to individual candidates
// and to the dataset as a whole. The cached threshold is recomputed whenever
// the ledger has grown since it was built, so it never lags a completed
// deletion.
type FraudService struct {
	store  *store.Store
	ledger *store.Ledger
	rules  FraudRules

	suspiciousTypes map[string]struct{}

	mu    sync.Mutex
	state *fraudState
}

// NewFraudService wires the service to the shared store, ledger and rules.
func NewFraudService(st *store.Store, ledger *store.Ledger, rules FraudRules) *FraudService {
	types := make(map[string]struct{}, len(rules.SuspiciousTypes))
	for _, t := range rules.SuspiciousTypes {
		types[t] = struct{}{}
	}
	return &FraudService{
		store:           st,
		ledger:          ledger,
		rules:           rules,
		suspiciousTypes: types,
	}
}

// Threshold returns the cached amount percentile over the live dataset,
// zero when the live set is empty.
func (s *FraudService) Threshold() decimal.Decimal {
	return s.ensureState().threshold
}

// Summary counts suspicious (at least one rule) and flagged (two or more
// rules) live transactions and sums the flagged amounts.
func (s *FraudService) Summary() domain.FraudSummary {
	st := s.ensureState()
	summary := domain.FraudSummary{AmountAtRisk: decimal.Zero}
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		reasons := s.evaluate(candidateFrom(tx), st)
		if len(reasons) == 0 {
			continue
		}
		summary.TotalSuspicious++
		if len(reasons) >= 2 {
			summary.TotalFlagged++
			summary.AmountAtRisk = summary.AmountAtRisk.Add(tx.Amount)
		}
	}
	if st.liveCount > 0 {
		summary.FraudRate = math.Round(float64(summary.TotalSuspicious)/float64(st.liveCount)*100*100) / 100
	}
	return summary
}

// ByType breaks the suspicion counts down by transaction type, ordered by
// flagged count descending with type-ascending tie-break.
func (s *FraudService) ByType() []domain.FraudTypeStats {
	st := s.ensureState()
	groups := make(map[string]*domain.FraudTypeStats)
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		g, ok := groups[tx.Type]
		if !ok {
			g = &domain.FraudTypeStats{Type: tx.Type, TotalAmount: decimal.Zero}
			groups[tx.Type] = g
		}
		g.TotalAmount = g.TotalAmount.Add(tx.Amount)
		reasons := s.evaluate(candidateFrom(tx), st)
		if len(reasons) == 0 {
			continue
		}
		g.SuspiciousCount++
		if len(reasons) >= 2 {
			g.FlaggedCount++
		}
	}

	result := make([]domain.FraudTypeStats, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].FlaggedCount != result[b].FlaggedCount {
			return result[a].FlaggedCount > result[b].FlaggedCount
		}
		return result[a].Type < result[b].Type
	})
	return result
}

// Predict evaluates a candidate against the current threshold and rule set.
// For identical candidate input and unchanged ledger state the result is
// identical across calls.
func (s *FraudService) Predict(candidate domain.FraudCandidate) domain.FraudPrediction {
	st := s.ensureState()
	reasons := s.evaluate(candidate, st)

	risk := float64(len(reasons)) * 25
	if st.liveCount > 0 {
		if candidate.Amount.Cmp(st.threshold) > 0 {
			risk += 20
		}
		if candidate.Amount.Cmp(st.highCut) > 0 {
			risk += 30
		}
	}
	risk = math.Min(risk, 100)

	confidence := 10.0
	if len(reasons) > 0 {
		confidence = math.Min(float64(len(reasons))*30, 100)
	}

	prediction := domain.FraudPrediction{
		Suspicious: len(reasons) > 0,
		RiskScore:  risk,
		Confidence: confidence,
		Reasons:    reasons,
	}
	if len(reasons) == 0 {
		prediction.Reasons = []string{"No suspicious patterns detected"}
	}
	return prediction
}

func (s *FraudService) evaluate(candidate domain.FraudCandidate, st *fraudState) []string {
	var reasons []string
	if st.liveCount > 0 && candidate.Amount.Cmp(st.threshold) > 0 {
		reasons = append(reasons, fmt.Sprintf("Amount %s exceeds threshold %s",
			candidate.Amount.StringFixed(2), st.threshold.StringFixed(2)))
	}
	if st.clientCounts[candidate.ClientID] > s.rules.MaxClientFrequency {
		reasons = append(reasons, "High transaction frequency for this client")
	}
	if _, suspicious := s.suspiciousTypes[candidate.Type]; suspicious && candidate.Amount.Cmp(s.rules.LargeAmount) > 0 {
		reasons = append(reasons, fmt.Sprintf("Large %s transaction", strings.ToLower(candidate.Type)))
	}
	if candidate.RecipientID != nil {
		key := pairKey{client: candidate.ClientID, recipient: *candidate.RecipientID}
		if st.pairCounts[key] > s.rules.MaxPairFrequency {
			reasons = append(reasons, "Repeated transactions to same recipient")
		}
	}
	return reasons
}

func (s *FraudService) ensureState() *fraudState {
	gen := s.ledger.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil && s.state.gen == gen {
		return s.state
	}

	st := &fraudState{
		gen:          gen,
		threshold:    decimal.Zero,
		highCut:      decimal.Zero,
		clientCounts: make(map[int64]int),
		pairCounts:   make(map[pairKey]int),
	}

	amounts := make([]decimal.Decimal, 0, s.store.Len())
	for _, tx := range s.store.All() {
		if s.ledger.IsDeleted(tx.ID) {
			continue
		}
		st.liveCount++
		amounts = append(amounts, tx.Amount)
		st.clientCounts[tx.ClientID]++
		if tx.RecipientID != nil {
			st.pairCounts[pairKey{client: tx.ClientID, recipient: *tx.RecipientID}]++
		}
	}
	sort.Slice(amounts, func(a, b int) bool {
		return amounts[a].Cmp(amounts[b]) < 0
	})
	st.threshold = percentile(amounts, s.rules.AmountPercentile)
	st.highCut = percentile(amounts, s.rules.HighPercentile)

	s.state = st
	return st
}

func candidateFrom(tx domain.Transaction) domain.FraudCandidate {
	return domain.FraudCandidate{
		TransactionID: tx.ID,
		ClientID:      tx.ClientID,
		RecipientID:   tx.RecipientID,
		Amount:        tx.Amount,
		Type:          tx.Type,
	}
}

// percentile interpolates linearly between order statistics of the sorted
// amounts; an empty slice yields zero.
func percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= n {
		return sorted[n-1]
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := decimal.NewFromFloat(rank - float64(lo))
	return sorted[lo].Add(sorted[hi].Sub(sorted[lo]).Mul(frac))
}
