package service

import (
	"time"

	"github.com/nmoreau/bankwatch/internal/store"
)

// SystemHealth reports whether the dataset is loaded and how much of it is
// live.
type SystemHealth struct {
	Status            string
	DataLoaded        bool
	TransactionsCount int
	TombstoneCount    int
	Timestamp         time.Time
}

// SystemMetadata describes the running process and the loaded dataset.
type SystemMetadata struct {
	Version           string
	Environment       string
	TotalTransactions int
	TotalCustomers    int
	DataSource        string
	LoadedAt          time.Time
}

// SystemService reports load status and dataset metadata.
type SystemService struct {
	store       *store.Store
	ledger      *store.Ledger
	version     string
	environment string
}

// NewSystemService wires the reporter to the shared store and ledger.
func NewSystemService(st *store.Store, ledger *store.Ledger, version, environment string) *SystemService {
	return &SystemService{store: st, ledger: ledger, version: version, environment: environment}
}

// Health returns the load status, the live row count and the tombstone
// count.
func (s *SystemService) Health() SystemHealth {
	health := SystemHealth{
		Status:    "ERROR",
		Timestamp: time.Now().UTC(),
	}
	if s.store != nil {
		tombstones := s.ledger.Count()
		health.Status = "OK"
		health.DataLoaded = true
		health.TransactionsCount = s.store.Len() - tombstones
		health.TombstoneCount = tombstones
	}
	return health
}

// Metadata returns version and environment labels plus dataset totals. The
// transaction total includes tombstoned rows.
func (s *SystemService) Metadata() SystemMetadata {
	meta := SystemMetadata{
		Version:     s.version,
		Environment: s.environment,
	}
	if s.store == nil {
		return meta
	}
	customers := make(map[int64]struct{})
	for _, tx := range s.store.All() {
		customers[tx.ClientID] = struct{}{}
	}
	meta.TotalTransactions = s.store.Len()
	meta.TotalCustomers = len(customers)
	meta.DataSource = s.store.Source()
	meta.LoadedAt = s.store.LoadedAt()
	return meta
}
