package store

import "sync"

// Ledger is the tombstone set for soft-deleted transactions. Membership only
// grows for the lifetime of the process; there is no undelete.
//
// The generation counter increments with every newly added tombstone, inside
// the same critical section, so derived caches can detect that the live set
// changed since they were built and recompute before serving.
type Ledger struct {
	mu         sync.RWMutex
	tombstones map[int64]struct{}
	generation uint64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{tombstones: make(map[int64]struct{})}
}

// MarkDeleted tombstones the identifier and reports whether it was newly
// tombstoned. Repeat calls succeed and report false.
func (l *Ledger) MarkDeleted(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.tombstones[id]; exists {
		return false
	}
	l.tombstones[id] = struct{}{}
	l.generation++
	return true
}

// IsDeleted reports tombstone membership.
func (l *Ledger) IsDeleted(id int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.tombstones[id]
	return ok
}

// Count returns the number of tombstoned identifiers.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tombstones)
}

// Generation returns the current mutation counter. Equal generations imply
// an identical tombstone set.
func (l *Ledger) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}
