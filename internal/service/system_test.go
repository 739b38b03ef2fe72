package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemHealth(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewSystemService(st, ledger, "1.2.3", "dev")

	health := svc.Health()
	assert.Equal(t, "OK", health.Status)
	assert.True(t, health.DataLoaded)
	assert.Equal(t, 6, health.TransactionsCount)
	assert.Equal(t, 0, health.TombstoneCount)
	assert.False(t, health.Timestamp.IsZero())

	ledger.MarkDeleted(1)
	ledger.MarkDeleted(2)
	health = svc.Health()
	assert.Equal(t, 4, health.TransactionsCount)
	assert.Equal(t, 2, health.TombstoneCount)
}

func TestSystemHealthWithoutStore(t *testing.T) {
	svc := NewSystemService(nil, nil, "1.2.3", "dev")

	health := svc.Health()
	assert.Equal(t, "ERROR", health.Status)
	assert.False(t, health.DataLoaded)
}

func TestSystemMetadata(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewSystemService(st, ledger, "1.2.3", "prod")

	meta := svc.Metadata()
	assert.Equal(t, "1.2.3", meta.Version)
	assert.Equal(t, "prod", meta.Environment)
	assert.Equal(t, 6, meta.TotalTransactions)
	assert.Equal(t, 3, meta.TotalCustomers)
	assert.False(t, meta.LoadedAt.IsZero())

	// The metadata total keeps counting tombstoned rows.
	ledger.MarkDeleted(1)
	assert.Equal(t, 6, svc.Metadata().TotalTransactions)
}
