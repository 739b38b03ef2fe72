package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/bankwatch/internal/domain"
	"github.com/nmoreau/bankwatch/internal/store"
)

func customerIDs(customers []domain.Customer) []int64 {
	out := make([]int64, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.ID)
	}
	return out
}

func TestCustomerList(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewCustomerService(st, ledger)

	page, err := svc.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 102, 200}, customerIDs(page.Items))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	second, err := svc.List(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{200}, customerIDs(second.Items))
	assert.Equal(t, 2, second.TotalPages)

	past, err := svc.List(5, 3)
	require.NoError(t, err)
	assert.Empty(t, past.Items)

	_, err = svc.List(0, 10)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCustomerGet(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewCustomerService(st, ledger)

	sender, err := svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 3, sender.TransactionCount)
	assert.True(t, sender.TotalSent.Equal(amt("1100.49")), "sent %s", sender.TotalSent)
	assert.True(t, sender.TotalReceived.Equal(amt("150.00")))
	assert.True(t, sender.AverageSent.Equal(amt("1100.49").Div(decimal.NewFromInt(3))))

	// Recipient-only customers exist with zero sends.
	recipient, err := svc.Get(200)
	require.NoError(t, err)
	assert.Equal(t, 0, recipient.TransactionCount)
	assert.True(t, recipient.TotalSent.IsZero())
	assert.True(t, recipient.TotalReceived.Equal(amt("635.00")), "received %s", recipient.TotalReceived)
	assert.True(t, recipient.AverageSent.IsZero())

	_, err = svc.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopCustomers(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewCustomerService(st, ledger)

	bySent, err := svc.Top(2, domain.CustomerMetricSent)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 102}, customerIDs(bySent))

	byReceived, err := svc.Top(10, domain.CustomerMetricReceived)
	require.NoError(t, err)
	assert.Equal(t, []int64{200, 100, 101, 102}, customerIDs(byReceived))

	byCount, err := svc.Top(1, domain.CustomerMetricCount)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, customerIDs(byCount))
}

func TestTopCustomersTieBreak(t *testing.T) {
	records := []domain.Transaction{
		{ID: 1, ClientID: 1, Amount: amt("300"), Type: "PAYMENT", Date: "2024-01-01"},
		{ID: 2, ClientID: 3, Amount: amt("500"), Type: "PAYMENT", Date: "2024-01-01"},
		{ID: 3, ClientID: 2, Amount: amt("500"), Type: "PAYMENT", Date: "2024-01-02"},
	}
	svc := NewCustomerService(mustStore(t, records), store.NewLedger())

	// Equal totals break ties by identifier ascending.
	top, err := svc.Top(2, domain.CustomerMetricSent)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, customerIDs(top))
}

func TestTopCustomersValidation(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewCustomerService(st, ledger)

	var vErr *ValidationError

	_, err := svc.Top(0, domain.CustomerMetricSent)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "limit", vErr.Field)

	_, err = svc.Top(101, domain.CustomerMetricSent)
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.Top(5, "volume")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "metric", vErr.Field)
}

func TestCustomerRollupReflectsDeletion(t *testing.T) {
	st, ledger := fixtureStore(t)
	svc := NewCustomerService(st, ledger)

	before, err := svc.Get(102)
	require.NoError(t, err)
	assert.Equal(t, 1, before.TransactionCount)

	// Customer 102 only ever sent transaction 4.
	ledger.MarkDeleted(4)
	_, err = svc.Get(102)
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := svc.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 200}, customerIDs(page.Items))
}
