package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolso-dev/bolso/internal/model"
)

// fakeBalances records balance adjustments in memory.
type fakeBalances struct {
	balances map[int64]decimal.Decimal
}

func newFakeBalances() *fakeBalances {
	return &fakeBalances{balances: make(map[int64]decimal.Decimal)}
}

func (f *fakeBalances) AdjustBalance(accountID int64, delta decimal.Decimal) error {
	f.balances[accountID] = f.balances[accountID].Add(delta)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(txType model.TransactionType, amount string, status model.TransactionStatus) model.Transaction {
	return model.Transaction{
		ID:        1,
		AccountID: 10,
		Amount:    dec(amount),
		Type:      txType,
		Status:    status,
	}
}

func TestApplyIncome(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)

	require.NoError(t, u.Apply(tx(model.TransactionTypeIncome, "100.50", model.StatusCompleted)))
	assert.True(t, f.balances[10].Equal(dec("100.50")))

	require.NoError(t, u.Revert(tx(model.TransactionTypeIncome, "100.50", model.StatusCompleted)))
	assert.True(t, f.balances[10].IsZero(), "revert must return balance exactly to the pre-apply value")
}

func TestApplyExpense(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)

	require.NoError(t, u.Apply(tx(model.TransactionTypeExpense, "42.99", model.StatusCompleted)))
	assert.True(t, f.balances[10].Equal(dec("-42.99")))

	require.NoError(t, u.Revert(tx(model.TransactionTypeExpense, "42.99", model.StatusCompleted)))
	assert.True(t, f.balances[10].IsZero())
}

func TestApplyTransfer(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)

	dest := int64(20)
	transfer := tx(model.TransactionTypeTransfer, "250.00", model.StatusCompleted)
	transfer.DestinationAccountID = &dest

	require.NoError(t, u.Apply(transfer))
	assert.True(t, f.balances[10].Equal(dec("-250.00")))
	assert.True(t, f.balances[20].Equal(dec("250.00")))

	require.NoError(t, u.Revert(transfer))
	assert.True(t, f.balances[10].IsZero())
	assert.True(t, f.balances[20].IsZero())
}

func TestTransferWithoutDestinationMovesSourceOnly(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)

	require.NoError(t, u.Apply(tx(model.TransactionTypeTransfer, "10.00", model.StatusCompleted)))
	assert.True(t, f.balances[10].Equal(dec("-10.00")))
	assert.Len(t, f.balances, 1)
}

func TestPendingAndCancelledAreNoOps(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)

	for _, status := range []model.TransactionStatus{model.StatusPending, model.StatusCancelled} {
		require.NoError(t, u.Apply(tx(model.TransactionTypeIncome, "99.99", status)))
		require.NoError(t, u.Revert(tx(model.TransactionTypeExpense, "99.99", status)))
	}
	assert.Empty(t, f.balances)
}

func TestApplyRevertRoundTripPreservesExactDecimals(t *testing.T) {
	f := newFakeBalances()
	u := NewUpdater(f)
	f.balances[10] = dec("0.10")

	// 0.10 + 0.20 has no exact float64 representation; decimal must
	// keep it exact through the round trip.
	income := tx(model.TransactionTypeIncome, "0.20", model.StatusCompleted)
	require.NoError(t, u.Apply(income))
	assert.Equal(t, "0.30", f.balances[10].StringFixed(2))

	require.NoError(t, u.Revert(income))
	assert.Equal(t, "0.10", f.balances[10].StringFixed(2))
}
