package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxHistory_DenseAndSparse(t *testing.T) {
	h := NewTxHistory(8)

	h.Put(1, NewDepositRecord(1, decimal.NewFromInt(10)))
	h.Put(3, NewWithdrawalRecord(2, decimal.NewFromInt(5)))
	h.Put(1_000_000, NewDepositRecord(3, decimal.NewFromInt(7)))

	assert.Len(t, h.dense, 4)
	assert.Len(t, h.sparse, 1)
	assert.Equal(t, 3, h.Len())

	rec, ok := h.Get(3)
	require.True(t, ok)
	assert.Equal(t, RecordKindWithdrawal, rec.Kind())
	assert.Equal(t, ClientID(2), rec.Owner())
	assert.True(t, rec.Amount().Equal(decimal.NewFromInt(5)))
	assert.False(t, rec.Disputed())

	rec, ok = h.Get(1_000_000)
	require.True(t, ok)
	assert.Equal(t, ClientID(3), rec.Owner())

	_, ok = h.Get(2)
	assert.False(t, ok, "gap inside the dense range must not be reported")

	_, ok = h.Get(42)
	assert.False(t, ok)
}

func TestTxHistory_PointerMutationSticks(t *testing.T) {
	h := NewTxHistory(4)
	h.Put(2, NewDepositRecord(1, decimal.NewFromInt(1)))
	h.Put(500, NewDepositRecord(1, decimal.NewFromInt(1)))

	for _, id := range []TxID{2, 500} {
		rec, ok := h.Get(id)
		require.True(t, ok)
		rec.disputed = true

		again, ok := h.Get(id)
		require.True(t, ok)
		assert.True(t, again.Disputed(), "tx %d", id)
	}
}

func TestTxHistory_OverwriteIsLastWriteWins(t *testing.T) {
	h := NewTxHistory(4)

	h.Put(1, NewDepositRecord(1, decimal.NewFromInt(10)))
	h.Put(1, NewWithdrawalRecord(2, decimal.NewFromInt(3)))

	rec, ok := h.Get(1)
	require.True(t, ok)
	assert.Equal(t, RecordKindWithdrawal, rec.Kind())
	assert.Equal(t, ClientID(2), rec.Owner())
	assert.Equal(t, 1, h.Len())
}

func TestTxHistory_SparseIdMigratesWhenDenseCatchesUp(t *testing.T) {
	h := NewTxHistory(4)

	// 10 is beyond the window of an empty history.
	h.Put(10, NewDepositRecord(1, decimal.NewFromInt(1)))
	require.Len(t, h.sparse, 1)

	// Walk the dense tail up to 10.
	for id := TxID(0); id < 10; id++ {
		h.Put(id, NewDepositRecord(2, decimal.NewFromInt(2)))
	}

	rec, ok := h.Get(10)
	require.True(t, ok, "sparse record must stay reachable after dense growth")
	assert.Equal(t, ClientID(1), rec.Owner())

	h.Put(10, NewWithdrawalRecord(3, decimal.NewFromInt(3)))
	assert.Empty(t, h.sparse)
	assert.Equal(t, 11, h.Len())

	rec, ok = h.Get(10)
	require.True(t, ok)
	assert.Equal(t, ClientID(3), rec.Owner())
}

func TestNewTxHistory_DefaultWindow(t *testing.T) {
	h := NewTxHistory(0)
	assert.Equal(t, DefaultDenseWindow, h.window)
}

func TestTxHistory_StridedIdsKeepDenseBounded(t *testing.T) {
	const window = 1 << 16
	h := NewTxHistory(window)

	const records = 200
	for i := range TxID(records) {
		h.Put(i*(window-1), NewDepositRecord(1, decimal.NewFromInt(1)))
	}

	assert.Equal(t, records, h.Len())
	assert.LessOrEqual(t, len(h.dense), 2*h.Len()+window+2)

	for i := range TxID(records) {
		_, ok := h.Get(i * (window - 1))
		assert.True(t, ok, "tx %d", i*(window-1))
	}
}

func TestTxHistory_SequentialIdsStayDense(t *testing.T) {
	h := NewTxHistory(16)

	for id := TxID(1); id <= 1000; id++ {
		h.Put(id, NewDepositRecord(1, decimal.NewFromInt(1)))
	}

	assert.Empty(t, h.sparse)
	assert.Len(t, h.dense, 1001)
	assert.Equal(t, 1000, h.Len())
}

func TestTxHistory_MaxTxID(t *testing.T) {
	h := NewTxHistory(4)
	h.Put(2, NewDepositRecord(1, decimal.NewFromInt(1)))
	h.Put(math.MaxUint32, NewDepositRecord(2, decimal.NewFromInt(2)))
	h.Put(1<<31, NewDepositRecord(3, decimal.NewFromInt(3)))

	rec, ok := h.Get(math.MaxUint32)
	require.True(t, ok)
	assert.Equal(t, ClientID(2), rec.Owner())

	rec, ok = h.Get(1 << 31)
	require.True(t, ok)
	assert.Equal(t, ClientID(3), rec.Owner())

	_, ok = h.Get(1<<31 + 1)
	assert.False(t, ok)
	assert.Len(t, h.dense, 3)
}
