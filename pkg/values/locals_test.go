package values_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func TestLocals_StoreLoadRoundTrip(t *testing.T) {
	l := values.NewLocals(2)
	assert.False(t, l.IsValid(0))

	l.StoreLoc(0, values.NewU64(7))
	assert.True(t, l.IsValid(0))

	got := l.CopyLoc(0)
	assert.Equal(t, uint64(7), got.U64())
	assert.True(t, l.IsValid(0), "CopyLoc must not invalidate the slot")
}

func TestLocals_MoveLocInvalidatesSlot(t *testing.T) {
	l := values.NewLocals(1)
	l.StoreLoc(0, values.NewU64(5))

	v := l.MoveLoc(0)
	assert.Equal(t, uint64(5), v.U64())
	assert.False(t, l.IsValid(0))
}

func TestLocals_MoveLocOnInvalidSlotPanics(t *testing.T) {
	l := values.NewLocals(1)
	assert.Panics(t, func() { l.MoveLoc(0) })
}

func TestLocals_BorrowLocReadsThroughLiveStorage(t *testing.T) {
	l := values.NewLocals(1)
	l.StoreLoc(0, values.NewU64(1))

	ref := l.BorrowLoc(0)
	require.NoError(t, ref.Set(values.NewU64(99)))

	got, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.U64())

	// The borrow reads through to the same slot, not a snapshot.
	direct := l.CopyLoc(0)
	assert.Equal(t, uint64(99), direct.U64())
}

func TestLocals_BorrowAfterMoveOutReturnsErrMovedOut(t *testing.T) {
	l := values.NewLocals(1)
	l.StoreLoc(0, values.NewU64(1))
	ref := l.BorrowLoc(0)

	l.MoveLoc(0)

	_, err := ref.Get()
	assert.ErrorIs(t, err, values.ErrMovedOut)
}

func TestLocals_DropAllValuesVisitsOnlyValidSlots(t *testing.T) {
	l := values.NewLocals(3)
	l.StoreLoc(0, values.NewU64(1))
	l.StoreLoc(2, values.NewU64(3))

	var seen []uint64
	l.DropAllValues(func(v values.Value) { seen = append(seen, v.U64()) })

	assert.Equal(t, []uint64{1, 3}, seen)
	assert.False(t, l.IsValid(0))
	assert.False(t, l.IsValid(2))

	// A second pass finds nothing left to drop.
	var again []uint64
	l.DropAllValues(func(v values.Value) { again = append(again, v.U64()) })
	assert.Empty(t, again)
}

func TestLocals_CheckIdxPanicsOutOfRange(t *testing.T) {
	l := values.NewLocals(1)
	assert.Panics(t, func() { l.IsValid(5) })
	assert.Panics(t, func() { l.IsValid(-1) })
}
