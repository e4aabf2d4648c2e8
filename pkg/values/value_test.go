package values_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func TestEqual_PrimitivesAndComposites(t *testing.T) {
	assert.True(t, values.Equal(values.NewU64(7), values.NewU64(7)))
	assert.False(t, values.Equal(values.NewU64(7), values.NewU64(8)))
	assert.False(t, values.Equal(values.NewU64(7), values.NewU8(7)), "different kinds are never equal")

	v1 := values.NewVector([]values.Value{values.NewU8(1), values.NewU8(2)})
	v2 := values.NewVector([]values.Value{values.NewU8(1), values.NewU8(2)})
	v3 := values.NewVector([]values.Value{values.NewU8(1), values.NewU8(3)})
	assert.True(t, values.Equal(v1, v2))
	assert.False(t, values.Equal(v1, v3))

	s1 := values.NewStructValue(values.NewStruct([]values.Value{values.NewBool(true)}))
	s2 := values.NewStructValue(values.NewStruct([]values.Value{values.NewBool(true)}))
	assert.True(t, values.Equal(s1, s2))
}

func TestCopy_DeepForComposites(t *testing.T) {
	orig := values.NewVector([]values.Value{values.NewU64(1), values.NewU64(2)})
	clone := orig.Copy()
	origVec := orig.Vector()
	cloneVec := clone.Vector()
	require.NotSame(t, origVec, cloneVec)

	// Mutating the original's backing vector must not affect the clone.
	origVec.Elems[0] = values.NewU64(99)
	assert.Equal(t, uint64(1), cloneVec.Elems[0].U64())
}

func TestU128_RoundTripsThroughUint256(t *testing.T) {
	x := new(uint256.Int).Lsh(uint256.NewInt(1), 100)
	v := values.NewU128(x)
	assert.True(t, v.U128().Eq(x))
	assert.True(t, v.IsInteger())
}

func TestAsUint256_WidensEveryIntegerKind(t *testing.T) {
	assert.Equal(t, uint64(42), values.NewU8(42).AsUint256().Uint64())
	assert.Equal(t, uint64(42), values.NewU16(42).AsUint256().Uint64())
	assert.Equal(t, uint64(42), values.NewU32(42).AsUint256().Uint64())
	assert.Equal(t, uint64(42), values.NewU64(42).AsUint256().Uint64())
}

func TestVariantStruct(t *testing.T) {
	s := values.NewVariantStruct(2, []values.Value{values.NewU64(5)})
	assert.True(t, s.IsVariant())
	assert.Equal(t, int32(2), s.VariantTag)

	plain := values.NewStruct(nil)
	assert.False(t, plain.IsVariant())
}

func TestMustBePanicsOnKindMismatch(t *testing.T) {
	assert.Panics(t, func() {
		values.NewU64(1).Bool()
	})
}
