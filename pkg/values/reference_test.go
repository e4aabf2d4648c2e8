package values_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func TestFieldRef_GetSet(t *testing.T) {
	s := values.NewStruct([]values.Value{values.NewU64(1), values.NewBool(false)})
	ref := values.FieldRef{Owner: s, Idx: 1}

	got, err := ref.Get()
	require.NoError(t, err)
	assert.False(t, got.Bool())

	require.NoError(t, ref.Set(values.NewBool(true)))
	assert.True(t, s.Fields[1].Bool())
}

func TestElemRef_GetSet(t *testing.T) {
	v := &values.Vector{Elems: []values.Value{values.NewU8(1), values.NewU8(2)}}
	ref := values.ElemRef{Owner: v, Idx: 0}

	got, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got.U8())

	require.NoError(t, ref.Set(values.NewU8(9)))
	assert.Equal(t, uint8(9), v.Elems[0].U8())
}

type fakeGlobalCell struct {
	v values.Value
}

func (c *fakeGlobalCell) Get() (values.Value, error) { return c.v, nil }
func (c *fakeGlobalCell) Set(v values.Value) error   { c.v = v; return nil }

func TestGlobalRef_GetSet(t *testing.T) {
	cell := &fakeGlobalCell{v: values.NewU64(10)}
	ref := values.GlobalRef{Cell: cell}

	got, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.U64())

	require.NoError(t, ref.Set(values.NewU64(20)))
	assert.Equal(t, uint64(20), cell.v.U64())
}

func TestFreezeRef_NarrowsMutableToImmutable(t *testing.T) {
	l := values.NewLocals(1)
	l.StoreLoc(0, values.NewU64(42))
	mutRef := values.NewMutableReference(l.BorrowLoc(0))

	frozen := values.FreezeRef(mutRef)
	assert.Equal(t, values.KindReference, frozen.Kind())

	got, err := frozen.Reference().Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.U64())
}

func TestLocalRef_SetWritesThroughOwner(t *testing.T) {
	l := values.NewLocals(1)
	l.StoreLoc(0, values.NewU64(1))
	ref := values.LocalRef{Owner: l, Idx: 0}

	require.NoError(t, ref.Set(values.NewU64(7)))
	assert.Equal(t, uint64(7), l.CopyLoc(0).U64())
}
