package floyd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mok9/floyd/types"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	b := NewBool(true)
	bv, err := b.GetBool()
	require.NoError(t, err)
	assert.True(t, bv)

	i := NewInt(42)
	iv, err := i.GetInt()
	require.NoError(t, err)
	assert.EqualValues(t, 42, iv)

	f := NewFloat(3.5)
	fv, err := f.GetFloat()
	require.NoError(t, err)
	assert.EqualValues(t, 3.5, fv)
}

func TestGetWrongKindIsTypeMismatch(t *testing.T) {
	_, err := NewInt(1).GetString()
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TypeMismatch, ferr.Kind)
}

// TestRetainReleaseSimpleBinding exercises spec.md §8 property 3's
// literal scope: binding a string, retaining it once (as a second
// live reference would on a duplicate load), then releasing both.
func TestRetainReleaseSimpleBinding(t *testing.T) {
	s := NewString("hello")
	assert.EqualValues(t, 1, s.Refcount())

	dup := s.Retain()
	assert.EqualValues(t, 2, s.Refcount())

	dup.Release()
	assert.EqualValues(t, 1, s.Refcount())

	s.Release()
	assert.EqualValues(t, 0, s.Refcount())
}

func TestStructConstructionAndAccess(t *testing.T) {
	st := types.MakeStruct([]types.Member{
		{Name: "r", Type: types.MakeInt()},
		{Name: "g", Type: types.MakeInt()},
	})
	v := NewStruct(st, []Value{NewInt(10), NewInt(99)})
	si, err := v.GetStruct()
	require.NoError(t, err)
	assert.Len(t, si.Members(), 2)
	g, _ := si.Members()[1].GetInt()
	assert.EqualValues(t, 99, g)
}

func TestStructConstructionArityMismatchPanics(t *testing.T) {
	st := types.MakeStruct([]types.Member{{Name: "r", Type: types.MakeInt()}})
	assert.Panics(t, func() {
		NewStruct(st, []Value{NewInt(1), NewInt(2)})
	})
}

func TestVectorEqualityIsStructural(t *testing.T) {
	elem := types.MakeInt()
	a := NewVector(elem, []Value{NewInt(1), NewInt(2)})
	b := NewVector(elem, []Value{NewInt(1), NewInt(2)})
	assert.True(t, a.Equal(b))

	c := NewVector(elem, []Value{NewInt(1), NewInt(3)})
	assert.False(t, a.Equal(c))
}

func TestDictGetAndLen(t *testing.T) {
	valT := types.MakeString()
	d := NewDict(valT, []string{"a", "b"}, map[string]Value{
		"a": NewString("x"),
		"b": NewString("y"),
	})
	di, err := d.GetDict()
	require.NoError(t, err)
	assert.Equal(t, 2, di.Len())
	v, ok := di.Get("a")
	require.True(t, ok)
	s, _ := v.GetString()
	assert.Equal(t, "x", s)
}
