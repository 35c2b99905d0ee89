package floyd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mok9/floyd/types"
)

func TestFlattenUnflattenStructRoundTrip(t *testing.T) {
	pixel := types.MakeStruct([]types.Member{
		{Name: "r", Type: types.MakeInt()},
		{Name: "g", Type: types.MakeInt()},
		{Name: "b", Type: types.MakeInt()},
	})
	original := NewStruct(pixel, []Value{NewInt(10), NewInt(99), NewInt(30)})

	j, err := Flatten(original)
	require.NoError(t, err)
	assertGoldenEqual(t, `{"r":10,"g":99,"b":30}`, EncodeJSON(j))

	back, err := Unflatten(j, pixel)
	require.NoError(t, err)
	assert.True(t, original.Equal(back))
}

func TestUnflattenVectorAndDict(t *testing.T) {
	vecT := types.MakeVector(types.MakeInt())
	j, err := DecodeJSON(`[1,2,3]`)
	require.NoError(t, err)
	v, err := Unflatten(j, vecT)
	require.NoError(t, err)
	vi, err := v.GetVector()
	require.NoError(t, err)
	assert.Equal(t, 3, vi.Len())

	dictT := types.MakeDict(types.MakeString())
	j, err = DecodeJSON(`{"a": "x", "b": "y"}`)
	require.NoError(t, err)
	d, err := Unflatten(j, dictT)
	require.NoError(t, err)
	di, err := d.GetDict()
	require.NoError(t, err)
	assert.Equal(t, 2, di.Len())
}

func TestUnflattenShapeMismatch(t *testing.T) {
	j, err := DecodeJSON(`"not a number"`)
	require.NoError(t, err)
	_, err = Unflatten(j, types.MakeInt())
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, JsonShapeMismatch, ferr.Kind)
}

func TestUnflattenStructMissingMemberFails(t *testing.T) {
	pixel := types.MakeStruct([]types.Member{
		{Name: "r", Type: types.MakeInt()},
		{Name: "g", Type: types.MakeInt()},
	})
	j, err := DecodeJSON(`{"r": 1}`)
	require.NoError(t, err)
	_, err = Unflatten(j, pixel)
	require.Error(t, err)
}

// TestFlattenFunctionFails covers supplemented feature 3: a function
// value has no JSON shape.
func TestFlattenFunctionFails(t *testing.T) {
	fn := NewFunction(types.MakeFunction(types.MakeVoid(), nil), HostFunctionBase)
	_, err := Flatten(fn)
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TypeMismatch, ferr.Kind)
}

func TestTypeidFlattenUnflattenRoundTrip(t *testing.T) {
	orig := NewTypeidValue(types.MakeVector(types.MakeFloat()))
	j, err := Flatten(orig)
	require.NoError(t, err)
	back, err := Unflatten(j, types.MakeTypeid())
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}
