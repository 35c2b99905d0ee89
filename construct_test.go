package floyd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mok9/floyd/types"
)

func TestConstructPrimitiveNumericCoercion(t *testing.T) {
	v, err := constructFromTypeid(types.MakeInt(), []Value{NewFloat(3.9)})
	require.NoError(t, err)
	n, _ := v.GetInt()
	assert.EqualValues(t, 3, n)

	v, err = constructFromTypeid(types.MakeFloat(), []Value{NewInt(4)})
	require.NoError(t, err)
	f, _ := v.GetFloat()
	assert.EqualValues(t, 4, f)
}

func TestConstructPrimitiveWrongArity(t *testing.T) {
	_, err := constructFromTypeid(types.MakeInt(), []Value{NewInt(1), NewInt(2)})
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ConstructionTypeError, ferr.Kind)
}

func TestConstructStructFromArgs(t *testing.T) {
	st := types.MakeStruct([]types.Member{
		{Name: "x", Type: types.MakeInt()},
		{Name: "y", Type: types.MakeString()},
	})
	v, err := constructFromTypeid(st, []Value{NewInt(1), NewString("a")})
	require.NoError(t, err)
	assert.Equal(t, "{x=1, y=a}", ToCompactString(v))
}

func TestConstructStructMemberTypeMismatch(t *testing.T) {
	st := types.MakeStruct([]types.Member{{Name: "x", Type: types.MakeInt()}})
	_, err := constructFromTypeid(st, []Value{NewString("wrong")})
	require.Error(t, err)
}

func TestConstructVectorFromArgs(t *testing.T) {
	vecT := types.MakeVector(types.MakeInt())
	v, err := constructFromTypeid(vecT, []Value{NewInt(1), NewInt(2), NewInt(3)})
	require.NoError(t, err)
	vi, err := v.GetVector()
	require.NoError(t, err)
	assert.Equal(t, 3, vi.Len())
}

func TestConstructDictFromArgsKeepsLastDuplicateKey(t *testing.T) {
	dictT := types.MakeDict(types.MakeInt())
	v, err := constructFromTypeid(dictT, []Value{
		NewString("a"), NewInt(1),
		NewString("a"), NewInt(2),
	})
	require.NoError(t, err)
	di, err := v.GetDict()
	require.NoError(t, err)
	assert.Equal(t, 1, di.Len())
	val, ok := di.Get("a")
	require.True(t, ok)
	n, _ := val.GetInt()
	assert.EqualValues(t, 2, n)
}

func TestConstructDictOddArgsFails(t *testing.T) {
	dictT := types.MakeDict(types.MakeInt())
	_, err := constructFromTypeid(dictT, []Value{NewString("a"), NewInt(1), NewString("b")})
	require.Error(t, err)
}

func TestConstructUnsupportedKind(t *testing.T) {
	_, err := constructFromTypeid(types.MakeVoid(), nil)
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ConstructionTypeError, ferr.Kind)
}
