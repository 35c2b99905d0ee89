package floyd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mok9/floyd/types"
)

func newTestInterpreter() *Interpreter {
	return NewInterpreter(&Program{})
}

func callHost(t *testing.T, it *Interpreter, name string, args []Value) (Value, error) {
	t.Helper()
	fv, ok := it.Host.HostFunctionValue(name)
	require.True(t, ok, "no host function registered for %q", name)
	return it.CallFunction(fv, args)
}

func TestHostSizeOverStringVectorDict(t *testing.T) {
	it := newTestInterpreter()

	r, err := callHost(t, it, "size", []Value{NewString("hello")})
	require.NoError(t, err)
	n, _ := r.GetInt()
	assert.EqualValues(t, 5, n)

	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2), NewInt(3)})
	r, err = callHost(t, it, "size", []Value{vec})
	require.NoError(t, err)
	n, _ = r.GetInt()
	assert.EqualValues(t, 3, n)

	d := NewDict(types.MakeInt(), []string{"a", "b"}, map[string]Value{
		"a": NewInt(1),
		"b": NewInt(2),
	})
	r, err = callHost(t, it, "size", []Value{d})
	require.NoError(t, err)
	n, _ = r.GetInt()
	assert.EqualValues(t, 2, n)
}

func TestHostFindVector(t *testing.T) {
	it := newTestInterpreter()
	vec := NewVector(types.MakeInt(), []Value{NewInt(10), NewInt(20), NewInt(30)})
	r, err := callHost(t, it, "find", []Value{vec, NewInt(20)})
	require.NoError(t, err)
	n, _ := r.GetInt()
	assert.EqualValues(t, 1, n)

	r, err = callHost(t, it, "find", []Value{vec, NewInt(99)})
	require.NoError(t, err)
	n, _ = r.GetInt()
	assert.EqualValues(t, -1, n)
}

func TestHostExistsAndErase(t *testing.T) {
	it := newTestInterpreter()
	d := NewDict(types.MakeInt(), []string{"a", "b"}, map[string]Value{
		"a": NewInt(1),
		"b": NewInt(2),
	})

	r, err := callHost(t, it, "exists", []Value{d, NewString("a")})
	require.NoError(t, err)
	b, _ := r.GetBool()
	assert.True(t, b)

	r, err = callHost(t, it, "erase", []Value{d, NewString("a")})
	require.NoError(t, err)
	di, err := r.GetDict()
	require.NoError(t, err)
	assert.Equal(t, 1, di.Len())
	_, ok := di.Get("a")
	assert.False(t, ok)
}

func TestHostPushBackStringAndVector(t *testing.T) {
	it := newTestInterpreter()
	r, err := callHost(t, it, "push_back", []Value{NewString("ab"), NewString("c")})
	require.NoError(t, err)
	s, _ := r.GetString()
	assert.Equal(t, "abc", s)

	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2)})
	r, err = callHost(t, it, "push_back", []Value{vec, NewInt(3)})
	require.NoError(t, err)
	vi, err := r.GetVector()
	require.NoError(t, err)
	assert.Equal(t, 3, vi.Len())
}

// TestHostSubsetClampsRange exercises spec.md §8 property 7: an
// out-of-range end clamps to the length, and an inverted (i>j) range
// yields an empty result; neither errors.
func TestHostSubsetClampsRange(t *testing.T) {
	it := newTestInterpreter()
	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2), NewInt(3)})

	r, err := callHost(t, it, "subset", []Value{vec, NewInt(1), NewInt(100)})
	require.NoError(t, err)
	vi, _ := r.GetVector()
	assert.Equal(t, 2, vi.Len())

	r, err = callHost(t, it, "subset", []Value{vec, NewInt(2), NewInt(0)})
	require.NoError(t, err)
	vi, _ = r.GetVector()
	assert.Equal(t, 0, vi.Len())
}

func TestHostReplaceVector(t *testing.T) {
	it := newTestInterpreter()
	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2), NewInt(3), NewInt(4)})
	repl := NewVector(types.MakeInt(), []Value{NewInt(9)})

	r, err := callHost(t, it, "replace", []Value{vec, NewInt(1), NewInt(3), repl})
	require.NoError(t, err)
	vi, err := r.GetVector()
	require.NoError(t, err)
	got := []int32{}
	for _, item := range vi.Items() {
		n, _ := item.GetInt()
		got = append(got, n)
	}
	assert.Equal(t, []int32{1, 9, 4}, got)
}

// TestHostUpdateStructExample reproduces spec.md §8's pixel example:
// updating one member of a struct rebuilds a new struct value leaving
// the others unchanged.
func TestHostUpdateStructExample(t *testing.T) {
	it := newTestInterpreter()
	pixel := types.MakeStruct([]types.Member{
		{Name: "r", Type: types.MakeInt()},
		{Name: "g", Type: types.MakeInt()},
		{Name: "b", Type: types.MakeInt()},
	})
	p := NewStruct(pixel, []Value{NewInt(0), NewInt(99), NewInt(30)})

	r, err := callHost(t, it, "update", []Value{p, NewString("r"), NewInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "{r=10, g=99, b=30}", ToCompactString(r))
}

func TestHostUpdateStructDottedPath(t *testing.T) {
	it := newTestInterpreter()
	inner := types.MakeStruct([]types.Member{{Name: "x", Type: types.MakeInt()}})
	outer := types.MakeStruct([]types.Member{{Name: "p", Type: inner}})
	v := NewStruct(outer, []Value{NewStruct(inner, []Value{NewInt(1)})})

	r, err := callHost(t, it, "update", []Value{v, NewString("p.x"), NewInt(42)})
	require.NoError(t, err)
	assert.Equal(t, "{p={x=42}}", ToCompactString(r))
}

func TestHostUpdateVectorAndDict(t *testing.T) {
	it := newTestInterpreter()
	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2), NewInt(3)})
	r, err := callHost(t, it, "update", []Value{vec, NewInt(1), NewInt(99)})
	require.NoError(t, err)
	vi, _ := r.GetVector()
	n, _ := vi.Items()[1].GetInt()
	assert.EqualValues(t, 99, n)

	d := NewDict(types.MakeInt(), []string{"a"}, map[string]Value{"a": NewInt(1)})
	r, err = callHost(t, it, "update", []Value{d, NewString("b"), NewInt(2)})
	require.NoError(t, err)
	di, _ := r.GetDict()
	assert.Equal(t, 2, di.Len())
}

// TestHostUpdateJSONFails covers supplemented feature 2: update on a
// json value is unsupported, matching the original's behavior.
func TestHostUpdateJSONFails(t *testing.T) {
	it := newTestInterpreter()
	n, _ := DecodeJSON(`{}`)
	_, err := callHost(t, it, "update", []Value{NewJSON(n), NewString("k"), NewInt(1)})
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TypeMismatch, ferr.Kind)
}

func TestHostJSONBridgeFunctions(t *testing.T) {
	it := newTestInterpreter()

	r, err := callHost(t, it, "decode_json", []Value{NewString(`{"a":1}`)})
	require.NoError(t, err)
	j, err := r.GetJSON()
	require.NoError(t, err)
	assert.Equal(t, 1, GetJSONType(j))

	r2, err := callHost(t, it, "get_json_type", []Value{r})
	require.NoError(t, err)
	n, _ := r2.GetInt()
	assert.EqualValues(t, 1, n)

	s, err := callHost(t, it, "encode_json", []Value{r})
	require.NoError(t, err)
	str, _ := s.GetString()
	assertGoldenEqual(t, `{"a":1}`, str)
}

func TestHostTypeofAndUnflattenFromJSON(t *testing.T) {
	it := newTestInterpreter()
	r, err := callHost(t, it, "typeof", []Value{NewInt(3)})
	require.NoError(t, err)
	ty, err := r.GetTypeidValue()
	require.NoError(t, err)
	assert.Equal(t, "<int>", ty.Signature())

	j, _ := DecodeJSON(`3`)
	back, err := callHost(t, it, "unflatten_from_json", []Value{NewJSON(j), r})
	require.NoError(t, err)
	n, _ := back.GetInt()
	assert.EqualValues(t, 3, n)
}

func TestHostAssert(t *testing.T) {
	it := newTestInterpreter()
	_, err := callHost(t, it, "assert", []Value{NewBool(true)})
	require.NoError(t, err)

	_, err = callHost(t, it, "assert", []Value{NewBool(false)})
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, AssertionFailed, ferr.Kind)
}

func TestHostToStringAndToPrettyString(t *testing.T) {
	it := newTestInterpreter()
	r, err := callHost(t, it, "to_string", []Value{NewInt(7)})
	require.NoError(t, err)
	s, _ := r.GetString()
	assert.Equal(t, "7", s)

	vec := NewVector(types.MakeInt(), []Value{NewInt(1), NewInt(2)})
	r, err = callHost(t, it, "to_pretty_string", []Value{vec})
	require.NoError(t, err)
	s, _ = r.GetString()
	assertGoldenEqual(t, "[\n  1,\n  2\n]", s)
}
