package floyd

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONPreservesObjectOrder(t *testing.T) {
	n, err := DecodeJSON(`{"z": 1, "a": 2}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, n.Keys())
}

func TestGetJSONTypeNumbering(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{`{}`, 1},
		{`[]`, 2},
		{`"s"`, 3},
		{`1`, 4},
		{`true`, 5},
		{`false`, 6},
		{`null`, 7},
	}
	for _, c := range cases {
		n, err := DecodeJSON(c.text)
		require.NoError(t, err)
		assert.Equal(t, c.want, GetJSONType(n), "for %s", c.text)
	}
}

func TestEncodeJSONPreservesObjectKeyOrder(t *testing.T) {
	n, err := DecodeJSON(`{"z": 1, "a": 2}`)
	require.NoError(t, err)
	assertGoldenEqual(t, `{"z":1,"a":2}`, EncodeJSON(n))
}

func TestDecodeEncodeRoundTripsArray(t *testing.T) {
	text := `[1,2,3]`
	n, err := DecodeJSON(text)
	require.NoError(t, err)
	assertGoldenEqual(t, text, EncodeJSON(n))
}

func TestJSONEqualIsStructural(t *testing.T) {
	a, _ := DecodeJSON(`{"a": 1, "b": [true, null]}`)
	b, _ := DecodeJSON(`{"b": [true, null], "a": 1}`)
	assert.True(t, a.Equal(b))
}

func TestDecodeJSONInvalidText(t *testing.T) {
	_, err := DecodeJSON(`{not json`)
	require.Error(t, err)
	ferr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, IoError, ferr.Kind)
}

// assertGoldenEqual fails with a unified diff when got does not match
// want, matching the teacher pack's go-difflib golden-output style.
func assertGoldenEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Fatalf("golden mismatch:\n%s", diff)
}
