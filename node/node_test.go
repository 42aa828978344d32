package node

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	root, err := Parse([]byte(`
s: hello
i: 42
f: 1.5
b: true
n: null
seq: [a, b]
m: {k: v}
quoted: "42"
`))
	require.NoError(t, err)
	require.True(t, root.IsMapping())

	tests := []struct {
		key  string
		kind Kind
	}{
		{"s", String},
		{"i", Number},
		{"f", Number},
		{"b", Bool},
		{"n", Null},
		{"seq", Sequence},
		{"m", Mapping},
		{"quoted", String},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.kind, root.Lookup(tt.key).Kind)
		})
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	root, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, root.Keys)
}

func TestParsePositions(t *testing.T) {
	root, err := Parse([]byte("a: 1\nb:\n  c: 2\n"))
	require.NoError(t, err)

	c := root.Lookup("b").Lookup("c")
	require.NotNil(t, c)
	assert.Equal(t, 3, c.Line)
	assert.Equal(t, 6, c.Column)
}

func TestParseEmptyDocument(t *testing.T) {
	root, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, root.IsNull())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("a: [unterminated"))
	assert.Error(t, err)
}

func TestParseAliasesAndMerge(t *testing.T) {
	root, err := Parse([]byte(`
base: &base
  a: 1
  b: 2
derived:
  <<: *base
  b: 3
ref: *base
`))
	require.NoError(t, err)

	derived := root.Lookup("derived")
	assert.Equal(t, []string{"a", "b"}, derived.Keys)
	v, ok := derived.Lookup("b").Int()
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	assert.True(t, root.Lookup("ref").IsMapping())
}

// aliasChain builds levels anchored sequences of ten items where each level
// aliases the previous one ten times, expanding to 10^levels scalars.
func aliasChain(levels int) []byte {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < levels; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", "))
	}
	return []byte(b.String())
}

func TestParseAliasExpansionBudget(t *testing.T) {
	t.Run("small chain expands", func(t *testing.T) {
		root, err := Parse(aliasChain(3))
		require.NoError(t, err)
		l2 := root.Lookup("l2")
		require.Equal(t, 10, l2.Len())
		assert.Equal(t, 10, l2.Items[9].Len())
	})

	t.Run("exponential chain is refused", func(t *testing.T) {
		data := aliasChain(9)
		require.Less(t, len(data), 1024)

		root, err := Parse(data)
		require.Error(t, err)
		assert.Nil(t, root)

		var limit *oaserrors.ResourceLimitError
		require.True(t, errors.As(err, &limit))
		assert.Equal(t, "alias_expansion", limit.ResourceType)
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	})
}

func TestNumericAccessors(t *testing.T) {
	root, err := Parse([]byte("i: 7\nf: 2.5\nwhole: 3.0\ns: '7'"))
	require.NoError(t, err)

	i, ok := root.Lookup("i").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = root.Lookup("f").Int()
	assert.False(t, ok)

	w, ok := root.Lookup("whole").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), w)

	f, ok := root.Lookup("f").Float()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, f, 0.0001)

	_, ok = root.Lookup("s").Int()
	assert.False(t, ok, "strings are never coerced")
}

func TestDescribe(t *testing.T) {
	root, err := Parse([]byte("i: 42\nf: 1.5\ns: x\nb: false\nn: ~\nl: []\nm: {}"))
	require.NoError(t, err)

	assert.Equal(t, "42 (integer)", root.Lookup("i").Describe())
	assert.Equal(t, "1.5 (float)", root.Lookup("f").Describe())
	assert.Equal(t, "x (string)", root.Lookup("s").Describe())
	assert.Equal(t, "false (boolean)", root.Lookup("b").Describe())
	assert.Equal(t, "null", root.Lookup("n").Describe())
	assert.Equal(t, "[array]", root.Lookup("l").Describe())
	assert.Equal(t, "{object}", root.Lookup("m").Describe())
}

func TestLookupIsNilSafe(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Lookup("a").Lookup("b"))
	assert.Equal(t, 0, n.Len())
	assert.False(t, n.Has("a"))
}

func TestSetReplacesInPlace(t *testing.T) {
	m := NewMapping()
	m.Set("a", NewInt(1))
	m.Set("b", NewInt(2))
	m.Set("a", NewString("x"))

	assert.Equal(t, []string{"a", "b"}, m.Keys)
	assert.Equal(t, "x", m.Lookup("a").Value)
}

func TestMarshalJSON(t *testing.T) {
	root, err := Parse([]byte("b: 1\na: [true, null, 'x', 2.5]\n"))
	require.NoError(t, err)

	out, err := MarshalJSON(root)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,"x",2.5]}`, string(out))
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	src := []byte("name: pet\ncount: 3\ntags:\n  - a\n  - b\nflag: false\nempty: null\n")
	root, err := Parse(src)
	require.NoError(t, err)

	out, err := MarshalYAML(root)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, root.Keys, again.Keys)
	for i := range root.Items {
		assert.Equal(t, root.Items[i].Kind, again.Items[i].Kind, root.Keys[i])
		assert.Equal(t, root.Items[i].Value, again.Items[i].Value, root.Keys[i])
	}
}

func TestMarshalYAMLQuotesNumericStrings(t *testing.T) {
	m := NewMapping()
	m.Set("code", NewString("200"))

	out, err := MarshalYAML(m)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, String, again.Lookup("code").Kind)
}

func TestClone(t *testing.T) {
	root, err := Parse([]byte("a: {b: [1, 2]}"))
	require.NoError(t, err)

	c := root.Clone()
	c.Lookup("a").Lookup("b").Items[0].Value = "9"
	assert.Equal(t, "1", root.Lookup("a").Lookup("b").Items[0].Value)
}
