package sexp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAtomHeadRule(t *testing.T) {
	n, err := Parse(`(version 20241229)`)
	require.NoError(t, err)
	require.Equal(t, "version", n.Head())
	require.Equal(t, []string{"20241229"}, n.AtomValues())
}

func TestParseListHeadRule(t *testing.T) {
	// First expr in the list is itself a list: the outer head equals
	// the inner head, and the inner list is retained as a child too.
	n, err := Parse(`((foo) bar)`)
	require.NoError(t, err)
	require.Equal(t, "foo", n.Head())
	require.Len(t, n.Children(), 2)
	require.True(t, n.Children()[0].IsList())
	require.Equal(t, "foo", n.Children()[0].Head())
	require.Equal(t, "bar", n.Children()[1].Value())
}

func TestParseEmptyList(t *testing.T) {
	n, err := Parse(`()`)
	require.NoError(t, err)
	require.Equal(t, "", n.Head())
	require.Empty(t, n.Children())
}

func TestParseStringEscapes(t *testing.T) {
	n, err := Parse(`"a\"b\\c\nd"`)
	require.NoError(t, err)
	require.True(t, n.IsAtom())
	require.Equal(t, "a\"b\\cnd", n.Value())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unterminated string", `"abc`, ErrUnterminatedString},
		{"stray close", `)`, ErrUnexpectedClose},
		{"truncated list", `(foo (bar)`, ErrTruncatedList},
		{"empty input", ``, ErrEmptyInput},
		{"whitespace only", "  \n\t", ErrEmptyInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			require.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestParseNestedQuotedAtomNotConsumedAsHead(t *testing.T) {
	n, err := Parse(`(footprint "Resistor_SMD:R_0603")`)
	require.NoError(t, err)
	require.Equal(t, "footprint", n.Head())
	require.Equal(t, []string{"Resistor_SMD:R_0603"}, n.AtomValues())
}
