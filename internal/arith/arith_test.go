package arith

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	cases := []struct{ expr, want string }{
		{"2 + 3 * 4", "14"},
		{"(2+3)*4", "20"},
		{"7/2", "3.5"},
		{"6 / 3", "2"},
		{"-3 + 5", "2"},
		{"--4", "4"},
		{"2 * (3 + (4 - 1))", "12"},
		{".5 + 1.25", "1.75"},
		{"10 - 2 - 3", "5"},
		{"100 / 10 / 5", "2"},
		{"-(2)", "-2"},
		{"0 * -1", "0"},
	}
	for _, tc := range cases {
		v, err := Eval(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, Format(v), tc.expr)
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		expr string
		want error
	}{
		{"1/0", ErrDivisionByZero},
		{"5 / (2-2)", ErrDivisionByZero},
		{"2 +", ErrSyntax},
		{"(1+2", ErrSyntax},
		{"1+2)", ErrSyntax},
		{"1,5", ErrSyntax},
		{"2 ** 3", ErrSyntax},
		{"1.2.3", ErrSyntax},
		{"", ErrSyntax},
		{"   ", ErrSyntax},
		{"()", ErrSyntax},
		{"2 3", ErrSyntax},
		{"1e5", ErrSyntax},
	}
	for _, tc := range cases {
		_, err := Eval(tc.expr)
		assert.ErrorIs(t, err, tc.want, tc.expr)
	}
}

func TestEvalOverflow(t *testing.T) {
	huge := strings.Repeat("9", 300)
	_, err := Eval(huge + "*" + huge)
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestEvalDeepNesting(t *testing.T) {
	expr := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	_, err := Eval(expr)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("2 + 3 * 4"))
	assert.True(t, Allowed("(1.5, 2)"))
	assert.False(t, Allowed("2+a"))
	assert.False(t, Allowed("2^3"))
	assert.False(t, Allowed("  "))
	assert.False(t, Allowed("1=1"))
}

func TestLooksLikeMath(t *testing.T) {
	assert.True(t, LooksLikeMath("what is 10+5"))
	assert.True(t, LooksLikeMath("x = 3"))
	assert.False(t, LooksLikeMath("hello 42"))
	assert.False(t, LooksLikeMath("a - b"))
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "10+5", Strip("what is 10+5?"))
	assert.Equal(t, "2 * (3)", Strip("2 * (3) = ?"))
	assert.Equal(t, "15", Strip("1,5"))
	assert.Equal(t, "", Strip("hello"))
}
