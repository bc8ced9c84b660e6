package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()

	toks, err := New(src).All()
	require.NoError(t, err)

	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}

	return out
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks, err := New("define foo 1").All()
	require.NoError(t, err)
	require.Len(t, toks, 4) // define, foo, 1, EOF

	assert.Equal(t, KEYWORD, toks[0].Type)
	assert.Equal(t, KwDefine, toks[0].Keyword)
	assert.Equal(t, IDENT, toks[1].Type)
	assert.Equal(t, NUMBER, toks[2].Type)
	assert.Equal(t, EOF, toks[3].Type)
}

func TestNumberDotIdentifierSplit(t *testing.T) {
	toks, err := New("2.foo").All()
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, NUMBER, toks[0].Type)
	assert.Equal(t, "2", toks[0].Text)
	assert.Equal(t, DOT, toks[1].Type)
	assert.Equal(t, IDENT, toks[2].Type)
	assert.Equal(t, "foo", toks[2].Text)
}

func TestNumberWithDecimal(t *testing.T) {
	toks, err := New("3.14").All()
	require.NoError(t, err)
	assert.Equal(t, "3.14", toks[0].Text)
}

func TestDotFollowedBySpaceIsNotDotToken(t *testing.T) {
	_, err := New("foo. bar").All()
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	toks, err := New(`"hello\nworld"`).All()
	require.NoError(t, err)
	assert.Equal(t, STRING, toks[0].Type)
}

func TestUnterminatedString(t *testing.T) {
	_, err := New(`"hello`).All()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedString)
}

func TestNewlineInsideStringIsError(t *testing.T) {
	_, err := New("\"hello\nworld\"").All()
	require.Error(t, err)
}

func TestEmptyStringIsInvalidEscape(t *testing.T) {
	_, err := New(`""`).All()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEscapeSequence)
}

func TestInvalidEscape(t *testing.T) {
	_, err := New(`"a\qb"`).All()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEscapeSequence)
}

func TestHexColors(t *testing.T) {
	for _, src := range []string{"#fff", "#ffff", "#ffffff", "#ffffffff"} {
		toks, err := New(src).All()
		require.NoError(t, err, src)
		assert.Equal(t, HEXCOLOR, toks[0].Type, src)
	}
}

func TestInvalidHexColorLength(t *testing.T) {
	_, err := New("#ff").All()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestOperators(t *testing.T) {
	toks, err := New("1 <> 2 <= 3 >= 4 < 5 > 6").All()
	require.NoError(t, err)

	var ops []string
	for _, tok := range toks {
		if tok.Type == OPERATOR {
			ops = append(ops, tok.Text)
		}
	}

	assert.Equal(t, []string{"<>", "<=", ">=", "<", ">"}, ops)
}

func TestPrefixMinusSpaceHint(t *testing.T) {
	toks, err := New("x -1").All()
	require.NoError(t, err)

	var minus Token
	for _, tok := range toks {
		if tok.Type == OPERATOR && tok.Text == "-" {
			minus = tok
		}
	}

	assert.True(t, minus.SpaceBefore)
}

func TestDelimitersAndTerminator(t *testing.T) {
	types := tokenTypes(t, "cube {\n  size 1\n}")
	assert.Contains(t, types, LBRACE)
	assert.Contains(t, types, RBRACE)
	assert.Contains(t, types, TERMINATOR)
}

func TestEOFRangeIsEmpty(t *testing.T) {
	toks, err := New("x").All()
	require.NoError(t, err)

	last := toks[len(toks)-1]
	assert.Equal(t, EOF, last.Type)
	assert.True(t, last.Range.Empty())
}
