package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/traitir/internal/ir"
)

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLex_TokenTypes(t *testing.T) {
	toks, err := Lex("forall<'a> { &'a mut ?3i } :- |- -> ... #4 ^0.1 !1_0 '?5 ! *const [T; 2] = +")
	require.NoError(t, err)

	assert.Equal(t, []TokenType{
		IDENT, LANGLE, LIFETIME, RANGLE, LBRACE, AMP, LIFETIME, IDENT, INFER, RBRACE,
		IMPLIEDBY, TURNSTILE, ARROW, ELLIPSIS, ITEM, BOUND, PLACEHOLDER, QUOTE, INFER, BANG,
		STAR, IDENT, LSQUARE, IDENT, SEMI, INT, RSQUARE, EQUALS, PLUS, EOF,
	}, tokenTypes(toks))
}

func TestLex_Literals(t *testing.T) {
	toks, err := Lex("?3i ?4f ?5 #12 ^2.7 !1_0 'static 42")
	require.NoError(t, err)

	assert.Equal(t, InferLiteral{Var: 3, Kind: ir.TyVarInteger}, toks[0].Literal)
	assert.Equal(t, InferLiteral{Var: 4, Kind: ir.TyVarFloat}, toks[1].Literal)
	assert.Equal(t, InferLiteral{Var: 5, Kind: ir.TyVarGeneral}, toks[2].Literal)
	assert.Equal(t, uint64(12), toks[3].Literal)
	assert.Equal(t, ir.NewBoundVar(2, 7), toks[4].Literal)
	assert.Equal(t, ir.PlaceholderIndex{UI: 1, Idx: 0}, toks[5].Literal)
	assert.Equal(t, "static", toks[6].Literal)
	assert.Equal(t, uint64(42), toks[7].Literal)
}

func TestLex_Positions(t *testing.T) {
	toks, err := Lex("Vec<\n  u32>")
	require.NoError(t, err)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Col)
}

func TestLex_CommentsAndUnicode(t *testing.T) {
	toks, err := Lex("Cafe\u0301 // trailing comment\n\u00c9t\u00e9")
	require.NoError(t, err)

	require.Len(t, toks, 3)
	assert.Equal(t, "Caf\u00e9", toks[0].Literal)
	assert.Equal(t, "\u00c9t\u00e9", toks[1].Literal)
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"#", "expected a number"},
		{"^1", "expected '.' in bound variable"},
		{"!1x", "expected '_' in placeholder"},
		{"a - b", "unexpected '-'"},
		{"a | b", "unexpected '|'"},
		{"..", "unexpected '.'"},
		{"@", "unexpected character '@'"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Lex(tt.src)
			require.Error(t, err)

			var lexErr *LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Contains(t, lexErr.Msg, tt.want)
		})
	}
}
