package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Next(t *testing.T) {
	type tok struct {
		name    string
		text    string
		row     int
		col     int
		eof     bool
		invalid bool
	}
	tests := []struct {
		caption string
		specSrc string
		src     string
		tokens  []tok
	}{
		{
			caption: "the lexer skips white spaces and prefers the longest match",
			specSrc: calcSrc,
			src:     "0x1F 12\n+ 0",
			tokens: []tok{
				{name: "hex", text: "0x1F", row: 0, col: 0},
				{name: "num", text: "12", row: 0, col: 5},
				{name: "+", text: "+", row: 1, col: 0},
				{name: "num", text: "0", row: 1, col: 2},
				{row: 1, col: 3, eof: true},
			},
		},
		{
			caption: "a character without a transition at the initial node is an invalid token",
			specSrc: calcSrc,
			src:     "1 x",
			tokens: []tok{
				{name: "num", text: "1", row: 0, col: 0},
				{text: "x", row: 0, col: 2, invalid: true},
				{row: 0, col: 3, eof: true},
			},
		},
		{
			caption: "the lexer doesn't backtrack to a shorter match",
			specSrc: `s : 'ab' | 'abcd' ;`,
			src:     "ab abc",
			tokens: []tok{
				{name: "ab", text: "ab", row: 0, col: 0},
				{text: "abc", row: 0, col: 3, invalid: true},
				{row: 0, col: 6, eof: true},
			},
		},
		{
			caption: "columns are counted in code points",
			specSrc: `s : 'あ' 'い' ;`,
			src:     "あ い",
			tokens: []tok{
				{name: "あ", text: "あ", row: 0, col: 0},
				{name: "い", text: "い", row: 0, col: 2},
				{row: 0, col: 3, eof: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cg := compileGrammar(t, tt.specSrc)
			l, err := NewLexer(cg, strings.NewReader(tt.src))
			require.NoError(t, err)

			var actual []tok
			for {
				tk, err := l.Next()
				require.NoError(t, err)
				a := tok{
					text:    tk.Text,
					row:     tk.Row,
					col:     tk.Col,
					eof:     tk.EOF,
					invalid: tk.Invalid,
				}
				if !tk.EOF && !tk.Invalid {
					a.name = cg.Parser.Terminals[tk.Terminal].Name
				}
				actual = append(actual, a)
				if tk.EOF {
					break
				}
			}
			assert.Equal(t, tt.tokens, actual)
		})
	}
}
