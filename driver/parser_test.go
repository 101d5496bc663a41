package driver

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calcScanFuncs() map[string]ScanFunc {
	return map[string]ScanFunc{
		"scan_num": func(text string) (interface{}, error) {
			return strconv.Atoi(text)
		},
		"scan_hex": func(text string) (interface{}, error) {
			n, err := strconv.ParseInt(text[2:], 16, 64)
			return int(n), err
		},
	}
}

func calcReduceFuncs() map[string]ReduceFunc {
	binary := func(op func(a, b int) (int, error)) ReduceFunc {
		return func(args []interface{}) (interface{}, error) {
			return op(args[0].(int), args[2].(int))
		}
	}
	return map[string]ReduceFunc{
		"add": binary(func(a, b int) (int, error) { return a + b, nil }),
		"sub": binary(func(a, b int) (int, error) { return a - b, nil }),
		"mul": binary(func(a, b int) (int, error) { return a * b, nil }),
		"div": binary(func(a, b int) (int, error) {
			if b == 0 {
				return 0, errors.New("division by zero")
			}
			return a / b, nil
		}),
		"paren": func(args []interface{}) (interface{}, error) {
			return args[1], nil
		},
	}
}

func TestParser_Parse(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()

	cg := compileGrammar(t, calcSrc)

	tests := []struct {
		src   string
		value int
	}{
		{src: `1`, value: 1},
		{src: `1+2`, value: 3},
		{src: `1 + 2 * 3`, value: 7},
		{src: `(1 + 2) * 3`, value: 9},
		{src: `0x10 - 6`, value: 10},
		{src: `8 / 2 / 2`, value: 2},
		{src: `10 - 2 - 3`, value: 5},
		{src: "((0xff))\n- 0x0F", value: 240},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			semAct := NewValueActionSet(cg, calcScanFuncs(), calcReduceFuncs())
			p, err := NewParser(cg, strings.NewReader(tt.src), SemanticAction(semAct))
			require.NoError(t, err)
			require.NoError(t, p.Parse())
			require.Empty(t, p.SyntaxErrors())
			assert.Equal(t, tt.value, semAct.Value())
		})
	}
}

func TestParser_Parse_PassThrough(t *testing.T) {
	cg := compileGrammar(t, calcSrc)

	// Without registered functions, terminals yield their text and a rule passes through the value of its
	// only typed symbol.
	semAct := NewValueActionSet(cg, nil, nil)
	p, err := NewParser(cg, strings.NewReader(`((7))`), SemanticAction(semAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Empty(t, p.SyntaxErrors())
	assert.Equal(t, "7", semAct.Value())

	semAct = NewValueActionSet(cg, nil, nil)
	p, err = NewParser(cg, strings.NewReader(`1+2`), SemanticAction(semAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	assert.Nil(t, semAct.Value())
}

func TestParser_Parse_SemanticActionError(t *testing.T) {
	cg := compileGrammar(t, calcSrc)

	semAct := NewValueActionSet(cg, calcScanFuncs(), calcReduceFuncs())
	p, err := NewParser(cg, strings.NewReader(`1 / (2 - 2)`), SemanticAction(semAct))
	require.NoError(t, err)
	err = p.Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	cg := compileGrammar(t, calcSrc)

	tests := []struct {
		caption  string
		src      string
		row      int
		col      int
		message  string
		text     string
		eof      bool
		expected []string
	}{
		{
			caption:  "an operator is missing its right operand",
			src:      `1 + * 2`,
			row:      0,
			col:      4,
			message:  "unexpected token",
			text:     "*",
			expected: []string{"num", "hex", "("},
		},
		{
			caption:  "the input ends too early",
			src:      "(1 +\n2",
			row:      1,
			col:      1,
			message:  "unexpected token",
			eof:      true,
			expected: []string{"+", "-", ")"},
		},
		{
			caption:  "an invalid token",
			src:      `1 + # 2`,
			row:      0,
			col:      4,
			message:  "invalid token",
			text:     "#",
			expected: []string{"num", "hex", "("},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(cg, strings.NewReader(tt.src))
			require.NoError(t, err)
			require.NoError(t, p.Parse())

			synErrs := p.SyntaxErrors()
			require.Len(t, synErrs, 1)
			synErr := synErrs[0]
			assert.Equal(t, tt.row, synErr.Row)
			assert.Equal(t, tt.col, synErr.Col)
			assert.Equal(t, tt.message, synErr.Message)
			assert.Equal(t, tt.text, synErr.Token.Text)
			assert.Equal(t, tt.eof, synErr.Token.EOF)
			assert.ElementsMatch(t, tt.expected, synErr.ExpectedTerminals)
		})
	}
}

func TestParser_Parse_CST(t *testing.T) {
	cg := compileGrammar(t, calcSrc)

	// The parser must run on a grammar read back from JSON.
	b, err := json.Marshal(cg)
	require.NoError(t, err)
	cg = &spec.CompiledGrammar{}
	require.NoError(t, json.Unmarshal(b, cg))

	semAct := NewSyntaxTreeActionSet(cg)
	p, err := NewParser(cg, strings.NewReader(`1+2`), SemanticAction(semAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Empty(t, p.SyntaxErrors())

	var sb strings.Builder
	PrintTree(&sb, semAct.CST())
	assert.Equal(t, `expr
├─ expr
│  └─ term
│     └─ factor
│        └─ num "1"
├─ + "+"
└─ term
   └─ factor
      └─ num "2"
`, sb.String())

	num := semAct.CST().Children[2].Children[0].Children[0]
	assert.Equal(t, 0, num.Row)
	assert.Equal(t, 2, num.Col)
}
