package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/spec"
	cspec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

const calcSrc = `
'num' <int> "[0-9]+" & scan_num ;
'hex' <int> "0x[0-9a-fA-F]+" & scan_hex ;
expr <int>
    : expr '+' term & add
    | expr '-' term & sub
    | term
    ;
term <int>
    : term '*' factor & mul
    | term '/' factor & div
    | factor
    ;
factor <int>
    : '(' expr ')' & paren
    | 'num'
    | 'hex'
    ;
`

func compileGrammar(t *testing.T, src string) *cspec.CompiledGrammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST:  ast,
		Name: "test",
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cg, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	return cg
}

func setupTracing(t *testing.T) func() {
	return gotestingadapter.QuickConfig(t, "lrgen.driver")
}
