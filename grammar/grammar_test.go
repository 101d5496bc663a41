package grammar

import (
	"strings"
	"testing"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarBuilder_Build(t *testing.T) {
	gram := genGrammar(t, `
#include "calc.hpp"

'b' <int> ;
s <int> : 'a' 'b' t & make_s | ;
t : 'c' ;
'a' "a+" & scan_a ;
'a' "A" ;
'b' <long> ;
`)

	assert.Equal(t, "test", gram.Name)
	assert.Equal(t, []string{`"calc.hpp"`}, gram.Includes)

	require.Len(t, gram.Terminals, 3)
	for i, name := range []string{"b", "a", "c"} {
		term := gram.Terminals[i]
		assert.Equal(t, name, term.Name)
		assert.Equal(t, i+1, term.Rank)
	}
	assert.Equal(t, "int", gram.Terminals[0].Type)
	assert.Equal(t, "scan_a", gram.Terminals[1].Action)
	assert.Equal(t, []*lexical.Pattern{
		{Text: "b", Literal: true},
	}, gram.Terminals[0].Patterns)
	assert.Equal(t, []*lexical.Pattern{
		{Text: "a+"},
		{Text: "A"},
	}, gram.Terminals[1].Patterns)

	require.Len(t, gram.NonTerminals, 3)
	assert.Equal(t, "s", gram.NonTerminals[0].Name)
	assert.Equal(t, "int", gram.NonTerminals[0].Type)
	assert.Equal(t, "t", gram.NonTerminals[1].Name)
	assert.Equal(t, "s'", gram.NonTerminals[2].Name)
	assert.Equal(t, "s", gram.Start().Name)

	rules := gram.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, "s' → s", gram.RuleString(rules[0]))
	assert.Equal(t, "s → 'a' 'b' t & make_s", gram.RuleString(rules[1]))
	assert.Equal(t, "s → ε", gram.RuleString(rules[2]))
	assert.Equal(t, "t → 'c'", gram.RuleString(rules[3]))
	for i, rule := range rules {
		assert.Equal(t, i, rule.Num)
	}
	assert.Len(t, gram.NonTerminals[0].Rules, 2)
}

func TestGrammarBuilder_Build_Error(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		errs    []*SemanticError
	}{
		{
			caption: "a grammar needs a non-terminal",
			src:     `'a' ;`,
			errs:    []*SemanticError{semErrEmptyGrammar},
		},
		{
			caption: "an empty source is an empty grammar",
			src:     ``,
			errs:    []*SemanticError{semErrEmptyGrammar},
		},
		{
			caption: "a non-terminal used without rules is an error",
			src:     `s : t u ;`,
			errs:    []*SemanticError{semErrNoRule, semErrNoRule},
		},
		{
			caption: "a terminal cannot have different actions",
			src: `
'n' "[0-9]+" & scan_dec ;
'n' "0x[0-9a-f]+" & scan_hex ;
s : 'n' ;
`,
			errs: []*SemanticError{semErrConflictingTermAction},
		},
		{
			caption: "a non-terminal cannot have different types",
			src: `
s <int> : 'a' ;
s <long> : 'b' ;
`,
			errs: []*SemanticError{semErrConflictingNonTermType},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := spec.Parse(strings.NewReader(tt.src))
			require.NoError(t, err)
			b := GrammarBuilder{
				AST: ast,
			}
			_, err = b.Build()
			require.Error(t, err)
			specErrs, ok := err.(verr.SpecErrors)
			require.True(t, ok, "unexpected error: %v", err)
			require.Len(t, specErrs, len(tt.errs))
			for i, e := range tt.errs {
				assert.Equal(t, e, specErrs[i].Cause)
			}
		})
	}
}

func TestGrammarBuilder_Build_SameActionTwice(t *testing.T) {
	gram := genGrammar(t, `
'n' "[0-9]+" & scan ;
'n' & scan ;
s : 'n' ;
`)
	assert.Equal(t, "scan", gram.Terminals[0].Action)
	assert.Len(t, gram.Terminals[0].Patterns, 1)
}

func TestGrammarBuilder_Build_ErrorPosition(t *testing.T) {
	ast, err := spec.Parse(strings.NewReader("s : 'a' t ;\n"))
	require.NoError(t, err)
	b := GrammarBuilder{
		AST: ast,
	}
	_, err = b.Build()
	specErrs, ok := err.(verr.SpecErrors)
	require.True(t, ok)
	require.Len(t, specErrs, 1)
	assert.Equal(t, "t", specErrs[0].Detail)
	assert.Equal(t, 1, specErrs[0].Row)
	assert.Equal(t, 9, specErrs[0].Col)
}
