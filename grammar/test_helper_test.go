package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/spec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func genGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST:  ast,
		Name: "test",
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func setupTracing(t *testing.T) func() {
	return gotestingadapter.QuickConfig(t, "lrgen.grammar")
}

type testSymbolGenerator func(text string) symbol.Symbol

// newTestSymbolGenerator resolves `'x'` to a terminal, `$` to the endmark, and anything else to a
// non-terminal.
func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		if text == "$" {
			return symbol.Endmark
		}
		var sym symbol.Symbol
		var ok bool
		if strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") && len(text) >= 2 {
			sym, ok = symTab.ToTerminal(text[1 : len(text)-1])
		} else {
			sym, ok = symTab.ToNonTerminal(text)
		}
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func genSymbols(genSym testSymbolGenerator, texts ...string) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(texts))
	for _, text := range texts {
		syms = append(syms, genSym(text))
	}
	return syms
}

type testRuleFinder func(lhs string, rhs ...string) *Rule

func newTestRuleFinder(t *testing.T, gram *Grammar, genSym testSymbolGenerator) testRuleFinder {
	return func(lhs string, rhs ...string) *Rule {
		t.Helper()

		lhsSym := genSym(lhs)
		rhsSyms := genSymbols(genSym, rhs...)
	RULES:
		for _, rule := range gram.Rules() {
			if rule.LHS != lhsSym || len(rule.RHS) != len(rhsSyms) {
				continue
			}
			for i, sym := range rule.RHS {
				if sym != rhsSyms[i] {
					continue RULES
				}
			}
			return rule
		}
		t.Fatalf("rule was not found: %v → %v", lhs, rhs)
		return nil
	}
}
