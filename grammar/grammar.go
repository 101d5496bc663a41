// Package grammar turns a grammar definition into a lexer automaton and canonical LR(1) parsing tables.
package grammar

import (
	"fmt"
	"sort"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/grammar/lexical/nfa"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/nihei9/lrgen/spec"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("lrgen.grammar")
}

// Terminal is a token kind. A lower rank wins when several terminals match the same longest input.
type Terminal struct {
	Symbol   symbol.Symbol
	Name     string
	Rank     int
	Type     string
	Action   string
	Patterns []*lexical.Pattern

	pos spec.Position
}

// NonTerminal owns its rules. First, Nullable, and Follow are filled in by Compile.
type NonTerminal struct {
	Symbol   symbol.Symbol
	Name     string
	Type     string
	Rules    []*Rule
	First    []symbol.Symbol
	Nullable bool
	Follow   []symbol.Symbol

	pos spec.Position
}

type Grammar struct {
	Name     string
	Includes []string

	// Terminals are ordered by rank and NonTerminals by symbol number. The augmented start symbol is the
	// last non-terminal.
	Terminals    []*Terminal
	NonTerminals []*NonTerminal

	symbolTable          *symbol.SymbolTable
	rules                *ruleSet
	startSymbol          symbol.Symbol
	augmentedStartSymbol symbol.Symbol
}

// Rules returns all rules. Rule 0 is the augmented start rule.
func (g *Grammar) Rules() []*Rule {
	return g.rules.all()
}

// Start returns the start symbol, which is the first non-terminal of the definition.
func (g *Grammar) Start() *NonTerminal {
	return g.nonTerminal(g.startSymbol)
}

func (g *Grammar) nonTerminal(sym symbol.Symbol) *NonTerminal {
	for _, nt := range g.NonTerminals {
		if nt.Symbol == sym {
			return nt
		}
	}
	return nil
}

func (g *Grammar) symbolText(sym symbol.Symbol) string {
	text, ok := g.symbolTable.Reader().ToText(sym)
	if !ok {
		return sym.String()
	}
	if sym.IsTerminal() {
		return fmt.Sprintf("'%v'", text)
	}
	return text
}

// RuleString formats a rule like `expr → expr '+' term & add`.
func (g *Grammar) RuleString(rule *Rule) string {
	return formatRule(rule, g.symbolText)
}

type GrammarBuilder struct {
	AST  *spec.RootNode
	Name string

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	var terms []*Terminal
	sym2Term := map[symbol.Symbol]*Terminal{}
	var nonTerms []*NonTerminal
	sym2NonTerm := map[symbol.Symbol]*NonTerminal{}

	terminal := func(name string, pos spec.Position) (*Terminal, error) {
		sym, isNew, err := w.RegisterTerminal(name)
		if err != nil {
			return nil, err
		}
		if !isNew {
			return sym2Term[sym], nil
		}
		term := &Terminal{
			Symbol: sym,
			Name:   name,
			Rank:   sym.Num().Int(),
			pos:    pos,
		}
		terms = append(terms, term)
		sym2Term[sym] = term
		return term, nil
	}
	nonTerminal := func(name string, pos spec.Position) (*NonTerminal, error) {
		sym, isNew, err := w.RegisterNonTerminal(name)
		if err != nil {
			return nil, err
		}
		if !isNew {
			return sym2NonTerm[sym], nil
		}
		nt := &NonTerminal{
			Symbol: sym,
			Name:   name,
			pos:    pos,
		}
		nonTerms = append(nonTerms, nt)
		sym2NonTerm[sym] = nt
		return nt, nil
	}

	var userRules []*Rule
	for _, decl := range b.AST.Decls {
		if decl.Terminal != nil {
			td := decl.Terminal
			term, err := terminal(td.Name, td.Pos)
			if err != nil {
				return nil, err
			}
			if term.Type == "" {
				term.Type = td.Type
			}
			if td.Action != "" {
				if term.Action != "" && term.Action != td.Action {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrConflictingTermAction,
						Detail: fmt.Sprintf("'%v': %v and %v", td.Name, term.Action, td.Action),
						Row:    td.Pos.Row,
						Col:    td.Pos.Col,
					})
				} else {
					term.Action = td.Action
				}
			}
			if td.Pattern != "" {
				term.Patterns = append(term.Patterns, &lexical.Pattern{
					Text: td.Pattern,
				})
			}
			continue
		}

		nd := decl.NonTerminal
		nt, err := nonTerminal(nd.Name, nd.Pos)
		if err != nil {
			return nil, err
		}
		if nd.Type != "" {
			if nt.Type != "" && nt.Type != nd.Type {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrConflictingNonTermType,
					Detail: fmt.Sprintf("%v: %v and %v", nd.Name, nt.Type, nd.Type),
					Row:    nd.Pos.Row,
					Col:    nd.Pos.Col,
				})
			} else {
				nt.Type = nd.Type
			}
		}
		for _, alt := range nd.Alternatives {
			rhs := make([]symbol.Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				if elem.Terminal {
					term, err := terminal(elem.Name, elem.Pos)
					if err != nil {
						return nil, err
					}
					rhs = append(rhs, term.Symbol)
					continue
				}
				ref, err := nonTerminal(elem.Name, elem.Pos)
				if err != nil {
					return nil, err
				}
				rhs = append(rhs, ref.Symbol)
			}
			rule, err := newRule(nt.Symbol, rhs, alt.Action)
			if err != nil {
				return nil, err
			}
			nt.Rules = append(nt.Rules, rule)
			userRules = append(userRules, rule)
		}
	}

	if len(nonTerms) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrEmptyGrammar,
		})
	}
	for _, nt := range nonTerms {
		if len(nt.Rules) > 0 {
			continue
		}
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrNoRule,
			Detail: nt.Name,
			Row:    nt.pos.Row,
			Col:    nt.pos.Col,
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	for _, term := range terms {
		if len(term.Patterns) > 0 {
			continue
		}
		term.Patterns = []*lexical.Pattern{
			{
				Text:    term.Name,
				Literal: true,
			},
		}
	}

	start := nonTerms[0]
	augSym, err := w.RegisterStart(start.Name + "'")
	if err != nil {
		return nil, err
	}
	startRule, err := newRule(augSym, []symbol.Symbol{start.Symbol}, "")
	if err != nil {
		return nil, err
	}
	nonTerms = append(nonTerms, &NonTerminal{
		Symbol: augSym,
		Name:   start.Name + "'",
		Type:   start.Type,
		Rules:  []*Rule{startRule},
	})

	rules := newRuleSet()
	rules.append(startRule)
	for _, rule := range userRules {
		rules.append(rule)
	}

	var includes []string
	for _, inc := range b.AST.Includes {
		includes = append(includes, inc.Path)
	}

	return &Grammar{
		Name:                 b.Name,
		Includes:             includes,
		Terminals:            terms,
		NonTerminals:         nonTerms,
		symbolTable:          symTab,
		rules:                rules,
		startSymbol:          start.Symbol,
		augmentedStartSymbol: augSym,
	}, nil
}

// analyze fills FIRST, nullability, and FOLLOW in the non-terminals.
func (g *Grammar) analyze() (*firstSet, error) {
	first, err := genFirstSet(g.rules)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(g.rules, first, g.augmentedStartSymbol)
	if err != nil {
		return nil, err
	}
	for _, nt := range g.NonTerminals {
		fst := first.findBySymbol(nt.Symbol)
		if fst == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", nt.Symbol)
		}
		nt.First = fst.sorted()
		nt.Nullable = fst.empty
		flw, err := follow.find(nt.Symbol)
		if err != nil {
			return nil, err
		}
		nt.Follow = flw.sorted()
	}
	return first, nil
}

func (g *Grammar) lexSpec() *lexical.LexSpec {
	entries := make([]*lexical.LexEntry, 0, len(g.Terminals))
	for _, term := range g.Terminals {
		entries = append(entries, &lexical.LexEntry{
			Terminal: &nfa.Terminal{
				Num:  term.Symbol.Num().Int(),
				Name: term.Name,
				Rank: term.Rank,
			},
			Patterns: term.Patterns,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Terminal.Rank < entries[j].Terminal.Rank
	})
	return &lexical.LexSpec{
		Entries: entries,
	}
}
