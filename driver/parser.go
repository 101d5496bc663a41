// Package driver runs a compiled grammar: it splits a text stream into tokens and parses them with the
// packed LR(1) tables.
package driver

import (
	"fmt"
	"io"

	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("lrgen.driver")
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *Token
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Message)
}

type ParserOption func(p *Parser) error

// SemanticAction registers a set of semantic actions the parser calls.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

type Parser struct {
	gram       *spec.CompiledGrammar
	lex        *Lexer
	stateStack []int
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewParser(gram *spec.CompiledGrammar, src io.Reader, opts ...ParserOption) (*Parser, error) {
	if gram.Parser == nil {
		return nil, fmt.Errorf("the grammar %v has no parsing table", gram.Name)
	}

	lex, err := NewLexer(gram, src)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		gram:       gram,
		lex:        lex,
		stateStack: []int{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse parses the whole input. It stops at the first syntax error, which SyntaxErrors then reports; the
// returned error is reserved for broken tables and failing semantic actions.
func (p *Parser) Parse() error {
	tab := p.gram.Parser
	p.push(tab.InitialState)
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	for {
		if tok.Invalid {
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:               tok.Row,
				Col:               tok.Col,
				Message:           "invalid token",
				Token:             tok,
				ExpectedTerminals: p.searchLookahead(p.top()),
			})
			return nil
		}

		next, rule, ok, err := p.lookupAction(tok)
		if err != nil {
			return err
		}
		if !ok {
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:               tok.Row,
				Col:               tok.Col,
				Message:           "unexpected token",
				Token:             tok,
				ExpectedTerminals: p.searchLookahead(p.top()),
			})
			return nil
		}

		if next >= 0 {
			tracer().Debugf("state %v: shift %v and go to state %v", p.top(), p.terminalText(tok), next)
			p.push(next)
			if p.semAct != nil {
				if err := p.semAct.Shift(tok); err != nil {
					return err
				}
			}
			tok, err = p.lex.Next()
			if err != nil {
				return err
			}
			continue
		}

		if rule == tab.StartRule {
			tracer().Debugf("state %v: accept", p.top())
			if p.semAct != nil {
				p.semAct.Accept()
			}
			return nil
		}

		if err := p.reduce(rule); err != nil {
			return err
		}
		if p.semAct != nil {
			if err := p.semAct.Reduce(rule); err != nil {
				return err
			}
		}
	}
}

// lookupAction returns the action for the token in the top state. An explicit entry takes precedence
// over the default reduce of the state.
func (p *Parser) lookupAction(tok *Token) (int, int, bool, error) {
	tab := p.gram.Parser
	entry, err := tab.ActionTable.Lookup(p.top(), p.column(tok))
	if err != nil {
		return -1, -1, false, err
	}
	next, rule, ok := spec.DecodeAction(entry)
	if ok {
		return next, rule, true, nil
	}
	if dr := tab.DefaultReduces[p.top()]; dr != spec.DefaultReduceNil {
		return -1, dr, true, nil
	}
	return -1, -1, false, nil
}

func (p *Parser) reduce(rule int) error {
	tab := p.gram.Parser
	r := tab.Rules[rule]
	from := p.top()
	p.pop(r.Length)
	next, err := tab.GoToTable.Lookup(p.top(), r.LHS)
	if err != nil {
		return err
	}
	if next == spec.GoToEntryNil {
		return fmt.Errorf("state %v has no goto on %v", p.top(), tab.NonTerminals[r.LHS].Name)
	}
	tracer().Debugf("state %v: reduce by rule %v and go to state %v", from, rule, next)
	p.push(next)
	return nil
}

func (p *Parser) column(tok *Token) int {
	if tok.EOF {
		return spec.EndmarkColumn
	}
	return tok.Terminal
}

func (p *Parser) terminalText(tok *Token) string {
	if tok.EOF {
		return "<eof>"
	}
	return p.gram.Parser.Terminals[tok.Terminal].Name
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

// searchLookahead lists the terminals having an explicit action in a state.
func (p *Parser) searchLookahead(state int) []string {
	terms := []string{}
	tab := p.gram.Parser
	for col := 0; col < len(tab.Terminals); col++ {
		entry, err := tab.ActionTable.Lookup(state, col)
		if err != nil || entry == spec.ActionEntryError {
			continue
		}
		if col == spec.EndmarkColumn {
			terms = append(terms, "<eof>")
			continue
		}
		terms = append(terms, tab.Terminals[col].Name)
	}
	return terms
}
