// Package parser compiles lexical patterns into fragments of an nfa.NFA using Thompson's construction.
package parser

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/lexical/nfa"
)

// fragment is a partially built automaton: the state it is entered through and its exits that still
// wait for a target.
type fragment struct {
	entry nfa.StateID
	outs  []nfa.Out
}

type regexParser struct {
	*reader
	nfa *nfa.NFA
}

// CompileRegex builds the automaton of a regex into n and returns its start state. Following an
// accepting path from the start state consumes one string of the regex's language and ends in a
// state accepting the terminal.
//
// The syntax consists of alternation `a|b`, implicit concatenation, the repetitions `a+`, `a*`,
// and `a?`, groups `(a)`, bracket expressions `[0-9a-f_]`, and single characters with the escapes
// `\n`, `\t`, `\s`, `\uXXXX` and so on.
func CompileRegex(n *nfa.NFA, pattern string, accept *nfa.Terminal) (start nfa.StateID, retErr error) {
	p := &regexParser{
		reader: newReader(pattern),
		nfa:    n,
	}
	defer p.recoverParseError(&retErr)

	frag := p.parseRoot()
	final := n.AddState(accept)
	n.Patch(frag.outs, final)
	return frag.entry, nil
}

func (p *regexParser) parseRoot() *fragment {
	if p.eof() {
		p.raiseParseError(synErrNullPattern, "")
	}
	frag := p.parseExpr()
	if !p.eof() {
		// parseExpr stops only at the end of the pattern or at an unmatched `)`.
		p.raiseParseError(synErrGroupNoInitiator, "")
	}
	return frag
}

func (p *regexParser) parseExpr() *fragment {
	entry := p.nfa.AddState(nil)
	var outs []nfa.Out
	for {
		term := p.parseTerm()
		p.nfa.Link(entry, term.entry)
		outs = append(outs, term.outs...)
		if !p.consume('|') {
			break
		}
	}
	return &fragment{
		entry: entry,
		outs:  outs,
	}
}

func (p *regexParser) parseTerm() *fragment {
	first := p.parseFact()
	last := first
	for !p.eof() && p.peek() != ')' && p.peek() != '|' {
		fact := p.parseFact()
		p.nfa.Patch(last.outs, fact.entry)
		last = fact
	}
	return &fragment{
		entry: first.entry,
		outs:  last.outs,
	}
}

func (p *regexParser) parseFact() *fragment {
	atom := p.parseAtom()
	if p.eof() {
		return atom
	}
	op := p.peek()
	if op != '+' && op != '*' && op != '?' {
		return atom
	}
	p.next()

	junction := p.nfa.AddState(nil)
	p.nfa.Link(junction, atom.entry)
	bypass := p.nfa.AddEpsilon(junction)
	switch op {
	case '+':
		p.nfa.Patch(atom.outs, junction)
		return &fragment{
			entry: atom.entry,
			outs:  []nfa.Out{bypass},
		}
	case '*':
		p.nfa.Patch(atom.outs, junction)
		return &fragment{
			entry: junction,
			outs:  []nfa.Out{bypass},
		}
	default:
		return &fragment{
			entry: junction,
			outs:  append(atom.outs, bypass),
		}
	}
}

func (p *regexParser) parseAtom() *fragment {
	if p.eof() {
		p.raiseParseError(synErrUnexpectedEOF, "")
	}
	switch c := p.peek(); c {
	case '(':
		p.next()
		if p.eof() {
			p.raiseParseError(synErrGroupUnclosed, "")
		}
		if p.peek() == ')' {
			p.raiseParseError(synErrGroupNoElem, "")
		}
		expr := p.parseExpr()
		if !p.consume(')') {
			p.raiseParseError(synErrGroupUnclosed, "")
		}
		return expr
	case '[':
		p.next()
		return p.parseBExp()
	case ')':
		p.raiseParseError(synErrGroupNoInitiator, "")
	case ']':
		p.raiseParseError(synErrBExpNoInitiator, "")
	case '|':
		p.raiseParseError(synErrAltLackOfOperand, "")
	}

	c := p.readChar(regexEscapes)
	s := p.nfa.AddState(nil)
	return &fragment{
		entry: s,
		outs:  []nfa.Out{p.nfa.AddRange(s, c, c)},
	}
}

// parseBExp parses the rest of a bracket expression following `[`. Every character or range in the
// brackets becomes one edge of a single state.
func (p *regexParser) parseBExp() *fragment {
	if p.eof() {
		p.raiseParseError(synErrBExpUnclosed, "")
	}
	if p.peek() == ']' {
		p.raiseParseError(synErrBExpNoElem, "")
	}
	s := p.nfa.AddState(nil)
	var outs []nfa.Out
	for {
		if p.eof() {
			p.raiseParseError(synErrBExpUnclosed, "")
		}
		if p.consume(']') {
			break
		}
		from := p.readChar(regexEscapes)
		to := from
		if p.consume('-') {
			if p.eof() {
				p.raiseParseError(synErrRangeInvalidForm, "the range lacks its upper bound")
			}
			if p.peek() == ']' {
				p.raiseParseError(synErrRangeInvalidForm, "the range lacks its upper bound")
			}
			to = p.readChar(regexEscapes)
			if to < from {
				p.raiseParseError(synErrRangeInvalidOrder, fmt.Sprintf("[%v-%v]", string(from), string(to)))
			}
		}
		outs = append(outs, p.nfa.AddRange(s, from, to))
	}
	return &fragment{
		entry: s,
		outs:  outs,
	}
}
