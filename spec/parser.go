// Package spec reads grammar files.
package spec

import (
	"fmt"
	"io"

	verr "github.com/nihei9/lrgen/error"
)

type RootNode struct {
	Includes []*IncludeNode

	// Decls keeps the declaration order. Terminal ranks derive from it.
	Decls []*DeclNode
}

// IncludeNode keeps an include target together with its delimiters, such as "calc.hpp" or <vector>.
type IncludeNode struct {
	Path string
	Pos  Position
}

// DeclNode holds either a terminal or a non-terminal declaration.
type DeclNode struct {
	Terminal    *TerminalNode
	NonTerminal *NonTerminalNode
}

type TerminalNode struct {
	Name    string
	Type    string
	Pattern string
	Action  string
	Pos     Position
}

type NonTerminalNode struct {
	Name         string
	Type         string
	Alternatives []*AlternativeNode
	Pos          Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Action   string
	Pos      Position
}

type ElementNode struct {
	Name     string
	Terminal bool
	Pos      Position
}

func (e *ElementNode) String() string {
	if e.Terminal {
		return fmt.Sprintf("'%v'", e.Name)
	}
	return e.Name
}

func raiseSyntaxError(synErr *SyntaxError, pos Position) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			panic(v)
		}
		retErr = err
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		inc := p.parseInclude()
		if inc == nil {
			break
		}
		root.Includes = append(root.Includes, inc)
	}
	for {
		decl := p.parseDecl()
		if decl == nil {
			break
		}
		root.Decls = append(root.Decls, decl)
	}
	return root
}

func (p *parser) parseInclude() *IncludeNode {
	if !p.consume(tokenKindKWInclude) {
		return nil
	}
	pos := p.lastTok.pos
	switch {
	case p.consume(tokenKindPattern):
		return &IncludeNode{
			Path: `"` + p.lastTok.text + `"`,
			Pos:  pos,
		}
	case p.consume(tokenKindType):
		return &IncludeNode{
			Path: "<" + p.lastTok.text + ">",
			Pos:  pos,
		}
	}
	raiseSyntaxError(synErrNoIncludePath, p.peek().pos)
	return nil
}

func (p *parser) parseDecl() *DeclNode {
	switch {
	case p.consume(tokenKindEOF):
		return nil
	case p.consume(tokenKindTerminal):
		return &DeclNode{
			Terminal: p.parseTerminal(),
		}
	case p.consume(tokenKindID):
		return &DeclNode{
			NonTerminal: p.parseNonTerminal(),
		}
	case p.consume(tokenKindKWInclude):
		raiseSyntaxError(synErrIncludeAfterDecl, p.lastTok.pos)
	}
	raiseSyntaxError(synErrNoDeclaration, p.peek().pos)
	return nil
}

// parseTerminal parses the rest of a terminal declaration following its name.
func (p *parser) parseTerminal() *TerminalNode {
	term := &TerminalNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	if p.consume(tokenKindType) {
		term.Type = p.lastTok.text
	}
	if p.consume(tokenKindPattern) {
		term.Pattern = p.lastTok.text
	}
	term.Action = p.parseAction()
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.peek().pos)
	}
	return term
}

// parseNonTerminal parses the rest of a non-terminal declaration following its name.
func (p *parser) parseNonTerminal() *NonTerminalNode {
	nonTerm := &NonTerminalNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	if p.consume(tokenKindType) {
		nonTerm.Type = p.lastTok.text
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(synErrNoColon, p.peek().pos)
	}
	nonTerm.Alternatives = append(nonTerm.Alternatives, p.parseAlternative())
	for p.consume(tokenKindOr) {
		nonTerm.Alternatives = append(nonTerm.Alternatives, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.peek().pos)
	}
	return nonTerm
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.peek().pos,
	}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		alt.Elements = append(alt.Elements, elem)
	}
	alt.Action = p.parseAction()
	return alt
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			Name: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	case p.consume(tokenKindTerminal):
		return &ElementNode{
			Name:     p.lastTok.text,
			Terminal: true,
			Pos:      p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) parseAction() string {
	if !p.consume(tokenKindAmpersand) {
		return ""
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoActionName, p.peek().pos)
	}
	return p.lastTok.text
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(synErrInvalidToken, tok.pos)
	}
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}
