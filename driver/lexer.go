package driver

import (
	"fmt"
	"io"
	"sort"
	"unicode"

	spec "github.com/nihei9/lrgen/spec/grammar"
)

// Token is a lexeme the lexer matched.
type Token struct {
	// Terminal is the number of the terminal the lexeme matches. It is meaningless for the EOF token and
	// invalid tokens.
	Terminal int

	Text string

	// Row and Col are 0-based. Col is counted in code points, not bytes.
	Row int
	Col int

	EOF bool

	// Invalid is true when no terminal matches the lexeme.
	Invalid bool
}

type Lexer struct {
	spec *spec.LexicalSpec
	src  []rune
	ptr  int
	row  int
	col  int
}

func NewLexer(gram *spec.CompiledGrammar, src io.Reader) (*Lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if gram.Lexer == nil || len(gram.Lexer.Nodes) == 0 {
		return nil, fmt.Errorf("the grammar %v has no lexer", gram.Name)
	}
	return &Lexer{
		spec: gram.Lexer,
		src:  []rune(string(b)),
	}, nil
}

// Next returns the next token. The lexer follows transitions as long as one exists and then emits the
// terminal the reached node accepts, so it never backtracks to a shorter match. White spaces are skipped
// only when the initial node has no transition on them.
func (l *Lexer) Next() (*Token, error) {
	for {
		if l.ptr >= len(l.src) {
			return &Token{
				Text: "",
				Row:  l.row,
				Col:  l.col,
				EOF:  true,
			}, nil
		}

		start, row, col := l.ptr, l.row, l.col
		node := l.spec.InitialNode
		for l.ptr < len(l.src) {
			next, ok, err := l.next(node, l.src[l.ptr])
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			node = next
			l.advance()
		}

		if l.ptr == start {
			c := l.src[l.ptr]
			l.advance()
			if unicode.IsSpace(c) {
				continue
			}
			return &Token{
				Text:    string(c),
				Row:     row,
				Col:     col,
				Invalid: true,
			}, nil
		}

		tok := &Token{
			Text: string(l.src[start:l.ptr]),
			Row:  row,
			Col:  col,
		}
		accept := l.spec.Nodes[node].Accept
		if accept == spec.LexAcceptNil {
			tok.Invalid = true
		} else {
			tok.Terminal = accept
		}
		return tok, nil
	}
}

func (l *Lexer) next(node int, c rune) (int, bool, error) {
	trans := l.spec.Nodes[node].Transitions
	i := sort.Search(len(trans), func(i int) bool {
		return trans[i].To >= c
	})
	if i >= len(trans) || trans[i].From > c {
		return 0, false, nil
	}
	next := trans[i].Next
	if next < 0 || next >= len(l.spec.Nodes) {
		return 0, false, fmt.Errorf("node %v has a transition to an unknown node %v", node, next)
	}
	return next, true, nil
}

func (l *Lexer) advance() {
	if l.src[l.ptr] == '\n' {
		l.row++
		l.col = 0
	} else {
		l.col++
	}
	l.ptr++
}
