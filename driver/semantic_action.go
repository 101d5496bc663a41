package driver

import (
	"fmt"
	"io"

	spec "github.com/nihei9/lrgen/spec/grammar"
)

// SemanticActionSet is a set of semantic actions a parser calls.
type SemanticActionSet interface {
	// Shift runs when the parser shifts a token onto the state stack.
	Shift(tok *Token) error

	// Reduce runs when the parser reduces the RHS of a rule to its LHS.
	Reduce(rule int) error

	// Accept runs when the parser accepts an input.
	Accept()
}

var (
	_ SemanticActionSet = &SyntaxTreeActionSet{}
	_ SemanticActionSet = &ValueActionSet{}
)

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree.
type SyntaxTreeActionSet struct {
	gram     *spec.CompiledGrammar
	cst      *Node
	semStack *semanticStack
}

func NewSyntaxTreeActionSet(gram *spec.CompiledGrammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Shift(tok *Token) error {
	a.semStack.push(&Node{
		KindName: a.gram.Parser.Terminals[tok.Terminal].Name,
		Text:     tok.Text,
		Row:      tok.Row,
		Col:      tok.Col,
	})
	return nil
}

func (a *SyntaxTreeActionSet) Reduce(rule int) error {
	r := a.gram.Parser.Rules[rule]

	// When an alternative is empty, `handle` will be an empty slice.
	handle := a.semStack.pop(r.Length)
	children := make([]*Node, len(handle))
	for i, v := range handle {
		children[i] = v.(*Node)
	}
	a.semStack.push(&Node{
		KindName: a.gram.Parser.NonTerminals[r.LHS].Name,
		Children: children,
	})
	return nil
}

func (a *SyntaxTreeActionSet) Accept() {
	a.cst = a.semStack.pop(1)[0].(*Node)
}

func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

// ScanFunc converts the text of a token into a semantic value.
type ScanFunc func(text string) (interface{}, error)

// ReduceFunc computes the semantic value of a rule's LHS from the values of its RHS symbols.
type ReduceFunc func(args []interface{}) (interface{}, error)

// ValueActionSet computes semantic values with the functions registered under the action names of the
// grammar. A terminal without a registered scan function yields its text. A rule without a registered
// reduce function passes through the value of its only symbol, or of its only typed symbol, and yields
// nil otherwise.
type ValueActionSet struct {
	gram        *spec.CompiledGrammar
	scanFuncs   map[string]ScanFunc
	reduceFuncs map[string]ReduceFunc
	value       interface{}
	semStack    *semanticStack
}

func NewValueActionSet(gram *spec.CompiledGrammar, scanFuncs map[string]ScanFunc, reduceFuncs map[string]ReduceFunc) *ValueActionSet {
	return &ValueActionSet{
		gram:        gram,
		scanFuncs:   scanFuncs,
		reduceFuncs: reduceFuncs,
		semStack:    newSemanticStack(),
	}
}

func (a *ValueActionSet) Shift(tok *Token) error {
	term := a.gram.Parser.Terminals[tok.Terminal]
	f, ok := a.scanFuncs[term.Action]
	if term.Action == "" || !ok {
		a.semStack.push(tok.Text)
		return nil
	}
	v, err := f(tok.Text)
	if err != nil {
		return fmt.Errorf("%v:%v: %v: %w", tok.Row+1, tok.Col+1, term.Action, err)
	}
	a.semStack.push(v)
	return nil
}

func (a *ValueActionSet) Reduce(rule int) error {
	r := a.gram.Parser.Rules[rule]
	handle := a.semStack.pop(r.Length)

	if f, ok := a.reduceFuncs[r.Action]; r.Action != "" && ok {
		args := make([]interface{}, len(handle))
		copy(args, handle)
		v, err := f(args)
		if err != nil {
			return fmt.Errorf("%v: %w", r.Action, err)
		}
		a.semStack.push(v)
		return nil
	}

	a.semStack.push(a.passThrough(r, handle))
	return nil
}

func (a *ValueActionSet) passThrough(r *spec.Rule, handle []interface{}) interface{} {
	if len(handle) == 1 {
		return handle[0]
	}
	typed := -1
	for i, sym := range r.RHS {
		var typ string
		if sym > 0 {
			typ = a.gram.Parser.Terminals[sym].Type
		} else {
			typ = a.gram.Parser.NonTerminals[-sym].Type
		}
		if typ == "" {
			continue
		}
		if typed >= 0 {
			return nil
		}
		typed = i
	}
	if typed < 0 {
		return nil
	}
	return handle[typed]
}

func (a *ValueActionSet) Accept() {
	a.value = a.semStack.pop(1)[0]
}

// Value returns the semantic value of the accepted input.
func (a *ValueActionSet) Value() interface{} {
	return a.value
}

type semanticStack struct {
	frames []interface{}
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f interface{}) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []interface{} {
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}
