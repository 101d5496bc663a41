package parser

import (
	"github.com/nihei9/lrgen/grammar/lexical/nfa"
)

// CompileLiteral builds a chain of states matching exactly the literal into n and returns its start
// state. The last state of the chain accepts the terminal. Backslash escapes such as `\n` and `\'`
// are decoded and raw non-printable characters are rejected.
func CompileLiteral(n *nfa.NFA, literal string, accept *nfa.Terminal) (start nfa.StateID, retErr error) {
	r := newReader(literal)
	defer r.recoverParseError(&retErr)

	if r.eof() {
		r.raiseParseError(synErrNullPattern, "")
	}
	start = n.AddState(nil)
	cur := start
	for !r.eof() {
		c := r.readChar(literalEscapes)
		next := n.AddState(nil)
		n.Patch([]nfa.Out{n.AddRange(cur, c, c)}, next)
		cur = next
	}
	n.State(cur).Accept = accept
	return start, nil
}
