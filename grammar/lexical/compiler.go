// Package lexical compiles the patterns of all terminals into one minimized DFA.
package lexical

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/lexical/dfa"
	"github.com/nihei9/lrgen/grammar/lexical/nfa"
	psr "github.com/nihei9/lrgen/grammar/lexical/parser"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("lrgen.lexical")
}

type CompileError struct {
	Terminal string
	Pattern  *Pattern
	Cause    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v: %v: %v", e.Terminal, e.Pattern, e.Cause)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Compile builds the lexer automaton. Every pattern is compiled into one NFA, and the NFA is turned
// into a minimized DFA. When any pattern is malformed, Compile returns the errors of all malformed
// patterns and no automaton.
func Compile(lexspec *LexSpec) (*dfa.DFA, error, []*CompileError) {
	err := lexspec.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid lexical specification:\n%w", err), nil
	}

	n := nfa.New()
	var starts []nfa.StateID
	var cerrs []*CompileError
	for _, e := range lexspec.Entries {
		for _, pat := range e.Patterns {
			var start nfa.StateID
			var err error
			if pat.Literal {
				start, err = psr.CompileLiteral(n, pat.Text, e.Terminal)
			} else {
				start, err = psr.CompileRegex(n, pat.Text, e.Terminal)
			}
			if err != nil {
				cerrs = append(cerrs, &CompileError{
					Terminal: e.Terminal.Name,
					Pattern:  pat,
					Cause:    err,
				})
				continue
			}
			starts = append(starts, start)
		}
	}
	if len(cerrs) > 0 {
		return nil, fmt.Errorf("compile error"), cerrs
	}

	d := dfa.Minimize(dfa.Build(n, starts))

	tracer().Infof("lexer: %v terminals, %v NFA states, %v DFA nodes", len(lexspec.Entries), n.Len(), len(d.Nodes))

	return d, nil, nil
}
