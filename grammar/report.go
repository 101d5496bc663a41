package grammar

import (
	"github.com/nihei9/lrgen/grammar/symbol"
	spec "github.com/nihei9/lrgen/spec/grammar"
)

func genReport(gram *Grammar, automaton *lr1Automaton, tab *actionTable, synSpec *spec.SyntacticSpec) *spec.Report {
	var terms []*spec.Terminal
	for _, term := range synSpec.Terminals {
		if term == nil {
			continue
		}
		terms = append(terms, term)
	}

	var nonTerms []*spec.NonTerminalReport
	for _, nt := range gram.NonTerminals {
		nonTerms = append(nonTerms, &spec.NonTerminalReport{
			Num:      nt.Symbol.Num().Int(),
			Name:     nt.Name,
			Type:     nt.Type,
			Nullable: nt.Nullable,
			First:    terminalColumns(nt.First),
			Follow:   terminalColumns(nt.Follow),
		})
	}

	overlaps := map[stateNum][]*spec.Overlap{}
	for _, o := range tab.overlaps {
		overlaps[o.State] = append(overlaps[o.State], &spec.Overlap{
			Terminal: terminalColumn(o.Terminal),
			State:    o.State.Int(),
			Rule:     o.Rule,
		})
	}

	states := make([]*spec.StateReport, len(automaton.states))
	for _, state := range automaton.states {
		var kernel []*spec.Item
		for _, item := range state.kernel() {
			kernel = append(kernel, &spec.Item{
				Rule:      item.rule,
				Dot:       item.mark,
				Lookahead: terminalColumn(item.lookahead),
			})
		}
		acts := synSpec.Actions[tab.stateActions[state.num]]
		states[state.num] = &spec.StateReport{
			Num:           state.num.Int(),
			Kernel:        kernel,
			Shift:         acts.Shift,
			Reduce:        acts.Reduce,
			Accept:        len(acts.Accept) > 0,
			DefaultReduce: acts.DefaultReduce,
			GoTo:          synSpec.States[state.num].GoTo,
			Overlaps:      overlaps[state.num],
		}
	}

	return &spec.Report{
		Name:         gram.Name,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Rules:        synSpec.Rules,
		States:       states,
	}
}

func terminalColumns(syms []symbol.Symbol) []int {
	cols := make([]int, len(syms))
	for i, sym := range syms {
		cols[i] = terminalColumn(sym)
	}
	return cols
}
