package grammar

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// ShiftConflictError reports a terminal that would shift to two different states.
type ShiftConflictError struct {
	State    int
	Terminal string
	Next1    int
	Next2    int
}

func (e *ShiftConflictError) Error() string {
	return fmt.Sprintf("shift conflict: state %v shifts %v to both state %v and state %v", e.State, e.Terminal, e.Next1, e.Next2)
}

// ReduceConflictError reports a lookahead on which two different rules reduce.
type ReduceConflictError struct {
	State    int
	Terminal string
	Rule1    string
	Rule2    string
}

func (e *ReduceConflictError) Error() string {
	return fmt.Sprintf("reduce/reduce conflict: state %v, lookahead %v\n    %v\n    %v", e.State, e.Terminal, e.Rule1, e.Rule2)
}

// ShiftReduceOverlap is a lookahead on which a state both shifts and reduces. The shift wins.
type ShiftReduceOverlap struct {
	State    stateNum
	Terminal symbol.Symbol
	Rule     int
}

func conflictErrors(errs []error) verr.SpecErrors {
	specErrs := make(verr.SpecErrors, 0, len(errs))
	for _, err := range errs {
		specErrs = append(specErrs, &verr.SpecError{
			Cause: err,
		})
	}
	return specErrs
}

const defaultReduceNil = -1

// Actions is the action record of a state. Shift maps a terminal to the next state, and Reduce and Accept
// map a lookahead to a rule. States computing the same record share it.
type Actions struct {
	Num           int
	Shift         map[symbol.Symbol]stateNum
	Reduce        map[symbol.Symbol]int
	Accept        map[symbol.Symbol]int
	DefaultReduce int
}

func newActions() *Actions {
	return &Actions{
		Shift:         map[symbol.Symbol]stateNum{},
		Reduce:        map[symbol.Symbol]int{},
		Accept:        map[symbol.Symbol]int{},
		DefaultReduce: defaultReduceNil,
	}
}

// actionsDigest is the hashable form of Actions. Each slice holds (symbol, value) pairs ordered by symbol.
type actionsDigest struct {
	Shift         []int
	Reduce        []int
	Accept        []int
	DefaultReduce int
}

func (a *Actions) hash() (string, error) {
	shift := map[symbol.Symbol]int{}
	for sym, next := range a.Shift {
		shift[sym] = next.Int()
	}
	return structhash.Hash(&actionsDigest{
		Shift:         flattenActionMap(shift),
		Reduce:        flattenActionMap(a.Reduce),
		Accept:        flattenActionMap(a.Accept),
		DefaultReduce: a.DefaultReduce,
	}, 1)
}

func flattenActionMap(m map[symbol.Symbol]int) []int {
	syms := make([]symbol.Symbol, 0, len(m))
	for sym := range m {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	pairs := make([]int, 0, len(syms)*2)
	for _, sym := range syms {
		pairs = append(pairs, int(sym), m[sym])
	}
	return pairs
}

// compressReduce replaces the reduce entries of the rule used by the most lookaheads with a default reduce
// when more than one lookahead uses it. Ties go to the lower rule number.
func (a *Actions) compressReduce() {
	count := map[int]int{}
	for _, rule := range a.Reduce {
		count[rule]++
	}
	best := defaultReduceNil
	for rule, c := range count {
		if c > count[best] || c == count[best] && rule < best {
			best = rule
		}
	}
	if best == defaultReduceNil || count[best] <= 1 {
		return
	}
	for sym, rule := range a.Reduce {
		if rule == best {
			delete(a.Reduce, sym)
		}
	}
	a.DefaultReduce = best
}

type actionTable struct {
	// actions holds deduplicated records numbered by first use.
	actions []*Actions

	// stateActions maps a state number to its record number.
	stateActions []int

	overlaps []*ShiftReduceOverlap
}

type actionSolver struct {
	automaton *lr1Automaton
	rules     *ruleSet
	symTab    *symbol.SymbolTableReader
}

func (s *actionSolver) solve() (*actionTable, error) {
	tab := &actionTable{
		stateActions: make([]int, len(s.automaton.states)),
	}
	known := map[string]int{}
	var errs []error
	for _, state := range s.automaton.states {
		acts, overlaps, stateErrs := s.solveState(state)
		if len(stateErrs) > 0 {
			errs = append(errs, stateErrs...)
			continue
		}
		tab.overlaps = append(tab.overlaps, overlaps...)

		h, err := acts.hash()
		if err != nil {
			return nil, err
		}
		num, ok := known[h]
		if !ok {
			num = len(tab.actions)
			acts.Num = num
			tab.actions = append(tab.actions, acts)
			known[h] = num
		}
		tab.stateActions[state.num] = num
	}
	if len(errs) > 0 {
		return nil, conflictErrors(errs)
	}
	return tab, nil
}

func (s *actionSolver) solveState(state *lrState) (*Actions, []*ShiftReduceOverlap, []error) {
	acts := newActions()
	var errs []error
	for _, item := range state.items {
		rule, _ := s.rules.findByNum(item.rule)
		if item.mark < len(rule.RHS) {
			sym := rule.RHS[item.mark]
			if !sym.IsTerminal() {
				continue
			}
			next := state.next[sym]
			if prev, ok := acts.Shift[sym]; ok && prev != next {
				errs = append(errs, &ShiftConflictError{
					State:    state.num.Int(),
					Terminal: s.symbolText(sym),
					Next1:    prev.Int(),
					Next2:    next.Int(),
				})
				continue
			}
			acts.Shift[sym] = next
			continue
		}

		if item.rule == ruleNumStart && item.lookahead.IsEndmark() {
			acts.Accept[item.lookahead] = ruleNumStart
			continue
		}
		if prev, ok := s.reduceOn(acts, item.lookahead); ok && prev != item.rule {
			errs = append(errs, &ReduceConflictError{
				State:    state.num.Int(),
				Terminal: s.symbolText(item.lookahead),
				Rule1:    s.ruleText(prev),
				Rule2:    s.ruleText(item.rule),
			})
			continue
		}
		acts.Reduce[item.lookahead] = item.rule
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	var overlaps []*ShiftReduceOverlap
	for _, sym := range sortedSymbols(acts.Reduce) {
		if _, ok := acts.Shift[sym]; !ok {
			continue
		}
		overlaps = append(overlaps, &ShiftReduceOverlap{
			State:    state.num,
			Terminal: sym,
			Rule:     acts.Reduce[sym],
		})
	}

	acts.compressReduce()

	return acts, overlaps, nil
}

func (s *actionSolver) reduceOn(acts *Actions, sym symbol.Symbol) (int, bool) {
	if rule, ok := acts.Reduce[sym]; ok {
		return rule, true
	}
	rule, ok := acts.Accept[sym]
	return rule, ok
}

func (s *actionSolver) symbolText(sym symbol.Symbol) string {
	text, ok := s.symTab.ToText(sym)
	if !ok {
		return sym.String()
	}
	if sym.IsTerminal() {
		return fmt.Sprintf("'%v'", text)
	}
	return text
}

func (s *actionSolver) ruleText(num int) string {
	rule, ok := s.rules.findByNum(num)
	if !ok {
		return fmt.Sprintf("rule %v", num)
	}
	return fmt.Sprintf("%v: %v", num, formatRule(rule, s.symbolText))
}

func formatRule(rule *Rule, symbolText func(symbol.Symbol) string) string {
	text := symbolText(rule.LHS) + " →"
	if rule.isEmpty() {
		text += " ε"
	}
	for _, sym := range rule.RHS {
		text += " " + symbolText(sym)
	}
	if rule.Action != "" {
		text += " & " + rule.Action
	}
	return text
}

func sortedSymbols(m map[symbol.Symbol]int) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(m))
	for sym := range m {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
