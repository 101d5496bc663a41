package grammar

import (
	"sort"

	"github.com/nihei9/lrgen/compressor"
	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/grammar/lexical/dfa"
	"github.com/nihei9/lrgen/grammar/symbol"
	spec "github.com/nihei9/lrgen/spec/grammar"
)

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile builds the lexer automaton and the parsing tables of a grammar. The report is nil unless
// EnableReporting is passed.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err := compileLexer(gram)
	if err != nil {
		return nil, nil, err
	}

	first, err := gram.analyze()
	if err != nil {
		return nil, nil, err
	}

	automaton, err := genLR1Automaton(gram.rules, first)
	if err != nil {
		return nil, nil, err
	}

	solver := &actionSolver{
		automaton: automaton,
		rules:     gram.rules,
		symTab:    gram.symbolTable.Reader(),
	}
	tab, err := solver.solve()
	if err != nil {
		return nil, nil, err
	}

	synSpec, err := genSyntacticSpec(gram, automaton, tab)
	if err != nil {
		return nil, nil, err
	}

	tracer().Infof("parser: %v rules, %v states, %v actions, %v shift/reduce overlaps",
		len(gram.rules.all()), len(automaton.states), len(tab.actions), len(tab.overlaps))
	for _, o := range tab.overlaps {
		tracer().Debugf("state %v shifts %v over reducing by rule %v", o.State, gram.symbolText(o.Terminal), o.Rule)
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report = genReport(gram, automaton, tab, synSpec)
	}

	return &spec.CompiledGrammar{
		Name:     gram.Name,
		Includes: gram.Includes,
		Lexer:    lexSpec,
		Parser:   synSpec,
	}, report, nil
}

func compileLexer(gram *Grammar) (*spec.LexicalSpec, error) {
	d, err, cErrs := lexical.Compile(gram.lexSpec())
	if err != nil {
		if len(cErrs) == 0 {
			return nil, err
		}
		pos := map[string]*Terminal{}
		for _, term := range gram.Terminals {
			pos[term.Name] = term
		}
		var specErrs verr.SpecErrors
		for _, cErr := range cErrs {
			specErr := &verr.SpecError{
				Cause: cErr,
			}
			if term, ok := pos[cErr.Terminal]; ok {
				specErr.Row = term.pos.Row
				specErr.Col = term.pos.Col
			}
			specErrs = append(specErrs, specErr)
		}
		return nil, specErrs
	}
	return genLexicalSpec(d), nil
}

func genLexicalSpec(d *dfa.DFA) *spec.LexicalSpec {
	nodes := make([]*spec.LexNode, len(d.Nodes))
	for i, n := range d.Nodes {
		node := &spec.LexNode{
			Accept: spec.LexAcceptNil,
		}
		if n.Accept != nil {
			node.Accept = n.Accept.Num
		}
		for _, t := range n.Transitions {
			node.Transitions = append(node.Transitions, &spec.Transition{
				From: t.From,
				To:   t.To,
				Next: t.Next,
			})
		}
		nodes[i] = node
	}
	return &spec.LexicalSpec{
		InitialNode: d.InitialNode,
		Nodes:       nodes,
	}
}

// terminalColumn returns the action-table column of a terminal or the endmark.
func terminalColumn(sym symbol.Symbol) int {
	if sym.IsEndmark() {
		return spec.EndmarkColumn
	}
	return sym.Num().Int()
}

// ruleRHS encodes terminals as their numbers and non-terminals as their numbers negated.
func ruleRHS(rule *Rule) []int {
	rhs := make([]int, len(rule.RHS))
	for i, sym := range rule.RHS {
		if sym.IsTerminal() {
			rhs[i] = sym.Num().Int()
		} else {
			rhs[i] = -sym.Num().Int()
		}
	}
	return rhs
}

func genSyntacticSpec(gram *Grammar, automaton *lr1Automaton, tab *actionTable) (*spec.SyntacticSpec, error) {
	symTab := gram.symbolTable.Reader()
	termCount := len(symTab.TerminalTexts())
	nonTermCount := len(symTab.NonTerminalTexts())

	terms := make([]*spec.Terminal, termCount)
	for _, term := range gram.Terminals {
		pats := make([]string, len(term.Patterns))
		for i, p := range term.Patterns {
			pats[i] = p.String()
		}
		terms[term.Symbol.Num()] = &spec.Terminal{
			Num:      term.Symbol.Num().Int(),
			Name:     term.Name,
			Rank:     term.Rank,
			Type:     term.Type,
			Action:   term.Action,
			Patterns: pats,
		}
	}

	nonTerms := make([]*spec.NonTerminal, nonTermCount)
	for _, nt := range gram.NonTerminals {
		nonTerms[nt.Symbol.Num()] = &spec.NonTerminal{
			Num:  nt.Symbol.Num().Int(),
			Name: nt.Name,
			Type: nt.Type,
		}
	}

	rules := make([]*spec.Rule, len(gram.rules.all()))
	for i, rule := range gram.rules.all() {
		rules[i] = &spec.Rule{
			Num:    rule.Num,
			LHS:    rule.LHS.Num().Int(),
			RHS:    ruleRHS(rule),
			Length: len(rule.RHS),
			Action: rule.Action,
		}
	}

	actions := make([]*spec.Actions, len(tab.actions))
	for i, acts := range tab.actions {
		actions[i] = genActions(acts)
	}

	states := make([]*spec.State, len(automaton.states))
	action := make([]int, len(automaton.states)*termCount)
	defaultReduces := make([]int, len(automaton.states))
	goTo := make([]int, len(automaton.states)*nonTermCount)
	for i := range goTo {
		goTo[i] = spec.GoToEntryNil
	}
	for _, state := range automaton.states {
		acts := tab.actions[tab.stateActions[state.num]]
		row := state.num.Int()

		for sym, rule := range acts.Reduce {
			action[row*termCount+terminalColumn(sym)] = spec.Reduce(rule)
		}
		for sym, rule := range acts.Accept {
			action[row*termCount+terminalColumn(sym)] = spec.Reduce(rule)
		}
		// A shift overrides a reduce on the same terminal.
		for sym, next := range acts.Shift {
			action[row*termCount+terminalColumn(sym)] = spec.Shift(next.Int())
		}
		defaultReduces[row] = acts.DefaultReduce

		var gotos []*spec.GoTo
		for _, sym := range sortedNextSymbols(state) {
			if !sym.IsNonTerminal() {
				continue
			}
			next := state.next[sym]
			goTo[row*nonTermCount+sym.Num().Int()] = next.Int()
			gotos = append(gotos, &spec.GoTo{
				NonTerminal: sym.Num().Int(),
				State:       next.Int(),
			})
		}
		states[row] = &spec.State{
			Num:     row,
			Actions: acts.Num,
			GoTo:    gotos,
		}
	}

	actionTab, err := compressor.NewOriginalTable(action, termCount)
	if err != nil {
		return nil, err
	}
	packedAction := compressor.NewUniqueEntriesTable()
	if err := packedAction.Compress(actionTab); err != nil {
		return nil, err
	}
	goToTab, err := compressor.NewOriginalTable(goTo, nonTermCount)
	if err != nil {
		return nil, err
	}
	packedGoTo := compressor.NewRowDisplacementTable(spec.GoToEntryNil)
	if err := packedGoTo.Compress(goToTab); err != nil {
		return nil, err
	}
	tracer().Debugf("action table: %v rows packed into %v; goto table: %v entries packed into %v",
		len(automaton.states), packedAction.UniqueRowCount(), len(goTo), len(packedGoTo.Entries))

	return &spec.SyntacticSpec{
		InitialState:   automaton.initialState.Int(),
		StartRule:      ruleNumStart,
		Terminals:      terms,
		NonTerminals:   nonTerms,
		Rules:          rules,
		Actions:        actions,
		States:         states,
		ActionTable:    packedAction,
		DefaultReduces: defaultReduces,
		GoToTable:      packedGoTo,
	}, nil
}

func genActions(acts *Actions) *spec.Actions {
	a := &spec.Actions{
		Num:           acts.Num,
		DefaultReduce: spec.DefaultReduceNil,
	}
	if acts.DefaultReduce != defaultReduceNil {
		a.DefaultReduce = acts.DefaultReduce
	}
	shift := map[symbol.Symbol]int{}
	for sym, next := range acts.Shift {
		shift[sym] = next.Int()
	}
	for _, sym := range sortedSymbols(shift) {
		a.Shift = append(a.Shift, &spec.ShiftAction{
			Terminal: terminalColumn(sym),
			State:    shift[sym],
		})
	}
	for _, sym := range sortedSymbols(acts.Reduce) {
		a.Reduce = append(a.Reduce, &spec.ReduceAction{
			Terminal: terminalColumn(sym),
			Rule:     acts.Reduce[sym],
		})
	}
	for _, sym := range sortedSymbols(acts.Accept) {
		a.Accept = append(a.Accept, &spec.ReduceAction{
			Terminal: terminalColumn(sym),
			Rule:     acts.Accept[sym],
		})
	}
	return a
}

func sortedNextSymbols(state *lrState) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(state.next))
	for sym := range state.next {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

