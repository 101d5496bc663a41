package grammar

import (
	"testing"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genActionTable(t *testing.T, src string) (*actionTable, *lr1Automaton, *Grammar, error) {
	t.Helper()

	automaton, gram := genLR1(t, src)
	solver := &actionSolver{
		automaton: automaton,
		rules:     gram.rules,
		symTab:    gram.symbolTable.Reader(),
	}
	tab, err := solver.solve()
	return tab, automaton, gram, err
}

func TestActionSolver(t *testing.T) {
	tab, automaton, gram, err := genActionTable(t, `
'n' "[0-9]+" ;
e : e '+' 'n' | 'n' ;
`)
	require.NoError(t, err)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	findRule := newTestRuleFinder(t, gram, genSym)
	ruleAdd := findRule("e", "e", "'+'", "'n'").Num
	ruleNum := findRule("e", "'n'").Num

	actionsOf := func(state stateNum) *Actions {
		return tab.actions[tab.stateActions[state]]
	}

	require.Len(t, automaton.states, 5)
	assert.Len(t, tab.actions, 5)
	assert.Empty(t, tab.overlaps)

	s0 := actionsOf(0)
	assert.Equal(t, map[symbol.Symbol]stateNum{genSym("'n'"): 1}, s0.Shift)
	assert.Empty(t, s0.Reduce)
	assert.Equal(t, defaultReduceNil, s0.DefaultReduce)

	// Both lookaheads reduce by the same rule, so it becomes the default reduce.
	s1 := actionsOf(1)
	assert.Empty(t, s1.Shift)
	assert.Empty(t, s1.Reduce)
	assert.Equal(t, ruleNum, s1.DefaultReduce)

	s2 := actionsOf(2)
	assert.Equal(t, map[symbol.Symbol]stateNum{genSym("'+'"): 3}, s2.Shift)
	assert.Equal(t, map[symbol.Symbol]int{symbol.Endmark: ruleNumStart}, s2.Accept)

	s4 := actionsOf(4)
	assert.Equal(t, ruleAdd, s4.DefaultReduce)
}

func TestActionSolver_SharesActions(t *testing.T) {
	tab, automaton, gram, err := genActionTable(t, `
s : 'a' e | 'b' e ;
e : 'x' ;
`)
	require.NoError(t, err)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())

	s0 := automaton.states[automaton.initialState]
	afterA := s0.next[genSym("'a'")]
	afterB := s0.next[genSym("'b'")]
	require.NotEqual(t, afterA, afterB)
	assert.Equal(t, tab.stateActions[afterA], tab.stateActions[afterB])
	assert.Less(t, len(tab.actions), len(automaton.states))

	for i, acts := range tab.actions {
		assert.Equal(t, i, acts.Num)
	}
}

func TestActionSolver_ReduceConflict(t *testing.T) {
	_, _, _, err := genActionTable(t, `
s : 'a' & first | 'a' & second ;
`)
	require.Error(t, err)
	specErrs, ok := err.(verr.SpecErrors)
	require.True(t, ok, "unexpected error: %v", err)
	require.Len(t, specErrs, 1)
	conflict, ok := specErrs[0].Cause.(*ReduceConflictError)
	require.True(t, ok, "unexpected error: %v", specErrs[0].Cause)
	assert.Equal(t, "<endmark>", conflict.Terminal)
	assert.Equal(t, "1: s → 'a' & first", conflict.Rule1)
	assert.Equal(t, "2: s → 'a' & second", conflict.Rule2)
}

func TestActionSolver_ShiftWinsOverReduce(t *testing.T) {
	tab, automaton, gram, err := genActionTable(t, `
s : 'if' s | 'if' s 'else' s | 'x' ;
`)
	require.NoError(t, err)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	findRule := newTestRuleFinder(t, gram, genSym)
	ruleIf := findRule("s", "'if'", "s").Num

	require.NotEmpty(t, tab.overlaps)
	for _, o := range tab.overlaps {
		assert.Equal(t, genSym("'else'"), o.Terminal)
		assert.Equal(t, ruleIf, o.Rule)
		acts := tab.actions[tab.stateActions[o.State]]
		_, ok := acts.Shift[o.Terminal]
		assert.True(t, ok)
		assert.Contains(t, automaton.states[o.State].next, o.Terminal)
	}
}

func TestActions_CompressReduce(t *testing.T) {
	a, _ := symbol.NewTerminal(1)
	b, _ := symbol.NewTerminal(2)
	c, _ := symbol.NewTerminal(3)

	tests := []struct {
		caption       string
		reduce        map[symbol.Symbol]int
		defaultReduce int
		rest          map[symbol.Symbol]int
	}{
		{
			caption:       "a single lookahead stays explicit",
			reduce:        map[symbol.Symbol]int{a: 1},
			defaultReduce: defaultReduceNil,
			rest:          map[symbol.Symbol]int{a: 1},
		},
		{
			caption:       "the rule used most becomes the default",
			reduce:        map[symbol.Symbol]int{a: 2, b: 2, c: 1, symbol.Endmark: 2},
			defaultReduce: 2,
			rest:          map[symbol.Symbol]int{c: 1},
		},
		{
			caption:       "a tie goes to the lower rule",
			reduce:        map[symbol.Symbol]int{a: 3, b: 3, c: 1, symbol.Endmark: 1},
			defaultReduce: 1,
			rest:          map[symbol.Symbol]int{a: 3, b: 3},
		},
		{
			caption:       "no reduce",
			reduce:        map[symbol.Symbol]int{},
			defaultReduce: defaultReduceNil,
			rest:          map[symbol.Symbol]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			acts := newActions()
			for sym, rule := range tt.reduce {
				acts.Reduce[sym] = rule
			}
			acts.compressReduce()
			assert.Equal(t, tt.defaultReduce, acts.DefaultReduce)
			assert.Equal(t, tt.rest, acts.Reduce)
		})
	}
}

func TestActions_Hash(t *testing.T) {
	a, _ := symbol.NewTerminal(1)
	b, _ := symbol.NewTerminal(2)

	acts1 := newActions()
	acts1.Shift[a] = 3
	acts1.Reduce[b] = 1
	acts2 := newActions()
	acts2.Reduce[b] = 1
	acts2.Shift[a] = 3
	acts3 := newActions()
	acts3.Shift[a] = 4
	acts3.Reduce[b] = 1

	h1, err := acts1.hash()
	require.NoError(t, err)
	h2, err := acts2.hash()
	require.NoError(t, err)
	h3, err := acts3.hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
