package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/nihei9/lrgen/grammar/symbol"
)

type lr1Automaton struct {
	initialState stateNum
	states       []*lrState
}

// genLR1Automaton builds the canonical LR(1) automaton. States holding equal item sets are the same state.
func genLR1Automaton(rules *ruleSet, first *firstSet) (*lr1Automaton, error) {
	startRule, ok := rules.findByNum(ruleNumStart)
	if !ok {
		return nil, fmt.Errorf("the augmented start rule was not found")
	}

	automaton := &lr1Automaton{
		initialState: stateNumInitial,
	}
	known := map[itemSetID]stateNum{}
	pending := treeset.NewWith(utils.IntComparator)

	register := func(items []lrItem) (stateNum, error) {
		closed, err := genLR1Closure(items, rules, first)
		if err != nil {
			return 0, err
		}
		set, err := newItemSet(closed)
		if err != nil {
			return 0, err
		}
		if num, ok := known[set.id]; ok {
			return num, nil
		}
		num := stateNum(len(automaton.states))
		automaton.states = append(automaton.states, &lrState{
			itemSet: set,
			num:     num,
			next:    map[symbol.Symbol]stateNum{},
		})
		known[set.id] = num
		pending.Add(num.Int())
		return num, nil
	}

	_, err := register([]lrItem{
		{
			rule:      startRule.Num,
			mark:      0,
			lookahead: symbol.Endmark,
		},
	})
	if err != nil {
		return nil, err
	}

	for !pending.Empty() {
		it := pending.Iterator()
		it.Next()
		num := it.Value().(int)
		pending.Remove(num)

		state := automaton.states[num]
		for _, n := range genNeighbourKernels(state.itemSet, rules) {
			next, err := register(n.kernel)
			if err != nil {
				return nil, err
			}
			state.next[n.symbol] = next
		}
	}

	return automaton, nil
}

// genLR1Closure adds (B →・γ, b) for each item (A → α・B β, a) and each b in FIRST(β a) until no new item
// appears.
func genLR1Closure(seed []lrItem, rules *ruleSet, first *firstSet) ([]lrItem, error) {
	items := make([]lrItem, 0, len(seed))
	known := map[lrItem]struct{}{}
	for _, item := range seed {
		if _, ok := known[item]; ok {
			continue
		}
		known[item] = struct{}{}
		items = append(items, item)
	}

	for i := 0; i < len(items); i++ {
		item := items[i]
		sym := item.markedSymbol(rules)
		if !sym.IsNonTerminal() {
			continue
		}
		rule, _ := rules.findByNum(item.rule)
		lookaheads, err := first.findSuffix(rule.RHS[item.mark+1:], item.lookahead)
		if err != nil {
			return nil, err
		}
		rs, ok := rules.findByLHS(sym)
		if !ok {
			return nil, fmt.Errorf("a rule was not found; LHS: %v", sym)
		}
		for _, r := range rs {
			for _, la := range lookaheads {
				newItem := lrItem{
					rule:      r.Num,
					mark:      0,
					lookahead: la,
				}
				if _, ok := known[newItem]; ok {
					continue
				}
				known[newItem] = struct{}{}
				items = append(items, newItem)
			}
		}
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel []lrItem
}

// genNeighbourKernels returns the advanced items per marked symbol in ascending symbol order.
func genNeighbourKernels(set *itemSet, rules *ruleSet) []*neighbourKernel {
	kernels := map[symbol.Symbol][]lrItem{}
	for _, item := range set.items {
		sym := item.markedSymbol(rules)
		if sym.IsNil() {
			continue
		}
		kernels[sym] = append(kernels[sym], lrItem{
			rule:      item.rule,
			mark:      item.mark + 1,
			lookahead: item.lookahead,
		})
	}

	syms := make([]symbol.Symbol, 0, len(kernels))
	for sym := range kernels {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})

	neighbours := make([]*neighbourKernel, 0, len(syms))
	for _, sym := range syms {
		neighbours = append(neighbours, &neighbourKernel{
			symbol: sym,
			kernel: kernels[sym],
		})
	}
	return neighbours
}
