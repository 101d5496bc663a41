package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// followEntry holds terminals and the endmark.
type followEntry struct {
	symbols map[symbol.Symbol]struct{}
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	return changed
}

func (e *followEntry) sorted() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(rules *ruleSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, rule := range rules.all() {
		if _, ok := flw.set[rule.LHS]; ok {
			continue
		}
		flw.set[rule.LHS] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	rules  *ruleSet
	first  *firstSet
	follow *followSet
}

func newFollowComContext(rules *ruleSet, first *firstSet) *followComContext {
	return &followComContext{
		rules:  rules,
		first:  first,
		follow: newFollow(rules),
	}
}

// genFollowSet computes FOLLOW of every non-terminal. start is the augmented start symbol, and its FOLLOW
// is seeded with the endmark.
func genFollowSet(rules *ruleSet, first *firstSet, start symbol.Symbol) (*followSet, error) {
	cc := newFollowComContext(rules, first)
	e, err := cc.follow.find(start)
	if err != nil {
		return nil, err
	}
	e.add(symbol.Endmark)

	for {
		more := false
		for _, rule := range rules.all() {
			changed, err := genRuleFollowEntries(cc, rule)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}

	return cc.follow, nil
}

func genRuleFollowEntries(cc *followComContext, rule *Rule) (bool, error) {
	changed := false
	for i, sym := range rule.RHS {
		if !sym.IsNonTerminal() {
			continue
		}
		acc, err := cc.follow.find(sym)
		if err != nil {
			return false, err
		}
		fst, err := cc.first.find(rule, i+1)
		if err != nil {
			return false, err
		}
		if acc.merge(fst, nil) {
			changed = true
		}
		if fst.empty {
			flw, err := cc.follow.find(rule.LHS)
			if err != nil {
				return false, err
			}
			if acc.merge(nil, flw) {
				changed = true
			}
		}
	}
	return changed, nil
}
