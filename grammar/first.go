package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/lrgen/grammar/symbol"
)

type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

// sorted returns the symbols in ascending order.
func (e *firstEntry) sorted() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(rules *ruleSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, rule := range rules.all() {
		if _, ok := fst.set[rule.LHS]; ok {
			continue
		}
		fst.set[rule.LHS] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the suffix of the rule starting at head.
func (fst *firstSet) find(rule *Rule, head int) (*firstEntry, error) {
	if head >= len(rule.RHS) {
		entry := newFirstEntry()
		entry.addEmpty()
		return entry, nil
	}
	return fst.findBySymbols(rule.RHS[head:])
}

func (fst *firstSet) findBySymbols(syms []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		switch sym.Kind() {
		case symbol.KindTerminal, symbol.KindEndmark:
			entry.add(sym)
			return entry, nil
		case symbol.KindNonTerminal:
			e := fst.findBySymbol(sym)
			if e == nil {
				return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
			}
			for s := range e.symbols {
				entry.add(s)
			}
			if !e.empty {
				return entry, nil
			}
		default:
			return nil, fmt.Errorf("an unexpected symbol: %s", sym)
		}
	}
	entry.addEmpty()
	return entry, nil
}

// findSuffix returns FIRST(syms lookahead) in ascending order. Because lookahead is a terminal or the
// endmark, the result is never nullable.
func (fst *firstSet) findSuffix(syms []symbol.Symbol, lookahead symbol.Symbol) ([]symbol.Symbol, error) {
	e, err := fst.findBySymbols(syms)
	if err != nil {
		return nil, err
	}
	if e.empty {
		e.add(lookahead)
	}
	return e.sorted(), nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(rules *ruleSet) *firstComContext {
	return &firstComContext{
		first: newFirstSet(rules),
	}
}

func genFirstSet(rules *ruleSet) (*firstSet, error) {
	cc := newFirstComContext(rules)
	for {
		more := false
		for _, rule := range rules.all() {
			e := cc.first.findBySymbol(rule.LHS)
			changed, err := genRuleFirstEntry(cc, e, rule)
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
	return cc.first, nil
}

func genRuleFirstEntry(cc *firstComContext, acc *firstEntry, rule *Rule) (bool, error) {
	if rule.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range rule.RHS {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
