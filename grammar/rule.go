package grammar

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// ruleNumStart is the number of the augmented start rule S' → S.
const ruleNumStart = 0

// Rule is a production owned by the non-terminal LHS. RHS refers to symbols it doesn't own.
type Rule struct {
	Num    int
	LHS    symbol.Symbol
	RHS    []symbol.Symbol
	Action string
}

func newRule(lhs symbol.Symbol, rhs []symbol.Symbol, action string) (*Rule, error) {
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if !sym.IsTerminal() && !sym.IsNonTerminal() {
			return nil, fmt.Errorf("a symbol of RHS must be a terminal or a non-terminal; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	return &Rule{
		LHS:    lhs,
		RHS:    rhs,
		Action: action,
	}, nil
}

func (r *Rule) isEmpty() bool {
	return len(r.RHS) == 0
}

// ruleSet numbers rules in the order they are appended. Identical rules are kept apart because their
// actions may differ.
type ruleSet struct {
	rules     []*Rule
	lhs2Rules map[symbol.Symbol][]*Rule
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		lhs2Rules: map[symbol.Symbol][]*Rule{},
	}
}

func (rs *ruleSet) append(rule *Rule) {
	rule.Num = len(rs.rules)
	rs.rules = append(rs.rules, rule)
	rs.lhs2Rules[rule.LHS] = append(rs.lhs2Rules[rule.LHS], rule)
}

func (rs *ruleSet) findByNum(num int) (*Rule, bool) {
	if num < 0 || num >= len(rs.rules) {
		return nil, false
	}
	return rs.rules[num], true
}

func (rs *ruleSet) findByLHS(lhs symbol.Symbol) ([]*Rule, bool) {
	rules, ok := rs.lhs2Rules[lhs]
	return rules, ok
}

func (rs *ruleSet) all() []*Rule {
	return rs.rules
}
