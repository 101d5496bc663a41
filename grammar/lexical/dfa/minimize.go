package dfa

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgen/grammar/lexical/nfa"
)

// Minimize merges behaviorally indistinguishable nodes and returns the result as a new DFA. The
// initial partition groups nodes accepting the same terminal, and groups are split until every
// member of a group moves to the same group on every character.
//
// Each group is represented by its lowest-numbered node, except that the group of the initial node
// is represented by the initial node. Nodes are renumbered in the order of their representatives.
func Minimize(d *DFA) *DFA {
	group := make([]int, len(d.Nodes))
	count := 0
	{
		acc2Group := map[*nfa.Terminal]int{}
		for i, node := range d.Nodes {
			g, ok := acc2Group[node.Accept]
			if !ok {
				g = count
				count++
				acc2Group[node.Accept] = g
			}
			group[i] = g
		}
	}

	for {
		next := make([]int, len(d.Nodes))
		sig2Group := map[string]int{}
		n := 0
		for i, node := range d.Nodes {
			sig := signature(group[i], node, group)
			g, ok := sig2Group[sig]
			if !ok {
				g = n
				n++
				sig2Group[sig] = g
			}
			next[i] = g
		}
		group = next

		// A round only ever splits groups, so an unchanged count means no group changed.
		if n == count {
			break
		}
		count = n
	}

	rep := make([]int, count)
	for g := range rep {
		rep[g] = -1
	}
	rep[group[d.InitialNode]] = d.InitialNode
	for i := range d.Nodes {
		if rep[group[i]] < 0 {
			rep[group[i]] = i
		}
	}

	newID := make([]int, len(d.Nodes))
	var survivors []*Node
	for i, node := range d.Nodes {
		if rep[group[i]] != i {
			continue
		}
		newID[i] = len(survivors)
		survivors = append(survivors, node)
	}

	minimized := &DFA{
		InitialNode: newID[d.InitialNode],
		Nodes:       make([]*Node, len(survivors)),
	}
	for i, node := range survivors {
		m := &Node{
			ID:     i,
			Items:  node.Items,
			Accept: node.Accept,
		}
		for _, t := range node.Transitions {
			m.addTransition(t.From, t.To, newID[rep[group[t.Next]]])
		}
		minimized.Nodes[i] = m
	}

	tracer().Debugf("minimization: %v nodes -> %v nodes", len(d.Nodes), len(minimized.Nodes))

	return minimized
}

// signature describes a node in terms of the current partition. Two nodes of the same group have the
// same signature exactly when they move to the same groups on every character.
func signature(g int, node *Node, group []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", g)
	var from, to rune
	next := -1
	for _, t := range node.Transitions {
		tg := group[t.Next]
		if next == tg && to+1 == t.From {
			to = t.To
			continue
		}
		if next >= 0 {
			fmt.Fprintf(&b, ";%x-%x:%v", from, to, next)
		}
		from, to, next = t.From, t.To, tg
	}
	if next >= 0 {
		fmt.Fprintf(&b, ";%x-%x:%v", from, to, next)
	}
	return b.String()
}
