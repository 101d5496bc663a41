// Package dfa turns the automata of lexical patterns into a minimized deterministic automaton.
package dfa

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/nihei9/lrgen/grammar/lexical/nfa"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("lrgen.lexical")
}

// Transition moves to the node Next on any character in [From, To].
type Transition struct {
	From rune
	To   rune
	Next int
}

func (t *Transition) String() string {
	return fmt.Sprintf("[%U-%U] -> %v", t.From, t.To, t.Next)
}

type Node struct {
	ID int

	// Items is the set of NFA states the node stands for.
	Items nfa.StateSet

	// Accept is the lowest-rank terminal among Items, or nil.
	Accept *nfa.Terminal

	// Transitions are sorted by From and never overlap. Two adjacent transitions never share the same
	// target.
	Transitions []*Transition
}

// Next returns the node the transition on c leads to, or -1.
func (n *Node) Next(c rune) int {
	i := sort.Search(len(n.Transitions), func(i int) bool {
		return n.Transitions[i].To >= c
	})
	if i < len(n.Transitions) && n.Transitions[i].From <= c {
		return n.Transitions[i].Next
	}
	return -1
}

func (n *Node) addTransition(from, to rune, next int) {
	if len(n.Transitions) > 0 {
		last := n.Transitions[len(n.Transitions)-1]
		if last.Next == next && last.To+1 == from {
			last.To = to
			return
		}
	}
	n.Transitions = append(n.Transitions, &Transition{
		From: from,
		To:   to,
		Next: next,
	})
}

type DFA struct {
	InitialNode int
	Nodes       []*Node
}

// Next returns the node reached from the node on c, or -1.
func (d *DFA) Next(node int, c rune) int {
	return d.Nodes[node].Next(c)
}

// Run follows the whole input from the initial node. It returns false when some character has no
// transition.
func (d *DFA) Run(s string) (int, bool) {
	node := d.InitialNode
	for _, c := range s {
		node = d.Next(node, c)
		if node < 0 {
			return -1, false
		}
	}
	return node, true
}

// Build performs the subset construction over the automata starting at starts. The initial node
// is the epsilon closure of all the start states.
func Build(n *nfa.NFA, starts []nfa.StateID) *DFA {
	d := &DFA{}
	key2Node := map[string]int{}
	pending := arraylist.New()
	addNode := func(items nfa.StateSet) int {
		key := items.Key()
		if id, ok := key2Node[key]; ok {
			return id
		}
		node := &Node{
			ID:     len(d.Nodes),
			Items:  items,
			Accept: n.Accept(items),
		}
		d.Nodes = append(d.Nodes, node)
		key2Node[key] = node.ID
		pending.Add(node.ID)
		return node.ID
	}

	d.InitialNode = addNode(n.Closure(nfa.NewStateSet(starts...)))
	for !pending.Empty() {
		v, _ := pending.Get(pending.Size() - 1)
		pending.Remove(pending.Size() - 1)
		node := d.Nodes[v.(int)]

		// The scan jumps from one character to the next one at which the reachable set may change.
		c := rune(0)
		for {
			next, last := n.FindNext(c, node.Items)
			if len(next) > 0 {
				node.addTransition(c, last, addNode(next))
			}
			if last >= utf8.MaxRune {
				break
			}
			c = last + 1
		}
	}

	tracer().Debugf("subset construction: %v NFA states -> %v DFA nodes", n.Len(), len(d.Nodes))

	return d
}
