// Package nfa holds the non-deterministic automaton every lexical pattern is compiled into. All states
// of one build live in a single NFA arena and refer to each other by StateID.
package nfa

import (
	"encoding/binary"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Terminal identifies the token an accepting state reports. When several terminals match the same
// input, the one with the lower Rank wins.
type Terminal struct {
	Num  int
	Name string
	Rank int
}

// Wins reports whether t takes priority over u. Any terminal wins against nil.
func (t *Terminal) Wins(u *Terminal) bool {
	if t == nil {
		return false
	}
	if u == nil {
		return true
	}
	return t.Rank < u.Rank
}

type StateID int

const StateNil = StateID(-1)

// Edge is a transition on the inclusive character range [From, To], or an epsilon transition when
// Epsilon is set. Next is StateNil while the edge is dangling.
type Edge struct {
	From    rune
	To      rune
	Epsilon bool
	Next    StateID
}

func (e *Edge) contains(c rune) bool {
	return !e.Epsilon && c >= e.From && c <= e.To
}

type State struct {
	Edges  []*Edge
	Accept *Terminal
}

// Out refers to a dangling edge that is waiting for its target.
type Out struct {
	State StateID
	Edge  int
}

type NFA struct {
	states []*State
}

func New() *NFA {
	return &NFA{}
}

func (n *NFA) AddState(accept *Terminal) StateID {
	n.states = append(n.states, &State{
		Accept: accept,
	})
	return StateID(len(n.states) - 1)
}

func (n *NFA) State(id StateID) *State {
	return n.states[id]
}

func (n *NFA) Len() int {
	return len(n.states)
}

// AddRange adds a dangling edge on [from, to] to the state.
func (n *NFA) AddRange(state StateID, from, to rune) Out {
	return n.addEdge(state, &Edge{
		From: from,
		To:   to,
		Next: StateNil,
	})
}

// AddEpsilon adds a dangling epsilon edge to the state.
func (n *NFA) AddEpsilon(state StateID) Out {
	return n.addEdge(state, &Edge{
		Epsilon: true,
		Next:    StateNil,
	})
}

// Link adds an epsilon edge from one state to another.
func (n *NFA) Link(from, to StateID) {
	n.Patch([]Out{n.AddEpsilon(from)}, to)
}

func (n *NFA) addEdge(state StateID, e *Edge) Out {
	s := n.states[state]
	s.Edges = append(s.Edges, e)
	return Out{
		State: state,
		Edge:  len(s.Edges) - 1,
	}
}

// Patch connects every dangling edge in outs to the target state.
func (n *NFA) Patch(outs []Out, to StateID) {
	for _, o := range outs {
		n.states[o.State].Edges[o.Edge].Next = to
	}
}

// StateSet is a sorted set of states without duplicates.
type StateSet []StateID

func NewStateSet(ids ...StateID) StateSet {
	if len(ids) == 0 {
		return nil
	}
	s := make(StateSet, len(ids))
	copy(s, ids)
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
	n := 1
	for _, id := range s[1:] {
		if id == s[n-1] {
			continue
		}
		s[n] = id
		n++
	}
	return s[:n]
}

func (s StateSet) Contains(id StateID) bool {
	i := sort.Search(len(s), func(i int) bool {
		return s[i] >= id
	})
	return i < len(s) && s[i] == id
}

// Key returns a string that is equal for two sets exactly when the sets are equal.
func (s StateSet) Key() string {
	var b strings.Builder
	buf := make([]byte, binary.MaxVarintLen64)
	for _, id := range s {
		l := binary.PutUvarint(buf, uint64(id))
		b.Write(buf[:l])
	}
	return b.String()
}

// Closure returns every state reachable from the seed via epsilon edges, the seed included.
func (n *NFA) Closure(seed StateSet) StateSet {
	reached := map[StateID]struct{}{}
	stack := make([]StateID, len(seed))
	copy(stack, seed)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[id]; ok {
			continue
		}
		reached[id] = struct{}{}
		for _, e := range n.states[id].Edges {
			if !e.Epsilon || e.Next == StateNil {
				continue
			}
			if _, ok := reached[e.Next]; !ok {
				stack = append(stack, e.Next)
			}
		}
	}
	ids := make([]StateID, 0, len(reached))
	for id := range reached {
		ids = append(ids, id)
	}
	return NewStateSet(ids...)
}

// FindNext returns the epsilon-closed set of states reachable from the set on c. The second result is
// the last character up to which every character from c on yields the same set.
func (n *NFA) FindNext(c rune, set StateSet) (StateSet, rune) {
	last := rune(utf8.MaxRune)
	var targets []StateID
	for _, id := range set {
		for _, e := range n.states[id].Edges {
			if e.Epsilon || e.Next == StateNil {
				continue
			}
			if e.contains(c) {
				targets = append(targets, e.Next)
				if e.To < last {
					last = e.To
				}
				continue
			}
			if e.From > c && e.From-1 < last {
				last = e.From - 1
			}
		}
	}
	if len(targets) == 0 {
		return nil, last
	}
	return n.Closure(NewStateSet(targets...)), last
}

// Accept returns the lowest-rank terminal accepted by the set, or nil.
func (n *NFA) Accept(set StateSet) *Terminal {
	var acc *Terminal
	for _, id := range set {
		if a := n.states[id].Accept; a.Wins(acc) {
			acc = a
		}
	}
	return acc
}

// Scan consumes the longest prefix of the input the automaton starting at start can follow, and returns
// the terminal accepted at the point consumption stopped along with the consumed text. The terminal is
// nil when no state active at that point accepts.
func (n *NFA) Scan(start StateID, r io.RuneScanner) (*Terminal, string, error) {
	active := n.Closure(NewStateSet(start))
	var b strings.Builder
	for {
		c, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}
		next, _ := n.FindNext(c, active)
		if len(next) == 0 {
			err := r.UnreadRune()
			if err != nil {
				return nil, "", err
			}
			break
		}
		b.WriteRune(c)
		active = next
	}
	return n.Accept(active), b.String(), nil
}
