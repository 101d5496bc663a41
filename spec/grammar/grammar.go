// Package grammar defines the compiled form of a grammar handed from the generator to code emitters and
// to the runtime driver.
package grammar

import "github.com/nihei9/lrgen/compressor"

const (
	// LexAcceptNil marks a lexer node accepting no terminal.
	LexAcceptNil = 0

	// EndmarkColumn is the column of the endmark in the action table. The column of a terminal is its
	// number.
	EndmarkColumn = 0

	// DefaultReduceNil means a state has no default reduce.
	DefaultReduceNil = -1

	// The action table holds ActionEntryError in empty cells, Shift(s) to shift and move to the state s,
	// and Reduce(r) to reduce by the rule r. Reducing by the start rule means accepting the input.
	ActionEntryError = 0

	// GoToEntryNil is the empty value of the goto table.
	GoToEntryNil = -1
)

// Shift encodes a shift action to the state for the action table.
func Shift(state int) int {
	return state + 1
}

// Reduce encodes a reduce action by the rule for the action table.
func Reduce(rule int) int {
	return -(rule + 1)
}

// DecodeAction returns either the target state of a shift action or the rule of a reduce action.
func DecodeAction(entry int) (state int, rule int, ok bool) {
	switch {
	case entry > 0:
		return entry - 1, -1, true
	case entry < 0:
		return -1, -entry - 1, true
	}
	return -1, -1, false
}

type CompiledGrammar struct {
	Name     string         `json:"name"`
	Includes []string       `json:"includes,omitempty"`
	Lexer    *LexicalSpec   `json:"lexer"`
	Parser   *SyntacticSpec `json:"parser"`
}

type Transition struct {
	From rune `json:"from"`
	To   rune `json:"to"`
	Next int  `json:"next"`
}

type LexNode struct {
	// Accept is the number of the terminal the node accepts, or LexAcceptNil.
	Accept      int           `json:"accept"`
	Transitions []*Transition `json:"transitions,omitempty"`
}

type LexicalSpec struct {
	InitialNode int        `json:"initial_node"`
	Nodes       []*LexNode `json:"nodes"`
}

type Terminal struct {
	Num      int      `json:"num"`
	Name     string   `json:"name"`
	Rank     int      `json:"rank"`
	Type     string   `json:"type,omitempty"`
	Action   string   `json:"action,omitempty"`
	Patterns []string `json:"patterns"`
}

type NonTerminal struct {
	Num  int    `json:"num"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Rule is a production. LHS is a non-terminal number. In RHS, positive numbers are terminals and
// negative numbers are non-terminals negated.
type Rule struct {
	Num    int    `json:"num"`
	LHS    int    `json:"lhs"`
	RHS    []int  `json:"rhs"`
	Length int    `json:"length"`
	Action string `json:"action,omitempty"`
}

type ShiftAction struct {
	Terminal int `json:"terminal"`
	State    int `json:"state"`
}

type ReduceAction struct {
	Terminal int `json:"terminal"`
	Rule     int `json:"rule"`
}

// Actions is a table of actions shared by every state computing the same one. Terminal numbers are
// action-table columns, so the endmark is EndmarkColumn.
type Actions struct {
	Num           int             `json:"num"`
	Shift         []*ShiftAction  `json:"shift,omitempty"`
	Reduce        []*ReduceAction `json:"reduce,omitempty"`
	Accept        []*ReduceAction `json:"accept,omitempty"`
	DefaultReduce int             `json:"default_reduce"`
}

type GoTo struct {
	NonTerminal int `json:"non_terminal"`
	State       int `json:"state"`
}

type State struct {
	Num     int     `json:"num"`
	Actions int     `json:"actions"`
	GoTo    []*GoTo `json:"goto,omitempty"`
}

type SyntacticSpec struct {
	InitialState int `json:"initial_state"`
	StartRule    int `json:"start_rule"`

	// Terminals and NonTerminals are indexed by symbol number. Index 0 is unused.
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`

	Rules   []*Rule    `json:"rules"`
	Actions []*Actions `json:"actions"`
	States  []*State   `json:"states"`

	// ActionTable has a row per state and a column per terminal number; DefaultReduces has an entry per
	// state.
	ActionTable    *compressor.UniqueEntriesTable   `json:"action_table"`
	DefaultReduces []int                            `json:"default_reduces"`
	GoToTable      *compressor.RowDisplacementTable `json:"goto_table"`
}
