package grammar

// Report describes a compiled grammar for humans: its symbols with their FIRST and FOLLOW sets, its
// rules, and the LR(1) states together with the shift/reduce overlaps the table resolved in favor of
// shifting.
type Report struct {
	Name         string               `json:"name"`
	Terminals    []*Terminal          `json:"terminals"`
	NonTerminals []*NonTerminalReport `json:"non_terminals"`
	Rules        []*Rule              `json:"rules"`
	States       []*StateReport       `json:"states"`
}

type NonTerminalReport struct {
	Num      int    `json:"num"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Nullable bool   `json:"nullable"`

	// First and Follow hold terminal numbers; EndmarkColumn stands for the endmark in Follow.
	First  []int `json:"first"`
	Follow []int `json:"follow"`
}

// Item is an LR(1) item. Dot is the number of symbols of the rule already recognized.
type Item struct {
	Rule      int `json:"rule"`
	Dot       int `json:"dot"`
	Lookahead int `json:"lookahead"`
}

type Overlap struct {
	Terminal int `json:"terminal"`
	State    int `json:"state"`
	Rule     int `json:"rule"`
}

type StateReport struct {
	Num           int             `json:"num"`
	Kernel        []*Item         `json:"kernel"`
	Shift         []*ShiftAction  `json:"shift,omitempty"`
	Reduce        []*ReduceAction `json:"reduce,omitempty"`
	Accept        bool            `json:"accept,omitempty"`
	DefaultReduce int             `json:"default_reduce"`
	GoTo          []*GoTo         `json:"goto,omitempty"`
	Overlaps      []*Overlap      `json:"overlaps,omitempty"`
}
