package lexical

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/lexical/nfa"
)

// Pattern is a regex, or a literal string when Literal is set.
type Pattern struct {
	Text    string
	Literal bool
}

func (p *Pattern) String() string {
	if p.Literal {
		return fmt.Sprintf("'%v'", p.Text)
	}
	return fmt.Sprintf("\"%v\"", p.Text)
}

// LexEntry binds a terminal to its patterns. A terminal with several patterns matches the union of them.
type LexEntry struct {
	Terminal *nfa.Terminal
	Patterns []*Pattern
}

type LexSpec struct {
	Entries []*LexEntry
}

func (s *LexSpec) Validate() error {
	if len(s.Entries) <= 0 {
		return fmt.Errorf("the lexical specification must have at least one entry")
	}
	names := map[string]struct{}{}
	nums := map[int]struct{}{}
	for _, e := range s.Entries {
		if e.Terminal == nil {
			return fmt.Errorf("an entry lacks its terminal")
		}
		if _, exist := names[e.Terminal.Name]; exist {
			return fmt.Errorf("terminals `%v` are duplicates", e.Terminal.Name)
		}
		names[e.Terminal.Name] = struct{}{}
		if _, exist := nums[e.Terminal.Num]; exist {
			return fmt.Errorf("terminal number %v is used more than once", e.Terminal.Num)
		}
		nums[e.Terminal.Num] = struct{}{}
		if len(e.Patterns) == 0 {
			return fmt.Errorf("terminal `%v` has no pattern", e.Terminal.Name)
		}
	}
	return nil
}
