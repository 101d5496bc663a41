package symbol

import "testing"

func TestSymbol(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	_, _, _ = w.RegisterNonTerminal("expr")
	_, _, _ = w.RegisterNonTerminal("term")
	_, _, _ = w.RegisterTerminal("num")
	_, _, _ = w.RegisterTerminal("+")
	_, _, _ = w.RegisterTerminal("term")
	_, _ = w.RegisterStart("expr'")

	nonTermTexts := []string{
		"", // Nil
		"expr",
		"term",
		"expr'",
	}

	termTexts := []string{
		"", // Nil
		"num",
		"+",
		"term",
	}

	tests := []struct {
		text     string
		terminal bool
		kind     Kind
	}{
		{
			text: "expr",
			kind: KindNonTerminal,
		},
		{
			text: "term",
			kind: KindNonTerminal,
		},
		{
			text: "expr'",
			kind: KindNonTerminal,
		},
		{
			text:     "num",
			terminal: true,
			kind:     KindTerminal,
		},
		{
			text:     "+",
			terminal: true,
			kind:     KindTerminal,
		},
		{
			text:     "term",
			terminal: true,
			kind:     KindTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := tab.Reader()
			var sym Symbol
			var ok bool
			if tt.terminal {
				sym, ok = r.ToTerminal(tt.text)
			} else {
				sym, ok = r.ToNonTerminal(tt.text)
			}
			if !ok {
				t.Fatalf("symbol was not found")
			}
			if sym.Kind() != tt.kind {
				t.Fatalf("unexpected kind; want: %v, got: %v", tt.kind, sym.Kind())
			}
			text, ok := r.ToText(sym)
			if !ok {
				t.Fatalf("text was not found")
			}
			if text != tt.text {
				t.Fatalf("unexpected text representation; want: %v, got: %v", tt.text, text)
			}
		})
	}

	t.Run("registering a known name returns the same symbol", func(t *testing.T) {
		sym1, isNew, err := w.RegisterTerminal("num")
		if err != nil {
			t.Fatal(err)
		}
		if isNew {
			t.Fatalf("a known terminal was registered again")
		}
		sym2, _ := tab.Reader().ToTerminal("num")
		if sym1 != sym2 {
			t.Fatalf("unexpected symbol; want: %v, got: %v", sym2, sym1)
		}
	})

	t.Run("start symbol", func(t *testing.T) {
		start := tab.Reader().Start()
		text, _ := tab.Reader().ToText(start)
		if text != "expr'" {
			t.Fatalf("unexpected start symbol; want: %v, got: %v", "expr'", text)
		}
		_, err := w.RegisterStart("expr")
		if err == nil {
			t.Fatalf("a start symbol that has a name already in use must be rejected")
		}
	})

	t.Run("Endmark", func(t *testing.T) {
		if Endmark.Kind() != KindEndmark || !Endmark.IsLookahead() || Endmark.IsTerminal() {
			t.Fatalf("unexpected endmark properties: %v", Endmark.Kind())
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if !Nil.IsNil() || Nil.Kind() != KindNil || Nil.IsLookahead() {
			t.Fatalf("unexpected nil properties: %v", Nil.Kind())
		}
	})

	t.Run("ordering", func(t *testing.T) {
		r := tab.Reader()
		term, _ := r.ToTerminal("term")
		nonTerm, _ := r.ToNonTerminal("expr")
		if !(term < nonTerm && nonTerm < Endmark) {
			t.Fatalf("terminals must precede non-terminals and non-terminals must precede the endmark")
		}
	})

	t.Run("texts of non-terminals", func(t *testing.T) {
		ts := tab.Reader().NonTerminalTexts()
		if len(ts) != len(nonTermTexts) {
			t.Fatalf("unexpected non-terminal count; want: %v (%#v), got: %v (%#v)", len(nonTermTexts), nonTermTexts, len(ts), ts)
		}
		for i, text := range ts {
			if text != nonTermTexts[i] {
				t.Fatalf("unexpected non-terminal; want: %v, got: %v", nonTermTexts[i], text)
			}
		}
	})

	t.Run("texts of terminals", func(t *testing.T) {
		ts := tab.Reader().TerminalTexts()
		if len(ts) != len(termTexts) {
			t.Fatalf("unexpected terminal count; want: %v (%#v), got: %v (%#v)", len(termTexts), termTexts, len(ts), ts)
		}
		for i, text := range ts {
			if text != termTexts[i] {
				t.Fatalf("unexpected terminal; want: %v, got: %v", termTexts[i], text)
			}
		}
	})
}
