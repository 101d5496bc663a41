package symbol

import (
	"fmt"
	"sort"
)

// Kind tells the variant a Symbol belongs to.
type Kind uint8

const (
	KindNil Kind = iota
	KindTerminal
	KindNonTerminal
	KindEndmark
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindNonTerminal:
		return "non-terminal"
	case KindEndmark:
		return "endmark"
	}
	return "nil"
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is a packed representation of a grammar symbol. The upper two bits hold its Kind and
// the rest hold a number unique within the kind. Symbols are comparable and ordered, terminals
// first, then non-terminals, then the endmark.
type Symbol uint16

const (
	maskKindPart   = uint16(0xc000) // 1100 0000 0000 0000
	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111
	kindShift      = 14

	symbolNumMin = SymbolNum(1)
	symbolNumMax = SymbolNum(maskNumberPart)

	// The endmark name contains `<` and `>` to avoid conflicting with user-defined symbols.
	endmarkName = "<endmark>"
)

var (
	Nil     = Symbol(0)
	Endmark = Symbol(uint16(KindEndmark) << kindShift)
)

func newSymbol(kind Kind, num SymbolNum) (Symbol, error) {
	if num < symbolNumMin || num > symbolNumMax {
		return Nil, fmt.Errorf("a symbol number is out of range; range: %v..%v, passed: %v", symbolNumMin, symbolNumMax, num)
	}
	return Symbol(uint16(kind)<<kindShift | uint16(num)), nil
}

func NewTerminal(num SymbolNum) (Symbol, error) {
	return newSymbol(KindTerminal, num)
}

func NewNonTerminal(num SymbolNum) (Symbol, error) {
	return newSymbol(KindNonTerminal, num)
}

func (s Symbol) Kind() Kind {
	return Kind((uint16(s) & maskKindPart) >> kindShift)
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNumberPart)
}

func (s Symbol) IsNil() bool {
	return s == Nil
}

func (s Symbol) IsTerminal() bool {
	return s.Kind() == KindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind() == KindNonTerminal
}

func (s Symbol) IsEndmark() bool {
	return s == Endmark
}

// IsLookahead reports whether the symbol may appear as the next input of a parser, that is, whether it
// is a terminal or the endmark.
func (s Symbol) IsLookahead() bool {
	switch s.Kind() {
	case KindTerminal, KindEndmark:
		return true
	}
	return false
}

func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) String() string {
	switch s.Kind() {
	case KindTerminal:
		return fmt.Sprintf("t%v", s.Num())
	case KindNonTerminal:
		return fmt.Sprintf("n%v", s.Num())
	case KindEndmark:
		return "e"
	}
	return "nil"
}

// SymbolTable maps symbol names to symbols. Terminals and non-terminals have separate name spaces,
// so `'E'` and `E` may coexist.
type SymbolTable struct {
	term2Sym     map[string]Symbol
	nonTerm2Sym  map[string]Symbol
	termTexts    []string
	nonTermTexts []string
	start        Symbol
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		term2Sym:    map[string]Symbol{},
		nonTerm2Sym: map[string]Symbol{},
		termTexts: []string{
			"", // Nil
		},
		nonTermTexts: []string{
			"", // Nil
		},
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// RegisterTerminal returns the terminal named text, registering it when it is unknown. The second result
// is true when the terminal has been newly registered.
func (w *SymbolTableWriter) RegisterTerminal(text string) (Symbol, bool, error) {
	if sym, ok := w.term2Sym[text]; ok {
		return sym, false, nil
	}
	sym, err := NewTerminal(SymbolNum(len(w.termTexts)))
	if err != nil {
		return Nil, false, err
	}
	w.term2Sym[text] = sym
	w.termTexts = append(w.termTexts, text)
	return sym, true, nil
}

func (w *SymbolTableWriter) RegisterNonTerminal(text string) (Symbol, bool, error) {
	if sym, ok := w.nonTerm2Sym[text]; ok {
		return sym, false, nil
	}
	sym, err := NewNonTerminal(SymbolNum(len(w.nonTermTexts)))
	if err != nil {
		return Nil, false, err
	}
	w.nonTerm2Sym[text] = sym
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, true, nil
}

// RegisterStart registers the augmented start symbol. Its name must not be used by any other non-terminal.
func (w *SymbolTableWriter) RegisterStart(text string) (Symbol, error) {
	sym, isNew, err := w.RegisterNonTerminal(text)
	if err != nil {
		return Nil, err
	}
	if !isNew {
		return Nil, fmt.Errorf("the start symbol name is already in use: %v", text)
	}
	w.start = sym
	return sym, nil
}

func (r *SymbolTableReader) ToTerminal(text string) (Symbol, bool) {
	sym, ok := r.term2Sym[text]
	return sym, ok
}

func (r *SymbolTableReader) ToNonTerminal(text string) (Symbol, bool) {
	sym, ok := r.nonTerm2Sym[text]
	return sym, ok
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	switch sym.Kind() {
	case KindTerminal:
		n := sym.Num().Int()
		if n >= len(r.termTexts) {
			return "", false
		}
		return r.termTexts[n], true
	case KindNonTerminal:
		n := sym.Num().Int()
		if n >= len(r.nonTermTexts) {
			return "", false
		}
		return r.nonTermTexts[n], true
	case KindEndmark:
		return endmarkName, true
	}
	return "", false
}

func (r *SymbolTableReader) Start() Symbol {
	return r.start
}

func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.term2Sym))
	for _, sym := range r.term2Sym {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.nonTerm2Sym))
	for _, sym := range r.nonTerm2Sym {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// TerminalTexts returns terminal names indexed by symbol number. Index 0 is reserved for Nil.
func (r *SymbolTableReader) TerminalTexts() []string {
	return r.termTexts
}

// NonTerminalTexts returns non-terminal names indexed by symbol number. Index 0 is reserved for Nil.
func (r *SymbolTableReader) NonTerminalTexts() []string {
	return r.nonTermTexts
}
