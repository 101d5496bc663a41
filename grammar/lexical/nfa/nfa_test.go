package nfa

import (
	"strings"
	"testing"
)

// genDigitsOrWord builds an automaton accepting [0-9]+ as num (rank 1) and `if` as kw (rank 0), and
// [a-z]+ as id (rank 2).
func genDigitsOrWord(t *testing.T) (*NFA, StateID, *Terminal, *Terminal, *Terminal) {
	t.Helper()

	kw := &Terminal{Num: 1, Name: "kw", Rank: 0}
	num := &Terminal{Num: 2, Name: "num", Rank: 1}
	id := &Terminal{Num: 3, Name: "id", Rank: 2}

	n := New()
	start := n.AddState(nil)

	// num: start -ε-> d0 -[0-9]-> d1 -ε-> d0, d1 accepts
	d0 := n.AddState(nil)
	d1 := n.AddState(num)
	n.Link(start, d0)
	n.Patch([]Out{n.AddRange(d0, '0', '9')}, d1)
	n.Link(d1, d0)

	// kw: start -ε-> k0 -i-> k1 -f-> k2
	k0 := n.AddState(nil)
	k1 := n.AddState(nil)
	k2 := n.AddState(kw)
	n.Link(start, k0)
	n.Patch([]Out{n.AddRange(k0, 'i', 'i')}, k1)
	n.Patch([]Out{n.AddRange(k1, 'f', 'f')}, k2)

	// id: start -ε-> w0 -[a-z]-> w1 -ε-> w0
	w0 := n.AddState(nil)
	w1 := n.AddState(id)
	n.Link(start, w0)
	n.Patch([]Out{n.AddRange(w0, 'a', 'z')}, w1)
	n.Link(w1, w0)

	return n, start, kw, num, id
}

func TestNewStateSet(t *testing.T) {
	s := NewStateSet(3, 1, 2, 3, 1)
	if len(s) != 3 || s[0] != 1 || s[1] != 2 || s[2] != 3 {
		t.Fatalf("unexpected set: %v", s)
	}
	if !s.Contains(2) || s.Contains(4) {
		t.Fatalf("unexpected membership: %v", s)
	}
	if s.Key() != NewStateSet(1, 2, 3).Key() {
		t.Fatalf("equal sets must have the same key")
	}
	if s.Key() == NewStateSet(1, 2).Key() {
		t.Fatalf("different sets must have different keys")
	}
}

func TestClosure(t *testing.T) {
	n, start, _, _, _ := genDigitsOrWord(t)

	c1 := n.Closure(NewStateSet(start))
	if len(c1) != 4 {
		t.Fatalf("unexpected closure: %v", c1)
	}
	c2 := n.Closure(c1)
	if c1.Key() != c2.Key() {
		t.Fatalf("closure must be idempotent; first: %v, second: %v", c1, c2)
	}
}

func TestClosure_DanglingEdge(t *testing.T) {
	n := New()
	s := n.AddState(nil)
	n.AddEpsilon(s)
	c := n.Closure(NewStateSet(s))
	if len(c) != 1 || c[0] != s {
		t.Fatalf("a dangling edge must not be followed: %v", c)
	}
}

func TestFindNext(t *testing.T) {
	n, start, _, num, _ := genDigitsOrWord(t)
	active := n.Closure(NewStateSet(start))

	tests := []struct {
		c     rune
		empty bool
		last  rune
	}{
		{c: 0, empty: true, last: '0' - 1},
		{c: '0', last: '9'},
		{c: '5', last: '9'},
		{c: ':', empty: true, last: 'a' - 1},
		{c: 'a', last: 'h'},
		{c: 'i', last: 'i'},
		{c: 'j', last: 'z'},
		{c: '{', empty: true, last: 0x10ffff},
	}
	for _, tt := range tests {
		next, last := n.FindNext(tt.c, active)
		if (len(next) == 0) != tt.empty {
			t.Fatalf("unexpected result on %q: %v", tt.c, next)
		}
		if last != tt.last {
			t.Fatalf("unexpected last character on %q; want: %q, got: %q", tt.c, tt.last, last)
		}
	}

	next, _ := n.FindNext('7', active)
	if acc := n.Accept(next); acc != num {
		t.Fatalf("unexpected accept; want: %v, got: %v", num, acc)
	}
}

func TestScan(t *testing.T) {
	n, start, kw, num, id := genDigitsOrWord(t)

	tests := []struct {
		src  string
		term *Terminal
		text string
		rest string
	}{
		{src: "123abc", term: num, text: "123", rest: "abc"},
		{src: "if", term: kw, text: "if"},
		{src: "if(", term: kw, text: "if", rest: "("},
		{src: "iff", term: id, text: "iff"},
		{src: "i", term: id, text: "i"},
		{src: "+", text: "", rest: "+"},
		{src: "", text: ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			r := strings.NewReader(tt.src)
			term, text, err := n.Scan(start, r)
			if err != nil {
				t.Fatal(err)
			}
			if term != tt.term {
				t.Fatalf("unexpected terminal; want: %v, got: %v", tt.term, term)
			}
			if text != tt.text {
				t.Fatalf("unexpected text; want: %#v, got: %#v", tt.text, text)
			}
			var rest strings.Builder
			for {
				c, _, err := r.ReadRune()
				if err != nil {
					break
				}
				rest.WriteRune(c)
			}
			if rest.String() != tt.rest {
				t.Fatalf("unexpected rest; want: %#v, got: %#v", tt.rest, rest.String())
			}
		})
	}
}
