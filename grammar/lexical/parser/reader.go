package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Characters a backslash may introduce in a regex.
var regexEscapes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'v':  '\v',
	's':  ' ',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'[':  '[',
	']':  ']',
	'(':  '(',
	')':  ')',
	'|':  '|',
	'+':  '+',
	'*':  '*',
	'?':  '?',
	'-':  '-',
}

// Characters a backslash may introduce in a literal.
var literalEscapes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// reader walks a pattern one character at a time and turns failures into a ParseErr panic that the
// entry points of this package recover from.
type reader struct {
	src []rune
	pos int

	errCause  error
	errDetail string
}

func newReader(pattern string) *reader {
	return &reader{
		src: []rune(pattern),
	}
}

func (r *reader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *reader) peek() rune {
	return r.src[r.pos]
}

func (r *reader) next() rune {
	c := r.src[r.pos]
	r.pos++
	return c
}

func (r *reader) consume(expected rune) bool {
	if r.eof() || r.peek() != expected {
		return false
	}
	r.pos++
	return true
}

// readChar reads one possibly escaped character.
func (r *reader) readChar(escapes map[rune]rune) rune {
	c := r.next()
	if c != '\\' {
		if !unicode.IsPrint(c) {
			r.raiseParseError(synErrNonPrintableChar, fmt.Sprintf("%U", c))
		}
		return c
	}
	if r.eof() {
		r.raiseParseError(synErrIncompletedEscSeq, "")
	}
	c = r.next()
	if c == 'u' {
		return r.readCodePoint()
	}
	e, ok := escapes[c]
	if !ok {
		r.raiseParseError(synErrInvalidEscSeq, fmt.Sprintf("\\%v is not supported", string(c)))
	}
	return e
}

// readCodePoint accumulates hex digits up to the first non-hex character.
func (r *reader) readCodePoint() rune {
	var cp rune
	n := 0
	for !r.eof() {
		d, ok := hexValue(r.peek())
		if !ok {
			break
		}
		r.pos++
		cp = cp<<4 | d
		n++
		if cp > utf8.MaxRune {
			r.raiseParseError(synErrCPExpOutOfRange, "")
		}
	}
	if n == 0 {
		r.raiseParseError(synErrInvalidCodePoint, "")
	}
	return cp
}

func hexValue(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (r *reader) raiseParseError(err error, detail string) {
	r.errCause = err
	r.errDetail = detail
	panic(ParseErr)
}

// recoverParseError converts a ParseErr panic into a *SyntaxError. Other panics are re-raised.
func (r *reader) recoverParseError(retErr *error) {
	err := recover()
	if err == nil {
		return
	}
	if err != ParseErr {
		panic(err)
	}
	*retErr = &SyntaxError{
		Cause:  r.errCause,
		Detail: r.errDetail,
		Offset: r.pos,
	}
}
