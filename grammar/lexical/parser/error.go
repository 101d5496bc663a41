package parser

import (
	"fmt"
	"strings"
)

var (
	ParseErr = fmt.Errorf("parse error")

	// lexical errors
	synErrIncompletedEscSeq = fmt.Errorf("incompleted escape sequence; unexpected EOF following \\")
	synErrInvalidEscSeq     = fmt.Errorf("invalid escape sequence")
	synErrInvalidCodePoint  = fmt.Errorf("a code point needs at least one hex digit")
	synErrCPExpOutOfRange   = fmt.Errorf("a code point must be between U+0000 to U+10FFFF")
	synErrNonPrintableChar  = fmt.Errorf("a non-printable character must be escaped")

	// syntax errors
	synErrNullPattern       = fmt.Errorf("a pattern must be a non-empty character sequence")
	synErrUnexpectedEOF     = fmt.Errorf("the pattern ended where a sub-pattern was expected")
	synErrAltLackOfOperand  = fmt.Errorf("an alternation expression must have operands")
	synErrGroupNoElem       = fmt.Errorf("a grouping expression must include at least one character")
	synErrGroupUnclosed     = fmt.Errorf("unclosed grouping expression")
	synErrGroupNoInitiator  = fmt.Errorf(") needs preceding (")
	synErrBExpNoElem        = fmt.Errorf("a bracket expression must include at least one character")
	synErrBExpUnclosed      = fmt.Errorf("unclosed bracket expression")
	synErrBExpNoInitiator   = fmt.Errorf("] needs preceding [")
	synErrRangeInvalidOrder = fmt.Errorf("a range expression with invalid order")
	synErrRangeInvalidForm  = fmt.Errorf("invalid range expression")
)

// SyntaxError reports a malformed pattern. Offset is the index of the character, counted in runes,
// at which the parser gave up.
type SyntaxError struct {
	Cause  error
	Detail string
	Offset int
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "offset %v: %v", e.Offset, e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
