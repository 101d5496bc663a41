package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/lrgen/error"
)

type tokenKind string

const (
	tokenKindKWInclude = tokenKind("#include")
	tokenKindID        = tokenKind("id")
	tokenKindTerminal  = tokenKind("terminal")
	tokenKindPattern   = tokenKind("pattern")
	tokenKindType      = tokenKind("type")
	tokenKindColon     = tokenKind(":")
	tokenKindOr        = tokenKind("|")
	tokenKindSemicolon = tokenKind(";")
	tokenKindAmpersand = tokenKind("&")
	tokenKindEOF       = tokenKind("eof")
	tokenKindInvalid   = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newToken(kind tokenKind, text string, pos Position) *token {
	return &token{
		kind: kind,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

// lexEntries is the lexical specification of grammar files. Terminal names, patterns, and types keep
// their escape sequences; the lexical compiler decodes them.
var lexEntries = []struct {
	kind    string
	pattern string
}{
	{"white_space", `[\u{0009}\u{000A}\u{000D}\u{0020}]+`},
	{"line_comment", `//[^\u{000A}]*`},
	{"block_comment", `/\*([^*]|\*+[^*/])*\*+/`},
	{"kw_include", `#include`},
	{"terminal", `'([^'\\\u{000A}]|\\[^\u{000A}])*'`},
	{"pattern", `"([^"\\\u{000A}]|\\[^\u{000A}])*"`},
	{"type", `<[^>\u{000A}]*>`},
	{"identifier", `[A-Za-z_][0-9A-Za-z_]*`},
	{"colon", `:`},
	{"or", `\|`},
	{"semicolon", `;`},
	{"ampersand", `&`},
}

var (
	lexSpecOnce sync.Once
	lexSpec     *mlspec.CompiledLexSpec
	lexSpecErr  error
)

func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	lexSpecOnce.Do(func() {
		entries := make([]*mlspec.LexEntry, 0, len(lexEntries))
		for _, e := range lexEntries {
			entries = append(entries, &mlspec.LexEntry{
				Kind:    mlspec.LexKindName(e.kind),
				Pattern: mlspec.LexPattern(e.pattern),
			})
		}
		s, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "lrgen",
			Entries: entries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				err = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
			}
			lexSpecErr = err
			return
		}
		lexSpec = s
	})
	return lexSpec, lexSpecErr
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(newPosition(tok.Row+1, tok.Col+1)), nil
		}
		if tok.Invalid {
			return newToken(tokenKindInvalid, string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}
		switch l.s.KindNames[tok.KindID].String() {
		case "white_space", "line_comment", "block_comment":
			continue
		}
		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	text := string(tok.Lexeme)
	switch l.s.KindNames[tok.KindID].String() {
	case "kw_include":
		return newToken(tokenKindKWInclude, text, pos), nil
	case "identifier":
		return newToken(tokenKindID, text, pos), nil
	case "terminal":
		name := text[1 : len(text)-1]
		if name == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyTerminal,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newToken(tokenKindTerminal, name, pos), nil
	case "pattern":
		pat := text[1 : len(text)-1]
		if pat == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyPattern,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newToken(tokenKindPattern, pat, pos), nil
	case "type":
		typ := strings.TrimSpace(text[1 : len(text)-1])
		if typ == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyType,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newToken(tokenKindType, typ, pos), nil
	case "colon":
		return newToken(tokenKindColon, text, pos), nil
	case "or":
		return newToken(tokenKindOr, text, pos), nil
	case "semicolon":
		return newToken(tokenKindSemicolon, text, pos), nil
	case "ampersand":
		return newToken(tokenKindAmpersand, text, pos), nil
	}
	return newToken(tokenKindInvalid, text, pos), nil
}
