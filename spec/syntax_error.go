package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrEmptyTerminal = newSyntaxError("a terminal name must not be empty")
	synErrEmptyPattern  = newSyntaxError("a pattern must not be empty")
	synErrEmptyType     = newSyntaxError("a type must not be empty")

	// syntax errors
	synErrInvalidToken     = newSyntaxError("invalid token")
	synErrNoIncludePath    = newSyntaxError("#include needs a \"path\" or a <path>")
	synErrNoDeclaration    = newSyntaxError("a declaration must start with a terminal or a non-terminal name")
	synErrNoColon          = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the last of a declaration")
	synErrNoActionName     = newSyntaxError("an action name must follow &")
	synErrIncludeAfterDecl = newSyntaxError("#include must precede declarations")
)
