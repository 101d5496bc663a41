package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrEmptyGrammar           = newSemanticError("a grammar needs at least one non-terminal")
	semErrNoRule                 = newSemanticError("a non-terminal needs at least one rule")
	semErrConflictingTermAction  = newSemanticError("a terminal cannot have different actions")
	semErrConflictingNonTermType = newSemanticError("a non-terminal cannot have different types")
)
