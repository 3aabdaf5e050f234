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
	semErrNoGrammarName          = newSemanticError("name is missing")
	semErrNoStartSymbol          = newSemanticError("start symbol is missing")
	semErrStartSymNotNonTerminal = newSemanticError("start symbol must be a non-terminal")
	semErrNoTerminal             = newSemanticError("a grammar needs at least one terminal")
	semErrNoProduction           = newSemanticError("a grammar needs at least one production")
	semErrNoProductionForNonTerm = newSemanticError("a non-terminal has no production")
	semErrUndefinedSym           = newSemanticError("undefined symbol")
	semErrInvalidProductionID    = newSemanticError("a production ID must be a positive integer")
	semErrDuplicateProductionID  = newSemanticError("duplicate production ID")
	semErrLHSNotNonTerminal      = newSemanticError("LHS of a production must be a non-terminal")
	semErrEndMarkerInRHS         = newSemanticError("the end marker cannot appear in RHS")
	semErrDuplicateTerminal      = newSemanticError("duplicate terminal")
	semErrDuplicateNonTerminal   = newSemanticError("duplicate non-terminal")
	semErrDuplicateName          = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrReservedName           = newSemanticError("the end marker and the empty marker cannot be used as symbol names")
	semErrSameMarkers            = newSemanticError("the end marker and the empty marker must be different")
	semErrNoLexKindName          = newSemanticError("a lexical kind needs a name")
	semErrDuplicateLexKind       = newSemanticError("duplicate lexical kind")
	semErrNoPattern              = newSemanticError("a lexical kind needs a pattern or a terminal")
	semErrLexKindNotTerminal     = newSemanticError("a lexical kind must be mapped to a terminal")
	semErrUnmappedLexKind        = newSemanticError("a lexical kind without a terminal must be skipped")
	semErrTermCannotBeSkipped    = newSemanticError("a lexical kind mapped to a terminal cannot be skipped")
	semErrUndefinedLexKind       = newSemanticError("undefined lexical kind")
	semErrTokenClassNotTerminal  = newSemanticError("a token class must be mapped to a terminal")
)
