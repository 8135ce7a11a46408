package directive

import "errors"

// Common errors surfaced by the directive parser and the block evaluator.
// All of them are terminal for the current file: no partial skip set is
// produced once any of them occurs.
var (
	// ErrUnrecognizedDirective is returned when a line carries the directive
	// prefix but matches no directive grammar.
	ErrUnrecognizedDirective = errors.New("unrecognized preprocessor directive")
	// ErrStrayDirective is returned when ELSE, ENDIF, OPTION or ENDASK shows
	// up without a matching opener at that nesting level.
	ErrStrayDirective = errors.New("stray closing or markup directive")
	// ErrMissingClosingDirective is returned when an opener reaches the end
	// of the directive sequence without its closer.
	ErrMissingClosingDirective = errors.New("missing closing directive")
)
