// Package directive recognizes preprocessor instruction lines and evaluates
// the nested conditional and interactive blocks they form. The package only
// decides which lines of a file survive: parsing yields located directives,
// evaluation turns them into a set of 0-based line indices to drop.
package directive

import "fmt"

// Kind identifies a preprocessor directive keyword.
type Kind int

const (
	// KindIfDef keeps its block when the expression expands non-blank.
	KindIfDef Kind = iota
	// KindIfNDef keeps its block when the expression expands blank.
	KindIfNDef
	// KindIf keeps its block when both expressions expand to equal values.
	KindIf
	// KindElse separates the two branches of an open conditional.
	KindElse
	// KindEndIf closes the nearest open conditional.
	KindEndIf
	// KindAsk opens an interactive question block.
	KindAsk
	// KindOption marks one selectable choice inside an open Ask block.
	KindOption
	// KindEndAsk closes the nearest open Ask block.
	KindEndAsk
	// KindComment is a directive line that is ignored entirely.
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindIfDef:
		return "IFDEF"
	case KindIfNDef:
		return "IFNDEF"
	case KindIf:
		return "IF"
	case KindElse:
		return "ELSE"
	case KindEndIf:
		return "ENDIF"
	case KindAsk:
		return "ASK"
	case KindOption:
		return "OPTION"
	case KindEndAsk:
		return "ENDASK"
	case KindComment:
		return "#"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Directive is one recognized preprocessor instruction.
//
// Arg holds the variable expression (IFDEF/IFNDEF), the left-hand expression
// (IF), the question (ASK) or the option label (OPTION). Arg2 holds the
// right-hand expression of IF and is empty for every other kind.
type Directive struct {
	Kind Kind
	Arg  string
	Arg2 string
}

func (d Directive) String() string {
	switch d.Kind {
	case KindIfDef, KindIfNDef, KindAsk, KindOption:
		return fmt.Sprintf("%s %s", d.Kind, d.Arg)
	case KindIf:
		return fmt.Sprintf("%s %s == %s", d.Kind, d.Arg, d.Arg2)
	default:
		return d.Kind.String()
	}
}

// Located pairs a directive with the 0-based line index it occurred at.
type Located struct {
	Line      int
	Directive Directive
}
