package directive

import (
	"fmt"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
)

// word is one whitespace-delimited chunk of the text after the prefix.
type word struct {
	// text is the chunk itself.
	text string
	// rest is the verbatim remainder of the line starting at this chunk, so
	// argument parsers can recover text with its internal spacing intact.
	rest string
	// sep reports whether at least one space or tab followed this chunk.
	sep bool
}

// entity is the token payload for the command grammar. Command parsers
// replace the matched words with a single token carrying the directive.
type entity struct {
	word
	dir *Directive
}

// Parse classifies a single source line.
//
// Lines that do not begin with prefix are ordinary content and return
// (nil, false, nil). Lines that carry the prefix but match no directive
// grammar return ErrUnrecognizedDirective wrapping the offending text.
// Matching is line-local; a trailing carriage return is never part of any
// argument.
func Parse(prefix, line string) (*Directive, bool, error) {
	if prefix == "" || !strings.HasPrefix(line, prefix) {
		return nil, false, nil
	}
	rest := strings.TrimSuffix(line[len(prefix):], "\r")
	tokens := scanWords(rest)
	if len(tokens) > 0 {
		pctx := pc.NewParseContext[entity]()
		if _, parsed, err := commandGrammar(pctx, tokens); err == nil && len(parsed) > 0 && parsed[0].Val.dir != nil {
			return parsed[0].Val.dir, true, nil
		}
	}
	return nil, true, fmt.Errorf("%w: %q", ErrUnrecognizedDirective, strings.TrimLeft(rest, " \t"))
}

// commandGrammar tries each directive grammar in priority order: the longer
// IFDEF/IFNDEF keywords must win over IF.
var commandGrammar = pc.Or(
	exprCmd("IFDEF", KindIfDef),
	exprCmd("IFNDEF", KindIfNDef),
	ifCmd,
	bareCmd("ELSE", KindElse),
	bareCmd("ENDIF", KindEndIf),
	argCmd("ASK", KindAsk),
	argCmd("OPTION", KindOption),
	bareCmd("ENDASK", KindEndAsk),
	commentCmd,
)

// scanWords splits the post-prefix text on spaces and tabs, keeping enough
// raw-offset information to recover verbatim arguments later.
func scanWords(rest string) []pc.Token[entity] {
	var tokens []pc.Token[entity]
	i := 0
	for i < len(rest) {
		if rest[i] == ' ' || rest[i] == '\t' {
			i++
			continue
		}
		start := i
		for i < len(rest) && rest[i] != ' ' && rest[i] != '\t' {
			i++
		}
		tokens = append(tokens, pc.Token[entity]{
			Type: "word",
			Pos:  &pc.Pos{Line: 1, Col: start + 1, Index: start},
			Val: entity{word: word{
				text: rest[start:i],
				rest: rest[start:],
				sep:  i < len(rest),
			}},
			Raw: rest[start:i],
		})
	}
	return tokens
}

func match(tokens []pc.Token[entity], name string) bool {
	return len(tokens) > 0 && strings.EqualFold(tokens[0].Val.text, name)
}

// restAfter returns the verbatim remainder after the keyword token. ok is
// false when the keyword is the last chunk and no separator followed it:
// "IFDEF" alone is not a directive, "IFDEF " carries an empty expression.
func restAfter(tokens []pc.Token[entity]) (string, bool) {
	if len(tokens) > 1 {
		return tokens[1].Val.rest, true
	}
	if tokens[0].Val.sep {
		return "", true
	}
	return "", false
}

func directiveToken(d Directive) []pc.Token[entity] {
	return []pc.Token[entity]{{
		Type: "directive",
		Val:  entity{dir: &d},
		Raw:  d.String(),
	}}
}

// exprCmd parses keyword + whitespace + the rest of the line as a variable
// expression. An empty expression is allowed as long as the separating
// whitespace is present.
func exprCmd(name string, kind Kind) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if !match(tokens, name) {
			return 0, nil, pc.ErrNotMatch
		}
		expr, ok := restAfter(tokens)
		if !ok {
			return 0, nil, pc.ErrNotMatch
		}
		return len(tokens), directiveToken(Directive{Kind: kind, Arg: expr}), nil
	}
}

// argCmd parses keyword + whitespace + a non-empty argument (questions and
// option labels must carry at least one character).
func argCmd(name string, kind Kind) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if !match(tokens, name) || len(tokens) < 2 {
			return 0, nil, pc.ErrNotMatch
		}
		return len(tokens), directiveToken(Directive{Kind: kind, Arg: tokens[1].Val.rest}), nil
	}
}

// bareCmd parses a keyword that takes no argument. Trailing chunks are
// tolerated and ignored.
func bareCmd(name string, kind Kind) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if !match(tokens, name) {
			return 0, nil, pc.ErrNotMatch
		}
		return len(tokens), directiveToken(Directive{Kind: kind}), nil
	}
}

// ifCmd parses IF expr1 == expr2. The expressions surround the first "=="
// on the line and are trimmed; expr2 must be non-empty after trimming.
func ifCmd(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	if !match(tokens, "IF") {
		return 0, nil, pc.ErrNotMatch
	}
	rest, ok := restAfter(tokens)
	if !ok {
		return 0, nil, pc.ErrNotMatch
	}
	lhs, rhs, found := strings.Cut(rest, "==")
	if !found {
		return 0, nil, pc.ErrNotMatch
	}
	rhs = strings.TrimSpace(rhs)
	if rhs == "" {
		return 0, nil, pc.ErrNotMatch
	}
	return len(tokens), directiveToken(Directive{
		Kind: KindIf,
		Arg:  strings.TrimSpace(lhs),
		Arg2: rhs,
	}), nil
}

// commentCmd parses the comment marker. Anything starting with '#' after
// the prefix is a throwaway line.
func commentCmd(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0].Val.text, "#") {
		return 0, nil, pc.ErrNotMatch
	}
	return len(tokens), directiveToken(Directive{Kind: KindComment}), nil
}
