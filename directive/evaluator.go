package directive

import (
	"fmt"
	"strings"
)

// Resolver expands a raw variable expression to its final string value.
// Truth and equality tests always trim the expansion before comparing.
type Resolver func(expr string) string

// Prompter obtains interactive answers for Ask blocks. Implementations own
// input validation and retries: Select must return an index in
// [0, len(options)).
type Prompter interface {
	// Confirm asks a yes/no question and reports whether the block is kept.
	Confirm(question string) (bool, error)
	// Select asks a multiple-choice question and returns the chosen index.
	Select(question string, options []string) (int, error)
}

// answer is the resolved result of one Ask block: a yes/no verdict or a
// selected option index, depending on whether the block carried options.
type answer struct {
	keep     bool
	selected int
}

// Evaluator resolves the directive sequence of a single file. It owns the
// answer cache, so callers must construct a fresh Evaluator per file;
// nothing is shared across instances.
type Evaluator struct {
	resolve Resolver
	prompt  Prompter
	answers map[string]answer
	skips   map[int]bool
}

// NewEvaluator returns an evaluator for one file's directive sequence.
func NewEvaluator(resolve Resolver, prompt Prompter) *Evaluator {
	return &Evaluator{
		resolve: resolve,
		prompt:  prompt,
		answers: make(map[string]answer),
	}
}

// Evaluate walks the located directives of one file, ordered by increasing
// line index, and returns the set of 0-based line indices to drop. Block
// openers and closers are never part of their own range, though directives
// nested inside a dropped branch are; removing the directive lines of kept
// branches is the caller's post-pass. On any error no skip set is returned.
func (e *Evaluator) Evaluate(cmds []Located) (map[int]bool, error) {
	blocks, err := buildBlocks(cmds)
	if err != nil {
		return nil, err
	}
	e.skips = make(map[int]bool)
	if err := e.evalBlocks(blocks); err != nil {
		return nil, err
	}
	return e.skips, nil
}

// Validate checks the block structure of a directive sequence without
// evaluating conditions or prompting.
func Validate(cmds []Located) error {
	_, err := buildBlocks(cmds)
	return err
}

// blockNode is a node of the structural tree: either a conditional block or
// an interactive block. Comments never make it into the tree.
type blockNode interface {
	isBlock()
}

// condBlock is an IFDEF/IFNDEF/IF ... [ELSE ...] ENDIF span.
type condBlock struct {
	open     Located
	elseLine int // -1 when the block has no ELSE
	endLine  int
	children []blockNode
}

// askBlock is an ASK ... [OPTION ...]* ENDASK span.
type askBlock struct {
	open     Located
	options  []Located
	endLine  int
	children []blockNode
}

func (*condBlock) isBlock() {}
func (*askBlock) isBlock()  {}

// builder is the structural pass: a cursor over the flat directive list
// that matches openers with closers and surfaces stray directives.
type builder struct {
	cmds []Located
	idx  int
}

func buildBlocks(cmds []Located) ([]blockNode, error) {
	b := &builder{cmds: cmds}
	var nodes []blockNode
	for b.idx < len(b.cmds) {
		node, err := b.next()
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// next consumes one top-level item: an entire block, or a comment. A branch
// or closing directive at this level has no opener and is stray.
func (b *builder) next() (blockNode, error) {
	cur := b.cmds[b.idx]
	switch cur.Directive.Kind {
	case KindIfDef, KindIfNDef, KindIf:
		return b.conditional()
	case KindAsk:
		return b.ask()
	case KindComment:
		b.idx++
		return nil, nil
	default:
		return nil, strayError(cur)
	}
}

func (b *builder) conditional() (*condBlock, error) {
	open := b.cmds[b.idx]
	b.idx++
	blk := &condBlock{open: open, elseLine: -1}
	for b.idx < len(b.cmds) {
		cur := b.cmds[b.idx]
		switch cur.Directive.Kind {
		case KindIfDef, KindIfNDef, KindIf, KindAsk, KindComment:
			child, err := b.next()
			if err != nil {
				return nil, err
			}
			if child != nil {
				blk.children = append(blk.children, child)
			}
		case KindElse:
			if blk.elseLine >= 0 {
				return nil, strayError(cur)
			}
			blk.elseLine = cur.Line
			b.idx++
		case KindEndIf:
			blk.endLine = cur.Line
			b.idx++
			return blk, nil
		default: // OPTION or ENDASK inside a conditional
			return nil, strayError(cur)
		}
	}
	return nil, missingCloserError(open)
}

func (b *builder) ask() (*askBlock, error) {
	open := b.cmds[b.idx]
	b.idx++
	blk := &askBlock{open: open}
	for b.idx < len(b.cmds) {
		cur := b.cmds[b.idx]
		switch cur.Directive.Kind {
		case KindIfDef, KindIfNDef, KindIf, KindAsk, KindComment:
			child, err := b.next()
			if err != nil {
				return nil, err
			}
			if child != nil {
				blk.children = append(blk.children, child)
			}
		case KindOption:
			blk.options = append(blk.options, cur)
			b.idx++
		case KindEndAsk:
			blk.endLine = cur.Line
			b.idx++
			return blk, nil
		default: // ELSE or ENDIF inside an Ask block
			return nil, strayError(cur)
		}
	}
	return nil, missingCloserError(open)
}

func strayError(c Located) error {
	return fmt.Errorf("%w: %s at line %d", ErrStrayDirective, c.Directive, c.Line)
}

func missingCloserError(c Located) error {
	return fmt.Errorf("%w: %s opened at line %d", ErrMissingClosingDirective, c.Directive, c.Line)
}

// evalBlocks evaluates a block list in document order. Nested blocks always
// contribute their own skip ranges: discarding an enclosing branch just
// unions a superset range into the same set.
func (e *Evaluator) evalBlocks(nodes []blockNode) error {
	for _, node := range nodes {
		var err error
		switch blk := node.(type) {
		case *condBlock:
			err = e.evalConditional(blk)
		case *askBlock:
			err = e.evalAsk(blk)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalConditional(blk *condBlock) error {
	if err := e.evalBlocks(blk.children); err != nil {
		return err
	}
	switch truth, hasElse := e.condition(blk.open.Directive), blk.elseLine >= 0; {
	case truth && !hasElse:
		// whole block survives
	case truth && hasElse:
		e.skipRange(blk.elseLine+1, blk.endLine)
	case !truth && !hasElse:
		e.skipRange(blk.open.Line+1, blk.endLine)
	default:
		e.skipRange(blk.open.Line+1, blk.elseLine)
	}
	return nil
}

// condition tests the opener of a conditional block. Expansions are trimmed
// before the blankness or equality check.
func (e *Evaluator) condition(d Directive) bool {
	switch d.Kind {
	case KindIfDef:
		return strings.TrimSpace(e.resolve(d.Arg)) != ""
	case KindIfNDef:
		return strings.TrimSpace(e.resolve(d.Arg)) == ""
	default: // KindIf
		return strings.TrimSpace(e.resolve(d.Arg)) == strings.TrimSpace(e.resolve(d.Arg2))
	}
}

func (e *Evaluator) evalAsk(blk *askBlock) error {
	// Nested blocks are fully resolved before the question fires, so the
	// prompt is the only suspension point of the whole block.
	if err := e.evalBlocks(blk.children); err != nil {
		return err
	}
	ans, err := e.answerFor(blk)
	if err != nil {
		return err
	}
	if len(blk.options) == 0 {
		if !ans.keep {
			e.skipRange(blk.open.Line+1, blk.endLine)
		}
		return nil
	}
	// The span before the first option belongs to no choice and is always
	// dropped; every option body except the selected one follows it.
	e.skipRange(blk.open.Line+1, blk.options[0].Line)
	for i, opt := range blk.options {
		next := blk.endLine
		if i+1 < len(blk.options) {
			next = blk.options[i+1].Line
		}
		if i != ans.selected {
			e.skipRange(opt.Line+1, next)
		}
	}
	return nil
}

// answerFor resolves the answer of one Ask block, reusing the cached answer
// when an identical (question, option list) pair was already asked during
// this file's evaluation.
func (e *Evaluator) answerFor(blk *askBlock) (answer, error) {
	question := blk.open.Directive.Arg
	labels := make([]string, len(blk.options))
	for i, opt := range blk.options {
		labels[i] = opt.Directive.Arg
	}
	key := question + "\x1f" + strings.Join(labels, "\x1f")
	if ans, ok := e.answers[key]; ok {
		return ans, nil
	}
	var ans answer
	if len(labels) == 0 {
		keep, err := e.prompt.Confirm(question)
		if err != nil {
			return answer{}, err
		}
		ans = answer{keep: keep}
	} else {
		selected, err := e.prompt.Select(question, labels)
		if err != nil {
			return answer{}, err
		}
		ans = answer{selected: selected}
	}
	e.answers[key] = ans
	return ans, nil
}

// skipRange marks the half-open line range [from, to) for deletion.
func (e *Evaluator) skipRange(from, to int) {
	for line := from; line < to; line++ {
		e.skips[line] = true
	}
}
