// Package processor runs the per-file preprocessing pipeline: directive
// evaluation decides which lines survive, the substitution pass replaces
// escaped keys, and the result is written next to the source file.
package processor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shibukawa/snapconf"
	"github.com/shibukawa/snapconf/directive"
	"github.com/shibukawa/snapconf/expand"
)

// Processor errors.
var (
	// ErrReadSource is returned when a configured source file cannot be read.
	ErrReadSource = errors.New("failed to read source file")
	// ErrWriteOutput is returned when the preprocessed file cannot be written.
	ErrWriteOutput = errors.New("failed to write preprocessed file")
)

// Processor preprocesses the files of one configuration. Every file gets a
// fresh evaluator, so interactive answers never leak between files.
type Processor struct {
	config  *snapconf.Config
	root    string
	resolve directive.Resolver
	prompt  directive.Prompter
}

// New returns a processor rooted at the configuration file's directory.
func New(config *snapconf.Config, root string, prompt directive.Prompter) *Processor {
	return &Processor{
		config:  config,
		root:    root,
		resolve: expand.Expand,
		prompt:  prompt,
	}
}

// ProcessFile preprocesses one configured file and writes the result to its
// preprocessed sibling path, which is returned.
func (p *Processor) ProcessFile(fc *snapconf.FileConfig) (string, error) {
	sourcePath := fc.SourcePath(p.root)
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadSource, sourcePath, err)
	}
	rendered, err := p.Render(fc, string(content))
	if err != nil {
		return "", fmt.Errorf("%s: %w", sourcePath, err)
	}
	outPath := fc.PreprocessedPath(p.root)
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, outPath, err)
	}
	return outPath, nil
}

// Render runs the directive pass and then the substitution pass over the
// raw content of one file.
func (p *Processor) Render(fc *snapconf.FileConfig, content string) (string, error) {
	processed, err := p.applyDirectives(fc, content)
	if err != nil {
		return "", err
	}
	return p.applySubstitutions(fc, processed), nil
}

// applyDirectives evaluates the file's directive lines and drops every
// skipped line. Files without a configured prefix pass through untouched.
// The first parse error aborts the whole file.
func (p *Processor) applyDirectives(fc *snapconf.FileConfig, content string) (string, error) {
	if fc.Prefix == nil {
		return content, nil
	}
	lines := strings.Split(content, "\n")
	var located []directive.Located
	var directiveLines []int
	for i, line := range lines {
		d, isDirective, err := directive.Parse(*fc.Prefix, line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i, err)
		}
		if !isDirective {
			continue
		}
		located = append(located, directive.Located{Line: i, Directive: *d})
		directiveLines = append(directiveLines, i)
	}
	if len(located) == 0 {
		return content, nil
	}
	evaluator := directive.NewEvaluator(p.resolve, p.prompt)
	skips, err := evaluator.Evaluate(located)
	if err != nil {
		return "", err
	}
	if *fc.RemoveInstructions {
		for _, line := range directiveLines {
			skips[line] = true
		}
	}
	if len(skips) == 0 {
		return content, nil
	}
	kept := make([]string, 0, len(lines)-len(skips))
	for i, line := range lines {
		if !skips[i] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// applySubstitutions replaces escaped keys. A key present in the
// substitution table takes its configured value; any other escaped text is
// variable-expanded instead, so `{%$HOME%}`-style escapes work without a
// table entry.
func (p *Processor) applySubstitutions(fc *snapconf.FileConfig, content string) string {
	if fc.Escape == nil {
		return content
	}
	re := fc.Escape.Regexp()
	return re.ReplaceAllStringFunc(content, func(m string) string {
		groups := re.FindStringSubmatch(m)
		lead, inner := groups[1], groups[2]
		if replacement, ok := p.config.Substitutions[inner]; ok {
			return expand.Expand(lead) + replacement
		}
		return lead + expand.Expand(inner)
	})
}

// ValidateFile parses the file's directive lines and checks block structure
// without prompting, expanding variables, or writing anything.
func (p *Processor) ValidateFile(fc *snapconf.FileConfig) error {
	if fc.Prefix == nil {
		return nil
	}
	sourcePath := fc.SourcePath(p.root)
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadSource, sourcePath, err)
	}
	var located []directive.Located
	for i, line := range strings.Split(string(content), "\n") {
		d, isDirective, err := directive.Parse(*fc.Prefix, line)
		if err != nil {
			return fmt.Errorf("%s: line %d: %w", sourcePath, i, err)
		}
		if isDirective {
			located = append(located, directive.Located{Line: i, Directive: *d})
		}
	}
	if err := directive.Validate(located); err != nil {
		return fmt.Errorf("%s: %w", sourcePath, err)
	}
	return nil
}
