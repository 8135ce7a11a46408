// Package prompt implements the interactive side of Ask blocks: a plain
// line-based prompter for pipes and scripts, and a Bubble Tea prompter for
// terminals. Both validate input themselves and only ever hand a usable
// answer back to the evaluator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/snapconf/directive"
)

// Prompt errors.
var (
	// ErrReadAnswer is returned when the answer source cannot be read.
	ErrReadAnswer = errors.New("failed to read answer")
	// ErrAborted is returned when the user cancels a question.
	ErrAborted = errors.New("question aborted")
)

// Terminal prompts with plain reads from an input stream. Invalid input is
// re-asked until the stream yields a usable answer or ends.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

var _ directive.Prompter = (*Terminal)(nil)

// NewTerminal returns a prompter reading answers from in and writing
// questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question, accepting y/Y and n/N.
func (t *Terminal) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(t.out, "%s %s (y/n) ", color.CyanString("ASK"), question)
		line, err := t.in.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "y", "Y":
			return true, nil
		case "n", "N":
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrReadAnswer, err)
		}
	}
}

// Select asks a multiple-choice question. Options are displayed 1-based;
// the returned index is 0-based and always within range.
func (t *Terminal) Select(question string, options []string) (int, error) {
	fmt.Fprintf(t.out, "%s %s\n", color.CyanString("ASK"), question)
	bold := color.New(color.Bold)
	for i, option := range options {
		fmt.Fprintf(t.out, "    %s %s\n", bold.Sprintf("%2d>", i+1), option)
	}
	for {
		fmt.Fprint(t.out, "    enter a number: ")
		line, err := t.in.ReadString('\n')
		if choice, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && choice >= 1 && choice <= len(options) {
			return choice - 1, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrReadAnswer, err)
		}
	}
}

// Auto picks the Bubble Tea prompter when stdin and stdout are a terminal
// and falls back to plain line prompting otherwise, so answers can be piped
// in non-interactive runs.
func Auto() directive.Prompter {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return NewTui()
	}
	return NewTerminal(os.Stdin, os.Stdout)
}
