package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/shibukawa/snapconf/directive"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("6"))
	choiceStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeChoiceStyle = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
)

// Tui prompts with full-screen-free Bubble Tea models: a cursor list for
// multiple-choice questions and a yes/no toggle for boolean ones.
type Tui struct{}

var _ directive.Prompter = (*Tui)(nil)

// NewTui returns the Bubble Tea prompter.
func NewTui() *Tui {
	return &Tui{}
}

// Confirm asks a yes/no question with a two-way toggle.
func (t *Tui) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question, yes: true}).Run()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrReadAnswer, err)
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.yes, nil
}

// Select asks a multiple-choice question with an arrow-key list.
func (t *Tui) Select(question string, options []string) (int, error) {
	final, err := tea.NewProgram(newSelectModel(question, options)).Run()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReadAnswer, err)
	}
	m := final.(selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.chosen, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// choiceItem adapts an option label to the bubbles list item interface.
type choiceItem string

func (c choiceItem) FilterValue() string { return string(c) }

// choiceDelegate renders options as a compact one-line-per-item list.
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                         { return 1 }
func (d choiceDelegate) Spacing() int                        { return 0 }
func (d choiceDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	choice, ok := item.(choiceItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%d. %s", index+1, choice)
	if index == m.Index() {
		fmt.Fprint(w, selectedItemStyle.Render("> "+line))
		return
	}
	fmt.Fprint(w, itemStyle.Render(line))
}

type selectModel struct {
	list    list.Model
	chosen  int
	done    bool
	aborted bool
}

func newSelectModel(question string, options []string) selectModel {
	items := make([]list.Item, len(options))
	for i, option := range options {
		items[i] = choiceItem(option)
	}
	l := list.New(items, choiceDelegate{}, 60, len(options)+4)
	l.Title = question
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	return selectModel{list: l, chosen: -1}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.chosen = m.list.Index()
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.list.View()
}

type confirmModel struct {
	question string
	yes      bool
	done     bool
	aborted  bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.yes = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.yes = false
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.yes = !m.yes
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	yes, no := choiceStyle.Render("yes"), activeChoiceStyle.Render("no")
	if m.yes {
		yes, no = activeChoiceStyle.Render("yes"), choiceStyle.Render("no")
	}
	return fmt.Sprintf("%s %s %s\n", titleStyle.Render(m.question), yes, no)
}
