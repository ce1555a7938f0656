// Package input provides interactive terminal input utilities.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
)

// ErrNoAnswer is returned when input ends before the user answered.
var ErrNoAnswer = errors.New("no answer: input closed")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string, defaultYes bool) (bool, error)
}

// Fixed answers every question with the same value without prompting.
type Fixed bool

func (f Fixed) Confirm(string, bool) (bool, error) {
	return bool(f), nil
}

// New returns a menu confirmer when in and out are both terminals, and a
// line confirmer otherwise.
func New(in *os.File, out *os.File) Confirmer {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return &MenuConfirmer{In: in, Out: out}
	}
	return NewLineConfirmer(in, out)
}

// LineConfirmer reads a y/n answer from a line of text.
type LineConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLineConfirmer creates a confirmer reading answers from in.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{reader: bufio.NewReader(in), out: out}
}

// Confirm asks the user a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true.
// Input that ends without any answer is an error rather than a silent default.
//
// Example:
//
//	ok, err := c.Confirm("Overwrite existing files?", false)
//	// Displays: Overwrite existing files? [y/N]: _
func (c *LineConfirmer) Confirm(message string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Fprint(c.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	line, err := c.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(c.out)
		if err == io.EOF {
			return false, ErrNoAnswer
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.TrimSpace(strings.ToLower(line))
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}

// MenuConfirmer shows a yes/no menu with keyboard navigation.
type MenuConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c *MenuConfirmer) Confirm(message string, defaultYes bool) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message, defaultYes), tea.WithInput(c.In), tea.WithOutput(c.Out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to show menu: %w", err)
	}

	m := final.(confirmModel)
	if m.selected == nil {
		return false, nil
	}
	return *m.selected, nil
}

// confirmModel is the BubbleTea model for the yes/no menu
type confirmModel struct {
	message  string
	choices  []string
	cursor   int
	selected *bool
}

func newConfirmModel(message string, defaultYes bool) confirmModel {
	m := confirmModel{
		message: message,
		choices: []string{"Yes, proceed", "No, abort"},
		cursor:  1,
	}
	if defaultYes {
		m.cursor = 0
	}
	return m
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case "y":
		yes := true
		m.selected = &yes
		return m, tea.Quit

	case "n":
		no := false
		m.selected = &no
		return m, tea.Quit

	case "enter":
		yes := m.cursor == 0
		m.selected = &yes
		return m, tea.Quit
	}

	return m, nil
}

func (m confirmModel) View() string {
	if m.selected != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(warningStyle.Render(m.message) + "\n\n")
	b.WriteString(hintStyle.Render("    [↑/↓] Navigate    [Enter] Select    [y/n] Answer    [q] Abort") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}
