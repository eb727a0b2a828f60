package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/ui/theme"
)

// Choice is one answer option as shown on screen.
type Choice struct {
	ID      string
	Text    string
	Emoji   string
	Correct bool
}

// MultiChoice renders a numbered list of answer options. Before an answer
// the cursor row is highlighted; once Revealed, correct options turn green
// and a wrong pick turns red.
type MultiChoice struct {
	Choices  []Choice
	Selected int
	Revealed bool
	ChosenID string // empty for a timeout
}

// NewMultiChoice creates a selector over choices with the cursor on the first.
func NewMultiChoice(choices []Choice) MultiChoice {
	return MultiChoice{Choices: choices}
}

// Up moves the cursor up. It is a no-op once revealed.
func (m *MultiChoice) Up() {
	if !m.Revealed && m.Selected > 0 {
		m.Selected--
	}
}

// Down moves the cursor down. It is a no-op once revealed.
func (m *MultiChoice) Down() {
	if !m.Revealed && m.Selected < len(m.Choices)-1 {
		m.Selected++
	}
}

// Current returns the id of the option under the cursor.
func (m MultiChoice) Current() string {
	if m.Selected < 0 || m.Selected >= len(m.Choices) {
		return ""
	}
	return m.Choices[m.Selected].ID
}

// ByNumber returns the id of the 1-based option n, if it exists.
func (m MultiChoice) ByNumber(n int) (string, bool) {
	if n < 1 || n > len(m.Choices) {
		return "", false
	}
	return m.Choices[n-1].ID, true
}

// Reveal freezes the list and marks chosenID as the learner's pick.
func (m *MultiChoice) Reveal(chosenID string) {
	m.Revealed = true
	m.ChosenID = chosenID
}

// View renders the options, one per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, c := range m.Choices {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		text := c.Text
		if c.Emoji != "" {
			text = c.Emoji + " " + text
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && c.Correct:
			style = theme.Correct
			line += "  ✓"
		case m.Revealed && c.ID == m.ChosenID:
			style = theme.Incorrect
			line += "  ✗"
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
