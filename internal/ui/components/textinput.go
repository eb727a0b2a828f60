package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a search box for lists.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a focused filter box.
func NewFilterInput(placeholder string, maxLen int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	ti.Focus()
	return FilterInput{Model: ti}
}

// Init returns the cursor blink command.
func (f FilterInput) Init() tea.Cmd {
	return f.Model.Focus()
}

// Update forwards msg to the text input.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter box.
func (f FilterInput) View() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Render(f.Model.View())
}

// Query returns the trimmed, lower-cased filter text.
func (f FilterInput) Query() string {
	return strings.ToLower(strings.TrimSpace(f.Model.Value()))
}

// Matches reports whether any of fields contains the query. An empty query
// matches everything.
func (f FilterInput) Matches(fields ...string) bool {
	q := f.Query()
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Reset clears the filter text.
func (f *FilterInput) Reset() {
	f.Model.SetValue("")
}
