package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func testChoices() []Choice {
	return []Choice{
		{ID: "a", Text: "Ask an adult", Emoji: "🧑", Correct: true},
		{ID: "b", Text: "Share your password"},
		{ID: "c", Text: "Ignore it"},
	}
}

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice(testChoices())
	assert.Equal(t, "a", m.Current())

	m.Up()
	assert.Equal(t, 0, m.Selected, "cursor stays at the top")

	m.Down()
	m.Down()
	m.Down()
	assert.Equal(t, 2, m.Selected, "cursor stops at the bottom")
	assert.Equal(t, "c", m.Current())
}

func TestMultiChoice_ByNumber(t *testing.T) {
	m := NewMultiChoice(testChoices())

	id, ok := m.ByNumber(2)
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	_, ok = m.ByNumber(4)
	assert.False(t, ok)
	_, ok = m.ByNumber(0)
	assert.False(t, ok)
}

func TestMultiChoice_RevealFreezesCursor(t *testing.T) {
	m := NewMultiChoice(testChoices())
	m.Down()
	m.Reveal("b")
	m.Down()

	assert.Equal(t, 1, m.Selected)
	view := m.View()
	assert.Contains(t, view, "✓", "correct option is marked")
	assert.Contains(t, view, "✗", "wrong pick is marked")
}

func TestMultiChoice_ViewNumbersOptions(t *testing.T) {
	view := NewMultiChoice(testChoices()).View()
	for _, want := range []string{"1) 🧑 Ask an adult", "2) Share your password", "3) Ignore it"} {
		assert.Contains(t, view, want)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "One", Disabled: true},
		{Label: "Two"},
		{Label: "Three", Disabled: true},
		{Label: "Four"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
	assert.Equal(t, []string{"One", "Two", "Three", "Four"}, m.Labels())
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, ran)
}

func TestFilterInput_Matches(t *testing.T) {
	f := NewFilterInput("search", 20)
	assert.True(t, f.Matches("anything"), "empty query matches")

	f.Model.SetValue("  Robot ")
	assert.Equal(t, "robot", f.Query())
	assert.True(t, f.Matches("Meet the Robots"))
	assert.True(t, f.Matches("x", "ai-robot"))
	assert.False(t, f.Matches("Healthy Snacks"))

	f.Reset()
	assert.Equal(t, "", f.Query())
}

func TestQuestionProgress(t *testing.T) {
	p := QuestionProgress(2, 4, 40)
	assert.InDelta(t, 0.5, p.Percent, 0.001)
	assert.True(t, strings.HasPrefix(p.Label, "2/4"))

	empty := QuestionProgress(0, 0, 40)
	assert.Zero(t, empty.Percent)
}

func TestConfetti(t *testing.T) {
	assert.Empty(t, Confetti(0, 1))
	assert.NotEqual(t, Confetti(30, 0), Confetti(30, 1), "frames differ")
	assert.Empty(t, FlashPoints(0))
	assert.Contains(t, FlashPoints(3), "+3")
}
