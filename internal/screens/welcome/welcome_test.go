package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
)

type homeScreen struct{}

func (s *homeScreen) Init() tea.Cmd                           { return nil }
func (s *homeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *homeScreen) View(int, int) string                    { return "home" }
func (s *homeScreen) Title() string                           { return "Home" }

var threeTopics = Splash{Topics: []string{"ai-literacy", "health", "values"}, Games: 8}

func newWelcome(splash Splash) (*WelcomeScreen, *int) {
	calls := 0
	return New(splash, func() screen.Screen {
		calls++
		return &homeScreen{}
	}), &calls
}

func tickN(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(tickMsg{})
	}
	return cmd
}

func TestTopicsRevealOnePerBeat(t *testing.T) {
	w, _ := newWelcome(threeTopics)

	view := w.View(120, 30)
	assert.NotContains(t, view, "AI Literacy")

	tickN(w, 1)
	view = w.View(120, 30)
	assert.Contains(t, view, "🤖 AI Literacy")
	assert.NotContains(t, view, "Health")

	tickN(w, 2)
	view = w.View(120, 30)
	assert.Contains(t, view, "🍎 Health")
	assert.Contains(t, view, "💛 Values")
	assert.False(t, w.bannerShown(), "banner waits for the pause after the last topic")
	assert.NotContains(t, view, "press any key")
}

func TestBannerAfterTopics(t *testing.T) {
	w, _ := newWelcome(threeTopics)
	tickN(w, len(threeTopics.Topics)+bannerDelay)

	view := w.View(120, 30)
	assert.Contains(t, view, "██████╗")
	assert.Contains(t, view, "Learn, play and grow!")
	assert.Contains(t, view, "8 games in 3 topics")
	assert.Contains(t, view, "press any key to start")
}

func TestEmptySplash(t *testing.T) {
	w, _ := newWelcome(Splash{})

	tickN(w, bannerDelay-1)
	assert.NotContains(t, w.View(120, 30), "press any key")

	tickN(w, 1)
	view := w.View(120, 30)
	assert.Contains(t, view, "press any key")
	assert.NotContains(t, view, "games in", "no summary without games")
}

func TestSummaryPlurals(t *testing.T) {
	w, _ := newWelcome(Splash{Topics: []string{"health"}, Games: 1})
	assert.Equal(t, "1 game in 1 topic", w.summary())
}

func TestNarrowWidthListsTopics(t *testing.T) {
	w, _ := newWelcome(threeTopics)
	tickN(w, len(threeTopics.Topics)+bannerDelay)

	view := w.View(30, 30)
	assert.Contains(t, view, "Q U I Z L I N G")
	assert.NotContains(t, view, "╭", "tiles fall back to a plain list")
	for _, title := range []string{"AI Literacy", "Health", "Values"} {
		assert.Contains(t, view, title)
	}
}

func TestUnknownTopicIcon(t *testing.T) {
	w, _ := newWelcome(Splash{Topics: []string{"space-travel"}})
	tickN(w, 1)
	assert.Contains(t, w.View(120, 30), "★ Space Travel")
}

func TestKeyHandsOverToHomeOnce(t *testing.T) {
	w, calls := newWelcome(threeTopics)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &homeScreen{}, msg.Screen)
	assert.Equal(t, 1, *calls)

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'q'})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *calls)
}

func TestKeyBeforeAnimationFinishes(t *testing.T) {
	w, calls := newWelcome(threeTopics)
	tickN(w, 1)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, *calls)
}

func TestTicksStopAfterHandOver(t *testing.T) {
	w, _ := newWelcome(threeTopics)
	assert.NotNil(t, w.Init())
	assert.NotNil(t, tickN(w, 1))

	w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, tickN(w, 1))
}

func TestSparklesMove(t *testing.T) {
	w, _ := newWelcome(Splash{})
	before := w.sparkles()
	tickN(w, 1)
	assert.NotEqual(t, before, w.sparkles())
	assert.Len(t, strings.Fields(w.sparkles()), 9)
}

func TestSplashOf(t *testing.T) {
	assert.Equal(t, Splash{}, SplashOf(nil))

	c := catalog.New(nil)
	for _, g := range []*catalog.Game{
		{ID: "snacks", Title: "Healthy Snacks", Topic: "health"},
		{ID: "sleep", Title: "Sleepy Time", Topic: "health"},
		{ID: "robots", Title: "Robot Helpers", Topic: "ai-literacy"},
	} {
		c.Add(g)
	}
	assert.Equal(t, Splash{Topics: []string{"ai-literacy", "health"}, Games: 3}, SplashOf(c))
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newWelcome(threeTopics)
	assert.Empty(t, w.Title())
}
