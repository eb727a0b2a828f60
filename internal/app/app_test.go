package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screens/game"
	"github.com/abhisek/quizling/internal/screens/home"
	"github.com/abhisek/quizling/internal/screens/welcome"
	"github.com/abhisek/quizling/internal/ui/layout"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New(nil)
	c.Add(&catalog.Game{
		ID:    "snacks",
		Title: "Healthy Snacks",
		Topic: "health",
		Questions: []catalog.Question{{
			ID:   "q1",
			Text: "Which is a healthy snack?",
			Options: []catalog.Option{
				{ID: "a", Text: "Apple", Correct: true},
				{ID: "b", Text: "Candy"},
			},
		}},
	})
	return c
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestStartsOnWelcome(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog()})
	require.NoError(t, err)

	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	assert.True(t, ok)
	assert.Equal(t, 1, m.router.Depth())
}

func TestStartGameOpensOverHome(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog(), StartGame: "snacks"})
	require.NoError(t, err)

	_, ok := m.router.Active().(*home.HomeScreen)
	require.True(t, ok)
	require.NotNil(t, m.start)

	m, _ = update(t, m, m.start())
	assert.Equal(t, 2, m.router.Depth())
	g, ok := m.router.Active().(*game.GameScreen)
	require.True(t, ok)
	assert.Equal(t, "Healthy Snacks", g.Title())
}

func TestStartGameUnknown(t *testing.T) {
	_, err := newAppModel(Options{Catalog: testCatalog(), StartGame: "nope"})
	assert.ErrorContains(t, err, `unknown game "nope"`)
}

func TestEscGoesToGameScreen(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog(), StartGame: "snacks"})
	require.NoError(t, err)
	m, _ = update(t, m, m.start())

	m, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "the game opens its quit dialog instead of popping")
	assert.Equal(t, 2, m.router.Depth())

	m, cmd = update(t, m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	assert.Equal(t, 1, m.router.Depth())
	assert.NotNil(t, cmd, "popping refreshes home and the header")
}

func TestEscPopsPlainScreens(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog()})
	require.NoError(t, err)
	m, _ = update(t, m, router.PushScreenMsg{Screen: home.New(m.deps)})
	require.Equal(t, 2, m.router.Depth())

	_, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestHeaderStatus(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog()})
	require.NoError(t, err)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, statusLoadedMsg{status: layout.Status{Coins: 17, XP: 30}})

	content := m.render()
	assert.Contains(t, content, "● 17 coins")
	assert.Contains(t, content, "★ 30 XP")
}

func TestTooSmall(t *testing.T) {
	m, err := newAppModel(Options{Catalog: testCatalog()})
	require.NoError(t, err)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.render(), "Terminal too small!")
}
