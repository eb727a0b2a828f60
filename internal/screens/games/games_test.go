package games

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screens/game"
	"github.com/abhisek/quizling/internal/store"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New(nil)
	add := func(id, title, topic string) {
		c.Add(&catalog.Game{
			ID:    id,
			Title: title,
			Topic: topic,
			Questions: []catalog.Question{{
				ID:   "q1",
				Text: "?",
				Options: []catalog.Option{
					{ID: "a", Text: "yes", Correct: true},
					{ID: "b", Text: "no"},
				},
			}},
		})
	}
	add("robots-1", "Meet the Robots", "ai-literacy")
	add("robots-2", "Robot Helpers", "ai-literacy")
	add("snacks", "Healthy Snacks", "health")
	add("recycle", "Recycling Heroes", "sustainability")
	return c
}

func ids(gs []*catalog.Game) []string {
	var out []string
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func typeText(s *GamesScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestNew_AllTopics(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")

	assert.Equal(t, "All Games", s.Title())
	assert.Equal(t, []string{"robots-1", "robots-2", "snacks", "recycle"}, ids(s.Visible()))
}

func TestNew_StartsOnTopic(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "health")

	assert.Equal(t, "Health", s.Title())
	assert.Equal(t, []string{"snacks"}, ids(s.Visible()))
}

func TestTabCyclesTopics(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "AI Literacy", s.Title())
	assert.Equal(t, []string{"robots-1", "robots-2"}, ids(s.Visible()))

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, "All Games", s.Title())
}

func TestFilterNarrowsList(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")

	typeText(s, "robot")
	assert.Equal(t, []string{"robots-1", "robots-2"}, ids(s.Visible()))

	typeText(s, "zzz")
	assert.Empty(t, s.Visible())
	assert.Contains(t, s.View(100, 30), "No games match.")
}

func TestEnterPushesGame(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	g, ok := msg.Screen.(*game.GameScreen)
	require.True(t, ok)
	assert.Equal(t, "Robot Helpers", g.Title())
}

func TestBestResultsMarkPassed(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")
	s.Update(bestLoadedMsg{Best: map[string]store.GameResultRecord{
		"snacks": {GameID: "snacks", BestScore: 4, Passed: true, Plays: 2},
	}})

	view := s.View(120, 30)
	assert.Contains(t, view, "✓ Healthy Snacks")
	assert.Contains(t, view, "best 4")
}

func TestBestResultsError(t *testing.T) {
	s := New(game.Deps{Catalog: testCatalog()}, "")
	s.Update(bestLoadedMsg{Err: fmt.Errorf("db locked")})

	assert.Contains(t, s.View(120, 30), "db locked")
}
