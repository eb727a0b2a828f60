package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/store"
)

// fakeRepo implements only the queries the history screen makes.
type fakeRepo struct {
	store.EventRepo
	sessions  []store.SessionSummaryRecord
	rewards   []store.RewardEventRecord
	err       error
	rewardErr error
}

func (f *fakeRepo) QuerySessionSummaries(_ context.Context, _ store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return f.sessions, f.err
}

func (f *fakeRepo) QueryRewardEvents(_ context.Context, _ store.QueryOpts) ([]store.RewardEventRecord, error) {
	return f.rewards, f.rewardErr
}

func testCatalog() *catalog.Catalog {
	c := catalog.New(nil)
	c.Add(&catalog.Game{ID: "snacks", Title: "Healthy Snacks", Topic: "health"})
	return c
}

func testRepo() *fakeRepo {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &fakeRepo{
		sessions: []store.SessionSummaryRecord{
			{SessionID: "s2", GameID: "snacks", Timestamp: ts, Total: 5, Answered: 5, Accuracy: 100, Coins: 10, Passed: true, DurationSecs: 75, BadgeCount: 2},
			{SessionID: "s1", GameID: "gone", Timestamp: ts.Add(-time.Hour), Total: 5, Answered: 3, Accuracy: 33, Coins: 2},
		},
		rewards: []store.RewardEventRecord{
			{SessionID: "s2", Kind: "coins", Amount: 10},
			{SessionID: "s2", Kind: "perfect", Rarity: "epic", Reason: "Perfect game"},
			{SessionID: "s2", Kind: "streak", Rarity: "common", Reason: "3 in a row"},
		},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestLoadGroupsBadgesBySession(t *testing.T) {
	s := New(testRepo(), testCatalog())
	load(t, s)

	require.Len(t, s.sessions, 2)
	require.Len(t, s.badges["s2"], 2, "coin events are not badges")
	assert.Empty(t, s.badges["s1"])
}

func TestViewListsPlays(t *testing.T) {
	s := New(testRepo(), testCatalog())
	load(t, s)

	view := s.View(140, 30)
	assert.Contains(t, view, "Healthy Snacks")
	assert.Contains(t, view, "gone", "unknown games fall back to their id")
	assert.Contains(t, view, "Mar 14, 2026")
	assert.Contains(t, view, "1:15")
	assert.Contains(t, view, "2 badges")
}

func TestEnterExpandsBadges(t *testing.T) {
	s := New(testRepo(), testCatalog())
	load(t, s)

	assert.NotContains(t, s.View(140, 30), "Perfect game")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(140, 30)
	assert.Contains(t, view, "Perfect game")
	assert.Contains(t, view, "3 in a row")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(140, 30), "No badges this game")
}

func TestNavigationClamps(t *testing.T) {
	s := New(testRepo(), testCatalog())
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
	for range 5 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, 1, s.selected)
}

func TestEmptyHistory(t *testing.T) {
	s := New(&fakeRepo{}, nil)
	load(t, s)

	assert.Contains(t, s.View(100, 30), "No games played yet")
}

func TestLoadError(t *testing.T) {
	s := New(&fakeRepo{err: errors.New("disk full")}, nil)
	load(t, s)

	assert.Contains(t, s.View(100, 30), "disk full")
}

func TestRewardErrorStillListsPlays(t *testing.T) {
	repo := testRepo()
	repo.rewardErr = errors.New("boom")
	s := New(repo, testCatalog())
	load(t, s)

	assert.Len(t, s.sessions, 2)
	assert.Empty(t, s.errMsg)
}

func TestEscPops(t *testing.T) {
	s := New(testRepo(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
