package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/store"
)

type fakeRepo struct {
	store.EventRepo
	totals    store.RewardTotals
	records   []store.RewardEventRecord
	totalsErr error
}

func (f *fakeRepo) RewardTotals(context.Context) (store.RewardTotals, error) {
	return f.totals, f.totalsErr
}

func (f *fakeRepo) QueryRewardEvents(context.Context, store.QueryOpts) ([]store.RewardEventRecord, error) {
	return f.records, nil
}

func testRepo() *fakeRepo {
	ts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &fakeRepo{
		totals: store.RewardTotals{
			Coins:  42,
			XP:     120,
			Badges: map[string]int{"streak": 2, "perfect": 1},
		},
		records: []store.RewardEventRecord{
			{Kind: "coins", Amount: 10, Timestamp: ts},
			{Kind: "streak", Rarity: "common", Reason: "5 in a row", Timestamp: ts},
			{Kind: "streak", Rarity: "rare", Reason: "10 in a row", Timestamp: ts},
			{Kind: "perfect", Rarity: "epic", Reason: "Perfect: Healthy Snacks", Timestamp: ts},
		},
	}
}

func open(t *testing.T, repo *fakeRepo) *WalletScreen {
	t.Helper()
	s := New(rewards.NewService(repo, nil), repo)
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

func TestTotals(t *testing.T) {
	s := open(t, testRepo())

	view := s.View(120, 30)
	assert.Contains(t, view, "● 42 coins")
	assert.Contains(t, view, "★ 120 XP")
	assert.Contains(t, view, "3 badges")
}

func TestBadgesOnly(t *testing.T) {
	s := open(t, testRepo())

	assert.Len(t, s.badges, 3)
	assert.Len(t, s.filtered(), 2)
}

func TestTabSwitchesKind(t *testing.T) {
	s := open(t, testRepo())
	assert.Contains(t, s.View(120, 30), "10 in a row")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view := s.View(120, 30)
	assert.Contains(t, view, "Perfect: Healthy Snacks")
	assert.NotContains(t, view, "10 in a row")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Contains(t, s.View(120, 30), "No badges of this kind yet")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 0, s.selectedKind, "tabs wrap around")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, len(rewards.BadgeKinds())-1, s.selectedKind)
}

func TestScrollClamps(t *testing.T) {
	s := open(t, testRepo())

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.scrollOffset)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.scrollOffset)
}

func TestLoadError(t *testing.T) {
	repo := testRepo()
	repo.totalsErr = errors.New("db closed")
	s := open(t, repo)

	assert.Contains(t, s.View(120, 30), "db closed")
}
