package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/screens/game"
	"github.com/abhisek/quizling/internal/screens/games"
	"github.com/abhisek/quizling/internal/screens/history"
	"github.com/abhisek/quizling/internal/screens/wallet"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/layout"
)

// Menu labels on the home screen.
const (
	LabelContinue = "CONTINUE"
	LabelAllGames = "ALL GAMES"
	LabelWallet   = "WALLET"
	LabelHistory  = "HISTORY"
	LabelExit     = "EXIT"
)

// stats is the dashboard summary shown under the title.
type stats struct {
	Coins  int
	XP     int
	Badges int
	Passed int
	Played int
	Total  int

	passed map[string]bool
}

type statsLoadedMsg struct {
	stats stats
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps    game.Deps
	menu    components.Menu
	stats   stats
	upNext  *catalog.Game
	variant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates the home screen and loads the dashboard stats.
func New(deps game.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps.WithDefaults()}

	items := []components.MenuItem{
		{Label: LabelContinue, Action: h.continueGame},
		{Label: LabelAllGames, Action: func() tea.Cmd {
			return router.Cmd(router.PushScreenMsg{Screen: games.New(h.deps, "")})
		}},
		{Label: LabelWallet, Action: func() tea.Cmd {
			return router.Cmd(router.PushScreenMsg{Screen: wallet.New(h.deps.Rewards, h.deps.EventRepo)})
		}},
		{Label: LabelHistory, Action: h.openHistory},
		{Label: LabelExit, Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	h.apply(loadStats(context.Background(), h.deps))
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refresh reloads the stats after a game or any other screen pops back.
func (h *HomeScreen) Refresh() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		return statsLoadedMsg{stats: loadStats(context.Background(), deps)}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// UpNext returns the game CONTINUE starts, or nil when the catalog is empty.
func (h *HomeScreen) UpNext() *catalog.Game {
	return h.upNext
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.apply(msg.stats)
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) continueGame() tea.Cmd {
	if h.upNext == nil {
		return router.Cmd(router.PushScreenMsg{Screen: games.New(h.deps, "")})
	}
	return router.Cmd(router.PushScreenMsg{Screen: game.New(h.deps, h.upNext, catalog.Rewards{})})
}

func (h *HomeScreen) openHistory() tea.Cmd {
	if h.deps.EventRepo == nil {
		return nil
	}
	return router.Cmd(router.PushScreenMsg{Screen: history.New(h.deps.EventRepo, h.deps.Catalog)})
}

// apply stores st and picks the next game and mascot from it.
func (h *HomeScreen) apply(st stats) {
	h.stats = st
	h.upNext = nil

	var all []*catalog.Game
	if h.deps.Catalog != nil {
		all = h.deps.Catalog.All()
	}
	for _, g := range all {
		if !st.passed[g.ID] {
			h.upNext = g
			break
		}
	}
	if h.upNext == nil && len(all) > 0 {
		h.upNext = all[0]
	}

	switch {
	case st.Played == 0:
		h.variant = MascotCurious
	case st.Total > 0 && st.Passed == st.Total:
		h.variant = MascotCelebrating
	default:
		h.variant = MascotIdle
	}
}

// loadStats reads the latest snapshot, falling back to the event log when
// there is none.
func loadStats(ctx context.Context, deps game.Deps) stats {
	st := stats{passed: make(map[string]bool)}
	if deps.Catalog != nil {
		st.Total = deps.Catalog.Len()
	}

	var snap *store.Snapshot
	if deps.SnapRepo != nil {
		var err error
		snap, err = deps.SnapRepo.Latest(ctx)
		if err != nil {
			deps.Logger.Warn("load snapshot", zap.Error(err))
		}
	}

	if snap != nil && snap.Data.Wallet != nil {
		st.Coins = snap.Data.Wallet.Coins
		st.XP = snap.Data.Wallet.XP
		for _, n := range snap.Data.Wallet.Badges {
			st.Badges += n
		}
	} else if w, err := deps.Rewards.Wallet(ctx); err != nil {
		deps.Logger.Warn("load wallet", zap.Error(err))
	} else {
		st.Coins, st.XP, st.Badges = w.Coins, w.XP, w.BadgeCount()
	}

	if snap != nil && snap.Data.Games != nil {
		for id, g := range snap.Data.Games {
			st.markPlayed(id, g.Passed, deps.Catalog)
		}
	} else if deps.EventRepo != nil {
		best, err := deps.EventRepo.BestResults(ctx)
		if err != nil {
			deps.Logger.Warn("load best results", zap.Error(err))
		}
		for id, r := range best {
			st.markPlayed(id, r.Passed, deps.Catalog)
		}
	}
	return st
}

// markPlayed counts a played game. Passes only count for games still in the
// catalog.
func (st *stats) markPlayed(id string, passed bool, cat *catalog.Catalog) {
	st.Played++
	if !passed {
		return
	}
	if cat != nil {
		if _, ok := cat.Lookup(id); !ok {
			return
		}
	}
	st.passed[id] = true
	st.Passed++
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.variant, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if h.upNext != nil && !compact {
		title := h.upNext.Title
		if h.stats.Total > 0 && h.stats.Passed == h.stats.Total {
			title = ""
		}
		sections = append(sections, renderContinueNote(title, cw))
	}
	sections = append(sections, renderMenu(h.menu.Labels(), h.menu.Selected, cw))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
