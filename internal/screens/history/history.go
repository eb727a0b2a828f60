package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/layout"
	"github.com/abhisek/quizling/internal/ui/theme"
)

// sessionLimit caps how many past plays are listed.
const sessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Badges   map[string][]store.RewardEventRecord // sessionID → badge events
	Err      error
}

// HistoryScreen displays past plays and the badges earned in each.
type HistoryScreen struct {
	eventRepo store.EventRepo
	catalog   *catalog.Catalog
	sessions  []store.SessionSummaryRecord
	badges    map[string][]store.RewardEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. cat resolves game titles and may be nil.
func New(eventRepo store.EventRepo, cat *catalog.Catalog) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		catalog:   cat,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := s.eventRepo.QuerySessionSummaries(ctx, store.QueryOpts{Limit: sessionLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Badges are optional detail; the list still shows without them.
		events, err := s.eventRepo.QueryRewardEvents(ctx, store.QueryOpts{})
		if err != nil {
			return historyLoadedMsg{Sessions: sessions, Badges: make(map[string][]store.RewardEventRecord)}
		}
		return historyLoadedMsg{Sessions: sessions, Badges: groupBadges(events)}
	}
}

func groupBadges(events []store.RewardEventRecord) map[string][]store.RewardEventRecord {
	bySession := make(map[string][]store.RewardEventRecord)
	for _, e := range events {
		if !rewards.Kind(e.Kind).IsBadge() {
			continue
		}
		bySession[e.SessionID] = append(bySession[e.SessionID], e)
	}
	return bySession
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Badges"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.badges = msg.Badges
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Cmd(router.PopScreenMsg{})
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) gameTitle(id string) string {
	if s.catalog != nil {
		if g, ok := s.catalog.Lookup(id); ok {
			return g.Title
		}
	}
	return id
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games played yet. Pick one and have fun!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dateStr := sess.Timestamp.Format("Jan 02, 2006")
		durationStr := fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60)

		mark := "✗"
		if sess.Passed {
			mark = "✓"
		}

		badgeStr := ""
		if sess.BadgeCount > 0 {
			badgeStr = fmt.Sprintf("  %d badge", sess.BadgeCount)
			if sess.BadgeCount > 1 {
				badgeStr += "s"
			}
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s %s  %-28s %s  %d/%d  %d%%  ● %d%s",
			prefix, mark, dateStr, truncate(s.gameTitle(sess.GameID), 28), durationStr,
			sess.Answered, sess.Total, sess.Accuracy, sess.Coins, badgeStr)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderBadges(sess.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderBadges(sessionID string, width int) string {
	events := s.badges[sessionID]
	if len(events) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No badges this game")) + "\n"
	}

	var b strings.Builder
	for _, e := range events {
		kind := rewards.Kind(e.Kind)
		rarity := rewards.Rarity(e.Rarity)
		line := fmt.Sprintf("    %s %s %s badge: %s",
			kind.Icon(), rarity.DisplayName(), kind.DisplayName(), e.Reason)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.RarityColor(e.Rarity)).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
