package game

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/session"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/layout"
	"github.com/abhisek/quizling/internal/ui/theme"
)

// Menu labels on the results screen.
const (
	LabelNext     = "NEXT GAME"
	LabelTryAgain = "TRY AGAIN"
	LabelHome     = "HOME"
)

// ResultsScreen shows the outcome of a finished play. A passed play offers
// the next game; a failed one offers another try.
type ResultsScreen struct {
	play   *GameScreen
	result *session.Result
	awards []rewards.Award
	next   *catalog.Game
	menu   components.Menu
	frame  int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)
var _ screen.EscHandler = (*ResultsScreen)(nil)

func newResults(play *GameScreen, result *session.Result, awards []rewards.Award) *ResultsScreen {
	r := &ResultsScreen{
		play:   play,
		result: result,
		awards: awards,
	}
	if result.Passed && result.Next != "" && play.deps.Catalog != nil {
		if g, ok := play.deps.Catalog.Lookup(result.Next); ok {
			r.next = g
		}
	}

	var items []components.MenuItem
	if result.Passed {
		if r.next != nil {
			items = append(items, components.MenuItem{Label: LabelNext, Action: r.nextGame})
		}
	} else {
		items = append(items, components.MenuItem{Label: LabelTryAgain, Action: r.tryAgain})
	}
	items = append(items, components.MenuItem{Label: LabelHome, Action: home})
	r.menu = components.NewMenu(items)
	return r
}

// Result returns the play being shown.
func (r *ResultsScreen) Result() *session.Result {
	return r.result
}

// Next returns the game offered by NEXT GAME, or nil.
func (r *ResultsScreen) Next() *catalog.Game {
	return r.next
}

func (r *ResultsScreen) Init() tea.Cmd {
	if !r.result.Passed {
		return nil
	}
	r.play.tracker.Celebrate(r.play.deps.Now())
	return resultsAnimTick()
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) HandlesEsc() bool {
	return true
}

func (r *ResultsScreen) Status() layout.Status {
	return layout.Status{
		Coins: r.play.tracker.TotalCoins,
		XP:    r.play.walletXP + r.result.XP,
	}
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsAnimMsg:
		r.frame++
		if r.play.tracker.Tick(r.play.deps.Now()) {
			return r, resultsAnimTick()
		}
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return r, home()
		}
		var cmd tea.Cmd
		r.menu, cmd = r.menu.Update(msg)
		return r, cmd
	}
	return r, nil
}

// nextGame replaces the results with a fresh play of the next game. The
// current game's resolved rewards are handed over as the fallback.
func (r *ResultsScreen) nextGame() tea.Cmd {
	next := New(r.play.deps, r.next, r.play.session.Rewards)
	return router.Cmd(router.ReplaceScreenMsg{Screen: next})
}

// tryAgain brings the finished play back; its Init resets it.
func (r *ResultsScreen) tryAgain() tea.Cmd {
	return router.Cmd(router.ReplaceScreenMsg{Screen: r.play})
}

func home() tea.Cmd {
	return router.Cmd(router.PopToRootMsg{})
}

func resultsAnimTick() tea.Cmd {
	return tea.Tick(animInterval, func(time.Time) tea.Msg { return resultsAnimMsg{} })
}

func (r *ResultsScreen) View(width, height int) string {
	res := r.result
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var sections []string

	if r.play.tracker.ShowConfetti {
		sections = append(sections, components.Confetti(cw, r.frame))
	}

	if res.Passed {
		sections = append(sections, center.Foreground(theme.ArcadeYellow).Bold(true).Render("🎉 Great job! 🎉"))
	} else {
		sections = append(sections, center.Foreground(theme.Accent).Bold(true).Render("Keep trying, you can do it!"))
	}
	sections = append(sections, center.Foreground(theme.TextDim).Render(r.play.game.Title))

	total := r.play.session.Rewards.TotalCoins
	stats := []string{
		fmt.Sprintf("Correct: %d/%d   Accuracy: %d%%   Score: %d", res.Correct, res.Total, res.Accuracy, res.Score),
		fmt.Sprintf("Best streak: %d   Time: %s", res.BestStreak, formatDuration(res.Duration)),
	}
	if res.Passed {
		stats = append(stats, fmt.Sprintf("● %d/%d coins   ★ %d XP", res.Coins, total, res.XP))
	} else {
		stats = append(stats, fmt.Sprintf("● %d/%d coins collected", res.Coins, total))
	}
	sections = append(sections, components.ArcadeCard(strings.Join(stats, "\n"), cw))

	if badges := r.badgeLines(); badges != "" {
		sections = append(sections, badges)
	}

	sections = append(sections, components.ArcadeButtons(r.menu.Labels(), r.menu.Selected, cw))

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (r *ResultsScreen) badgeLines() string {
	var lines []string
	for _, a := range r.awards {
		if !a.Kind.IsBadge() {
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.RarityColor(string(a.Rarity))).
			Render(fmt.Sprintf("%s %s %s badge: %s", a.Kind.Icon(), a.Rarity.DisplayName(), a.Kind.DisplayName(), a.Reason)))
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
