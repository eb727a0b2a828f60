package games

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/screens/game"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/layout"
	"github.com/abhisek/quizling/internal/ui/theme"
)

type bestLoadedMsg struct {
	Best map[string]store.GameResultRecord
	Err  error
}

// GamesScreen lists the catalog by topic with a type-to-filter box.
type GamesScreen struct {
	deps     game.Deps
	topics   []string // "" is every topic
	topicIdx int
	filter   components.FilterInput
	visible  []*catalog.Game
	selected int
	best     map[string]store.GameResultRecord
	errMsg   string
}

var _ screen.Screen = (*GamesScreen)(nil)
var _ screen.KeyHintProvider = (*GamesScreen)(nil)
var _ screen.Refresher = (*GamesScreen)(nil)

// New creates the list, starting on topic (empty for all topics).
func New(deps game.Deps, topic string) *GamesScreen {
	s := &GamesScreen{
		deps:   deps,
		topics: append([]string{""}, deps.Catalog.Topics()...),
		filter: components.NewFilterInput("type to search", 40),
		best:   make(map[string]store.GameResultRecord),
	}
	for i, t := range s.topics {
		if t == topic {
			s.topicIdx = i
		}
	}
	s.applyFilter()
	return s
}

func (s *GamesScreen) Init() tea.Cmd {
	return tea.Batch(s.loadBest(), s.filter.Init())
}

// Refresh reloads best results after returning from a game.
func (s *GamesScreen) Refresh() tea.Cmd {
	return s.loadBest()
}

func (s *GamesScreen) loadBest() tea.Cmd {
	repo := s.deps.EventRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		best, err := repo.BestResults(context.Background())
		return bestLoadedMsg{Best: best, Err: err}
	}
}

func (s *GamesScreen) Title() string {
	if t := s.topics[s.topicIdx]; t != "" {
		return catalog.TopicTitle(t)
	}
	return "All Games"
}

func (s *GamesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Topic"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

// Visible returns the games shown under the current topic and filter.
func (s *GamesScreen) Visible() []*catalog.Game {
	return s.visible
}

func (s *GamesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bestLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else if msg.Best != nil {
			s.best = msg.Best
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.topicIdx = (s.topicIdx + 1) % len(s.topics)
			s.applyFilter()
			return s, nil
		case "shift+tab":
			s.topicIdx = (s.topicIdx - 1 + len(s.topics)) % len(s.topics)
			s.applyFilter()
			return s, nil
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.visible)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.visible) {
				g := game.New(s.deps, s.visible[s.selected], catalog.Rewards{})
				return s, router.Cmd(router.PushScreenMsg{Screen: g})
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	before := s.filter.Query()
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Query() != before {
		s.applyFilter()
	}
	return s, cmd
}

func (s *GamesScreen) applyFilter() {
	topic := s.topics[s.topicIdx]
	var source []*catalog.Game
	if topic == "" {
		source = s.deps.Catalog.All()
	} else {
		source = s.deps.Catalog.ByTopic(topic)
	}

	s.visible = s.visible[:0]
	for _, g := range source {
		if s.filter.Matches(g.Title, g.Subtitle, g.ID) {
			s.visible = append(s.visible, g)
		}
	}
	if s.selected >= len(s.visible) {
		s.selected = max(len(s.visible)-1, 0)
	}
}

func (s *GamesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	var tabs []string
	for i, t := range s.topics {
		label := "All"
		if t != "" {
			label = catalog.TopicTitle(t)
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.topicIdx {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true)
		}
		tabs = append(tabs, style.Render(label))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "   ")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.filter.View()))
	b.WriteString("\n\n")

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("Could not load progress: " + s.errMsg))
		b.WriteString("\n")
	}

	if len(s.visible) == 0 {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("No games match."))
		return b.String()
	}

	maxVisible := max(height-8, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.visible))

	for i := start; i < end; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(s.visible[i], i == s.selected)))
		b.WriteString("\n")
	}
	if end < len(s.visible) {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(s.visible)-end)))
	}
	return b.String()
}

func (s *GamesScreen) renderRow(g *catalog.Game, selected bool) string {
	mark := "  "
	rec, played := s.best[g.ID]
	if played && rec.Passed {
		mark = "✓ "
	}
	prefix := "  "
	if selected {
		prefix = "▸ "
	}

	line := fmt.Sprintf("%s%s%-34s %-7s %2d Qs", prefix, mark, truncate(g.Title, 34), g.PlayKind().DisplayName(), g.Total())
	if played {
		line += fmt.Sprintf("   best %d", rec.BestScore)
	}

	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case selected:
		style = theme.Selected
	case played && rec.Passed:
		style = lipgloss.NewStyle().Foreground(theme.Success)
	}
	return style.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
