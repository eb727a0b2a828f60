package wallet

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/layout"
	"github.com/abhisek/quizling/internal/ui/theme"
)

type walletLoadedMsg struct {
	Wallet  rewards.Wallet
	Records []store.RewardEventRecord
	Err     error
}

// WalletScreen displays lifetime coins and XP and the badge collection.
type WalletScreen struct {
	service      *rewards.Service
	eventRepo    store.EventRepo
	wallet       rewards.Wallet
	badges       []store.RewardEventRecord
	selectedKind int // index into rewards.BadgeKinds
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*WalletScreen)(nil)
var _ screen.KeyHintProvider = (*WalletScreen)(nil)

// New creates a new WalletScreen.
func New(service *rewards.Service, eventRepo store.EventRepo) *WalletScreen {
	return &WalletScreen{
		service:   service,
		eventRepo: eventRepo,
	}
}

func (s *WalletScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		w, err := s.service.Wallet(ctx)
		if err != nil {
			return walletLoadedMsg{Err: err}
		}
		if s.eventRepo == nil {
			return walletLoadedMsg{Wallet: w}
		}
		records, err := s.eventRepo.QueryRewardEvents(ctx, store.QueryOpts{})
		return walletLoadedMsg{Wallet: w, Records: records, Err: err}
	}
}

func (s *WalletScreen) Title() string {
	return "Wallet"
}

func (s *WalletScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch badge"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WalletScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case walletLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.wallet = msg.Wallet
			s.badges = s.badges[:0]
			for _, r := range msg.Records {
				if rewards.Kind(r.Kind).IsBadge() {
					s.badges = append(s.badges, r)
				}
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		kinds := rewards.BadgeKinds()
		switch msg.String() {
		case "esc":
			return s, router.Cmd(router.PopScreenMsg{})
		case "tab":
			s.selectedKind = (s.selectedKind + 1) % len(kinds)
			s.scrollOffset = 0
			return s, nil
		case "shift+tab":
			s.selectedKind = (s.selectedKind - 1 + len(kinds)) % len(kinds)
			s.scrollOffset = 0
			return s, nil
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
			return s, nil
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *WalletScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Opening wallet...")
	}

	var b strings.Builder

	totals := fmt.Sprintf("%s   %s   %s",
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(fmt.Sprintf("● %d coins", s.wallet.Coins)),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("★ %d XP", s.wallet.XP)),
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%d badges", s.wallet.BadgeCount())),
	)
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, totals))
	b.WriteString("\n\n")

	var tabs []string
	for i, k := range rewards.BadgeKinds() {
		label := fmt.Sprintf("%s %s (%d)", k.Icon(), k.DisplayName(), s.wallet.Badges[k])
		if i == s.selectedKind {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	filtered := s.filtered()
	if len(filtered) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No badges of this kind yet"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(filtered))

	for i := start; i < end; i++ {
		rec := filtered[i]
		line := fmt.Sprintf("  %-10s %-34s %s",
			rewards.Rarity(rec.Rarity).DisplayName(), rec.Reason, rec.Timestamp.Format("Jan 02, 2006"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.RarityColor(rec.Rarity)).Render(line)))
		b.WriteString("\n")
	}

	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(filtered)-end)))
	}

	return b.String()
}

func (s *WalletScreen) filtered() []store.RewardEventRecord {
	kind := string(rewards.BadgeKinds()[s.selectedKind])
	var out []store.RewardEventRecord
	for _, r := range s.badges {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
