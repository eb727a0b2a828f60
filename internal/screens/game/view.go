package game

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/theme"
)

func (s *GameScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")

	if s.tracker.ShowConfetti {
		b.WriteString(components.Confetti(width, s.frame))
	}
	b.WriteString("\n\n")

	q := s.session.Current()
	if q == nil {
		return b.String()
	}

	if s.game.PlayKind() == catalog.KindStory && q.Story != "" {
		story := lipgloss.NewStyle().
			Width(max(min(width-8, 70), 0)).
			Foreground(theme.TextDim).
			Italic(true).
			Render(q.Story)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, story))
		b.WriteString("\n\n")
	}

	text := q.Text
	if q.Emoji != "" {
		text = q.Emoji + "  " + text
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	b.WriteString("\n")

	if s.last != nil {
		b.WriteString(s.renderFeedback(q, width))
	} else if s.game.Timed() {
		b.WriteString(s.renderCountdown(width))
	}

	return b.String()
}

// renderInfoLine renders the title, progress, score and coins row.
func (s *GameScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.game.PlayKind().DisplayName() + ": " + s.game.Title)
	if s.game.Subtitle != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + s.game.Subtitle)
	}

	flash := components.FlashPoints(s.tracker.FlashPoints)
	right := fmt.Sprintf("%s  %s %d  %s %d/%d ",
		components.QuestionProgress(len(s.session.Choices), s.game.Total(), 24).View(),
		lipgloss.NewStyle().Foreground(theme.Success).Render("Score"),
		s.session.Score,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render("●"),
		s.session.Coins,
		s.session.Rewards.TotalCoins,
	)
	if flash != "" {
		right = flash + "  " + right
	}

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	} else {
		line += "\n  " + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *GameScreen) renderCountdown(width int) string {
	remaining := s.session.Remaining(s.deps.Now())
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.ArcadeCyan).Bold(true)
	if remaining <= 3*time.Second {
		style = style.Foreground(theme.Error)
	}
	return style.Render(fmt.Sprintf("⏱ %.1fs", remaining.Seconds()))
}

// renderFeedback renders the verdict under the revealed options.
func (s *GameScreen) renderFeedback(q *catalog.Question, width int) string {
	res := s.last
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	switch {
	case res.Choice.Correct:
		msg := "Correct!"
		if res.Coins > 0 {
			msg = fmt.Sprintf("Correct! +%d coins", res.Coins)
		}
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render(msg))
	case res.Choice.TimedOut:
		b.WriteString(center.Foreground(theme.Accent).Bold(true).Render("Time's up!"))
	default:
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Not quite"))
	}
	b.WriteString("\n")

	if !res.Choice.Correct {
		if answer := correctText(q); answer != "" {
			b.WriteString(center.Foreground(theme.TextDim).Render("Correct answer: " + answer))
			b.WriteString("\n")
		}
		if q.Explanation != "" {
			exp := lipgloss.NewStyle().Width(max(min(width-8, 70), 0)).Foreground(theme.Text).Render(q.Explanation)
			b.WriteString("\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
			b.WriteString("\n")
		}
	}

	if s.badge != nil {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.RarityColor(string(s.badge.Rarity))).Bold(true).
			Render(fmt.Sprintf("%s %s badge! %s", s.badge.Kind.Icon(), s.badge.Rarity.DisplayName(), s.badge.Reason)))
		b.WriteString("\n")
	}

	hint := "Press any key to continue..."
	if res.Last {
		hint = "Press any key to see your results..."
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(hint))
	return b.String()
}

func correctText(q *catalog.Question) string {
	var texts []string
	for _, o := range q.Options {
		if o.Correct {
			texts = append(texts, o.Text)
		}
	}
	return strings.Join(texts, " / ")
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave this game?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Coins from this play won't be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep playing"))
	return b.String()
}
