package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/screens/welcome"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/theme"
)

const arcadeTitleCompact = "Q · U · I · Z · L · I · N · G"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	title := welcome.Banner(cw, theme.ArcadeYellow)
	if compact {
		title = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(arcadeTitleCompact)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(title)
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st stats, cw int, compact bool) string {
	coinStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	passStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			coinStyle.Render(fmt.Sprintf("●%d", st.Coins)),
			xpStyle.Render(fmt.Sprintf("★%d", st.XP)),
			passStyle.Render(fmt.Sprintf("✓%d/%d", st.Passed, st.Total)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			coinStyle.Render(fmt.Sprintf("● %d COINS", st.Coins)),
			xpStyle.Render(fmt.Sprintf("★ %d XP", st.XP)),
			passStyle.Render(fmt.Sprintf("✓ %d/%d PASSED", st.Passed, st.Total)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderContinueNote names the game CONTINUE will start.
func renderContinueNote(title string, cw int) string {
	text := "Every game passed. Play any game again!"
	if title != "" {
		text = "Up next: " + title
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderMenu(labels []string, selected, cw int) string {
	return components.ArcadeButtons(labels, selected, cw)
}
