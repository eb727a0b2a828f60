package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/ui/theme"
)

var confettiGlyphs = []string{"✦", "•", "★", "◆", "✧", "▪"}

// Confetti renders one row of confetti width cells wide. frame shifts the
// pattern so consecutive frames appear to fall.
func Confetti(width, frame int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		// Sparse: roughly one glyph in three cells.
		k := (i*7 + frame*3) % 11
		if k > 3 {
			b.WriteString(" ")
			continue
		}
		glyph := confettiGlyphs[(i+frame)%len(confettiGlyphs)]
		c := theme.Confetti[(i+k+frame)%len(theme.Confetti)]
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(glyph))
	}
	return b.String()
}

// FlashPoints renders the "+N" flash shown after a correct answer.
func FlashPoints(points int) string {
	if points <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render("+" + strconv.Itoa(points))
}
