package welcome

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗██╗     ██╗███╗   ██╗ ██████╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██║     ██║████╗  ██║██╔════╝
 ██║   ██║██║   ██║██║  ███╔╝ ██║     ██║██╔██╗ ██║██║  ███╗
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██║     ██║██║╚██╗██║██║   ██║
 ╚██████╔╝╚██████╔╝██║███████╗███████╗██║██║ ╚████║╚██████╔╝
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝╚═╝╚═╝  ╚═══╝ ╚═════╝`

const bannerCompact = "Q U I Z L I N G"

// BannerWidth is the column width of the full banner.
const BannerWidth = 60

// Banner renders the QUIZLING title in fg, falling back to spaced
// letters when width cannot hold the art.
func Banner(width int, fg color.Color) string {
	style := lipgloss.NewStyle().Foreground(fg).Bold(true)
	if width < BannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
