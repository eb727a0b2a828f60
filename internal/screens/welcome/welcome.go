// Package welcome is the splash shown at launch: the catalog's topics
// pop in one per beat, then the banner and a summary of what there is
// to play. Any key moves on to home.
package welcome

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/ui/theme"
)

const (
	beat = 120 * time.Millisecond

	// bannerDelay is the pause, in beats, between the last topic and the
	// banner.
	bannerDelay = 3
)

var topicIcons = map[string]string{
	"ai-literacy":    "🤖",
	"sustainability": "🌱",
	"health":         "🍎",
	"values":         "💛",
	"civic":          "🏛️",
}

var tileColors = []color.Color{theme.Primary, theme.Secondary, theme.Accent, theme.ArcadeCyan, theme.ArcadeYellow}

var sparkleMarks = []string{"★", "✦", "·"}

type tickMsg struct{}

// Splash is what the welcome screen advertises.
type Splash struct {
	Topics []string // topic slugs in display order
	Games  int
}

// SplashOf summarizes c. A nil catalog gives an empty splash.
func SplashOf(c *catalog.Catalog) Splash {
	if c == nil {
		return Splash{}
	}
	return Splash{Topics: c.Topics(), Games: c.Len()}
}

// WelcomeScreen never moves on by itself; it waits for a key.
type WelcomeScreen struct {
	splash Splash
	next   func() screen.Screen
	beats  int
	done   bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New builds the splash. next is called once, on the first key press.
func New(splash Splash, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{splash: splash, next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(beat, func(time.Time) tea.Msg { return tickMsg{} })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if w.done {
		return w, nil
	}
	switch msg.(type) {
	case tickMsg:
		w.beats++
		return w, tick()
	case tea.KeyPressMsg:
		w.done = true
		home := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
	}
	return w, nil
}

func (w *WelcomeScreen) revealed() int {
	return min(w.beats, len(w.splash.Topics))
}

func (w *WelcomeScreen) bannerShown() bool {
	return w.beats >= len(w.splash.Topics)+bannerDelay
}

func (w *WelcomeScreen) View(width, height int) string {
	var rows []string
	if w.bannerShown() {
		rows = append(rows, Banner(width, theme.Primary), w.sparkles(), "")
	}
	if tiles := w.tiles(width); tiles != "" {
		rows = append(rows, tiles, "")
	}
	if w.bannerShown() {
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Learn, play and grow!"))
		if w.splash.Games > 0 {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.summary()))
		}
		rows = append(rows, "", lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to start"))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(rows, "\n"))
}

// tiles renders the revealed topics side by side, or as a list when the
// row would not fit.
func (w *WelcomeScreen) tiles(width int) string {
	n := w.revealed()
	if n == 0 {
		return ""
	}

	boxes := make([]string, n)
	lines := make([]string, n)
	for i, topic := range w.splash.Topics[:n] {
		label := topicIcon(topic) + " " + catalog.TopicTitle(topic)
		fg := tileColors[i%len(tileColors)]
		boxes[i] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(fg).
			Foreground(fg).
			Padding(0, 1).
			Render(label)
		lines[i] = lipgloss.NewStyle().Foreground(fg).Render(label)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, boxes...)
	if lipgloss.Width(row) > width {
		return strings.Join(lines, "\n")
	}
	return row
}

func (w *WelcomeScreen) sparkles() string {
	marks := make([]string, 9)
	for i := range marks {
		marks[i] = sparkleMarks[(i+w.beats)%len(sparkleMarks)]
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Join(marks, " "))
}

func (w *WelcomeScreen) summary() string {
	return fmt.Sprintf("%s in %s", plural(w.splash.Games, "game"), plural(len(w.splash.Topics), "topic"))
}

func topicIcon(topic string) string {
	if icon, ok := topicIcons[topic]; ok {
		return icon
	}
	return "★"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
