package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/feedback"
	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/screens/game"
	"github.com/abhisek/quizling/internal/screens/home"
	"github.com/abhisek/quizling/internal/screens/welcome"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Catalog      *catalog.Catalog
	EventRepo    store.EventRepo
	SnapshotRepo store.SnapshotRepo
	Rewards      *rewards.Service
	Feedback     feedback.Config
	Logger       *zap.Logger

	// StartGame opens this game directly, with home underneath it.
	StartGame string
}

func (o Options) deps() game.Deps {
	return game.Deps{
		Catalog:   o.Catalog,
		EventRepo: o.EventRepo,
		SnapRepo:  o.SnapshotRepo,
		Rewards:   o.Rewards,
		Feedback:  o.Feedback,
		Logger:    o.Logger,
	}.WithDefaults()
}

// statusLoadedMsg carries the wallet totals shown in the header.
type statusLoadedMsg struct {
	status layout.Status
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   game.Deps
	status layout.Status
	start  tea.Cmd
	width  int
	height int
}

// newAppModel creates the root model. With no start game it opens on the
// welcome screen, which hands over to home.
func newAppModel(opts Options) (AppModel, error) {
	deps := opts.deps()
	m := AppModel{deps: deps}

	if opts.StartGame == "" {
		m.router = router.New(welcome.New(welcome.SplashOf(deps.Catalog), func() screen.Screen { return home.New(deps) }))
		return m, nil
	}

	if deps.Catalog == nil {
		return m, fmt.Errorf("no catalog loaded")
	}
	g, ok := deps.Catalog.Lookup(opts.StartGame)
	if !ok {
		return m, fmt.Errorf("unknown game %q", opts.StartGame)
	}
	m.router = router.New(home.New(deps))
	m.start = router.Cmd(router.PushScreenMsg{Screen: game.New(deps, g, catalog.Rewards{})})
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.start, m.loadStatus())
}

// loadStatus reads the wallet for the header when the active screen does
// not report its own totals.
func (m AppModel) loadStatus() tea.Cmd {
	svc := m.deps.Rewards
	logger := m.deps.Logger
	return func() tea.Msg {
		w, err := svc.Wallet(context.Background())
		if err != nil {
			logger.Warn("load wallet", zap.Error(err))
		}
		return statusLoadedMsg{status: layout.Status{Coins: w.Coins, XP: w.XP}}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusLoadedMsg:
		m.status = msg.status
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Cmd(router.PopScreenMsg{})
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)

	switch msg.(type) {
	case router.PopScreenMsg, router.PopToRootMsg:
		// The screen underneath may show stale progress.
		var refresh tea.Cmd
		if r, ok := m.router.Active().(screen.Refresher); ok {
			refresh = r.Refresh()
		}
		return m, tea.Batch(cmd, refresh, m.loadStatus())
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	status := m.status
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.StatusProvider); ok {
			status = p.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	model, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
