package game

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/feedback"
	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/router"
	"github.com/abhisek/quizling/internal/screen"
	"github.com/abhisek/quizling/internal/session"
	"github.com/abhisek/quizling/internal/store"
	"github.com/abhisek/quizling/internal/ui/components"
	"github.com/abhisek/quizling/internal/ui/layout"
)

const (
	countdownInterval = 250 * time.Millisecond
	animInterval      = 100 * time.Millisecond
)

// GameScreen plays one game: it shows each question, takes one answer per
// question, shows feedback for the game's delay and hands the finished play
// to the results screen.
type GameScreen struct {
	deps    Deps
	game    *catalog.Game
	session *session.Session
	tracker *feedback.Tracker
	choices components.MultiChoice

	last  *session.AnswerResult // feedback being shown
	badge *rewards.Award        // streak badge earned by the last answer

	walletXP       int
	confirmQuit    bool
	pendingAdvance bool // delay ended while the quit dialog was up
	finished       bool
	animating      bool
	frame          int
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)
var _ screen.StatusProvider = (*GameScreen)(nil)
var _ screen.EscHandler = (*GameScreen)(nil)

// New creates a play of g. override supplies reward parameters handed over
// by the launching screen; the game's own catalog rewards take precedence.
func New(deps Deps, g *catalog.Game, override catalog.Rewards) *GameScreen {
	deps = deps.WithDefaults()

	wallet, err := deps.Rewards.Wallet(context.Background())
	if err != nil {
		deps.Logger.Warn("load wallet", zap.Error(err))
	}

	cfg := deps.Feedback
	cfg.InitialCoins = wallet.Coins

	s := &GameScreen{
		deps:     deps,
		game:     g,
		session:  session.New(g, catalog.ResolveRewards(g, override, deps.Logger)),
		tracker:  feedback.NewTracker(cfg),
		walletXP: wallet.XP,
	}
	s.resetChoices()
	return s
}

// Init starts the play. When the screen comes back after a finished play
// (Try again), it resets into a fresh play instead.
func (s *GameScreen) Init() tea.Cmd {
	now := s.deps.Now()
	if s.session.Phase == session.PhaseReady {
		s.session.Start(now)
	} else {
		s.session.Reset(now)
		s.tracker.ResetFeedback()
	}
	s.finished = false
	s.confirmQuit = false
	s.pendingAdvance = false
	s.animating = false
	s.frame = 0
	s.last = nil
	s.badge = nil
	s.resetChoices()
	s.deps.Rewards.ResetSession()

	s.persistSession(store.SessionEventData{
		SessionID:      s.session.ID,
		GameID:         s.game.ID,
		Action:         "start",
		QuestionsTotal: s.game.Total(),
	})
	s.deps.Logger.Debug("game started", zap.String("game", s.game.ID), zap.String("session", s.session.ID))

	return s.countdownCmd()
}

func (s *GameScreen) Title() string {
	return s.game.Title
}

// HandlesEsc reports that Esc opens the quit dialog instead of popping.
func (s *GameScreen) HandlesEsc() bool {
	return true
}

// Status returns the live coin total: the wallet plus coins earned so far.
func (s *GameScreen) Status() layout.Status {
	return layout.Status{Coins: s.tracker.TotalCoins, XP: s.walletXP}
}

// Session exposes the play state.
func (s *GameScreen) Session() *session.Session {
	return s.session
}

// Tracker exposes the feedback state.
func (s *GameScreen) Tracker() *feedback.Tracker {
	return s.tracker
}

func (s *GameScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave game"},
			{Key: "N", Description: "Keep playing"},
		}
	}
	if s.session.Phase == session.PhaseFeedback {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	n := len(s.choices.Choices)
	return []layout.KeyHint{
		{Key: "1-" + strconv.Itoa(n), Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Choose"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if s.stale(msg.sessionID, msg.index) {
			return s, nil
		}
		return s, s.advance()

	case countdownMsg:
		return s, s.handleCountdown(msg)

	case animMsg:
		s.frame++
		if s.tracker.Tick(s.deps.Now()) {
			return s, animTick()
		}
		s.animating = false
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *GameScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.finished {
		return nil
	}
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s.quit()
		case "n", "N", "esc":
			s.confirmQuit = false
			if s.pendingAdvance {
				s.pendingAdvance = false
				return s.advance()
			}
		}
		return nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return nil
	}

	switch s.session.Phase {
	case session.PhaseFeedback:
		// Any key skips the rest of the delay.
		return s.advance()

	case session.PhasePlaying:
		switch key {
		case "up", "k":
			s.choices.Up()
		case "down", "j":
			s.choices.Down()
		case "enter", "space":
			return s.answer(s.choices.Current())
		default:
			if n, err := strconv.Atoi(key); err == nil {
				if id, ok := s.choices.ByNumber(n); ok {
					return s.answer(id)
				}
			}
		}
	}
	return nil
}

// answer submits optionID for the current question. A second answer to the
// same question is ignored.
func (s *GameScreen) answer(optionID string) tea.Cmd {
	res, err := s.session.Answer(optionID, s.deps.Now())
	if err != nil {
		if !errors.Is(err, session.ErrAlreadyAnswered) {
			s.deps.Logger.Debug("answer ignored", zap.String("option", optionID), zap.Error(err))
		}
		return nil
	}
	return s.applyResult(res)
}

func (s *GameScreen) handleCountdown(msg countdownMsg) tea.Cmd {
	if s.stale(msg.sessionID, msg.index) || s.session.Phase != session.PhasePlaying {
		return nil
	}
	if res := s.session.Timeout(s.deps.Now()); res != nil {
		return s.applyResult(res)
	}
	return s.countdownCmd()
}

// applyResult shows feedback for an answer or timeout and schedules the
// advance after the game's delay.
func (s *GameScreen) applyResult(res *session.AnswerResult) tea.Cmd {
	ctx := context.Background()
	now := s.deps.Now()

	s.last = res
	s.choices.Reveal(res.Choice.OptionID)
	s.tracker.ShowCorrectAnswerFeedback(res.Coins, res.Choice.Correct, now)

	s.persistAnswer(ctx, res.Choice)
	s.badge = s.deps.Rewards.AwardStreak(ctx, res.Streak, s.session.ID, s.game.ID)

	id, index := s.session.ID, s.session.Index
	delay := tea.Tick(res.Delay, func(time.Time) tea.Msg {
		return advanceMsg{sessionID: id, index: index}
	})
	return tea.Batch(delay, s.startAnim())
}

// advance leaves the feedback phase: to the next question or, after the
// last one, to the results screen.
func (s *GameScreen) advance() tea.Cmd {
	if s.confirmQuit {
		s.pendingAdvance = true
		return nil
	}
	if !s.session.Advance(s.deps.Now()) {
		return nil
	}
	s.last = nil
	s.badge = nil
	if s.session.Finished() {
		return s.finish()
	}
	s.resetChoices()
	return s.countdownCmd()
}

// finish awards the play, records it and replaces this screen with the
// results.
func (s *GameScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	ctx := context.Background()
	now := s.deps.Now()

	result := session.BuildResult(s.session, now)
	s.deps.Rewards.AwardGame(ctx, result)
	s.persistEnd(result)
	SaveSnapshot(ctx, s.deps)

	s.deps.Logger.Info("game finished",
		zap.String("game", s.game.ID),
		zap.Int("score", result.Score),
		zap.Int("accuracy", result.Accuracy),
		zap.Bool("passed", result.Passed))

	// Streak badges from during the play are shown alongside the end awards.
	awards := append([]rewards.Award(nil), s.deps.Rewards.SessionAwards...)
	results := newResults(s, result, awards)
	return router.Cmd(router.ReplaceScreenMsg{Screen: results})
}

// quit ends the play early. Nothing is awarded; the partial play is
// recorded as not passed.
func (s *GameScreen) quit() tea.Cmd {
	s.finished = true
	s.confirmQuit = false
	result := session.BuildResult(s.session, s.deps.Now())
	s.persistEnd(result)
	SaveSnapshot(context.Background(), s.deps)
	return router.Cmd(router.PopScreenMsg{})
}

func (s *GameScreen) stale(sessionID string, index int) bool {
	return s.finished || sessionID != s.session.ID || index != s.session.Index
}

func (s *GameScreen) countdownCmd() tea.Cmd {
	if !s.game.Timed() {
		return nil
	}
	id, index := s.session.ID, s.session.Index
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg {
		return countdownMsg{sessionID: id, index: index}
	})
}

func (s *GameScreen) startAnim() tea.Cmd {
	if s.animating || !s.tracker.Active() {
		return nil
	}
	s.animating = true
	return animTick()
}

func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(time.Time) tea.Msg { return animMsg{} })
}

func (s *GameScreen) resetChoices() {
	q := s.session.Current()
	if q == nil {
		s.choices = components.NewMultiChoice(nil)
		return
	}
	choices := make([]components.Choice, len(q.Options))
	for i, o := range q.Options {
		choices[i] = components.Choice{ID: o.ID, Text: o.Text, Emoji: o.Emoji, Correct: o.Correct}
	}
	s.choices = components.NewMultiChoice(choices)
}

func (s *GameScreen) persistAnswer(ctx context.Context, c session.Choice) {
	if s.deps.EventRepo == nil {
		return
	}
	err := s.deps.EventRepo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:  s.session.ID,
		GameID:     s.game.ID,
		QuestionID: c.QuestionID,
		OptionID:   c.OptionID,
		Correct:    c.Correct,
		TimedOut:   c.TimedOut,
		TimeMs:     c.Elapsed.Milliseconds(),
	})
	if err != nil {
		s.deps.Logger.Warn("persist answer", zap.Error(err))
	}
}

func (s *GameScreen) persistEnd(r *session.Result) {
	s.persistSession(store.SessionEventData{
		SessionID:         r.SessionID,
		GameID:            r.GameID,
		Action:            "end",
		QuestionsTotal:    r.Total,
		QuestionsAnswered: r.Answered,
		Score:             r.Score,
		Coins:             r.Coins,
		XP:                r.XP,
		Accuracy:          r.Accuracy,
		Passed:            r.Passed,
		BestStreak:        r.BestStreak,
		DurationSecs:      int(r.Duration.Seconds()),
	})
}

func (s *GameScreen) persistSession(data store.SessionEventData) {
	if s.deps.EventRepo == nil {
		return
	}
	if err := s.deps.EventRepo.AppendSessionEvent(context.Background(), data); err != nil {
		s.deps.Logger.Warn("persist session event", zap.String("action", data.Action), zap.Error(err))
	}
}
