package session

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizling/internal/catalog"
)

// Phase is where a play is in its lifecycle.
type Phase int

const (
	PhaseReady    Phase = iota // Created, not started
	PhasePlaying               // Waiting for an answer
	PhaseFeedback              // Current question answered, waiting to advance
	PhaseFinished              // Last question answered and advanced past
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseFeedback:
		return "feedback"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	ErrNotPlaying      = errors.New("session is not accepting answers")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrUnknownOption   = errors.New("unknown option")
)

// Choice records what happened on one question.
type Choice struct {
	QuestionID string
	OptionID   string // empty when the question timed out
	Correct    bool
	TimedOut   bool
	Elapsed    time.Duration
}

// AnswerResult describes the outcome of one answer or timeout.
type AnswerResult struct {
	Choice  Choice
	Points  int // score added
	Coins   int // coins added
	Streak  int // streak after this answer
	Delay   time.Duration
	Last    bool     // this was the final question
	Correct []string // ids of the correct options, for feedback
}

// Session is the state of one play of a game. It is created fresh for
// each play and mutated only through its methods.
type Session struct {
	ID      string
	Game    *catalog.Game
	Rewards catalog.Rewards

	Index    int
	Score    int
	Coins    int
	Choices  []Choice
	Answered bool
	Phase    Phase

	Streak     int
	BestStreak int

	StartedAt         time.Time
	QuestionStartedAt time.Time
	Deadline          time.Time // zero for untimed games
}

// New creates a play of g with resolved reward parameters.
func New(g *catalog.Game, rewards catalog.Rewards) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Game:    g,
		Rewards: rewards,
		Phase:   PhaseReady,
	}
}

// Start moves a ready session to playing and arms the first deadline.
func (s *Session) Start(now time.Time) {
	if s.Phase != PhaseReady {
		return
	}
	s.StartedAt = now
	s.Phase = PhasePlaying
	s.beginQuestion(now)
}

// Current returns the question being shown, or nil once finished.
func (s *Session) Current() *catalog.Question {
	if s.Phase == PhaseFinished || s.Index >= len(s.Game.Questions) {
		return nil
	}
	return &s.Game.Questions[s.Index]
}

// Answer records the learner's pick for the current question. A question
// accepts exactly one answer; later calls return ErrAlreadyAnswered.
func (s *Session) Answer(optionID string, now time.Time) (*AnswerResult, error) {
	switch s.Phase {
	case PhasePlaying:
	case PhaseFeedback:
		return nil, ErrAlreadyAnswered
	default:
		return nil, ErrNotPlaying
	}

	q := s.Current()
	opt, ok := q.Option(optionID)
	if !ok {
		return nil, ErrUnknownOption
	}

	choice := Choice{
		QuestionID: q.ID,
		OptionID:   opt.ID,
		Correct:    opt.Correct,
		Elapsed:    now.Sub(s.QuestionStartedAt),
	}
	return s.record(choice), nil
}

// Timeout records a no-credit miss when the current question's deadline has
// passed. It returns nil for untimed games or when nothing is pending.
func (s *Session) Timeout(now time.Time) *AnswerResult {
	if !s.Game.Timed() || s.Phase != PhasePlaying || s.Answered {
		return nil
	}
	if now.Before(s.Deadline) {
		return nil
	}
	q := s.Current()
	return s.record(Choice{
		QuestionID: q.ID,
		TimedOut:   true,
		Elapsed:    now.Sub(s.QuestionStartedAt),
	})
}

func (s *Session) record(c Choice) *AnswerResult {
	res := &AnswerResult{
		Choice:  c,
		Last:    s.Index == len(s.Game.Questions)-1,
		Correct: s.Current().CorrectOptions(),
	}

	if c.Correct {
		res.Points = s.Game.PointsPerCorrect()
		res.Coins = s.Game.CoinsPerCorrect(s.Rewards)
		s.Score += res.Points
		s.Coins += res.Coins
		s.Streak++
		if s.Streak > s.BestStreak {
			s.BestStreak = s.Streak
		}
		res.Delay = s.Game.CorrectDelay()
	} else {
		s.Streak = 0
		res.Delay = s.Game.IncorrectDelay()
	}
	res.Streak = s.Streak

	s.Choices = append(s.Choices, c)
	s.Answered = true
	s.Phase = PhaseFeedback
	return res
}

// Advance moves past an answered question: to the next one, or to finished
// after the last. It returns false and changes nothing when the current
// question has not been answered.
func (s *Session) Advance(now time.Time) bool {
	if s.Phase != PhaseFeedback || !s.Answered {
		return false
	}
	if s.Index >= len(s.Game.Questions)-1 {
		s.Phase = PhaseFinished
		s.Deadline = time.Time{}
		return true
	}
	s.Index++
	s.Phase = PhasePlaying
	s.beginQuestion(now)
	return true
}

// Reset starts the game over as a new play with a fresh id.
func (s *Session) Reset(now time.Time) {
	s.ID = uuid.New().String()
	s.Index = 0
	s.Score = 0
	s.Coins = 0
	s.Choices = nil
	s.Streak = 0
	s.BestStreak = 0
	s.StartedAt = now
	s.Phase = PhasePlaying
	s.beginQuestion(now)
}

func (s *Session) beginQuestion(now time.Time) {
	s.Answered = false
	s.QuestionStartedAt = now
	if s.Game.Timed() {
		s.Deadline = now.Add(s.Game.TimeLimit.Std())
	} else {
		s.Deadline = time.Time{}
	}
}

// Remaining returns the countdown for the current question. It is zero for
// untimed games and once the question is answered.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Deadline.IsZero() || s.Phase != PhasePlaying {
		return 0
	}
	if d := s.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Finished reports whether every question has been played.
func (s *Session) Finished() bool {
	return s.Phase == PhaseFinished
}

// Progress returns the fraction of questions answered, 0.0-1.0.
func (s *Session) Progress() float64 {
	total := len(s.Game.Questions)
	if total == 0 {
		return 0
	}
	return float64(len(s.Choices)) / float64(total)
}

// CorrectCount returns the number of correctly answered questions.
func (s *Session) CorrectCount() int {
	n := 0
	for _, c := range s.Choices {
		if c.Correct {
			n++
		}
	}
	return n
}

// Result is the outcome of a play, shown on the results screen.
type Result struct {
	SessionID  string
	GameID     string
	Score      int
	Correct    int
	Answered   int
	Total      int
	Accuracy   int // percent, rounded
	Coins      int
	XP         int
	Passed     bool
	BestStreak int
	Duration   time.Duration
	Next       string
}

// Perfect reports whether every question was answered correctly.
func (r *Result) Perfect() bool {
	return r.Total > 0 && r.Correct == r.Total
}

// BuildResult summarizes the play. XP is only granted when the play passes.
func BuildResult(s *Session, now time.Time) *Result {
	total := len(s.Game.Questions)
	correct := s.CorrectCount()

	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(float64(correct) / float64(total) * 100))
	}

	passed := s.Finished() && s.Game.Passed(s.Score, accuracy)
	xp := 0
	if passed {
		xp = s.Rewards.TotalXP
	}

	var duration time.Duration
	if !s.StartedAt.IsZero() {
		duration = now.Sub(s.StartedAt)
	}

	return &Result{
		SessionID:  s.ID,
		GameID:     s.Game.ID,
		Score:      s.Score,
		Correct:    correct,
		Answered:   len(s.Choices),
		Total:      total,
		Accuracy:   accuracy,
		Coins:      s.Coins,
		XP:         xp,
		Passed:     passed,
		BestStreak: s.BestStreak,
		Duration:   duration,
		Next:       s.Game.Next,
	}
}
