package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/quizling/internal/catalog"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fiveQuestionGame has the correct option "a" in every question.
func fiveQuestionGame(pass catalog.Pass) *catalog.Game {
	g := &catalog.Game{
		ID:      "five",
		Title:   "Five",
		Topic:   "test",
		Pass:    pass,
		Rewards: &catalog.Rewards{CoinsPerLevel: 2, TotalCoins: 10, TotalXP: 25},
		Next:    "six",
	}
	for i := 1; i <= 5; i++ {
		g.Questions = append(g.Questions, catalog.Question{
			ID:   fmt.Sprintf("q%d", i),
			Text: fmt.Sprintf("Question %d", i),
			Options: []catalog.Option{
				{ID: "a", Text: "Right", Correct: true},
				{ID: "b", Text: "Wrong"},
				{ID: "c", Text: "Also wrong"},
			},
		})
	}
	return g
}

func startedSession(g *catalog.Game) *Session {
	s := New(g, catalog.ResolveRewards(g, catalog.Rewards{}, nil))
	s.Start(t0)
	return s
}

// play answers every question with picks[i], advancing after each.
func play(t *testing.T, s *Session, picks ...string) {
	t.Helper()
	now := t0
	for i, p := range picks {
		now = now.Add(time.Second)
		if _, err := s.Answer(p, now); err != nil {
			t.Fatalf("answer %d (%s): %v", i, p, err)
		}
		if !s.Advance(now) {
			t.Fatalf("advance %d failed", i)
		}
	}
}

func TestNew_Ready(t *testing.T) {
	s := New(fiveQuestionGame(catalog.Pass{}), catalog.Rewards{})
	if s.Phase != PhaseReady {
		t.Errorf("phase = %v, want ready", s.Phase)
	}
	if s.ID == "" {
		t.Error("expected a session id")
	}
	if _, err := s.Answer("a", t0); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("answer before start: err = %v, want ErrNotPlaying", err)
	}
}

func TestOnlyCorrectOptionsScore(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{})
	for _, opt := range g.Questions[0].Options {
		s := startedSession(g)
		res, err := s.Answer(opt.ID, t0.Add(time.Second))
		if err != nil {
			t.Fatalf("answer %s: %v", opt.ID, err)
		}
		wantScore := 0
		if opt.Correct {
			wantScore = 1
		}
		if s.Score != wantScore {
			t.Errorf("option %s: score = %d, want %d", opt.ID, s.Score, wantScore)
		}
		if res.Choice.Correct != opt.Correct {
			t.Errorf("option %s: choice.Correct = %v", opt.ID, res.Choice.Correct)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	prev := 0
	now := t0
	for _, p := range []string{"a", "b", "a", "c", "a"} {
		now = now.Add(time.Second)
		if _, err := s.Answer(p, now); err != nil {
			t.Fatalf("answer: %v", err)
		}
		if s.Score < prev {
			t.Fatalf("score decreased from %d to %d", prev, s.Score)
		}
		prev = s.Score
		s.Advance(now)
	}
	if s.Score != 3 {
		t.Errorf("score = %d, want 3", s.Score)
	}
}

func TestIndexAdvancesOncePerAnswer(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{})
	s := startedSession(g)

	if s.Advance(t0) {
		t.Fatal("advance without an answer must fail")
	}
	if s.Index != 0 {
		t.Fatalf("index = %d after refused advance", s.Index)
	}

	for i := 0; i < len(g.Questions); i++ {
		if s.Index != i {
			t.Fatalf("index = %d, want %d", s.Index, i)
		}
		if s.Index > len(g.Questions)-1 {
			t.Fatalf("index %d out of range", s.Index)
		}
		if _, err := s.Answer("a", t0); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		s.Advance(t0)
		if s.Advance(t0) {
			t.Fatalf("second advance for question %d succeeded", i)
		}
	}

	if !s.Finished() {
		t.Errorf("phase = %v, want finished", s.Phase)
	}
	if s.Index != len(g.Questions)-1 {
		t.Errorf("final index = %d, want %d", s.Index, len(g.Questions)-1)
	}
	if s.Current() != nil {
		t.Error("Current() should be nil once finished")
	}
}

func TestDoubleSubmissionGuarded(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))

	if _, err := s.Answer("a", t0); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	_, err := s.Answer("a", t0)
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second answer err = %v, want ErrAlreadyAnswered", err)
	}
	if s.Score != 1 || s.Coins != 2 || len(s.Choices) != 1 {
		t.Errorf("double submit changed state: score=%d coins=%d choices=%d", s.Score, s.Coins, len(s.Choices))
	}
}

func TestUnknownOption(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	if _, err := s.Answer("z", t0); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
	if s.Answered || s.Phase != PhasePlaying {
		t.Error("unknown option must not consume the question")
	}
}

func TestAllCorrect_PassesWithCoins(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{MinScore: 3})
	s := startedSession(g)
	play(t, s, "a", "a", "a", "a", "a")

	r := BuildResult(s, t0.Add(10*time.Second))
	if r.Score != 5 {
		t.Errorf("score = %d, want 5", r.Score)
	}
	if !s.Finished() {
		t.Error("expected finished")
	}
	if !r.Passed {
		t.Error("expected pass")
	}
	if r.Coins != 5*2 {
		t.Errorf("coins = %d, want 5 x coins_per_level = 10", r.Coins)
	}
	if r.XP != 25 {
		t.Errorf("xp = %d, want 25", r.XP)
	}
	if r.Accuracy != 100 || !r.Perfect() {
		t.Errorf("accuracy = %d, perfect = %v", r.Accuracy, r.Perfect())
	}
	if r.BestStreak != 5 {
		t.Errorf("best streak = %d, want 5", r.BestStreak)
	}
	if r.Next != "six" {
		t.Errorf("next = %q, want six", r.Next)
	}
	if r.Duration != 10*time.Second {
		t.Errorf("duration = %v", r.Duration)
	}
}

func TestTwoOfFive_FailsAndResetRestores(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{MinScore: 3})
	s := startedSession(g)
	firstID := s.ID
	play(t, s, "a", "b", "a", "c", "b")

	r := BuildResult(s, t0.Add(time.Minute))
	if r.Score != 2 {
		t.Fatalf("score = %d, want 2", r.Score)
	}
	if r.Passed {
		t.Fatal("2/5 with min_score 3 must fail")
	}
	if r.XP != 0 {
		t.Errorf("xp = %d, want 0 on failure", r.XP)
	}
	if r.Accuracy != 40 {
		t.Errorf("accuracy = %d, want 40", r.Accuracy)
	}

	s.Reset(t0.Add(2 * time.Minute))
	if s.Score != 0 || s.Index != 0 || s.Coins != 0 || len(s.Choices) != 0 || s.Streak != 0 {
		t.Errorf("reset left state: score=%d index=%d coins=%d choices=%d streak=%d",
			s.Score, s.Index, s.Coins, len(s.Choices), s.Streak)
	}
	if s.Phase != PhasePlaying || s.Answered {
		t.Errorf("after reset phase = %v answered = %v", s.Phase, s.Answered)
	}
	if s.ID == firstID {
		t.Error("reset should start a new play id")
	}
	if _, err := s.Answer("a", t0.Add(2*time.Minute)); err != nil {
		t.Errorf("answer after reset: %v", err)
	}
}

func TestAccuracyThreshold(t *testing.T) {
	tests := []struct {
		picks []string
		pass  bool
	}{
		{[]string{"a", "a", "a", "a", "b"}, true},  // 80
		{[]string{"a", "a", "a", "b", "b"}, false}, // 60
	}
	for _, tt := range tests {
		s := startedSession(fiveQuestionGame(catalog.Pass{MinAccuracy: 70}))
		play(t, s, tt.picks...)
		if got := BuildResult(s, t0).Passed; got != tt.pass {
			t.Errorf("%v: passed = %v, want %v", tt.picks, got, tt.pass)
		}
	}
}

func TestUnfinishedPlayNeverPasses(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{MinScore: 1}))
	play(t, s, "a", "a")

	r := BuildResult(s, t0)
	if r.Passed {
		t.Error("an abandoned play must not pass")
	}
	if r.Answered != 2 || r.Total != 5 {
		t.Errorf("answered/total = %d/%d", r.Answered, r.Total)
	}
}

func TestStreak(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	var streaks []int
	now := t0
	for _, p := range []string{"a", "a", "b", "a", "a"} {
		res, err := s.Answer(p, now)
		if err != nil {
			t.Fatal(err)
		}
		streaks = append(streaks, res.Streak)
		s.Advance(now)
	}
	want := []int{1, 2, 0, 1, 2}
	for i := range want {
		if streaks[i] != want[i] {
			t.Errorf("streaks = %v, want %v", streaks, want)
			break
		}
	}
	if s.BestStreak != 2 {
		t.Errorf("best streak = %d, want 2", s.BestStreak)
	}
}

func TestFeedbackDelays(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{})
	g.Delays = catalog.Delays{
		Correct:   catalog.Duration(500 * time.Millisecond),
		Incorrect: catalog.Duration(900 * time.Millisecond),
	}
	s := startedSession(g)

	res, _ := s.Answer("a", t0)
	if res.Delay != 500*time.Millisecond {
		t.Errorf("correct delay = %v", res.Delay)
	}
	s.Advance(t0)
	res, _ = s.Answer("b", t0)
	if res.Delay != 900*time.Millisecond {
		t.Errorf("incorrect delay = %v", res.Delay)
	}
	if len(res.Correct) != 1 || res.Correct[0] != "a" {
		t.Errorf("correct options = %v, want [a]", res.Correct)
	}
}

func TestPointsAndCoinsOverride(t *testing.T) {
	g := fiveQuestionGame(catalog.Pass{})
	g.Scoring = catalog.Scoring{PointsPerCorrect: 10, CoinsPerCorrect: 3}
	s := startedSession(g)

	res, _ := s.Answer("a", t0)
	if res.Points != 10 || res.Coins != 3 {
		t.Errorf("points/coins = %d/%d, want 10/3", res.Points, res.Coins)
	}
	if s.Score != 10 || s.Coins != 3 {
		t.Errorf("score/coins = %d/%d", s.Score, s.Coins)
	}
}

func timedGame() *catalog.Game {
	g := fiveQuestionGame(catalog.Pass{})
	g.Kind = catalog.KindReflex
	g.TimeLimit = catalog.Duration(5 * time.Second)
	return g
}

func TestTimeout(t *testing.T) {
	s := startedSession(timedGame())

	if got := s.Remaining(t0.Add(2 * time.Second)); got != 3*time.Second {
		t.Errorf("remaining = %v, want 3s", got)
	}
	if res := s.Timeout(t0.Add(4 * time.Second)); res != nil {
		t.Fatal("timeout before deadline must be a no-op")
	}

	res := s.Timeout(t0.Add(5 * time.Second))
	if res == nil {
		t.Fatal("expected timeout result at deadline")
	}
	if !res.Choice.TimedOut || res.Choice.Correct || res.Points != 0 {
		t.Errorf("timeout choice = %+v", res.Choice)
	}
	if s.Phase != PhaseFeedback || s.Score != 0 {
		t.Errorf("after timeout phase=%v score=%d", s.Phase, s.Score)
	}
	if s.Remaining(t0.Add(5*time.Second)) != 0 {
		t.Error("remaining should be zero during feedback")
	}
	if _, err := s.Answer("a", t0.Add(5*time.Second)); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("late answer err = %v, want ErrAlreadyAnswered", err)
	}
	if s.Timeout(t0.Add(6*time.Second)) != nil {
		t.Error("second timeout must be a no-op")
	}

	// Advancing re-arms the deadline.
	s.Advance(t0.Add(6 * time.Second))
	if got := s.Remaining(t0.Add(6 * time.Second)); got != 5*time.Second {
		t.Errorf("re-armed remaining = %v, want 5s", got)
	}
}

func TestTimeoutUntimedGame(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	if s.Timeout(t0.Add(time.Hour)) != nil {
		t.Error("untimed games never time out")
	}
	if s.Remaining(t0) != 0 {
		t.Error("untimed games have no countdown")
	}
}

func TestAnswerAfterFinished(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	play(t, s, "a", "a", "a", "a", "a")

	if _, err := s.Answer("a", t0); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("err = %v, want ErrNotPlaying", err)
	}
	if s.Advance(t0) {
		t.Error("advance after finished must fail")
	}
}

func TestProgress(t *testing.T) {
	s := startedSession(fiveQuestionGame(catalog.Pass{}))
	if s.Progress() != 0 {
		t.Errorf("progress = %v, want 0", s.Progress())
	}
	play(t, s, "a", "b")
	if s.Progress() != 0.4 {
		t.Errorf("progress = %v, want 0.4", s.Progress())
	}
}
