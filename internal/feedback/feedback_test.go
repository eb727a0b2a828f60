package feedback

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewTracker_Defaults(t *testing.T) {
	tr := NewTracker(Config{InitialCoins: 7})
	if tr.TotalCoins != 7 {
		t.Errorf("total coins = %d, want 7", tr.TotalCoins)
	}
	if tr.cfg.FlashFor != DefaultConfig().FlashFor || tr.cfg.ConfettiFor != DefaultConfig().ConfettiFor {
		t.Errorf("durations not defaulted: %+v", tr.cfg)
	}
}

func TestCorrectAnswerFeedback(t *testing.T) {
	tr := NewTracker(Config{FlashFor: time.Second, ConfettiFor: 2 * time.Second})

	tr.ShowCorrectAnswerFeedback(3, true, t0)
	if tr.FlashPoints != 3 || !tr.ShowConfetti {
		t.Fatalf("flash=%d confetti=%v, want 3/true", tr.FlashPoints, tr.ShowConfetti)
	}
	if tr.TotalCoins != 3 {
		t.Errorf("total coins = %d, want 3", tr.TotalCoins)
	}

	if !tr.Tick(t0.Add(500 * time.Millisecond)) {
		t.Error("still animating at 500ms")
	}
	tr.Tick(t0.Add(time.Second))
	if tr.FlashPoints != 0 {
		t.Error("flash should expire after FlashFor")
	}
	if !tr.ShowConfetti {
		t.Error("confetti should outlast the flash")
	}
	if tr.Tick(t0.Add(2 * time.Second)) {
		t.Error("nothing should be animating after ConfettiFor")
	}
}

func TestIncorrectAnswerClears(t *testing.T) {
	tr := NewTracker(Config{InitialCoins: 10})
	tr.ShowCorrectAnswerFeedback(2, true, t0)
	tr.ShowCorrectAnswerFeedback(2, false, t0.Add(100*time.Millisecond))

	if tr.FlashPoints != 0 || tr.ShowConfetti {
		t.Errorf("incorrect answer left flash=%d confetti=%v", tr.FlashPoints, tr.ShowConfetti)
	}
	if tr.TotalCoins != 12 {
		t.Errorf("total coins = %d, want 12", tr.TotalCoins)
	}
}

func TestResetFeedbackKeepsCoins(t *testing.T) {
	tr := NewTracker(Config{})
	tr.ShowCorrectAnswerFeedback(5, true, t0)
	tr.ResetFeedback()

	if tr.Active() {
		t.Error("reset should clear transient state")
	}
	if tr.TotalCoins != 5 {
		t.Errorf("total coins = %d, want 5", tr.TotalCoins)
	}
}

func TestCelebrate(t *testing.T) {
	tr := NewTracker(Config{ConfettiFor: time.Second})
	tr.Celebrate(t0)

	if !tr.ShowConfetti || tr.FlashPoints != 0 {
		t.Errorf("celebrate: confetti=%v flash=%d", tr.ShowConfetti, tr.FlashPoints)
	}
	tr.Tick(t0.Add(time.Second))
	if tr.ShowConfetti {
		t.Error("celebration confetti should expire")
	}
}

func TestTrackersAreIndependent(t *testing.T) {
	a := NewTracker(Config{})
	b := NewTracker(Config{})
	a.ShowCorrectAnswerFeedback(4, true, t0)

	if b.TotalCoins != 0 || b.Active() {
		t.Error("trackers must not share state")
	}
}
