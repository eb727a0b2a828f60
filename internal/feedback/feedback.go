// Package feedback tracks the transient reactions to an answer: the
// "+N" point flash, answer confetti and the running coin total shown in
// the game header.
package feedback

import "time"

// Config configures a Tracker. There is no package-level state; every
// screen owns its own Tracker.
type Config struct {
	FlashFor     time.Duration // how long "+N" stays visible
	ConfettiFor  time.Duration // how long answer confetti runs
	InitialCoins int           // coin total carried in from earlier plays
}

// DefaultConfig returns the durations used when none are configured.
func DefaultConfig() Config {
	return Config{
		FlashFor:    900 * time.Millisecond,
		ConfettiFor: 1500 * time.Millisecond,
	}
}

// Tracker holds the feedback state for one game screen.
type Tracker struct {
	cfg Config

	FlashPoints  int
	ShowConfetti bool
	TotalCoins   int

	flashUntil    time.Time
	confettiUntil time.Time
}

// NewTracker creates a Tracker. Zero durations fall back to DefaultConfig.
func NewTracker(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.FlashFor <= 0 {
		cfg.FlashFor = def.FlashFor
	}
	if cfg.ConfettiFor <= 0 {
		cfg.ConfettiFor = def.ConfettiFor
	}
	return &Tracker{cfg: cfg, TotalCoins: cfg.InitialCoins}
}

// ShowCorrectAnswerFeedback reacts to an answer. A correct answer flashes
// "+points", starts confetti and adds points to the coin total; a wrong one
// clears both.
func (t *Tracker) ShowCorrectAnswerFeedback(points int, isCorrect bool, now time.Time) {
	if !isCorrect {
		t.clear()
		return
	}
	t.FlashPoints = points
	t.ShowConfetti = true
	t.TotalCoins += points
	t.flashUntil = now.Add(t.cfg.FlashFor)
	t.confettiUntil = now.Add(t.cfg.ConfettiFor)
}

// Celebrate runs confetti without a point flash, for the success screen.
func (t *Tracker) Celebrate(now time.Time) {
	t.ShowConfetti = true
	t.confettiUntil = now.Add(t.cfg.ConfettiFor)
}

// Tick expires the flash and confetti once their time is up. It reports
// whether anything is still animating.
func (t *Tracker) Tick(now time.Time) bool {
	if t.FlashPoints != 0 && !now.Before(t.flashUntil) {
		t.FlashPoints = 0
	}
	if t.ShowConfetti && !now.Before(t.confettiUntil) {
		t.ShowConfetti = false
	}
	return t.Active()
}

// Active reports whether a flash or confetti is showing.
func (t *Tracker) Active() bool {
	return t.FlashPoints != 0 || t.ShowConfetti
}

// ResetFeedback clears the transient state. The coin total is kept.
func (t *Tracker) ResetFeedback() {
	t.clear()
}

func (t *Tracker) clear() {
	t.FlashPoints = 0
	t.ShowConfetti = false
	t.flashUntil = time.Time{}
	t.confettiUntil = time.Time{}
}
