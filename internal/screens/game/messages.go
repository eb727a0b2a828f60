package game

// Every timer message carries the play and question it was scheduled for.
// A message whose play or question no longer matches is stale and dropped:
// this is how a skipped delay, a reset or a quit cancels pending timers.

// advanceMsg fires when the feedback delay after an answer ends.
type advanceMsg struct {
	sessionID string
	index     int
}

// countdownMsg polls the question deadline of a timed game.
type countdownMsg struct {
	sessionID string
	index     int
}

// animMsg drives the flash and confetti animation.
type animMsg struct{}

// resultsAnimMsg drives the confetti on the results screen.
type resultsAnimMsg struct{}
