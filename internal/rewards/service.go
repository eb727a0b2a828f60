package rewards

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/session"
	"github.com/abhisek/quizling/internal/store"
)

// Service computes awards and records them as reward events.
type Service struct {
	eventRepo store.EventRepo
	logger    *zap.Logger
	now       func() time.Time

	// nextStreak is the streak length that earns the next badge this play.
	nextStreak int

	// SessionAwards accumulates awards granted during the current play.
	SessionAwards []Award
}

// NewService creates a reward service. eventRepo may be nil, in which case
// awards are computed but not persisted.
func NewService(eventRepo store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		eventRepo:  eventRepo,
		logger:     logger,
		now:        time.Now,
		nextStreak: BaseStreakThreshold,
	}
}

// ResetSession clears the per-play accumulator. Called when a play starts.
func (s *Service) ResetSession() {
	s.SessionAwards = nil
	s.nextStreak = BaseStreakThreshold
}

// AwardStreak grants a streak badge when streak reaches the next milestone
// (5, 10, 15, 20, then every 5). It returns nil when no milestone is hit.
func (s *Service) AwardStreak(ctx context.Context, streak int, sessionID, gameID string) *Award {
	if streak < s.nextStreak {
		if streak < BaseStreakThreshold {
			// A broken streak starts counting from the first milestone again.
			s.nextStreak = BaseStreakThreshold
		}
		return nil
	}
	s.nextStreak = NextStreakThreshold(streak)

	award := &Award{
		Kind:      KindStreak,
		Rarity:    StreakRarity(streak),
		SessionID: sessionID,
		GameID:    gameID,
		Reason:    fmt.Sprintf("%d correct in a row!", streak),
		AwardedAt: s.now(),
	}
	s.grant(ctx, award)
	return award
}

// AwardGame grants the end-of-play awards for r: collected coins, XP for a
// passed play, a perfect badge for 100% and a completion badge rated by
// accuracy.
func (s *Service) AwardGame(ctx context.Context, r *session.Result) []Award {
	now := s.now()
	var awards []Award

	if r.Coins > 0 {
		awards = append(awards, Award{
			Kind:   KindCoins,
			Amount: r.Coins,
			Reason: fmt.Sprintf("%d coins collected", r.Coins),
		})
	}
	if r.Passed && r.XP > 0 {
		awards = append(awards, Award{
			Kind:   KindXP,
			Amount: r.XP,
			Reason: fmt.Sprintf("Passed with %d%%", r.Accuracy),
		})
	}
	if r.Perfect() {
		awards = append(awards, Award{
			Kind:   KindPerfect,
			Rarity: RarityLegendary,
			Reason: "Every answer correct!",
		})
	}
	if r.Passed {
		awards = append(awards, Award{
			Kind:   KindCompletion,
			Rarity: AccuracyRarity(r.Accuracy),
			Reason: fmt.Sprintf("Game complete (%d%% accuracy)", r.Accuracy),
		})
	}

	for i := range awards {
		awards[i].SessionID = r.SessionID
		awards[i].GameID = r.GameID
		awards[i].AwardedAt = now
		s.grant(ctx, &awards[i])
	}
	return awards
}

// Wallet is the learner's lifetime reward totals.
type Wallet struct {
	Coins  int
	XP     int
	Badges map[Kind]int
}

// BadgeCount returns the number of badges of every kind.
func (w Wallet) BadgeCount() int {
	n := 0
	for _, c := range w.Badges {
		n += c
	}
	return n
}

// Wallet returns lifetime totals from the event log.
func (s *Service) Wallet(ctx context.Context) (Wallet, error) {
	w := Wallet{Badges: make(map[Kind]int)}
	if s.eventRepo == nil {
		return w, nil
	}
	totals, err := s.eventRepo.RewardTotals(ctx)
	if err != nil {
		return w, fmt.Errorf("load reward totals: %w", err)
	}
	w.Coins = totals.Coins
	w.XP = totals.XP
	for kind, n := range totals.Badges {
		w.Badges[Kind(kind)] = n
	}
	return w, nil
}

// SnapshotData builds the wallet totals for snapshot persistence.
func (s *Service) SnapshotData(ctx context.Context) *store.WalletSnapshotData {
	w, err := s.Wallet(ctx)
	if err != nil {
		s.logger.Warn("wallet snapshot", zap.Error(err))
	}
	badges := make(map[string]int, len(w.Badges))
	for k, n := range w.Badges {
		badges[string(k)] = n
	}
	return &store.WalletSnapshotData{Coins: w.Coins, XP: w.XP, Badges: badges}
}

func (s *Service) grant(ctx context.Context, award *Award) {
	s.SessionAwards = append(s.SessionAwards, *award)
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendRewardEvent(ctx, store.RewardEventData{
		SessionID: award.SessionID,
		GameID:    award.GameID,
		Kind:      string(award.Kind),
		Rarity:    string(award.Rarity),
		Amount:    award.Amount,
		Reason:    award.Reason,
	})
	if err != nil {
		s.logger.Warn("persist reward", zap.String("kind", string(award.Kind)), zap.Error(err))
	}
}
