package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/feedback"
	"github.com/abhisek/quizling/internal/rewards"
	"github.com/abhisek/quizling/internal/store"
)

// SnapshotVersion is written into every learner snapshot.
const SnapshotVersion = 1

// snapshotsKept is how many snapshots survive a prune.
const snapshotsKept = 10

// Deps are the services a game screen needs. Any repo may be nil, in which
// case nothing is persisted.
type Deps struct {
	Catalog   *catalog.Catalog
	EventRepo store.EventRepo
	SnapRepo  store.SnapshotRepo
	Rewards   *rewards.Service
	Feedback  feedback.Config
	Logger    *zap.Logger

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// WithDefaults fills in a nop logger, the wall clock and a reward service.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rewards == nil {
		d.Rewards = rewards.NewService(d.EventRepo, d.Logger)
	}
	return d
}

// SaveSnapshot writes the learner's wallet and per-game bests as a new
// snapshot and prunes old ones. Failures are logged.
func SaveSnapshot(ctx context.Context, d Deps) {
	d = d.WithDefaults()
	if d.SnapRepo == nil {
		return
	}

	data := store.SnapshotData{
		Version: SnapshotVersion,
		Wallet:  d.Rewards.SnapshotData(ctx),
	}
	if d.EventRepo != nil {
		best, err := d.EventRepo.BestResults(ctx)
		if err != nil {
			d.Logger.Warn("load best results", zap.Error(err))
		}
		if len(best) > 0 {
			data.Games = make(map[string]store.GameSnapshotData, len(best))
			for id, r := range best {
				data.Games[id] = store.GameSnapshotData{BestScore: r.BestScore, Passed: r.Passed, Plays: r.Plays}
			}
		}
	}

	if err := d.SnapRepo.Save(ctx, &store.Snapshot{Timestamp: d.Now(), Data: data}); err != nil {
		d.Logger.Warn("save snapshot", zap.Error(err))
		return
	}
	if err := d.SnapRepo.Prune(ctx, snapshotsKept); err != nil {
		d.Logger.Warn("prune snapshots", zap.Error(err))
	}
}
