package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Reward kinds that carry an amount rather than counting as a badge.
const (
	RewardCoins = "coins"
	RewardXP    = "xp"
)

// BadgeKinds lists the reward kinds counted as badges.
var BadgeKinds = []string{"streak", "perfect", "completion"}

func badgeKinds() []any {
	out := make([]any, len(BadgeKinds))
	for i, k := range BadgeKinds {
		out[i] = k
	}
	return out
}

func (r *eventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	return r.insert(ctx, "reward_events",
		[]string{"session_id", "game_id", "kind", "rarity", "amount", "reason"},
		[]any{data.SessionID, data.GameID, data.Kind, data.Rarity, data.Amount, data.Reason},
	)
}

func (r *eventRepo) QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	sel := builder().Select(
		"id", "session_id", "game_id", "kind", "rarity", "amount", "reason", "sequence", "timestamp",
	).From(entsql.Table("reward_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var records []RewardEventRecord
	for rows.Next() {
		var (
			rec RewardEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.GameID, &rec.Kind, &rec.Rarity,
			&rec.Amount, &rec.Reason, &rec.Sequence, &ts); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reward events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) RewardTotals(ctx context.Context) (RewardTotals, error) {
	query, args := builder().Select("kind", entsql.Sum("amount"), entsql.Count("*")).
		From(entsql.Table("reward_events")).
		GroupBy("kind").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return RewardTotals{}, fmt.Errorf("query reward totals: %w", err)
	}
	defer rows.Close()

	totals := RewardTotals{Badges: make(map[string]int)}
	for rows.Next() {
		var (
			kind  string
			sum   sql.NullInt64
			count int
		)
		if err := rows.Scan(&kind, &sum, &count); err != nil {
			return RewardTotals{}, fmt.Errorf("scan reward totals: %w", err)
		}
		switch kind {
		case RewardCoins:
			totals.Coins = int(sum.Int64)
		case RewardXP:
			totals.XP = int(sum.Int64)
		default:
			totals.Badges[kind] = count
		}
	}
	if err := rows.Err(); err != nil {
		return RewardTotals{}, fmt.Errorf("iterate reward totals: %w", err)
	}
	return totals, nil
}
