package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.insert(ctx, "game_sessions",
		[]string{
			"session_id", "game_id", "action", "questions_total", "questions_answered",
			"score", "coins", "xp", "accuracy", "passed", "best_streak", "duration_secs",
		},
		[]any{
			data.SessionID, data.GameID, data.Action, data.QuestionsTotal, data.QuestionsAnswered,
			data.Score, data.Coins, data.XP, data.Accuracy, data.Passed, data.BestStreak, data.DurationSecs,
		},
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.insert(ctx, "answer_events",
		[]string{"session_id", "game_id", "question_id", "option_id", "correct", "timed_out", "time_ms"},
		[]any{data.SessionID, data.GameID, data.QuestionID, data.OptionID, data.Correct, data.TimedOut, data.TimeMs},
	)
}

// QuerySessionSummaries returns finished plays, newest first, each with the
// number of badges it earned.
func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	badges := builder().Select("session_id", entsql.As(entsql.Count("*"), "badge_count")).
		From(entsql.Table("reward_events")).
		Where(entsql.In("kind", badgeKinds()...)).
		GroupBy("session_id").
		As("b")
	sessions := entsql.Table("game_sessions").As("s")

	sel := builder().Select(
		sessions.C("session_id"), "game_id", "timestamp", "questions_total", "questions_answered",
		"score", "coins", "xp", "accuracy", "passed", "best_streak", "duration_secs",
		"COALESCE(b.badge_count, 0)",
	).From(sessions).
		LeftJoin(badges).On(sessions.C("session_id"), badges.C("session_id")).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var (
			rec SessionSummaryRecord
			ts  int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.GameID, &ts, &rec.Total, &rec.Answered,
			&rec.Score, &rec.Coins, &rec.XP, &rec.Accuracy, &rec.Passed, &rec.BestStreak, &rec.DurationSecs,
			&rec.BadgeCount); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}
	return records, nil
}

func (r *eventRepo) BestResults(ctx context.Context) (map[string]GameResultRecord, error) {
	query, args := builder().Select(
		"game_id", entsql.Max("score"), entsql.Max("passed"), entsql.Count("*"),
	).From(entsql.Table("game_sessions")).
		Where(entsql.EQ("action", "end")).
		GroupBy("game_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query best results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]GameResultRecord)
	for rows.Next() {
		var (
			rec    GameResultRecord
			passed int
		)
		if err := rows.Scan(&rec.GameID, &rec.BestScore, &passed, &rec.Plays); err != nil {
			return nil, fmt.Errorf("scan best result: %w", err)
		}
		rec.Passed = passed != 0
		results[rec.GameID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate best results: %w", err)
	}
	return results, nil
}

// applyOpts adds the QueryOpts filters to a selector over an event table.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.GameID != "" {
		sel.Where(entsql.EQ("game_id", opts.GameID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
