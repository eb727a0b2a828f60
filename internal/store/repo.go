package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	GameID string    // only events for this game
}

// SessionEventData records the start or end of one play of a game.
type SessionEventData struct {
	SessionID         string
	GameID            string
	Action            string // "start" or "end"
	QuestionsTotal    int
	QuestionsAnswered int
	Score             int
	Coins             int
	XP                int
	Accuracy          int
	Passed            bool
	BestStreak        int
	DurationSecs      int
}

// AnswerEventData records one answered (or timed out) question.
type AnswerEventData struct {
	SessionID  string
	GameID     string
	QuestionID string
	OptionID   string
	Correct    bool
	TimedOut   bool
	TimeMs     int64
}

// RewardEventData records one coin, XP or badge award.
type RewardEventData struct {
	SessionID string
	GameID    string
	Kind      string
	Rarity    string
	Amount    int
	Reason    string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionSummaryRecord is a finished play as shown in history.
type SessionSummaryRecord struct {
	SessionID    string
	GameID       string
	Timestamp    time.Time
	Total        int
	Answered     int
	Score        int
	Coins        int
	XP           int
	Accuracy     int
	Passed       bool
	BestStreak   int
	DurationSecs int
	BadgeCount   int
}

// RewardEventRecord is a stored reward event.
type RewardEventRecord struct {
	ID        int
	SessionID string
	GameID    string
	Kind      string
	Rarity    string
	Amount    int
	Reason    string
	Sequence  int64
	Timestamp time.Time
}

// RewardTotals aggregates every reward ever earned.
type RewardTotals struct {
	Coins  int
	XP     int
	Badges map[string]int // badge kind -> count
}

// BadgeCount returns the number of badges across all kinds.
func (t RewardTotals) BadgeCount() int {
	n := 0
	for _, c := range t.Badges {
		n += c
	}
	return n
}

// GameResultRecord is the best outcome of a game across all plays.
type GameResultRecord struct {
	GameID    string
	BestScore int
	Passed    bool
	Plays     int
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsageStats aggregates LLM usage by purpose or model.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// WalletSnapshotData holds reward totals.
type WalletSnapshotData struct {
	Coins  int            `json:"coins"`
	XP     int            `json:"xp"`
	Badges map[string]int `json:"badges,omitempty"`
}

// GameSnapshotData holds per-game progress.
type GameSnapshotData struct {
	BestScore int  `json:"best_score"`
	Passed    bool `json:"passed"`
	Plays     int  `json:"plays"`
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version int                         `json:"version"`
	Wallet  *WalletSnapshotData         `json:"wallet,omitempty"`
	Games   map[string]GameSnapshotData `json:"games,omitempty"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendRewardEvent(ctx context.Context, data RewardEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionSummaries returns finished plays, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// QueryRewardEvents returns reward events, newest first.
	QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error)

	// RewardTotals sums coins and XP and counts badges by kind.
	RewardTotals(ctx context.Context) (RewardTotals, error)

	// BestResults returns the best finished result per game.
	BestResults(ctx context.Context) (map[string]GameResultRecord, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}
