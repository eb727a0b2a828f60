package catalog

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind identifies how a game is played.
type Kind string

const (
	KindQuiz   Kind = "quiz"
	KindStory  Kind = "story"
	KindReflex Kind = "reflex"
)

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindQuiz:
		return "Quiz"
	case KindStory:
		return "Story"
	case KindReflex:
		return "Reflex"
	default:
		return string(k)
	}
}

// Feedback delay bounds and defaults.
const (
	DefaultCorrectDelay   = 800 * time.Millisecond
	DefaultIncorrectDelay = 1000 * time.Millisecond
	MinDelay              = 300 * time.Millisecond
	MaxDelay              = 1000 * time.Millisecond

	// DefaultMinAccuracy is the pass threshold when a game sets none.
	DefaultMinAccuracy = 70
)

// Option is one answer choice. Options never change after loading.
type Option struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	Emoji   string `yaml:"emoji,omitempty"`
	Correct bool   `yaml:"correct,omitempty"`
}

// Question is one prompt with its options in display order.
type Question struct {
	ID          string   `yaml:"id"`
	Text        string   `yaml:"text"`
	Emoji       string   `yaml:"emoji,omitempty"`
	Story       string   `yaml:"story,omitempty"`       // narration shown above the prompt in story games
	Explanation string   `yaml:"explanation,omitempty"` // shown after a wrong answer
	Options     []Option `yaml:"options"`
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOptions returns the ids of every option marked correct.
func (q *Question) CorrectOptions() []string {
	var ids []string
	for _, o := range q.Options {
		if o.Correct {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Pass is the threshold a finished play must reach. MinScore wins when set.
type Pass struct {
	MinScore    int `yaml:"min_score,omitempty"`
	MinAccuracy int `yaml:"min_accuracy,omitempty"`
}

// Scoring controls what a correct answer is worth.
type Scoring struct {
	PointsPerCorrect int `yaml:"points_per_correct,omitempty"`
	CoinsPerCorrect  int `yaml:"coins_per_correct,omitempty"`
}

// Rewards are the reward parameters of a game.
type Rewards struct {
	CoinsPerLevel int `yaml:"coins_per_level,omitempty"`
	TotalCoins    int `yaml:"total_coins,omitempty"`
	TotalXP       int `yaml:"total_xp,omitempty"`
}

// Delays are how long answer feedback stays up before advancing.
type Delays struct {
	Correct   Duration `yaml:"correct,omitempty"`
	Incorrect Duration `yaml:"incorrect,omitempty"`
}

// Game is one declarative mini-game.
type Game struct {
	ID            string     `yaml:"id"`
	Title         string     `yaml:"title"`
	Subtitle      string     `yaml:"subtitle,omitempty"`
	Topic         string     `yaml:"topic"`
	Kind          Kind       `yaml:"kind,omitempty"`
	MinAppVersion string     `yaml:"min_app_version,omitempty"`
	Pass          Pass       `yaml:"pass,omitempty"`
	Scoring       Scoring    `yaml:"scoring,omitempty"`
	Rewards       *Rewards   `yaml:"rewards,omitempty"`
	Delays        Delays     `yaml:"delays,omitempty"`
	TimeLimit     Duration   `yaml:"time_limit,omitempty"`
	Next          string     `yaml:"next,omitempty"`
	Back          string     `yaml:"back,omitempty"`
	Questions     []Question `yaml:"questions"`

	// Source is where the game was loaded from.
	Source string `yaml:"-"`
}

// Total returns the number of questions.
func (g *Game) Total() int {
	return len(g.Questions)
}

// Timed reports whether each question has a countdown.
func (g *Game) Timed() bool {
	return g.TimeLimit > 0
}

// PlayKind returns the kind, defaulting to quiz.
func (g *Game) PlayKind() Kind {
	if g.Kind == "" {
		return KindQuiz
	}
	return g.Kind
}

// PointsPerCorrect returns the score added by a correct answer.
func (g *Game) PointsPerCorrect() int {
	if g.Scoring.PointsPerCorrect > 0 {
		return g.Scoring.PointsPerCorrect
	}
	return 1
}

// CorrectDelay returns the feedback delay after a correct answer.
func (g *Game) CorrectDelay() time.Duration {
	return clampDelay(g.Delays.Correct.Std(), DefaultCorrectDelay)
}

// IncorrectDelay returns the feedback delay after a wrong or missed answer.
func (g *Game) IncorrectDelay() time.Duration {
	return clampDelay(g.Delays.Incorrect.Std(), DefaultIncorrectDelay)
}

// Passed reports whether a finished play meets the pass threshold.
func (g *Game) Passed(score, accuracy int) bool {
	if g.Pass.MinScore > 0 {
		return score >= g.Pass.MinScore
	}
	threshold := g.Pass.MinAccuracy
	if threshold == 0 {
		threshold = DefaultMinAccuracy
	}
	return accuracy >= threshold
}

// BackPath returns where the back action leads: "home" or a topic.
func (g *Game) BackPath() string {
	if g.Back == "" {
		return "home"
	}
	return g.Back
}

func clampDelay(d, def time.Duration) time.Duration {
	switch {
	case d <= 0:
		return def
	case d < MinDelay:
		return MinDelay
	case d > MaxDelay:
		return MaxDelay
	default:
		return d
	}
}

// Duration is a time.Duration written as "800ms" or "5s" in game files.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// IsZero lets omitempty drop unset durations.
func (d Duration) IsZero() bool {
	return d == 0
}
