// Package bankgen authors new game files with an LLM. The output is a
// regular game YAML that passes the same checks as hand-written games.
package bankgen

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/llm"
)

const (
	MinQuestions     = 3
	MaxQuestions     = 12
	DefaultQuestions = 5

	reflexTimeLimit = 8 * time.Second
)

// Request describes the game to generate.
type Request struct {
	Topic string       // e.g. "sustainability"
	Title string       // optional; the model picks one when empty
	Count int          // number of questions, DefaultQuestions when zero
	Kind  catalog.Kind // quiz when empty
	ID    string       // optional; derived from topic and title when empty
	Next  string       // optional follow-up game id
	Notes string       // optional free-form guidance for the model
}

// Result is a generated game and its YAML encoding.
type Result struct {
	Game *catalog.Game
	YAML []byte
}

// Generator turns requests into validated game files.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// bankOutput is the raw LLM response before conversion.
type bankOutput struct {
	Title     string           `json:"title"`
	Subtitle  string           `json:"subtitle"`
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Text        string         `json:"text"`
	Emoji       string         `json:"emoji"`
	Story       string         `json:"story"`
	Explanation string         `json:"explanation"`
	Options     []optionOutput `json:"options"`
}

type optionOutput struct {
	Text    string `json:"text"`
	Emoji   string `json:"emoji"`
	Correct bool   `json:"correct"`
}

// Normalize fills defaults and checks the request.
func (r Request) Normalize() (Request, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, fmt.Errorf("topic is required")
	}
	if r.Count == 0 {
		r.Count = DefaultQuestions
	}
	if r.Count < MinQuestions || r.Count > MaxQuestions {
		return r, fmt.Errorf("question count must be between %d and %d, got %d", MinQuestions, MaxQuestions, r.Count)
	}
	switch r.Kind {
	case "":
		r.Kind = catalog.KindQuiz
	case catalog.KindQuiz, catalog.KindStory, catalog.KindReflex:
	default:
		return r, fmt.Errorf("unknown game kind %q", r.Kind)
	}
	return r, nil
}

// Generate asks the provider for a bank and converts it into a game that
// passes the catalog's schema and semantic checks.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeBankGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      BankSchema(req.Count),
		Check:       func(content json.RawMessage) error { return g.check(content, req) },
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw bankOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	game := buildGame(&raw, req)
	out, err := yaml.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("encode game: %w", err)
	}

	// Parse the encoded file so the result is exactly what the catalog
	// will load.
	parsed, err := catalog.Parse(out, game.ID+".yaml", g.config.AppVersion)
	if err != nil {
		return nil, fmt.Errorf("generated game failed validation: %w", err)
	}

	g.logger.Info("generated game",
		zap.String("id", parsed.ID),
		zap.String("kind", string(parsed.PlayKind())),
		zap.Int("questions", parsed.Total()))
	return &Result{Game: parsed, YAML: out}, nil
}

// check runs the validator chain on one reply. The provider calls it
// before returning, so a rejected bank is asked for again once.
func (g *Generator) check(content json.RawMessage, req Request) error {
	var raw bankOutput
	if err := json.Unmarshal(content, &raw); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(&raw, req); verr != nil {
			g.logger.Warn("generated bank rejected",
				zap.String("validator", verr.Validator),
				zap.String("topic", req.Topic),
				zap.Int("question", verr.Question),
				zap.String("reason", verr.Message))
			return verr
		}
	}
	return nil
}

// buildGame assigns ids, scoring and rewards to the model's content.
func buildGame(raw *bankOutput, req Request) *catalog.Game {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(raw.Title)
	}

	id := req.ID
	if id == "" {
		id = Slug(req.Topic + "-" + title)
	}

	g := &catalog.Game{
		ID:       id,
		Title:    title,
		Subtitle: strings.TrimSpace(raw.Subtitle),
		Topic:    Slug(req.Topic),
		Kind:     req.Kind,
		Pass:     catalog.Pass{MinAccuracy: catalog.DefaultMinAccuracy},
		Rewards: &catalog.Rewards{
			CoinsPerLevel: catalog.DefaultCoinsPerLevel,
			TotalCoins:    len(raw.Questions) * catalog.DefaultCoinsPerLevel,
			TotalXP:       2 * len(raw.Questions),
		},
		Next: req.Next,
		Back: Slug(req.Topic),
	}
	if req.Kind == catalog.KindReflex {
		g.TimeLimit = catalog.Duration(reflexTimeLimit)
		g.Delays = catalog.Delays{
			Correct:   catalog.Duration(400 * time.Millisecond),
			Incorrect: catalog.Duration(600 * time.Millisecond),
		}
	}

	for i, q := range raw.Questions {
		question := catalog.Question{
			ID:          fmt.Sprintf("q%d", i+1),
			Text:        strings.TrimSpace(q.Text),
			Emoji:       strings.TrimSpace(q.Emoji),
			Explanation: strings.TrimSpace(q.Explanation),
		}
		if req.Kind == catalog.KindStory {
			question.Story = strings.TrimSpace(q.Story)
		}
		for j, o := range q.Options {
			question.Options = append(question.Options, catalog.Option{
				ID:      string(rune('a' + j)),
				Text:    strings.TrimSpace(o.Text),
				Emoji:   strings.TrimSpace(o.Emoji),
				Correct: o.Correct,
			})
		}
		g.Questions = append(g.Questions, question)
	}
	return g
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its words with dashes, matching the id
// pattern of game files.
func Slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	return s
}
