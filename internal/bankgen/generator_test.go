package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/llm"
)

func option(text string, correct bool) optionOutput {
	return optionOutput{Text: text, Correct: correct}
}

func oceanBank(n int) bankOutput {
	qs := []questionOutput{
		{Text: "Where should a plastic bottle go?", Emoji: "🧴", Explanation: "Plastic can be recycled into new things.",
			Options: []optionOutput{option("Recycling bin", true), option("The ocean", false), option("Under the bed", false)}},
		{Text: "What helps keep beaches clean?", Explanation: "Picking up litter protects sea animals.",
			Options: []optionOutput{option("Picking up litter", true), option("Leaving wrappers", false)}},
		{Text: "Which animal lives in the sea?", Emoji: "🐢",
			Options: []optionOutput{option("Sea turtle", true), option("Camel", false)}},
		{Text: "What should we do with the tap while brushing?", Emoji: "🚰",
			Options: []optionOutput{option("Turn it off", true), option("Leave it running", false)}},
		{Text: "Which bag is best for shopping?",
			Options: []optionOutput{option("A reusable bag", true), option("Ten plastic bags", false)}},
	}
	return bankOutput{Title: "Ocean Helpers", Subtitle: "Keep the sea sparkling", Questions: qs[:n]}
}

func mockWith(t *testing.T, b bankOutput) *llm.MockProvider {
	t.Helper()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	return llm.NewMockProvider(llm.MockResponse{Content: raw})
}

func TestGenerate_Quiz(t *testing.T) {
	mock := mockWith(t, oceanBank(5))
	gen := New(mock, DefaultConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "Sustainability", Next: "values-honest-sam"})
	require.NoError(t, err)

	g := res.Game
	assert.Equal(t, "sustainability-ocean-helpers", g.ID)
	assert.Equal(t, "Ocean Helpers", g.Title)
	assert.Equal(t, "sustainability", g.Topic)
	assert.Equal(t, catalog.KindQuiz, g.PlayKind())
	assert.Equal(t, 5, g.Total())
	assert.Equal(t, "values-honest-sam", g.Next)
	assert.Equal(t, "sustainability", g.BackPath())
	assert.Equal(t, []string{"a"}, g.Questions[0].CorrectOptions())
	assert.Equal(t, "q3", g.Questions[2].ID)
	assert.Equal(t, 10, g.Rewards.TotalXP)

	// The YAML is a loadable game file.
	parsed, err := catalog.Parse(res.YAML, "out.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, g.ID, parsed.ID)
	assert.Contains(t, string(res.YAML), "min_accuracy: 70")

	// The request carried the prompt, schema and purpose.
	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, "question-bank-5", call.Schema.Name)
	assert.NotNil(t, call.Check)
	assert.Contains(t, call.Messages[0].Content, "Number of questions: 5")
	assert.Contains(t, call.Messages[0].Content, "Topic: Sustainability")
}

func TestGenerate_ReflexSetsTimeLimit(t *testing.T) {
	mock := mockWith(t, oceanBank(3))
	gen := New(mock, DefaultConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "oceans", Count: 3, Kind: catalog.KindReflex, ID: "ocean-reflex"})
	require.NoError(t, err)

	assert.Equal(t, "ocean-reflex", res.Game.ID)
	assert.True(t, res.Game.Timed())
	assert.Equal(t, 8*time.Second, res.Game.TimeLimit.Std())
	assert.Contains(t, string(res.YAML), "time_limit: 8s")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "reflex game")
}

func TestGenerate_StoryKeepsNarration(t *testing.T) {
	b := oceanBank(3)
	b.Questions[0].Story = "Mia finds a bottle on the sand."
	gen := New(mockWith(t, b), DefaultConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "values", Title: "Mia at the Beach", Count: 3, Kind: catalog.KindStory})
	require.NoError(t, err)
	assert.Equal(t, "Mia at the Beach", res.Game.Title, "requested title wins")
	assert.Equal(t, "Mia finds a bottle on the sand.", res.Game.Questions[0].Story)
}

func TestGenerate_QuizDropsStory(t *testing.T) {
	b := oceanBank(3)
	b.Questions[0].Story = "ignored"
	gen := New(mockWith(t, b), DefaultConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "oceans", Count: 3})
	require.NoError(t, err)
	assert.Empty(t, res.Game.Questions[0].Story)
}

func TestGenerate_ValidatorRejects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(b *bankOutput)
		validator string // empty when the schema catches it
		question  int
	}{
		{"wrong count", func(b *bankOutput) { b.Questions = b.Questions[:4] }, "", 0},
		{"one option", func(b *bankOutput) { b.Questions[2].Options = b.Questions[2].Options[:1] }, "", 3},
		{"empty question", func(b *bankOutput) { b.Questions[1].Text = " " }, "structural", 2},
		{"two correct", func(b *bankOutput) { b.Questions[0].Options[1].Correct = true }, "answer-key", 1},
		{"no correct", func(b *bankOutput) { b.Questions[3].Options[0].Correct = false }, "answer-key", 4},
		{"repeated question", func(b *bankOutput) { b.Questions[4].Text = "which animal LIVES in the sea?" }, "duplicate", 5},
		{"repeated option", func(b *bankOutput) { b.Questions[1].Options[1].Text = "picking up  litter" }, "duplicate", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := oceanBank(5)
			tt.mutate(&b)
			gen := New(mockWith(t, b), DefaultConfig(), nil)

			_, err := gen.Generate(context.Background(), Request{Topic: "oceans"})
			var invalid *llm.ErrInvalidResponse
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.question, invalid.Question)

			var verr *ValidationError
			if tt.validator == "" {
				assert.False(t, errors.As(err, &verr), "schema failures never reach the validators")
				return
			}
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.validator, verr.Validator)
		})
	}
}

func TestGenerate_RejectedBankAskedAgainOnce(t *testing.T) {
	bad := oceanBank(5)
	bad.Questions[0].Options[1].Correct = true
	badRaw, err := json.Marshal(bad)
	require.NoError(t, err)
	goodRaw, err := json.Marshal(oceanBank(5))
	require.NoError(t, err)

	mock := llm.NewMockProvider(llm.MockResponse{Content: badRaw}, llm.MockResponse{Content: goodRaw})
	retry := llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}
	gen := New(llm.WithRetry(mock, retry), DefaultConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "oceans"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Game.Total())
	assert.Equal(t, 2, mock.CallCount())
}

// strictTitle rejects every bank and says asking again will not help.
type strictTitle struct{}

func (strictTitle) Name() string { return "strict-title" }

func (strictTitle) Validate(*bankOutput, Request) *ValidationError {
	return &ValidationError{Validator: "strict-title", Message: "title is reserved"}
}

func TestGenerate_PermanentRejectionNotRetried(t *testing.T) {
	raw, err := json.Marshal(oceanBank(5))
	require.NoError(t, err)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw}, llm.MockResponse{Content: raw})
	retry := llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}

	cfg := DefaultConfig()
	cfg.Validators = append(cfg.Validators, strictTitle{})
	gen := New(llm.WithRetry(mock, retry), cfg, nil)

	_, err = gen.Generate(context.Background(), Request{Topic: "oceans"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "strict-title", verr.Validator)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_SampleProvider(t *testing.T) {
	gen := New(llm.NewSampleProvider(), DefaultConfig(), nil)

	for _, count := range []int{MinQuestions, DefaultQuestions, MaxQuestions} {
		res, err := gen.Generate(context.Background(), Request{Topic: "general knowledge", Count: count})
		require.NoError(t, err, "count %d", count)
		assert.Equal(t, count, res.Game.Total())
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), Request{Topic: "oceans"})
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
}

func TestGenerate_BadJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"title": 3}`)})
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), Request{Topic: "oceans"})
	var invalid *llm.ErrInvalidResponse
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Contains(t, err.Error(), "question-bank-5")
}

func TestGenerate_IncompatibleAppVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AppVersion = "v1.0.0"
	gen := New(mockWith(t, oceanBank(5)), cfg, nil)

	// Generated games carry no min_app_version, so any version loads them.
	_, err := gen.Generate(context.Background(), Request{Topic: "oceans"})
	assert.NoError(t, err)
}

func TestRequestNormalize(t *testing.T) {
	r, err := Request{Topic: " civic "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "civic", r.Topic)
	assert.Equal(t, DefaultQuestions, r.Count)
	assert.Equal(t, catalog.KindQuiz, r.Kind)

	_, err = Request{}.Normalize()
	assert.Error(t, err)
	_, err = Request{Topic: "x", Count: MaxQuestions + 1}.Normalize()
	assert.Error(t, err)
	_, err = Request{Topic: "x", Count: 2}.Normalize()
	assert.Error(t, err)
	_, err = Request{Topic: "x", Kind: "puzzle"}.Normalize()
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"AI Literacy":               "ai-literacy",
		"  Eco -- Heroes! ":         "eco-heroes",
		"Health: The Healthy Plate": "health-the-healthy-plate",
		strings.Repeat("long ", 20): "long-long-long-long-long-long-long-long-long-lon",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}
