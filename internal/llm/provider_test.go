package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	first, second := SampleBank(3), SampleBank(4)
	mock := NewMockProvider(
		MockResponse{Content: first, Usage: Usage{InputTokens: 300, OutputTokens: 900}},
		MockResponse{Content: second},
	)

	resp, err := mock.Generate(context.Background(), Request{Schema: bankSchema(3)})
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 300, OutputTokens: 900, TotalTokens: 1200}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "mock", resp.Model)

	resp, err = mock.Generate(context.Background(), Request{Schema: bankSchema(4)})
	require.NoError(t, err)
	assert.JSONEq(t, string(second), string(resp.Content))
	assert.Equal(t, 2, mock.CallCount())
}

func TestMockProvider_ChecksReplies(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: SampleBank(3)})

	_, err := mock.Generate(context.Background(), Request{Schema: bankSchema(5)})
	var invalid *ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid), "a 3-question bank does not satisfy a 5-question schema")
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()

	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavailable))
	assert.Contains(t, err.Error(), "no response queued for call 1")
}

func TestMockProvider_QueuedErrorAndRecordedCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	mock.AddResponse(MockResponse{Content: SampleBank(3)})

	req := Request{System: "You write games for kids.", Messages: []Message{{Role: RoleUser, Content: "Topic: Oceans"}}}
	_, err := mock.Generate(context.Background(), req)
	assert.True(t, errors.As(err, new(*ErrRateLimit)))

	_, err = mock.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, mock.Calls, 2)
	assert.Equal(t, "Topic: Oceans", mock.Calls[1].Messages[0].Content)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestSampleProvider_SizesBankFromSchema(t *testing.T) {
	p := NewSampleProvider()

	for _, n := range []int{3, 8} {
		resp, err := p.Generate(context.Background(), Request{Schema: bankSchema(n)})
		require.NoError(t, err)

		var bank struct {
			Title     string `json:"title"`
			Questions []struct {
				Options []struct {
					Correct bool `json:"correct"`
				} `json:"options"`
			} `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(resp.Content, &bank))
		assert.NotEmpty(t, bank.Title)
		require.Len(t, bank.Questions, n)
		for i, q := range bank.Questions {
			correct := 0
			for _, o := range q.Options {
				if o.Correct {
					correct++
				}
			}
			assert.Equal(t, 1, correct, "question %d", i+1)
		}
	}

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, string(SampleBank(defaultSampleSize)), string(resp.Content))
}

func TestFinish(t *testing.T) {
	partial := json.RawMessage(`{"title":"Ocean`)

	_, err := finish(Request{}, reply{content: partial, stop: StopMaxTokens})
	var maxTok *ErrMaxTokensExceeded
	require.True(t, errors.As(err, &maxTok))
	assert.Equal(t, partial, maxTok.Content)

	_, err = finish(Request{}, reply{stop: StopRefused, detail: "SAFETY"})
	var refused *ErrContentRefused
	require.True(t, errors.As(err, &refused))
	assert.Equal(t, "SAFETY", refused.Reason)

	resp, err := finish(Request{Schema: bankSchema(3)}, reply{
		content: SampleBank(3),
		stop:    StopEnd,
		usage:   Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 31},
		model:   "m",
	})
	require.NoError(t, err)
	assert.Equal(t, 31, resp.Usage.TotalTokens, "a reported total is kept")
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeBankGen, PurposeFrom(WithPurpose(ctx, PurposeBankGen)))
}
