package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(Settings{APIKey: "test-key", Model: "claude-sonnet", BaseURL: server.URL})
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-sonnet-4-20250514",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 420, "output_tokens": 910},
	}
}

func TestAnthropicProvider_WritesBank(t *testing.T) {
	var sent map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(string(SampleBank(5)), "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write short educational games for children aged 6-10.",
		Messages:  []Message{{Role: RoleUser, Content: "Topic: Oceans"}},
		Schema:    bankSchema(5),
		MaxTokens: 4096,
	})
	require.NoError(t, err)
	assert.Equal(t, Usage{InputTokens: 420, OutputTokens: 910, TotalTokens: 1330}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "claude-sonnet-4-20250514", resp.Model)

	// Array bounds above 1 are not sent as keywords.
	raw, err := json.Marshal(sent)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"minItems":5`)
	assert.Contains(t, string(raw), "minItems: 5")
}

func TestAnthropicProvider_StopReasons(t *testing.T) {
	tests := []struct {
		stop   string
		target any
	}{
		{"max_tokens", new(*ErrMaxTokensExceeded)},
		{"refusal", new(*ErrContentRefused)},
	}
	for _, tt := range tests {
		t.Run(tt.stop, func(t *testing.T) {
			p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(anthropicMessage(`{"title":"Oce`, tt.stop))
			})
			_, err := p.Generate(context.Background(), Request{Schema: bankSchema(5), MaxTokens: 64})
			assert.True(t, errors.As(err, tt.target), "got %v", err)
		})
	}
}

func TestAnthropicProvider_HTTPErrors(t *testing.T) {
	apiError := func(status int, retryAfter string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if retryAfter != "" {
				w.Header().Set("Retry-After", retryAfter)
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "nope"},
			})
		}
	}

	_, err := anthropicServer(t, apiError(http.StatusTooManyRequests, "7")).
		Generate(context.Background(), Request{MaxTokens: 64})
	var rl *ErrRateLimit
	require.True(t, errors.As(err, &rl), "got %v", err)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)

	_, err = anthropicServer(t, apiError(http.StatusInternalServerError, "")).
		Generate(context.Background(), Request{MaxTokens: 64})
	assert.True(t, errors.As(err, new(*ErrProviderUnavailable)), "got %v", err)
}

func TestAnthropicSchema(t *testing.T) {
	def := bankSchema(5).Definition
	out := anthropicSchema(def)

	questions := out["properties"].(map[string]any)["questions"].(map[string]any)
	assert.NotContains(t, questions, "minItems")
	assert.NotContains(t, questions, "maxItems")
	assert.Equal(t, "(maxItems: 5, minItems: 5)", questions["description"])

	options := questions["items"].(map[string]any)["properties"].(map[string]any)["options"].(map[string]any)
	assert.NotContains(t, options, "minItems")
	assert.Equal(t, "(maxItems: 4, minItems: 2)", options["description"])

	// The input definition is untouched.
	orig := def["properties"].(map[string]any)["questions"].(map[string]any)
	assert.Equal(t, 5, orig["minItems"])
}

func TestNewAnthropicProvider(t *testing.T) {
	p, err := NewAnthropicProvider(Settings{APIKey: "sk-test", Model: "claude-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
	assert.Equal(t, "claude-sonnet-4-20250514", resolveModel("claude-sonnet-4-20250514", anthropicModels))

	_, err = NewAnthropicProvider(Settings{})
	assert.Error(t, err)
}
