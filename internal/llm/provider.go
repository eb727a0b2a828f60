// Package llm talks to the language model backends that write question
// banks for bankgen. Every backend returns JSON that has already passed
// the request's schema and content check.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model name, used in logs and usage records.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema is enforced twice: natively by the backend where it can,
	// then locally against the returned JSON. Nil means free text.
	Schema *Schema

	// Check runs on JSON that passed Schema. A non-nil error turns the
	// reply into an *ErrInvalidResponse, which RetryProvider asks again
	// for once. Errors with a QuestionNumber() int method name the
	// question in the result; errors with Permanent() true are not
	// retried.
	Check func(content json.RawMessage) error

	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name keys the compiled-schema cache, so
// two schemas with different definitions need different names.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is why the backend stopped writing, normalized across
// backends.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
	StopRefused   StopReason = "refused"
)

// Response is a validated reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// reply is what a backend extracted from its SDK response before the
// shared checks.
type reply struct {
	content json.RawMessage
	stop    StopReason
	detail  string // backend stop reason, kept for refusals
	usage   Usage
	model   string
}

// finish turns a backend reply into a Response: truncated and refused
// replies become errors, and the rest must pass the schema and check.
func finish(req Request, r reply) (*Response, error) {
	switch r.stop {
	case StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: r.content}
	case StopRefused:
		return nil, &ErrContentRefused{Reason: r.detail}
	}
	if err := validateResponse(req, r.content); err != nil {
		return nil, err
	}
	if r.usage.TotalTokens == 0 {
		r.usage.TotalTokens = r.usage.InputTokens + r.usage.OutputTokens
	}
	return &Response{
		Content:    r.content,
		Usage:      r.usage,
		Model:      r.model,
		StopReason: r.stop,
	}, nil
}
