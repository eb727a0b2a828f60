package bankgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizling/internal/catalog"
)

// Validator checks a generated bank before it becomes a game.
type Validator interface {
	// Name returns a short identifier used in errors and logs.
	Name() string

	// Validate returns nil when the bank passes.
	Validate(b *bankOutput, req Request) *ValidationError
}

// ValidationError describes why a bank was rejected. Question is the
// 1-based question at fault, or zero for the bank as a whole.
type ValidationError struct {
	Validator string
	Message   string
	Question  int
	Retryable bool // whether asking again is likely to help
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// QuestionNumber and Permanent let llm.RetryProvider report the question
// and skip re-asking when it would not help.
func (e *ValidationError) QuestionNumber() int { return e.Question }
func (e *ValidationError) Permanent() bool { return !e.Retryable }

const (
	maxTextLen     = 300
	maxStoryLen    = 600
	maxOptions     = 4
	maxReflexWords = 16
)

// StructuralValidator checks counts, lengths and empty fields.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(b *bankOutput, req Request) *ValidationError {
	fail := func(question int, format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Question: question, Retryable: true}
	}

	if strings.TrimSpace(b.Title) == "" && strings.TrimSpace(req.Title) == "" {
		return fail(0, "title is empty")
	}
	if len(b.Questions) != req.Count {
		return fail(0, "expected %d questions, got %d", req.Count, len(b.Questions))
	}
	for i, q := range b.Questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return fail(n, "question %d has no text", n)
		}
		if len(q.Text) > maxTextLen {
			return fail(n, "question %d exceeds %d characters", n, maxTextLen)
		}
		if len(q.Story) > maxStoryLen {
			return fail(n, "question %d story exceeds %d characters", n, maxStoryLen)
		}
		if len(q.Options) < 2 || len(q.Options) > maxOptions {
			return fail(n, "question %d has %d options, want 2-%d", n, len(q.Options), maxOptions)
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return fail(n, "question %d option %d has no text", n, j+1)
			}
		}
		if req.Kind == catalog.KindReflex && len(strings.Fields(q.Text)) > maxReflexWords {
			return fail(n, "question %d is too long for a reflex game", n)
		}
	}
	return nil
}

// AnswerKeyValidator requires exactly one correct option per question.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(b *bankOutput, _ Request) *ValidationError {
	for i, q := range b.Questions {
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d has %d correct options, want 1", i+1, correct),
				Question:  i + 1,
				Retryable: true,
			}
		}
	}
	return nil
}

// DuplicateValidator rejects repeated questions and repeated options
// within a question.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(b *bankOutput, _ Request) *ValidationError {
	seen := make(map[string]int)
	for i, q := range b.Questions {
		key := normalize(q.Text)
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d repeats question %d", i+1, prev),
				Question:  i + 1,
				Retryable: true,
			}
		}
		seen[key] = i + 1

		opts := make(map[string]bool)
		for _, o := range q.Options {
			k := normalize(o.Text)
			if opts[k] {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("question %d repeats option %q", i+1, o.Text),
					Question:  i + 1,
					Retryable: true,
				}
			}
			opts[k] = true
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
