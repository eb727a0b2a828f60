package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit is returned on HTTP 429. RetryAfter is zero when the
// backend sent no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the bank it wrote
// cannot be used: bad JSON, a schema violation or a failed content
// check. Question is the 1-based question the problem was found in, or
// zero when it concerns the whole bank.
type ErrInvalidResponse struct {
	Content  json.RawMessage
	Question int
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("unusable question bank (question %d): %v", e.Question, e.Err)
	}
	return fmt.Sprintf("unusable question bank: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrContentRefused means the backend's safety filter declined the
// prompt or cut the answer short.
type ErrContentRefused struct {
	Reason string
}

func (e *ErrContentRefused) Error() string {
	if e.Reason == "" {
		return "model refused to write the question bank"
	}
	return fmt.Sprintf("model refused to write the question bank: %s", e.Reason)
}

// ErrProviderUnavailable covers outages, auth failures and network
// errors.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm backend unavailable"
	}
	return fmt.Sprintf("llm backend unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the bank was cut off at the token budget.
// Content holds the partial output.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "question bank cut off at the token limit; ask for fewer questions or raise max_tokens"
}

// permanent reports whether err was marked as not worth asking again by
// a content check.
func permanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}

// questionOf returns the question number carried by err, or zero.
func questionOf(err error) int {
	var q interface{ QuestionNumber() int }
	if errors.As(err, &q) {
		return q.QuestionNumber()
	}
	return 0
}

// retryAfter reads a Retry-After header in seconds or HTTP-date form.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
