package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes completion failures for logging and fallback decisions.
type Kind string

const (
	KindTransport   Kind = "transport"    // connection refused, DNS, TLS
	KindAuth        Kind = "auth"         // 401, bad or revoked API key
	KindQuota       Kind = "quota"        // 429, rate limit or exhausted quota
	KindTimeout     Kind = "timeout"      // deadline exceeded
	KindUpstream    Kind = "upstream"     // 5xx, provider-side failures
	KindBadResponse Kind = "bad_response" // empty or malformed completion
)

// InferenceError marks a failure of the model call itself, as opposed to a
// caller mistake. Callers detect it with errors.As and answer with a canned
// reply instead of surfacing it.
type InferenceError struct {
	Kind Kind
	Err  error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("inference %s: %v", e.Kind, e.Err) }

func (e *InferenceError) Unwrap() error { return e.Err }

// Retryable reports whether an identical later call could plausibly succeed.
func (e *InferenceError) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindQuota, KindTimeout, KindUpstream:
		return true
	}
	return false
}

// Classify wraps a provider error in an InferenceError with a best-effort
// kind derived from the error text. Context cancellation passes through
// untouched so callers can tell an abandoned request from a failed one.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var kind Kind
	switch {
	case errors.Is(err, context.DeadlineExceeded) || containsAny(err, "deadline exceeded", "timeout"):
		kind = KindTimeout
	case containsAny(err, "401", "unauthorized", "invalid api key", "incorrect api key"):
		kind = KindAuth
	case containsAny(err, "429", "rate limit", "too many requests", "quota"):
		kind = KindQuota
	case containsAny(err, "connection refused", "connection reset", "no such host", "broken pipe", "eof"):
		kind = KindTransport
	case containsAny(err, "500", "502", "503", "504", "server error", "internal error", "overloaded"):
		kind = KindUpstream
	default:
		kind = KindUpstream
	}
	return &InferenceError{Kind: kind, Err: err}
}

func containsAny(err error, patterns ...string) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
