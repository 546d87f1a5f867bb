// Package errors provides the error taxonomy, retry policy, and logging for relayq.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the machine-readable category of a failure.
type Kind int

const (
	// KindUnknown is the fallback when no classification rule matches.
	KindUnknown Kind = iota

	// Remote kinds, produced only by Classify.
	KindUnauthorized
	KindNotFound
	KindRateLimited
	KindBadRequest
	KindServerError
	KindNetworkError

	// Config-local kinds, produced only by the config store and never retried.
	KindInvalidInput
	KindAlreadyExists
	KindNotFoundLocal
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindRateLimited:
		return "RateLimited"
	case KindBadRequest:
		return "BadRequest"
	case KindServerError:
		return "ServerError"
	case KindNetworkError:
		return "NetworkError"
	case KindInvalidInput:
		return "InvalidInput"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFoundLocal:
		return "NotFoundLocal"
	default:
		return "Unknown"
	}
}

// ResourceInfo identifies the resource a remote operation targeted.
// It enriches NotFound messages ("queue \"orders\" not found").
type ResourceInfo struct {
	Type string
	ID   string
}

// ClassifiedError is a failure tagged with a kind, retryability, and
// enough context to render a human-readable message.
type ClassifiedError struct {
	Kind       Kind
	StatusCode int
	Retryable  bool

	// Context describes the attempted operation ("list queues").
	Context string

	// Message is the original failure text, preserved verbatim.
	Message string

	// RetryAfterSeconds is the server-suggested wait for RateLimited,
	// zero when the server gave no hint.
	RetryAfterSeconds int

	Resource *ResourceInfo

	Cause error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the failure may succeed on a later attempt.
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// RetryAfter returns the server-suggested wait, or zero.
func (e *ClassifiedError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterSeconds) * time.Second
}

// WithResource returns a copy of the error with resource info attached.
// The receiver is left unchanged; callers may share classified errors.
func (e *ClassifiedError) WithResource(info *ResourceInfo) *ClassifiedError {
	clone := *e
	clone.Resource = info
	return &clone
}

// UserMessage renders the failure for terminal display. The operation
// context, when present, prefixes the kind-specific template.
func (e *ClassifiedError) UserMessage() string {
	msg := e.kindMessage()
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, msg)
	}
	return msg
}

func (e *ClassifiedError) kindMessage() string {
	switch e.Kind {
	case KindUnauthorized:
		return "authentication failed, check the configured token (relayq env list)"
	case KindNotFound:
		if e.Resource != nil && e.Resource.Type != "" {
			return fmt.Sprintf("%s %q not found", e.Resource.Type, e.Resource.ID)
		}
		return "the requested resource was not found"
	case KindRateLimited:
		if e.RetryAfterSeconds > 0 {
			return fmt.Sprintf("rate limited by the service, retry after %d seconds", e.RetryAfterSeconds)
		}
		return "rate limited by the service, try again shortly"
	case KindBadRequest:
		return fmt.Sprintf("the service rejected the request: %s", e.Message)
	case KindServerError:
		if e.StatusCode == 0 {
			// Breaker-produced errors carry no HTTP status.
			return e.Message
		}
		return fmt.Sprintf("the service reported an error (HTTP %d), try again later", e.StatusCode)
	case KindNetworkError:
		return "could not reach the RelayQ service, check your network connection"
	default:
		return e.Message
	}
}

var (
	serverErrorPattern = regexp.MustCompile(`\b(500|502|503|504)\b`)
	retryAfterPattern  = regexp.MustCompile(`retry[^0-9]*(\d+)`)
)

// networkKeywords are matched after the status-bearing rules so that
// messages carrying an HTTP status win first.
var networkKeywords = []string{
	"network",
	"connection refused",
	"econnrefused",
	"no such host",
	"timeout",
	"timed out",
	"fetch failed",
}

// Classify turns an arbitrary failure into a ClassifiedError. Already
// classified errors are returned unchanged, so Classify is idempotent.
//
// The remote service reports failures as unstructured text, so matching
// inspects the lower-cased message in a fixed priority order:
// 401 > 404 > 429 > 400 > 5xx > network > unknown. The order is stable;
// callers and test fixtures depend on first-match priority.
func Classify(err error, context string) *ClassifiedError {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case containsAny(lower, "401", "unauthorized", "authentication"):
		return &ClassifiedError{
			Kind:       KindUnauthorized,
			StatusCode: 401,
			Context:    context,
			Message:    msg,
			Cause:      err,
		}

	case containsAny(lower, "404", "not found"):
		return &ClassifiedError{
			Kind:       KindNotFound,
			StatusCode: 404,
			Context:    context,
			Message:    msg,
			Cause:      err,
		}

	case containsAny(lower, "429", "rate limit", "too many requests"):
		return &ClassifiedError{
			Kind:              KindRateLimited,
			StatusCode:        429,
			Retryable:         true,
			Context:           context,
			Message:           msg,
			RetryAfterSeconds: extractRetryAfter(lower),
			Cause:             err,
		}

	case containsAny(lower, "400", "bad request", "invalid"):
		return &ClassifiedError{
			Kind:       KindBadRequest,
			StatusCode: 400,
			Context:    context,
			Message:    msg,
			Cause:      err,
		}

	case serverErrorPattern.MatchString(lower):
		status := 500
		if m := serverErrorPattern.FindString(lower); m != "" {
			if parsed, perr := strconv.Atoi(m); perr == nil {
				status = parsed
			}
		}
		return &ClassifiedError{
			Kind:       KindServerError,
			StatusCode: status,
			Retryable:  true,
			Context:    context,
			Message:    msg,
			Cause:      err,
		}

	case containsAny(lower, networkKeywords...):
		return &ClassifiedError{
			Kind:      KindNetworkError,
			Retryable: true,
			Context:   context,
			Message:   msg,
			Cause:     err,
		}

	default:
		return &ClassifiedError{
			Kind:    KindUnknown,
			Context: context,
			Message: msg,
			Cause:   err,
		}
	}
}

// extractRetryAfter pulls the integer following the word "retry" out of
// a rate-limit message. Best effort: zero when absent.
func extractRetryAfter(lower string) int {
	m := retryAfterPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return seconds
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Retryable
	}
	return false
}

// GetClassified extracts a ClassifiedError from an error chain, or nil.
func GetClassified(err error) *ClassifiedError {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}
	return nil
}

// Config-local error constructors. These never go through Classify and
// are never retried.

// NewInvalidInputError reports locally rejected input.
func NewInvalidInputError(message string) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindInvalidInput,
		Message: message,
	}
}

// NewAlreadyExistsError reports a duplicate environment id.
func NewAlreadyExistsError(id string) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindAlreadyExists,
		Message: fmt.Sprintf("environment %q already exists", id),
	}
}

// NewEnvironmentNotFoundError reports an unknown environment id.
func NewEnvironmentNotFoundError(id string) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindNotFoundLocal,
		Message: fmt.Sprintf("environment %q not found", id),
	}
}

// NewMissingTokenError reports that no credential source resolved.
func NewMissingTokenError() *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindInvalidInput,
		Message: "no token configured, add an environment with 'relayq env add' or set RELAYQ_TOKEN",
	}
}

// FormatError formats an error for user display. Tokens embedded in
// messages are masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Error: ")

	if classified := GetClassified(err); classified != nil {
		sb.WriteString(SanitizeMessage(classified.UserMessage()))
		if classified.Cause != nil && classified.Kind == KindUnknown {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeMessage(classified.Cause.Error()))
		}
	} else {
		sb.WriteString(SanitizeMessage(err.Error()))
	}

	return sb.String()
}

// tokenPattern matches RelayQ API tokens so they never reach a terminal
// or log file in the clear.
var tokenPattern = regexp.MustCompile(`rq_[A-Za-z0-9]{12,}`)

// SanitizeMessage masks any API tokens embedded in a message.
func SanitizeMessage(msg string) string {
	return tokenPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}
