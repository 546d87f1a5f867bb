package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassify_Determinism(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantKind   Kind
		wantStatus int
		wantRetry  bool
	}{
		{"status 401", "server returned 401", KindUnauthorized, 401, false},
		{"unauthorized text", "request unauthorized", KindUnauthorized, 401, false},
		{"authentication text", "authentication required", KindUnauthorized, 401, false},
		{"status 404", "got 404 from upstream", KindNotFound, 404, false},
		{"not found text", "queue not found", KindNotFound, 404, false},
		{"status 429", "429 retry after 30 seconds", KindRateLimited, 429, true},
		{"rate limit text", "rate limit exceeded", KindRateLimited, 429, true},
		{"too many requests", "too many requests", KindRateLimited, 429, true},
		{"status 400", "400 bad input", KindBadRequest, 400, false},
		{"bad request text", "bad request", KindBadRequest, 400, false},
		{"invalid text", "invalid cron expression", KindBadRequest, 400, false},
		{"status 500", "upstream returned 500", KindServerError, 500, true},
		{"status 502", "got 502 from gateway", KindServerError, 502, true},
		{"status 503", "503 service unavailable", KindServerError, 503, true},
		{"status 504", "504 gateway", KindServerError, 504, true},
		{"econnrefused", "dial tcp: ECONNREFUSED", KindNetworkError, 0, true},
		{"network text", "network is unreachable", KindNetworkError, 0, true},
		{"timeout text", "request timed out", KindNetworkError, 0, true},
		{"fetch failed", "fetch failed", KindNetworkError, 0, true},
		{"unknown", "something odd happened", KindUnknown, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(errors.New(tt.message), "test op")
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
			if got.Retryable != tt.wantRetry {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetry)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// "not found" appears in the message but 401 outranks 404.
	got := Classify(errors.New("401 unauthorized: key not found"), "")
	if got.Kind != KindUnauthorized {
		t.Errorf("Kind = %v, want KindUnauthorized", got.Kind)
	}

	// First 5xx match wins.
	got = Classify(errors.New("gateway chain 502 then 503"), "")
	if got.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want 502", got.StatusCode)
	}
}

func TestClassify_RetryAfterExtraction(t *testing.T) {
	got := Classify(errors.New("429 retry after 30 seconds"), "publish message")
	if got.Kind != KindRateLimited {
		t.Fatalf("Kind = %v, want KindRateLimited", got.Kind)
	}
	if got.RetryAfterSeconds != 30 {
		t.Errorf("RetryAfterSeconds = %d, want 30", got.RetryAfterSeconds)
	}

	got = Classify(errors.New("rate limit exceeded"), "")
	if got.RetryAfterSeconds != 0 {
		t.Errorf("RetryAfterSeconds = %d, want 0", got.RetryAfterSeconds)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	original := NewAlreadyExistsError("prod")
	got := Classify(original, "ignored context")
	if got != original {
		t.Error("Classify() should return an already classified error unchanged")
	}

	// Also through a wrapping layer.
	wrapped := fmt.Errorf("outer: %w", original)
	got = Classify(wrapped, "")
	if got != original {
		t.Error("Classify() should unwrap to the existing classified error")
	}
}

func TestClassify_UnknownPreservesMessage(t *testing.T) {
	got := Classify(errors.New("flux capacitor desync"), "")
	if got.Message != "flux capacitor desync" {
		t.Errorf("Message = %q, want verbatim original", got.Message)
	}
	if got.UserMessage() != "flux capacitor desync" {
		t.Errorf("UserMessage() = %q, want verbatim original", got.UserMessage())
	}
}

func TestUserMessage_Templates(t *testing.T) {
	unauthorized := Classify(errors.New("401"), "list queues")
	if !strings.Contains(unauthorized.UserMessage(), "authentication failed") {
		t.Errorf("UserMessage() = %q, want authentication hint", unauthorized.UserMessage())
	}
	if !strings.HasPrefix(unauthorized.UserMessage(), "list queues: ") {
		t.Errorf("UserMessage() = %q, want context prefix", unauthorized.UserMessage())
	}

	notFound := Classify(errors.New("404"), "get queue").
		WithResource(&ResourceInfo{Type: "queue", ID: "orders"})
	if !strings.Contains(notFound.UserMessage(), `queue "orders" not found`) {
		t.Errorf("UserMessage() = %q, want resource info", notFound.UserMessage())
	}

	rateLimited := Classify(errors.New("429 retry after 30 seconds"), "")
	if !strings.Contains(rateLimited.UserMessage(), "retry after 30 seconds") {
		t.Errorf("UserMessage() = %q, want wait hint", rateLimited.UserMessage())
	}
}

func TestConfigLocalConstructors(t *testing.T) {
	tests := []struct {
		err      *ClassifiedError
		wantKind Kind
	}{
		{NewInvalidInputError("id must not be empty"), KindInvalidInput},
		{NewAlreadyExistsError("prod"), KindAlreadyExists},
		{NewEnvironmentNotFoundError("staging"), KindNotFoundLocal},
		{NewMissingTokenError(), KindInvalidInput},
	}
	for _, tt := range tests {
		if tt.err.Kind != tt.wantKind {
			t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.wantKind)
		}
		if tt.err.Retryable {
			t.Errorf("%v should never be retryable", tt.wantKind)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Classify(errors.New("503"), "")) {
		t.Error("5xx should be retryable")
	}
	if IsRetryable(Classify(errors.New("404"), "")) {
		t.Error("404 should not be retryable")
	}
	if IsRetryable(errors.New("plain error")) {
		t.Error("unclassified errors should not be retryable")
	}
}

func TestSanitizeMessage(t *testing.T) {
	msg := "request with token rq_abcdefghijklmnop1234 failed"
	got := SanitizeMessage(msg)
	if strings.Contains(got, "rq_abcdefghijklmnop1234") {
		t.Errorf("SanitizeMessage() = %q, token not masked", got)
	}
	if !strings.Contains(got, "1234") {
		t.Errorf("SanitizeMessage() = %q, want last 4 characters visible", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}

	got := FormatError(Classify(errors.New("401"), "list queues"))
	if !strings.HasPrefix(got, "Error: ") {
		t.Errorf("FormatError() = %q, want Error: prefix", got)
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindUnauthorized:  "Unauthorized",
		KindNotFound:      "NotFound",
		KindRateLimited:   "RateLimited",
		KindBadRequest:    "BadRequest",
		KindServerError:   "ServerError",
		KindNetworkError:  "NetworkError",
		KindInvalidInput:  "InvalidInput",
		KindAlreadyExists: "AlreadyExists",
		KindNotFoundLocal: "NotFoundLocal",
		KindUnknown:       "Unknown",
	}
	for kind, want := range kinds {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
