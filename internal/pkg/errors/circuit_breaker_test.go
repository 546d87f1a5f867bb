package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failingCall(ctx context.Context) error {
	return Classify(errors.New("503"), "test op")
}

func succeedingCall(ctx context.Context) error {
	return nil
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    3,
		ResetTimeout:        time.Minute,
		HalfOpenMaxRequests: 1,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, failingCall)
	}

	if cb.State() != CircuitOpen {
		t.Errorf("State() = %v, want open after threshold failures", cb.State())
	}

	err := cb.Execute(ctx, succeedingCall)
	if err == nil {
		t.Fatal("Execute() should fail while circuit is open")
	}
	classified := GetClassified(err)
	if classified == nil || classified.Kind != KindServerError {
		t.Errorf("open-circuit error = %v, want KindServerError", err)
	}
	if classified.Retryable {
		t.Error("open-circuit error must not be retryable")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    3,
		ResetTimeout:        time.Minute,
		HalfOpenMaxRequests: 1,
	})

	ctx := context.Background()
	_ = cb.Execute(ctx, failingCall)
	_ = cb.Execute(ctx, failingCall)
	_ = cb.Execute(ctx, succeedingCall)

	if cb.ConsecutiveFailures() != 0 {
		t.Errorf("ConsecutiveFailures() = %d, want 0 after success", cb.ConsecutiveFailures())
	}
	if cb.State() != CircuitClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    1,
		ResetTimeout:        10 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	})

	ctx := context.Background()
	_ = cb.Execute(ctx, failingCall)
	if cb.State() != CircuitOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	// First request after the reset timeout is the half-open probe.
	if err := cb.Execute(ctx, succeedingCall); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("State() = %v, want closed after successful probe", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    1,
		ResetTimeout:        10 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	})

	ctx := context.Background()
	_ = cb.Execute(ctx, failingCall)
	time.Sleep(20 * time.Millisecond)
	_ = cb.Execute(ctx, failingCall)

	if cb.State() != CircuitOpen {
		t.Errorf("State() = %v, want reopened after failed probe", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    1,
		ResetTimeout:        time.Minute,
		HalfOpenMaxRequests: 1,
	})

	_ = cb.Execute(context.Background(), failingCall)
	cb.Reset()

	if cb.State() != CircuitClosed {
		t.Errorf("State() = %v, want closed after Reset", cb.State())
	}
	if cb.ConsecutiveFailures() != 0 {
		t.Errorf("ConsecutiveFailures() = %d, want 0 after Reset", cb.ConsecutiveFailures())
	}
}
