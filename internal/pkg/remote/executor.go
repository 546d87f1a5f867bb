// Package remote wraps remote API calls with retry, classification, and
// a uniform result envelope.
package remote

import (
	"context"
	"time"

	apperrors "github.com/relayq/relayq/internal/pkg/errors"
)

// OperationResult is the envelope returned by every remote-facing call.
// Failures are carried as values; no error ever crosses this boundary.
type OperationResult[T any] struct {
	Success bool
	Data    T

	// Error is the human-readable failure message, empty on success.
	Error string

	// Classified carries the typed failure for callers that need the
	// kind or status code, nil on success.
	Classified *apperrors.ClassifiedError
}

// OK wraps a successful value.
func OK[T any](data T) OperationResult[T] {
	return OperationResult[T]{Success: true, Data: data}
}

// Fail wraps a classified failure.
func Fail[T any](err *apperrors.ClassifiedError) OperationResult[T] {
	return OperationResult[T]{
		Success:    false,
		Error:      err.UserMessage(),
		Classified: err,
	}
}

// Executor runs remote operations through the retry policy and an
// optional circuit breaker. The zero executor is not usable; construct
// with NewExecutor.
type Executor struct {
	policy  apperrors.RetryPolicy
	breaker *apperrors.CircuitBreaker
	sleep   func(time.Duration)
	notify  apperrors.RetryCallback
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleep replaces the backoff sleep function. Tests use this to
// record delays instead of waiting them out.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// WithCircuitBreaker guards every attempt with the given breaker.
func WithCircuitBreaker(cb *apperrors.CircuitBreaker) Option {
	return func(e *Executor) { e.breaker = cb }
}

// WithNotify installs a callback invoked before each retry sleep.
func WithNotify(notify apperrors.RetryCallback) Option {
	return func(e *Executor) { e.notify = notify }
}

// NewExecutor creates an executor with the given retry policy.
func NewExecutor(policy apperrors.RetryPolicy, opts ...Option) *Executor {
	e := &Executor{
		policy: policy,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs op through the retry policy and converts the outcome into
// an OperationResult. opContext is the human description of the attempted
// operation ("list queues"), used in failure messages.
//
// Retryable failures are re-attempted with deterministic exponential
// backoff until the retry budget is exhausted; non-retryable failures
// surface immediately. A retry loop in progress runs to completion; the
// context is passed through to op but the loop itself has no
// cancellation hook.
func Execute[T any](ctx context.Context, e *Executor, opContext string, op func(context.Context) (T, error)) OperationResult[T] {
	return ExecuteResource(ctx, e, opContext, nil, op)
}

// ExecuteResource is Execute with resource info attached to failures, so
// NotFound messages can name the resource ("queue \"orders\" not found").
func ExecuteResource[T any](ctx context.Context, e *Executor, opContext string, resource *apperrors.ResourceInfo, op func(context.Context) (T, error)) OperationResult[T] {
	var lastErr error

	attempts := e.policy.Attempts()
	for attempt := 0; attempt < attempts; attempt++ {
		value, err := attemptOnce(ctx, e, op)
		if err == nil {
			return OK(value)
		}
		lastErr = err

		classified := apperrors.Classify(err, opContext)
		if !classified.Retryable || attempt == attempts-1 {
			break
		}

		delay := e.policy.DelayFor(attempt)
		apperrors.LogRetry(attempt+1, attempts, classified, delay)
		if e.notify != nil {
			e.notify(attempt+1, classified, delay)
		}
		e.sleep(delay)
	}

	classified := apperrors.Classify(lastErr, opContext)
	if resource != nil {
		classified = classified.WithResource(resource)
	}
	return Fail[T](classified)
}

// attemptOnce runs a single call, through the breaker when one is configured.
func attemptOnce[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	if e.breaker == nil {
		return op(ctx)
	}

	var value T
	err := e.breaker.Execute(ctx, func(ctx context.Context) (opErr error) {
		value, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		apperrors.LogCircuitBreaker(e.breaker.State(), e.breaker.ConsecutiveFailures())
	}
	return value, err
}
