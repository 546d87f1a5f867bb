package errors

import "time"

// RetryPolicy controls the bounded exponential backoff applied to
// retryable remote failures.
//
// Delay growth is deterministic given the configured parameters (no
// jitter); reproducible delays are part of the executor's contract.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Enabled disables retrying entirely when false: every failure is
	// surfaced after the first attempt.
	Enabled bool
}

// DefaultRetryPolicy returns the default retry policy: 3 retries,
// 1s initial delay doubling up to a 10s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Enabled:      true,
	}
}

// DelayFor returns the backoff delay preceding the given retry
// (zero-based): InitialDelay * Multiplier^retry, capped at MaxDelay.
func (p RetryPolicy) DelayFor(retry int) time.Duration {
	delay := float64(p.InitialDelay)
	for i := 0; i < retry; i++ {
		delay *= p.Multiplier
		if delay >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// Attempts returns the total number of attempts the policy allows,
// never fewer than one. A negative MaxRetries counts as zero.
func (p RetryPolicy) Attempts() int {
	if !p.Enabled || p.MaxRetries < 0 {
		return 1
	}
	return 1 + p.MaxRetries
}

// RetryCallback is invoked before each retry sleep with the attempt
// number (1-based), the failure, and the upcoming delay.
type RetryCallback func(attempt int, err error, delay time.Duration)
