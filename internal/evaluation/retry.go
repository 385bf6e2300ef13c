package evaluation

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// RetryPolicy controls how transient evaluator failures are retried
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

// DefaultRetryPolicy returns exponential backoff starting at 200ms
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2,
		Jitter:     true,
	}
}

// Delay returns the wait before retry number attempt (0 based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= p.Multiplier
	}
	delay := time.Duration(float64(p.BaseDelay) * multiplier)

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.Jitter {
		delay = addJitter(delay)
	}
	return delay
}

// addJitter adds up to 10% random delay
func addJitter(delay time.Duration) time.Duration {
	jitter := int64(float64(delay) * 0.1)
	if jitter <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(jitter))
}

// statusError is a non-2xx evaluator response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("evaluator returned status %d: %s", e.code, e.body)
}

// transportError is a failure to reach the evaluator at all
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "evaluation request failed: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// retryable reports whether err is worth another attempt: transport
// failures, 429 and 5xx responses
func retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return false
}
