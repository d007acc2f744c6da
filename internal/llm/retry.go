package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout applies to question and evaluation calls.
	DefaultTimeout = 30 * time.Second
	// SummaryTimeout is longer because summaries process a full transcript.
	SummaryTimeout = 45 * time.Second

	DefaultMaxRetries = 3

	backoffBase = time.Second
	backoffCap  = 10 * time.Second
)

// RetryClient wraps a Provider with a per-attempt timeout and bounded
// exponential backoff for transient overload errors. Non-overload errors
// propagate immediately without retrying.
type RetryClient struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger

	// sleep is swapped out in tests to avoid real waits
	sleep func(time.Duration)
}

func NewRetryClient(provider Provider, timeout time.Duration, maxRetries int, logger *zap.Logger) *RetryClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RetryClient{
		provider:   provider,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Backoff returns the delay before retrying after the given 1-based attempt:
// 1s, 2s, 4s, ... capped at 10s.
func Backoff(attempt int) time.Duration {
	delay := backoffBase << (attempt - 1)
	if delay > backoffCap || delay <= 0 {
		return backoffCap
	}
	return delay
}

// Complete invokes the underlying provider, retrying overloaded attempts
// up to maxRetries times before giving up.
func (c *RetryClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		// the caller may have gone away during a backoff sleep
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := c.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !IsOverloaded(err) {
			return "", err
		}
		if attempt == c.maxRetries {
			break
		}

		delay := Backoff(attempt)
		c.logger.Warn("provider overloaded, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		c.sleep(delay)
	}

	return "", &ProviderError{
		Provider: c.provider.GetProviderName(),
		Code:     ErrCodeServiceDown,
		Message:  "provider overloaded after retries",
		Err:      lastErr,
	}
}

func (c *RetryClient) completeOnce(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.provider.Complete(attemptCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &ProviderError{
				Provider: c.provider.GetProviderName(),
				Code:     ErrCodeTimeout,
				Message:  "completion timed out",
				Err:      err,
			}
		}
		return "", err
	}
	return text, nil
}

func (c *RetryClient) GetProviderName() string {
	return c.provider.GetProviderName()
}
