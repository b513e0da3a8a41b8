package coach

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// isRateLimitMessage catches quota errors that arrive without a typed
// status. Status codes are checked on the typed errors only, since bare
// digits also show up in request ids.
func isRateLimitMessage(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "resource has been exhausted")
}

type retryGenerator struct {
	next     Generator
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a generator so rate-limited calls are retried up to
// attempts more times after a fixed delay. Other errors return at once.
func WithRetry(gen Generator, attempts int, delay time.Duration) Generator {
	if attempts <= 0 {
		return gen
	}
	return &retryGenerator{next: gen, attempts: attempts, delay: delay, sleep: sleepContext}
}

func (r *retryGenerator) Name() string {
	return r.next.Name()
}

func (r *retryGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	log := zerolog.Ctx(ctx)

	var err error
	for attempt := 0; attempt <= r.attempts; attempt++ {
		var text string
		text, err = r.next.Generate(ctx, prompt, s)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt == r.attempts {
			break
		}
		log.Warn().Err(err).
			Str("provider", r.next.Name()).
			Int("attempt", attempt+1).
			Dur("delay", r.delay).
			Msg("rate limited, retrying")
		if serr := r.sleep(ctx, r.delay); serr != nil {
			return "", serr
		}
	}
	return "", err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
