package concat

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// DefaultDelay is the pause between two attempts on the same file list.
const DefaultDelay = 5 * time.Second

// Policy controls how a failing concatenation is repeated. One policy covers
// leaf and branch tasks alike.
type Policy struct {
	// Delay is the fixed wait between attempts. Must be positive.
	Delay time.Duration

	// MaxAttempts caps the number of attempts. Zero retries forever.
	MaxAttempts uint64
}

// DefaultPolicy retries forever, DefaultDelay apart.
func DefaultPolicy() Policy {
	return Policy{Delay: DefaultDelay}
}

// Validate reports whether the policy can drive a Retrier.
func (p Policy) Validate() error {
	if p.Delay <= 0 {
		return errors.New("retry delay must be positive")
	}
	return nil
}

func (p Policy) backoff() retry.Backoff {
	b := retry.NewConstant(p.Delay)
	if p.MaxAttempts > 0 {
		b = retry.WithMaxRetries(p.MaxAttempts-1, b)
	}
	return b
}

// Retrier repeats a Concatenator over a fixed file list until it succeeds.
type Retrier struct {
	concat Concatenator
	policy Policy
	log    zerolog.Logger
}

// NewRetrier wraps c with policy p. An invalid policy falls back to
// DefaultPolicy.
func NewRetrier(c Concatenator, p Policy, log zerolog.Logger) *Retrier {
	if p.Validate() != nil {
		p = DefaultPolicy()
	}
	return &Retrier{concat: c, policy: p, log: log}
}

// Policy returns the effective retry policy.
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Run calls the Concatenator on files until it succeeds. With an unlimited
// policy it only returns early when ctx ends, in which case ctx.Err() is
// returned. With a capped policy the last concatenation error is returned
// once the attempts are used up.
func (r *Retrier) Run(ctx context.Context, files []string) error {
	var attempt uint64
	return retry.Do(ctx, r.policy.backoff(), func(_ context.Context) error {
		attempt++
		err := r.concat.Concat(files)
		if err == nil {
			return nil
		}
		r.log.Debug().
			Err(err).
			Uint64("attempt", attempt).
			Str("leader", leaderOf(files)).
			Dur("delay", r.policy.Delay).
			Msg("concat attempt failed")
		return retry.RetryableError(err)
	})
}

func leaderOf(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
