package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict tells the executor how to treat a failure: whether another
// attempt makes sense and whether the breaker should count it.
type Verdict struct {
	Retryable     bool
	RecordFailure bool
}

type Classifier func(err error) Verdict

type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	BreakerEnabled      bool
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
	BreakerHalfOpenMax  uint32
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,

		BreakerEnabled:      true,
		BreakerMinRequests:  8,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  30 * time.Second,
		BreakerHalfOpenMax:  2,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	if p.Multiplier < 1.0 {
		p.Multiplier = def.Multiplier
	}
	if p.BreakerMinRequests == 0 {
		p.BreakerMinRequests = def.BreakerMinRequests
	}
	if p.BreakerFailureRatio <= 0 || p.BreakerFailureRatio > 1 {
		p.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if p.BreakerOpenTimeout <= 0 {
		p.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if p.BreakerHalfOpenMax == 0 {
		p.BreakerHalfOpenMax = def.BreakerHalfOpenMax
	}
	return p
}

// Executor runs callbacks with bounded retries and a per-operation circuit
// breaker. One executor is shared across a client's operations.
type Executor struct {
	policy Policy

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy) *Executor {
	return &Executor{
		policy:   policy.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (e *Executor) Run(ctx context.Context, operation string, fn func(context.Context) error, classify Classifier) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil callback for %q", operation)
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = func(error) Verdict { return Verdict{RecordFailure: true} }
	}

	if !e.policy.BreakerEnabled {
		return e.retry(ctx, op, fn, classify)
	}

	breaker := e.breaker(op, classify)
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.retry(ctx, op, fn, classify)
	})
	return err
}

func (e *Executor) retry(ctx context.Context, operation string, fn func(context.Context) error, classify Classifier) error {
	backoff := e.policy.InitialBackoff

	var err error
	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if v := classify(err); !v.Retryable || attempt == e.policy.MaxAttempts {
			return err
		}

		slog.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", e.policy.MaxAttempts,
			"backoff", backoff.String(),
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.policy.Multiplier)
		if backoff > e.policy.MaxBackoff {
			backoff = e.policy.MaxBackoff
		}
	}
	return err
}

func (e *Executor) breaker(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.breakers[operation]; ok {
		return b
	}

	b := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerHalfOpenMax,
		Timeout:     e.policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.policy.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[operation] = b
	return b
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
