package translator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ReliabilityConfig bounds a provider's calls. Zero values take the defaults.
type ReliabilityConfig struct {
	// Timeout applies per attempt.
	Timeout time.Duration
	// MaxAttempts counts the first call plus retries.
	MaxAttempts int
	// InitialDelay is the wait before the first retry; later retries back off
	// by BackoffFactor.
	InitialDelay  time.Duration
	BackoffFactor float64
	// MinInterval enforces process-wide spacing between calls to the wrapped
	// provider.
	MinInterval time.Duration
}

const (
	defaultTimeout       = 5 * time.Second
	defaultMaxAttempts   = 2
	defaultInitialDelay  = time.Second
	defaultBackoffFactor = 1.5
	defaultMinInterval   = 500 * time.Millisecond
)

func (c ReliabilityConfig) withDefaults() ReliabilityConfig {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = defaultInitialDelay
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = defaultBackoffFactor
	}
	if c.MinInterval <= 0 {
		c.MinInterval = defaultMinInterval
	}
	return c
}

// Reliable decorates a Provider with per-call timeouts, retry with exponential
// backoff on transient failures, and minimum inter-call spacing.
type Reliable struct {
	inner   Provider
	cfg     ReliabilityConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

// WithReliability wraps p. The limiter is shared by all calls through the
// returned value, so one instance per backend process-wide.
func WithReliability(p Provider, cfg ReliabilityConfig, log zerolog.Logger) *Reliable {
	cfg = cfg.withDefaults()
	return &Reliable{
		inner:   p,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		log:     log,
	}
}

func (r *Reliable) Name() string {
	return r.inner.Name()
}

func (r *Reliable) Translate(ctx context.Context, req Request) (*Result, error) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		res, err := r.inner.Translate(callCtx, req)
		cancel()

		if err == nil {
			if attempt > 1 {
				r.log.Info().
					Str("provider", r.inner.Name()).
					Str("target", req.TargetLang).
					Int("attempt", attempt).
					Msg("translation succeeded after retry")
			}
			return res, nil
		}

		lastErr = err
		if !isTransient(err) {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}

		delay := time.Duration(float64(r.cfg.InitialDelay) * math.Pow(r.cfg.BackoffFactor, float64(attempt-1)))
		r.log.Warn().
			Err(err).
			Str("provider", r.inner.Name()).
			Str("target", req.TargetLang).
			Int("attempt", attempt).
			Dur("retry_delay", delay).
			Msg("retrying translation after transient error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%s: translation failed after %d attempts: %w", r.inner.Name(), r.cfg.MaxAttempts, lastErr)
}

// isTransient reports whether a retry could help: timeouts, rate limits and
// upstream 5xx qualify; validation failures never do.
func isTransient(err error) bool {
	if errors.Is(err, ErrUnsupportedLanguage) || errors.Is(err, ErrEmptyTranslation) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
