// Package failover chains multiple generators and tries them in
// order. Transient failures on one generator are retried with
// exponential backoff before the chain moves on; client-side failures
// abandon the generator immediately. Useful for primary-cloud ->
// cheaper-model or cloud -> local-ollama setups.
package failover

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// Default retry tuning.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 500 * time.Millisecond
	DefaultMaxDelay   = 10 * time.Second
)

// Generator chains generators with per-generator retry.
type Generator struct {
	generators []driven.Generator
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	sleep      func(context.Context, time.Duration) error
}

// Option configures a failover generator.
type Option func(*Generator)

// WithMaxRetries sets the per-generator retry count for transient
// failures.
func WithMaxRetries(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithBackoff sets the retry delay bounds.
func WithBackoff(base, max time.Duration) Option {
	return func(g *Generator) {
		if base > 0 {
			g.baseDelay = base
		}
		if max > 0 {
			g.maxDelay = max
		}
	}
}

// New creates a failover generator from the given generators.
// At least one generator is required.
func New(generators []driven.Generator, opts ...Option) (*Generator, error) {
	if len(generators) == 0 {
		return nil, fmt.Errorf("failover: at least one generator is required")
	}

	g := &Generator{
		generators: generators,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		maxDelay:   DefaultMaxDelay,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate tries each generator in order until one succeeds.
// Transient failures (rate limits, unreachable service) are retried
// with exponential backoff and jitter before falling through to the
// next generator; other failures fall through immediately.
func (g *Generator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var lastErr error
	for i, gen := range g.generators {
		result, err := g.generateWithRetry(ctx, gen, prompt, opts)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("Generator %s failed: %v", gen.ModelName(), err)
		if ctx.Err() != nil {
			return "", fmt.Errorf("failover: context cancelled after %d generators: %w", i+1, ctx.Err())
		}
	}
	return "", fmt.Errorf("failover: all %d generators failed, last error: %w", len(g.generators), lastErr)
}

// generateWithRetry runs one generator with transient-failure retry.
func (g *Generator) generateWithRetry(
	ctx context.Context, gen driven.Generator, prompt string, opts driven.GenerateOptions,
) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := gen.Generate(ctx, prompt, opts)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !transient(err) || attempt >= g.maxRetries {
			return "", lastErr
		}

		delay := g.backoff(attempt + 1)
		logger.Debug("Retrying %s in %s (attempt %d/%d)",
			gen.ModelName(), delay, attempt+1, g.maxRetries)
		if err := g.sleep(ctx, delay); err != nil {
			return "", lastErr
		}
	}
}

// transient reports whether a failure is worth retrying on the same
// generator.
func transient(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrGeneratorUnavailable)
}

// backoff computes the delay before the given 1-based attempt,
// doubling each time with ±25% jitter.
func (g *Generator) backoff(attempt int) time.Duration {
	delay := float64(g.baseDelay) * math.Pow(2, float64(attempt-1))
	jitter := delay * 0.25 * (rand.Float64()*2 - 1)
	delay += jitter
	if delay > float64(g.maxDelay) {
		delay = float64(g.maxDelay)
	}
	return time.Duration(delay)
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ModelName lists the chained model names.
func (g *Generator) ModelName() string {
	names := make([]string, len(g.generators))
	for i, gen := range g.generators {
		names[i] = gen.ModelName()
	}
	return "failover(" + strings.Join(names, ",") + ")"
}

// Ping succeeds when any chained generator is reachable.
func (g *Generator) Ping(ctx context.Context) error {
	var lastErr error
	for _, gen := range g.generators {
		err := gen.Ping(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failover: no generator reachable: %w", lastErr)
}

// Close closes every chained generator, returning the first failure.
func (g *Generator) Close() error {
	var firstErr error
	for _, gen := range g.generators {
		if err := gen.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
