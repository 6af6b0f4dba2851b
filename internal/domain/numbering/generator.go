// Package numbering generates short human-readable identifiers (product SKUs,
// invoice numbers) and verifies them against the data store before handing
// them out.
package numbering

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/invoicer/backend/internal/domain/shared"
)

// DefaultMaxAttempts is the retry cap used when none is configured
const DefaultMaxAttempts = 10

// Scheme builds candidate identifiers: a deterministic prefix derived from
// seed fields plus a random fixed-width suffix.
type Scheme interface {
	// Kind names the identifier family, e.g. "sku" or "invoice_number"
	Kind() string
	// Candidate returns a candidate using intn as the random source
	Candidate(intn func(n int) int) string
}

// ExistenceChecker reports whether an identifier is already taken in its scope
type ExistenceChecker interface {
	Exists(ctx context.Context, candidate string) (bool, error)
}

// ExistenceFunc adapts a function to ExistenceChecker
type ExistenceFunc func(ctx context.Context, candidate string) (bool, error)

// Exists implements ExistenceChecker
func (f ExistenceFunc) Exists(ctx context.Context, candidate string) (bool, error) {
	return f(ctx, candidate)
}

// Observer receives generation events, typically for metrics
type Observer interface {
	Attempt(kind string, collided bool)
	Exhausted(kind string)
}

type noopObserver struct{}

func (noopObserver) Attempt(string, bool) {}
func (noopObserver) Exhausted(string)     {}

// Generator produces identifiers with a bounded collision-retry loop.
// It only reads from the store; persisting the identifier is the caller's job.
type Generator struct {
	maxAttempts int
	intn        func(n int) int
	observer    Observer
}

// Option configures a Generator
type Option func(*Generator)

// WithMaxAttempts sets the retry cap
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRandom sets the random source, mainly for tests
func WithRandom(intn func(n int) int) Option {
	return func(g *Generator) {
		if intn != nil {
			g.intn = intn
		}
	}
}

// WithObserver sets an observer for attempts and exhaustion
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		if o != nil {
			g.observer = o
		}
	}
}

// NewGenerator creates a Generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		maxAttempts: DefaultMaxAttempts,
		intn:        rand.IntN,
		observer:    noopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the configured retry cap
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate returns an identifier that was not present in the existence-check
// scope at call time. After MaxAttempts collisions it returns an error
// matching shared.ErrIdentifierExhausted. Existence-check failures are
// returned as-is; an unverified candidate is never returned.
func (g *Generator) Generate(ctx context.Context, scheme Scheme, checker ExistenceChecker) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := scheme.Candidate(g.intn)

		exists, err := checker.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s %q: %w", scheme.Kind(), candidate, err)
		}

		g.observer.Attempt(scheme.Kind(), exists)
		if !exists {
			return candidate, nil
		}
	}

	g.observer.Exhausted(scheme.Kind())
	return "", shared.NewDomainError(
		shared.ErrIdentifierExhausted.Code,
		fmt.Sprintf("Could not generate a unique %s after %d attempts", scheme.Kind(), g.maxAttempts),
	)
}
