package numbering

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	attempts   int
	collisions int
	exhausted  int
}

func (o *recordingObserver) Attempt(_ string, collided bool) {
	o.attempts++
	if collided {
		o.collisions++
	}
}

func (o *recordingObserver) Exhausted(string) {
	o.exhausted++
}

// sequence returns a random source yielding the given values in order
func sequence(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := values[i%len(values)]
		i++
		return v % n
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	scheme := SKUScheme{Name: "Blue Cotton Shirt"}

	t.Run("returns the first free candidate", func(t *testing.T) {
		gen := NewGenerator(WithRandom(sequence(42)))

		sku, err := gen.Generate(ctx, scheme, ExistenceFunc(func(context.Context, string) (bool, error) {
			return false, nil
		}))

		require.NoError(t, err)
		assert.Equal(t, "BCS-PRD-0042", sku)
	})

	t.Run("retries with a new suffix on collision", func(t *testing.T) {
		taken := map[string]bool{"BCS-PRD-0001": true, "BCS-PRD-0002": true}
		obs := &recordingObserver{}
		gen := NewGenerator(WithRandom(sequence(1, 2, 3)), WithObserver(obs))

		sku, err := gen.Generate(ctx, scheme, ExistenceFunc(func(_ context.Context, c string) (bool, error) {
			return taken[c], nil
		}))

		require.NoError(t, err)
		assert.Equal(t, "BCS-PRD-0003", sku)
		assert.False(t, taken[sku])
		assert.Equal(t, 3, obs.attempts)
		assert.Equal(t, 2, obs.collisions)
	})

	t.Run("always-collide store exhausts after exactly the cap", func(t *testing.T) {
		calls := 0
		obs := &recordingObserver{}
		gen := NewGenerator(WithObserver(obs))

		sku, err := gen.Generate(ctx, scheme, ExistenceFunc(func(context.Context, string) (bool, error) {
			calls++
			return true, nil
		}))

		assert.Empty(t, sku)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrIdentifierExhausted))
		assert.Equal(t, DefaultMaxAttempts, calls)
		assert.Equal(t, 1, obs.exhausted)
	})

	t.Run("respects a configured cap", func(t *testing.T) {
		calls := 0
		gen := NewGenerator(WithMaxAttempts(3))

		_, err := gen.Generate(ctx, scheme, ExistenceFunc(func(context.Context, string) (bool, error) {
			calls++
			return true, nil
		}))

		assert.True(t, errors.Is(err, shared.ErrIdentifierExhausted))
		assert.Equal(t, 3, calls)
	})

	t.Run("store failures propagate without returning a candidate", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		gen := NewGenerator()

		sku, err := gen.Generate(ctx, scheme, ExistenceFunc(func(context.Context, string) (bool, error) {
			return false, storeErr
		}))

		assert.Empty(t, sku)
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, errors.Is(err, shared.ErrIdentifierExhausted))
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		gen := NewGenerator()

		_, err := gen.Generate(cctx, scheme, ExistenceFunc(func(context.Context, string) (bool, error) {
			t.Fatal("store must not be queried")
			return false, nil
		}))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ignores non-positive caps", func(t *testing.T) {
		gen := NewGenerator(WithMaxAttempts(0))
		assert.Equal(t, DefaultMaxAttempts, gen.MaxAttempts())
	})
}

func TestSKUScheme(t *testing.T) {
	tests := []struct {
		name    string
		service bool
		prefix  string
	}{
		{"Blue Cotton Shirt", false, "BCS-PRD"},
		{"consulting", true, "C-SRV"},
		{"a  b   c d e", false, "ABC-PRD"},
		{"", false, "GEN-PRD"},
		{"  ", true, "GEN-SRV"},
		{"éclair box", false, "ÉB-PRD"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			s := SKUScheme{Name: tt.name, Service: tt.service}
			assert.Equal(t, tt.prefix, s.Prefix())
			assert.Equal(t, tt.prefix+"-0007", s.Candidate(sequence(7)))
		})
	}

	t.Run("suffix is always four digits", func(t *testing.T) {
		s := SKUScheme{Name: "Widget"}
		assert.Regexp(t, regexp.MustCompile(`^W-PRD-\d{4}$`), s.Candidate(sequence(9999)))
		assert.Regexp(t, regexp.MustCompile(`^W-PRD-\d{4}$`), s.Candidate(sequence(0)))
	})
}

func TestInvoiceNumberScheme(t *testing.T) {
	fixed := func() time.Time { return time.UnixMilli(1712345678901) }

	t.Run("uses default prefix", func(t *testing.T) {
		s := InvoiceNumberScheme{Now: fixed}
		assert.Equal(t, "INV-678901-005", s.Candidate(sequence(5)))
	})

	t.Run("uses tenant prefix", func(t *testing.T) {
		s := InvoiceNumberScheme{Prefix: "ACME/", Now: fixed}
		assert.Equal(t, "ACME/678901-999", s.Candidate(sequence(999)))
	})

	t.Run("pads short timestamps", func(t *testing.T) {
		s := InvoiceNumberScheme{Now: func() time.Time { return time.UnixMilli(1000000042) }}
		assert.Equal(t, "INV-000042-000", s.Candidate(sequence(0)))
	})
}
