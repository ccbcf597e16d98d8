package failover

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

type stubGenerator struct {
	name    string
	replies []string
	errs    []error
	calls   int
	closed  bool
}

func (s *stubGenerator) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted response")
}

func (s *stubGenerator) ModelName() string         { return s.name }
func (s *stubGenerator) Ping(context.Context) error { return nil }
func (s *stubGenerator) Close() error              { s.closed = true; return nil }

// instant replaces the backoff sleep so tests never wait.
func instant(g *Generator) {
	g.sleep = func(context.Context, time.Duration) error { return nil }
}

func TestNew_RequiresGenerators(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestGenerate_FirstGeneratorSucceeds(t *testing.T) {
	primary := &stubGenerator{name: "primary", replies: []string{"answer"}}
	backup := &stubGenerator{name: "backup"}

	g, err := New([]driven.Generator{primary, backup})
	require.NoError(t, err)
	instant(g)

	result, err := g.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "answer", result)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, backup.calls)
}

func TestGenerate_FallsThroughOnClientError(t *testing.T) {
	primary := &stubGenerator{
		name: "primary",
		errs: []error{fmt.Errorf("%w: bad request", domain.ErrGenerationFailed)},
	}
	backup := &stubGenerator{name: "backup", replies: []string{"from backup"}}

	g, err := New([]driven.Generator{primary, backup})
	require.NoError(t, err)
	instant(g)

	result, err := g.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from backup", result)
	assert.Equal(t, 1, primary.calls, "client errors must not be retried")
}

func TestGenerate_RetriesTransientErrors(t *testing.T) {
	primary := &stubGenerator{
		name:    "primary",
		errs:    []error{domain.ErrRateLimited, domain.ErrGeneratorUnavailable, nil},
		replies: []string{"", "", "recovered"},
	}

	g, err := New([]driven.Generator{primary}, WithMaxRetries(2))
	require.NoError(t, err)
	instant(g)

	result, err := g.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, primary.calls)
}

func TestGenerate_ExhaustsRetriesThenFallsThrough(t *testing.T) {
	primary := &stubGenerator{
		name: "primary",
		errs: []error{domain.ErrRateLimited, domain.ErrRateLimited},
	}
	backup := &stubGenerator{name: "backup", replies: []string{"from backup"}}

	g, err := New([]driven.Generator{primary, backup}, WithMaxRetries(1))
	require.NoError(t, err)
	instant(g)

	result, err := g.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from backup", result)
	assert.Equal(t, 2, primary.calls)
}

func TestGenerate_AllGeneratorsFail(t *testing.T) {
	primary := &stubGenerator{name: "primary", errs: []error{domain.ErrGenerationFailed}}
	backup := &stubGenerator{name: "backup", errs: []error{domain.ErrGenerationFailed}}

	g, err := New([]driven.Generator{primary, backup})
	require.NoError(t, err)
	instant(g)

	_, err = g.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	g, err := New([]driven.Generator{&stubGenerator{name: "only"}},
		WithBackoff(100*time.Millisecond, time.Second))
	require.NoError(t, err)

	first := g.backoff(1)
	assert.InDelta(t, float64(100*time.Millisecond), float64(first), float64(25*time.Millisecond))

	huge := g.backoff(20)
	assert.LessOrEqual(t, huge, time.Second)
}

func TestModelName_ListsChain(t *testing.T) {
	g, err := New([]driven.Generator{
		&stubGenerator{name: "claude"},
		&stubGenerator{name: "llama"},
	})
	require.NoError(t, err)

	assert.Equal(t, "failover(claude,llama)", g.ModelName())
}

func TestClose_ClosesAll(t *testing.T) {
	primary := &stubGenerator{name: "primary"}
	backup := &stubGenerator{name: "backup"}

	g, err := New([]driven.Generator{primary, backup})
	require.NoError(t, err)

	require.NoError(t, g.Close())
	assert.True(t, primary.closed)
	assert.True(t, backup.closed)
}
