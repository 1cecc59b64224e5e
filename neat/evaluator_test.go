package neat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenomes(n int) []*Genome {
	registry := NewInnovationRegistry(1, 1)
	cfg := testGenomeConfig(1, 1, 0, "unconnected")
	genomes := make([]*Genome, n)
	for i := 0; i < n; i++ {
		g := NewGenome(registry.GetGenomeID(), registry, cfg)
		g.ConfigureNew()
		genomes[i] = g
	}
	return genomes
}

func TestParallelEvaluator_Evaluate_SetsFitness(t *testing.T) {
	genomes := newTestGenomes(10)
	evaluator := NewParallelEvaluator(4, func(ctx context.Context, g *Genome) (float64, error) {
		return float64(g.ID), nil
	})

	err := evaluator.Evaluate(context.Background(), genomes)
	require.NoError(t, err)

	for _, g := range genomes {
		assert.Equal(t, float64(g.ID), g.Fitness)
	}
}

func TestParallelEvaluator_Evaluate_PropagatesWorkerError(t *testing.T) {
	genomes := newTestGenomes(10)
	boom := assert.AnError
	evaluator := NewParallelEvaluator(2, func(ctx context.Context, g *Genome) (float64, error) {
		if g.ID == genomes[5].ID {
			return 0, boom
		}
		return 1, nil
	})

	err := evaluator.Evaluate(context.Background(), genomes)
	assert.ErrorIs(t, err, boom)
}

func TestParallelEvaluator_Evaluate_PerTaskTimeout(t *testing.T) {
	genomes := newTestGenomes(1)
	evaluator := NewParallelEvaluator(1, func(ctx context.Context, g *Genome) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	evaluator.Timeout = 10 * time.Millisecond

	err := evaluator.Evaluate(context.Background(), genomes)
	var timeoutErr *EvalTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, genomes[0].ID, timeoutErr.Genome)
}

func TestParallelEvaluator_Evaluate_CancelledContext(t *testing.T) {
	genomes := newTestGenomes(5)
	evaluator := NewParallelEvaluator(1, func(ctx context.Context, g *Genome) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := evaluator.Evaluate(ctx, genomes)
	assert.Error(t, err)
}
