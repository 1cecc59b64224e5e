package neat

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoint_SaveLoadRoundTrip(t *testing.T) {
	config := testConfig()
	pop, err := NewPopulation(config)
	require.NoError(t, err)

	_, _, err = pop.Run(context.Background(), func(genomes []*Genome) error {
		for i, g := range genomes {
			g.Fitness = float64(i)
		}
		return nil
	}, 2)
	require.NoError(t, err)

	dir := t.TempDir()
	checkpointPath := filepath.Join(dir, "pop.chk")
	configPath := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(configPath, []byte(validIniFixtureWithPopulation(config.Neat.Population)), 0o644))

	require.NoError(t, pop.SaveCheckpoint(checkpointPath))

	restored, err := LoadCheckpoint(checkpointPath, configPath)
	require.NoError(t, err)

	assert.Equal(t, pop.Generation, restored.Generation)
	assert.Len(t, restored.Genomes, len(pop.Genomes))

	for _, g := range restored.Genomes {
		assert.Same(t, restored.Registry, g.Registry, "every genome must be re-linked to the decoded registry")
		assert.Same(t, &restored.Config.Genome, g.Config, "every genome must be re-linked to the reloaded config")
	}
	if restored.BestGenome != nil {
		assert.Same(t, restored.Registry, restored.BestGenome.Registry)
	}
	require.NotNil(t, restored.Reproduction)
	assert.Same(t, &restored.Config.Reproduction, restored.Reproduction.Config)
	assert.Same(t, &restored.Config.Speciation, restored.Reproduction.Speciation)
	require.NotNil(t, restored.Reproduction.Stagnation)
}

func validIniFixtureWithPopulation(population int) string {
	return strings.Replace(validIniFixture, "population = 50", "population = "+strconv.Itoa(population), 1)
}
