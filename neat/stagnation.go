package neat

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Stagnation computes each species' per-generation fitness and tracks how
// long it's gone without improving — the "Fitness & stagnation" half of
// §4.E, kept as its own collaborator the way the teacher's stagnation.go
// separates it from Speciate, and consumed by Reproduction's stagnation
// filter (§4.F step 1).
type Stagnation struct {
	SpeciesFitnessFunc func([]float64) float64
	MaxStagnation      int
}

// NewStagnation resolves the configured species_fitness_func against
// StatFunctions, the same dispatch table config.go's validation checks.
func NewStagnation(cfg *SpeciationConfig) (*Stagnation, error) {
	fn, ok := StatFunctions[strings.ToLower(cfg.SpeciesFitnessFunc)]
	if !ok {
		return nil, errors.Errorf("stagnation: unknown species_fitness_func %q", cfg.SpeciesFitnessFunc)
	}
	return &Stagnation{SpeciesFitnessFunc: fn, MaxStagnation: cfg.MaxStagnation}, nil
}

// Update computes each species' fitness for this generation, appends it to
// that species' history, and increments or resets its stagnation counter.
// Species are visited in ID order so ties in fitness never make the result
// depend on map iteration order.
func (s *Stagnation) Update(set *SpeciesSet) {
	ids := make([]SpeciesID, 0, len(set.Species))
	for id := range set.Species {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		sp := set.Species[id]
		sp.SortMembers()

		prevBest := math.Inf(-1)
		if len(sp.Info.FitnessHistory) > 0 {
			prevBest = MaxFloat(sp.Info.FitnessHistory)
		}

		fitnesses := sp.Fitnesses()
		fitness := math.Inf(-1)
		if len(fitnesses) > 0 {
			fitness = s.SpeciesFitnessFunc(fitnesses)
		}
		sp.Info.Fitness = fitness
		sp.Info.FitnessHistory = append(sp.Info.FitnessHistory, fitness)
		if len(sp.Info.FitnessHistory) > speciesHistoryLimit {
			sp.Info.FitnessHistory = sp.Info.FitnessHistory[len(sp.Info.FitnessHistory)-speciesHistoryLimit:]
		}

		if fitness > prevBest {
			sp.Info.Stagnant = 0
		} else {
			sp.Info.Stagnant++
		}
	}
}

// FilterStagnant returns the species whose Stagnant counter is still within
// MaxStagnation, in ID order — §4.F step 1.
func (s *Stagnation) FilterStagnant(set *SpeciesSet) []*Species {
	ids := make([]SpeciesID, 0, len(set.Species))
	for id := range set.Species {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	survivors := make([]*Species, 0, len(ids))
	for _, id := range ids {
		sp := set.Species[id]
		if sp.Info.Stagnant <= s.MaxStagnation {
			survivors = append(survivors, sp)
		}
	}
	return survivors
}
