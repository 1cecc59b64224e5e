package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Reproduction turns a surviving SpeciesSet into the next generation's
// genome pool: §4.F's offspring allocation, truncation selection, elitism
// and mating. Grounded on the teacher's reproduction.go's overall shape
// (a struct wrapping a Stagnation collaborator plus an ancestry map) but
// rebuilt around the spec's own ceil+rescale allocation formula in place
// of the teacher's dampened-spawn-amount heuristic.
type Reproduction struct {
	Config     *ReproductionConfig
	Speciation *SpeciationConfig
	Stagnation *Stagnation

	// Ancestors records each living genome's immediate parent IDs (one for
	// a mutated copy or an elite copy, two for a crossover child, none for
	// a genesis genome) — the lineage-tracking feature supplemented from
	// original_source/.
	Ancestors map[GenomeID][]GenomeID
}

// NewReproduction builds a Reproduction bound to the given config and its
// Stagnation collaborator.
func NewReproduction(cfg *ReproductionConfig, speciation *SpeciationConfig, stagnation *Stagnation) *Reproduction {
	return &Reproduction{
		Config:     cfg,
		Speciation: speciation,
		Stagnation: stagnation,
		Ancestors:  make(map[GenomeID][]GenomeID),
	}
}

// CreateInitialPopulation returns size freshly-configured genesis genomes,
// each recorded in Ancestors with no parents.
func (r *Reproduction) CreateInitialPopulation(registry *InnovationRegistry, genomeCfg *GenomeConfig, size int) []*Genome {
	out := make([]*Genome, 0, size)
	for i := 0; i < size; i++ {
		id := registry.GetGenomeID()
		g := NewGenome(id, registry, genomeCfg)
		g.ConfigureNew()
		out = append(out, g)
		r.Ancestors[id] = nil
	}
	return out
}

// Reproduce implements §4.F: filter stagnant species, compute adjusted
// fitness, allocate offspring slots, then fill each species' slots via
// truncation-selected elitism and mating. Returns ExtinctionError if the
// stagnation filter leaves no surviving species. The returned *SpeciesSet
// holds only the species that survived the stagnation filter — §3's
// "removed when stagnant > max_stagnation" — and is what the caller must
// feed into the next Speciate call (§4.G step d: species ← filter_stagnant
// (species) happens before species ← speciate(genomes, species)).
func (r *Reproduction) Reproduce(registry *InnovationRegistry, set *SpeciesSet, population, generation int) ([]*Genome, *SpeciesSet, error) {
	r.Stagnation.Update(set)
	survivors := r.Stagnation.FilterStagnant(set)
	if len(survivors) == 0 {
		return nil, nil, &ExtinctionError{Generation: generation}
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].Info.ID < survivors[j].Info.ID })

	survivorSet := &SpeciesSet{Species: make(map[SpeciesID]*Species, len(survivors))}
	for _, sp := range survivors {
		survivorSet.Species[sp.Info.ID] = sp
	}

	var allFitness []float64
	for _, sp := range survivors {
		allFitness = append(allFitness, sp.Fitnesses()...)
	}
	minF := MinFloat(allFitness)
	maxF := MaxFloat(allFitness)
	fitnessRange := math.Max(1, maxF-minF)

	adjusted := make([]float64, len(survivors))
	sum := 0.0
	for i, sp := range survivors {
		af := (sp.Info.Fitness - minF) / fitnessRange
		sp.Info.AdjustedFitness = af
		adjusted[i] = af
		sum += af
	}

	allocation := computeOffspringPerSpecies(adjusted, sum, population, r.Config.MinSpeciesSize)

	offspring := make([]*Genome, 0, population)
	newAncestors := make(map[GenomeID][]GenomeID, population)

	for i, sp := range survivors {
		slots := allocation[i]
		if slots <= 0 || len(sp.Members) == 0 {
			continue
		}
		sp.SortMembers()

		poolSize := int(math.Ceil(float64(len(sp.Members)) * r.Speciation.SurvivalRate))
		if poolSize < r.Config.MinSpeciesSize {
			poolSize = r.Config.MinSpeciesSize
		}
		if poolSize > len(sp.Members) {
			poolSize = len(sp.Members)
		}
		pool := sp.Members[:poolSize]

		remaining := slots
		if len(sp.Members) >= r.Config.ElitismThreshold && r.Speciation.Elitism > 0 {
			eliteCount := r.Speciation.Elitism
			if eliteCount > len(sp.Members) {
				eliteCount = len(sp.Members)
			}
			if eliteCount > remaining {
				eliteCount = remaining
			}
			for j := 0; j < eliteCount; j++ {
				elite := sp.Members[j]
				id := registry.GetGenomeID()
				child := elite.Copy(id)
				child.Fitness = elite.Fitness
				offspring = append(offspring, child)
				newAncestors[id] = []GenomeID{elite.ID}
				remaining--
			}
		}

		if len(pool) == 0 {
			continue
		}

		for j := 0; j < remaining; j++ {
			parent1 := pool[rand.Intn(len(pool))]

			var child *Genome
			var parents []GenomeID
			if rand.Float64() < r.Config.CrossoverRate {
				var parent2 *Genome
				if len(survivors) > 1 && rand.Float64() < r.Config.InterSpeciesCrossoverRate {
					other := pickOtherSpecies(survivors, i)
					if other != nil && len(other.Members) > 0 {
						parent2 = other.Members[rand.Intn(len(other.Members))]
					}
				}
				if parent2 == nil {
					parent2 = pool[rand.Intn(len(pool))]
				}
				primary, secondary := parent1, parent2
				if secondary.Fitness > primary.Fitness {
					primary, secondary = secondary, primary
				}
				id := registry.GetGenomeID()
				child = primary.Crossover(secondary, id)
				parents = []GenomeID{primary.ID, secondary.ID}
			} else {
				id := registry.GetGenomeID()
				child = parent1.Copy(id)
				parents = []GenomeID{parent1.ID}
			}
			child.Mutate()
			offspring = append(offspring, child)
			newAncestors[child.ID] = parents
		}
	}

	r.Ancestors = newAncestors
	return offspring, survivorSet, nil
}

// pickOtherSpecies returns a species other than survivors[exclude], or nil
// if none exists.
func pickOtherSpecies(survivors []*Species, exclude int) *Species {
	if len(survivors) <= 1 {
		return nil
	}
	idx := rand.Intn(len(survivors) - 1)
	if idx >= exclude {
		idx++
	}
	return survivors[idx]
}

// computeOffspringPerSpecies allocates population offspring slots across
// species proportional to adjusted fitness, per §4.F step 3: each species
// gets ceil(population * adjusted_i / sum) offspring, floored at
// min_species_size, with an even split when every adjusted fitness is zero.
// The raw allocation is then rescaled so the total lands close to
// population, re-applying the min-size floor — an open question the spec
// itself allows to over- or undershoot population by up to len(survivors);
// see DESIGN.md.
func computeOffspringPerSpecies(adjusted []float64, sum float64, population, minSize int) []int {
	n := len(adjusted)
	if n == 0 {
		return nil
	}
	result := make([]int, n)
	if sum > 0 {
		for i, af := range adjusted {
			amt := int(math.Ceil(float64(population) * af / sum))
			if amt < minSize {
				amt = minSize
			}
			result[i] = amt
		}
	} else {
		even := int(math.Ceil(float64(population) / float64(n)))
		if even < minSize {
			even = minSize
		}
		for i := range result {
			result[i] = even
		}
	}

	total := 0
	for _, v := range result {
		total += v
	}
	if total == 0 {
		return result
	}

	scale := float64(population) / float64(total)
	for i := range result {
		scaled := int(math.Round(float64(result[i]) * scale))
		if scaled < minSize {
			scaled = minSize
		}
		result[i] = scaled
	}
	return result
}
