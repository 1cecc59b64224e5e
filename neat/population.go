package neat

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

// FitnessFunc evaluates every genome in the current generation, setting
// each genome's Fitness field. Genomes are passed by reference so the
// function's only contract is "set Fitness before returning".
type FitnessFunc func(genomes []*Genome) error

// Population drives the NEAT evolutionary loop: evaluate, track the best
// genome seen, speciate, and reproduce, generation after generation, per
// §4.G. Grounded on the teacher's population.go's RunGeneration shape,
// rebuilt around the new Genome/SpeciesSet/Reproduction types and the
// slice-based FitnessFunc signature the spec favors over the teacher's
// map-by-int-key one.
type Population struct {
	Config       *Config
	Registry     *InnovationRegistry
	Genomes      []*Genome
	Species      *SpeciesSet
	Reproduction *Reproduction
	Reporter     *StatisticalData
	Logger       Logger
	Generation   int
	BestGenome   *Genome
}

// NewPopulation builds the genesis generation: a fresh InnovationRegistry,
// config.Neat.Population genesis genomes, and their initial speciation.
func NewPopulation(config *Config) (*Population, error) {
	registry := NewInnovationRegistry(config.Genome.Inputs, config.Genome.Outputs)
	stagnation, err := NewStagnation(&config.Speciation)
	if err != nil {
		return nil, err
	}
	reproduction := NewReproduction(&config.Reproduction, &config.Speciation, stagnation)

	genomes := reproduction.CreateInitialPopulation(registry, &config.Genome, config.Neat.Population)
	species := Speciate(registry, &config.Speciation, NewSpeciesSet(), genomes, 0)

	return &Population{
		Config:       config,
		Registry:     registry,
		Genomes:      genomes,
		Species:      species,
		Reproduction: reproduction,
		Reporter:     NewStatisticalData(),
		Logger:       DefaultLogger(),
		Generation:   0,
	}, nil
}

// Run drives the evolutionary loop, stopping early once the best genome's
// fitness meets config.Evaluation.FitnessThreshold. Per §4.G/§6,
// maxGenerations is optional: a non-positive value means no generation
// cap, and the loop runs until the threshold is met (or the context is
// cancelled). ctx is checked between generations so a long run can be
// cancelled. Returns the best genome found and the accumulated
// per-generation statistics, the `(best, stats)` shape §6 specifies for
// Population.run.
func (p *Population) Run(ctx context.Context, fitnessFn FitnessFunc, maxGenerations int) (*Genome, *StatisticalData, error) {
	if fitnessFn == nil {
		return nil, p.Reporter, &NoEvolutionError{Reason: "fitness function is nil"}
	}
	unbounded := maxGenerations <= 0

	for unbounded || p.Generation < maxGenerations {
		select {
		case <-ctx.Done():
			return p.BestGenome, p.Reporter, ctx.Err()
		default:
		}

		p.Generation++
		start := time.Now()
		p.Logger.Printf("****** Generation %d ******", p.Generation)

		if err := fitnessFn(p.Genomes); err != nil {
			return p.BestGenome, p.Reporter, errors.Wrapf(err, "fitness evaluation failed in generation %d", p.Generation)
		}

		best := p.currentBest()
		if best != nil && (p.BestGenome == nil || best.Fitness > p.BestGenome.Fitness) {
			snapshot := best.Copy(best.ID)
			snapshot.Fitness = best.Fitness
			p.BestGenome = snapshot
			p.Logger.Printf("new best genome: id=%d fitness=%.4f", p.BestGenome.ID, p.BestGenome.Fitness)
		}

		if p.meetsThreshold() {
			return p.BestGenome, p.Reporter, nil
		}

		p.Species = Speciate(p.Registry, &p.Config.Speciation, p.Species, p.Genomes, p.Generation)
		p.Logger.Printf("population divided into %d species", len(p.Species.Species))

		offspring, survivors, err := p.Reproduction.Reproduce(p.Registry, p.Species, p.Config.Neat.Population, p.Generation)
		if err != nil {
			var extinction *ExtinctionError
			if errors.As(err, &extinction) && p.Config.Neat.ResetOnExtinction {
				p.Logger.Printf("population extinct at generation %d, resetting", p.Generation)
				p.Genomes = p.Reproduction.CreateInitialPopulation(p.Registry, &p.Config.Genome, p.Config.Neat.Population)
				p.Species = Speciate(p.Registry, &p.Config.Speciation, NewSpeciesSet(), p.Genomes, p.Generation)
				continue
			}
			return p.BestGenome, p.Reporter, err
		}
		p.Genomes = offspring
		// survivors holds only the species that passed the stagnation
		// filter (§3: "removed when stagnant > max_stagnation"); carrying
		// it forward, not the pre-filter p.Species, is what keeps a
		// stagnant species from being reselected as a representative by
		// the next Speciate call.
		p.Species = survivors

		if p.Reporter != nil {
			p.Reporter.RecordGeneration(p.Generation, p.Species, time.Since(start))
		}
		p.Logger.Printf("generation %d finished in %s", p.Generation, time.Since(start))
	}

	return p.BestGenome, p.Reporter, nil
}

// currentBest returns the highest-fitness genome in the live population, or
// nil if the population is empty.
func (p *Population) currentBest() *Genome {
	var best *Genome
	maxFitness := math.Inf(-1)
	for _, g := range p.Genomes {
		if g.Fitness > maxFitness {
			maxFitness = g.Fitness
			best = g
		}
	}
	return best
}

// meetsThreshold reports whether BestGenome already satisfies the
// configured fitness termination condition.
func (p *Population) meetsThreshold() bool {
	if p.BestGenome == nil {
		return false
	}
	if p.Config.Evaluation.FitnessCriterion == "min" {
		return p.BestGenome.Fitness <= p.Config.Evaluation.FitnessThreshold
	}
	return p.BestGenome.Fitness >= p.Config.Evaluation.FitnessThreshold
}
