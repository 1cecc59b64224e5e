package neat

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npz"
	"gopkg.in/yaml.v3"
)

// SpeciesSnapshot is one species' reported state for a single generation.
type SpeciesSnapshot struct {
	ID       SpeciesID `yaml:"id"`
	Age      int       `yaml:"age"`
	Size     int       `yaml:"size"`
	Fitness  float64   `yaml:"fitness"`
	Stagnant int       `yaml:"stagnant"`
}

// GenerationStats is everything StatisticalData records about a single
// completed generation: population-wide fitness mean/stdev, per-species
// rows, and how long the generation took.
type GenerationStats struct {
	Generation   int               `yaml:"generation"`
	MeanFitness  float64           `yaml:"mean_fitness"`
	StdevFitness float64           `yaml:"stdev_fitness"`
	BestFitness  float64           `yaml:"best_fitness"`
	Species      []SpeciesSnapshot `yaml:"species"`
	Elapsed      time.Duration     `yaml:"elapsed"`
}

// StatisticalData accumulates GenerationStats across a run — the
// `(best, stats)` half of spec.md §6's Population.run return shape.
// Mirrors the teacher's inline fmt.Printf reporting in RunGeneration, but
// collected into a struct instead of only printed.
type StatisticalData struct {
	Generations []GenerationStats
}

// NewStatisticalData returns an empty accumulator ready to be attached to a
// Population's Reporter field.
func NewStatisticalData() *StatisticalData {
	return &StatisticalData{}
}

// RecordGeneration computes population-wide fitness statistics from set's
// member genomes and appends one GenerationStats row.
func (s *StatisticalData) RecordGeneration(generation int, set *SpeciesSet, elapsed time.Duration) {
	var fitnesses []float64
	ids := make([]SpeciesID, 0, len(set.Species))
	for id := range set.Species {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	snapshots := make([]SpeciesSnapshot, 0, len(ids))
	for _, id := range ids {
		sp := set.Species[id]
		for _, g := range sp.Members {
			fitnesses = append(fitnesses, g.Fitness)
		}
		snapshots = append(snapshots, SpeciesSnapshot{
			ID:       sp.Info.ID,
			Age:      sp.Info.Age,
			Size:     len(sp.Members),
			Fitness:  sp.Info.Fitness,
			Stagnant: sp.Info.Stagnant,
		})
	}

	s.Generations = append(s.Generations, GenerationStats{
		Generation:   generation,
		MeanFitness:  Mean(fitnesses),
		StdevFitness: Stdev(fitnesses),
		BestFitness:  MaxFloat(fitnesses),
		Species:      snapshots,
		Elapsed:      elapsed,
	})
}

// meanSeries, stdevSeries and bestSeries extract the per-generation fitness
// time series recorded so far, in generation order.
func (s *StatisticalData) meanSeries() []float64 {
	out := make([]float64, len(s.Generations))
	for i, g := range s.Generations {
		out[i] = g.MeanFitness
	}
	return out
}

func (s *StatisticalData) stdevSeries() []float64 {
	out := make([]float64, len(s.Generations))
	for i, g := range s.Generations {
		out[i] = g.StdevFitness
	}
	return out
}

func (s *StatisticalData) bestSeries() []float64 {
	out := make([]float64, len(s.Generations))
	for i, g := range s.Generations {
		out[i] = g.BestFitness
	}
	return out
}

// WriteNPZ exports the fitness mean/stdev/best time series to w in NPZ
// format, for offline numpy-side analysis. Best-effort: a failure here
// never affects evolution itself, since Population.Run never calls it
// directly — callers invoke it after Run returns.
func (s *StatisticalData) WriteNPZ(w io.Writer) error {
	out := npz.NewWriter(w)
	if err := out.Write("fitness_mean", s.meanSeries()); err != nil {
		return errors.Wrap(err, "neat: writing fitness_mean to npz")
	}
	if err := out.Write("fitness_stdev", s.stdevSeries()); err != nil {
		return errors.Wrap(err, "neat: writing fitness_stdev to npz")
	}
	if err := out.Write("fitness_best", s.bestSeries()); err != nil {
		return errors.Wrap(err, "neat: writing fitness_best to npz")
	}
	return out.Close()
}

// Snapshot is the "opaque blob" persisted state spec.md §6 describes: the
// best genome found so far plus the accumulated run statistics. Callers
// must not depend on its field layout across versions.
type Snapshot struct {
	Best  *Genome           `yaml:"best"`
	Stats []GenerationStats `yaml:"stats"`
}

// WriteYAML encodes a Snapshot of best and s's accumulated generations to w.
func (s *StatisticalData) WriteYAML(w io.Writer, best *Genome) error {
	snap := Snapshot{Best: best, Stats: s.Generations}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "neat: encoding snapshot to yaml")
	}
	return nil
}
