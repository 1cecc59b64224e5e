package neat

import (
	"sort"
)

// SpeciesInfo is a species' identity and lifecycle state — the data model
// of §3's Species: a representative genome, an age counter, a bounded
// fitness history used for stagnation detection, and the stagnation counter
// itself.
type SpeciesInfo struct {
	ID              SpeciesID
	Representative  *Genome
	Created         int
	Age             int
	FitnessHistory  []float64
	Stagnant        int
	Fitness         float64
	AdjustedFitness float64
}

// speciesHistoryLimit bounds the fitness-history deque kept per species;
// only the stagnation window actually needs to be inspected for
// improvement, so history beyond this is dropped.
const speciesHistoryLimit = 30

// Species is a cluster of genomes within compatibility_threshold of a
// representative, sorted most-fit-first once fitness is known for the
// generation (see SortMembers).
type Species struct {
	Info    SpeciesInfo
	Members []*Genome
}

// SortMembers orders Members most-fit-first, the ordering truncation
// selection and elitism (§4.F) both depend on.
func (s *Species) SortMembers() {
	sort.Slice(s.Members, func(i, j int) bool { return s.Members[i].Fitness > s.Members[j].Fitness })
}

// Fitnesses returns the fitness of every member genome, in Members order.
func (s *Species) Fitnesses() []float64 {
	out := make([]float64, len(s.Members))
	for i, g := range s.Members {
		out[i] = g.Fitness
	}
	return out
}

// SpeciesSet is the current partition of a population into species.
type SpeciesSet struct {
	Species map[SpeciesID]*Species
}

// NewSpeciesSet returns an empty species set, the starting point before the
// genesis population's first Speciate call.
func NewSpeciesSet() *SpeciesSet {
	return &SpeciesSet{Species: make(map[SpeciesID]*Species)}
}

// Speciate implements §4.E: representative reselection against the prior
// generation's species, new-species-shell creation (age++, history kept),
// minimum-distance assignment of the remaining genomes, and dropping any
// species left with zero members. Every input genome ends up in exactly one
// species.
func Speciate(registry *InnovationRegistry, speciation *SpeciationConfig, prior *SpeciesSet, genomes []*Genome, generation int) *SpeciesSet {
	unassigned := make(map[GenomeID]*Genome, len(genomes))
	for _, g := range genomes {
		unassigned[g.ID] = g
	}

	priorIDs := make([]SpeciesID, 0, len(prior.Species))
	for id := range prior.Species {
		priorIDs = append(priorIDs, id)
	}
	sort.Slice(priorIDs, func(i, j int) bool { return priorIDs[i] < priorIDs[j] })

	next := &SpeciesSet{Species: make(map[SpeciesID]*Species, len(prior.Species))}

	// Step 1+2: representative reselection into new species shells. Each
	// prior species scans the whole remaining pool and removes its pick, so
	// later species in priorIDs order draw from a shrinking pool — matching
	// the teacher's (and neat-proc's) representative-reselection order
	// rather than optimizing it; see DESIGN.md.
	for _, sid := range priorIDs {
		old := prior.Species[sid]
		if old.Info.Representative == nil || len(unassigned) == 0 {
			continue
		}
		var bestGenome *Genome
		bestDist := 0.0
		first := true
		for _, gid := range sortedGenomeIDs(unassigned) {
			g := unassigned[gid]
			d := old.Info.Representative.Distance(g, speciation)
			if first || d < bestDist {
				bestDist = d
				bestGenome = g
				first = false
			}
		}
		if bestGenome == nil {
			continue
		}
		delete(unassigned, bestGenome.ID)

		info := old.Info
		info.Representative = bestGenome
		info.Age++
		if len(info.FitnessHistory) > speciesHistoryLimit {
			info.FitnessHistory = info.FitnessHistory[len(info.FitnessHistory)-speciesHistoryLimit:]
		}
		next.Species[sid] = &Species{Info: info, Members: []*Genome{bestGenome}}
	}

	// Step 3: assign remaining genomes to the minimum-distance species,
	// creating a fresh species when none is within threshold.
	for _, gid := range sortedGenomeIDs(unassigned) {
		g := unassigned[gid]

		var bestID SpeciesID
		bestDist := 0.0
		found := false

		candidateIDs := make([]SpeciesID, 0, len(next.Species))
		for sid := range next.Species {
			candidateIDs = append(candidateIDs, sid)
		}
		sort.Slice(candidateIDs, func(i, j int) bool { return candidateIDs[i] < candidateIDs[j] })

		for _, sid := range candidateIDs {
			rep := next.Species[sid].Info.Representative
			d := rep.Distance(g, speciation)
			if d < speciation.CompatibilityThreshold && (!found || d < bestDist) {
				bestDist = d
				bestID = sid
				found = true
			}
		}

		if found {
			sp := next.Species[bestID]
			sp.Members = append(sp.Members, g)
			continue
		}

		newID := registry.GetSpeciesID()
		next.Species[newID] = &Species{
			Info: SpeciesInfo{
				ID:             newID,
				Representative: g,
				Created:        generation,
			},
			Members: []*Genome{g},
		}
	}

	// Step 4: drop species left with zero members.
	for sid, sp := range next.Species {
		if len(sp.Members) == 0 {
			delete(next.Species, sid)
		}
	}

	return next
}

func sortedGenomeIDs(m map[GenomeID]*Genome) []GenomeID {
	ids := make([]GenomeID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
