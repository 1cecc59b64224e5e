package neat

import "sync"

// InnovationRegistry is the single shared owner of historical markers for a
// run: every genome that grows the same structural feature — splitting the
// same link, or adding a link between the same pair of nodes — is assigned
// the same NodeID/LinkID, which is what makes gene alignment in Crossover
// meaningful. All four counters are guarded by one mutex; there is no
// sharding, matching the "single owner with interior synchronization"
// design this package follows for its only piece of inter-genome shared
// state. Grounded on neat-proc's InnovationRecord.
type InnovationRegistry struct {
	mu sync.Mutex

	nodesCounter NodeID
	nodesRecord  map[LinkID]NodeID

	linksCounter LinkID
	linksRecord  map[SLink]LinkID

	speciesCounter SpeciesID
	genomesCounter GenomeID
}

// NewInnovationRegistry creates a registry for a genome population with the
// given number of input and output nodes. Node IDs below inputs+outputs are
// reserved for the initial input/output nodes and are never reassigned by
// GetNodeID.
func NewInnovationRegistry(inputs, outputs int) *InnovationRegistry {
	return &InnovationRegistry{
		nodesCounter: NodeID(inputs + outputs),
		nodesRecord:  make(map[LinkID]NodeID),
		linksRecord:  make(map[SLink]LinkID),
	}
}

// GetNodeID returns the NodeID assigned to splitting linkToSplit, assigning
// a fresh one the first time this link is split in the run.
func (r *InnovationRegistry) GetNodeID(linkToSplit LinkID) NodeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.nodesRecord[linkToSplit]; ok {
		return id
	}
	id := r.nodesCounter
	r.nodesRecord[linkToSplit] = id
	r.nodesCounter++
	return id
}

// GetLinkID returns the LinkID assigned to the (in, out) link, assigning a
// fresh one the first time this exact link is created in the run.
func (r *InnovationRegistry) GetLinkID(in, out NodeID) LinkID {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := SLink{In: in, Out: out}
	if id, ok := r.linksRecord[key]; ok {
		return id
	}
	id := r.linksCounter
	r.linksRecord[key] = id
	r.linksCounter++
	return id
}

// GetSpeciesID returns the next never-before-issued SpeciesID.
func (r *InnovationRegistry) GetSpeciesID() SpeciesID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.speciesCounter
	r.speciesCounter++
	return id
}

// GetGenomeID returns the next never-before-issued GenomeID.
func (r *InnovationRegistry) GetGenomeID() GenomeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.genomesCounter
	r.genomesCounter++
	return id
}
