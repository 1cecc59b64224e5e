package neat

import (
	"fmt"
	"math"
	"math/rand"
)

// Genome is the genotype of one individual: a historically-marked graph of
// NodeGenes and LinkGenes plus a shared handle to the run's
// InnovationRegistry. Grounded on neat-proc's Genome dataclass and the
// teacher's genome.go, rebuilt around stable NodeID/LinkID identity instead
// of the teacher's positional connection keys, which is what lets matching
// genes be recognised across genomes during crossover and distance.
type Genome struct {
	ID       GenomeID
	Fitness  float64
	Nodes    map[NodeID]*NodeGene
	Links    map[LinkID]*LinkGene
	Registry *InnovationRegistry `yaml:"-"`
	Config   *GenomeConfig       `yaml:"-"`
}

// NewGenome creates an empty genome ready for ConfigureNew, ConfigureCrossover,
// or direct population by a caller (e.g. Copy).
func NewGenome(id GenomeID, registry *InnovationRegistry, cfg *GenomeConfig) *Genome {
	return &Genome{
		ID:       id,
		Nodes:    make(map[NodeID]*NodeGene),
		Links:    make(map[LinkID]*LinkGene),
		Registry: registry,
		Config:   cfg,
	}
}

// ConfigureNew populates a freshly created genome with the fixed INPUT and
// OUTPUT nodes (IDs 0..inputs-1 and inputs..inputs+outputs-1 per §3), any
// genesis hidden nodes, and an initial link layer per cfg.ConnectionScheme.
func (g *Genome) ConfigureNew() {
	for _, id := range g.inputIDs() {
		g.Nodes[id] = NewNodeGene(id, NodeInput, g.Config)
	}
	for _, id := range g.outputIDs() {
		g.Nodes[id] = NewNodeGene(id, NodeOutput, g.Config)
	}

	hidden := make([]NodeID, 0, g.Config.HiddenNodes)
	for i := 0; i < g.Config.HiddenNodes; i++ {
		// Genesis hidden nodes don't split a real link, but every genome in
		// the initial population requests the same synthetic split key for
		// its i-th hidden node, so the registry still hands out identical
		// IDs across the population's genesis genomes.
		id := g.Registry.GetNodeID(genesisHiddenSplitKey(i))
		g.Nodes[id] = NewNodeGene(id, NodeHidden, g.Config)
		hidden = append(hidden, id)
	}

	g.wireInitialLinks(hidden)
}

// genesisHiddenSplitKey returns a LinkID outside the range any real split
// link can ever occupy (negative), used only to key genesis hidden nodes so
// every genesis genome's i-th hidden node resolves to the same NodeID.
func genesisHiddenSplitKey(i int) LinkID {
	return LinkID(-1 - i)
}

func (g *Genome) inputIDs() []NodeID {
	ids := make([]NodeID, g.Config.Inputs)
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

func (g *Genome) outputIDs() []NodeID {
	ids := make([]NodeID, g.Config.Outputs)
	for i := range ids {
		ids[i] = NodeID(g.Config.Inputs + i)
	}
	return ids
}

func (g *Genome) wireInitialLinks(hidden []NodeID) {
	if len(hidden) == 0 {
		for _, in := range g.inputIDs() {
			for _, out := range g.outputIDs() {
				g.maybeAddInitialLink(in, out)
			}
		}
		return
	}
	for _, in := range g.inputIDs() {
		for _, h := range hidden {
			g.maybeAddInitialLink(in, h)
		}
	}
	for _, h := range hidden {
		for _, out := range g.outputIDs() {
			g.maybeAddInitialLink(h, out)
		}
	}
}

func (g *Genome) maybeAddInitialLink(in, out NodeID) {
	switch g.Config.ConnectionScheme {
	case "unconnected":
		return
	case "partial":
		frac := g.Config.ConnectionFraction
		if frac <= 0 {
			frac = 0.5
		}
		if rand.Float64() >= frac {
			return
		}
	}
	id := g.Registry.GetLinkID(in, out)
	g.Links[id] = NewLinkGene(id, in, out, g.Config)
}

// Copy returns a deep copy of the genome under a fresh GenomeID, sharing no
// mutable gene objects with the receiver. Used by reproduction's non-
// crossover branch so an elite parent retained elsewhere in the population
// can never be aliased by a later mutation of its copy.
func (g *Genome) Copy(newID GenomeID) *Genome {
	cp := NewGenome(newID, g.Registry, g.Config)
	for id, n := range g.Nodes {
		cp.Nodes[id] = n.Copy()
	}
	for id, l := range g.Links {
		cp.Links[id] = l.Copy()
	}
	return cp
}

// Distance implements §4.C.2: matched-gene attribute differences plus, per
// gene set (nodes, links) independently, a disjoint-count term normalised by
// the larger set's size.
func (g *Genome) Distance(other *Genome, speciation *SpeciationConfig) float64 {
	var nodeAttrDiff float64
	disjointNodes := 0
	for id, n := range g.Nodes {
		if on, ok := other.Nodes[id]; ok {
			nodeAttrDiff += n.Distance(on)
		} else {
			disjointNodes++
		}
	}
	for id := range other.Nodes {
		if _, ok := g.Nodes[id]; !ok {
			disjointNodes++
		}
	}

	var linkAttrDiff float64
	disjointLinks := 0
	for id, l := range g.Links {
		if ol, ok := other.Links[id]; ok {
			linkAttrDiff += l.Distance(ol)
		} else {
			disjointLinks++
		}
	}
	for id := range other.Links {
		if _, ok := g.Links[id]; !ok {
			disjointLinks++
		}
	}

	maxNodes := math.Max(1, math.Max(float64(len(g.Nodes)), float64(len(other.Nodes))))
	maxLinks := math.Max(1, math.Max(float64(len(g.Links)), float64(len(other.Links))))

	nodeDist := nodeAttrDiff + speciation.CompatibilityDisjointCoefficient*float64(disjointNodes)/maxNodes
	linkDist := linkAttrDiff + speciation.CompatibilityDisjointCoefficient*float64(disjointLinks)/maxLinks
	return nodeDist + linkDist
}

// Crossover implements §4.C.3. The receiver must be the fitter ("primary")
// parent; matched genes are produced by per-attribute coin flip, and genes
// disjoint/excess in the receiver are copied verbatim. Genes present only in
// other are never inherited, so the child's gene IDs are always a subset of
// the receiver's.
func (g *Genome) Crossover(other *Genome, childID GenomeID) *Genome {
	child := NewGenome(childID, g.Registry, g.Config)
	for id, n := range g.Nodes {
		if on, ok := other.Nodes[id]; ok {
			child.Nodes[id] = n.Crossover(on)
		} else {
			child.Nodes[id] = n.Copy()
		}
	}
	for id, l := range g.Links {
		if ol, ok := other.Links[id]; ok {
			child.Links[id] = l.Crossover(ol)
		} else {
			child.Links[id] = l.Copy()
		}
	}
	return child
}

// Mutate applies the structural mutations in the exact order specified by
// §4.C.4 — add node, delete node, add link, delete link, toggle enable —
// followed by per-gene attribute mutation. Each structural step is an
// independent silent no-op when its precondition can't be met (§4.C.6).
func (g *Genome) Mutate() {
	c := g.Config
	if rand.Float64() < c.NodeAdditionChance {
		g.mutateAddNode()
	}
	if rand.Float64() < c.NodeDeletionChance {
		g.mutateDeleteNode()
	}
	if rand.Float64() < c.LinkAdditionChance {
		g.mutateAddLink()
	}
	if rand.Float64() < c.LinkDeletionChance {
		g.mutateDeleteLink()
	}
	if rand.Float64() < c.LinkToggleChance {
		g.mutateToggleLink()
	}
	for _, n := range g.Nodes {
		n.Mutate(c)
	}
	for _, l := range g.Links {
		l.Mutate(c)
	}
}

// mutateAddNode splits a uniformly chosen enabled link: the link is
// disabled, a new hidden node is inserted, and two links recreate its
// original function (in→new at weight 1.0, new→out at the split link's
// weight). A no-op when there are no enabled links to split, unless
// AlternativeStructuralMutations falls back to mutateAddLink — the
// structural_mutation_surer behavior supplemented from original_source/.
func (g *Genome) mutateAddNode() {
	candidates := g.enabledLinkIDs()
	if len(candidates) == 0 {
		if g.Config.AlternativeStructuralMutations {
			g.mutateAddLink()
		}
		return
	}
	splitID := candidates[rand.Intn(len(candidates))]
	link := g.Links[splitID]
	link.Enabled = false

	newNodeID := g.Registry.GetNodeID(splitID)
	if _, exists := g.Nodes[newNodeID]; exists {
		return
	}
	g.Nodes[newNodeID] = NewNodeGene(newNodeID, NodeHidden, g.Config)

	inID := g.Registry.GetLinkID(link.InNode, newNodeID)
	g.Links[inID] = &LinkGene{ID: inID, InNode: link.InNode, OutNode: newNodeID, Weight: 1.0, Enabled: true}

	outID := g.Registry.GetLinkID(newNodeID, link.OutNode)
	g.Links[outID] = &LinkGene{ID: outID, InNode: newNodeID, OutNode: link.OutNode, Weight: link.Weight, Enabled: true}
}

// mutateDeleteNode removes a uniformly chosen HIDDEN node and every link
// incident to it. A no-op when the genome has no hidden nodes.
func (g *Genome) mutateDeleteNode() {
	hidden := g.hiddenNodeIDs()
	if len(hidden) == 0 {
		return
	}
	victim := hidden[rand.Intn(len(hidden))]
	delete(g.Nodes, victim)
	for id, l := range g.Links {
		if l.InNode == victim || l.OutNode == victim {
			delete(g.Links, id)
		}
	}
}

// mutateAddLink samples a candidate (in, out) pair and rejects it if the
// endpoints coincide, the ordered pair already exists, or — in feed-forward
// mode — it would close a cycle. A no-op if no valid pair turns up within a
// bounded number of attempts.
func (g *Genome) mutateAddLink() {
	inCandidates := g.nonOutputNodeIDs()
	outCandidates := g.nonInputNodeIDs()
	if len(inCandidates) == 0 || len(outCandidates) == 0 {
		return
	}
	const maxAttempts = 20
	for attempt := 0; attempt < maxAttempts; attempt++ {
		in := inCandidates[rand.Intn(len(inCandidates))]
		out := outCandidates[rand.Intn(len(outCandidates))]
		if in == out || g.hasLink(in, out) {
			continue
		}
		if g.Config.FeedForward && g.createsCycle(in, out) {
			continue
		}
		id := g.Registry.GetLinkID(in, out)
		g.Links[id] = NewLinkGene(id, in, out, g.Config)
		return
	}
}

// mutateDeleteLink drops a uniformly chosen link. A no-op on an empty link set.
func (g *Genome) mutateDeleteLink() {
	ids := g.linkIDs()
	if len(ids) == 0 {
		return
	}
	delete(g.Links, ids[rand.Intn(len(ids))])
}

// mutateToggleLink picks a uniformly random link. A disabled link is always
// re-enabled. An enabled link is disabled only if its source node has at
// least one other outgoing link, so the sub-network rooted at that source is
// never orphaned entirely; otherwise it's left untouched.
func (g *Genome) mutateToggleLink() {
	ids := g.linkIDs()
	if len(ids) == 0 {
		return
	}
	l := g.Links[ids[rand.Intn(len(ids))]]
	if !l.Enabled {
		l.Enabled = true
		return
	}
	if g.outgoingLinkCount(l.InNode) >= 2 {
		l.Enabled = false
	}
}

// ReenableRandomLink re-enables one disabled link, supplementing the default
// mutation pipeline (which never automatically re-enables) for callers that
// want to recover network capacity after heavy pruning — the
// reenable_random_link operation supplemented from original_source/. Not
// wired into Mutate; returns whether it found a disabled link to flip.
func (g *Genome) ReenableRandomLink() bool {
	for _, l := range g.Links {
		if !l.Enabled {
			l.Enabled = true
			return true
		}
	}
	return false
}

// createsCycle implements §4.C.5's fixed-point reachability probe: a
// candidate link (i, o) closes a cycle iff o can already reach i via
// existing enabled links.
func (g *Genome) createsCycle(i, o NodeID) bool {
	return WouldCreateCycle(g.enabledLinkPairs(), i, o)
}

// WouldCreateCycle is the cycle-check probe exposed for direct testing
// (§7's CycleDetected never escapes Genome itself — mutateAddLink swallows
// it as a no-op — but the probe itself is a first-class, testable function).
func WouldCreateCycle(links []SLink, i, o NodeID) bool {
	if i == o {
		return true
	}
	visited := map[NodeID]bool{o: true}
	for {
		added := false
		for _, l := range links {
			if visited[l.In] && !visited[l.Out] {
				if l.Out == i {
					return true
				}
				visited[l.Out] = true
				added = true
			}
		}
		if !added {
			break
		}
	}
	return false
}

func (g *Genome) enabledLinkIDs() []LinkID {
	ids := make([]LinkID, 0, len(g.Links))
	for id, l := range g.Links {
		if l.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Genome) linkIDs() []LinkID {
	ids := make([]LinkID, 0, len(g.Links))
	for id := range g.Links {
		ids = append(ids, id)
	}
	return ids
}

func (g *Genome) hiddenNodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if n.NodeType == NodeHidden {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Genome) nonOutputNodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if n.NodeType != NodeOutput {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Genome) nonInputNodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if n.NodeType != NodeInput {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Genome) hasLink(in, out NodeID) bool {
	for _, l := range g.Links {
		if l.InNode == in && l.OutNode == out {
			return true
		}
	}
	return false
}

func (g *Genome) outgoingLinkCount(from NodeID) int {
	n := 0
	for _, l := range g.Links {
		if l.InNode == from {
			n++
		}
	}
	return n
}

func (g *Genome) enabledLinkPairs() []SLink {
	pairs := make([]SLink, 0, len(g.Links))
	for _, l := range g.Links {
		if l.Enabled {
			pairs = append(pairs, l.SLink())
		}
	}
	return pairs
}

func (g *Genome) String() string {
	return fmt.Sprintf("Genome(id=%d, fitness=%.4f, nodes=%d, links=%d)", g.ID, g.Fitness, len(g.Nodes), len(g.Links))
}
