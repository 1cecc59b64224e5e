package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenome(t *testing.T, registry *InnovationRegistry, cfg *GenomeConfig) *Genome {
	t.Helper()
	g := NewGenome(registry.GetGenomeID(), registry, cfg)
	g.ConfigureNew()
	return g
}

func TestGenome_ConfigureNew_FixedIONodes(t *testing.T) {
	registry := NewInnovationRegistry(3, 2)
	cfg := testGenomeConfig(3, 2, 0, "full")
	g := newTestGenome(t, registry, cfg)

	assert.Len(t, g.Nodes, 5)
	for i := 0; i < 3; i++ {
		require.Contains(t, g.Nodes, NodeID(i))
		assert.Equal(t, NodeInput, g.Nodes[NodeID(i)].NodeType)
	}
	for i := 3; i < 5; i++ {
		require.Contains(t, g.Nodes, NodeID(i))
		assert.Equal(t, NodeOutput, g.Nodes[NodeID(i)].NodeType)
	}
	assert.Len(t, g.Links, 6, "full scheme should wire every input to every output")
}

func TestGenome_ConfigureNew_GenesisHiddenNodesShareIDsAcrossPopulation(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 2, "unconnected")

	a := newTestGenome(t, registry, cfg)
	b := newTestGenome(t, registry, cfg)

	aHidden := a.hiddenNodeIDs()
	bHidden := b.hiddenNodeIDs()
	require.Len(t, aHidden, 2)
	require.Len(t, bHidden, 2)

	aSet := map[NodeID]bool{}
	for _, id := range aHidden {
		aSet[id] = true
	}
	for _, id := range bHidden {
		assert.True(t, aSet[id], "genesis hidden node %d should be shared across genomes", id)
	}
}

func TestGenome_Unconnected_HasNoLinks(t *testing.T) {
	registry := NewInnovationRegistry(2, 2)
	cfg := testGenomeConfig(2, 2, 0, "unconnected")
	g := newTestGenome(t, registry, cfg)
	assert.Empty(t, g.Links)
}

func TestGenome_Distance_ZeroAgainstSelf(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "full")
	g := newTestGenome(t, registry, cfg)
	speciation := testSpeciationConfig()

	assert.Equal(t, 0.0, g.Distance(g, speciation))
}

func TestGenome_Distance_Symmetric(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "full")
	a := newTestGenome(t, registry, cfg)
	b := newTestGenome(t, registry, cfg)
	speciation := testSpeciationConfig()

	assert.InDelta(t, a.Distance(b, speciation), b.Distance(a, speciation), 1e-9)
}

func TestGenome_Distance_GrowsWithDisjointGenes(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "unconnected")
	speciation := testSpeciationConfig()

	a := newTestGenome(t, registry, cfg)
	b := newTestGenome(t, registry, cfg)
	baseline := a.Distance(b, speciation)

	// Grow a disjoint link onto a alone.
	id := registry.GetLinkID(NodeID(0), NodeID(2))
	a.Links[id] = NewLinkGene(id, NodeID(0), NodeID(2), cfg)

	grown := a.Distance(b, speciation)
	assert.Greater(t, grown, baseline)
}

func TestGenome_Copy_IsIndependent(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "full")
	g := newTestGenome(t, registry, cfg)

	cp := g.Copy(registry.GetGenomeID())
	require.NotEqual(t, g.ID, cp.ID)

	for id, n := range cp.Nodes {
		n.Bias = 999
		assert.NotEqual(t, 999.0, g.Nodes[id].Bias)
	}
	for id, l := range cp.Links {
		l.Weight = 999
		assert.NotEqual(t, 999.0, g.Links[id].Weight)
	}
}

func TestGenome_Crossover_ChildGeneIDsSubsetOfPrimary(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "unconnected")

	primary := newTestGenome(t, registry, cfg)
	secondary := newTestGenome(t, registry, cfg)

	lid := registry.GetLinkID(NodeID(0), NodeID(2))
	primary.Links[lid] = NewLinkGene(lid, NodeID(0), NodeID(2), cfg)

	otherOnly := registry.GetLinkID(NodeID(1), NodeID(2))
	secondary.Links[otherOnly] = NewLinkGene(otherOnly, NodeID(1), NodeID(2), cfg)

	child := primary.Crossover(secondary, registry.GetGenomeID())

	for id := range child.Links {
		_, ok := primary.Links[id]
		assert.True(t, ok, "child link %d must come from the primary parent's gene set", id)
	}
	_, inherited := child.Links[otherOnly]
	assert.False(t, inherited, "genes present only in the non-primary parent must never be inherited")
}

func TestGenome_CreatesCycle_DetectsBackEdgeInFeedForwardMode(t *testing.T) {
	registry := NewInnovationRegistry(1, 1)
	cfg := testGenomeConfig(1, 1, 1, "unconnected")
	cfg.FeedForward = true
	g := newTestGenome(t, registry, cfg)

	hidden := g.hiddenNodeIDs()
	require.Len(t, hidden, 1)
	h := hidden[0]
	out := g.outputIDs()[0]

	id := g.Registry.GetLinkID(h, out)
	g.Links[id] = NewLinkGene(id, h, out, cfg)

	assert.True(t, g.createsCycle(out, h), "out->h would close a cycle given h->out already exists")
}

func TestWouldCreateCycle_SelfLoop(t *testing.T) {
	assert.True(t, WouldCreateCycle(nil, NodeID(1), NodeID(1)))
}

func TestWouldCreateCycle_NoExistingPath(t *testing.T) {
	links := []SLink{{In: 0, Out: 1}}
	assert.False(t, WouldCreateCycle(links, 1, 2))
}

func TestWouldCreateCycle_IndirectPath(t *testing.T) {
	links := []SLink{{In: 0, Out: 1}, {In: 1, Out: 2}}
	// 2 -> 0 would close a cycle through the existing 0->1->2 chain.
	assert.True(t, WouldCreateCycle(links, 2, 0))
}

func TestGenome_MutateDeleteNode_RemovesIncidentLinks(t *testing.T) {
	registry := NewInnovationRegistry(1, 1)
	cfg := testGenomeConfig(1, 1, 1, "full")
	g := newTestGenome(t, registry, cfg)

	hidden := g.hiddenNodeIDs()
	require.Len(t, hidden, 1)
	victim := hidden[0]

	g.mutateDeleteNode()
	for attempt := 0; attempt < 10 && len(g.hiddenNodeIDs()) > 0; attempt++ {
		g.mutateDeleteNode()
	}

	if _, ok := g.Nodes[victim]; !ok {
		for _, l := range g.Links {
			assert.NotEqual(t, victim, l.InNode)
			assert.NotEqual(t, victim, l.OutNode)
		}
	}
}

func TestGenome_MutateDeleteNode_NoopWithoutHiddenNodes(t *testing.T) {
	registry := NewInnovationRegistry(2, 1)
	cfg := testGenomeConfig(2, 1, 0, "full")
	g := newTestGenome(t, registry, cfg)

	before := len(g.Nodes)
	g.mutateDeleteNode()
	assert.Equal(t, before, len(g.Nodes))
}

func TestGenome_MutateAddNode_SplitsLinkAndDisablesOriginal(t *testing.T) {
	registry := NewInnovationRegistry(1, 1)
	cfg := testGenomeConfig(1, 1, 0, "full")
	g := newTestGenome(t, registry, cfg)

	require.Len(t, g.Links, 1)
	var originalID LinkID
	for id := range g.Links {
		originalID = id
	}

	g.mutateAddNode()

	assert.False(t, g.Links[originalID].Enabled, "split link must be disabled")
	assert.Len(t, g.Nodes, 3, "a hidden node must have been inserted")
	assert.Len(t, g.Links, 3, "two replacement links must have been added")
}
