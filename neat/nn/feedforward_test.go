package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nolanwright/neatgo/neat"
)

func simpleGenomeConfig() *neat.GenomeConfig {
	return &neat.GenomeConfig{
		Inputs:             2,
		Outputs:            1,
		FeedForward:        true,
		ConnectionScheme:   "unconnected",
		ConnectionFraction: 0.5,
		ActivationDefault:  "sigmoid",
		ActivationOptions:  []string{"sigmoid"},
		AggregationDefault: "sum",
		AggregationOptions: []string{"sum"},
		BiasInitMean:       0,
		BiasMinValue:       -30,
		BiasMaxValue:       30,
		ResponseInitMean:   1,
		ResponseMinValue:   -30,
		ResponseMaxValue:   30,
		WeightInitMean:     0,
		WeightMinValue:     -30,
		WeightMaxValue:     30,
		EnabledDefault:     true,
	}
}

func TestCreateFeedForwardNetwork_DirectInputToOutput(t *testing.T) {
	registry := neat.NewInnovationRegistry(2, 1)
	cfg := simpleGenomeConfig()
	g := neat.NewGenome(registry.GetGenomeID(), registry, cfg)
	g.ConfigureNew()

	lid := registry.GetLinkID(neat.NodeID(0), neat.NodeID(2))
	g.Links[lid] = neat.NewLinkGene(lid, neat.NodeID(0), neat.NodeID(2), cfg)
	g.Links[lid].Weight = 1.0
	g.Links[lid].Enabled = true
	g.Nodes[neat.NodeID(2)].Aggregator = "sum"

	net, err := CreateFeedForwardNetwork(g)
	require.NoError(t, err)

	outputs, err := net.Activate([]float64{0.5, -3.0})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.InDelta(t, 0.5, outputs[0], 1e-9, "output node sums its inputs without activation")
}

func TestCreateFeedForwardNetwork_UnreachedOutputIsZero(t *testing.T) {
	registry := neat.NewInnovationRegistry(2, 1)
	cfg := simpleGenomeConfig()
	g := neat.NewGenome(registry.GetGenomeID(), registry, cfg)
	g.ConfigureNew()

	net, err := CreateFeedForwardNetwork(g)
	require.NoError(t, err)

	outputs, err := net.Activate([]float64{1.0, 1.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.0}, outputs)
}

func TestCreateFeedForwardNetwork_ShapeMismatch(t *testing.T) {
	registry := neat.NewInnovationRegistry(2, 1)
	cfg := simpleGenomeConfig()
	g := neat.NewGenome(registry.GetGenomeID(), registry, cfg)
	g.ConfigureNew()

	net, err := CreateFeedForwardNetwork(g)
	require.NoError(t, err)

	_, err = net.Activate([]float64{1.0})
	assert.Error(t, err)
}

func TestCreateFeedForwardNetwork_HiddenNodeLayering(t *testing.T) {
	registry := neat.NewInnovationRegistry(1, 1)
	cfg := simpleGenomeConfig()
	cfg.Inputs = 1
	cfg.Outputs = 1
	g := neat.NewGenome(registry.GetGenomeID(), registry, cfg)
	g.Nodes[neat.NodeID(0)] = neat.NewNodeGene(neat.NodeID(0), neat.NodeInput, cfg)
	g.Nodes[neat.NodeID(1)] = neat.NewNodeGene(neat.NodeID(1), neat.NodeOutput, cfg)
	hiddenID := neat.NodeID(2)
	g.Nodes[hiddenID] = neat.NewNodeGene(hiddenID, neat.NodeHidden, cfg)
	g.Nodes[hiddenID].Activator = "sigmoid"
	g.Nodes[hiddenID].Bias = 0
	g.Nodes[hiddenID].Response = 1

	l1 := registry.GetLinkID(neat.NodeID(0), hiddenID)
	g.Links[l1] = neat.NewLinkGene(l1, neat.NodeID(0), hiddenID, cfg)
	g.Links[l1].Weight = 1.0
	g.Links[l1].Enabled = true

	l2 := registry.GetLinkID(hiddenID, neat.NodeID(1))
	g.Links[l2] = neat.NewLinkGene(l2, hiddenID, neat.NodeID(1), cfg)
	g.Links[l2].Weight = 1.0
	g.Links[l2].Enabled = true

	net, err := CreateFeedForwardNetwork(g)
	require.NoError(t, err)

	outputs, err := net.Activate([]float64{0.0})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.InDelta(t, 0.5, outputs[0], 1e-6, "sigmoid(0) through the hidden node should be 0.5")
}
