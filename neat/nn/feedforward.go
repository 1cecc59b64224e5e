// Package nn compiles a neat.Genome into an executable feed-forward
// network: prune to the nodes required for output, topologically layer
// them, and activate layer by layer. Grounded on the teacher's
// nn/feedforward.go, rebuilt around neat.NodeID identity and the
// required-set/layering algorithm of spec §4.D instead of the teacher's
// positional node-key indexing.
package nn

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nolanwright/neatgo/neat"
)

type inputLink struct {
	sourceIndex int
	weight      float64
}

type layerMember struct {
	nodeID neat.NodeID
	node   *neat.NodeGene
	inputs []inputLink
}

// FeedForwardNetwork is a genome compiled into layers ordered so that every
// member's inputs were already computed by an earlier layer.
type FeedForwardNetwork struct {
	inputIDs  []neat.NodeID
	outputIDs []neat.NodeID
	index     map[neat.NodeID]int
	values    []float64
	layers    [][]layerMember
}

type edge struct {
	from, to neat.NodeID
	weight   float64
}

// CreateFeedForwardNetwork builds a runnable network from g, per §4.D:
// compute the required-for-output node set, then layer feed-forward-style
// starting from the input set.
func CreateFeedForwardNetwork(g *neat.Genome) (*FeedForwardNetwork, error) {
	inputs := make([]neat.NodeID, g.Config.Inputs)
	for i := range inputs {
		inputs[i] = neat.NodeID(i)
	}
	outputs := make([]neat.NodeID, g.Config.Outputs)
	for i := range outputs {
		outputs[i] = neat.NodeID(g.Config.Inputs + i)
	}
	inputSet := toSet(inputs)

	edges := make([]edge, 0, len(g.Links))
	for _, l := range g.Links {
		if !l.Enabled {
			continue
		}
		edges = append(edges, edge{from: l.InNode, to: l.OutNode, weight: l.Weight})
	}

	required := toSet(outputs)
	for {
		added := false
		for _, e := range edges {
			if required[e.to] && !required[e.from] && !inputSet[e.from] {
				required[e.from] = true
				added = true
			}
		}
		if !added {
			break
		}
	}

	reached := map[neat.NodeID]bool{}
	for id := range inputSet {
		reached[id] = true
	}
	var layers [][]neat.NodeID
	for {
		candidates := map[neat.NodeID]bool{}
		for _, e := range edges {
			if reached[e.from] && !reached[e.to] {
				candidates[e.to] = true
			}
		}
		var next []neat.NodeID
		for n := range candidates {
			if !required[n] {
				continue
			}
			ready := true
			for _, e := range edges {
				if e.to == n && !reached[e.from] {
					ready = false
					break
				}
			}
			if ready {
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		layers = append(layers, next)
		for _, n := range next {
			reached[n] = true
		}
	}

	order := append([]neat.NodeID{}, inputs...)
	for _, layer := range layers {
		order = append(order, layer...)
	}
	index := make(map[neat.NodeID]int, len(order))
	for i, id := range order {
		index[id] = i
	}

	net := &FeedForwardNetwork{
		inputIDs:  inputs,
		outputIDs: outputs,
		index:     index,
		values:    make([]float64, len(order)),
	}
	for _, layer := range layers {
		members := make([]layerMember, 0, len(layer))
		for _, id := range layer {
			node, ok := g.Nodes[id]
			if !ok {
				return nil, errors.Errorf("neat/nn: required node %d missing from genome", id)
			}
			var ins []inputLink
			for _, e := range edges {
				if e.to == id {
					ins = append(ins, inputLink{sourceIndex: index[e.from], weight: e.weight})
				}
			}
			members = append(members, layerMember{nodeID: id, node: node, inputs: ins})
		}
		net.layers = append(net.layers, members)
	}
	return net, nil
}

func toSet(ids []neat.NodeID) map[neat.NodeID]bool {
	m := make(map[neat.NodeID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Activate runs the network forward: it seeds input node values, then
// evaluates each layer in order, and returns the output nodes' values in
// output-node order. Output nodes never reached by an enabled link from the
// inputs (e.g. pruned by mutation) report 0.
func (n *FeedForwardNetwork) Activate(input []float64) ([]float64, error) {
	if len(input) != len(n.inputIDs) {
		return nil, &neat.ShapeMismatch{Want: len(n.inputIDs), Got: len(input), What: "activation inputs"}
	}
	for i, id := range n.inputIDs {
		n.values[n.index[id]] = input[i]
	}

	buf := make([]float64, 0, 8)
	for _, layer := range n.layers {
		for _, m := range layer {
			buf = buf[:0]
			for _, in := range m.inputs {
				buf = append(buf, n.values[in.sourceIndex]*in.weight)
			}
			v, err := m.node.Evaluate(buf)
			if err != nil {
				return nil, errors.Wrapf(err, "neat/nn: evaluating node %d", m.nodeID)
			}
			n.values[n.index[m.nodeID]] = v
		}
	}

	outputs := make([]float64, len(n.outputIDs))
	for i, id := range n.outputIDs {
		if idx, ok := n.index[id]; ok {
			outputs[i] = n.values[idx]
		}
	}
	return outputs, nil
}
