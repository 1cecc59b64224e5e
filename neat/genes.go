package neat

import (
	"fmt"
	"math/rand"
)

// NodeGene is one node in a genome: its identity (NodeID, NodeType) is
// fixed at creation, its bias/response/aggregator/activator are the
// attributes structural and non-structural mutation touch.
type NodeGene struct {
	ID         NodeID
	NodeType   NodeType
	Bias       float64
	Response   float64
	Aggregator string
	Activator  string
}

// NewNodeGene creates a node gene with attributes drawn from cfg's initial
// distributions.
func NewNodeGene(id NodeID, nodeType NodeType, cfg *GenomeConfig) *NodeGene {
	return &NodeGene{
		ID:         id,
		NodeType:   nodeType,
		Bias:       cfg.BiasAttr().Init(),
		Response:   cfg.ResponseAttr().Init(),
		Aggregator: cfg.AggregatorAttr().Init(),
		Activator:  cfg.ActivatorAttr().Init(),
	}
}

func (n *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(id=%d, type=%s, bias=%.3f, response=%.3f, aggregator=%s, activator=%s)",
		n.ID, n.NodeType, n.Bias, n.Response, n.Aggregator, n.Activator)
}

// Copy returns a deep copy of the node gene.
func (n *NodeGene) Copy() *NodeGene {
	cp := *n
	return &cp
}

// Mutate perturbs the node's attributes in place according to cfg. Bias and
// response are float attributes; activator and aggregator are enum
// attributes. NodeType and ID never mutate.
func (n *NodeGene) Mutate(cfg *GenomeConfig) {
	n.Bias = cfg.BiasAttr().Mutate(n.Bias)
	n.Response = cfg.ResponseAttr().Mutate(n.Response)
	n.Activator = cfg.ActivatorAttr().Mutate(n.Activator)
	n.Aggregator = cfg.AggregatorAttr().Mutate(n.Aggregator)
}

// Distance measures the dissimilarity between two homologous node genes:
// absolute bias/response difference plus 1.0 for each differing
// enumerated attribute.
func (n *NodeGene) Distance(other *NodeGene) float64 {
	d := abs(n.Bias-other.Bias) + abs(n.Response-other.Response)
	if n.Activator != other.Activator {
		d += 1.0
	}
	if n.Aggregator != other.Aggregator {
		d += 1.0
	}
	return d
}

// Crossover combines two homologous node genes attribute-by-attribute,
// picking each attribute's value from n or other with equal probability.
// Identity (ID, NodeType) is always taken from the receiver, since
// homologous genes share both by construction.
func (n *NodeGene) Crossover(other *NodeGene) *NodeGene {
	child := &NodeGene{ID: n.ID, NodeType: n.NodeType}
	child.Bias = pick(n.Bias, other.Bias)
	child.Response = pick(n.Response, other.Response)
	child.Activator = pickStr(n.Activator, other.Activator)
	child.Aggregator = pickStr(n.Aggregator, other.Aggregator)
	return child
}

// Evaluate runs the node's activation: INPUT and OUTPUT nodes only
// aggregate their inputs, HIDDEN nodes additionally scale by response, add
// bias, and apply their activation function.
func (n *NodeGene) Evaluate(inputs []float64) (float64, error) {
	aggregate, err := GetAggregation(n.Aggregator)
	if err != nil {
		return 0, err
	}

	switch n.NodeType {
	case NodeInput, NodeOutput:
		return aggregate(inputs), nil
	case NodeHidden:
		activate, err := GetActivation(n.Activator)
		if err != nil {
			return 0, err
		}
		return activate(aggregate(inputs)*n.Response + n.Bias), nil
	default:
		return 0, fmt.Errorf("activation of node type %s is not implemented", n.NodeType)
	}
}

// LinkGene is one connection in a genome, keyed by its historical LinkID.
type LinkGene struct {
	ID      LinkID
	InNode  NodeID
	OutNode NodeID
	Weight  float64
	Enabled bool
	Frozen  bool
}

// NewLinkGene creates a link gene with attributes drawn from cfg's initial
// distributions.
func NewLinkGene(id LinkID, in, out NodeID, cfg *GenomeConfig) *LinkGene {
	return &LinkGene{
		ID: id, InNode: in, OutNode: out,
		Weight:  cfg.WeightAttr().Init(),
		Enabled: cfg.EnabledAttr().Init(),
		Frozen:  cfg.FrozenAttr().Init(),
	}
}

func (l *LinkGene) String() string {
	return fmt.Sprintf("LinkGene(id=%d, in=%d, out=%d, weight=%.3f, enabled=%v)",
		l.ID, l.InNode, l.OutNode, l.Weight, l.Enabled)
}

// SLink returns the (in, out) node pair this link connects.
func (l *LinkGene) SLink() SLink {
	return SLink{In: l.InNode, Out: l.OutNode}
}

// Copy returns a deep copy of the link gene.
func (l *LinkGene) Copy() *LinkGene {
	cp := *l
	return &cp
}

// Mutate perturbs the link's weight and toggle attributes in place
// according to cfg. InNode/OutNode/ID never mutate — structural changes go
// through the genome's add/delete-link operators instead.
func (l *LinkGene) Mutate(cfg *GenomeConfig) {
	l.Weight = cfg.WeightAttr().Mutate(l.Weight)
	l.Enabled = cfg.EnabledAttr().Mutate(l.Enabled)
	l.Frozen = cfg.FrozenAttr().Mutate(l.Frozen)
}

// Distance measures the dissimilarity between two homologous link genes:
// absolute weight difference plus 1.0 for each differing boolean flag.
func (l *LinkGene) Distance(other *LinkGene) float64 {
	d := abs(l.Weight - other.Weight)
	if l.Enabled != other.Enabled {
		d += 1.0
	}
	if l.Frozen != other.Frozen {
		d += 1.0
	}
	return d
}

// Crossover combines two homologous link genes attribute-by-attribute,
// picking each attribute's value from l or other with equal probability.
func (l *LinkGene) Crossover(other *LinkGene) *LinkGene {
	child := &LinkGene{ID: l.ID, InNode: l.InNode, OutNode: l.OutNode}
	child.Weight = pick(l.Weight, other.Weight)
	child.Enabled = pickBool(l.Enabled, other.Enabled)
	child.Frozen = pickBool(l.Frozen, other.Frozen)
	return child
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// pick, pickStr and pickBool implement §4.C.3's matched-gene attribute
// crossover: each attribute is independently inherited from one parent or
// the other with equal probability.
func pick(a, b float64) float64 {
	if rand.Float64() < 0.5 {
		return a
	}
	return b
}

func pickStr(a, b string) string {
	if rand.Float64() < 0.5 {
		return a
	}
	return b
}

func pickBool(a, b bool) bool {
	if rand.Float64() < 0.5 {
		return a
	}
	return b
}
