package neat

import (
	"math/rand"
)

// FloatAttrSpec describes one mutable floating-point gene attribute (bias,
// response, weight). A single Init/Mutate pair, parameterized by this
// struct, stands in for the per-attribute mutation functions neat-python
// builds via reflection over dataclass annotations — the table lives here
// instead of in a type switch, so gene code never touches reflect.
type FloatAttrSpec struct {
	InitMean, InitStdev float64
	MinValue, MaxValue  float64
	MutationChance      float64
	ReplaceChance       float64
	MutationPower       float64
}

// Init draws a fresh value from the attribute's initial Gaussian, clamped
// to its configured range.
func (s FloatAttrSpec) Init() float64 {
	return clamp(s.InitMean+s.InitStdev*rand.NormFloat64(), s.MinValue, s.MaxValue)
}

// Mutate applies neat-python's Gene.mutate_float: with MutationChance, then
// either redraws from the initial distribution (ReplaceChance) or perturbs
// the current value by Gaussian noise scaled by MutationPower.
func (s FloatAttrSpec) Mutate(current float64) float64 {
	if rand.Float64() >= s.MutationChance {
		return current
	}
	var value float64
	if rand.Float64() < s.ReplaceChance {
		value = s.InitMean + s.InitStdev*rand.NormFloat64()
	} else {
		value = current + rand.NormFloat64()*s.MutationPower
	}
	return clamp(value, s.MinValue, s.MaxValue)
}

// EnumAttrSpec describes one mutable string-enumerated attribute
// (activator, aggregator).
type EnumAttrSpec struct {
	Default        string
	Options        []string
	MutationChance float64
}

// Init returns the configured default option.
func (s EnumAttrSpec) Init() string {
	return s.Default
}

// Mutate applies neat-python's Gene.mutate_enum: with MutationChance,
// replace the current option with a uniformly random one from Options.
func (s EnumAttrSpec) Mutate(current string) string {
	if rand.Float64() >= s.MutationChance || len(s.Options) == 0 {
		return current
	}
	return s.Options[rand.Intn(len(s.Options))]
}

// BoolAttrSpec describes one mutable boolean attribute (enabled, frozen).
type BoolAttrSpec struct {
	Default        bool
	MutationChance float64
}

// Init returns the configured default.
func (s BoolAttrSpec) Init() bool {
	return s.Default
}

// Mutate applies neat-python's Gene.mutate_bool: with MutationChance, flip
// the current value.
func (s BoolAttrSpec) Mutate(current bool) bool {
	if rand.Float64() >= s.MutationChance {
		return current
	}
	return !current
}
