package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatAttrSpec_Init_RespectsRange(t *testing.T) {
	spec := FloatAttrSpec{InitMean: 0, InitStdev: 100, MinValue: -1, MaxValue: 1}
	for i := 0; i < 100; i++ {
		v := spec.Init()
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestFloatAttrSpec_Mutate_NoopBelowChance(t *testing.T) {
	spec := FloatAttrSpec{MutationChance: 0, MinValue: -10, MaxValue: 10}
	assert.Equal(t, 3.5, spec.Mutate(3.5))
}

func TestFloatAttrSpec_Mutate_RespectsRange(t *testing.T) {
	spec := FloatAttrSpec{
		InitMean: 0, InitStdev: 1000,
		MinValue: -5, MaxValue: 5,
		MutationChance: 1, ReplaceChance: 1, MutationPower: 1000,
	}
	for i := 0; i < 100; i++ {
		v := spec.Mutate(0)
		assert.GreaterOrEqual(t, v, -5.0)
		assert.LessOrEqual(t, v, 5.0)
	}
}

func TestEnumAttrSpec_Init_ReturnsDefault(t *testing.T) {
	spec := EnumAttrSpec{Default: "tanh", Options: []string{"sigmoid", "tanh"}}
	assert.Equal(t, "tanh", spec.Init())
}

func TestEnumAttrSpec_Mutate_NoopBelowChance(t *testing.T) {
	spec := EnumAttrSpec{Options: []string{"sigmoid", "tanh"}, MutationChance: 0}
	assert.Equal(t, "sigmoid", spec.Mutate("sigmoid"))
}

func TestBoolAttrSpec_Mutate_FlipsAboveChance(t *testing.T) {
	spec := BoolAttrSpec{MutationChance: 1}
	assert.Equal(t, false, spec.Mutate(true))
	assert.Equal(t, true, spec.Mutate(false))
}
