package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestMaxFloatMinFloat(t *testing.T) {
	assert.Equal(t, 3.0, MaxFloat([]float64{1, 3, 2}))
	assert.Equal(t, 1.0, MinFloat([]float64{1, 3, 2}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(10, 0, 5))
	assert.Equal(t, 0.0, clamp(-10, 0, 5))
	assert.Equal(t, 3.0, clamp(3, 0, 5))
}

func TestStatFunctions_KnownNames(t *testing.T) {
	for _, name := range []string{"mean", "stdev", "sum", "max", "min", "median"} {
		_, ok := StatFunctions[name]
		assert.True(t, ok, "StatFunctions must include %q", name)
	}
}
