package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoise_DeterministicAndBounded(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)

	for i := 0; i < 100; i++ {
		x, y := float64(i)*0.37, float64(i)*-0.11
		v := a.At(x, y)
		assert.Equal(t, v, b.At(x, y))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNoise_SeedMatters(t *testing.T) {
	a, b := NewNoise(1), NewNoise(2)
	differs := false
	for i := 0; i < 50 && !differs; i++ {
		x := float64(i)*0.53 + 0.1
		differs = a.At(x, x) != b.At(x, x)
	}
	assert.True(t, differs)
}
