package pixoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		durations []int
		tick      int
		factors   []int
	}{
		{"too fast", []int{10, 10, 10}, 25, []int{1, 1, 1}},
		{"multiples", []int{100, 200, 400}, 100, []int{1, 2, 4}},
		{"single", []int{103}, 103, []int{1}},
		{"half to even down", []int{100, 250}, 100, []int{1, 2}},
		{"half to even up", []int{100, 350}, 100, []int{1, 4}},
		{"zero kept visible", []int{0, 50}, 25, []int{1, 2}},
		{"clamped", []int{70000}, 0xFFFF, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tick, factors := Normalize(tt.durations)
			assert.Equal(t, tt.tick, tick)
			assert.Equal(t, tt.factors, factors)
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	tick, factors := Normalize(nil)
	assert.Equal(t, MinTickMs, tick)
	assert.Empty(t, factors)
}

func TestNormalizeNeverBelowMinimum(t *testing.T) {
	for _, d := range []int{-5, 0, 1, 24, 25, 26, 1000} {
		tick, factors := Normalize([]int{d})
		assert.GreaterOrEqual(t, tick, MinTickMs)
		assert.GreaterOrEqual(t, factors[0], 1)
	}
}

func TestDurationTag(t *testing.T) {
	assert.Equal(t, 100, DurationTag(0))
	assert.Equal(t, 115, DurationTag(15))
}
