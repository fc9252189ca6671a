package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStressWindow_FIFOEviction(t *testing.T) {
	w := newStressWindow(84)

	// 84 days of constant stress fill the window exactly.
	for i := 0; i < 84; i++ {
		w.Push(0.25)
	}
	assert.Equal(t, 84, w.Len())
	assert.InDelta(t, 84*0.25, w.Sum(), 1e-9)

	// Day 85 evicts day 1: sum = sum84 - stress(day1) + stress(day85).
	w.Push(0.75)
	assert.Equal(t, 84, w.Len())
	assert.InDelta(t, 84*0.25-0.25+0.75, w.Sum(), 1e-9)
}

func TestStressWindow_PartialFill(t *testing.T) {
	w := newStressWindow(84)

	w.Push(1.5)
	w.Push(0.5)

	assert.Equal(t, 2, w.Len())
	assert.InDelta(t, 2.0, w.Sum(), 1e-9)
}

func TestStressWindow_DistinctValuesRotate(t *testing.T) {
	w := newStressWindow(3)

	for _, v := range []float64{1, 2, 3} {
		w.Push(v)
	}
	assert.InDelta(t, 6, w.Sum(), 1e-9)

	w.Push(10) // evicts 1
	assert.InDelta(t, 15, w.Sum(), 1e-9)
	w.Push(20) // evicts 2
	assert.InDelta(t, 33, w.Sum(), 1e-9)
}

func TestAlertWindow_RollingMax(t *testing.T) {
	w := newAlertWindow(7)

	// A single level-4 day dominates the composite while inside the window.
	for _, l := range []AlertLevel{0, 0, 0, 4, 0, 0, 0} {
		w.Push(l)
		if l == AlertLevel2 {
			assert.Equal(t, AlertLevel2, w.Max())
		}
	}
	assert.Equal(t, AlertLevel2, w.Max())

	// Three more pushes keep the level-4 entry inside the 7-slot window.
	w.Push(AlertWatch)
	w.Push(AlertNoStress)
	w.Push(AlertNoStress)
	assert.Equal(t, AlertLevel2, w.Max())

	// The next push evicts it; the max reverts to the remaining entries.
	w.Push(AlertNoStress)
	assert.Equal(t, AlertWatch, w.Max())
}

func TestAlertWindow_EmptyMaxIsNoStress(t *testing.T) {
	w := newAlertWindow(7)
	assert.Equal(t, AlertNoStress, w.Max())
	assert.Equal(t, 0, w.Len())
}
