package ctr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateForPosition_TopTen(t *testing.T) {
	expected := map[float64]float64{
		1:  0.28,
		2:  0.15,
		3:  0.11,
		4:  0.08,
		5:  0.07,
		6:  0.05,
		7:  0.04,
		8:  0.03,
		9:  0.03,
		10: 0.03,
	}

	for position, want := range expected {
		assert.Equal(t, want, EstimateForPosition(position), "position %.0f", position)
	}
}

func TestEstimateForPosition_FloorTruncation(t *testing.T) {
	// 9.9 estimates at rank 9, not rank 10
	assert.Equal(t, 0.03, EstimateForPosition(9.9))
	assert.Equal(t, 0.28, EstimateForPosition(1.7))
	assert.Equal(t, 0.07, EstimateForPosition(5.99))
}

func TestEstimateForPosition_Page2(t *testing.T) {
	assert.Equal(t, 0.01, EstimateForPosition(10.1))
	assert.Equal(t, 0.01, EstimateForPosition(15))
	assert.Equal(t, 0.01, EstimateForPosition(20))
}

func TestEstimateForPosition_Deep(t *testing.T) {
	assert.Equal(t, 0.005, EstimateForPosition(20.5))
	assert.Equal(t, 0.005, EstimateForPosition(100))
}

func TestEstimateForPosition_BelowRankOne(t *testing.T) {
	// Unsanitized inputs fall through the table to the default
	assert.Equal(t, 0.02, EstimateForPosition(0))
	assert.Equal(t, 0.02, EstimateForPosition(0.5))
	assert.Equal(t, 0.02, EstimateForPosition(-3))
}
