// Package ctr estimates expected click-through rates from ranking position.
package ctr

import "math"

// curve maps integer SERP positions 1-10 to expected CTR, based on
// industry-average click curves.
var curve = map[int]float64{
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

// CTR returned for positions on page 2 (10 < position <= 20).
const page2CTR = 0.01

// CTR returned beyond position 20.
const deepCTR = 0.005

// defaultCTR is returned when the truncated position has no curve entry.
const defaultCTR = 0.02

// EstimateForPosition returns the expected CTR for a ranking position.
// Fractional positions are floor-truncated before lookup, so 9.9 estimates
// at rank 9. Positions <= 0 fall through the table lookup to the default;
// they are not sanitized.
func EstimateForPosition(position float64) float64 {
	if position <= 10 {
		if v, ok := curve[int(math.Floor(position))]; ok {
			return v
		}
		return defaultCTR
	}
	if position <= 20 {
		return page2CTR
	}
	return deepCTR
}
