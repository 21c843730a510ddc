package search

// Totals accumulates the summary statistics for one group of rows: summed
// clicks and impressions, the impression-weighted position numerator, and an
// exact distinct-value set.
type Totals struct {
	Clicks      int64
	Impressions int64

	positionWeighted float64
	distinct         map[string]struct{}
}

// Add folds a row into the totals.
func (t *Totals) Add(r Row) {
	t.Clicks += r.Clicks
	t.Impressions += r.Impressions
	t.positionWeighted += r.Position * float64(r.Impressions)
}

// AddDistinct records a value for exact distinct counting.
func (t *Totals) AddDistinct(v string) {
	if t.distinct == nil {
		t.distinct = make(map[string]struct{})
	}
	t.distinct[v] = struct{}{}
}

// DistinctCount returns the exact cardinality recorded via AddDistinct.
func (t *Totals) DistinctCount() int {
	return len(t.distinct)
}

// AvgPosition returns the impression-weighted average position. The second
// return is false when total impressions are zero, in which case the average
// is undefined and the group must be skipped.
func (t *Totals) AvgPosition() (float64, bool) {
	if t.Impressions == 0 {
		return 0, false
	}
	return t.positionWeighted / float64(t.Impressions), true
}

// CTR returns total clicks over total impressions, false when undefined.
func (t *Totals) CTR() (float64, bool) {
	if t.Impressions == 0 {
		return 0, false
	}
	return float64(t.Clicks) / float64(t.Impressions), true
}

// GroupBy aggregates rows under the given key function.
func GroupBy(rows []Row, key func(Row) string) map[string]*Totals {
	groups := make(map[string]*Totals)
	for _, r := range rows {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &Totals{}
			groups[k] = g
		}
		g.Add(r)
	}
	return groups
}
