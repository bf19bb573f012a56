package timeline

import "sort"

// SkeletonModel tracks bucket metadata, computed or estimated heights,
// cumulative virtual positions, and position lookups. Heights lock once
// computed from real sections: later recomputations reuse the cached value
// even if they would differ, which keeps the layout from jittering after
// data settles.
type SkeletonModel struct {
	buckets   []Bucket
	positions []BucketPosition
	total     int

	// heights maps bucket index to its locked height. Cleared only on a
	// full scope reset.
	heights map[int]int

	// Parameters of the last layout, kept for placeholder estimation.
	columnCount int
	rowHeight   int
}

// NewSkeletonModel returns an empty skeleton.
func NewSkeletonModel() *SkeletonModel {
	return &SkeletonModel{heights: make(map[int]int)}
}

// ComputeLayout derives bucket positions and the grand total height from the
// bucket list and whatever sections have loaded so far. A column count or row
// height of zero means the host is not ready; the result is an empty layout,
// not an error.
//
// Height precedence per bucket: locked cache, exact from loaded sections
// (locking it), then the estimate ceil(itemCount/columnCount)*rowHeight plus
// the header.
func (m *SkeletonModel) ComputeLayout(buckets []Bucket, sectionsByBucket map[string][]Section, columnCount, rowHeight, headerHeight int, showHeaders bool) ([]BucketPosition, int) {
	m.buckets = buckets
	m.columnCount = columnCount
	m.rowHeight = rowHeight

	if len(buckets) == 0 || columnCount <= 0 || rowHeight <= 0 {
		m.positions = nil
		m.total = 0
		return nil, 0
	}

	positions := make([]BucketPosition, len(buckets))
	top := 0
	for i, b := range buckets {
		sections, loaded := sectionsByBucket[b.ID]
		height, ok := m.heights[i]
		if !ok {
			if loaded {
				height = exactBucketHeight(sections, columnCount, rowHeight, headerHeight, showHeaders)
				m.heights[i] = height
			} else {
				height = estimateBucketHeight(b.ItemCount, columnCount, rowHeight, headerHeight, showHeaders)
			}
		}
		positions[i] = BucketPosition{Index: i, Top: top, Height: height, Loaded: loaded}
		top += height
	}

	m.positions = positions
	m.total = top
	return positions, top
}

// FindBucketAtPosition returns the largest index i with positions[i].Top <=
// virtualPos. Positions at or below zero resolve to the first bucket and
// positions at or beyond the total resolve to the last.
func (m *SkeletonModel) FindBucketAtPosition(virtualPos int) int {
	if len(m.positions) == 0 {
		return 0
	}
	if virtualPos <= 0 {
		return 0
	}
	if virtualPos >= m.total {
		return len(m.positions) - 1
	}
	// First index whose top is strictly greater than virtualPos, minus one.
	i := sort.Search(len(m.positions), func(i int) bool {
		return m.positions[i].Top > virtualPos
	})
	return i - 1
}

// BucketsToLoad returns the unloaded bucket indices within radius of
// currentIndex, clamped to the valid range.
func (m *SkeletonModel) BucketsToLoad(currentIndex, radius int) []int {
	if len(m.positions) == 0 {
		return nil
	}
	lo := currentIndex - radius
	if lo < 0 {
		lo = 0
	}
	hi := currentIndex + radius
	if hi > len(m.positions)-1 {
		hi = len(m.positions) - 1
	}
	var out []int
	for i := lo; i <= hi; i++ {
		if !m.positions[i].Loaded {
			out = append(out, i)
		}
	}
	return out
}

// ClearCache drops all locked heights and derived positions. Invoked on data
// scope change.
func (m *SkeletonModel) ClearCache() {
	m.heights = make(map[int]int)
	m.positions = nil
	m.buckets = nil
	m.total = 0
}

// Positions returns the last computed bucket positions.
func (m *SkeletonModel) Positions() []BucketPosition {
	return m.positions
}

// Position returns the placement of bucket i and whether i is valid.
func (m *SkeletonModel) Position(i int) (BucketPosition, bool) {
	if i < 0 || i >= len(m.positions) {
		return BucketPosition{}, false
	}
	return m.positions[i], true
}

// TotalHeight returns the grand total virtual height.
func (m *SkeletonModel) TotalHeight() int {
	return m.total
}

// Count returns the number of buckets in the current scope.
func (m *SkeletonModel) Count() int {
	return len(m.buckets)
}

// Bucket returns the bucket descriptor at index i.
func (m *SkeletonModel) Bucket(i int) (Bucket, bool) {
	if i < 0 || i >= len(m.buckets) {
		return Bucket{}, false
	}
	return m.buckets[i], true
}

// EstimatedRows returns the estimated row count for bucket i, derived from
// its item count and the last layout's column count.
func (m *SkeletonModel) EstimatedRows(i int) int {
	if i < 0 || i >= len(m.buckets) || m.columnCount <= 0 {
		return 0
	}
	return ceilDiv(m.buckets[i].ItemCount, m.columnCount)
}

func exactBucketHeight(sections []Section, columnCount, rowHeight, headerHeight int, showHeaders bool) int {
	h := 0
	if showHeaders {
		h += headerHeight
	}
	for _, s := range sections {
		h += ceilDiv(len(s.Items), columnCount) * rowHeight
	}
	return h
}

func estimateBucketHeight(itemCount, columnCount, rowHeight, headerHeight int, showHeaders bool) int {
	h := ceilDiv(itemCount, columnCount) * rowHeight
	if showHeaders {
		h += headerHeight
	}
	return h
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
