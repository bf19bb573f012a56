package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuckets(n, itemCount int) []Bucket {
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i] = Bucket{ID: fmt.Sprintf("2026-03-%02d", i+1), ItemCount: itemCount}
	}
	return buckets
}

func sectionOf(dateKey string, n int) Section {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("%s-%d", dateKey, i), DateKey: dateKey}
	}
	return Section{DateKey: dateKey, Items: items}
}

func TestSkeletonEstimatedLayout(t *testing.T) {
	m := NewSkeletonModel()
	positions, total := m.ComputeLayout(testBuckets(10, 30), nil, 3, 100, 48, true)

	require.Len(t, positions, 10)
	// ceil(30/3) * 100 + 48 per bucket.
	assert.Equal(t, 1048, positions[0].Height)
	assert.Equal(t, 10480, total)

	for i, pos := range positions {
		assert.Equal(t, i, pos.Index)
		assert.Equal(t, i*1048, pos.Top)
		assert.False(t, pos.Loaded)
	}
}

func TestSkeletonEmptyAndNotReady(t *testing.T) {
	m := NewSkeletonModel()

	positions, total := m.ComputeLayout(nil, nil, 3, 100, 48, true)
	assert.Empty(t, positions)
	assert.Equal(t, 0, total)

	// Zero columns or row height means "not ready", never a panic.
	positions, total = m.ComputeLayout(testBuckets(5, 10), nil, 0, 100, 48, true)
	assert.Empty(t, positions)
	assert.Equal(t, 0, total)

	positions, total = m.ComputeLayout(testBuckets(5, 10), nil, 3, 0, 48, true)
	assert.Empty(t, positions)
	assert.Equal(t, 0, total)
}

func TestSkeletonExactHeightFromSections(t *testing.T) {
	m := NewSkeletonModel()
	buckets := testBuckets(3, 30)
	sections := map[string][]Section{
		// 7 items -> 3 rows instead of the estimated 10.
		buckets[1].ID: {sectionOf(buckets[1].ID, 7)},
	}

	positions, total := m.ComputeLayout(buckets, sections, 3, 100, 48, true)
	require.Len(t, positions, 3)
	assert.Equal(t, 1048, positions[0].Height)
	assert.Equal(t, 348, positions[1].Height)
	assert.True(t, positions[1].Loaded)
	assert.Equal(t, 1048+348+1048, total)
}

func TestSkeletonHeightLocksMonotonically(t *testing.T) {
	m := NewSkeletonModel()
	buckets := testBuckets(2, 30)
	sections := map[string][]Section{
		buckets[0].ID: {sectionOf(buckets[0].ID, 7)},
	}

	positions, _ := m.ComputeLayout(buckets, sections, 3, 100, 48, true)
	locked := positions[0].Height
	assert.Equal(t, 348, locked)

	// A later recomputation with different sections must not move the
	// locked height, even though it would compute differently.
	sections[buckets[0].ID] = []Section{sectionOf(buckets[0].ID, 30)}
	positions, _ = m.ComputeLayout(buckets, sections, 3, 100, 48, true)
	assert.Equal(t, locked, positions[0].Height)

	// ClearCache releases the lock.
	m.ClearCache()
	positions, _ = m.ComputeLayout(buckets, sections, 3, 100, 48, true)
	assert.Equal(t, 1048, positions[0].Height)
}

func TestFindBucketAtPosition(t *testing.T) {
	m := NewSkeletonModel()
	_, total := m.ComputeLayout(testBuckets(10, 30), nil, 3, 100, 48, true)
	require.Equal(t, 10480, total)

	tests := []struct {
		name string
		pos  int
		want int
	}{
		{"origin", 0, 0},
		{"negative clamps to first", -50, 0},
		{"inside first", 1047, 0},
		{"exact second top", 1048, 1},
		{"scenario position", 5000, 4},
		{"last unit", total - 1, 9},
		{"grand total clamps to last", total, 9},
		{"beyond total clamps to last", total + 999, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.FindBucketAtPosition(tt.pos))
		})
	}
}

func TestFindBucketInvariant(t *testing.T) {
	m := NewSkeletonModel()
	buckets := testBuckets(6, 13)
	sections := map[string][]Section{
		buckets[2].ID: {sectionOf(buckets[2].ID, 4)},
	}
	positions, total := m.ComputeLayout(buckets, sections, 3, 100, 48, true)

	for v := 0; v < total; v++ {
		i := m.FindBucketAtPosition(v)
		pos := positions[i]
		assert.True(t, pos.Top <= v && v < pos.Top+pos.Height,
			"v=%d resolved to bucket %d [%d,%d)", v, i, pos.Top, pos.Top+pos.Height)
	}
}

func TestBucketsToLoad(t *testing.T) {
	m := NewSkeletonModel()
	buckets := testBuckets(10, 30)
	sections := map[string][]Section{
		buckets[4].ID: {sectionOf(buckets[4].ID, 30)},
	}
	m.ComputeLayout(buckets, sections, 3, 100, 48, true)

	assert.Equal(t, []int{2, 3, 5, 6}, m.BucketsToLoad(4, 2))
	assert.Equal(t, []int{0, 1}, m.BucketsToLoad(0, 1))
	assert.Equal(t, []int{8, 9}, m.BucketsToLoad(9, 1))
	assert.Empty(t, m.BucketsToLoad(4, 0))

	empty := NewSkeletonModel()
	assert.Empty(t, empty.BucketsToLoad(0, 5))
}

func TestScenarioTenBucketsThirtyItems(t *testing.T) {
	m := NewSkeletonModel()
	_, total := m.ComputeLayout(testBuckets(10, 30), nil, 3, 100, 48, true)
	require.Equal(t, 10480, total)

	idx := m.FindBucketAtPosition(5000)
	require.Equal(t, 4, idx)

	assert.Equal(t, []int{2, 3, 4, 5, 6}, m.BucketsToLoad(idx, 2))
}
