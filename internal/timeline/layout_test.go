package timeline

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutFixture(t *testing.T, sections map[string][]Section) (*SkeletonModel, *LayoutEngine, []Bucket) {
	t.Helper()
	skeleton := NewSkeletonModel()
	buckets := testBuckets(10, 30)
	skeleton.ComputeLayout(buckets, sections, 3, 100, 48, true)

	opts := testOptions()
	opts.ColumnWidth = 120
	return skeleton, NewLayoutEngine(opts, zerolog.Nop()), buckets
}

func itemsOfKind(items []LayoutItem, kind LayoutItemKind) []LayoutItem {
	var out []LayoutItem
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

func TestLayoutLoadedBucket(t *testing.T) {
	buckets := testBuckets(10, 30)
	sections := map[string][]Section{
		buckets[0].ID: {sectionOf(buckets[0].ID, 30)},
	}
	skeleton, engine, _ := layoutFixture(t, sections)

	items, total := engine.Compute(skeleton, sections, 0, 100)
	require.NotEmpty(t, items)
	assert.Equal(t, 10480, total)

	// First bucket: one real header, ten real rows of three.
	header := items[0]
	assert.Equal(t, LayoutHeader, header.Kind)
	assert.False(t, header.Placeholder)
	assert.Equal(t, 0, header.Top)
	assert.Equal(t, 48, header.Height)

	rows := 0
	for _, it := range items {
		if it.Kind == LayoutRow && it.BucketIndex == 0 {
			assert.False(t, it.Placeholder)
			assert.Equal(t, 48+rows*100, it.Top)
			assert.Equal(t, rows, it.RowIndex)
			assert.Len(t, it.Items, 3)
			rows++
		}
	}
	assert.Equal(t, 10, rows)
}

func TestLayoutNearPlaceholders(t *testing.T) {
	skeleton, engine, _ := layoutFixture(t, nil)

	// Viewport 100 with 3x margin: window is [-300, 400]. Bucket 0 is
	// near, the rest collapse to spacers.
	items, _ := engine.Compute(skeleton, nil, 0, 100)

	headers := itemsOfKind(items, LayoutHeader)
	require.Len(t, headers, 1)
	assert.True(t, headers[0].Placeholder)
	assert.Equal(t, 0, headers[0].BucketIndex)

	rows := itemsOfKind(items, LayoutRow)
	assert.Len(t, rows, 10) // estimated rows for bucket 0
	for _, r := range rows {
		assert.True(t, r.Placeholder)
		assert.Empty(t, r.Items)
	}

	spacers := itemsOfKind(items, LayoutSpacer)
	require.Len(t, spacers, 9)
	for _, s := range spacers {
		pos, ok := skeleton.Position(s.BucketIndex)
		require.True(t, ok)
		assert.Equal(t, pos.Top, s.Top)
		assert.Equal(t, pos.Height, s.Height)
	}
}

func TestLayoutWindowFollowsScroll(t *testing.T) {
	skeleton, engine, _ := layoutFixture(t, nil)

	// Window around virtual 5000 covers buckets 4 and neighbors.
	items, _ := engine.Compute(skeleton, nil, 5000, 100)

	var placeholderBuckets []int
	for _, h := range itemsOfKind(items, LayoutHeader) {
		placeholderBuckets = append(placeholderBuckets, h.BucketIndex)
	}
	assert.Contains(t, placeholderBuckets, 4)
	assert.NotContains(t, placeholderBuckets, 0)
	assert.NotContains(t, placeholderBuckets, 9)
}

func TestLayoutTotalAlwaysFromSkeleton(t *testing.T) {
	skeleton, engine, _ := layoutFixture(t, nil)

	// Far from everything: nearly all buckets collapse, yet the total is
	// the skeleton's grand total, not the sum of emitted geometry.
	_, total := engine.Compute(skeleton, nil, 9000, 50)
	assert.Equal(t, 10480, total)
}

func TestLayoutEmptySkeleton(t *testing.T) {
	skeleton := NewSkeletonModel()
	engine := NewLayoutEngine(testOptions(), zerolog.Nop())

	items, total := engine.Compute(skeleton, nil, 0, 100)
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
}

func TestLayoutFlatFallback(t *testing.T) {
	opts := testOptions()
	opts.ShowHeaders = false
	engine := NewLayoutEngine(opts, zerolog.Nop())

	sections := []Section{sectionOf("2026-01-01", 6), sectionOf("2026-01-02", 4)}
	items, total := engine.ComputeFlat(sections)

	// 2 rows + 2 rows, 100 each, no headers.
	require.Len(t, items, 4)
	assert.Equal(t, 400, total)
	assert.Equal(t, 0, items[0].Top)
	assert.Equal(t, 200, items[2].Top)
	assert.Equal(t, "2026-01-02", items[2].DateKey)
	assert.Len(t, items[3].Items, 1)
}

func TestLayoutFlatNotReady(t *testing.T) {
	opts := testOptions()
	opts.ColumnCount = 0
	engine := NewLayoutEngine(opts, zerolog.Nop())
	// sanitized() leaves zero columns alone; flat layout degrades empty.
	items, total := engine.ComputeFlat([]Section{sectionOf("2026-01-01", 6)})
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
}

func TestItemRect(t *testing.T) {
	buckets := testBuckets(10, 30)
	sections := map[string][]Section{
		buckets[0].ID: {sectionOf(buckets[0].ID, 30)},
	}
	skeleton, engine, _ := layoutFixture(t, sections)
	engine.Compute(skeleton, sections, 0, 100)

	// Item 4 sits in row 1, column 1.
	rect, ok := engine.ItemRect(buckets[0].ID + "-4")
	require.True(t, ok)
	assert.Equal(t, Rect{Left: 120, Top: 148, Width: 120, Height: 100}, rect)

	_, ok = engine.ItemRect("no-such-item")
	assert.False(t, ok)
}

func TestFirstVisibleDate(t *testing.T) {
	skeleton, engine, buckets := layoutFixture(t, nil)

	engine.Compute(skeleton, nil, 0, 100)
	assert.Equal(t, buckets[0].ID, engine.FirstVisibleDate(0))

	engine.Compute(skeleton, nil, 5000, 100)
	assert.Equal(t, buckets[4].ID, engine.FirstVisibleDate(5000))
}
