// Package timeline implements the virtualized scroll and layout engine behind
// the media browser. It maps an unbounded virtual scroll range onto a bounded
// physical scroll surface, keeps a position/height skeleton for buckets that
// have not loaded yet, and computes the minimal set of renderable items for
// the current viewport.
package timeline

// Bucket is a coarse time partition of the library (typically one day) with a
// known item count. Buckets are immutable once set and are replaced wholesale
// when the data scope changes.
type Bucket struct {
	// ID is an opaque sortable key, e.g. "2026-03-14".
	ID string

	// ItemCount is the number of items in the bucket.
	ItemCount int
}

// Item is a single media entry inside a section.
type Item struct {
	ID      string
	DateKey string
	Path    string
}

// Section groups items sharing a date key within one bucket. Sections arrive
// asynchronously per bucket and only ever add loaded state within a scope.
type Section struct {
	DateKey string
	Items   []Item
}

// BucketPosition is the derived placement of one bucket in virtual space.
// Tops are strictly increasing; Height moves from estimated to locked once
// real sections are measured and never reverts.
type BucketPosition struct {
	Index  int
	Top    int
	Height int
	Loaded bool
}

// LayoutItemKind discriminates the layout item union.
type LayoutItemKind int

const (
	// LayoutHeader is a date header above a bucket's rows.
	LayoutHeader LayoutItemKind = iota

	// LayoutRow is one row of up to columnCount items.
	LayoutRow

	// LayoutSpacer is a collapsed stand-in for a far-off unloaded bucket,
	// spanning its full skeleton height.
	LayoutSpacer
)

// LayoutItem is one renderable element produced by the layout engine. Items
// are produced fresh per computation and never mutated in place.
type LayoutItem struct {
	Kind        LayoutItemKind
	Top         int
	Height      int
	DateKey     string
	BucketIndex int

	// RowIndex is the row's index within its bucket. Meaningful for
	// LayoutRow only.
	RowIndex int

	// Items holds the row's media items. Empty for placeholders.
	Items []Item

	// Placeholder marks skeleton content rendered before the bucket loads.
	Placeholder bool
}

// AnchorState is the logical reference point currently pinned to a fixed
// physical scroll coordinate.
type AnchorState struct {
	// BucketIndex always indexes a valid bucket; it is clamped when the
	// bucket list shrinks.
	BucketIndex int

	// Offset is the virtual distance from the bucket's top.
	Offset int
}

// Rect is an item's rectangle in virtual layout units, as last computed.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}
