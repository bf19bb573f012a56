package timeline

import "time"

const (
	defaultRowHeight        = 4
	defaultHeaderHeight     = 1
	defaultColumnCount      = 4
	defaultBufferHeight     = 50000
	defaultResetThreshold   = 2000
	defaultResetDebounce    = 150 * time.Millisecond
	defaultLoadRadius       = 2
	defaultBufferMultiplier = 3
	defaultChunkMax         = 500000
	defaultLoadMoreFraction = 0.8
)

// Options holds the engine tunables. All values are plain layout units so
// tests can run with small synthetic buffers.
type Options struct {
	// ColumnCount is the number of items per row.
	ColumnCount int

	// ColumnWidth is the width of one grid column in layout units. Used
	// only for item-rect queries; zero is allowed.
	ColumnWidth int

	// RowHeight is the height of one grid row.
	RowHeight int

	// HeaderHeight is the height of a date header.
	HeaderHeight int

	// ShowHeaders toggles date headers.
	ShowHeaders bool

	// BufferHeight is the total physical scroll headroom the anchor
	// controller presents around the anchor.
	BufferHeight int

	// ResetThreshold is the distance from either physical edge that arms a
	// pending anchor reset.
	ResetThreshold int

	// ResetDebounce is the quiet period before an armed reset executes.
	ResetDebounce time.Duration

	// LoadRadius is how many buckets around the cursor to keep loaded.
	LoadRadius int

	// BufferMultiplier defines the near-visible margin as a multiple of
	// the viewport height.
	BufferMultiplier int

	// ChunkMax bounds the height of a single rendered spacer chunk.
	ChunkMax int

	// LoadMoreFraction is the scroll fraction that triggers a legacy
	// load-more signal in bucket-less mode.
	LoadMoreFraction float64
}

// DefaultOptions returns the production tunables.
func DefaultOptions() Options {
	return Options{
		ColumnCount:      defaultColumnCount,
		RowHeight:        defaultRowHeight,
		HeaderHeight:     defaultHeaderHeight,
		ShowHeaders:      true,
		BufferHeight:     defaultBufferHeight,
		ResetThreshold:   defaultResetThreshold,
		ResetDebounce:    defaultResetDebounce,
		LoadRadius:       defaultLoadRadius,
		BufferMultiplier: defaultBufferMultiplier,
		ChunkMax:         defaultChunkMax,
		LoadMoreFraction: defaultLoadMoreFraction,
	}
}

// sanitized clamps nonsensical tunables to safe values. Zero column count or
// row height is left alone: the skeleton treats those as "not ready" and
// degrades to an empty layout instead of failing.
func (o Options) sanitized() Options {
	if o.BufferHeight <= 0 {
		o.BufferHeight = defaultBufferHeight
	}
	if o.ResetThreshold <= 0 {
		o.ResetThreshold = defaultResetThreshold
	}
	if o.ResetThreshold > o.BufferHeight/4 {
		o.ResetThreshold = o.BufferHeight / 4
	}
	if o.ResetDebounce <= 0 {
		o.ResetDebounce = defaultResetDebounce
	}
	if o.LoadRadius < 0 {
		o.LoadRadius = defaultLoadRadius
	}
	if o.BufferMultiplier <= 0 {
		o.BufferMultiplier = defaultBufferMultiplier
	}
	if o.ChunkMax <= 0 {
		o.ChunkMax = defaultChunkMax
	}
	if o.LoadMoreFraction <= 0 || o.LoadMoreFraction > 1 {
		o.LoadMoreFraction = defaultLoadMoreFraction
	}
	return o
}
