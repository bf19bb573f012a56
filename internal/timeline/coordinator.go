package timeline

import "github.com/rs/zerolog"

// Mode selects the coordinator's loading strategy. The two strategies are
// never combined: bucket-radius loading requires bucket metadata, the legacy
// scroll-fraction trigger exists for hosts that have none.
type Mode int

const (
	// ModeBuckets loads unloaded buckets within a radius of the cursor.
	ModeBuckets Mode = iota

	// ModeLegacy appends sections in order and signals "load more" past a
	// scroll-fraction threshold.
	ModeLegacy
)

// Sink receives the coordinator's outbound notifications. All calls happen
// synchronously on the host's event loop.
type Sink interface {
	// VisibleDateChanged fires when the first visible date key changes.
	// Never fired redundantly.
	VisibleDateChanged(dateKey string)

	// LoadBucket asks the host's data layer to load bucket index for the
	// given scope generation. Requests are idempotent per scope: an index
	// already in flight is not re-requested.
	LoadBucket(generation, index int)

	// LoadMore asks for the next batch in legacy mode. At most one
	// request is outstanding at a time.
	LoadMore()
}

// Coordinator consumes raw scroll and resize signals, batches user-driven
// ticks to one per frame, and drives bucket loading and visible-item
// notifications. User scrolls are coalesced (a newer tick supersedes a
// pending one); programmatic scrolls apply synchronously so dependent layout
// recalculates immediately.
type Coordinator struct {
	opts     Options
	log      zerolog.Logger
	skeleton *SkeletonModel
	layout   *LayoutEngine
	sink     Sink

	mode       Mode
	generation int

	buckets  []Bucket
	sections map[string][]Section

	// legacySections is the flat, ordered section list used in ModeLegacy.
	legacySections []Section

	virtual  int
	viewport int

	// pendingVirtual holds a user scroll awaiting the next frame flush.
	pendingVirtual *int

	cursor          int
	lastVisibleDate string
	inFlight        map[int]struct{}
	loadMorePending bool
}

// NewCoordinator wires a coordinator over the given skeleton and layout
// engine. The sink may be nil, in which case notifications are dropped.
func NewCoordinator(skeleton *SkeletonModel, layout *LayoutEngine, sink Sink, opts Options, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		opts:     opts.sanitized(),
		log:      log,
		skeleton: skeleton,
		layout:   layout,
		sink:     sink,
		sections: make(map[string][]Section),
		inFlight: make(map[int]struct{}),
	}
}

// Generation returns the current scope generation. Section loads completing
// for an older generation are discarded.
func (c *Coordinator) Generation() int {
	return c.generation
}

// Mode returns the active loading strategy.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// SetBuckets replaces the bucket list wholesale, entering bucket mode and
// starting a new scope. Returns the new generation.
func (c *Coordinator) SetBuckets(buckets []Bucket) int {
	c.newScope()
	c.mode = ModeBuckets
	c.buckets = buckets
	c.recompute()
	return c.generation
}

// SetLegacyMode clears the scope and switches to the bucket-less strategy.
func (c *Coordinator) SetLegacyMode() int {
	c.newScope()
	c.mode = ModeLegacy
	c.recompute()
	return c.generation
}

// ClearScope drops all buckets, sections, cached heights, cursor and
// in-flight state. Invoked on scope exit.
func (c *Coordinator) ClearScope() {
	c.newScope()
	c.recompute()
}

func (c *Coordinator) newScope() {
	c.generation++
	c.buckets = nil
	c.sections = make(map[string][]Section)
	c.legacySections = nil
	c.inFlight = make(map[int]struct{})
	c.cursor = 0
	c.lastVisibleDate = ""
	c.loadMorePending = false
	c.pendingVirtual = nil
	c.virtual = 0
	c.skeleton.ClearCache()
}

// ApplySections installs a completed bucket load. Results from a generation
// other than the current one are discarded: the scope they belong to is gone.
// Reports whether the result was applied.
func (c *Coordinator) ApplySections(generation, bucketIndex int, sections []Section) bool {
	if generation != c.generation {
		c.log.Debug().
			Int("generation", generation).
			Int("current", c.generation).
			Int("bucket", bucketIndex).
			Msg("discarding stale section load")
		return false
	}
	delete(c.inFlight, bucketIndex)
	bucket, ok := c.bucketAt(bucketIndex)
	if !ok {
		return false
	}
	c.sections[bucket.ID] = sections
	c.recompute()
	return true
}

// AppendLegacySections appends the next batch in legacy mode and clears the
// outstanding load-more flag.
func (c *Coordinator) AppendLegacySections(sections []Section) {
	if c.mode != ModeLegacy {
		return
	}
	c.legacySections = append(c.legacySections, sections...)
	c.loadMorePending = false
	c.recompute()
}

// DropInFlight clears the in-flight marker for a bucket whose load failed.
// The bucket stays unloaded and is re-requested the next time it enters the
// load radius.
func (c *Coordinator) DropInFlight(bucketIndex int) {
	delete(c.inFlight, bucketIndex)
}

// Sections returns the loaded sections for a bucket id.
func (c *Coordinator) Sections(bucketID string) []Section {
	return c.sections[bucketID]
}

// OnUserScroll records a user-driven scroll tick for the next frame flush. A
// newer tick supersedes a pending one rather than queueing behind it.
func (c *Coordinator) OnUserScroll(virtual int) {
	v := virtual
	c.pendingVirtual = &v
}

// FlushFrame processes the pending user scroll tick, if any. Hosts call this
// once per rendering frame. Reports whether a tick was processed.
func (c *Coordinator) FlushFrame() bool {
	if c.pendingVirtual == nil {
		return false
	}
	v := *c.pendingVirtual
	c.pendingVirtual = nil
	c.process(v)
	return true
}

// OnProgrammaticScroll applies a controller-driven scroll synchronously,
// bypassing frame batching. Any batched user tick is superseded.
func (c *Coordinator) OnProgrammaticScroll(virtual int) {
	c.pendingVirtual = nil
	c.process(virtual)
}

// OnResize updates the viewport height and recalculates immediately.
func (c *Coordinator) OnResize(viewportHeight int) {
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	c.viewport = viewportHeight
	c.process(c.virtual)
}

// VirtualPosition returns the last processed virtual scroll offset.
func (c *Coordinator) VirtualPosition() int {
	return c.virtual
}

// Cursor returns the tracked current-bucket index.
func (c *Coordinator) Cursor() int {
	return c.cursor
}

// process is the single effective-tick path: update scroll state, recompute
// the render window, report visibility changes, and request loads.
func (c *Coordinator) process(virtual int) {
	c.virtual = virtual
	c.computeWindow()

	if date := c.layout.FirstVisibleDate(c.virtual); date != "" && date != c.lastVisibleDate {
		c.lastVisibleDate = date
		if c.sink != nil {
			c.sink.VisibleDateChanged(date)
		}
	}

	switch c.mode {
	case ModeBuckets:
		c.updateCursor()
		c.requestLoads()
	case ModeLegacy:
		c.maybeLoadMore()
	}
}

func (c *Coordinator) recompute() {
	if c.mode == ModeLegacy {
		c.layout.ComputeFlat(c.legacySections)
		return
	}
	c.skeleton.ComputeLayout(c.buckets, c.sections, c.opts.ColumnCount, c.opts.RowHeight, c.opts.HeaderHeight, c.opts.ShowHeaders)
	c.computeWindow()
}

func (c *Coordinator) computeWindow() {
	if c.mode == ModeLegacy {
		c.layout.ComputeFlat(c.legacySections)
		return
	}
	c.layout.Compute(c.skeleton, c.sections, c.virtual, c.viewport)
}

// updateCursor tracks the bucket under the virtual position. The adjacent
// check keeps the common case O(1); anything farther falls back to binary
// search.
func (c *Coordinator) updateCursor() {
	if c.contains(c.cursor, c.virtual) {
		return
	}
	if c.contains(c.cursor+1, c.virtual) {
		c.cursor++
		return
	}
	if c.contains(c.cursor-1, c.virtual) {
		c.cursor--
		return
	}
	c.cursor = c.skeleton.FindBucketAtPosition(c.virtual)
}

func (c *Coordinator) contains(index, virtual int) bool {
	pos, ok := c.skeleton.Position(index)
	if !ok {
		return false
	}
	return pos.Top <= virtual && virtual < pos.Top+pos.Height
}

// requestLoads asks the sink to load every unloaded bucket within the radius
// that is not already in flight.
func (c *Coordinator) requestLoads() {
	for _, i := range c.skeleton.BucketsToLoad(c.cursor, c.opts.LoadRadius) {
		if _, busy := c.inFlight[i]; busy {
			continue
		}
		c.inFlight[i] = struct{}{}
		if c.sink != nil {
			c.sink.LoadBucket(c.generation, i)
		}
	}
}

// maybeLoadMore fires the legacy load-more signal once the scroll fraction
// passes the threshold, with at most one request outstanding.
func (c *Coordinator) maybeLoadMore() {
	total := c.layout.TotalHeight()
	if total <= 0 || c.loadMorePending {
		return
	}
	fraction := float64(c.virtual+c.viewport) / float64(total)
	if fraction < c.opts.LoadMoreFraction {
		return
	}
	c.loadMorePending = true
	if c.sink != nil {
		c.sink.LoadMore()
	}
}

func (c *Coordinator) bucketAt(i int) (Bucket, bool) {
	if i < 0 || i >= len(c.buckets) {
		return Bucket{}, false
	}
	return c.buckets[i], true
}
