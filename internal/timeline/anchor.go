package timeline

import (
	"time"

	"github.com/rs/zerolog"
)

// AnchorController presents an unbounded virtual scroll range on top of a
// bounded physical scroll surface. One (bucketIndex, offset) pair — the
// anchor — is pinned to a fixed physical coordinate; when the user nears a
// physical edge the controller silently re-anchors and teleports the physical
// position back toward that coordinate, so the perceived content never jumps.
//
// The controller is boundary aware: the physical padding above and below the
// anchor shrinks near the true start and end of content, so the surface never
// offers spurious scroll room past either edge.
//
// Time is injected. The host forwards scroll events to HandleScroll and calls
// Tick periodically; the controller never starts timers of its own.
type AnchorController struct {
	opts     Options
	skeleton *SkeletonModel
	log      zerolog.Logger

	committed AnchorState

	// pending is a staged anchor write. Reads inside the same synchronous
	// update observe it before it is committed, which gives the
	// read-your-own-write behavior the reset sequence depends on.
	pending *AnchorState

	physical int
	viewport int

	// resetDeadline is the time an armed reset becomes due. Zero when no
	// reset is pending.
	resetDeadline time.Time

	// resetting guards against a reset being requested while one is
	// already executing.
	resetting bool

	// programmatic counts physical-scroll assignments made by the
	// controller itself; the host's echo of each is swallowed instead of
	// being treated as user input.
	programmatic int
}

// NewAnchorController creates a controller over the given skeleton.
func NewAnchorController(skeleton *SkeletonModel, opts Options, log zerolog.Logger) *AnchorController {
	return &AnchorController{
		opts:     opts.sanitized(),
		skeleton: skeleton,
		log:      log,
	}
}

// Anchor returns the current anchor state, observing any staged write.
func (c *AnchorController) Anchor() AnchorState {
	if c.pending != nil {
		return *c.pending
	}
	return c.committed
}

func (c *AnchorController) stageAnchor(a AnchorState) {
	c.pending = &a
}

func (c *AnchorController) commitAnchor() {
	if c.pending != nil {
		c.committed = *c.pending
		c.pending = nil
	}
}

// anchorVirtual is the anchor's absolute virtual position, with the bucket
// index clamped in case the bucket list shrank underneath it.
func (c *AnchorController) anchorVirtual() int {
	positions := c.skeleton.Positions()
	if len(positions) == 0 {
		return 0
	}
	a := c.Anchor()
	i := a.BucketIndex
	if i < 0 {
		i = 0
	}
	if i > len(positions)-1 {
		i = len(positions) - 1
	}
	v := positions[i].Top + a.Offset
	return clamp(v, 0, c.skeleton.TotalHeight())
}

// topPadding is the physical space kept above the anchor: the smaller of the
// virtual space actually above it and half the buffer.
func (c *AnchorController) topPadding() int {
	return minInt(c.anchorVirtual(), c.opts.BufferHeight/2)
}

// bottomPadding is the physical space kept below the anchor.
func (c *AnchorController) bottomPadding() int {
	below := c.skeleton.TotalHeight() - c.anchorVirtual()
	return minInt(below, c.opts.BufferHeight/2)
}

// PhysicalHeight is the content height the physical scroll surface should
// report. Never less than the viewport.
func (c *AnchorController) PhysicalHeight() int {
	h := c.topPadding() + c.bottomPadding()
	if h < c.viewport {
		h = c.viewport
	}
	return h
}

// maxPhysical is the largest valid physical scroll offset.
func (c *AnchorController) maxPhysical() int {
	m := c.PhysicalHeight() - c.viewport
	if m < 0 {
		m = 0
	}
	return m
}

// PhysicalScroll returns the physical offset the surface should currently
// hold. After a reset or an imperative jump the host must move its surface
// here; the echoed scroll event is then swallowed as programmatic.
func (c *AnchorController) PhysicalScroll() int {
	return c.physical
}

// VirtualPosition translates the current physical offset into virtual space,
// clamped to [0, totalHeight]. With zero buckets it is always 0.
func (c *AnchorController) VirtualPosition() int {
	if c.skeleton.Count() == 0 {
		return 0
	}
	v := c.anchorVirtual() + (c.physical - c.topPadding())
	return clamp(v, 0, c.skeleton.TotalHeight())
}

// SetViewport records the viewport height and re-clamps the physical offset.
func (c *AnchorController) SetViewport(height int) {
	if height < 0 {
		height = 0
	}
	c.viewport = height
	c.physical = clamp(c.physical, 0, c.maxPhysical())
}

// Viewport returns the current viewport height.
func (c *AnchorController) Viewport() int {
	return c.viewport
}

// HandleScroll processes a physical scroll event from the host and returns
// the resulting virtual position. User scrolls cancel any pending reset and,
// when near a physical edge, arm a new debounced one. Echoes of the
// controller's own scroll assignments are consumed without arming anything.
func (c *AnchorController) HandleScroll(physical int, now time.Time) int {
	if c.programmatic > 0 {
		c.programmatic--
		c.physical = clamp(physical, 0, c.maxPhysical())
		return c.VirtualPosition()
	}

	c.physical = clamp(physical, 0, c.maxPhysical())

	// A new user scroll always supersedes a pending reset; proximity to an
	// edge re-arms the debounce from now.
	c.resetDeadline = time.Time{}
	if c.nearEdge() {
		c.resetDeadline = now.Add(c.opts.ResetDebounce)
	}
	return c.VirtualPosition()
}

// nearEdge reports whether the physical offset sits within the reset
// threshold of an edge that still has unreachable virtual content behind it.
// Near the true start or end of content a reset would accomplish nothing, so
// those edges never arm.
func (c *AnchorController) nearEdge() bool {
	if c.skeleton.Count() == 0 {
		return false
	}
	anchorV := c.anchorVirtual()
	clampedAbove := anchorV > c.topPadding()
	clampedBelow := c.skeleton.TotalHeight()-anchorV > c.bottomPadding()

	if c.physical < c.opts.ResetThreshold && clampedAbove {
		return true
	}
	if c.maxPhysical()-c.physical < c.opts.ResetThreshold && clampedBelow {
		return true
	}
	return false
}

// Tick executes a due reset, if any. It reports whether the physical surface
// must be repositioned; the host then applies PhysicalScroll to its surface.
// The virtual position is identical before and after a reset — only the
// physical coordinate moves.
func (c *AnchorController) Tick(now time.Time) bool {
	if c.resetDeadline.IsZero() || now.Before(c.resetDeadline) || c.resetting {
		return false
	}
	c.resetDeadline = time.Time{}

	// The user may have scrolled away from the edge since arming.
	if !c.nearEdge() {
		return false
	}

	c.resetting = true
	defer func() { c.resetting = false }()

	v := c.VirtualPosition()
	i := c.skeleton.FindBucketAtPosition(v)
	pos, ok := c.skeleton.Position(i)
	if !ok {
		return false
	}

	c.stageAnchor(AnchorState{BucketIndex: i, Offset: v - pos.Top})
	c.programmatic++
	c.physical = c.topPadding()
	c.commitAnchor()

	c.log.Debug().
		Int("bucket", i).
		Int("virtual", v).
		Int("physical", c.physical).
		Msg("anchor reset")
	return true
}

// ScrollToAnchor jumps to an explicit (bucket, offset) target, e.g. from a
// scrubber. Any pending reset is cancelled, the anchor is set directly, and
// the physical surface is recentered.
func (c *AnchorController) ScrollToAnchor(bucketIndex, offset int) {
	c.resetDeadline = time.Time{}

	count := c.skeleton.Count()
	if count == 0 {
		c.stageAnchor(AnchorState{})
		c.physical = 0
		c.commitAnchor()
		return
	}
	bucketIndex = clamp(bucketIndex, 0, count-1)
	if pos, ok := c.skeleton.Position(bucketIndex); ok {
		offset = clamp(offset, 0, pos.Height)
	}

	c.stageAnchor(AnchorState{BucketIndex: bucketIndex, Offset: offset})
	c.programmatic++
	c.physical = clamp(c.topPadding(), 0, c.maxPhysical())
	c.commitAnchor()
}

// Revalidate re-clamps the anchor after the skeleton changed shape (bucket
// list shrank or heights moved). The anchor must always index a valid bucket.
func (c *AnchorController) Revalidate() {
	count := c.skeleton.Count()
	a := c.Anchor()
	if count == 0 {
		c.stageAnchor(AnchorState{})
		c.physical = 0
		c.commitAnchor()
		return
	}
	if a.BucketIndex >= count || a.BucketIndex < 0 {
		c.stageAnchor(AnchorState{BucketIndex: clamp(a.BucketIndex, 0, count-1)})
		c.commitAnchor()
	}
	c.physical = clamp(c.physical, 0, c.maxPhysical())
}

// Reset returns the controller to its mount state: anchor {0,0}, no pending
// reset, physical offset at origin.
func (c *AnchorController) Reset() {
	c.stageAnchor(AnchorState{})
	c.commitAnchor()
	c.physical = 0
	c.resetDeadline = time.Time{}
	c.resetting = false
	c.programmatic = 0
}

// ResetPending reports whether a debounced reset is armed.
func (c *AnchorController) ResetPending() bool {
	return !c.resetDeadline.IsZero()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
