package timeline

import "github.com/rs/zerolog"

// LayoutEngine converts the bucket skeleton plus whatever sections have
// loaded into a bounded list of renderable items for the current viewport
// window. Buckets choose one of three render strategies:
//
//  1. loaded: real header and rows,
//  2. unloaded but within the near-visible margin: placeholder header and
//     rows sized from the estimate, keeping scroll geometry stable,
//  3. unloaded and far away: one collapsed spacer spanning the bucket.
//
// The total height always comes from the skeleton, never from the emitted
// items, so the scrollbar does not depend on how much is actually rendered.
type LayoutEngine struct {
	opts Options
	log  zerolog.Logger

	items []LayoutItem
	total int
}

// NewLayoutEngine returns an engine with the given tunables.
func NewLayoutEngine(opts Options, log zerolog.Logger) *LayoutEngine {
	return &LayoutEngine{opts: opts.sanitized(), log: log}
}

// Compute produces the render list for the window starting at virtualTop.
// The near-visible margin extends BufferMultiplier viewport heights beyond
// the strict viewport on both sides.
func (e *LayoutEngine) Compute(skeleton *SkeletonModel, sectionsByBucket map[string][]Section, virtualTop, viewportHeight int) ([]LayoutItem, int) {
	positions := skeleton.Positions()
	total := skeleton.TotalHeight()
	e.total = total
	if len(positions) == 0 {
		e.items = nil
		return nil, 0
	}

	margin := e.opts.BufferMultiplier * viewportHeight
	windowLo := virtualTop - margin
	windowHi := virtualTop + viewportHeight + margin

	items := make([]LayoutItem, 0, 64)
	for _, pos := range positions {
		bucket, ok := skeleton.Bucket(pos.Index)
		if !ok {
			continue
		}
		switch {
		case pos.Loaded:
			items = e.appendLoaded(items, pos, bucket, sectionsByBucket[bucket.ID])
		case pos.Top+pos.Height >= windowLo && pos.Top <= windowHi:
			items = e.appendPlaceholder(items, pos, bucket, skeleton.EstimatedRows(pos.Index))
		default:
			items = append(items, LayoutItem{
				Kind:        LayoutSpacer,
				Top:         pos.Top,
				Height:      pos.Height,
				DateKey:     bucket.ID,
				BucketIndex: pos.Index,
				Placeholder: true,
			})
		}
	}

	e.items = items
	return items, total
}

// appendLoaded emits the real header and rows for a loaded bucket. Rows are
// positioned by a running offset inside the bucket.
func (e *LayoutEngine) appendLoaded(items []LayoutItem, pos BucketPosition, bucket Bucket, sections []Section) []LayoutItem {
	offset := pos.Top
	if e.opts.ShowHeaders {
		dateKey := bucket.ID
		if len(sections) > 0 {
			dateKey = sections[0].DateKey
		}
		items = append(items, LayoutItem{
			Kind:        LayoutHeader,
			Top:         offset,
			Height:      e.opts.HeaderHeight,
			DateKey:     dateKey,
			BucketIndex: pos.Index,
		})
		offset += e.opts.HeaderHeight
	}

	rowIndex := 0
	for _, section := range sections {
		for start := 0; start < len(section.Items); start += e.opts.ColumnCount {
			end := start + e.opts.ColumnCount
			if end > len(section.Items) {
				end = len(section.Items)
			}
			items = append(items, LayoutItem{
				Kind:        LayoutRow,
				Top:         offset,
				Height:      e.opts.RowHeight,
				DateKey:     section.DateKey,
				BucketIndex: pos.Index,
				RowIndex:    rowIndex,
				Items:       section.Items[start:end],
			})
			offset += e.opts.RowHeight
			rowIndex++
		}
	}
	return items
}

// appendPlaceholder emits a skeleton header and estimated rows for a
// near-visible bucket that has not loaded yet.
func (e *LayoutEngine) appendPlaceholder(items []LayoutItem, pos BucketPosition, bucket Bucket, estRows int) []LayoutItem {
	offset := pos.Top
	if e.opts.ShowHeaders {
		items = append(items, LayoutItem{
			Kind:        LayoutHeader,
			Top:         offset,
			Height:      e.opts.HeaderHeight,
			DateKey:     bucket.ID,
			BucketIndex: pos.Index,
			Placeholder: true,
		})
		offset += e.opts.HeaderHeight
	}
	for row := 0; row < estRows; row++ {
		items = append(items, LayoutItem{
			Kind:        LayoutRow,
			Top:         offset,
			Height:      e.opts.RowHeight,
			DateKey:     bucket.ID,
			BucketIndex: pos.Index,
			RowIndex:    row,
			Placeholder: true,
		})
		offset += e.opts.RowHeight
	}
	return items
}

// ComputeFlat is the fallback used when no bucket skeleton exists (legacy
// mode): a simple cumulative layout over loaded sections only.
func (e *LayoutEngine) ComputeFlat(sections []Section) ([]LayoutItem, int) {
	if e.opts.ColumnCount <= 0 || e.opts.RowHeight <= 0 {
		e.items = nil
		e.total = 0
		return nil, 0
	}

	items := make([]LayoutItem, 0, len(sections)*2)
	offset := 0
	for _, section := range sections {
		if e.opts.ShowHeaders {
			items = append(items, LayoutItem{
				Kind:    LayoutHeader,
				Top:     offset,
				Height:  e.opts.HeaderHeight,
				DateKey: section.DateKey,
			})
			offset += e.opts.HeaderHeight
		}
		rowIndex := 0
		for start := 0; start < len(section.Items); start += e.opts.ColumnCount {
			end := start + e.opts.ColumnCount
			if end > len(section.Items) {
				end = len(section.Items)
			}
			items = append(items, LayoutItem{
				Kind:     LayoutRow,
				Top:      offset,
				Height:   e.opts.RowHeight,
				DateKey:  section.DateKey,
				RowIndex: rowIndex,
				Items:    section.Items[start:end],
			})
			offset += e.opts.RowHeight
			rowIndex++
		}
	}

	e.items = items
	e.total = offset
	return items, offset
}

// Items returns the last computed render list.
func (e *LayoutEngine) Items() []LayoutItem {
	return e.items
}

// TotalHeight returns the total height of the last computed layout.
func (e *LayoutEngine) TotalHeight() int {
	return e.total
}

// ItemRect looks up an item's rectangle by id in the last computed layout.
// Used by hosts for transition effects.
func (e *LayoutEngine) ItemRect(id string) (Rect, bool) {
	for _, item := range e.items {
		if item.Kind != LayoutRow {
			continue
		}
		for col, it := range item.Items {
			if it.ID == id {
				return Rect{
					Left:   col * e.opts.ColumnWidth,
					Top:    item.Top,
					Width:  e.opts.ColumnWidth,
					Height: item.Height,
				}, true
			}
		}
	}
	return Rect{}, false
}

// FirstVisibleDate returns the date key of the first layout item that
// intersects the window starting at virtualTop.
func (e *LayoutEngine) FirstVisibleDate(virtualTop int) string {
	for _, item := range e.items {
		if item.Kind == LayoutSpacer {
			continue
		}
		if item.Top+item.Height > virtualTop {
			return item.DateKey
		}
	}
	return ""
}
