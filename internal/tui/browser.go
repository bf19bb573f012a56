// Package tui implements the terminal media browser. It is the host surface
// for the timeline engine: it owns the physical scroll state, forwards
// scroll and resize signals, and loads buckets from the library when the
// engine asks for them.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/lumen-tui/lumen/internal/config"
	"github.com/lumen-tui/lumen/internal/events"
	"github.com/lumen-tui/lumen/internal/logging"
	"github.com/lumen-tui/lumen/internal/timeline"
)

const (
	// frameInterval batches user scrolls to roughly one engine tick per
	// rendered frame.
	frameInterval = 16 * time.Millisecond

	chromeRows = 2

	lineScrollStep = 2
)

// Library is the data layer the browser reads from. Loads are asynchronous
// from the engine's point of view.
type Library interface {
	Buckets(ctx context.Context, descending bool) ([]timeline.Bucket, error)
	Sections(ctx context.Context, bucketID string) ([]timeline.Section, error)
}

// Run starts the browser over the given library.
func Run(lib Library, cfg *config.Config) error {
	model := newModel(lib, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type loadRequest struct {
	generation int
	index      int
}

// eventQueue collects notifications published during a synchronous engine
// update so the model can turn them into commands afterwards. Shared by
// pointer because bubbletea models are passed by value.
type eventQueue struct {
	dates    []string
	loads    []loadRequest
	loadMore bool
}

type bucketsMsg struct {
	buckets []timeline.Bucket
	err     error
}

type sectionsMsg struct {
	generation int
	index      int
	bucketID   string
	sections   []timeline.Section
	err        error
}

type frameMsg struct{}

type resetTickMsg struct{}

type model struct {
	lib  Library
	cfg  *config.Config
	opts timeline.Options
	log  zerolog.Logger

	skeleton *timeline.SkeletonModel
	anchor   *timeline.AnchorController
	layout   *timeline.LayoutEngine
	coord    *timeline.Coordinator
	pub      *events.InMemoryPublisher
	queue    *eventQueue

	width        int
	height       int
	viewportRows int

	visibleDate string
	itemTotal   int

	enteringDate bool
	dateInput    string

	err      error
	quitting bool
}

// optionsFromConfig maps the config sections onto engine tunables.
func optionsFromConfig(cfg *config.Config) timeline.Options {
	opts := timeline.DefaultOptions()
	opts.ColumnCount = cfg.UI.Columns
	opts.RowHeight = cfg.UI.RowHeight
	opts.HeaderHeight = 1
	opts.ShowHeaders = cfg.UI.ShowHeaders
	opts.BufferHeight = cfg.Timeline.BufferHeight
	opts.ResetThreshold = cfg.Timeline.ResetThreshold
	opts.ResetDebounce = cfg.Timeline.ResetDebounce
	opts.LoadRadius = cfg.Timeline.LoadRadius
	opts.BufferMultiplier = cfg.Timeline.BufferMultiplier
	opts.ChunkMax = cfg.Timeline.ChunkMax
	opts.LoadMoreFraction = cfg.Timeline.LoadMoreFraction
	return opts
}

func newModel(lib Library, cfg *config.Config) model {
	opts := optionsFromConfig(cfg)
	log := logging.Component("browser")

	skeleton := timeline.NewSkeletonModel()
	anchor := timeline.NewAnchorController(skeleton, opts, logging.Component("anchor"))
	layout := timeline.NewLayoutEngine(opts, logging.Component("layout"))

	pub := events.NewInMemoryPublisher()
	queue := &eventQueue{}
	subscribeQueue(pub, queue)

	coord := timeline.NewCoordinator(skeleton, layout, events.NewTimelineSink(pub), opts, logging.Component("coordinator"))

	return model{
		lib:      lib,
		cfg:      cfg,
		opts:     opts,
		log:      log,
		skeleton: skeleton,
		anchor:   anchor,
		layout:   layout,
		coord:    coord,
		pub:      pub,
		queue:    queue,
	}
}

// subscribeQueue routes engine notifications into the shared queue. Handlers
// run synchronously on the event loop, so no locking is needed beyond the
// publisher's own.
func subscribeQueue(pub *events.InMemoryPublisher, queue *eventQueue) {
	_ = pub.Subscribe("browser-dates", events.Filter{Types: []events.Type{events.TypeVisibleDateChanged}}, func(e events.Event) {
		queue.dates = append(queue.dates, e.DateKey)
	})
	_ = pub.Subscribe("browser-loads", events.Filter{Types: []events.Type{events.TypeBucketLoadRequested}}, func(e events.Event) {
		queue.loads = append(queue.loads, loadRequest{generation: e.Generation, index: e.BucketIndex})
	})
	_ = pub.Subscribe("browser-more", events.Filter{Types: []events.Type{events.TypeLoadMoreRequested}}, func(events.Event) {
		queue.loadMore = true
	})
}

func (m model) Init() tea.Cmd {
	return m.fetchBucketsCmd()
}

func (m model) fetchBucketsCmd() tea.Cmd {
	lib := m.lib
	descending := m.cfg.Library.Descending
	return func() tea.Msg {
		buckets, err := lib.Buckets(context.Background(), descending)
		return bucketsMsg{buckets: buckets, err: err}
	}
}

func (m model) loadSectionsCmd(generation, index int) tea.Cmd {
	bucket, ok := m.skeleton.Bucket(index)
	if !ok {
		return nil
	}
	lib := m.lib
	return func() tea.Msg {
		sections, err := lib.Sections(context.Background(), bucket.ID)
		return sectionsMsg{generation: generation, index: index, bucketID: bucket.ID, sections: sections, err: err}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func resetTickCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return resetTickMsg{} })
}

// drainEvents converts queued notifications into state changes and load
// commands.
func (m model) drainEvents() (model, tea.Cmd) {
	q := m.queue

	for _, date := range q.dates {
		m.visibleDate = date
	}
	q.dates = nil

	var cmds []tea.Cmd
	for _, req := range q.loads {
		if cmd := m.loadSectionsCmd(req.generation, req.index); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	q.loads = nil
	q.loadMore = false

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewportRows = maxInt(1, msg.Height-chromeRows)
		m.anchor.SetViewport(m.viewportRows)
		m.coord.OnResize(m.viewportRows)
		return m.drainEvents()

	case bucketsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.itemTotal = 0
		for _, b := range msg.buckets {
			m.itemTotal += b.ItemCount
		}
		m.coord.SetBuckets(msg.buckets)
		m.anchor.Reset()
		m.pub.Publish(events.Event{Type: events.TypeScopeReset, Generation: m.coord.Generation()})
		m.coord.OnResize(m.viewportRows)
		return m.drainEvents()

	case sectionsMsg:
		if msg.err != nil {
			// Leave the bucket unloaded; proximity re-requests it.
			m.coord.DropInFlight(msg.index)
			m.log.Warn().Err(msg.err).Str("bucket", msg.bucketID).Msg("bucket load failed")
			return m, nil
		}
		if m.coord.ApplySections(msg.generation, msg.index, msg.sections) {
			m.anchor.Revalidate()
		}
		return m.drainEvents()

	case frameMsg:
		if m.coord.FlushFrame() {
			return m.drainEvents()
		}
		return m, nil

	case resetTickMsg:
		if m.anchor.Tick(time.Now()) {
			// The physical offset is ours, so the surface echo the
			// controller expects is delivered inline.
			m.anchor.HandleScroll(m.anchor.PhysicalScroll(), time.Now())
			m.coord.OnProgrammaticScroll(m.anchor.VirtualPosition())
			return m.drainEvents()
		}
		if m.anchor.ResetPending() {
			return m, resetTickCmd(frameInterval)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.enteringDate {
			return m.updateDateEntry(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		return m.scrollBy(lineScrollStep)
	case "k", "up":
		return m.scrollBy(-lineScrollStep)
	case "pgdown", "ctrl+d", "d":
		return m.scrollBy(m.viewportRows)
	case "pgup", "ctrl+u", "u":
		return m.scrollBy(-m.viewportRows)
	case "g", "home":
		return m.jumpToBucket(0, 0)
	case "G", "end":
		last := m.skeleton.Count() - 1
		if last < 0 {
			return m, nil
		}
		pos, _ := m.skeleton.Position(last)
		return m.jumpToBucket(last, maxInt(0, pos.Height-m.viewportRows))
	case "]":
		return m.jumpToBucket(m.coord.Cursor()+1, 0)
	case "[":
		return m.jumpToBucket(m.coord.Cursor()-1, 0)
	case "/":
		m.enteringDate = true
		m.dateInput = ""
		return m, nil
	case "r":
		return m, m.fetchBucketsCmd()
	}
	return m, nil
}

// updateDateEntry handles the scrubber-style date jump prompt.
func (m model) updateDateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.enteringDate = false
		m.dateInput = ""
		return m, nil
	case "enter":
		m.enteringDate = false
		input := m.dateInput
		m.dateInput = ""
		if idx := m.findBucketByDate(input); idx >= 0 {
			return m.jumpToBucket(idx, 0)
		}
		return m, nil
	case "backspace":
		if len(m.dateInput) > 0 {
			m.dateInput = m.dateInput[:len(m.dateInput)-1]
		}
		return m, nil
	default:
		if len(msg.String()) == 1 && len(m.dateInput) < 10 {
			m.dateInput += msg.String()
		}
		return m, nil
	}
}

// findBucketByDate returns the first bucket whose date key starts with the
// given prefix, or -1.
func (m model) findBucketByDate(prefix string) int {
	if prefix == "" {
		return -1
	}
	for i := 0; i < m.skeleton.Count(); i++ {
		bucket, ok := m.skeleton.Bucket(i)
		if ok && len(bucket.ID) >= len(prefix) && bucket.ID[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}

// scrollBy moves the physical scroll surface and feeds the translated
// virtual position to the coordinator as a batched user tick.
func (m model) scrollBy(delta int) (tea.Model, tea.Cmd) {
	physical := m.anchor.PhysicalScroll() + delta
	virtual := m.anchor.HandleScroll(physical, time.Now())
	m.coord.OnUserScroll(virtual)

	cmds := []tea.Cmd{frameCmd()}
	if m.anchor.ResetPending() {
		cmds = append(cmds, resetTickCmd(m.opts.ResetDebounce))
	}
	return m, tea.Batch(cmds...)
}

// jumpToBucket is the imperative scrubber path: set the anchor directly and
// recalculate synchronously.
func (m model) jumpToBucket(index, offset int) (tea.Model, tea.Cmd) {
	if m.skeleton.Count() == 0 {
		return m, nil
	}
	m.anchor.ScrollToAnchor(clampInt(index, 0, m.skeleton.Count()-1), offset)
	m.anchor.HandleScroll(m.anchor.PhysicalScroll(), time.Now())
	m.coord.OnProgrammaticScroll(m.anchor.VirtualPosition())
	return m.drainEvents()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
