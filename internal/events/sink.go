package events

// TimelineSink adapts a Publisher to the timeline coordinator's sink
// contract, turning callback invocations into published events.
type TimelineSink struct {
	pub Publisher
}

// NewTimelineSink wraps a publisher.
func NewTimelineSink(pub Publisher) *TimelineSink {
	return &TimelineSink{pub: pub}
}

// VisibleDateChanged publishes a visible-date event.
func (s *TimelineSink) VisibleDateChanged(dateKey string) {
	s.pub.Publish(Event{Type: TypeVisibleDateChanged, DateKey: dateKey})
}

// LoadBucket publishes a bucket load request.
func (s *TimelineSink) LoadBucket(generation, index int) {
	s.pub.Publish(Event{Type: TypeBucketLoadRequested, Generation: generation, BucketIndex: index})
}

// LoadMore publishes a legacy load-more request.
func (s *TimelineSink) LoadMore() {
	s.pub.Publish(Event{Type: TypeLoadMoreRequested})
}
