package events

import "testing"

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		event  Event
		want   bool
	}{
		{
			name:   "empty filter matches any event",
			filter: Filter{},
			event:  Event{Type: TypeBucketLoadRequested, BucketIndex: 3},
			want:   true,
		},
		{
			name: "type filter matches",
			filter: Filter{
				Types: []Type{TypeVisibleDateChanged},
			},
			event: Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-01"},
			want:  true,
		},
		{
			name: "type filter rejects non-matching",
			filter: Filter{
				Types: []Type{TypeVisibleDateChanged},
			},
			event: Event{Type: TypeLoadMoreRequested},
			want:  false,
		},
		{
			name: "multiple types - matches any",
			filter: Filter{
				Types: []Type{TypeVisibleDateChanged, TypeScopeReset},
			},
			event: Event{Type: TypeScopeReset},
			want:  true,
		},
		{
			name: "date key filter matches",
			filter: Filter{
				DateKey: "2026-03-01",
			},
			event: Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-01"},
			want:  true,
		},
		{
			name: "date key filter rejects non-matching",
			filter: Filter{
				DateKey: "2026-03-01",
			},
			event: Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-02"},
			want:  false,
		},
		{
			name: "combined filters - all must match",
			filter: Filter{
				Types:   []Type{TypeVisibleDateChanged},
				DateKey: "2026-03-01",
			},
			event: Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-01"},
			want:  true,
		},
		{
			name: "combined filters - date mismatch",
			filter: Filter{
				Types:   []Type{TypeVisibleDateChanged},
				DateKey: "2026-03-01",
			},
			event: Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-09"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(tt.event)
			if got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInMemoryPublisher_Subscribe(t *testing.T) {
	pub := NewInMemoryPublisher()

	handler := func(event Event) {}

	// Subscribe successfully
	err := pub.Subscribe("sub-1", Filter{}, handler)
	if err != nil {
		t.Errorf("Subscribe() error = %v, want nil", err)
	}

	if pub.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", pub.SubscriberCount())
	}

	// Duplicate subscription should fail
	err = pub.Subscribe("sub-1", Filter{}, handler)
	if err != ErrSubscriptionExists {
		t.Errorf("Subscribe() duplicate error = %v, want %v", err, ErrSubscriptionExists)
	}

	// Empty ID should fail
	err = pub.Subscribe("", Filter{}, handler)
	if err != ErrInvalidSubscriptionID {
		t.Errorf("Subscribe() empty ID error = %v, want %v", err, ErrInvalidSubscriptionID)
	}

	// Nil handler should fail
	err = pub.Subscribe("sub-2", Filter{}, nil)
	if err != ErrNilHandler {
		t.Errorf("Subscribe() nil handler error = %v, want %v", err, ErrNilHandler)
	}
}

func TestInMemoryPublisher_Unsubscribe(t *testing.T) {
	pub := NewInMemoryPublisher()

	if err := pub.Subscribe("sub-1", Filter{}, func(Event) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := pub.Unsubscribe("sub-1"); err != nil {
		t.Errorf("Unsubscribe() error = %v, want nil", err)
	}

	if pub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", pub.SubscriberCount())
	}

	if err := pub.Unsubscribe("sub-1"); err != ErrSubscriptionNotFound {
		t.Errorf("Unsubscribe() missing error = %v, want %v", err, ErrSubscriptionNotFound)
	}
}

func TestInMemoryPublisher_PublishRoutesByFilter(t *testing.T) {
	pub := NewInMemoryPublisher()

	var dates []string
	var loads []int
	if err := pub.Subscribe("dates", Filter{Types: []Type{TypeVisibleDateChanged}}, func(e Event) {
		dates = append(dates, e.DateKey)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := pub.Subscribe("loads", Filter{Types: []Type{TypeBucketLoadRequested}}, func(e Event) {
		loads = append(loads, e.BucketIndex)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub.Publish(Event{Type: TypeVisibleDateChanged, DateKey: "2026-03-01"})
	pub.Publish(Event{Type: TypeBucketLoadRequested, Generation: 1, BucketIndex: 4})
	pub.Publish(Event{Type: TypeLoadMoreRequested})

	if len(dates) != 1 || dates[0] != "2026-03-01" {
		t.Errorf("dates = %v, want [2026-03-01]", dates)
	}
	if len(loads) != 1 || loads[0] != 4 {
		t.Errorf("loads = %v, want [4]", loads)
	}
}

func TestTimelineSinkPublishes(t *testing.T) {
	pub := NewInMemoryPublisher()
	var got []Event
	if err := pub.Subscribe("all", Filter{}, func(e Event) {
		got = append(got, e)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sink := NewTimelineSink(pub)
	sink.VisibleDateChanged("2026-03-05")
	sink.LoadBucket(7, 2)
	sink.LoadMore()

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].Type != TypeVisibleDateChanged || got[0].DateKey != "2026-03-05" {
		t.Errorf("event 0 = %+v", got[0])
	}
	if got[1].Type != TypeBucketLoadRequested || got[1].Generation != 7 || got[1].BucketIndex != 2 {
		t.Errorf("event 1 = %+v", got[1])
	}
	if got[2].Type != TypeLoadMoreRequested {
		t.Errorf("event 2 = %+v", got[2])
	}
}
