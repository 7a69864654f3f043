package dashboard

import "time"

// DefaultFeedCapacity bounds the alert feed when no capacity is configured.
const DefaultFeedCapacity = 200

// TimeFormat is how alert receipt times are shown.
const TimeFormat = "15:04:05"

// Alert origins.
const (
	OriginRemote = "remote"
	OriginLocal  = "local"
)

// AlertEntry is one row of the alert feed.
type AlertEntry struct {
	Message  string
	Severity string
	Origin   string
	Received time.Time
}

// Timestamp is the local receipt time as shown in the feed.
func (e AlertEntry) Timestamp() string {
	return e.Received.Local().Format(TimeFormat)
}

// Feed holds alerts newest first and drops the oldest once full.
type Feed struct {
	entries  []AlertEntry
	capacity int
}

// NewFeed creates a feed retaining up to capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &Feed{capacity: capacity}
}

// Push puts e at the front.
func (f *Feed) Push(e AlertEntry) {
	if len(f.entries) < f.capacity {
		f.entries = append(f.entries, AlertEntry{})
	}
	copy(f.entries[1:], f.entries[:len(f.entries)-1])
	f.entries[0] = e
}

// Entries returns the alerts newest first. The slice must not be modified.
func (f *Feed) Entries() []AlertEntry { return f.entries }

func (f *Feed) Len() int { return len(f.entries) }

func (f *Feed) Cap() int { return f.capacity }

// Clear empties the feed.
func (f *Feed) Clear() { f.entries = f.entries[:0] }
