package sim

import (
	"sort"
	"time"
)

// TimelineEntry is an externally scheduled event with its delivery date.
type TimelineEntry struct {
	Date  time.Time
	Event Event
}

// Timeline holds lifecycle events in append-then-sort order and hands them out
// through a single forward cursor.
//
// Appending after consumption has started marks the timeline dirty; the next
// Due call re-sorts and rewinds the cursor. Entries dated before the requested
// day are skipped on the way, so a rewind never re-delivers anything that was
// already consumed on an earlier day.
type Timeline struct {
	entries []TimelineEntry
	cursor  int
	dirty   bool
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{dirty: true}
}

// Add appends an entry and invalidates the cursor.
func (tl *Timeline) Add(date time.Time, ev Event) {
	tl.entries = append(tl.entries, TimelineEntry{Date: civilDate(date), Event: ev})
	tl.dirty = true
}

// Due consumes every entry up to and including day and returns, in order,
// the events dated exactly on day.
func (tl *Timeline) Due(day time.Time) []Event {
	if tl.dirty {
		// Stable sort keeps same-date entries in scheduling order.
		sort.SliceStable(tl.entries, func(i, j int) bool {
			return tl.entries[i].Date.Before(tl.entries[j].Date)
		})
		tl.cursor = 0
		tl.dirty = false
	}
	var due []Event
	for tl.cursor < len(tl.entries) && !tl.entries[tl.cursor].Date.After(day) {
		if tl.entries[tl.cursor].Date.Equal(day) {
			due = append(due, tl.entries[tl.cursor].Event)
		}
		tl.cursor++
	}
	return due
}

// Len returns the number of entries, consumed or not.
func (tl *Timeline) Len() int { return len(tl.entries) }

// Pending returns the number of entries the cursor has not passed yet.
// Meaningless while the timeline is dirty; callers use it after a Due call.
func (tl *Timeline) Pending() int { return len(tl.entries) - tl.cursor }

// civilDate truncates t to midnight UTC of its calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC calendar date. Convenience for scenarios and tests.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
