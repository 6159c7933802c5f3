package sim

import (
	"math/rand"
	"time"
)

// recordingPolicy captures what an enterprise hands to its policy each tick.
// onDecide, if set, runs after recording.
type recordingPolicy struct {
	ticks    [][]Event
	nows     []time.Time
	onDecide func(h Handle, notifications []Event)
}

func (p *recordingPolicy) Decide(h Handle, notifications []Event) {
	p.ticks = append(p.ticks, append([]Event(nil), notifications...))
	p.nows = append(p.nows, h.Now())
	if p.onDecide != nil {
		p.onDecide(h, notifications)
	}
}

// seen returns the notifications of every tick, flattened, with the date the
// policy saw them on.
func (p *recordingPolicy) seen() map[time.Time][]Event {
	out := make(map[time.Time][]Event)
	for i, evs := range p.ticks {
		if len(evs) > 0 {
			out[p.nows[i]] = evs
		}
	}
	return out
}

type acquisition struct {
	family string
	volume int
}

// stubHandle is a Handle with a settable clock that records acquisitions.
// err, if set, decides whether an acquisition fails.
type stubHandle struct {
	now    time.Time
	bought []acquisition
	err    func(family string, volume int) error
}

func (h *stubHandle) ID() string     { return "stub" }
func (h *stubHandle) Now() time.Time { return h.now }

func (h *stubHandle) Acquire(family string, volume int) error {
	if h.err != nil {
		if err := h.err(family, volume); err != nil {
			return err
		}
	}
	h.bought = append(h.bought, acquisition{family, volume})
	return nil
}

func newTestRand() *rand.Rand {
	return NewPartitionedRNG(NewSimulationKey(42)).ForSubsystem(SubsystemEnterprise(0))
}

func released(names ...string) []Event {
	out := make([]Event, len(names))
	for i, n := range names {
		out[i] = Event{Kind: FamilyReleased, Family: n}
	}
	return out
}

// mustSchedule schedules ev on date and panics on error.
func mustSchedule(w *World, date time.Time, kind EventKind, family string) {
	if err := w.Schedule(date, Event{Kind: kind, Family: family}); err != nil {
		panic(err)
	}
}

// bindRecorder binds a new enterprise with a recording policy to w.
func bindRecorder(w *World, id string) (*Enterprise, *recordingPolicy) {
	p := &recordingPolicy{}
	e := NewEnterprise(id, p)
	if err := e.Bind(w); err != nil {
		panic(err)
	}
	return e, p
}
