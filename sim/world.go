// sim/world.go
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mainframe-market/mfsim/sim/trace"
)

// dateLayout is used for every date rendered in logs and traces.
const dateLayout = "2006-01-02"

// World is the core object that holds the logical clock, the product ledger,
// the lifecycle timeline and the bound enterprises.
//
// Time advances one day per Step. Acquisitions mutate the ledger immediately
// but are only broadcast (as VolumeIncreased) on the following tick.
type World struct {
	clock     time.Time
	startTime time.Time

	ledger   *Ledger
	timeline *Timeline

	// broadcasts pending delivery during the current tick
	broadcasts []Event
	// families acquired since the last flush, in first-acquisition order
	changedVolumes map[string]bool
	changedOrder   []string

	// binding order == notification and decision order
	enterprises []*Enterprise

	steps int64

	metrics *Metrics
	trace   *trace.SimulationTrace
}

// NewWorld creates a world whose clock starts at the calendar day of start.
func NewWorld(start time.Time) *World {
	start = civilDate(start)
	return &World{
		clock:          start,
		startTime:      start,
		ledger:         NewLedger(),
		timeline:       NewTimeline(),
		changedVolumes: make(map[string]bool),
		metrics:        NewMetrics(),
	}
}

// SetTrace attaches a decision trace. A nil trace disables recording.
func (w *World) SetTrace(st *trace.SimulationTrace) {
	w.trace = st
}

// Trace returns the attached decision trace, or nil.
func (w *World) Trace() *trace.SimulationTrace { return w.trace }

// Metrics returns the run metrics of this world.
func (w *World) Metrics() *Metrics { return w.metrics }

// Schedule adds a lifecycle event to the timeline. Events dated before the
// current clock are rejected; events dated today are delivered on the next Step.
func (w *World) Schedule(date time.Time, ev Event) error {
	date = civilDate(date)
	if date.Before(w.clock) {
		return fmt.Errorf("%w: %s dated %s, clock is %s", ErrInvalidSchedule,
			ev, date.Format(dateLayout), w.clock.Format(dateLayout))
	}
	if !IsValidEventKind(ev.Kind) {
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidSchedule, ev.Kind)
	}
	w.timeline.Add(date, ev)
	return nil
}

// Step runs one tick:
//   - collect timeline events dated exactly today
//   - advance the clock by one day
//   - apply releases and withdrawals to the ledger
//   - turn last tick's acquisitions into VolumeIncreased broadcasts
//   - deliver every broadcast to every enterprise, then let each decide in binding order
func (w *World) Step() {
	today := w.clock
	w.broadcasts = append(w.broadcasts, w.timeline.Due(today)...)
	w.clock = today.AddDate(0, 0, 1)
	w.steps++

	for _, ev := range w.broadcasts {
		switch ev.Kind {
		case FamilyReleased:
			if w.ledger.release(ev.Family) {
				logrus.Infof("[%s] family %s released", w.clock.Format(dateLayout), ev.Family)
			} else {
				logrus.Warnf("[%s] family %s released again; keeping existing ledger record",
					w.clock.Format(dateLayout), ev.Family)
			}
		case FamilyWithdrawn:
			if w.ledger.withdraw(ev.Family) {
				logrus.Infof("[%s] family %s withdrawn", w.clock.Format(dateLayout), ev.Family)
			} else {
				logrus.Warnf("[%s] withdrawal of unreleased family %s ignored",
					w.clock.Format(dateLayout), ev.Family)
			}
		}
	}

	for _, family := range w.changedOrder {
		w.broadcasts = append(w.broadcasts, Event{Kind: VolumeIncreased, Family: family})
	}
	clear(w.changedVolumes)
	w.changedOrder = w.changedOrder[:0]

	logrus.Debugf("[%s] tick %d: %d broadcasts", w.clock.Format(dateLayout), w.steps, len(w.broadcasts))
	w.metrics.observeTick()
	for _, ev := range w.broadcasts {
		w.metrics.observeBroadcast(ev.Kind)
		if w.trace != nil {
			w.trace.RecordBroadcast(trace.BroadcastRecord{
				Date:   w.clock,
				Kind:   string(ev.Kind),
				Family: ev.Family,
			})
		}
	}

	for _, e := range w.enterprises {
		e.notify(w.broadcasts)
	}
	for _, e := range w.enterprises {
		e.step()
	}
	w.broadcasts = w.broadcasts[:0]
}

// RunUntil steps while the clock is before date. No-op if already there.
func (w *World) RunUntil(date time.Time) {
	date = civilDate(date)
	for w.clock.Before(date) {
		w.Step()
	}
	logrus.Infof("[%s] simulation reached target date after %d ticks", w.clock.Format(dateLayout), w.steps)
}

// RegisterAcquisition books volume units of family for buyer. The ledger is
// updated immediately; the VolumeIncreased broadcast goes out next tick.
func (w *World) RegisterAcquisition(buyer, family string, volume int) error {
	err := w.registerAcquisition(buyer, family, volume)
	w.metrics.observeAcquisition(family, volume, err)
	if w.trace != nil {
		w.trace.RecordAcquisition(trace.AcquisitionRecord{
			Date:     w.clock,
			Buyer:    buyer,
			Family:   family,
			Volume:   volume,
			Accepted: err == nil,
			Reason:   RejectionReason(err),
		})
	}
	return err
}

func (w *World) registerAcquisition(buyer, family string, volume int) error {
	p := w.ledger.Get(family)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, family)
	}
	if volume < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, volume)
	}
	if !p.Available {
		return fmt.Errorf("%w: %q acquired after withdrawal", ErrWithdrawnProduct, family)
	}
	w.ledger.record(Transaction{
		Buyer:     buyer,
		Family:    family,
		Volume:    volume,
		Timestamp: w.clock,
	})
	if !w.changedVolumes[family] {
		w.changedVolumes[family] = true
		w.changedOrder = append(w.changedOrder, family)
	}
	return nil
}

// ReleasedFamilies returns every released family name in release order.
func (w *World) ReleasedFamilies() []string {
	return w.ledger.Names()
}

// Product returns a copy of the ledger record for family.
func (w *World) Product(family string) (Product, bool) {
	p := w.ledger.Get(family)
	if p == nil {
		return Product{}, false
	}
	cp := *p
	cp.History = append([]Transaction(nil), p.History...)
	return cp, true
}

// Transactions returns the acquisition history of family, oldest first.
// Nil for unreleased families.
func (w *World) Transactions(family string) []Transaction {
	p := w.ledger.Get(family)
	if p == nil {
		return nil
	}
	return append([]Transaction(nil), p.History...)
}

// Time returns the current logical date.
func (w *World) Time() time.Time { return w.clock }

// Steps returns the number of ticks run so far.
func (w *World) Steps() int64 { return w.steps }

// StartTime returns the date the world was created at.
func (w *World) StartTime() time.Time { return w.startTime }

// Enterprises returns the bound enterprises in binding order.
func (w *World) Enterprises() []*Enterprise {
	return append([]*Enterprise(nil), w.enterprises...)
}

// PendingEvents returns the number of scheduled timeline entries not yet consumed.
func (w *World) PendingEvents() int {
	if w.timeline.dirty {
		n := 0
		for _, e := range w.timeline.entries {
			if !e.Date.Before(w.clock) {
				n++
			}
		}
		return n
	}
	return w.timeline.Pending()
}

func (w *World) bind(e *Enterprise) {
	w.enterprises = append(w.enterprises, e)
	w.metrics.setEnterprises(len(w.enterprises))
}
