package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// FamilyLifecycle is one row of the lifecycle timeline. Nil dates schedule nothing.
type FamilyLifecycle struct {
	Name         string
	Release      time.Time
	Withdrawal   *time.Time
	EndOfSupport *time.Time
}

// PlayerSpec describes Copies enterprises sharing one policy configuration.
// Each copy gets its own policy instance and random stream.
type PlayerSpec struct {
	Policy PolicySpec
	Copies int
}

// Scenario is everything needed to build a World.
type Scenario struct {
	Start      time.Time
	Seed       int64
	Players    []PlayerSpec
	Lifecycles []FamilyLifecycle
	// DistinctEndOfSupport schedules EOS dates as FamilyEndOfSupport. When
	// false, EOS dates are scheduled as FamilyWithdrawn, as historical runs did.
	DistinctEndOfSupport bool
}

// BuildWorld creates a World from sc: enterprises are bound in player order
// (ids enterprise_0, enterprise_1, ...) and the timeline is seeded.
// GROWING_MARKOV players of this world share one FamilyIndex.
func BuildWorld(sc Scenario) (*World, error) {
	w := NewWorld(sc.Start)
	rng := NewPartitionedRNG(NewSimulationKey(sc.Seed))
	index := NewFamilyIndex()

	n := 0
	for i, player := range sc.Players {
		copies := player.Copies
		if copies == 0 {
			copies = 1
		}
		if copies < 0 {
			return nil, fmt.Errorf("player[%d]: copies must be positive, got %d", i, copies)
		}
		for c := 0; c < copies; c++ {
			policy, err := NewPolicy(player.Policy, rng.ForSubsystem(SubsystemEnterprise(n)), index)
			if err != nil {
				return nil, fmt.Errorf("player[%d]: %w", i, err)
			}
			e := NewEnterprise(fmt.Sprintf("enterprise_%d", n), policy)
			if err := e.Bind(w); err != nil {
				return nil, err
			}
			n++
		}
	}

	if err := SeedTimeline(w, sc.Lifecycles, sc.DistinctEndOfSupport); err != nil {
		return nil, err
	}
	logrus.Infof("built world at %s: %d enterprises, %d lifecycle events",
		w.Time().Format(dateLayout), n, w.PendingEvents())
	return w, nil
}

// SeedTimeline schedules release, withdrawal and end-of-support events for
// every lifecycle row.
func SeedTimeline(w *World, lifecycles []FamilyLifecycle, distinctEndOfSupport bool) error {
	eosKind := FamilyWithdrawn
	if distinctEndOfSupport {
		eosKind = FamilyEndOfSupport
	}
	for _, lc := range lifecycles {
		if err := w.Schedule(lc.Release, Event{Kind: FamilyReleased, Family: lc.Name}); err != nil {
			return fmt.Errorf("family %s: %w", lc.Name, err)
		}
		if lc.Withdrawal != nil {
			if err := w.Schedule(*lc.Withdrawal, Event{Kind: FamilyWithdrawn, Family: lc.Name}); err != nil {
				return fmt.Errorf("family %s: %w", lc.Name, err)
			}
		}
		if lc.EndOfSupport != nil {
			if err := w.Schedule(*lc.EndOfSupport, Event{Kind: eosKind, Family: lc.Name}); err != nil {
				return fmt.Errorf("family %s: %w", lc.Name, err)
			}
		}
	}
	return nil
}
