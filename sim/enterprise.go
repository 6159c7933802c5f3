package sim

import (
	"fmt"
	"time"
)

// Handle is what a Policy sees of its enterprise: the right to acquire and
// the current date. Policies never reach the World directly.
type Handle interface {
	ID() string
	Acquire(family string, volume int) error
	Now() time.Time
}

// Enterprise binds one Policy to a World. It buffers the broadcasts of the
// current tick and hands them to the Policy exactly once.
type Enterprise struct {
	id            string
	policy        Policy
	world         *World
	notifications []Event
}

// NewEnterprise creates an unbound enterprise driven by policy.
func NewEnterprise(id string, policy Policy) *Enterprise {
	return &Enterprise{id: id, policy: policy}
}

// Bind registers the enterprise with w. An enterprise binds at most once.
func (e *Enterprise) Bind(w *World) error {
	if e.world != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, e.id)
	}
	if w == nil {
		return fmt.Errorf("%w: %s bound to a nil world", ErrNotBound, e.id)
	}
	e.world = w
	w.bind(e)
	return nil
}

// ID returns the buyer identity used in transactions.
func (e *Enterprise) ID() string { return e.id }

// Policy returns the decision policy bound to this enterprise.
func (e *Enterprise) Policy() Policy { return e.policy }

// Acquire books volume units of family with the bound world.
func (e *Enterprise) Acquire(family string, volume int) error {
	if e.world == nil {
		return fmt.Errorf("%w: %s cannot acquire", ErrNotBound, e.id)
	}
	return e.world.RegisterAcquisition(e.id, family, volume)
}

// Now returns the world clock. Panics on an unbound enterprise.
func (e *Enterprise) Now() time.Time {
	if e.world == nil {
		panic(fmt.Errorf("%w: %s has no clock", ErrNotBound, e.id))
	}
	return e.world.Time()
}

func (e *Enterprise) notify(events []Event) {
	e.notifications = append(e.notifications, events...)
}

// step runs the policy over this tick's notifications, then drops them.
// The slice handed to the policy is reused next tick and must not be retained.
func (e *Enterprise) step() {
	e.policy.Decide(e, e.notifications)
	e.notifications = e.notifications[:0]
}
