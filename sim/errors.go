package sim

import "errors"

// Errors reported by the World and Enterprise. All of them are synchronous and
// none is retried by the engine; callers match them with errors.Is.
var (
	// ErrInvalidSchedule: the event is dated before the current clock.
	ErrInvalidSchedule = errors.New("event scheduled in the past")
	// ErrUnknownProduct: the family has not been released.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInvalidVolume: fewer than one unit requested.
	ErrInvalidVolume = errors.New("invalid volume")
	// ErrWithdrawnProduct: the family is no longer available.
	ErrWithdrawnProduct = errors.New("product withdrawn")
	// ErrAlreadyBound: Bind called on an enterprise that already has a world.
	ErrAlreadyBound = errors.New("enterprise already bound")
	// ErrNotBound: an unbound enterprise tried to use its world.
	ErrNotBound = errors.New("enterprise not bound")
	// ErrUnknownPolicy: no policy kind with that name.
	ErrUnknownPolicy = errors.New("unknown policy kind")
)

// RejectionReason returns a short, stable label for an acquisition error,
// used as a metrics label and in decision traces.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, ErrInvalidVolume):
		return "invalid_volume"
	case errors.Is(err, ErrWithdrawnProduct):
		return "withdrawn_product"
	case errors.Is(err, ErrNotBound):
		return "not_bound"
	default:
		return "other"
	}
}
