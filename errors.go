package corosim

import "errors"

// Sentinel error kinds, checked with errors.Is by callers, rather than a
// bespoke error interface.
var (
	// ErrCapacityExceeded is returned by the handle allocator or the
	// position buffer when no more slots/handles are available.
	ErrCapacityExceeded = errors.New("corosim: capacity exceeded")

	// ErrNotInitialized names the error kind of a propagator that was
	// constructed from malformed input (e.g. a bad TLE) and can never
	// step. The propagators themselves return propagator.ErrNotInitialized,
	// not this value.
	ErrNotInitialized = errors.New("corosim: propagator not initialized")

	// ErrPropagationFailed names the transient per-step failure kind
	// (SGP4 decay, numerical error). The propagators themselves return
	// propagator.ErrPropagationFailed, not this value.
	ErrPropagationFailed = errors.New("corosim: propagation failed")

	// ErrInvariantViolation is returned at an API boundary when an
	// operation would break a documented invariant, such as attaching a
	// propagator without orbital elements.
	ErrInvariantViolation = errors.New("corosim: invariant violation")

	// Absence of a component or handle (the "Absent" error kind) has no
	// sentinel error of its own: Store.Get, QueryService lookups, and
	// friends all report it as the ok flag of a (value, ok bool) result
	// instead, since a miss is an expected outcome on every read, not a
	// failure worth wrapping in an error.
)
