package queue

import "errors"

// All queue errors are recoverable by the caller; the queue's invariants
// (total order, single active record per patient) hold after any rejected
// operation.
var (
	// ErrUnknownPatient: the patient ref is not present in the queue.
	ErrUnknownPatient = errors.New("unknown patient")

	// ErrDuplicateEntry: Enqueue was called for a patient already present.
	// The intake feed is responsible for de-duplication; the queue still
	// refuses to register the same patient twice.
	ErrDuplicateEntry = errors.New("duplicate queue entry")

	// ErrInvalidTransition: the requested status change is not permitted
	// from the current status. The caller must issue a corrective request,
	// not retry the same one.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification: a mutation was based on stale queue
	// state. The caller re-reads and retries with the current version;
	// classification is pure and safe to recompute.
	ErrConcurrentModification = errors.New("concurrent modification")
)
