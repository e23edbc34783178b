package queue

import "fmt"

// The patient lifecycle is strictly ordered:
//
//	Waiting → BeingAssessed → AwaitingTreatment → Treated → Discharged
//
// No state is skippable, with two exceptions: Waiting → Discharged is the
// explicit cancellation path for patients who leave before assessment, and
// BeingAssessed → AwaitingTreatment is entered only through a committed
// triage record (RecordTriage), never through a direct Transition request.
var allowedTransitions = map[Status]map[Status]bool{
	Waiting: {
		BeingAssessed: true,
		Discharged:    true, // cancellation before assessment
	},
	BeingAssessed: {
		AwaitingTreatment: true, // internal only, via RecordTriage
	},
	AwaitingTreatment: {
		Treated: true,
	},
	Treated: {
		Discharged: true,
	},
	Discharged: {},
}

// CanTransition reports whether the lifecycle permits from → to.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// checkTransition validates a direct transition request. Entering
// AwaitingTreatment requires a committed triage record, so direct requests
// for it are rejected even though the lifecycle permits the step.
func checkTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if to == AwaitingTreatment || !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
