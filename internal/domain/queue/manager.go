package queue

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager exclusively owns the set of queue entries and their ordering.
// Entries live in a map keyed by patient ref; ordering is derived on read
// from (effective acuity level asc, arrival time asc, patient ref asc),
// which makes the order total and snapshots idempotent.
//
// All mutations run under the write lock, so the global order is
// linearizable with respect to mutation completion. Reads take the shared
// lock and never block each other. Per-patient races are caught by the
// triage version check in RecordTriage rather than by blocking.
type Manager struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

func NewManager() *Manager {
	return &Manager{entries: make(map[uuid.UUID]*Entry)}
}

// Enqueue registers a newly arrived, untriaged patient. The entry starts
// in Waiting with no triage record, so it orders after all triaged
// patients but remains visible for triage assignment.
func (m *Manager) Enqueue(patientRef uuid.UUID, arrivalTime time.Time, chiefComplaint string) error {
	if patientRef == uuid.Nil {
		return fmt.Errorf("%w: nil patient ref", ErrUnknownPatient)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[patientRef]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, patientRef)
	}
	m.entries[patientRef] = &Entry{
		PatientRef:     patientRef,
		ChiefComplaint: chiefComplaint,
		ArrivalTime:    arrivalTime,
		Status:         Waiting,
	}
	return nil
}

// Entry returns a copy of the patient's current entry.
func (m *Manager) Entry(patientRef uuid.UUID) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[patientRef]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPatient, patientRef)
	}
	return *e, nil
}

// BeginAssessment marks the start of vital-sign capture and returns the
// entry the station observed, including the triage version it must present
// when committing the record. A Waiting patient moves to BeingAssessed;
// an AwaitingTreatment patient is being re-assessed and keeps its status.
// Any other status rejects, which also enforces a single active
// assessment per patient.
func (m *Manager) BeginAssessment(patientRef uuid.UUID) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[patientRef]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPatient, patientRef)
	}
	switch e.Status {
	case Waiting:
		e.Status = BeingAssessed
	case AwaitingTreatment:
		// re-assessment, status unchanged
	default:
		return Entry{}, fmt.Errorf("%w: cannot assess patient in status %s", ErrInvalidTransition, e.Status)
	}
	return *e, nil
}

// RecordTriage commits a classification for the patient, replacing the
// latest record reference and recomputing the patient's queue position in
// the same step. observedVersion must equal the entry's current triage
// version; a mismatch means another station committed first and the caller
// must re-read before retrying, so a duplicate classification is never
// silently dropped.
func (m *Manager) RecordTriage(patientRef, recordID uuid.UUID, acuityLevel int, observedVersion int64) (Entry, error) {
	if acuityLevel < 1 || acuityLevel > 5 {
		return Entry{}, fmt.Errorf("acuity level out of range: %d", acuityLevel)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[patientRef]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPatient, patientRef)
	}
	if e.TriageVersion != observedVersion {
		return Entry{}, fmt.Errorf("%w: patient %s was triaged by another station (version %d, observed %d)",
			ErrConcurrentModification, patientRef, e.TriageVersion, observedVersion)
	}
	switch e.Status {
	case BeingAssessed:
		e.Status = AwaitingTreatment
	case AwaitingTreatment:
		// re-assessment, status unchanged
	default:
		return Entry{}, fmt.Errorf("%w: cannot record triage for patient in status %s", ErrInvalidTransition, e.Status)
	}
	rid := recordID
	e.LatestTriageRecord = &rid
	e.AcuityLevel = acuityLevel
	e.TriageVersion++
	return *e, nil
}

// Transition applies an externally requested status change, validating it
// against the lifecycle. The queue state is untouched on rejection.
func (m *Manager) Transition(patientRef uuid.UUID, to Status) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[patientRef]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPatient, patientRef)
	}
	if err := checkTransition(e.Status, to); err != nil {
		return Entry{}, err
	}
	e.Status = to
	return *e, nil
}

// Next answers "who is treated next": the highest-priority active entry.
// An idle queue is a normal condition, reported via found=false.
func (m *Manager) Next() (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Entry
	for _, e := range m.entries {
		if !e.Status.Active() {
			continue
		}
		if best == nil || entryLess(e, best) {
			best = e
		}
	}
	if best == nil {
		return Entry{}, false
	}
	return *best, true
}

// Snapshot returns the ordered list of entries. With no filter it returns
// the active entries; otherwise only entries whose status is listed.
// Repeated calls without intervening mutations return identical orderings.
func (m *Manager) Snapshot(statuses ...Status) []Entry {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	m.mu.RLock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if len(want) == 0 {
			if !e.Status.Active() {
				continue
			}
		} else if !want[e.Status] {
			continue
		}
		out = append(out, *e)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return entryLess(&out[i], &out[j]) })
	return out
}

// ActiveLen returns the number of entries participating in ordering.
func (m *Manager) ActiveLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, e := range m.entries {
		if e.Status.Active() {
			n++
		}
	}
	return n
}

// Remove purges an entry, normally after the external store has archived a
// discharged patient.
func (m *Manager) Remove(patientRef uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[patientRef]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPatient, patientRef)
	}
	delete(m.entries, patientRef)
	return nil
}

// entryLess is the total order over entries: acuity level ascending with
// untriaged entries as level 6, arrival time ascending, patient ref as the
// final deterministic tie-break.
func entryLess(a, b *Entry) bool {
	la, lb := a.effectiveLevel(), b.effectiveLevel()
	if la != lb {
		return la < lb
	}
	if !a.ArrivalTime.Equal(b.ArrivalTime) {
		return a.ArrivalTime.Before(b.ArrivalTime)
	}
	return bytes.Compare(a.PatientRef[:], b.PatientRef[:]) < 0
}
