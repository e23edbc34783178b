package queue

import (
	"time"

	"github.com/google/uuid"
)

// Status is a patient's position in the care lifecycle, independent of the
// acuity level on their triage record.
type Status string

const (
	Waiting           Status = "waiting"
	BeingAssessed     Status = "being_assessed"
	AwaitingTreatment Status = "awaiting_treatment"
	Treated           Status = "treated"
	Discharged        Status = "discharged"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case Waiting, BeingAssessed, AwaitingTreatment, Treated, Discharged:
		return true
	}
	return false
}

// Active reports whether the status participates in queue ordering.
// Treated and discharged patients are retained for audit but never
// returned by Next.
func (s Status) Active() bool {
	switch s {
	case Waiting, BeingAssessed, AwaitingTreatment:
		return true
	}
	return false
}

// untriagedLevel orders registered-but-unassessed patients after every
// triaged patient, so an untriaged arrival never jumps ahead of an
// assessed critical patient.
const untriagedLevel = 6

// Entry is a patient's record within the ordered waiting structure.
// TriageVersion counts committed triage records for the patient and backs
// the optimistic-concurrency check in RecordTriage.
type Entry struct {
	PatientRef          uuid.UUID  `json:"patient_ref"`
	ChiefComplaint      string     `json:"chief_complaint"`
	ArrivalTime         time.Time  `json:"arrival_time"`
	Status              Status     `json:"status"`
	LatestTriageRecord  *uuid.UUID `json:"latest_triage_record,omitempty"`
	AcuityLevel         int        `json:"acuity_level,omitempty"` // 0 until first triage
	TriageVersion       int64      `json:"triage_version"`
}

// Triaged reports whether the patient has at least one committed record.
func (e Entry) Triaged() bool { return e.LatestTriageRecord != nil }

// effectiveLevel is the ordering key: untriaged entries sort as level 6.
func (e Entry) effectiveLevel() int {
	if !e.Triaged() {
		return untriagedLevel
	}
	return e.AcuityLevel
}
