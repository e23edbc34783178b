package triage

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the triage_record table. A record is immutable once
// created; re-assessing a patient creates a new record superseding the
// previous one. The queue always orders by the latest record.
type Record struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	PatientRef     uuid.UUID     `db:"patient_ref" json:"patient_ref"`
	ChiefComplaint string        `db:"chief_complaint" json:"chief_complaint"`
	Vitals         VitalSigns    `json:"vitals"`
	AcuityLevel    int           `db:"acuity_level" json:"acuity_level"`
	MatchedRule    string        `db:"matched_rule" json:"matched_rule"`
	PriorityClass  PriorityClass `db:"priority_class" json:"priority_class"`
	EstimatedWait  string        `db:"estimated_wait" json:"estimated_wait"`
	AssessedAt     time.Time     `db:"assessed_at" json:"assessed_at"`
	AssessedBy     string        `db:"assessed_by" json:"assessed_by"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}
