package triage

import "fmt"

// PriorityClass is the coarse treatment bucket derived from an acuity level.
type PriorityClass string

const (
	Immediate PriorityClass = "immediate"
	Urgent    PriorityClass = "urgent"
	Standard  PriorityClass = "standard"
	NonUrgent PriorityClass = "non_urgent"
)

// Priority is the derived priority class plus the wait estimate shown to
// intake staff. It is a pure function of the acuity level; never set
// its fields directly.
type Priority struct {
	Class         PriorityClass `json:"class"`
	EstimatedWait string        `json:"estimated_wait"`
	Description   string        `json:"description"`
}

var priorityTable = map[int]Priority{
	1: {Immediate, "Immediate", "life-threatening"},
	2: {Urgent, "<10 min", "high acuity"},
	3: {Urgent, "30–60 min", "moderate acuity"},
	4: {Standard, "2–4 h", "low acuity"},
	5: {NonUrgent, "4–6 h", "minimal acuity"},
}

// MapPriority returns the priority row for an acuity level 1–5.
func MapPriority(level int) (Priority, error) {
	p, ok := priorityTable[level]
	if !ok {
		return Priority{}, fmt.Errorf("acuity level out of range: %d", level)
	}
	return p, nil
}
