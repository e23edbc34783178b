package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{Waiting, BeingAssessed, true},
		{Waiting, Discharged, true}, // cancellation
		{BeingAssessed, AwaitingTreatment, true},
		{AwaitingTreatment, Treated, true},
		{Treated, Discharged, true},

		{Waiting, AwaitingTreatment, false},
		{Waiting, Treated, false},
		{BeingAssessed, Treated, false},
		{BeingAssessed, Discharged, false},
		{AwaitingTreatment, Discharged, false},
		{AwaitingTreatment, Waiting, false},
		{Treated, Waiting, false},
		{Discharged, Waiting, false},
		{Discharged, Treated, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransition_DirectAwaitingTreatmentRejected(t *testing.T) {
	m := NewManager()
	ref := uuid.New()
	if err := m.Enqueue(ref, time.Now(), "keluhan"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := m.BeginAssessment(ref); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// AwaitingTreatment is only entered through RecordTriage.
	_, err := m.Transition(ref, AwaitingTreatment)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransition_CancellationFromWaiting(t *testing.T) {
	m := NewManager()
	ref := uuid.New()
	if err := m.Enqueue(ref, time.Now(), "keluhan"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	entry, err := m.Transition(ref, Discharged)
	if err != nil {
		t.Fatalf("cancellation: %v", err)
	}
	if entry.Status != Discharged {
		t.Errorf("expected discharged, got %s", entry.Status)
	}
}

func TestTransition_InvalidLeavesStateUnchanged(t *testing.T) {
	m := NewManager()
	ref := uuid.New()
	if err := m.Enqueue(ref, time.Now(), "keluhan"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if _, err := m.Transition(ref, Treated); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	entry, err := m.Entry(ref)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Status != Waiting {
		t.Errorf("rejected transition must leave state unchanged, got %s", entry.Status)
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	m := NewManager()
	ref := uuid.New()
	if err := m.Enqueue(ref, time.Now(), "keluhan"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := m.Transition(ref, Status("limbo")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}

func TestStatus_Active(t *testing.T) {
	active := []Status{Waiting, BeingAssessed, AwaitingTreatment}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	for _, s := range []Status{Treated, Discharged} {
		if s.Active() {
			t.Errorf("%s should not be active", s)
		}
	}
}
