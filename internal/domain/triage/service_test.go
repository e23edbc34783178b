package triage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/igd/triage/internal/domain/queue"
)

// -- Mock repository --

type mockRecordRepo struct {
	records map[uuid.UUID]*Record
	fail    bool
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[uuid.UUID]*Record)}
}

func (m *mockRecordRepo) Create(_ context.Context, r *Record) error {
	if m.fail {
		return fmt.Errorf("store unavailable")
	}
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRecordRepo) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	var result []*Record
	for _, r := range m.records {
		result = append(result, r)
	}
	return result, len(result), nil
}

func (m *mockRecordRepo) ListByPatient(_ context.Context, patientRef uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var result []*Record
	for _, r := range m.records {
		if r.PatientRef == patientRef {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

func (m *mockRecordRepo) LatestByPatient(_ context.Context, patientRef uuid.UUID) (*Record, error) {
	var latest *Record
	for _, r := range m.records {
		if r.PatientRef != patientRef {
			continue
		}
		if latest == nil || r.AssessedAt.After(latest.AssessedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("not found")
	}
	return latest, nil
}

type fakeMetrics struct {
	classifications int
	conflicts       int
	persistFailures int
}

func (f *fakeMetrics) ObserveClassification(int) { f.classifications++ }
func (f *fakeMetrics) ObserveConflict()          { f.conflicts++ }
func (f *fakeMetrics) ObservePersistFailure()    { f.persistFailures++ }

func newTestService(t *testing.T) (*Service, *mockRecordRepo, *queue.Manager) {
	t.Helper()
	repo := newMockRecordRepo()
	mgr := queue.NewManager()
	svc := NewService(repo, mgr, zerolog.Nop())
	return svc, repo, mgr
}

func arrive(t *testing.T, mgr *queue.Manager) uuid.UUID {
	t.Helper()
	ref := uuid.New()
	if err := mgr.Enqueue(ref, time.Now(), "keluhan awal"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return ref
}

func TestCompleteAssessment_FullFlow(t *testing.T) {
	svc, repo, mgr := newTestService(t)
	ref := arrive(t, mgr)

	observed, err := svc.BeginAssessment(context.Background(), ref)
	if err != nil {
		t.Fatalf("begin assessment: %v", err)
	}
	if observed.Status != queue.BeingAssessed {
		t.Fatalf("expected being_assessed, got %s", observed.Status)
	}

	rec, entry, err := svc.CompleteAssessment(context.Background(), AssessmentInput{
		PatientRef:      ref,
		ChiefComplaint:  "demam tinggi sejak kemarin",
		Vitals:          VitalSigns{TemperatureC: ptrFloat(38.2)},
		ObservedVersion: observed.TriageVersion,
		AssessedBy:      "station-1",
	})
	if err != nil {
		t.Fatalf("complete assessment: %v", err)
	}

	if rec.AcuityLevel != 3 || rec.MatchedRule != RuleComplaintFever {
		t.Errorf("expected level 3 via complaint rule, got (%d, %s)", rec.AcuityLevel, rec.MatchedRule)
	}
	if rec.PriorityClass != Urgent || rec.EstimatedWait != "30–60 min" {
		t.Errorf("derived priority mismatch: %s / %s", rec.PriorityClass, rec.EstimatedWait)
	}
	if entry.Status != queue.AwaitingTreatment {
		t.Errorf("commit must move patient to awaiting_treatment, got %s", entry.Status)
	}
	if entry.LatestTriageRecord == nil || *entry.LatestTriageRecord != rec.ID {
		t.Error("queue entry must reference the committed record")
	}
	if _, ok := repo.records[rec.ID]; !ok {
		t.Error("record must be persisted for audit")
	}
}

func TestCompleteAssessment_ValidationErrors(t *testing.T) {
	svc, repo, mgr := newTestService(t)
	ref := arrive(t, mgr)
	if _, err := svc.BeginAssessment(context.Background(), ref); err != nil {
		t.Fatalf("begin: %v", err)
	}

	cases := []struct {
		name string
		in   AssessmentInput
	}{
		{"empty complaint", AssessmentInput{
			PatientRef: ref, Vitals: VitalSigns{HeartRate: ptrInt(80)}, AssessedBy: "station-1",
		}},
		{"missing assessor", AssessmentInput{
			PatientRef: ref, ChiefComplaint: "demam", Vitals: VitalSigns{HeartRate: ptrInt(80)},
		}},
		{"no vitals measured", AssessmentInput{
			PatientRef: ref, ChiefComplaint: "demam", AssessedBy: "station-1",
		}},
		{"vitals out of range", AssessmentInput{
			PatientRef: ref, ChiefComplaint: "demam", AssessedBy: "station-1",
			Vitals: VitalSigns{OxygenSaturation: ptrInt(140)},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.CompleteAssessment(context.Background(), tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}

	if len(repo.records) != 0 {
		t.Error("rejected assessments must not persist records")
	}
	entry, _ := mgr.Entry(ref)
	if entry.Triaged() {
		t.Error("rejected assessments must not commit to the queue")
	}
}

func TestCompleteAssessment_StaleVersion(t *testing.T) {
	svc, repo, mgr := newTestService(t)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)
	ref := arrive(t, mgr)

	observed, err := svc.BeginAssessment(context.Background(), ref)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	in := AssessmentInput{
		PatientRef:      ref,
		ChiefComplaint:  "pendarahan",
		Vitals:          VitalSigns{HeartRate: ptrInt(90)},
		ObservedVersion: observed.TriageVersion,
		AssessedBy:      "station-1",
	}
	if _, _, err := svc.CompleteAssessment(context.Background(), in); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// Second station presents the same observed version.
	in.AssessedBy = "station-2"
	_, _, err = svc.CompleteAssessment(context.Background(), in)
	if !errors.Is(err, queue.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	if len(repo.records) != 1 {
		t.Errorf("exactly one record must be persisted, got %d", len(repo.records))
	}
	if metrics.conflicts != 1 {
		t.Errorf("expected one observed conflict, got %d", metrics.conflicts)
	}
	if metrics.classifications != 1 {
		t.Errorf("expected one observed classification, got %d", metrics.classifications)
	}
}

func TestCompleteAssessment_PersistenceFailureIsNonFatal(t *testing.T) {
	svc, repo, mgr := newTestService(t)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)
	repo.fail = true
	ref := arrive(t, mgr)

	observed, err := svc.BeginAssessment(context.Background(), ref)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	rec, entry, err := svc.CompleteAssessment(context.Background(), AssessmentInput{
		PatientRef:      ref,
		ChiefComplaint:  "sesak napas",
		Vitals:          VitalSigns{OxygenSaturation: ptrInt(95)},
		ObservedVersion: observed.TriageVersion,
		AssessedBy:      "station-1",
	})
	if err != nil {
		t.Fatalf("audit loss must not fail the assessment: %v", err)
	}
	if rec.AcuityLevel != 1 {
		t.Errorf("expected level 1 for dyspnea complaint, got %d", rec.AcuityLevel)
	}
	if entry.Status != queue.AwaitingTreatment {
		t.Errorf("queue commit must stand despite audit failure, got %s", entry.Status)
	}
	if metrics.persistFailures != 1 {
		t.Errorf("expected one persist failure observation, got %d", metrics.persistFailures)
	}
}

func TestCompleteAssessment_ReassessmentSupersedes(t *testing.T) {
	svc, repo, mgr := newTestService(t)
	ref := arrive(t, mgr)

	observed, _ := svc.BeginAssessment(context.Background(), ref)
	first, _, err := svc.CompleteAssessment(context.Background(), AssessmentInput{
		PatientRef:      ref,
		ChiefComplaint:  "demam tinggi",
		Vitals:          VitalSigns{TemperatureC: ptrFloat(38.7)},
		ObservedVersion: observed.TriageVersion,
		AssessedBy:      "station-1",
	})
	if err != nil {
		t.Fatalf("initial assessment: %v", err)
	}

	// Vitals re-assessed: patient has deteriorated.
	observed, err = svc.BeginAssessment(context.Background(), ref)
	if err != nil {
		t.Fatalf("begin re-assessment: %v", err)
	}
	second, entry, err := svc.CompleteAssessment(context.Background(), AssessmentInput{
		PatientRef:      ref,
		ChiefComplaint:  "demam tinggi, sesak napas",
		Vitals:          VitalSigns{TemperatureC: ptrFloat(39.4), OxygenSaturation: ptrInt(88)},
		ObservedVersion: observed.TriageVersion,
		AssessedBy:      "station-2",
	})
	if err != nil {
		t.Fatalf("re-assessment: %v", err)
	}

	if second.ID == first.ID {
		t.Error("re-assessment must create a new record, not mutate the old one")
	}
	if second.AcuityLevel != 1 {
		t.Errorf("expected escalation to level 1, got %d", second.AcuityLevel)
	}
	if entry.Status != queue.AwaitingTreatment {
		t.Errorf("re-assessment must not change status, got %s", entry.Status)
	}
	if *entry.LatestTriageRecord != second.ID {
		t.Error("queue must order by the superseding record")
	}
	if len(repo.records) != 2 {
		t.Errorf("both records must remain for audit, got %d", len(repo.records))
	}

	latest, err := svc.LatestRecord(context.Background(), ref)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Error("latest record must be the superseding one")
	}
}

func TestLatestRecord_NoAssessmentYet(t *testing.T) {
	svc, _, mgr := newTestService(t)
	ref := arrive(t, mgr)
	if _, err := svc.LatestRecord(context.Background(), ref); err == nil {
		t.Fatal("expected error for patient without a triage record")
	}
}

func TestCompleteAssessment_UnknownPatient(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.CompleteAssessment(context.Background(), AssessmentInput{
		PatientRef:     uuid.New(),
		ChiefComplaint: "demam",
		Vitals:         VitalSigns{HeartRate: ptrInt(80)},
		AssessedBy:     "station-1",
	})
	if !errors.Is(err, queue.ErrUnknownPatient) {
		t.Fatalf("expected ErrUnknownPatient, got %v", err)
	}
}
