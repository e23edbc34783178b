package triage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/igd/triage/internal/domain/queue"
)

// Metrics is the subset of the metrics surface the service reports to.
type Metrics interface {
	ObserveClassification(level int)
	ObserveConflict()
	ObservePersistFailure()
}

// Service runs the station-side assessment workflow: validate vitals,
// classify, derive priority, persist the record for audit and commit the
// result to the queue in one logical step.
type Service struct {
	repo    RecordRepository
	queue   *queue.Manager
	metrics Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo RecordRepository, q *queue.Manager, logger zerolog.Logger) *Service {
	return &Service{repo: repo, queue: q, logger: logger, now: time.Now}
}

// SetMetrics attaches an optional metrics sink to the service.
func (s *Service) SetMetrics(m Metrics) { s.metrics = m }

// AssessmentInput is everything a station submits when completing an
// assessment. ObservedVersion is the triage version returned by
// BeginAssessment; it backs the concurrent-modification check.
type AssessmentInput struct {
	PatientRef      uuid.UUID  `json:"patient_ref"`
	ChiefComplaint  string     `json:"chief_complaint"`
	Vitals          VitalSigns `json:"vitals"`
	ObservedVersion int64      `json:"observed_version"`
	AssessedBy      string     `json:"assessed_by"`
	Notes           *string    `json:"notes,omitempty"`
}

// BeginAssessment claims the patient for vital-sign capture and returns
// the queue entry the station observed.
func (s *Service) BeginAssessment(ctx context.Context, patientRef uuid.UUID) (queue.Entry, error) {
	return s.queue.BeginAssessment(patientRef)
}

// CompleteAssessment classifies the patient and commits the outcome.
// Classification itself is pure and never blocks; the only suspension
// point is the queue commit. The queue commit happens before the audit
// write: a rejected commit persists nothing, while a failed audit write is
// logged and counted but never undoes the committed queue state.
func (s *Service) CompleteAssessment(ctx context.Context, in AssessmentInput) (*Record, queue.Entry, error) {
	if in.ChiefComplaint == "" {
		return nil, queue.Entry{}, &ValidationError{Field: "chief_complaint", Reason: "must not be empty"}
	}
	if in.AssessedBy == "" {
		return nil, queue.Entry{}, &ValidationError{Field: "assessed_by", Reason: "must not be empty"}
	}
	if err := in.Vitals.Validate(); err != nil {
		return nil, queue.Entry{}, err
	}

	level, rule := Classify(in.ChiefComplaint, in.Vitals)
	prio, err := MapPriority(level)
	if err != nil {
		return nil, queue.Entry{}, err
	}

	rec := &Record{
		ID:             uuid.New(),
		PatientRef:     in.PatientRef,
		ChiefComplaint: in.ChiefComplaint,
		Vitals:         in.Vitals,
		AcuityLevel:    level,
		MatchedRule:    rule,
		PriorityClass:  prio.Class,
		EstimatedWait:  prio.EstimatedWait,
		AssessedAt:     s.now(),
		AssessedBy:     in.AssessedBy,
		Notes:          in.Notes,
	}

	entry, err := s.queue.RecordTriage(in.PatientRef, rec.ID, level, in.ObservedVersion)
	if err != nil {
		if errors.Is(err, queue.ErrConcurrentModification) && s.metrics != nil {
			s.metrics.ObserveConflict()
		}
		return nil, queue.Entry{}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveClassification(level)
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		// Audit loss only: the queue commit stands.
		if s.metrics != nil {
			s.metrics.ObservePersistFailure()
		}
		s.logger.Warn().Err(err).
			Str("patient_ref", in.PatientRef.String()).
			Str("record_id", rec.ID.String()).
			Msg("triage record not persisted")
	}

	s.logger.Info().
		Str("patient_ref", in.PatientRef.String()).
		Str("record_id", rec.ID.String()).
		Int("acuity_level", level).
		Str("matched_rule", rule).
		Str("assessed_by", in.AssessedBy).
		Msg("triage committed")

	return rec, entry, nil
}

func (s *Service) Record(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// LatestRecord returns the patient's current classification, the record a
// re-assessing station starts from.
func (s *Service) LatestRecord(ctx context.Context, patientRef uuid.UUID) (*Record, error) {
	return s.repo.LatestByPatient(ctx, patientRef)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListRecordsByPatient(ctx context.Context, patientRef uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByPatient(ctx, patientRef, limit, offset)
}
