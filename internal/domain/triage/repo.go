package triage

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository is the durable audit store for triage records. The
// engine treats persistence as fire-and-forget: a write failure is
// reportable but never corrupts queue ordering.
type RecordRepository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
	ListByPatient(ctx context.Context, patientRef uuid.UUID, limit, offset int) ([]*Record, int, error)
	LatestByPatient(ctx context.Context, patientRef uuid.UUID) (*Record, error)
}
