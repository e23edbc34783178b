package triage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository { return &recordRepoPG{pool: pool} }

const recordCols = `id, patient_ref, chief_complaint, systolic_bp, diastolic_bp, heart_rate,
	temperature_c, respiration_rate, oxygen_saturation, pain_scale, consciousness,
	acuity_level, matched_rule, priority_class, estimated_wait, assessed_at, assessed_by,
	notes, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.PatientRef, &r.ChiefComplaint,
		&r.Vitals.SystolicBP, &r.Vitals.DiastolicBP, &r.Vitals.HeartRate,
		&r.Vitals.TemperatureC, &r.Vitals.RespirationRate, &r.Vitals.OxygenSaturation,
		&r.Vitals.PainScale, &r.Vitals.Consciousness,
		&r.AcuityLevel, &r.MatchedRule, &r.PriorityClass, &r.EstimatedWait,
		&r.AssessedAt, &r.AssessedBy, &r.Notes, &r.CreatedAt)
	return &r, err
}

func (repo *recordRepoPG) Create(ctx context.Context, r *Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := repo.pool.Exec(ctx, `
		INSERT INTO triage_record (id, patient_ref, chief_complaint, systolic_bp, diastolic_bp,
			heart_rate, temperature_c, respiration_rate, oxygen_saturation, pain_scale,
			consciousness, acuity_level, matched_rule, priority_class, estimated_wait,
			assessed_at, assessed_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		r.ID, r.PatientRef, r.ChiefComplaint, r.Vitals.SystolicBP, r.Vitals.DiastolicBP,
		r.Vitals.HeartRate, r.Vitals.TemperatureC, r.Vitals.RespirationRate,
		r.Vitals.OxygenSaturation, r.Vitals.PainScale, r.Vitals.Consciousness,
		r.AcuityLevel, r.MatchedRule, r.PriorityClass, r.EstimatedWait,
		r.AssessedAt, r.AssessedBy, r.Notes)
	return err
}

func (repo *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(repo.pool.QueryRow(ctx, `SELECT `+recordCols+` FROM triage_record WHERE id = $1`, id))
}

func (repo *recordRepoPG) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM triage_record`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := repo.pool.Query(ctx,
		`SELECT `+recordCols+` FROM triage_record ORDER BY assessed_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRecords(rows, total)
}

func (repo *recordRepoPG) ListByPatient(ctx context.Context, patientRef uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM triage_record WHERE patient_ref = $1`, patientRef).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := repo.pool.Query(ctx,
		`SELECT `+recordCols+` FROM triage_record WHERE patient_ref = $1 ORDER BY assessed_at DESC LIMIT $2 OFFSET $3`,
		patientRef, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRecords(rows, total)
}

func (repo *recordRepoPG) LatestByPatient(ctx context.Context, patientRef uuid.UUID) (*Record, error) {
	return scanRecord(repo.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM triage_record WHERE patient_ref = $1 ORDER BY assessed_at DESC LIMIT 1`,
		patientRef))
}

func collectRecords(rows pgx.Rows, total int) ([]*Record, int, error) {
	var items []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
