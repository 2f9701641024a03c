package vitals

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardboard/wardboard/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const vitalsCols = `id, patient_id, heart_rate, blood_pressure, systolic, diastolic, mean_arterial,
	temperature, resp_rate, spo2, on_oxygen,
	gcs_eye, gcs_verbal, gcs_motor, altered_consciousness,
	recorded_by, recorded_at, created_at`

func (r *repoPG) Create(ctx context.Context, v *VitalSigns) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vital_signs (
			id, patient_id, heart_rate, blood_pressure, systolic, diastolic, mean_arterial,
			temperature, resp_rate, spo2, on_oxygen,
			gcs_eye, gcs_verbal, gcs_motor, altered_consciousness,
			recorded_by, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		v.ID, v.PatientID, v.HeartRate, v.BloodPressure, v.Systolic, v.Diastolic, v.MeanArterial,
		v.Temperature, v.RespRate, v.SpO2, v.OnOxygen,
		v.GCSEye, v.GCSVerbal, v.GCSMotor, v.AlteredConsciousness,
		v.RecordedBy, v.RecordedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*VitalSigns, error) {
	return scanVitals(r.conn(ctx).QueryRow(ctx, `SELECT `+vitalsCols+` FROM vital_signs WHERE id = $1`, id))
}

func (r *repoPG) GetLatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalSigns, error) {
	return scanVitals(r.conn(ctx).QueryRow(ctx,
		`SELECT `+vitalsCols+` FROM vital_signs WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`,
		patientID))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalSigns, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM vital_signs WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+vitalsCols+` FROM vital_signs WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*VitalSigns
	for rows.Next() {
		var v VitalSigns
		if err := rows.Scan(
			&v.ID, &v.PatientID, &v.HeartRate, &v.BloodPressure, &v.Systolic, &v.Diastolic, &v.MeanArterial,
			&v.Temperature, &v.RespRate, &v.SpO2, &v.OnOxygen,
			&v.GCSEye, &v.GCSVerbal, &v.GCSMotor, &v.AlteredConsciousness,
			&v.RecordedBy, &v.RecordedAt, &v.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, &v)
	}
	return result, total, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM vital_signs WHERE id = $1`, id)
	return err
}

func scanVitals(row pgx.Row) (*VitalSigns, error) {
	var v VitalSigns
	err := row.Scan(
		&v.ID, &v.PatientID, &v.HeartRate, &v.BloodPressure, &v.Systolic, &v.Diastolic, &v.MeanArterial,
		&v.Temperature, &v.RespRate, &v.SpO2, &v.OnOxygen,
		&v.GCSEye, &v.GCSVerbal, &v.GCSMotor, &v.AlteredConsciousness,
		&v.RecordedBy, &v.RecordedAt, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
