package task

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardboard/wardboard/internal/clinical/severity"
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

const taskCols = `id, patient_id, description, severity, status, due_at,
	created_by, completed_by, completed_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, t *Task) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ward_task (id, patient_id, description, severity, status, due_at, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.PatientID, t.Description, t.Severity.String(), t.Status, t.DueAt, t.CreatedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return scanTask(r.conn(ctx).QueryRow(ctx, `SELECT `+taskCols+` FROM ward_task WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Task) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ward_task SET
			description=$2, severity=$3, status=$4, due_at=$5,
			completed_by=$6, completed_at=$7, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Description, t.Severity.String(), t.Status, t.DueAt,
		t.CompletedBy, t.CompletedAt,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM ward_task WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, status string, limit, offset int) ([]*Task, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	arg := 1
	if patientID != nil {
		where += ` AND patient_id = $1`
		args = append(args, *patientID)
		arg++
	}
	if status != "" {
		where += ` AND status = $` + itoa(arg)
		args = append(args, status)
		arg++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ward_task`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskCols + ` FROM ward_task` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(arg) + ` OFFSET $` + itoa(arg+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *repoPG) ListOpen(ctx context.Context, patientID *uuid.UUID) ([]*Task, error) {
	query := `SELECT ` + taskCols + ` FROM ward_task WHERE status = 'pending'`
	args := []interface{}{}
	if patientID != nil {
		query += ` AND patient_id = $1`
		args = append(args, *patientID)
	}
	query += ` ORDER BY
		CASE severity
			WHEN 'critical' THEN 0
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			ELSE 3
		END, due_at ASC NULLS LAST`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	var sev string
	err := row.Scan(
		&t.ID, &t.PatientID, &t.Description, &sev, &t.Status, &t.DueAt,
		&t.CreatedBy, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Severity, _ = severity.Parse(sev)
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		var t Task
		var sev string
		if err := rows.Scan(
			&t.ID, &t.PatientID, &t.Description, &sev, &t.Status, &t.DueAt,
			&t.CreatedBy, &t.CompletedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Severity, _ = severity.Parse(sev)
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}
