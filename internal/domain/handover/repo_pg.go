package handover

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

const noteCols = `id, patient_id, author, content, drafted, created_at`

func (r *repoPG) CreateNote(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO handover_note (id, patient_id, author, content, drafted)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.PatientID, n.Author, n.Content, n.Drafted,
	)
	return err
}

func (r *repoPG) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	var n Note
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+noteCols+` FROM handover_note WHERE id = $1`, id).
		Scan(&n.ID, &n.PatientID, &n.Author, &n.Content, &n.Drafted, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repoPG) ListNotesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM handover_note WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM handover_note WHERE patient_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.PatientID, &n.Author, &n.Content, &n.Drafted, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, &n)
	}
	return notes, total, rows.Err()
}

func (r *repoPG) DeleteNote(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM handover_note WHERE id = $1`, id)
	return err
}
