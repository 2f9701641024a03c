package lab

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardboard/wardboard/internal/clinical/obs"
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

const panelCols = `id, patient_id, name, collected_at, reported_at, created_at`

const resultCols = `id, panel_id, name, analyte_key, value, value_text, unit,
	ref_low, ref_high, ref_text, flag, created_at`

func (r *repoPG) CreatePanel(ctx context.Context, p *Panel) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_panel (id, patient_id, name, collected_at, reported_at)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.PatientID, p.Name, p.CollectedAt, p.ReportedAt,
	)
	if err != nil {
		return err
	}

	for _, res := range p.Results {
		res.ID = uuid.New()
		res.PanelID = p.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO lab_result (
				id, panel_id, name, analyte_key, value, value_text, unit,
				ref_low, ref_high, ref_text, flag
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			res.ID, res.PanelID, res.Name, res.AnalyteKey, res.Value, res.ValueText, res.Unit,
			res.RefLow, res.RefHigh, res.RefText, res.Flag.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetPanel(ctx context.Context, id uuid.UUID) (*Panel, error) {
	p, err := scanPanel(r.conn(ctx).QueryRow(ctx, `SELECT `+panelCols+` FROM lab_panel WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadResults(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) ListPanelsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Panel, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_panel WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+panelCols+` FROM lab_panel WHERE patient_id = $1
		 ORDER BY collected_at DESC NULLS FIRST LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	panels, err := collectPanels(rows)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range panels {
		if err := r.loadResults(ctx, p); err != nil {
			return nil, 0, err
		}
	}
	return panels, total, nil
}

func (r *repoPG) PanelsForAnalyte(ctx context.Context, patientID uuid.UUID, analyteName, analyteKey string) ([]*Panel, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT p.id, p.patient_id, p.name, p.collected_at, p.reported_at, p.created_at
		FROM lab_panel p
		JOIN lab_result res ON res.panel_id = p.id
		WHERE p.patient_id = $1
		  AND (($2 <> '' AND res.analyte_key = $2) OR ($2 = '' AND LOWER(res.name) = LOWER($3)))
		ORDER BY p.collected_at ASC NULLS FIRST`,
		patientID, analyteKey, analyteName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	panels, err := collectPanels(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range panels {
		if err := r.loadResults(ctx, p); err != nil {
			return nil, err
		}
	}
	return panels, nil
}

func (r *repoPG) ListCriticalResults(ctx context.Context, patientID *uuid.UUID, limit int) ([]*CriticalResult, error) {
	query := `
		SELECT res.id, res.panel_id, res.name, res.analyte_key, res.value, res.value_text, res.unit,
		       res.ref_low, res.ref_high, res.ref_text, res.flag, res.created_at,
		       p.name, p.patient_id
		FROM lab_result res
		JOIN lab_panel p ON p.id = res.panel_id
		WHERE res.flag IN ('critical_low', 'critical_high')`
	args := []interface{}{limit}
	if patientID != nil {
		query += ` AND p.patient_id = $2`
		args = append(args, *patientID)
	}
	query += ` ORDER BY res.created_at DESC LIMIT $1`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var criticals []*CriticalResult
	for rows.Next() {
		var res Result
		var flag string
		var cr CriticalResult
		if err := rows.Scan(
			&res.ID, &res.PanelID, &res.Name, &res.AnalyteKey, &res.Value, &res.ValueText, &res.Unit,
			&res.RefLow, &res.RefHigh, &res.RefText, &flag, &res.CreatedAt,
			&cr.PanelName, &cr.PatientID,
		); err != nil {
			return nil, err
		}
		res.Flag, _ = obs.ParseStatus(flag)
		cr.Result = &res
		criticals = append(criticals, &cr)
	}
	return criticals, rows.Err()
}

func (r *repoPG) DeletePanel(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_panel WHERE id = $1`, id)
	return err
}

func (r *repoPG) loadResults(ctx context.Context, p *Panel) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultCols+` FROM lab_result WHERE panel_id = $1 ORDER BY name`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var res Result
		var flag string
		if err := rows.Scan(
			&res.ID, &res.PanelID, &res.Name, &res.AnalyteKey, &res.Value, &res.ValueText, &res.Unit,
			&res.RefLow, &res.RefHigh, &res.RefText, &flag, &res.CreatedAt,
		); err != nil {
			return err
		}
		res.Flag, _ = obs.ParseStatus(flag)
		p.Results = append(p.Results, &res)
	}
	return rows.Err()
}

func scanPanel(row pgx.Row) (*Panel, error) {
	var p Panel
	err := row.Scan(&p.ID, &p.PatientID, &p.Name, &p.CollectedAt, &p.ReportedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPanels(rows pgx.Rows) ([]*Panel, error) {
	var panels []*Panel
	for rows.Next() {
		var p Panel
		if err := rows.Scan(&p.ID, &p.PatientID, &p.Name, &p.CollectedAt, &p.ReportedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		panels = append(panels, &p)
	}
	return panels, rows.Err()
}
