package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
)

const applicationColumns = `id, user_id, payload, eligible, probability, reasons, source, document_key, created_at`

func (s *DB) CreateApplication(ctx context.Context, app entity.Application) (err error) {
	ctx, span := s.startSpan(ctx, "CreateApplication")
	defer func() { s.endSpan(span, err) }()

	payload, err := json.Marshal(app.Form)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO loan_applications (id, user_id, payload, eligible, probability, reasons, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.conn.Exec(ctx, query,
		app.ID, app.UserID, payload, app.Eligible, app.Probability,
		app.Reasons, app.Source.String(), app.CreatedAt,
	)

	return s.mapError(err)
}

func (s *DB) GetApplication(ctx context.Context, id int64) (_ *entity.Application, err error) {
	ctx, span := s.startSpan(ctx, "GetApplication")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1`

	row := s.conn.QueryRow(ctx, query, id)
	app, err := scanApplication(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return app, nil
}

func (s *DB) GetApplicationList(ctx context.Context, filter entity.ApplicationListFilterData) (_ []entity.Application, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetApplicationList")
	defer func() { s.endSpan(span, err) }()

	dateFrom := pgtype.Timestamptz{Time: filter.DateFrom, Valid: !filter.DateFrom.IsZero()}
	dateTo := pgtype.Timestamptz{Time: filter.DateTo, Valid: !filter.DateTo.IsZero()}

	order := "DESC"
	if filter.OrderDirection == "asc" {
		order = "ASC"
	}

	query := `
		SELECT ` + applicationColumns + `
		FROM loan_applications
		WHERE ($1::bool IS FALSE OR eligible = $2)
		AND ($3::bool IS FALSE OR user_id = $4)
		AND ($5::bool IS FALSE OR (created_at >= $6 AND created_at <= $7))
		ORDER BY created_at ` + order + `
		LIMIT $8 OFFSET $9
	`

	rows, err := s.conn.Query(ctx, query,
		filter.Eligible != nil, derefBool(filter.Eligible),
		filter.IsFilterByUserID, filter.UserID,
		filter.IsFilterByDate, dateFrom, dateTo,
		filter.Size, filter.Offset,
	)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var apps []entity.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, s.mapError(err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM loan_applications
		WHERE ($1::bool IS FALSE OR eligible = $2)
		AND ($3::bool IS FALSE OR user_id = $4)
		AND ($5::bool IS FALSE OR (created_at >= $6 AND created_at <= $7))
	`

	var count int64
	err = s.conn.QueryRow(ctx, countQuery,
		filter.Eligible != nil, derefBool(filter.Eligible),
		filter.IsFilterByUserID, filter.UserID,
		filter.IsFilterByDate, dateFrom, dateTo,
	).Scan(&count)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return apps, count, nil
}

func (s *DB) GetApplicationStats(ctx context.Context) (_ *entity.ApplicationStats, err error) {
	ctx, span := s.startSpan(ctx, "GetApplicationStats")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE eligible),
			COUNT(*) FILTER (WHERE NOT eligible),
			COALESCE(AVG(probability), 0)
		FROM loan_applications
	`

	var stats entity.ApplicationStats
	err = s.conn.QueryRow(ctx, query).
		Scan(&stats.Total, &stats.Eligible, &stats.Ineligible, &stats.AvgProbability)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &stats, nil
}

func (s *DB) SetApplicationDocument(ctx context.Context, id int64, documentKey string) (err error) {
	ctx, span := s.startSpan(ctx, "SetApplicationDocument")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE loan_applications SET document_key = $2 WHERE id = $1`

	tag, err := s.conn.Exec(ctx, query, id, documentKey)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return s.mapError(pgx.ErrNoRows)
	}

	return nil
}

func (s *DB) GetSecondFactorEnabled(ctx context.Context, userID string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "GetSecondFactorEnabled")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT two_factor_enabled FROM profiles WHERE user_id = $1`

	var enabled bool
	if err = s.conn.QueryRow(ctx, query, userID).Scan(&enabled); err != nil {
		return false, s.mapError(err)
	}

	return enabled, nil
}

func scanApplication(row pgx.Row) (*entity.Application, error) {
	var (
		app         entity.Application
		payload     []byte
		source      string
		documentKey pgtype.Text
	)

	err := row.Scan(&app.ID, &app.UserID, &payload, &app.Eligible, &app.Probability,
		&app.Reasons, &source, &documentKey, &app.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &app.Form); err != nil {
		return nil, err
	}
	app.Source = entity.ParseScoreSource(source)
	app.DocumentKey = documentKey.String

	return &app, nil
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
