package db

import (
	"context"

	"github.com/finlens/loanadvisor/internal/notification/entity"
)

func (s *DB) CreateDeliveryLog(ctx context.Context, data entity.CreateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO email_delivery_logs (id, user_id, recipient, subject, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.conn.Exec(ctx, query, data.ID, data.UserID, data.Recipient, data.Subject, data.Status.String())

	return s.mapError(err)
}

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE email_delivery_logs
		SET status = $2, provider_response = $3, next_retry_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err = s.conn.Exec(ctx, query, u.ID, u.Status.String(), u.ProviderResponse, u.NextRetryAt)

	return s.mapError(err)
}
