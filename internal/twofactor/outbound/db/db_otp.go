package db

import (
	"context"

	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

// CreateOTP inserts a fresh verification code. Existing unconsumed codes
// for the same user are intentionally left untouched.
func (s *DB) CreateOTP(ctx context.Context, in entity.NewOTPRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	const q = `
		INSERT INTO otp_verifications (id, user_id, otp_code, expires_at, consumed)
		VALUES ($1, $2, $3, $4, FALSE)`

	_, err = s.conn.Exec(ctx, q, in.ID, in.UserID, in.Code, in.ExpiresAt)
	return s.mapError(err)
}

// GetLatestUnconsumedOTP returns the most recently created unconsumed code
// for the user, or goerror.ErrNotFound when none exists.
func (s *DB) GetLatestUnconsumedOTP(ctx context.Context, userID string) (_ *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestUnconsumedOTP")
	defer func() { s.endSpan(span, err) }()

	const q = `
		SELECT id, user_id, otp_code, expires_at, consumed, created_at
		FROM otp_verifications
		WHERE user_id = $1 AND consumed = FALSE
		ORDER BY created_at DESC
		LIMIT 1`

	var row entity.OTPRecord
	err = s.conn.QueryRow(ctx, q, userID).Scan(
		&row.ID, &row.UserID, &row.Code, &row.ExpiresAt, &row.Consumed, &row.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &row, nil
}

// MarkOTPConsumed flips the consumed flag on one record.
func (s *DB) MarkOTPConsumed(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkOTPConsumed")
	defer func() { s.endSpan(span, err) }()

	const q = `UPDATE otp_verifications SET consumed = TRUE WHERE id = $1`

	_, err = s.conn.Exec(ctx, q, id)
	return s.mapError(err)
}

// EnableSecondFactor sets the profile's second-factor flag in place.
func (s *DB) EnableSecondFactor(ctx context.Context, userID string) (err error) {
	ctx, span := s.startSpan(ctx, "EnableSecondFactor")
	defer func() { s.endSpan(span, err) }()

	const q = `UPDATE profiles SET two_factor_enabled = TRUE, updated_at = NOW() WHERE user_id = $1`

	_, err = s.conn.Exec(ctx, q, userID)
	return s.mapError(err)
}
