package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"clientdesk/internal/models"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(ctx context.Context, tx Tx, engagementID int64, amount decimal.Decimal, description string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO payments (engagement_id, payment_amount, payment_description)
		VALUES ($1, $2, $3)
		RETURNING payment_id
	`, engagementID, amount, description)
	return id, err
}

// GetRemaining reads the current remaining amount for a (payment, engagement)
// pair inside the pay transaction.
func (s *PaymentStore) GetRemaining(ctx context.Context, tx Getter, paymentID, engagementID int64) (decimal.Decimal, error) {
	var remaining decimal.Decimal
	err := tx.GetContext(ctx, &remaining, `
		SELECT payment_amount
		FROM payments
		WHERE payment_id = $1 AND engagement_id = $2
	`, paymentID, engagementID)
	return remaining, err
}

// Decrement applies a payment as a single conditional statement: the balance
// only moves when it covers the amount, so two concurrent payers can never
// both spend the same remaining value. The second return reports whether the
// guard held; false with no error means the decrement was refused.
func (s *PaymentStore) Decrement(ctx context.Context, tx Getter, paymentID, engagementID int64, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	var remaining decimal.Decimal
	err := tx.GetContext(ctx, &remaining, `
		UPDATE payments
		SET payment_amount = payment_amount - $1
		WHERE payment_id = $2 AND engagement_id = $3 AND payment_amount >= $1
		RETURNING payment_amount
	`, amount, paymentID, engagementID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return remaining, true, nil
}

func (s *PaymentStore) ListByEngagement(ctx context.Context, engagementID int64) ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.SelectContext(ctx, &rows, `
		SELECT payment_id, engagement_id, payment_amount, payment_description, created_at
		FROM payments
		WHERE engagement_id = $1
		ORDER BY created_at DESC
	`, engagementID)
	return rows, err
}

// DeleteByEngagement clears the payment ledger of an engagement during
// cascade delete.
func (s *PaymentStore) DeleteByEngagement(ctx context.Context, tx Execer, engagementID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE engagement_id = $1`, engagementID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
