// Package services holds the transactional workflows: the billing ledger
// (engagements, details, payments) and the hotline thread.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clientdesk/internal/apperr"
	"clientdesk/internal/db"
	"clientdesk/internal/models"
	"clientdesk/internal/store"
)

var (
	ErrUserNotManaged     = errors.New("user is not managed by this admin")
	ErrEngagementNotFound = errors.New("engagement not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrOverPayment        = errors.New("amount exceeds remaining balance")
	ErrNotPaymentOwner    = errors.New("payment belongs to another user")
	ErrInvalidAmount      = errors.New("invalid amount")
)

type EngagementStore interface {
	Create(ctx context.Context, tx store.Tx, userID int64, name string, startDate, endDate time.Time) (int64, error)
	InsertDetails(ctx context.Context, tx store.Execer, engagementID int64, contents []string) error
	AppendDetails(ctx context.Context, engagementID int64, contents []string) error
	GetByID(ctx context.Context, engagementID int64) (models.Engagement, error)
	GetOwner(ctx context.Context, tx store.Getter, engagementID int64) (int64, error)
	DeleteDetails(ctx context.Context, tx store.Execer, engagementID int64) (int64, error)
	Delete(ctx context.Context, tx store.Execer, engagementID int64) (int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, tx store.Tx, engagementID int64, amount decimal.Decimal, description string) (int64, error)
	GetRemaining(ctx context.Context, tx store.Getter, paymentID, engagementID int64) (decimal.Decimal, error)
	Decrement(ctx context.Context, tx store.Getter, paymentID, engagementID int64, amount decimal.Decimal) (decimal.Decimal, bool, error)
	DeleteByEngagement(ctx context.Context, tx store.Execer, engagementID int64) (int64, error)
}

type ManagedUserStore interface {
	GetManaged(ctx context.Context, adminID, userID int64) (models.User, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actor, action, entityType, entityID, data string) error
}

type LedgerService struct {
	txRunner    db.TxRunner
	engagements EngagementStore
	payments    PaymentStore
	users       ManagedUserStore
	audit       AuditStore
	logger      *zap.Logger
}

func NewLedgerService(txRunner db.TxRunner, engagements EngagementStore, payments PaymentStore, users ManagedUserStore, audit AuditStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		txRunner:    txRunner,
		engagements: engagements,
		payments:    payments,
		users:       users,
		audit:       audit,
		logger:      logger,
	}
}

type CreateEngagementRequest struct {
	AdminID   int64
	UserID    int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Details   []string
}

// CreateEngagement inserts the engagement row and its detail line items in
// one transaction; either both land or neither does.
func (s *LedgerService) CreateEngagement(ctx context.Context, req CreateEngagementRequest) (int64, error) {
	actor := adminActor(req.AdminID)
	if _, err := s.users.GetManaged(ctx, req.AdminID, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotManaged
		}
		return 0, apperr.E(apperr.KindInfrastructure, "ledger.CreateEngagement", actor, err).WithQueryIndex(0)
	}
	var engagementID int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.engagements.Create(ctx, tx, req.UserID, req.Name, req.StartDate, req.EndDate)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.CreateEngagement", actor, err).WithQueryIndex(1)
		}
		engagementID = id
		if err := s.engagements.InsertDetails(ctx, tx, id, req.Details); err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.CreateEngagement", actor, err).WithQueryIndex(2)
		}
		data, _ := json.Marshal(map[string]any{"engagement_id": id, "user_id": req.UserID})
		return s.audit.Log(ctx, tx, actor, "create_engagement", "engagement", itoa(id), string(data))
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("engagement created",
		zap.Int64("engagement_id", engagementID),
		zap.Int64("user_id", req.UserID),
		zap.Int64("admin_id", req.AdminID),
	)
	return engagementID, nil
}

// DeleteEngagement removes the engagement and everything hanging off it.
// Details and payments go first so the foreign keys are never dangling, all
// inside one transaction.
func (s *LedgerService) DeleteEngagement(ctx context.Context, adminID, engagementID int64) error {
	actor := adminActor(adminID)
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.engagements.DeleteDetails(ctx, tx, engagementID); err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.DeleteEngagement", actor, err).WithQueryIndex(0)
		}
		if _, err := s.payments.DeleteByEngagement(ctx, tx, engagementID); err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.DeleteEngagement", actor, err).WithQueryIndex(1)
		}
		deleted, err := s.engagements.Delete(ctx, tx, engagementID)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.DeleteEngagement", actor, err).WithQueryIndex(2)
		}
		if deleted == 0 {
			return ErrEngagementNotFound
		}
		return s.audit.Log(ctx, tx, actor, "delete_engagement", "engagement", itoa(engagementID), "{}")
	})
}

// AppendDetails adds line items to an existing engagement. The batched insert
// is a single statement, atomic on its own.
func (s *LedgerService) AppendDetails(ctx context.Context, adminID, engagementID int64, contents []string) error {
	actor := adminActor(adminID)
	if _, err := s.engagements.GetByID(ctx, engagementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEngagementNotFound
		}
		return apperr.E(apperr.KindInfrastructure, "ledger.AppendDetails", actor, err).WithQueryIndex(0)
	}
	if err := s.engagements.AppendDetails(ctx, engagementID, contents); err != nil {
		return apperr.E(apperr.KindInfrastructure, "ledger.AppendDetails", actor, err).WithQueryIndex(1)
	}
	return nil
}

type RequestPaymentRequest struct {
	AdminID      int64
	EngagementID int64
	Amount       decimal.Decimal
	Description  string
}

// RequestPayment opens a payment ledger row with remaining = amount. The
// engagement lookup establishes the row exists before anything is billed.
func (s *LedgerService) RequestPayment(ctx context.Context, req RequestPaymentRequest) (int64, error) {
	actor := adminActor(req.AdminID)
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidAmount
	}
	if _, err := s.engagements.GetByID(ctx, req.EngagementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrEngagementNotFound
		}
		return 0, apperr.E(apperr.KindInfrastructure, "ledger.RequestPayment", actor, err).WithQueryIndex(0)
	}
	var paymentID int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.payments.Create(ctx, tx, req.EngagementID, req.Amount, req.Description)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.RequestPayment", actor, err).WithQueryIndex(1)
		}
		paymentID = id
		data, _ := json.Marshal(map[string]any{"engagement_id": req.EngagementID, "amount": req.Amount.String()})
		return s.audit.Log(ctx, tx, actor, "request_payment", "payment", itoa(id), string(data))
	})
	if err != nil {
		return 0, err
	}
	return paymentID, nil
}

type ApplyPaymentRequest struct {
	UserID       int64
	PaymentID    int64
	EngagementID int64
	Amount       decimal.Decimal
}

// PaymentResult reports the balance after a successful pay call.
type PaymentResult struct {
	Leftover decimal.Decimal
	Settled  bool
}

// ApplyPayment decrements the remaining balance. The ownership check runs
// after the engagement read because the owning user id is only known once the
// row is read. The decrement itself is one conditional statement guarded on
// the current balance, so concurrent calls can never drive it negative or
// lose an update.
func (s *LedgerService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (PaymentResult, error) {
	actor := userActor(req.UserID)
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return PaymentResult{}, ErrInvalidAmount
	}
	var result PaymentResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		owner, err := s.engagements.GetOwner(ctx, tx, req.EngagementID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEngagementNotFound
			}
			return apperr.E(apperr.KindInfrastructure, "ledger.ApplyPayment", actor, err).WithQueryIndex(0)
		}
		if owner != req.UserID {
			return ErrNotPaymentOwner
		}
		if _, err := s.payments.GetRemaining(ctx, tx, req.PaymentID, req.EngagementID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPaymentNotFound
			}
			return apperr.E(apperr.KindInfrastructure, "ledger.ApplyPayment", actor, err).WithQueryIndex(1)
		}
		leftover, applied, err := s.payments.Decrement(ctx, tx, req.PaymentID, req.EngagementID, req.Amount)
		if err != nil {
			return apperr.E(apperr.KindInfrastructure, "ledger.ApplyPayment", actor, err).WithQueryIndex(2)
		}
		if !applied {
			return ErrOverPayment
		}
		result = PaymentResult{Leftover: leftover, Settled: leftover.IsZero()}
		data, _ := json.Marshal(map[string]any{
			"payment_id": req.PaymentID,
			"amount":     req.Amount.String(),
			"leftover":   leftover.String(),
		})
		return s.audit.Log(ctx, tx, actor, "apply_payment", "payment", itoa(req.PaymentID), string(data))
	})
	if err != nil {
		return PaymentResult{}, err
	}
	s.logger.Info("payment applied",
		zap.Int64("payment_id", req.PaymentID),
		zap.Int64("user_id", req.UserID),
		zap.String("leftover", result.Leftover.String()),
	)
	return result, nil
}

func adminActor(adminID int64) string {
	return fmt.Sprintf("[ADMIN]%d", adminID)
}

func userActor(userID int64) string {
	return fmt.Sprintf("[USER]%d", userID)
}

func itoa(value int64) string {
	return fmt.Sprintf("%d", value)
}
