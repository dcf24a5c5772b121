package services

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"clientdesk/internal/models"
	"clientdesk/internal/store"
	"clientdesk/internal/websocket"
)

var errNotThisPayment = errors.New("no such payment")

// stubTxRunner hands the callback a nil tx; the store stubs below never
// touch it. A non-nil err short-circuits without running the callback.
type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubEngagements struct {
	createFn        func(ctx context.Context, userID int64, name string, startDate, endDate time.Time) (int64, error)
	insertDetailsFn func(ctx context.Context, engagementID int64, contents []string) error
	appendDetailsFn func(ctx context.Context, engagementID int64, contents []string) error
	getByIDFn       func(ctx context.Context, engagementID int64) (models.Engagement, error)
	getOwnerFn      func(ctx context.Context, engagementID int64) (int64, error)
	deleteDetailsFn func(ctx context.Context, engagementID int64) (int64, error)
	deleteFn        func(ctx context.Context, engagementID int64) (int64, error)
}

func (s *stubEngagements) Create(ctx context.Context, _ store.Tx, userID int64, name string, startDate, endDate time.Time) (int64, error) {
	return s.createFn(ctx, userID, name, startDate, endDate)
}

func (s *stubEngagements) InsertDetails(ctx context.Context, _ store.Execer, engagementID int64, contents []string) error {
	return s.insertDetailsFn(ctx, engagementID, contents)
}

func (s *stubEngagements) AppendDetails(ctx context.Context, engagementID int64, contents []string) error {
	return s.appendDetailsFn(ctx, engagementID, contents)
}

func (s *stubEngagements) GetByID(ctx context.Context, engagementID int64) (models.Engagement, error) {
	return s.getByIDFn(ctx, engagementID)
}

func (s *stubEngagements) GetOwner(ctx context.Context, _ store.Getter, engagementID int64) (int64, error) {
	return s.getOwnerFn(ctx, engagementID)
}

func (s *stubEngagements) DeleteDetails(ctx context.Context, _ store.Execer, engagementID int64) (int64, error) {
	return s.deleteDetailsFn(ctx, engagementID)
}

func (s *stubEngagements) Delete(ctx context.Context, _ store.Execer, engagementID int64) (int64, error) {
	return s.deleteFn(ctx, engagementID)
}

type stubPayments struct {
	createFn             func(ctx context.Context, engagementID int64, amount decimal.Decimal, description string) (int64, error)
	getRemainingFn       func(ctx context.Context, paymentID, engagementID int64) (decimal.Decimal, error)
	decrementFn          func(ctx context.Context, paymentID, engagementID int64, amount decimal.Decimal) (decimal.Decimal, bool, error)
	deleteByEngagementFn func(ctx context.Context, engagementID int64) (int64, error)
}

func (s *stubPayments) Create(ctx context.Context, _ store.Tx, engagementID int64, amount decimal.Decimal, description string) (int64, error) {
	return s.createFn(ctx, engagementID, amount, description)
}

func (s *stubPayments) GetRemaining(ctx context.Context, _ store.Getter, paymentID, engagementID int64) (decimal.Decimal, error) {
	return s.getRemainingFn(ctx, paymentID, engagementID)
}

func (s *stubPayments) Decrement(ctx context.Context, _ store.Getter, paymentID, engagementID int64, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	return s.decrementFn(ctx, paymentID, engagementID, amount)
}

func (s *stubPayments) DeleteByEngagement(ctx context.Context, _ store.Execer, engagementID int64) (int64, error) {
	return s.deleteByEngagementFn(ctx, engagementID)
}

// fakePaymentLedger keeps one balance and applies the same conditional
// decrement semantics as the SQL statement.
type fakePaymentLedger struct {
	paymentID    int64
	engagementID int64
	balance      decimal.Decimal
}

func (f *fakePaymentLedger) Create(_ context.Context, _ store.Tx, engagementID int64, amount decimal.Decimal, _ string) (int64, error) {
	f.engagementID = engagementID
	f.balance = amount
	return f.paymentID, nil
}

func (f *fakePaymentLedger) GetRemaining(_ context.Context, _ store.Getter, paymentID, engagementID int64) (decimal.Decimal, error) {
	if paymentID != f.paymentID || engagementID != f.engagementID {
		return decimal.Zero, errNotThisPayment
	}
	return f.balance, nil
}

func (f *fakePaymentLedger) Decrement(_ context.Context, _ store.Getter, paymentID, engagementID int64, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	if paymentID != f.paymentID || engagementID != f.engagementID {
		return decimal.Zero, false, errNotThisPayment
	}
	if f.balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	f.balance = f.balance.Sub(amount)
	return f.balance, true, nil
}

func (f *fakePaymentLedger) DeleteByEngagement(_ context.Context, _ store.Execer, _ int64) (int64, error) {
	return 1, nil
}

type stubManagedUsers struct {
	getManagedFn func(ctx context.Context, adminID, userID int64) (models.User, error)
	getByIDFn    func(ctx context.Context, userID int64) (models.User, error)
}

func (s *stubManagedUsers) GetManaged(ctx context.Context, adminID, userID int64) (models.User, error) {
	return s.getManagedFn(ctx, adminID, userID)
}

func (s *stubManagedUsers) GetByID(ctx context.Context, userID int64) (models.User, error) {
	return s.getByIDFn(ctx, userID)
}

type auditEntry struct {
	actor  string
	action string
}

type recordingAudit struct {
	entries []auditEntry
	err     error
}

func (r *recordingAudit) Log(_ context.Context, _ store.Execer, actor, action, _, _, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, auditEntry{actor: actor, action: action})
	return nil
}

type stubHotline struct {
	insertFn     func(ctx context.Context, input store.HotlineMessageInput) (models.HotlineMessage, error)
	listThreadFn func(ctx context.Context, userID, adminID int64) ([]models.HotlineMessage, error)
	markReadFn   func(ctx context.Context, userID, adminID int64, fromUser bool) (int64, error)
}

func (s *stubHotline) Insert(ctx context.Context, _ store.Tx, input store.HotlineMessageInput) (models.HotlineMessage, error) {
	return s.insertFn(ctx, input)
}

func (s *stubHotline) ListThread(ctx context.Context, _ store.Selecter, userID, adminID int64) ([]models.HotlineMessage, error) {
	return s.listThreadFn(ctx, userID, adminID)
}

func (s *stubHotline) MarkRead(ctx context.Context, _ store.Execer, userID, adminID int64, fromUser bool) (int64, error) {
	return s.markReadFn(ctx, userID, adminID, fromUser)
}

type recordingHub struct {
	keys   []string
	events []websocket.MessageEvent
}

func (r *recordingHub) BroadcastMessage(key string, event websocket.MessageEvent) {
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
}
