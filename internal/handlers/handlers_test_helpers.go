package handlers

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"clientdesk/internal/config"
	"clientdesk/internal/models"
	"clientdesk/internal/services"
	"clientdesk/internal/store"
	"clientdesk/internal/websocket"
)

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubUsers struct {
	createFn               func(ctx context.Context, input store.UserInput) (int64, error)
	getByUsernameFn        func(ctx context.Context, username string) (models.User, error)
	getByIDFn              func(ctx context.Context, userID int64) (models.User, error)
	getManagedFn           func(ctx context.Context, adminID, userID int64) (models.User, error)
	getManagedByUsernameFn func(ctx context.Context, adminID int64, username string) (models.User, error)
	getPasswordHashFn      func(ctx context.Context, userID int64) (string, error)
	updatePasswordHashFn   func(ctx context.Context, userID int64, currentHash, newHash string) (int64, error)
}

func (s *stubUsers) Create(ctx context.Context, _ store.Tx, input store.UserInput) (int64, error) {
	return s.createFn(ctx, input)
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getByUsernameFn(ctx, username)
}

func (s *stubUsers) GetByID(ctx context.Context, userID int64) (models.User, error) {
	return s.getByIDFn(ctx, userID)
}

func (s *stubUsers) GetManaged(ctx context.Context, adminID, userID int64) (models.User, error) {
	if s.getManagedFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getManagedFn(ctx, adminID, userID)
}

func (s *stubUsers) GetManagedByUsername(ctx context.Context, adminID int64, username string) (models.User, error) {
	if s.getManagedByUsernameFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getManagedByUsernameFn(ctx, adminID, username)
}

func (s *stubUsers) GetPasswordHash(ctx context.Context, _ store.Getter, userID int64) (string, error) {
	return s.getPasswordHashFn(ctx, userID)
}

func (s *stubUsers) UpdatePasswordHash(ctx context.Context, _ store.Execer, userID int64, currentHash, newHash string) (int64, error) {
	return s.updatePasswordHashFn(ctx, userID, currentHash, newHash)
}

type stubAdmins struct {
	createFn             func(ctx context.Context, username, passwordHash, name string) (int64, error)
	getByUsernameFn      func(ctx context.Context, username string) (models.Admin, error)
	getByIDFn            func(ctx context.Context, adminID int64) (models.Admin, error)
	getPasswordHashFn    func(ctx context.Context, adminID int64) (string, error)
	updatePasswordHashFn func(ctx context.Context, adminID int64, currentHash, newHash string) (int64, error)
}

func (s *stubAdmins) Create(ctx context.Context, _ store.Tx, username, passwordHash, name string) (int64, error) {
	return s.createFn(ctx, username, passwordHash, name)
}

func (s *stubAdmins) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	if s.getByUsernameFn == nil {
		return models.Admin{}, sql.ErrNoRows
	}
	return s.getByUsernameFn(ctx, username)
}

func (s *stubAdmins) GetByID(ctx context.Context, adminID int64) (models.Admin, error) {
	return s.getByIDFn(ctx, adminID)
}

func (s *stubAdmins) GetPasswordHash(ctx context.Context, _ store.Getter, adminID int64) (string, error) {
	return s.getPasswordHashFn(ctx, adminID)
}

func (s *stubAdmins) UpdatePasswordHash(ctx context.Context, _ store.Execer, adminID int64, currentHash, newHash string) (int64, error) {
	return s.updatePasswordHashFn(ctx, adminID, currentHash, newHash)
}

type stubEngagements struct {
	getByIDFn      func(ctx context.Context, engagementID int64) (models.Engagement, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]store.EngagementWithDetail, error)
	listDetailsFn  func(ctx context.Context, engagementID int64) ([]models.Detail, error)
	deleteDetailFn func(ctx context.Context, detailID int64) (int64, error)
}

func (s *stubEngagements) GetByID(ctx context.Context, engagementID int64) (models.Engagement, error) {
	return s.getByIDFn(ctx, engagementID)
}

func (s *stubEngagements) ListByUser(ctx context.Context, userID int64) ([]store.EngagementWithDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s *stubEngagements) ListDetails(ctx context.Context, engagementID int64) ([]models.Detail, error) {
	return s.listDetailsFn(ctx, engagementID)
}

func (s *stubEngagements) DeleteDetail(ctx context.Context, detailID int64) (int64, error) {
	return s.deleteDetailFn(ctx, detailID)
}

type noopAudit struct{}

func (noopAudit) Log(_ context.Context, _ store.Execer, _, _, _, _, _ string) error {
	return nil
}

type stubLedger struct {
	createEngagementFn func(ctx context.Context, req services.CreateEngagementRequest) (int64, error)
	deleteEngagementFn func(ctx context.Context, adminID, engagementID int64) error
	appendDetailsFn    func(ctx context.Context, adminID, engagementID int64, contents []string) error
	requestPaymentFn   func(ctx context.Context, req services.RequestPaymentRequest) (int64, error)
	applyPaymentFn     func(ctx context.Context, req services.ApplyPaymentRequest) (services.PaymentResult, error)
}

func (s *stubLedger) CreateEngagement(ctx context.Context, req services.CreateEngagementRequest) (int64, error) {
	return s.createEngagementFn(ctx, req)
}

func (s *stubLedger) DeleteEngagement(ctx context.Context, adminID, engagementID int64) error {
	return s.deleteEngagementFn(ctx, adminID, engagementID)
}

func (s *stubLedger) AppendDetails(ctx context.Context, adminID, engagementID int64, contents []string) error {
	return s.appendDetailsFn(ctx, adminID, engagementID, contents)
}

func (s *stubLedger) RequestPayment(ctx context.Context, req services.RequestPaymentRequest) (int64, error) {
	return s.requestPaymentFn(ctx, req)
}

func (s *stubLedger) ApplyPayment(ctx context.Context, req services.ApplyPaymentRequest) (services.PaymentResult, error) {
	return s.applyPaymentFn(ctx, req)
}

type stubHotlineSvc struct {
	resolveForUserFn  func(ctx context.Context, userID int64) (services.Thread, error)
	resolveForAdminFn func(ctx context.Context, adminID, userID int64) (services.Thread, error)
	fetchFn           func(ctx context.Context, thread services.Thread, readerIsUser bool) (services.FetchResult, error)
	postFn            func(ctx context.Context, thread services.Thread, fromUser bool, content string) (models.HotlineMessage, error)
}

func (s *stubHotlineSvc) ResolveForUser(ctx context.Context, userID int64) (services.Thread, error) {
	return s.resolveForUserFn(ctx, userID)
}

func (s *stubHotlineSvc) ResolveForAdmin(ctx context.Context, adminID, userID int64) (services.Thread, error) {
	return s.resolveForAdminFn(ctx, adminID, userID)
}

func (s *stubHotlineSvc) Fetch(ctx context.Context, thread services.Thread, readerIsUser bool) (services.FetchResult, error) {
	return s.fetchFn(ctx, thread, readerIsUser)
}

func (s *stubHotlineSvc) Post(ctx context.Context, thread services.Thread, fromUser bool, content string) (models.HotlineMessage, error) {
	return s.postFn(ctx, thread, fromUser, content)
}

type handlerOverrides struct {
	users   UserStore
	admins  AdminStore
	eng     EngagementStore
	ledger  LedgerService
	hotline HotlineService
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		UserSecretKey:  "test-user-secret",
		AdminSecretKey: "test-admin-secret",
		TokenTTL:       168 * time.Hour,
		BcryptCost:     4,
		MasterAdminID:  1,
		AllowedOrigins: "*",
	}
}

func newTestHandler(o handlerOverrides) *Handler {
	if o.users == nil {
		o.users = &stubUsers{}
	}
	if o.admins == nil {
		o.admins = &stubAdmins{}
	}
	if o.eng == nil {
		o.eng = &stubEngagements{}
	}
	return New(testConfig(), zap.NewNop(), stubTxRunner{}, o.users, o.admins, o.eng, noopAudit{}, o.ledger, o.hotline, websocket.NewHub())
}
