package handlers

import (
	"context"

	"clientdesk/internal/models"
	"clientdesk/internal/services"
	"clientdesk/internal/store"
)

// UserStore is the slice of the user store the handlers need.
type UserStore interface {
	Create(ctx context.Context, tx store.Tx, input store.UserInput) (int64, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetManaged(ctx context.Context, adminID, userID int64) (models.User, error)
	GetManagedByUsername(ctx context.Context, adminID int64, username string) (models.User, error)
	GetPasswordHash(ctx context.Context, tx store.Getter, userID int64) (string, error)
	UpdatePasswordHash(ctx context.Context, tx store.Execer, userID int64, currentHash, newHash string) (int64, error)
}

// AdminStore is the slice of the admin store the handlers need.
type AdminStore interface {
	Create(ctx context.Context, tx store.Tx, username, passwordHash, name string) (int64, error)
	GetByUsername(ctx context.Context, username string) (models.Admin, error)
	GetByID(ctx context.Context, adminID int64) (models.Admin, error)
	GetPasswordHash(ctx context.Context, tx store.Getter, adminID int64) (string, error)
	UpdatePasswordHash(ctx context.Context, tx store.Execer, adminID int64, currentHash, newHash string) (int64, error)
}

// EngagementStore covers the read paths served directly from handlers.
type EngagementStore interface {
	GetByID(ctx context.Context, engagementID int64) (models.Engagement, error)
	ListByUser(ctx context.Context, userID int64) ([]store.EngagementWithDetail, error)
	ListDetails(ctx context.Context, engagementID int64) ([]models.Detail, error)
	DeleteDetail(ctx context.Context, detailID int64) (int64, error)
}

// AuditStore records actor activity.
type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actor, action, entityType, entityID, data string) error
}

// LedgerService drives engagement and payment workflows.
type LedgerService interface {
	CreateEngagement(ctx context.Context, req services.CreateEngagementRequest) (int64, error)
	DeleteEngagement(ctx context.Context, adminID, engagementID int64) error
	AppendDetails(ctx context.Context, adminID, engagementID int64, contents []string) error
	RequestPayment(ctx context.Context, req services.RequestPaymentRequest) (int64, error)
	ApplyPayment(ctx context.Context, req services.ApplyPaymentRequest) (services.PaymentResult, error)
}

// HotlineService drives the messaging channel.
type HotlineService interface {
	ResolveForUser(ctx context.Context, userID int64) (services.Thread, error)
	ResolveForAdmin(ctx context.Context, adminID, userID int64) (services.Thread, error)
	Fetch(ctx context.Context, thread services.Thread, readerIsUser bool) (services.FetchResult, error)
	Post(ctx context.Context, thread services.Thread, fromUser bool, content string) (models.HotlineMessage, error)
}
